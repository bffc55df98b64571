package sigbatch

import (
	"fmt"
	"strconv"
)

// ID identifies one record within a batch. Identifiers are opaque; stability
// is only guaranteed within a single batch lifetime, any operation changing
// record cardinality regenerates them as a dense run.
type ID string

// Index maps between positional offsets and stable record identifiers. All
// component arrays of a batch have exactly Len entries, in index order.
type Index struct {
	ids       []ID
	positions map[ID]int
}

// NewIndex builds an Index from an explicit ordered sequence of identifiers.
// Duplicate identifiers are a configuration error.
func NewIndex(ids []ID) (*Index, error) {
	positions := make(map[ID]int, len(ids))
	for pos, id := range ids {
		if _, seen := positions[id]; seen {
			return nil, fmt.Errorf("%w: %s at offsets %d and %d", ErrDuplicateID, id, positions[id], pos)
		}
		positions[id] = pos
	}
	return &Index{ids: append([]ID(nil), ids...), positions: positions}, nil
}

// NewRangeIndex builds a dense Index of n freshly generated identifiers
// ("0" .. "n-1"), used whenever a batch is reassembled after a cardinality
// change.
func NewRangeIndex(n int) *Index {
	ids := make([]ID, n)
	for i := range ids {
		ids[i] = ID(strconv.Itoa(i))
	}
	index, _ := NewIndex(ids) // dense range cannot contain duplicates
	return index
}

// Len returns the number of identifiers.
func (ix *Index) Len() int { return len(ix.ids) }

// IDs returns the identifiers in index order. The returned slice is a copy.
func (ix *Index) IDs() []ID {
	return append([]ID(nil), ix.ids...)
}

// At returns the identifier at offset pos.
func (ix *Index) At(pos int) ID { return ix.ids[pos] }

// PositionOf returns the offset of id.
func (ix *Index) PositionOf(id ID) (int, error) {
	pos, ok := ix.positions[id]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return pos, nil
}

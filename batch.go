package sigbatch

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Batch is a group of records sharing one Index and parallel component
// arrays. Every component has exactly Len entries, in index order; any
// operation either upholds that invariant or fails without partially updating
// a component.
//
// A batch exclusively owns its component arrays. The label universe is the
// one exception: it is owned by the surrounding pipeline and only read here.
type Batch struct {
	index *Index
	uid   uuid.UUID

	signal     []Signal
	annotation []Annotation
	meta       []Meta
	target     []string

	labels *LabelSet
}

// NewBatch creates an empty batch for the given index: nil signals, empty
// annotations and metas, empty targets.
func NewBatch(index *Index, labels *LabelSet) *Batch {
	n := index.Len()
	b := &Batch{
		index:      index,
		uid:        uuid.New(),
		signal:     make([]Signal, n),
		annotation: make([]Annotation, n),
		meta:       make([]Meta, n),
		target:     make([]string, n),
		labels:     labels,
	}
	for i := 0; i < n; i++ {
		b.annotation[i] = Annotation{}
		b.meta[i] = Meta{}
	}
	return b
}

// newBatchFromRecords builds a batch whose components come from records, in
// order. len(records) must equal index.Len; callers uphold that.
func newBatchFromRecords(index *Index, records []Record, labels *LabelSet) *Batch {
	return &Batch{
		index:      index,
		uid:        uuid.New(),
		signal:     lo.Map(records, func(r Record, _ int) Signal { return r.Signal }),
		annotation: lo.Map(records, func(r Record, _ int) Annotation { return r.Annotation }),
		meta:       lo.Map(records, func(r Record, _ int) Meta { return r.Meta }),
		target:     lo.Map(records, func(r Record, _ int) string { return r.Target }),
		labels:     labels,
	}
}

// UID is the identity of this batch object, used in logs and diagnostics. It
// is regenerated whenever a new batch is assembled.
func (b *Batch) UID() uuid.UUID { return b.uid }

// Index returns the record index of the batch.
func (b *Batch) Index() *Index { return b.index }

// Len returns the number of records.
func (b *Batch) Len() int { return b.index.Len() }

// Empty reports whether the batch holds no records. An empty batch is a
// terminal skip state for a pipeline step, not an error.
func (b *Batch) Empty() bool { return b == nil || b.Len() == 0 }

// Labels returns the label universe the batch reads from, nil if unset.
func (b *Batch) Labels() *LabelSet { return b.labels }

// Record returns the record at offset pos. Components are shared with the
// batch, not copied.
func (b *Batch) Record(pos int) Record {
	return Record{
		Signal:     b.signal[pos],
		Annotation: b.annotation[pos],
		Meta:       b.meta[pos],
		Target:     b.target[pos],
		ID:         b.index.At(pos),
	}
}

// ByID returns the record identified by id.
func (b *Batch) ByID(id ID) (Record, error) {
	pos, err := b.index.PositionOf(id)
	if err != nil {
		return Record{}, err
	}
	return b.Record(pos), nil
}

// Records returns all records in index order, sharing components with the
// batch.
func (b *Batch) Records() []Record {
	return lo.Times(b.Len(), b.Record)
}

// SetRecord replaces the components at offset pos in place. The record
// identifier is not changed; 1:1 operations mutate a batch this way.
func (b *Batch) SetRecord(pos int, rec Record) {
	b.signal[pos] = rec.Signal
	b.annotation[pos] = rec.Annotation
	b.meta[pos] = rec.Meta
	b.target[pos] = rec.Target
}

// SetTargets sets the target component, one label per record.
func (b *Batch) SetTargets(targets []string) error {
	if len(targets) != b.Len() {
		return fmt.Errorf("%w: %d targets for %d records", ErrAssembly, len(targets), b.Len())
	}
	b.target = append([]string(nil), targets...)
	return nil
}

// Targets returns a copy of the target component.
func (b *Batch) Targets() []string {
	return append([]string(nil), b.target...)
}

// Clone returns a deep copy of the batch's owned components. The label
// universe is externally owned and stays shared, the uid is regenerated.
func (b *Batch) Clone() *Batch {
	clone := newBatchFromRecords(b.index, lo.Map(b.Records(), func(r Record, _ int) Record {
		return r.Clone()
	}), b.labels)
	return clone
}

// Filter builds a new batch keeping only the records with a true mask entry,
// preserving identifiers and order. Filtering everything out yields a valid
// empty batch which callers at the step boundary treat as a skip.
func (b *Batch) Filter(keep []bool) (*Batch, error) {
	if len(keep) != b.Len() {
		return nil, fmt.Errorf("%w: mask of %d for %d records", ErrAssembly, len(keep), b.Len())
	}
	survivors := lo.Filter(b.Records(), func(_ Record, pos int) bool { return keep[pos] })
	index, err := NewIndex(lo.Map(survivors, func(r Record, _ int) ID { return r.ID }))
	if err != nil {
		return nil, err
	}
	return newBatchFromRecords(index, survivors, b.labels), nil
}

// DropShortSignals filters out records whose sample-axis length is below
// minLength.
func (b *Batch) DropShortSignals(minLength int) (*Batch, error) {
	return b.Filter(lo.Map(b.signal, func(s Signal, _ int) bool {
		return s.Samples() >= minLength
	}))
}

// validate checks the parallel-array invariant, returning ErrAssembly on a
// violation.
func (b *Batch) validate() error {
	n := b.index.Len()
	if len(b.signal) != n || len(b.annotation) != n || len(b.meta) != n || len(b.target) != n {
		return fmt.Errorf("%w: components %d/%d/%d/%d for index of %d",
			ErrAssembly, len(b.signal), len(b.annotation), len(b.meta), len(b.target), n)
	}
	return nil
}

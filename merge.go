package sigbatch

import (
	"fmt"

	"github.com/samber/lo"
)

// Merge concatenates the components of all non-empty input batches, in input
// order, into one batch under a fresh dense index. The result is a deep copy
// of the inputs' data, label universe included, so it never aliases them.
// Merging nothing yields nil.
func Merge(batches []*Batch) *Batch {
	records, labels := concatBatches(batches)
	if records == nil {
		return nil
	}
	return batchFromDense(records, labels)
}

// Rebalance is Merge followed by a split: the first size records become the
// front batch, the rest the remainder. The remainder is nil when nothing is
// left over. A non-positive size fails with ErrInvalidSize; use Merge when no
// target size applies.
//
// Rebalance is a pure function of its inputs: same inputs, same front and
// remainder.
func Rebalance(batches []*Batch, size int) (front, rest *Batch, err error) {
	if size < 1 {
		return nil, nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	records, labels := concatBatches(batches)
	if records == nil {
		return nil, nil, nil
	}
	if size >= len(records) {
		return batchFromDense(records, labels), nil, nil
	}
	return batchFromDense(records[:size], labels), batchFromDense(records[size:], labels.Clone()), nil
}

// concatBatches deep-copies and concatenates the records of all non-empty
// batches, in input order, along with a copy of the label universe.
func concatBatches(batches []*Batch) ([]Record, *LabelSet) {
	alive := lo.Filter(batches, func(b *Batch, _ int) bool { return !b.Empty() })
	if len(alive) == 0 {
		return nil, nil
	}
	records := lo.FlatMap(alive, func(b *Batch, _ int) []Record {
		return lo.Map(b.Records(), func(r Record, _ int) Record { return r.Clone() })
	})
	return records, alive[0].Labels().Clone()
}

// batchFromDense rebuilds a batch from records under a fresh dense index,
// reassigning identifiers positionally.
func batchFromDense(records []Record, labels *LabelSet) *Batch {
	index := NewRangeIndex(len(records))
	for i := range records {
		records[i].ID = index.At(i)
	}
	return newBatchFromRecords(index, records, labels)
}

package sigbatch

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/samber/lo"
)

// LabelSet is the evolving label universe of a dataset: the sorted set of
// known target labels, used for one-hot encoding and label filtering.
//
// It is a single-writer resource owned by pipeline-level code; batches and
// the tasks running inside a dispatch only ever read it.
type LabelSet struct {
	labels []string
}

// NewLabelSet builds a label universe from the given labels, deduplicated
// and sorted.
func NewLabelSet(labels ...string) *LabelSet {
	return &LabelSet{labels: sortedUnique(labels)}
}

func sortedUnique(labels []string) []string {
	out := lo.Uniq(labels)
	sort.Strings(out)
	return out
}

// Labels returns the known labels in sorted order. The returned slice is a
// copy.
func (ls *LabelSet) Labels() []string {
	return append([]string(nil), ls.labels...)
}

// Len returns the number of known labels.
func (ls *LabelSet) Len() int { return len(ls.labels) }

// Clone returns an independent copy, so that merged batches never alias the
// inputs' universe.
func (ls *LabelSet) Clone() *LabelSet {
	if ls == nil {
		return nil
	}
	return &LabelSet{labels: append([]string(nil), ls.labels...)}
}

// Drop removes the given labels from the universe.
func (ls *LabelSet) Drop(labels ...string) {
	ls.labels = lo.Without(ls.labels, labels...)
}

// Keep restricts the universe to the given labels.
func (ls *LabelSet) Keep(labels ...string) {
	ls.labels = lo.Filter(ls.labels, func(l string, _ int) bool {
		return lo.Contains(labels, l)
	})
}

// Replace renames labels according to mapping, keeping unmapped labels as
// they are.
func (ls *LabelSet) Replace(mapping map[string]string) {
	ls.labels = sortedUnique(lo.Map(ls.labels, func(l string, _ int) string {
		if to, ok := mapping[l]; ok {
			return to
		}
		return l
	}))
}

// OneHot encodes label against the universe: a dense vector with a single 1
// at the label's position, all zeros for an unknown label.
func (ls *LabelSet) OneHot(label string) []float64 {
	row := make([]float64, len(ls.labels))
	if pos := lo.IndexOf(ls.labels, label); pos >= 0 {
		row[pos] = 1
	}
	return row
}

// LoadTargets reads a headerless two-column CSV (record identifier, label)
// and sets the batch's target component from it, record by record. Every
// record of the batch must appear in the file.
func (b *Batch) LoadTargets(r io.Reader) error {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return fmt.Errorf("reading labels: %w", err)
	}
	byID := make(map[ID]string, len(rows))
	for _, row := range rows {
		if len(row) != 2 {
			return fmt.Errorf("reading labels: expected 2 columns, got %d", len(row))
		}
		byID[ID(row[0])] = row[1]
	}
	targets := make([]string, b.Len())
	for pos, id := range b.index.IDs() {
		label, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: no label for %s", ErrNotFound, id)
		}
		targets[pos] = label
	}
	return b.SetTargets(targets)
}

// DropLabels filters out the records whose target is in drop, shrinking the
// label universe accordingly.
func (b *Batch) DropLabels(drop ...string) (*Batch, error) {
	if b.labels != nil {
		b.labels.Drop(drop...)
	}
	return b.Filter(lo.Map(b.target, func(t string, _ int) bool {
		return !lo.Contains(drop, t)
	}))
}

// KeepLabels keeps only the records whose target is in keep, restricting the
// label universe accordingly.
func (b *Batch) KeepLabels(keep ...string) (*Batch, error) {
	if b.labels != nil {
		b.labels.Keep(keep...)
	}
	return b.Filter(lo.Map(b.target, func(t string, _ int) bool {
		return lo.Contains(keep, t)
	}))
}

// ReplaceLabels renames targets according to mapping, in place, updating the
// label universe.
func (b *Batch) ReplaceLabels(mapping map[string]string) {
	if b.labels != nil {
		b.labels.Replace(mapping)
	}
	b.target = lo.Map(b.target, func(t string, _ int) string {
		if to, ok := mapping[t]; ok {
			return to
		}
		return t
	})
}

// BinarizeTargets one-hot encodes every record's target against the batch's
// label universe, one row per record in index order.
func (b *Batch) BinarizeTargets() ([][]float64, error) {
	if b.labels == nil {
		return nil, fmt.Errorf("%w: batch has no label universe", ErrNotFound)
	}
	return lo.Map(b.target, func(t string, _ int) []float64 {
		return b.labels.OneHot(t)
	}), nil
}

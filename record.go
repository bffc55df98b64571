package sigbatch

import "github.com/samber/lo"

// Signal is one record's numeric payload, channels x samples (one row per
// channel). Rows may differ in meaning but never in length within a record.
type Signal [][]float64

// Channels returns the number of channels.
func (s Signal) Channels() int { return len(s) }

// Samples returns the sample-axis length, 0 for an empty signal.
func (s Signal) Samples() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}

// Clone returns an independently owned copy of the signal.
func (s Signal) Clone() Signal {
	return lo.Map(s, func(channel []float64, _ int) []float64 {
		return append([]float64(nil), channel...)
	})
}

// Annotation holds per-record annotations, independently owned per record.
type Annotation map[string]any

// Meta holds per-record metadata (sampling rate, provenance, derived report
// fields), independently owned per record.
type Meta map[string]any

// Well-known meta keys.
const (
	// MetaFS is the sampling rate of a record, in Hz.
	MetaFS = "fs"
	// MetaOrigin is the identifier of the record a derived record was
	// expanded from. Merge and Rebalance copy meta wholesale, so the
	// grouping key survives rebalancing after an expansion.
	MetaOrigin = "origin"
	// MetaSigLen is the effective sample-axis length after segmentation.
	MetaSigLen = "siglen"
)

// CloneValue deep-copies the values sigbatch itself stores in annotations and
// metas: scalars, strings, float slices, signals and nested maps. Values of
// other types are returned as-is; callers storing their own mutable types in
// a record are responsible for not sharing them across records.
func CloneValue(v any) any {
	switch val := v.(type) {
	case Annotation:
		return Annotation(cloneAnyMap(val))
	case Meta:
		return Meta(cloneAnyMap(val))
	case map[string]any:
		return cloneAnyMap(val)
	case Signal:
		return val.Clone()
	case [][]float64:
		return [][]float64(Signal(val).Clone())
	case []float64:
		return append([]float64(nil), val...)
	case []int:
		return append([]int(nil), val...)
	case []string:
		return append([]string(nil), val...)
	case []ID:
		return append([]ID(nil), val...)
	default:
		return v
	}
}

func cloneAnyMap[M ~map[string]any](m M) map[string]any {
	return lo.MapEntries(map[string]any(m), func(k string, v any) (string, any) {
		return k, CloneValue(v)
	})
}

// Clone returns an independent deep copy of the annotation.
func (a Annotation) Clone() Annotation {
	if a == nil {
		return Annotation{}
	}
	return Annotation(cloneAnyMap(a))
}

// Clone returns an independent deep copy of the meta.
func (m Meta) Clone() Meta {
	if m == nil {
		return Meta{}
	}
	return Meta(cloneAnyMap(m))
}

// Record is one logical unit of a batch: signal plus its annotation, meta and
// optional target label, identified by a stable key within its batch.
type Record struct {
	Signal     Signal
	Annotation Annotation
	Meta       Meta
	Target     string
	ID         ID
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	return Record{
		Signal:     r.Signal.Clone(),
		Annotation: r.Annotation.Clone(),
		Meta:       r.Meta.Clone(),
		Target:     r.Target,
		ID:         r.ID,
	}
}

// Worker is the per-record operation contract: it maps one record to Drop,
// Keep or Expand. A worker may mix outcomes across the records of one batch.
type Worker func(Record) (Output, error)

// Output is the tagged union of worker outcomes. The zero value is a drop.
type Output struct {
	records []Record
	kept    bool
}

// Drop reports that the record produced no output (e.g. it was noise).
func Drop() Output { return Output{} }

// Keep replaces the record 1:1.
func Keep(rec Record) Output { return Output{records: []Record{rec}, kept: true} }

// Expand replaces the record with any number of derived records. An empty
// expansion is a drop, a single-record expansion is a replace.
func Expand(recs ...Record) Output {
	return Output{records: recs, kept: len(recs) > 0}
}

// Dropped reports whether the outcome carries no records.
func (o Output) Dropped() bool { return !o.kept || len(o.records) == 0 }

// Multiplicity returns the number of records carried by the outcome.
func (o Output) Multiplicity() int {
	if o.Dropped() {
		return 0
	}
	return len(o.records)
}

// Records returns the carried records, nil for a drop.
func (o Output) Records() []Record {
	if o.Dropped() {
		return nil
	}
	return o.records
}

package sigbatch

import (
	"fmt"

	"github.com/samber/lo"
)

// assemblyInput pairs one surviving output with the identifier of the record
// that produced it.
type assemblyInput struct {
	parent ID
	out    Output
}

// Assemble converts ordered per-record worker outputs into a new coherent
// batch. outs[i] must be the outcome for the record identified by parents[i];
// the Dispatcher's ordering guarantee is what makes this zip correct.
//
// Dropped outputs are removed first. If every remaining multiplicity is 1 the
// surviving identifiers are preserved in their original order (replace/filter
// case). As soon as any record expands, identifiers lose their 1:1 meaning:
// a dense index is regenerated, every output record gets an independent deep
// copy of its annotation and meta, and the meta is tagged with the parent
// identifier under MetaOrigin.
//
// All records being dropped yields a valid empty batch, not an error.
func Assemble(parents []ID, outs []Output, labels *LabelSet) (*Batch, error) {
	if len(parents) != len(outs) {
		return nil, fmt.Errorf("%w: %d outputs for %d records", ErrAssembly, len(outs), len(parents))
	}

	survivors := lo.FilterMap(outs, func(out Output, i int) (assemblyInput, bool) {
		return assemblyInput{parent: parents[i], out: out}, !out.Dropped()
	})
	for _, in := range survivors {
		for _, rec := range in.out.Records() {
			if err := checkRectangular(rec.Signal); err != nil {
				return nil, fmt.Errorf("%w (from record %s)", err, in.parent)
			}
		}
	}

	expanded := lo.SomeBy(survivors, func(in assemblyInput) bool {
		return in.out.Multiplicity() > 1
	})
	if !expanded {
		// Replace/filter case: one output record per survivor, original
		// identifiers in original order.
		index, err := NewIndex(lo.Map(survivors, func(in assemblyInput, _ int) ID { return in.parent }))
		if err != nil {
			return nil, err
		}
		records := lo.Map(survivors, func(in assemblyInput, _ int) Record {
			rec := in.out.Records()[0]
			rec.ID = in.parent
			return rec
		})
		return newBatchFromRecords(index, records, labels), nil
	}

	// Expansion case: concatenate all output records in survivor order under
	// a fresh dense index. Annotation and meta are deep-copied per child so
	// that broadcast values never alias between siblings or the parent, and
	// each meta records its lineage.
	var records []Record
	for _, in := range survivors {
		for _, rec := range in.out.Records() {
			rec.Annotation = rec.Annotation.Clone()
			rec.Meta = rec.Meta.Clone()
			rec.Meta[MetaOrigin] = in.parent
			records = append(records, rec)
		}
	}
	index := NewRangeIndex(len(records))
	for i := range records {
		records[i].ID = index.At(i)
	}
	batch := newBatchFromRecords(index, records, labels)
	if err := batch.validate(); err != nil {
		return nil, err
	}
	return batch, nil
}

// checkRectangular rejects signals whose channels differ in length, the
// telltale of a worker returning payload shapes inconsistent with its
// declared multiplicity.
func checkRectangular(s Signal) error {
	for ch := 1; ch < len(s); ch++ {
		if len(s[ch]) != len(s[0]) {
			return fmt.Errorf("%w: channel %d has %d samples, channel 0 has %d",
				ErrAssembly, ch, len(s[ch]), len(s[0]))
		}
	}
	return nil
}

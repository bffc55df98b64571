package sigbatch

import (
	"github.com/samber/lo"
)

// MapWorker is the 1:1 restriction of Worker, for operations that never
// change record cardinality.
type MapWorker func(Record) (Record, error)

// ChannelFunc transforms one channel of a signal.
type ChannelFunc func(samples []float64) []float64

// tasksFor binds worker to every record of the batch, one task per record,
// in index order.
func (b *Batch) tasksFor(worker Worker) []Task {
	return lo.Map(b.Records(), func(rec Record, _ int) Task {
		return Task{ID: rec.ID, Do: func() (Output, error) { return worker(rec) }}
	})
}

// Apply dispatches worker across all records of the batch and assembles the
// outputs into a new batch. Worker failures are aggregated into one
// *DispatchError naming every failing record; the input batch is left
// untouched in that case.
func (b *Batch) Apply(d *Dispatcher, worker Worker) (*Batch, error) {
	outs, err := Collect(d.Dispatch(b.tasksFor(worker)))
	if err != nil {
		return nil, err
	}
	return Assemble(b.index.IDs(), outs, b.labels)
}

// ApplyFiltered is Apply restricted to the records with a true mask entry:
// one task per record-to-survive, masked-out records are dropped up front
// without running the worker.
func (b *Batch) ApplyFiltered(d *Dispatcher, worker Worker, keep []bool) (*Batch, error) {
	filtered, err := b.Filter(keep)
	if err != nil {
		return nil, err
	}
	return filtered.Apply(d, worker)
}

// Update runs a 1:1 worker across all records and writes the results back in
// place, preserving index and length. Concurrent tasks write only to their
// own record's slot. On any worker failure no slot is written at all, so the
// batch never ends up partially updated.
func (b *Batch) Update(d *Dispatcher, worker MapWorker) error {
	outs, err := Collect(d.Dispatch(b.tasksFor(func(rec Record) (Output, error) {
		out, err := worker(rec)
		if err != nil {
			return Output{}, err
		}
		return Keep(out), nil
	})))
	if err != nil {
		return err
	}
	for pos, out := range outs {
		b.SetRecord(pos, out.Records()[0])
	}
	return nil
}

// EachChannel lifts a per-channel function into a 1:1 worker applying it to
// every channel of the record's signal.
func EachChannel(fn ChannelFunc) MapWorker {
	return func(rec Record) (Record, error) {
		rec.Signal = lo.Map(rec.Signal, func(samples []float64, _ int) []float64 {
			return fn(samples)
		})
		return rec, nil
	}
}

// Unstack is an expansion worker turning each channel of a record into a
// separate single-channel record. Annotation and meta duplication is handled
// by Assemble.
func Unstack(rec Record) (Output, error) {
	return Expand(lo.Map(rec.Signal, func(channel []float64, _ int) Record {
		return Record{
			Signal:     Signal{channel},
			Annotation: rec.Annotation,
			Meta:       rec.Meta,
			Target:     rec.Target,
			ID:         rec.ID,
		}
	})...), nil
}

package sigbatch

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Step receives a batch and returns a batch, possibly empty. A step must not
// mutate its input batch if it also returns a new one.
type Step func(*Batch) (*Batch, error)

// Chain links several steps into one. An empty batch short-circuits the
// remaining steps for that batch.
func Chain(steps ...Step) Step {
	return func(b *Batch) (*Batch, error) {
		for _, step := range steps {
			if b.Empty() {
				return b, nil
			}
			next, err := step(b)
			if err != nil {
				return nil, err
			}
			b = next
		}
		return b, nil
	}
}

// Pipeline runs batches through a chain of steps, isolating per-batch
// failures: a failing batch is dropped and logged, never fatal to the
// pipeline. It owns the label universe read by the batches it emits.
type Pipeline struct {
	step   Step
	labels *LabelSet
	logger *zap.Logger
	runID  uuid.UUID
}

// PipelineOption tunes a Pipeline.
type PipelineOption func(*Pipeline)

// WithLogger sets the pipeline logger. Defaults to zap.NewNop.
func WithLogger(logger *zap.Logger) PipelineOption {
	return func(p *Pipeline) { p.logger = logger }
}

// WithLabels hands the pipeline the label universe it owns. Steps and
// parallel tasks only read it; the pipeline is its single writer.
func WithLabels(labels *LabelSet) PipelineOption {
	return func(p *Pipeline) { p.labels = labels }
}

// NewPipeline builds a pipeline running the given steps in order.
func NewPipeline(steps []Step, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		step:   Chain(steps...),
		logger: zap.NewNop(),
		runID:  uuid.New(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With(zap.Stringer("run", p.runID))
	return p
}

// Labels returns the pipeline-owned label universe, nil if unset.
func (p *Pipeline) Labels() *LabelSet { return p.labels }

// Wrap binds a batch to the pipeline's label universe. Call it once per
// batch on entry.
func (p *Pipeline) Wrap(b *Batch) *Batch {
	b.labels = p.labels
	return b
}

// Process runs one batch through the steps. An empty result is a skip, not
// an error; a step failure is returned and the input batch stands dropped.
func (p *Pipeline) Process(b *Batch) (*Batch, error) {
	out, err := p.step(p.Wrap(b))
	if err != nil {
		p.logger.Warn("batch failed",
			zap.Stringer("batch", b.UID()),
			zap.Int("records", b.Len()),
			zap.Error(err))
		return nil, err
	}
	if out.Empty() {
		p.logger.Debug("batch emptied, skipping downstream steps",
			zap.Stringer("batch", b.UID()))
	}
	return out, nil
}

// Run consumes batches from in, processes each and emits the non-empty
// survivors. Failed batches are dropped and logged; the channel closes when
// in is drained.
func (p *Pipeline) Run(in <-chan *Batch) <-chan *Batch {
	out := make(chan *Batch)
	go func() {
		defer close(out)
		for b := range in {
			processed, err := p.Process(b)
			if err != nil || processed.Empty() {
				continue
			}
			out <- processed
		}
	}()
	return out
}

// RunRebalanced is Run with a rebalancing tail: upstream filtering and
// expansion make batch sizes unpredictable, so processed batches are
// concatenated and re-split to emit fixed batches of size records. The final
// remainder, if any, is emitted as a short last batch.
func (p *Pipeline) RunRebalanced(in <-chan *Batch, size int) (<-chan *Batch, error) {
	if size < 1 {
		return nil, ErrInvalidSize
	}
	processed := p.Run(in)
	out := make(chan *Batch)
	go func() {
		defer close(out)
		var pending *Batch
		for b := range processed {
			pending = Merge([]*Batch{pending, b})
			for !pending.Empty() && pending.Len() >= size {
				front, rest, _ := Rebalance([]*Batch{pending}, size)
				out <- front
				pending = rest
			}
		}
		if !pending.Empty() {
			out <- pending
		}
	}()
	return out, nil
}

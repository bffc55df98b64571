package sigbatch_test

import (
	"errors"
	"testing"

	"github.com/maxatome/go-testdeep/td"
	"github.com/samber/lo"

	"github.com/fogfactory/sigbatch"
)

func TestChain(t *testing.T) {

	t.Run("success_empty_batch_short_circuits_remaining_steps", func(t *testing.T) {
		// Arrange
		var reached bool
		chain := sigbatch.Chain(
			func(b *sigbatch.Batch) (*sigbatch.Batch, error) { return b.Filter([]bool{false, false}) },
			func(b *sigbatch.Batch) (*sigbatch.Batch, error) { reached = true; return b, nil },
		)

		// Act
		out, err := chain(makeBatch(t, ramp(4), ramp(4)))

		// Assert
		td.CmpNoError(t, err)
		td.CmpTrue(t, out.Empty())
		td.CmpFalse(t, reached, "downstream step must be skipped for an emptied batch")
	})

	t.Run("error_step_failure_stops_the_chain", func(t *testing.T) {
		// Arrange
		boom := errors.New("boom")
		chain := sigbatch.Chain(
			func(b *sigbatch.Batch) (*sigbatch.Batch, error) { return nil, boom },
			func(b *sigbatch.Batch) (*sigbatch.Batch, error) { t.Fatal("must not run"); return b, nil },
		)

		// Act
		_, err := chain(makeBatch(t, ramp(4)))

		// Assert
		td.CmpErrorIs(t, err, boom)
	})
}

func TestPipeline(t *testing.T) {

	doubler := func(d *sigbatch.Dispatcher) sigbatch.Step {
		return func(b *sigbatch.Batch) (*sigbatch.Batch, error) {
			err := b.Update(d, sigbatch.EachChannel(func(samples []float64) []float64 {
				return lo.Map(samples, func(v float64, _ int) float64 { return v * 2 })
			}))
			return b, err
		}
	}

	t.Run("success_run_emits_survivors_and_drops_failures", func(t *testing.T) {
		// Arrange
		d := InitDispatcher(t, 2)
		boom := errors.New("boom")
		failOnThree := func(b *sigbatch.Batch) (*sigbatch.Batch, error) {
			if b.Len() == 3 {
				return nil, boom // fatal for this batch only
			}
			return b, nil
		}
		pipeline := sigbatch.NewPipeline([]sigbatch.Step{failOnThree, doubler(d)})
		in := lo.SliceToChannel(0, []*sigbatch.Batch{
			makeBatch(t, ramp(4)),
			makeBatch(t, ramp(4), ramp(4), ramp(4)), // fails, dropped
			makeBatch(t, ramp(4), ramp(4)),
		})

		// Act
		results := lo.ChannelToSlice(pipeline.Run(in))

		// Assert
		td.Cmp(t, lo.Map(results, func(b *sigbatch.Batch, _ int) int { return b.Len() }), []int{1, 2})
		td.Cmp(t, results[0].Record(0).Signal[0], []float64{0, 2, 4, 6})
	})

	t.Run("success_run_rebalanced_keeps_constant_batch_size", func(t *testing.T) {
		// Arrange: segmentation makes upstream batch sizes unpredictable.
		d := InitDispatcher(t, 4)
		segment := func(b *sigbatch.Batch) (*sigbatch.Batch, error) {
			return b.Apply(d, sigbatch.Segmenter(sigbatch.SegmentConfig{Length: 20, Step: 10, Copy: true}))
		}
		pipeline := sigbatch.NewPipeline([]sigbatch.Step{segment})
		in := lo.SliceToChannel(0, []*sigbatch.Batch{
			makeBatch(t, ramp(40)), // 3 windows
			makeBatch(t, ramp(30)), // 2 windows
			makeBatch(t, ramp(20)), // 1 window
		})

		// Act
		out, err := pipeline.RunRebalanced(in, 2)
		td.Require(t).CmpNoError(err)
		results := lo.ChannelToSlice(out)

		// Assert: 6 windows emitted as 2+2+2.
		td.Cmp(t, lo.Map(results, func(b *sigbatch.Batch, _ int) int { return b.Len() }), []int{2, 2, 2})
	})

	t.Run("success_run_rebalanced_emits_short_remainder", func(t *testing.T) {
		// Arrange
		pipeline := sigbatch.NewPipeline(nil)
		in := lo.SliceToChannel(0, []*sigbatch.Batch{
			makeBatch(t, ramp(4), ramp(4), ramp(4)),
		})

		// Act
		out, err := pipeline.RunRebalanced(in, 2)
		td.Require(t).CmpNoError(err)
		results := lo.ChannelToSlice(out)

		// Assert
		td.Cmp(t, lo.Map(results, func(b *sigbatch.Batch, _ int) int { return b.Len() }), []int{2, 1})
	})

	t.Run("error_run_rebalanced_invalid_size", func(t *testing.T) {
		// Act
		_, err := sigbatch.NewPipeline(nil).RunRebalanced(nil, 0)

		// Assert
		td.CmpErrorIs(t, err, sigbatch.ErrInvalidSize)
	})
}

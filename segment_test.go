package sigbatch_test

import (
	"testing"

	"github.com/maxatome/go-testdeep/td"

	"github.com/fogfactory/sigbatch"
)

func TestSegmentSignal(t *testing.T) {

	t.Run("success_window_count_law", func(t *testing.T) {
		// Arrange: total 100, length 20, step 10 -> floor((100-20)/10)+1 = 9.
		signal := sigbatch.Signal{ramp(100)}

		// Act
		windows, err := sigbatch.SegmentSignal(signal, sigbatch.SegmentConfig{
			Length: 20, Step: 10, Copy: true,
		})

		// Assert
		td.CmpNoError(t, err)
		td.CmpLen(t, windows, 9)
		td.Cmp(t, windows[0][0][0], 0.0)   // W_0 covers [0, 20)
		td.Cmp(t, windows[8][0][0], 80.0)  // W_8 covers [80, 100)
		td.Cmp(t, windows[8][0][19], 99.0) //
	})

	t.Run("success_short_signal_left_zero_padded", func(t *testing.T) {
		// Arrange: total 15 < length 20, pad on -> exactly one window.
		signal := sigbatch.Signal{ramp(15)}

		// Act
		windows, err := sigbatch.SegmentSignal(signal, sigbatch.SegmentConfig{
			Length: 20, Step: 10, Pad: true,
		})

		// Assert
		td.CmpNoError(t, err)
		td.CmpLen(t, windows, 1)
		td.Cmp(t, windows[0].Samples(), 20)
		td.Cmp(t, windows[0][0][:5], []float64{0, 0, 0, 0, 0})
		td.Cmp(t, windows[0][0][5:], ramp(15))
	})

	t.Run("error_short_signal_without_pad", func(t *testing.T) {
		// Act
		_, err := sigbatch.SegmentSignal(sigbatch.Signal{ramp(15)}, sigbatch.SegmentConfig{
			Length: 20, Step: 10,
		})

		// Assert
		td.CmpErrorIs(t, err, sigbatch.ErrTooShort)
	})

	t.Run("success_copy_windows_are_independent", func(t *testing.T) {
		// Arrange
		signal := sigbatch.Signal{ramp(30)}

		// Act
		windows, err := sigbatch.SegmentSignal(signal, sigbatch.SegmentConfig{
			Length: 20, Step: 10, Copy: true,
		})
		td.Require(t).CmpNoError(err)
		windows[0][0][10] = 999 // overlaps windows[1][0][0]

		// Assert
		td.Cmp(t, windows[1][0][0], 10.0)
		td.Cmp(t, signal[0][10], 10.0)
	})

	t.Run("success_view_windows_share_the_source", func(t *testing.T) {
		// Arrange
		signal := sigbatch.Signal{ramp(30)}

		// Act: the performance escape hatch.
		windows, err := sigbatch.SegmentSignal(signal, sigbatch.SegmentConfig{
			Length: 20, Step: 10,
		})
		td.Require(t).CmpNoError(err)
		signal[0][10] = 999

		// Assert
		td.Cmp(t, windows[0][0][10], 999.0)
		td.Cmp(t, windows[1][0][0], 999.0)
	})

	t.Run("error_invalid_length_or_step", func(t *testing.T) {
		// Act
		_, errLength := sigbatch.SegmentSignal(sigbatch.Signal{ramp(10)}, sigbatch.SegmentConfig{Length: 0, Step: 1})
		_, errStep := sigbatch.SegmentSignal(sigbatch.Signal{ramp(10)}, sigbatch.SegmentConfig{Length: 5, Step: 0})

		// Assert
		td.CmpErrorIs(t, errLength, sigbatch.ErrInvalidSize)
		td.CmpErrorIs(t, errStep, sigbatch.ErrInvalidSize)
	})
}

func TestSegmenter(t *testing.T) {

	t.Run("success_expansion_entry_per_window", func(t *testing.T) {
		// Arrange
		rec := sigbatch.Record{
			Signal: sigbatch.Signal{ramp(100)},
			Meta:   sigbatch.Meta{sigbatch.MetaFS: 100.0},
			ID:     "a",
		}

		// Act
		out, err := sigbatch.Segmenter(sigbatch.SegmentConfig{Length: 20, Step: 10, Copy: true})(rec)

		// Assert
		td.CmpNoError(t, err)
		td.Cmp(t, out.Multiplicity(), 9)
		td.Cmp(t, out.Records()[0].Meta[sigbatch.MetaSigLen], 20)
	})
}

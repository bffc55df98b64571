package sigbatch

import (
	"fmt"

	"github.com/samber/lo"
)

// SegmentConfig drives the windowed segmenter.
type SegmentConfig struct {
	// Length is the target window length along the sample axis.
	Length int
	// Step is the stride between consecutive window starts.
	Step int
	// Pad left-zero-pads a signal shorter than Length into exactly one
	// window instead of failing with ErrTooShort.
	Pad bool
	// Copy makes every window an independently owned array. Disabling it
	// yields windows that are views over the source signal, valid only while
	// the source outlives them and is never mutated. A performance escape
	// hatch, not the default.
	Copy bool
}

// Segmenter returns a 1:N worker splitting each record's signal along the
// sample axis into overlapping windows of cfg.Length every cfg.Step samples.
// Window k covers samples [k*step, k*step+length); the window count is
// floor((samples-length)/step)+1. Each window becomes one derived record with
// its meta length updated; index regeneration and meta duplication are
// Assemble's job.
func Segmenter(cfg SegmentConfig) Worker {
	return func(rec Record) (Output, error) {
		windows, err := SegmentSignal(rec.Signal, cfg)
		if err != nil {
			return Output{}, err
		}
		return Expand(lo.Map(windows, func(w Signal, _ int) Record {
			meta := rec.Meta.Clone()
			meta[MetaSigLen] = cfg.Length
			return Record{
				Signal:     w,
				Annotation: rec.Annotation,
				Meta:       meta,
				Target:     rec.Target,
				ID:         rec.ID,
			}
		})...), nil
	}
}

// SegmentSignal splits one signal into strided overlapping windows, the bare
// array form of Segmenter.
func SegmentSignal(s Signal, cfg SegmentConfig) ([]Signal, error) {
	if cfg.Length < 1 {
		return nil, fmt.Errorf("%w: segment length %d", ErrInvalidSize, cfg.Length)
	}
	if cfg.Step < 1 {
		return nil, fmt.Errorf("%w: segment step %d", ErrInvalidSize, cfg.Step)
	}

	samples := s.Samples()
	if samples < cfg.Length {
		if !cfg.Pad {
			return nil, fmt.Errorf("%w: %d < %d", ErrTooShort, samples, cfg.Length)
		}
		return []Signal{padLeft(s, cfg.Length)}, nil
	}

	count := (samples-cfg.Length)/cfg.Step + 1
	windows := make([]Signal, count)
	for k := 0; k < count; k++ {
		start := k * cfg.Step
		window := lo.Map(s, func(channel []float64, _ int) []float64 {
			view := channel[start : start+cfg.Length]
			if !cfg.Copy {
				return view
			}
			return append([]float64(nil), view...)
		})
		windows[k] = window
	}
	return windows, nil
}

// padLeft zero-pads every channel on the left up to length. The result is
// always an independent copy.
func padLeft(s Signal, length int) Signal {
	return lo.Map(s, func(channel []float64, _ int) []float64 {
		padded := make([]float64, length)
		copy(padded[length-len(channel):], channel)
		return padded
	})
}

package dsp

import (
	"fmt"
	"math"

	"github.com/samber/lo"

	"github.com/fogfactory/sigbatch"
)

// Resample returns a 1:1 worker resampling each record's signal along the
// sample axis to the sampling rate fs (Hz), reading the current rate from
// the record's meta and writing the new one back.
func Resample(fs float64) sigbatch.MapWorker {
	return func(rec sigbatch.Record) (sigbatch.Record, error) {
		if fs <= 0 {
			return sigbatch.Record{}, fmt.Errorf("sampling rate must be positive, got %v", fs)
		}
		current, err := metaFS(rec.Meta)
		if err != nil {
			return sigbatch.Record{}, err
		}
		newLen := int(math.Max(1, math.Round(fs*float64(rec.Signal.Samples())/current)))
		rec.Signal = lo.Map(rec.Signal, func(channel []float64, _ int) []float64 {
			return resampleChannel(channel, newLen)
		})
		meta := rec.Meta.Clone()
		meta[sigbatch.MetaFS] = fs
		meta[sigbatch.MetaSigLen] = newLen
		rec.Meta = meta
		return rec, nil
	}
}

// resampleChannel linearly interpolates samples onto a grid of newLen points
// spanning the same interval.
func resampleChannel(samples []float64, newLen int) []float64 {
	if len(samples) == 0 || newLen == len(samples) {
		return append([]float64(nil), samples...)
	}
	out := make([]float64, newLen)
	if len(samples) == 1 {
		for i := range out {
			out[i] = samples[0]
		}
		return out
	}
	scale := float64(len(samples)-1) / float64(max(1, newLen-1))
	for i := range out {
		pos := float64(i) * scale
		left := int(pos)
		if left >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}
		frac := pos - float64(left)
		out[i] = samples[left]*(1-frac) + samples[left+1]*frac
	}
	return out
}

func metaFS(meta sigbatch.Meta) (float64, error) {
	switch fs := meta[sigbatch.MetaFS].(type) {
	case float64:
		return fs, nil
	case int:
		return float64(fs), nil
	case nil:
		return 0, fmt.Errorf("record meta has no %q", sigbatch.MetaFS)
	default:
		return 0, fmt.Errorf("record meta %q has unexpected type %T", sigbatch.MetaFS, fs)
	}
}

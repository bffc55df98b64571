package dsp

import (
	"fmt"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"

	"github.com/fogfactory/sigbatch"
)

// Convolve returns a 1:1 worker convolving every channel of the signal with
// kernel, same-length output, edge values repeated as padding.
func Convolve(kernel []float64) sigbatch.MapWorker {
	return func(rec sigbatch.Record) (sigbatch.Record, error) {
		if len(kernel) == 0 {
			return sigbatch.Record{}, fmt.Errorf("empty convolution kernel")
		}
		rec.Signal = lo.Map(rec.Signal, func(channel []float64, _ int) []float64 {
			return convolveSame(channel, kernel)
		})
		return rec, nil
	}
}

// Gradient returns a 1:1 worker computing the numeric derivative of the given
// order for every channel and writing it into the record's annotation under
// "grad_<order>". The signal itself is left unchanged.
func Gradient(order int) sigbatch.MapWorker {
	return func(rec sigbatch.Record) (sigbatch.Record, error) {
		if order < 1 {
			return sigbatch.Record{}, fmt.Errorf("derivative order must be positive, got %d", order)
		}
		grad := lo.Map(rec.Signal, func(channel []float64, _ int) []float64 {
			out := append([]float64(nil), channel...)
			for i := 0; i < order; i++ {
				out = gradient(out)
			}
			return out
		})
		annotation := rec.Annotation.Clone()
		annotation[fmt.Sprintf("grad_%d", order)] = sigbatch.Signal(grad)
		rec.Annotation = annotation
		return rec, nil
	}
}

// convolveSame is a direct time-domain convolution, the right strategy for
// the short smoothing kernels used on per-record signals. Samples beyond the
// edges repeat the edge value.
func convolveSame(samples, kernel []float64) []float64 {
	if len(samples) == 0 {
		return nil
	}
	// Build an edge-padded copy once, then slide the kernel with a dot
	// product per output sample.
	half := len(kernel) / 2
	padded := make([]float64, len(samples)+len(kernel)-1)
	for i := 0; i < half; i++ {
		padded[i] = samples[0]
	}
	copy(padded[half:], samples)
	for i := half + len(samples); i < len(padded); i++ {
		padded[i] = samples[len(samples)-1]
	}

	reversed := append([]float64(nil), kernel...)
	floats.Reverse(reversed)

	out := make([]float64, len(samples))
	for i := range out {
		out[i] = floats.Dot(padded[i:i+len(kernel)], reversed)
	}
	return out
}

// gradient computes central differences with one-sided differences at the
// boundaries, unit spacing.
func gradient(samples []float64) []float64 {
	n := len(samples)
	out := make([]float64, n)
	if n < 2 {
		return out
	}
	out[0] = samples[1] - samples[0]
	out[n-1] = samples[n-1] - samples[n-2]
	for i := 1; i < n-1; i++ {
		out[i] = (samples[i+1] - samples[i-1]) / 2
	}
	return out
}

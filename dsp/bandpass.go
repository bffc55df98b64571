package dsp

import (
	"fmt"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/fogfactory/sigbatch"
)

// BandPass returns a 1:1 worker rejecting frequencies outside [low, high] Hz
// on every channel. The record's sampling rate is read from its meta. A zero
// high bound disables the low-pass side.
func BandPass(low, high float64) sigbatch.MapWorker {
	return func(rec sigbatch.Record) (sigbatch.Record, error) {
		if low < 0 || (high > 0 && high < low) {
			return sigbatch.Record{}, fmt.Errorf("invalid band [%v, %v]", low, high)
		}
		fs, err := metaFS(rec.Meta)
		if err != nil {
			return sigbatch.Record{}, err
		}
		rec.Signal = lo.Map(rec.Signal, func(channel []float64, _ int) []float64 {
			return bandPassChannel(channel, fs, low, high)
		})
		return rec, nil
	}
}

// bandPassChannel zeroes the FFT coefficients outside the band and inverts.
func bandPassChannel(samples []float64, fs, low, high float64) []float64 {
	n := len(samples)
	if n < 2 {
		return append([]float64(nil), samples...)
	}
	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, samples)
	for i := range coeffs {
		freq := fft.Freq(i) * fs
		if freq < low || (high > 0 && freq > high) {
			coeffs[i] = 0
		}
	}
	out := fft.Sequence(nil, coeffs)
	// Sequence is unnormalized; scale back.
	return lo.Map(out, func(v float64, _ int) float64 { return v / float64(n) })
}

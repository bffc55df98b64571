// Package dsp provides per-record numeric workers for the sigbatch engine:
// resampling, differentiation, convolution and frequency filtering. The
// engine treats them as opaque functions of one record; nothing here knows
// about batches, indexes or pools.
package dsp

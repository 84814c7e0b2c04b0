// Package fir provides a polyphase FIR rational resampler for Q.15
// fixed-point sample streams. The prototype low-pass filter is split into
// interpolate phases, a phase accumulator walks the input at the
// decimate/interpolate rate and only the retained output samples are ever
// computed.
package fir

import (
	"errors"
	"fmt"

	"github.com/dudk/resampipe/q15"
	"github.com/dudk/resampipe/sample"
)

// ErrFactor is returned if a resampling factor is not a positive integer.
var ErrFactor = errors.New("resampling factor must be a non-zero positive integer")

// ErrNoCoefficients is returned if the coefficient set is empty.
var ErrNoCoefficients = errors.New("at least one filter coefficient is required")

// FIR is a rational resampler. Buffers pushed into it are owned by the
// resampler and released once their samples are consumed. FIR is not safe
// for concurrent use.
type FIR struct {
	interpolate int
	decimate    int
	phases      [][]int16 // phases[p][k] = coeffs[k*interpolate+p]
	taps        int       // taps per phase

	in    []int16 // filter history followed by unconsumed input
	pos   int     // index in in of the newest sample of the next output
	phase int     // polyphase accumulator, 0 <= phase < interpolate

	queue  []*sample.Buffer // pushed, not yet drained into in
	queued int              // samples held in queue
}

// New builds a resampler from Q.15 coefficients and a rational
// interpolate/decimate factor pair.
func New(coeffs []int16, interpolate, decimate int) (*FIR, error) {
	if interpolate <= 0 {
		return nil, fmt.Errorf("fir: interpolation %d: %w", interpolate, ErrFactor)
	}
	if decimate <= 0 {
		return nil, fmt.Errorf("fir: decimation %d: %w", decimate, ErrFactor)
	}
	if len(coeffs) == 0 {
		return nil, fmt.Errorf("fir: %w", ErrNoCoefficients)
	}
	taps := (len(coeffs) + interpolate - 1) / interpolate
	phases := make([][]int16, interpolate)
	for p := range phases {
		phases[p] = make([]int16, taps)
		for k := 0; k < taps; k++ {
			if i := k*interpolate + p; i < len(coeffs) {
				phases[p][k] = coeffs[i]
			}
		}
	}
	f := &FIR{
		interpolate: interpolate,
		decimate:    decimate,
		phases:      phases,
		taps:        taps,
	}
	// zero history so the first output only sees the first real sample
	f.in = make([]int16, taps-1)
	f.pos = taps - 1
	return f, nil
}

// Full reports whether buffered input is sufficient to fill one BlockSize
// output window without another push.
func (f *FIR) Full() bool {
	available := len(f.in) - f.pos + f.queued
	needed := (sample.BlockSize*f.decimate + f.interpolate - 1) / f.interpolate
	return available >= needed
}

// Push transfers ownership of a filled buffer to the resampler.
func (f *FIR) Push(b *sample.Buffer) {
	f.queue = append(f.queue, b)
	f.queued += len(b.Samples())
}

// Process fills out with newly produced samples and returns their count.
// Zero is returned when every buffered sample has been consumed, either
// into output already produced or discarded by decimation on the way to
// the next output sample.
func (f *FIR) Process(out []int16) int {
	f.drain()
	produced := 0
	for produced < len(out) && f.pos < len(f.in) {
		ph := f.phases[f.phase]
		var acc int64
		for k, c := range ph {
			acc += int64(c) * int64(f.in[f.pos-k])
		}
		out[produced] = int16(acc >> q15.Shift)
		produced++
		next := f.phase + f.decimate
		f.pos += next / f.interpolate
		f.phase = next % f.interpolate
	}
	f.compact()
	return produced
}

// Close releases all buffers still queued. The resampler must not be used
// afterwards.
func (f *FIR) Close() error {
	for _, b := range f.queue {
		b.Release()
	}
	f.queue = nil
	f.queued = 0
	f.in = nil
	return nil
}

// drain appends queued buffers to the working input and releases them.
func (f *FIR) drain() {
	for _, b := range f.queue {
		f.in = append(f.in, b.Samples()...)
		b.Release()
	}
	f.queue = f.queue[:0]
	f.queued = 0
}

// compact drops consumed input, keeping the taps-1 samples of history the
// next output still needs.
func (f *FIR) compact() {
	drop := f.pos - (f.taps - 1)
	if drop <= 0 {
		return
	}
	if drop > len(f.in) {
		drop = len(f.in)
	}
	n := copy(f.in, f.in[drop:])
	f.in = f.in[:n]
	f.pos -= drop
}

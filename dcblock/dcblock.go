// Package dcblock provides a DC blocking filter for fixed-point sample
// streams. The filter is a leaky-integrator differentiator: it removes
// the zero-frequency component while passing everything else.
package dcblock

import (
	"math"

	"github.com/dudk/resampipe/q15"
)

// defaultPole is the leak coefficient in Q.15, an extremely slow leak
// close to full integration. Truncated at runtime, 3.2768 is not exactly
// representable as an integer constant.
var defaultPole = int32(math.Trunc((1.0 - 0.9999) * (1 << q15.Shift)))

// Blocker holds the filter state for a single monaural stream. The state
// is not reentrant, one instance must not be shared between concurrent
// block applications. The zero value with a pole set via New is ready to
// use.
type Blocker struct {
	// pole coefficient of the leaky integrator, in Q.15.
	p int32
	// prior input sample for the differentiator, in Q.15. x[n-1]
	xPrev int32
	// prior output sample for feedback. y[n-1]
	yPrev int32
	// noise shaper value, technically in Q.30. Reserved, not fed back
	// into the output.
	f int32
	// accumulator. Cross terms of the recurrence exceed 16 bits, so it
	// is kept in a wider register.
	acc int32
}

// New returns a blocker with the default pole coefficient.
func New() *Blocker {
	return &Blocker{p: defaultPole}
}

// NewWithPole returns a blocker with pole p given in Q.15.
func NewWithPole(p int32) *Blocker {
	return &Blocker{p: p}
}

// Pole returns the pole coefficient in Q.15.
func (b *Blocker) Pole() int32 {
	return b.p
}

// Apply filters the block in place. An empty block leaves the state
// untouched.
func (b *Blocker) Apply(samples []int16) {
	for i := range samples {
		b.acc -= b.xPrev
		b.xPrev = int32(samples[i]) << q15.Shift
		b.acc += b.xPrev - b.p*b.yPrev
		b.yPrev = b.acc >> q15.Shift
		samples[i] = int16(b.yPrev)
	}
}

// Reset returns the filter to its initial silent state.
func (b *Blocker) Reset() {
	b.xPrev = 0
	b.yPrev = 0
	b.f = 0
	b.acc = 0
}

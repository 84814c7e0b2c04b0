package dcblock_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dudk/resampipe/dcblock"
)

func TestPole(t *testing.T) {
	assert.Equal(t, int32(3), dcblock.New().Pole())
}

func TestSilence(t *testing.T) {
	b := dcblock.New()
	silence := make([]int16, 64)
	b.Apply(silence)
	for i, s := range silence {
		assert.Equal(t, int16(0), s, "sample %d", i)
	}

	// silence must leave the state untouched: the filter behaves as if
	// freshly constructed
	after := []int16{1000, 1000, 1000, 1000}
	b.Apply(after)
	fresh := []int16{1000, 1000, 1000, 1000}
	dcblock.New().Apply(fresh)
	assert.Equal(t, fresh, after)
}

func TestConstantInputDecays(t *testing.T) {
	const v = 1000
	const n = 2000

	b := dcblock.New()
	samples := make([]int16, n)
	for i := range samples {
		samples[i] = v
	}
	b.Apply(samples)

	// the first output passes the step unchanged
	assert.Equal(t, int16(v), samples[0])
	// the DC component leaks out monotonically
	for i := 1; i < n; i++ {
		assert.True(t, samples[i] <= samples[i-1], "sample %d grew", i)
	}
	// geometric decay by (1 - p/2^15) per sample, tolerance-bounded
	leak := 1.0 - float64(b.Pole())/(1<<15)
	expected := v * math.Pow(leak, n-1)
	assert.InDelta(t, expected, float64(samples[n-1]), expected*0.02)
}

func TestNegativeConstant(t *testing.T) {
	b := dcblock.New()
	samples := make([]int16, 256)
	for i := range samples {
		samples[i] = -500
	}
	b.Apply(samples)
	assert.Equal(t, int16(-500), samples[0])
	for i := 1; i < len(samples); i++ {
		assert.True(t, samples[i] >= samples[i-1], "sample %d fell", i)
	}
}

func TestReset(t *testing.T) {
	b := dcblock.New()
	block := []int16{100, 200, 300}
	b.Apply(block)
	b.Reset()

	reset := []int16{1000, 1000}
	b.Apply(reset)
	fresh := []int16{1000, 1000}
	dcblock.New().Apply(fresh)
	assert.Equal(t, fresh, reset)
}

func TestApplyInPlace(t *testing.T) {
	b := dcblock.NewWithPole(16384) // fast leak
	samples := []int16{100, 100, 100, 100, 100, 100, 100, 100}
	b.Apply(samples)
	// alternating signal remains after DC removal with a fast pole
	assert.Equal(t, int16(100), samples[0])
	assert.True(t, samples[7] < 100)
}

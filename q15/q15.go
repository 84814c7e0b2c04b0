// Package q15 provides helpers for Q.15 fixed-point signals. It allows to:
// 	- convert float64 filter coefficients to Q.15 integers
//	- convert int16 samples to little-endian bytes and backward
package q15

import (
	"fmt"
	"math"
)

// Shift is the fractional bit count of the Q.15 representation.
const Shift = 15

// One is the Q.15 value of 1.0. It is not representable as int16, the
// largest representable coefficient is One-1.
const One = 1 << Shift

// SampleWidth is the byte width of a single fixed-point sample.
const SampleWidth = 2

// Coefficients converts float64 filter taps to Q.15. Each tap is rounded
// to the nearest integer. A tap whose rounded value does not fit int16 is
// a configuration error and is rejected, not clamped.
func Coefficients(taps []float64) ([]int16, error) {
	if len(taps) == 0 {
		return nil, fmt.Errorf("q15: empty coefficient set")
	}
	coeffs := make([]int16, len(taps))
	for i, tap := range taps {
		q := math.Round(tap * One)
		if q < math.MinInt16 || q > math.MaxInt16 {
			return nil, fmt.Errorf("q15: coefficient %v at position %d is out of Q.15 range", tap, i)
		}
		coeffs[i] = int16(q)
	}
	return coeffs, nil
}

// DecodeSamples converts little-endian bytes to int16 samples. The length
// of src must be an exact multiple of SampleWidth. It returns the number
// of decoded samples.
func DecodeSamples(dst []int16, src []byte) int {
	n := len(src) / SampleWidth
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] = int16(uint16(src[i*SampleWidth]) | uint16(src[i*SampleWidth+1])<<8)
	}
	return n
}

// EncodeSamples converts int16 samples to little-endian bytes. It returns
// the number of encoded bytes.
func EncodeSamples(dst []byte, src []int16) int {
	n := len(src)
	if n*SampleWidth > len(dst) {
		n = len(dst) / SampleWidth
	}
	for i := 0; i < n; i++ {
		dst[i*SampleWidth] = byte(src[i])
		dst[i*SampleWidth+1] = byte(uint16(src[i]) >> 8)
	}
	return n * SampleWidth
}

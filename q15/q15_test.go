package q15_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dudk/resampipe/q15"
)

func TestCoefficients(t *testing.T) {
	coeffs, err := q15.Coefficients([]float64{0.5, -1.0, 0.25, 0})
	assert.Nil(t, err)
	assert.Equal(t, []int16{16384, -32768, 8192, 0}, coeffs)
}

func TestCoefficientsOutOfRange(t *testing.T) {
	// 1.0 rounds to 32768 which does not fit int16, it must be rejected
	// rather than clamped.
	_, err := q15.Coefficients([]float64{1.0})
	assert.NotNil(t, err)

	_, err = q15.Coefficients([]float64{0.5, -1.1})
	assert.NotNil(t, err)

	_, err = q15.Coefficients(nil)
	assert.NotNil(t, err)
}

func TestSampleCodec(t *testing.T) {
	samples := []int16{1, -2, 256}
	bytes := make([]byte, len(samples)*q15.SampleWidth)
	n := q15.EncodeSamples(bytes, samples)
	assert.Equal(t, 6, n)
	assert.Equal(t, []byte{0x01, 0x00, 0xfe, 0xff, 0x00, 0x01}, bytes)

	decoded := make([]int16, len(samples))
	assert.Equal(t, 3, q15.DecodeSamples(decoded, bytes))
	assert.Equal(t, samples, decoded)
}

func TestSampleCodecBounds(t *testing.T) {
	// destination shorter than source
	dst := make([]int16, 1)
	assert.Equal(t, 1, q15.DecodeSamples(dst, []byte{0x02, 0x00, 0x03, 0x00}))
	assert.Equal(t, int16(2), dst[0])

	bytes := make([]byte, 2)
	assert.Equal(t, 2, q15.EncodeSamples(bytes, []int16{4, 5}))
	assert.Equal(t, []byte{0x04, 0x00}, bytes)
}

package conv

import (
	"errors"

	"github.com/cwbudde/algo-conv/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by convolution functions.
var (
	ErrEmptyInput           = errors.New("conv: empty input")
	ErrEmptyKernel          = errors.New("conv: empty kernel")
	ErrEmptyImpulseResponse = errors.New("conv: empty impulse response")
	ErrLengthMismatch       = errors.New("conv: buffer length mismatch")
	ErrInvalidBlockSize     = errors.New("conv: invalid block size")
	ErrInvalidMode          = errors.New("conv: invalid mode")
	ErrWrongMode            = errors.New("conv: operation not supported in this mode")
)

// Direct performs direct time-domain linear convolution of a and b.
// Returns a new slice of length len(a) + len(b) - 1.
//
// This is an O(N*M) algorithm intended for short signals and as a reference.
func Direct(a, b []float64) ([]float64, error) {
	if len(a) == 0 {
		return nil, ErrEmptyInput
	}
	if len(b) == 0 {
		return nil, ErrEmptyKernel
	}

	result := make([]float64, len(a)+len(b)-1)
	DirectTo(result, a, b)
	return result, nil
}

// DirectTo performs direct convolution, writing to a pre-allocated destination.
// dst must have length len(a) + len(b) - 1.
func DirectTo(dst, a, b []float64) {
	core.Zero(dst)

	m := len(b)
	temp := make([]float64, m)

	for i, x := range a {
		// dst[i:i+m] += b * a[i]
		vecmath.ScaleBlock(temp, b, x)
		vecmath.AddBlockInPlace(dst[i:i+m], temp)
	}
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}

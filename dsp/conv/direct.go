package conv

import (
	"fmt"

	"github.com/cwbudde/algo-conv/dsp/buffer"
	"github.com/cwbudde/algo-vecmath"
)

// DirectConvolver convolves a sample stream with an impulse response in the
// time domain.
//
// Every input sample is pushed into a history ring and the output sample is
// the dot product of the most recent len(ir) history samples with the
// impulse response, most recent sample first. Before len(ir) samples have
// been seen the missing history is silence, which is equivalent to
// zero-padding the start of the signal.
//
// Results do not depend on how the input is split into blocks.
type DirectConvolver struct {
	kernel   []float64
	reversed []float64 // kernel in reverse order, aligned with oldest-first history
	history  *buffer.Ring
}

// NewDirectConvolver creates a time-domain convolver for ir.
// The impulse response is copied.
func NewDirectConvolver(ir []float64) (*DirectConvolver, error) {
	if len(ir) == 0 {
		return nil, ErrEmptyImpulseResponse
	}

	n := len(ir)
	history, err := buffer.NewRing(max(2*n, n+2))
	if err != nil {
		return nil, fmt.Errorf("conv: direct history: %w", err)
	}

	kernel := make([]float64, n)
	copy(kernel, ir)

	reversed := make([]float64, n)
	for i, v := range kernel {
		reversed[n-1-i] = v
	}

	return &DirectConvolver{
		kernel:   kernel,
		reversed: reversed,
		history:  history,
	}, nil
}

// Process convolves input into output. Both slices must have the same
// length; on mismatch nothing is processed and ErrLengthMismatch is returned.
// input and output may alias.
func (d *DirectConvolver) Process(input, output []float64) error {
	if len(input) != len(output) {
		return fmt.Errorf("%w: input length %d != output length %d",
			ErrLengthMismatch, len(input), len(output))
	}

	for i, x := range input {
		output[i] = d.step(x)
	}

	return nil
}

// Flush feeds len(output) zeros through the convolver, draining the
// influence of previously processed samples. A request of TailLen() samples
// returns the complete tail; shorter requests truncate it and longer ones
// end in zeros.
func (d *DirectConvolver) Flush(output []float64) {
	for i := range output {
		output[i] = d.step(0)
	}
}

// step pushes one sample and returns the corresponding output sample.
func (d *DirectConvolver) step(x float64) float64 {
	d.history.Push(x)
	for d.history.Len() > len(d.kernel) {
		d.history.Pop()
	}

	n := d.history.Len()
	older, newer := d.history.Segments(0, n)
	k := d.reversed[len(d.reversed)-n:]

	return vecmath.DotProduct(older, k[:len(older)]) +
		vecmath.DotProduct(newer, k[len(older):])
}

// Reset clears the history, ready for a new signal.
func (d *DirectConvolver) Reset() {
	d.history.Reset()
}

// KernelLen returns the impulse response length.
func (d *DirectConvolver) KernelLen() int {
	return len(d.kernel)
}

// TailLen returns KernelLen() - 1.
func (d *DirectConvolver) TailLen() int {
	return len(d.kernel) - 1
}

package conv

import (
	"fmt"
	"time"

	"github.com/cwbudde/algo-conv/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// Convolver is a streaming convolver whose engine is fixed at construction.
//
// In time-domain mode use Process and Flush; in frequency-domain mode use
// ProcessStreaming and FlushStreaming. The other pair returns ErrWrongMode.
//
// A Convolver is owned by one goroutine; calls must not overlap.
type Convolver struct {
	mode Mode
	cfg  config
	eng  engine

	direct      *DirectConvolver
	partitioned *PartitionedConvolver

	scratch []float64 // ProcessStreaming result, reused between calls
}

// New creates a Convolver for ir running the engine selected by mode.
func New(ir []float64, mode Mode, opts ...Option) (*Convolver, error) {
	c := &Convolver{
		mode: mode,
		cfg:  applyOptions(opts),
	}

	switch mode.kind {
	case KindDirect:
		d, err := NewDirectConvolver(ir)
		if err != nil {
			return nil, err
		}
		c.direct, c.eng = d, d

	case KindPartitioned:
		p, err := NewPartitionedConvolver(ir, mode.blockSize)
		if err != nil {
			return nil, err
		}
		c.partitioned, c.eng = p, p
		c.scratch = make([]float64, 0, c.cfg.proc.BlockSize+2*mode.blockSize)

	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidMode, mode)
	}

	return c, nil
}

// Process convolves input into output in time-domain mode.
// len(output) must equal len(input).
func (c *Convolver) Process(input, output []float64) error {
	if c.direct == nil {
		return c.wrongMode("Process")
	}
	if err := c.direct.Process(input, output); err != nil {
		return err
	}
	c.finish(output)
	return nil
}

// Flush writes the next len(output) tail samples in time-domain mode.
// Pass a slice of TailLen() samples to receive the whole tail.
func (c *Convolver) Flush(output []float64) error {
	if c.direct == nil {
		return c.wrongMode("Flush")
	}
	c.direct.Flush(output)
	c.finish(output)
	return nil
}

// ProcessStreaming pushes input in frequency-domain mode and returns the
// samples that became final. The returned slice is reused by the next call
// to ProcessStreaming; copy it to retain the samples.
func (c *Convolver) ProcessStreaming(input []float64) ([]float64, error) {
	if c.partitioned == nil {
		return nil, c.wrongMode("ProcessStreaming")
	}

	out, err := c.partitioned.ProcessStreamingTo(c.scratch[:0], input)
	c.scratch = out[:0]
	if err != nil {
		return nil, err
	}

	c.finish(out)
	return out, nil
}

// FlushStreaming drains the frequency-domain engine after the last input
// block. remainder completes the real output; tail holds TailLen() samples.
func (c *Convolver) FlushStreaming() (remainder, tail []float64, err error) {
	if c.partitioned == nil {
		return nil, nil, c.wrongMode("FlushStreaming")
	}

	remainder, tail, err = c.partitioned.Flush()
	if err != nil {
		return nil, nil, err
	}

	c.finish(remainder)
	c.finish(tail)
	return remainder, tail, nil
}

// finish applies output gain and denormal flushing.
func (c *Convolver) finish(buf []float64) {
	if len(buf) == 0 {
		return
	}
	if c.cfg.gain != 1 {
		vecmath.ScaleBlockInPlace(buf, c.cfg.gain)
	}
	if c.cfg.flushDenormals {
		core.FlushDenormalsInPlace(buf)
	}
}

func (c *Convolver) wrongMode(op string) error {
	return fmt.Errorf("%w: %s called in %v mode", ErrWrongMode, op, c.mode)
}

// Reset clears streaming state, ready for a new signal.
func (c *Convolver) Reset() {
	c.eng.Reset()
}

// Mode returns the mode the Convolver was constructed with.
func (c *Convolver) Mode() Mode {
	return c.mode
}

// KernelLen returns the impulse response length.
func (c *Convolver) KernelLen() int {
	return c.eng.KernelLen()
}

// TailLen returns the number of samples the flush step yields after the
// last real input: KernelLen() - 1.
func (c *Convolver) TailLen() int {
	return c.eng.TailLen()
}

// TailDuration returns TailLen() expressed in time at the configured
// sample rate.
func (c *Convolver) TailDuration() time.Duration {
	seconds := float64(c.TailLen()) / c.cfg.proc.SampleRate
	return time.Duration(seconds * float64(time.Second))
}

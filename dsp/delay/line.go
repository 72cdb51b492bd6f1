package delay

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-conv/dsp/buffer"
	"github.com/cwbudde/algo-conv/dsp/interp"
)

// ErrInvalidSize is returned by New for a non-positive size.
var ErrInvalidSize = errors.New("delay: invalid size")

// Line is a circular delay line.
//
// The underlying ring keeps its read cursor on the write cursor, so ring
// offsets count backwards from the most recent sample.
type Line struct {
	ring *buffer.Ring
	mode interp.Mode
}

// Option configures a Line.
type Option func(*Line)

// WithMode selects the interpolation used by ReadFractional.
func WithMode(mode interp.Mode) Option {
	return func(d *Line) {
		d.mode = mode
	}
}

// New returns a delay line of fixed size. ReadFractional defaults to
// Hermite interpolation.
func New(size int, opts ...Option) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	ring, err := buffer.NewRing(size)
	if err != nil {
		return nil, err
	}

	d := &Line{ring: ring, mode: interp.Hermite}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	d.Reset()
	return d, nil
}

// Len returns internal buffer size.
func (d *Line) Len() int {
	return d.ring.Cap()
}

// Mode returns the fractional read interpolation.
func (d *Line) Mode() interp.Mode {
	return d.mode
}

// Write writes one sample.
func (d *Line) Write(sample float64) {
	d.ring.Push(sample)
	d.ring.Discard()
}

// Read reads an integer delay in samples. Read(1) is the most recent sample;
// delays wrap modulo Len().
func (d *Line) Read(delay int) float64 {
	return d.ring.Get(-delay)
}

// ReadFractional reads a fractional delay using the configured
// interpolation. The delay is clamped to the range the interpolator can
// serve without reading past the oldest sample.
func (d *Line) ReadFractional(delay float64) float64 {
	if math.IsNaN(delay) || delay < 0 {
		delay = 0
	}

	if d.mode != interp.Hermite {
		return d.readLinear(min(delay, float64(d.Len()-1)))
	}

	maxDelay := float64(max(d.Len()-3, 0))
	if delay > maxDelay {
		delay = maxDelay
	}

	p := int(math.Floor(delay))
	t := delay - float64(p)

	xm1 := d.Read(max(0, p-1))
	x0 := d.Read(p)
	x1 := d.Read(p + 1)
	x2 := d.Read(p + 2)
	return interp.Hermite4(t, xm1, x0, x1, x2)
}

// readLinear interpolates between Read(p) and Read(p+1). The ring
// interpolates forward from the read cursor, so the delay is expressed as a
// forward offset of Len()-delay.
func (d *Line) readLinear(delay float64) float64 {
	v, err := d.ring.GetFrac(float64(d.Len()) - delay)
	if err != nil {
		return 0
	}
	return v
}

// Reset clears line state.
func (d *Line) Reset() {
	d.ring.Reset()
	d.ring.Discard()
}

package buffer

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-conv/dsp/interp"
)

// Errors returned by Ring.
var (
	ErrInvalidCapacity = errors.New("buffer: invalid capacity")
	ErrOutOfRange      = errors.New("buffer: position out of range")
)

// Ring is a circular buffer of float64 samples.
//
// The read cursor marks the oldest addressable sample and the write cursor
// the slot the next Push fills. A new Ring starts with the write cursor one
// slot ahead of the read cursor, so it holds a single sample of silence and
// an immediate Pop returns 0.
//
// Ring is not safe for concurrent use.
type Ring struct {
	data  []float64
	read  int
	write int
}

// NewRing returns a zero-filled Ring with the given capacity.
func NewRing(capacity int) (*Ring, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}

	r := &Ring{data: make([]float64, capacity)}
	r.Reset()
	return r, nil
}

// Reset zeroes all slots and restores the initial cursor positions.
func (r *Ring) Reset() {
	clear(r.data)
	r.read = 0
	r.write = r.wrap(1)
}

// Cap returns the fixed capacity.
func (r *Ring) Cap() int {
	return len(r.data)
}

// Len returns the number of samples between the read and write cursors.
func (r *Ring) Len() int {
	return r.wrap(r.write - r.read)
}

// Push writes v at the write cursor and advances it.
func (r *Ring) Push(v float64) {
	r.data[r.write] = v
	r.write++
	if r.write == len(r.data) {
		r.write = 0
	}
}

// Pop returns the sample at the read cursor and advances it.
func (r *Ring) Pop() float64 {
	v := r.data[r.read]
	r.read++
	if r.read == len(r.data) {
		r.read = 0
	}
	return v
}

// Put writes v at the write cursor without advancing it.
func (r *Ring) Put(v float64) {
	r.data[r.write] = v
}

// Peek returns the sample at the read cursor without advancing it.
func (r *Ring) Peek() float64 {
	return r.data[r.read]
}

// Get returns the sample offset slots after the read cursor.
// Offsets wrap modulo the capacity; negative offsets address slots before
// the read cursor.
func (r *Ring) Get(offset int) float64 {
	return r.data[r.wrap(r.read+offset)]
}

// Set overwrites the sample offset slots after the read cursor.
func (r *Ring) Set(offset int, v float64) {
	r.data[r.wrap(r.read+offset)] = v
}

// Add accumulates v into the sample offset slots after the read cursor.
func (r *Ring) Add(offset int, v float64) {
	r.data[r.wrap(r.read+offset)] += v
}

// GetFrac returns the sample at a fractional offset from the read cursor,
// interpolating linearly between Get(floor(pos)) and Get(floor(pos)+1).
func (r *Ring) GetFrac(pos float64) (float64, error) {
	if pos < 0 || math.IsNaN(pos) || math.IsInf(pos, 0) {
		return 0, fmt.Errorf("%w: fractional offset %v", ErrOutOfRange, pos)
	}

	whole := math.Floor(pos)
	i := int(math.Mod(whole, float64(len(r.data))))
	return interp.Linear2(pos-whole, r.Get(i), r.Get(i+1)), nil
}

// ReadIndex returns the read cursor.
func (r *Ring) ReadIndex() int {
	return r.read
}

// SetReadIndex moves the read cursor to index modulo the capacity.
func (r *Ring) SetReadIndex(index int) {
	r.read = r.wrap(index)
}

// WriteIndex returns the write cursor.
func (r *Ring) WriteIndex() int {
	return r.write
}

// SetWriteIndex moves the write cursor to index modulo the capacity.
func (r *Ring) SetWriteIndex(index int) {
	r.write = r.wrap(index)
}

// Discard moves the read cursor onto the write cursor, leaving Len() == 0.
// Slot contents are left untouched.
func (r *Ring) Discard() {
	r.read = r.write
}

// Segments returns the n samples starting offset slots after the read
// cursor as at most two contiguous views of the backing store, oldest first.
// b is empty unless the range wraps. n is clamped to [0, Cap()].
//
// The views alias the Ring and are invalidated by the next write.
func (r *Ring) Segments(offset, n int) (a, b []float64) {
	n = min(max(n, 0), len(r.data))
	start := r.wrap(r.read + offset)
	if start+n <= len(r.data) {
		return r.data[start : start+n], nil
	}
	return r.data[start:], r.data[:n-(len(r.data)-start)]
}

func (r *Ring) wrap(i int) int {
	i %= len(r.data)
	if i < 0 {
		i += len(r.data)
	}
	return i
}

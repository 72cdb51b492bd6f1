package core

// Grow extends buf by n samples, reusing its capacity when possible, and
// returns the extended slice together with a view of the n new samples.
// The contents of the new samples are unspecified.
func Grow(buf []float64, n int) (grown, added []float64) {
	if n <= 0 {
		return buf, buf[len(buf):]
	}

	total := len(buf) + n
	if cap(buf) < total {
		next := make([]float64, len(buf), max(total, 2*cap(buf)))
		copy(next, buf)
		buf = next
	}

	grown = buf[:total]
	return grown, grown[len(buf):]
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	clear(buf)
}

// CopyInto copies src into dst and returns the number of copied elements.
func CopyInto(dst, src []float64) int {
	return copy(dst, src)
}

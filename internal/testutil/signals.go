package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise in [-amplitude, amplitude) with a
// fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// DeterministicUniform generates values in [0, 1) with a fixed seed. It is
// the usual shape of a random test impulse response.
func DeterministicUniform(seed int64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = rng.Float64()
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// Chunks splits signal into consecutive sub-slices of the given sizes.
// Sizes beyond the end of signal yield short or empty chunks; samples left
// after the last size are returned as a final chunk.
func Chunks(signal []float64, sizes ...int) [][]float64 {
	chunks := make([][]float64, 0, len(sizes)+1)
	pos := 0
	for _, n := range sizes {
		end := min(pos+max(n, 0), len(signal))
		chunks = append(chunks, signal[pos:end])
		pos = end
	}
	if pos < len(signal) {
		chunks = append(chunks, signal[pos:])
	}
	return chunks
}

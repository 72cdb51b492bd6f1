package conv

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-conv/dsp/buffer"
	"github.com/cwbudde/algo-conv/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// PartitionedConvolver implements uniformly partitioned overlap-add
// convolution for streams delivered in blocks of any size.
//
// The impulse response is split into N = ceil(L/blockSize) partitions, each
// zero-padded and transformed once. Input is collected until two blocks
// (2*blockSize samples) are available; the two halves are packed into the
// real and imaginary parts of one complex window so that a single forward FFT
// and one inverse FFT per partition convolve both halves. The real result of
// partition i is overlap-added at offset i*blockSize and the imaginary result
// one block later.
//
// Output is aligned with input: the n-th emitted sample is y[n]. Samples are
// emitted 2*blockSize at a time, so up to Latency() samples are held back
// until more input or a Flush arrives.
type PartitionedConvolver struct {
	kernelLen int
	blockSize int
	fftSize   int // >= 2*blockSize, power of 2
	depth     int // accumulator depth in blocks: max(N, 2)

	plan    *algofft.Plan[complex128]
	spectra [][]complex128 // one per partition, immutable

	input  *buffer.Ring // unconsumed input, at most 2*blockSize samples
	output *buffer.Ring // partial overlap-add sums for not yet final samples

	window   []complex128 // packed analysis window
	spectrum []complex128 // transform of window
	product  []complex128 // per-partition spectral product
	result   []complex128 // inverse transform of product
	sum      []float64    // (depth+2)*blockSize overlap-add scratch
	re, im   []float64    // 2*blockSize unpacked halves of result
}

// NewPartitionedConvolver creates a partitioned convolver for ir with the
// given partition size. The impulse response is copied into its partition
// spectra.
func NewPartitionedConvolver(ir []float64, blockSize int) (*PartitionedConvolver, error) {
	if len(ir) == 0 {
		return nil, ErrEmptyImpulseResponse
	}
	if blockSize <= 0 {
		return nil, fmt.Errorf("%w: blockSize must be positive, got %d", ErrInvalidBlockSize, blockSize)
	}

	count := (len(ir) + blockSize - 1) / blockSize
	depth := max(count, 2)
	fftSize := nextPowerOf2(2 * blockSize)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	spectra, err := partitionSpectra(plan, ir, blockSize, count, fftSize)
	if err != nil {
		return nil, err
	}

	input, err := buffer.NewRing(2*blockSize + 1)
	if err != nil {
		return nil, fmt.Errorf("conv: input accumulator: %w", err)
	}

	output, err := buffer.NewRing(depth*blockSize + 1)
	if err != nil {
		return nil, fmt.Errorf("conv: output accumulator: %w", err)
	}

	p := &PartitionedConvolver{
		kernelLen: len(ir),
		blockSize: blockSize,
		fftSize:   fftSize,
		depth:     depth,
		plan:      plan,
		spectra:   spectra,
		input:     input,
		output:    output,
		window:    make([]complex128, fftSize),
		spectrum:  make([]complex128, fftSize),
		product:   make([]complex128, fftSize),
		result:    make([]complex128, fftSize),
		sum:       make([]float64, (depth+2)*blockSize),
		re:        make([]float64, 2*blockSize),
		im:        make([]float64, 2*blockSize),
	}
	p.Reset()

	return p, nil
}

// partitionSpectra splits ir into count blocks of blockSize samples, the
// last one zero-padded, and returns the fftSize-point spectrum of each.
func partitionSpectra(plan *algofft.Plan[complex128], ir []float64, blockSize, count, fftSize int) ([][]complex128, error) {
	padded := make([]complex128, fftSize)
	spectra := make([][]complex128, count)

	for i := range spectra {
		clear(padded)

		start := i * blockSize
		end := min(start+blockSize, len(ir))
		for j, v := range ir[start:end] {
			padded[j] = complex(v, 0)
		}

		spectra[i] = make([]complex128, fftSize)
		if err := plan.Forward(spectra[i], padded); err != nil {
			return nil, fmt.Errorf("conv: failed to compute partition %d FFT: %w", i, err)
		}
	}

	return spectra, nil
}

// ProcessStreaming pushes input into the convolver and returns the samples
// that became final, possibly none. The result is newly allocated.
func (p *PartitionedConvolver) ProcessStreaming(input []float64) ([]float64, error) {
	// Output grows in whole analysis steps.
	step := 2 * p.blockSize
	steps := (p.input.Len() + len(input)) / step
	return p.ProcessStreamingTo(make([]float64, 0, steps*step), input)
}

// ProcessStreamingTo is like ProcessStreaming but appends the finished
// samples to dst and returns the extended slice. It does not allocate when
// dst has room for len(input)+Pending() samples.
func (p *PartitionedConvolver) ProcessStreamingTo(dst, input []float64) ([]float64, error) {
	step := 2 * p.blockSize

	for _, x := range input {
		p.input.Push(x)
		if p.input.Len() == step {
			var err error
			if dst, err = p.analyze(dst); err != nil {
				return dst, err
			}
		}
	}

	return dst, nil
}

// analyze consumes 2*blockSize buffered input samples, overlap-adds their
// convolution with every partition into the output accumulator, and appends
// the 2*blockSize samples that are now final to dst.
func (p *PartitionedConvolver) analyze(dst []float64) ([]float64, error) {
	b := p.blockSize

	clear(p.window)
	for n := range b {
		p.window[n] = complex(p.input.Get(n), p.input.Get(b+n))
	}
	p.input.Discard()

	if err := p.plan.Forward(p.spectrum, p.window); err != nil {
		return dst, fmt.Errorf("conv: forward FFT failed: %w", err)
	}

	clear(p.sum)
	for i, partition := range p.spectra {
		for k, h := range partition {
			p.product[k] = p.spectrum[k] * h
		}

		// The plan's inverse is normalised by the transform length.
		if err := p.plan.Inverse(p.result, p.product); err != nil {
			return dst, fmt.Errorf("conv: inverse FFT failed: %w", err)
		}

		for n := range p.re {
			p.re[n] = real(p.result[n])
			p.im[n] = imag(p.result[n])
		}

		vecmath.AddBlockInPlace(p.sum[i*b:(i+2)*b], p.re)
		vecmath.AddBlockInPlace(p.sum[(i+1)*b:(i+3)*b], p.im)
	}

	// The first two blocks receive no further contributions.
	final := 2 * b
	dst, out := core.Grow(dst, final)
	for n := range out {
		out[n] = p.sum[n] + p.output.Pop()
	}

	// Blocks still reachable by later steps accumulate in place.
	pending := (p.depth - 2) * b
	for n := range pending {
		p.output.Add(n, p.sum[final+n])
	}

	// Blocks beyond the previous reach start fresh.
	for _, v := range p.sum[final+pending:] {
		p.output.Push(v)
	}

	return dst, nil
}

// Flush drains the convolver after the last real input sample.
//
// remainder holds the final samples of real input that were still buffered
// in a partially filled analysis window (fewer than 2*blockSize). tail holds
// exactly TailLen() ring-out samples. Afterwards the streaming state is
// cleared, so flushing again yields an empty remainder and a silent tail.
func (p *PartitionedConvolver) Flush() (remainder, tail []float64, err error) {
	step := 2 * p.blockSize
	tailLen := p.TailLen()
	pending := p.input.Len()

	remainder = make([]float64, pending)
	tail = make([]float64, 0, tailLen+step)

	if pending > 0 {
		block, err := p.feedZeros(make([]float64, 0, step), step-pending)
		if err != nil {
			return nil, nil, err
		}
		n := core.CopyInto(remainder, block)
		tail = append(tail, block[n:]...)
	}

	for len(tail) < tailLen {
		if tail, err = p.feedZeros(tail, step); err != nil {
			return nil, nil, err
		}
	}

	p.Reset()

	return remainder, tail[:tailLen], nil
}

// feedZeros pushes n zero samples and appends any finished output to dst.
func (p *PartitionedConvolver) feedZeros(dst []float64, n int) ([]float64, error) {
	step := 2 * p.blockSize

	for range n {
		p.input.Push(0)
		if p.input.Len() == step {
			var err error
			if dst, err = p.analyze(dst); err != nil {
				return dst, err
			}
		}
	}

	return dst, nil
}

// Reset clears all streaming state. Partition spectra are kept.
func (p *PartitionedConvolver) Reset() {
	p.input.Reset()
	p.input.Discard()

	p.output.Reset()
	p.output.Discard()
	for range p.depth * p.blockSize {
		p.output.Push(0)
	}
}

// Pending returns the number of input samples buffered but not yet emitted.
func (p *PartitionedConvolver) Pending() int {
	return p.input.Len()
}

// Latency returns the largest number of samples that can be held back
// before they are emitted: 2*BlockSize() - 1.
func (p *PartitionedConvolver) Latency() int {
	return 2*p.blockSize - 1
}

// BlockSize returns the partition size.
func (p *PartitionedConvolver) BlockSize() int {
	return p.blockSize
}

// FFTSize returns the transform size used internally.
func (p *PartitionedConvolver) FFTSize() int {
	return p.fftSize
}

// PartitionCount returns the number of impulse response partitions.
func (p *PartitionedConvolver) PartitionCount() int {
	return len(p.spectra)
}

// KernelLen returns the impulse response length.
func (p *PartitionedConvolver) KernelLen() int {
	return p.kernelLen
}

// TailLen returns KernelLen() - 1.
func (p *PartitionedConvolver) TailLen() int {
	return p.kernelLen - 1
}

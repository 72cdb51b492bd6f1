// Command convinfo prints the geometry and estimated cost of the convolution
// modes for an impulse response length.
//
// Usage:
//
//	convinfo [flags] [block-size ...]
//
// Without block sizes it prints every power of two from 16 to 4096.
//
// Examples:
//
//	convinfo -ir 48000
//	convinfo -ir 96000 -rate 96000 256 512
//	convinfo -ir 4096 -verify 64
//	convinfo -wav hall.wav 128 1024
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/cwbudde/algo-conv/dsp/conv"
	"github.com/cwbudde/algo-vecmath"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("convinfo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	irLen := fs.Int("ir", 48000, "impulse response length in samples")
	rate := fs.Float64("rate", 48000, "sample rate in Hz")
	wavPath := fs.String("wav", "", "read the impulse response from the first channel of a WAV file (overrides -ir and -rate)")
	verify := fs.Bool("verify", false, "run noise through both modes and report the largest difference")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: convinfo [flags] [block-size ...]\n\n")
		fmt.Fprintf(stderr, "Prints geometry and estimated cost of the convolution modes.\n")
		fmt.Fprintf(stderr, "Without block sizes, prints powers of two from 16 to 4096.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	blockSizes, err := parseBlockSizes(fs.Args())
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	var ir []float64
	if *wavPath != "" {
		if ir, *rate, err = loadImpulseResponse(*wavPath); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
	} else {
		ir = noise(1, max(*irLen, 0))
	}

	rows, err := analyze(ir, *rate, blockSizes, *verify)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	if err := printRows(stdout, rows, *verify); err != nil {
		fmt.Fprintf(stderr, "error: failed to write output: %v\n", err)
		return 1
	}
	return 0
}

func parseBlockSizes(args []string) ([]int, error) {
	if len(args) == 0 {
		var sizes []int
		for b := 16; b <= 4096; b *= 2 {
			sizes = append(sizes, b)
		}
		return sizes, nil
	}

	sizes := make([]int, 0, len(args))
	for _, a := range args {
		b, err := strconv.Atoi(a)
		if err != nil || b <= 0 {
			return nil, fmt.Errorf("invalid block size %q", a)
		}
		sizes = append(sizes, b)
	}
	return sizes, nil
}

type row struct {
	mode       string
	partitions int
	fftSize    int
	latency    int
	latencyMs  float64
	tailMs     float64
	mulsPerSmp float64
	maxDiff    float64
}

func analyze(ir []float64, rate float64, blockSizes []int, verify bool) ([]row, error) {
	direct, err := conv.New(ir, conv.TimeDomain(), conv.WithSampleRate(rate))
	if err != nil {
		return nil, err
	}

	tailMs := float64(direct.TailDuration().Microseconds()) / 1000
	rows := []row{{
		mode:       direct.Mode().String(),
		partitions: 1,
		tailMs:     tailMs,
		mulsPerSmp: float64(len(ir)),
	}}

	var signal, reference []float64
	if verify {
		signal = noise(2, 4*len(ir))
		if reference, err = conv.Direct(signal, ir); err != nil {
			return nil, err
		}
	}

	for _, b := range blockSizes {
		p, err := conv.NewPartitionedConvolver(ir, b)
		if err != nil {
			return nil, err
		}

		r := row{
			mode:       conv.FrequencyDomain(b).String(),
			partitions: p.PartitionCount(),
			fftSize:    p.FFTSize(),
			latency:    p.Latency(),
			latencyMs:  1000 * float64(p.Latency()) / rate,
			tailMs:     tailMs,
			mulsPerSmp: partitionedCost(p.PartitionCount(), p.FFTSize(), b),
		}

		if verify {
			if r.maxDiff, err = compare(p, signal, reference); err != nil {
				return nil, err
			}
		}
		rows = append(rows, r)
	}

	return rows, nil
}

// partitionedCost estimates real multiplications per output sample: one
// forward and count inverse radix-2 transforms plus count spectral products,
// amortised over the 2*blockSize samples of one step.
func partitionedCost(count, fftSize, blockSize int) float64 {
	fft := 2 * float64(fftSize) * math.Log2(float64(fftSize))
	products := 4 * float64(fftSize)
	step := float64(count+1)*fft + float64(count)*products
	return step / float64(2*blockSize)
}

func compare(p *conv.PartitionedConvolver, signal, reference []float64) (float64, error) {
	got, err := p.ProcessStreaming(signal)
	if err != nil {
		return 0, err
	}
	remainder, tail, err := p.Flush()
	if err != nil {
		return 0, err
	}
	got = append(append(got, remainder...), tail...)
	if len(got) != len(reference) {
		return 0, fmt.Errorf("partitioned output has %d samples, want %d", len(got), len(reference))
	}

	vecmath.ScaleBlockInPlace(got, -1)
	vecmath.AddBlockInPlace(got, reference)
	return vecmath.MaxAbs(got), nil
}

// noise returns n reproducible samples in [-1, 1).
func noise(seed uint64, n int) []float64 {
	rng := rand.New(rand.NewPCG(seed, seed))
	out := make([]float64, n)
	for i := range out {
		out[i] = 2*rng.Float64() - 1
	}
	return out
}

func printRows(w io.Writer, rows []row, verify bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := "Mode\tPartitions\tFFT\tLatency [smp]\tLatency [ms]\tTail [ms]\tMuls/sample"
	if verify {
		header += "\tMax |diff|"
	}
	if _, err := fmt.Fprintln(tw, header); err != nil {
		return err
	}

	for _, r := range rows {
		line := fmt.Sprintf("%s\t%d\t%d\t%d\t%.3f\t%.1f\t%.1f",
			r.mode, r.partitions, r.fftSize, r.latency, r.latencyMs, r.tailMs, r.mulsPerSmp)
		if verify {
			line += fmt.Sprintf("\t%.3g", r.maxDiff)
		}
		if _, err := fmt.Fprintln(tw, line); err != nil {
			return err
		}
	}

	return tw.Flush()
}

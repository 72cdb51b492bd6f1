package conv_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-conv/dsp/conv"
)

func ExampleDirect() {
	y, err := conv.Direct([]float64{1, 2, 3}, []float64{1, 1})
	if err != nil {
		panic(err)
	}
	fmt.Println(y)
	// Output: [1 3 5 3]
}

func ExampleConvolver_Process() {
	c, err := conv.New([]float64{1, 0.5}, conv.TimeDomain())
	if err != nil {
		panic(err)
	}

	out := make([]float64, 3)
	if err := c.Process([]float64{2, 0, 4}, out); err != nil {
		panic(err)
	}
	tail := make([]float64, c.TailLen())
	if err := c.Flush(tail); err != nil {
		panic(err)
	}

	fmt.Println(out, tail)
	// Output: [2 1 4] [2]
}

func ExampleConvolver_ProcessStreaming() {
	c, err := conv.New([]float64{1, 0.5, 0.25}, conv.FrequencyDomain(2))
	if err != nil {
		panic(err)
	}

	out, err := c.ProcessStreaming([]float64{1, 0, 0, 0, 0})
	if err != nil {
		panic(err)
	}
	fmt.Printf("streamed %d samples: %v\n", len(out), rounded(out))

	remainder, tail, err := c.FlushStreaming()
	if err != nil {
		panic(err)
	}
	fmt.Printf("remainder %v tail %v\n", rounded(remainder), rounded(tail))
	// Output:
	// streamed 4 samples: [1 0.5 0.25 0]
	// remainder [0] tail [0 0]
}

// rounded hides FFT round-off in printed output.
func rounded(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		r := math.Round(v*1e9) / 1e9
		if r == 0 {
			r = 0 // drop the sign of -0
		}
		out[i] = r
	}
	return out
}

package conv

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cwbudde/algo-conv/internal/testutil"
)

func mustNew(t *testing.T, ir []float64, mode Mode, opts ...Option) *Convolver {
	t.Helper()
	c, err := New(ir, mode, opts...)
	if err != nil {
		t.Fatalf("New(%v): %v", mode, err)
	}
	return c
}

func TestConvolverWrongMode(t *testing.T) {
	ir := []float64{1, 0.5, 0.25}

	direct := mustNew(t, ir, TimeDomain())
	if _, err := direct.ProcessStreaming([]float64{1}); !errors.Is(err, ErrWrongMode) {
		t.Errorf("ProcessStreaming in direct mode: want ErrWrongMode, got %v", err)
	}
	if _, _, err := direct.FlushStreaming(); !errors.Is(err, ErrWrongMode) {
		t.Errorf("FlushStreaming in direct mode: want ErrWrongMode, got %v", err)
	}

	partitioned := mustNew(t, ir, FrequencyDomain(4))
	if err := partitioned.Process([]float64{1}, make([]float64, 1)); !errors.Is(err, ErrWrongMode) {
		t.Errorf("Process in partitioned mode: want ErrWrongMode, got %v", err)
	}
	err := partitioned.Flush(make([]float64, 2))
	if !errors.Is(err, ErrWrongMode) {
		t.Errorf("Flush in partitioned mode: want ErrWrongMode, got %v", err)
	}
	if !strings.Contains(err.Error(), "partitioned(blockSize=4)") {
		t.Errorf("error does not name the mode: %v", err)
	}
}

func TestConvolverConstructionErrors(t *testing.T) {
	if _, err := New(nil, TimeDomain()); !errors.Is(err, ErrEmptyImpulseResponse) {
		t.Errorf("direct: want ErrEmptyImpulseResponse, got %v", err)
	}
	if _, err := New([]float64{1}, FrequencyDomain(0)); !errors.Is(err, ErrInvalidBlockSize) {
		t.Errorf("partitioned: want ErrInvalidBlockSize, got %v", err)
	}
	if _, err := New([]float64{1}, Mode{kind: Kind(7)}); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("unknown kind: want ErrInvalidMode, got %v", err)
	}
}

func TestConvolverModes(t *testing.T) {
	ir := testutil.DeterministicUniform(1, 51)
	signal := testutil.DeterministicNoise(2, 1, 4000)

	direct := mustNew(t, ir, TimeDomain())
	partitioned := mustNew(t, ir, FrequencyDomain(5), WithMaxBlock(512))

	if direct.Mode().Kind() != KindDirect || partitioned.Mode().Kind() != KindPartitioned {
		t.Fatalf("kinds = %v/%v", direct.Mode().Kind(), partitioned.Mode().Kind())
	}
	if partitioned.Mode().BlockSize() != 5 {
		t.Fatalf("BlockSize() = %d, want 5", partitioned.Mode().BlockSize())
	}
	for _, c := range []*Convolver{direct, partitioned} {
		if c.TailLen() != 50 || c.KernelLen() != 51 {
			t.Fatalf("%v: TailLen/KernelLen = %d/%d", c.Mode(), c.TailLen(), c.KernelLen())
		}
	}

	want := make([]float64, len(signal)+direct.TailLen())
	off := 0
	for _, chunk := range testutil.Chunks(signal, 512, 512, 100, 512) {
		if err := direct.Process(chunk, want[off:off+len(chunk)]); err != nil {
			t.Fatalf("Process: %v", err)
		}
		off += len(chunk)
	}
	if err := direct.Flush(want[len(signal):]); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	var got []float64
	for _, chunk := range testutil.Chunks(signal, 512, 512, 100, 512) {
		out, err := partitioned.ProcessStreaming(chunk)
		if err != nil {
			t.Fatalf("ProcessStreaming: %v", err)
		}
		got = append(got, out...)
	}
	remainder, tail, err := partitioned.FlushStreaming()
	if err != nil {
		t.Fatalf("FlushStreaming: %v", err)
	}
	got = append(append(got, remainder...), tail...)

	testutil.RequireSliceNearlyEqual(t, got, want, crossModeTolerance)
}

func TestConvolverGain(t *testing.T) {
	ir := []float64{1, 0.5, 0.25}
	input := testutil.Impulse(8, 0)

	for _, mode := range []Mode{TimeDomain(), FrequencyDomain(2)} {
		c := mustNew(t, ir, mode, WithGain(-2))

		var got []float64
		if mode.Kind() == KindDirect {
			got = make([]float64, len(input)+c.TailLen())
			if err := c.Process(input, got[:len(input)]); err != nil {
				t.Fatalf("Process: %v", err)
			}
			if err := c.Flush(got[len(input):]); err != nil {
				t.Fatalf("Flush: %v", err)
			}
		} else {
			out, err := c.ProcessStreaming(input)
			if err != nil {
				t.Fatalf("ProcessStreaming: %v", err)
			}
			rem, tail, err := c.FlushStreaming()
			if err != nil {
				t.Fatalf("FlushStreaming: %v", err)
			}
			got = append(append(append(got, out...), rem...), tail...)
		}

		want := []float64{-2, -1, -0.5, 0, 0, 0, 0, 0, 0, 0}
		testutil.RequireSliceNearlyEqual(t, got, want, crossModeTolerance)
	}
}

func TestConvolverDenormalFlush(t *testing.T) {
	ir := []float64{1, 1}
	input := testutil.Impulse(4, 0)

	plain := mustNew(t, ir, TimeDomain(), WithGain(1e-35))
	out := make([]float64, len(input))
	if err := plain.Process(input, out); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out[0] == 0 {
		t.Fatal("expected a tiny non-zero sample without denormal flushing")
	}

	flushed := mustNew(t, ir, TimeDomain(), WithGain(1e-35), WithDenormalFlush(true))
	if err := flushed.Process(input, out); err != nil {
		t.Fatalf("Process: %v", err)
	}
	testutil.RequireAllZero(t, out)
}

func TestConvolverInvalidOptionsIgnored(t *testing.T) {
	c := mustNew(t, []float64{1}, TimeDomain(),
		WithGain(1/zero()), WithSampleRate(-1), WithMaxBlock(0), nil)
	def := defaultConfig()
	if c.cfg != def {
		t.Fatalf("cfg = %#v, want %#v", c.cfg, def)
	}
}

func zero() float64 { return 0 }

func TestConvolverTailDuration(t *testing.T) {
	c := mustNew(t, make([]float64, 24001), FrequencyDomain(256), WithSampleRate(48000))
	if got := c.TailDuration(); got != 500*time.Millisecond {
		t.Fatalf("TailDuration() = %v, want 500ms", got)
	}
}

func TestConvolverReset(t *testing.T) {
	ir := testutil.DeterministicUniform(3, 12)
	c := mustNew(t, ir, FrequencyDomain(4))

	if _, err := c.ProcessStreaming(testutil.DeterministicNoise(4, 1, 13)); err != nil {
		t.Fatalf("ProcessStreaming: %v", err)
	}
	c.Reset()

	out, err := c.ProcessStreaming(testutil.Impulse(8, 0))
	if err != nil {
		t.Fatalf("ProcessStreaming: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, out, ir[:8], crossModeTolerance)
}

func TestModeString(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{TimeDomain(), "direct"},
		{Mode{}, "direct"},
		{FrequencyDomain(64), "partitioned(blockSize=64)"},
		{Mode{kind: Kind(5)}, "conv.Kind(5)"},
	}
	for _, tc := range tests {
		if got := tc.mode.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

package conv

import (
	"math"

	"github.com/cwbudde/algo-conv/dsp/core"
)

// config holds the construction settings of a Convolver.
type config struct {
	proc           core.ProcessorConfig
	gain           float64
	flushDenormals bool
}

func defaultConfig() config {
	return config{
		proc: core.DefaultProcessorConfig(),
		gain: 1,
	}
}

// Option configures a Convolver.
type Option func(*config)

// WithSampleRate sets the sample rate used to express durations such as
// [Convolver.TailDuration]. Non-positive values are ignored.
func WithSampleRate(sampleRate float64) Option {
	return func(cfg *config) {
		core.WithSampleRate(sampleRate)(&cfg.proc)
	}
}

// WithMaxBlock sets the largest input block the caller will pass to
// ProcessStreaming. The output scratch is sized for it up front so steady
// state processing does not allocate. Non-positive values are ignored.
func WithMaxBlock(n int) Option {
	return func(cfg *config) {
		core.WithBlockSize(n)(&cfg.proc)
	}
}

// WithGain scales every output sample, including flushed ones, by gain.
// Non-finite values are ignored.
func WithGain(gain float64) Option {
	return func(cfg *config) {
		if !math.IsNaN(gain) && !math.IsInf(gain, 0) {
			cfg.gain = gain
		}
	}
}

// WithDenormalFlush replaces denormal-range output samples with exact zero.
func WithDenormalFlush(enabled bool) Option {
	return func(cfg *config) {
		cfg.flushDenormals = enabled
	}
}

func applyOptions(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

package conv

import "fmt"

// Kind identifies a convolution engine.
type Kind int

const (
	// KindDirect selects time-domain convolution.
	KindDirect Kind = iota
	// KindPartitioned selects uniformly partitioned FFT convolution.
	KindPartitioned
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindDirect:
		return "direct"
	case KindPartitioned:
		return "partitioned"
	default:
		return fmt.Sprintf("conv.Kind(%d)", int(k))
	}
}

// Mode selects the engine a [Convolver] runs, together with its parameters.
// The zero Mode is TimeDomain().
type Mode struct {
	kind      Kind
	blockSize int
}

// TimeDomain returns the direct convolution mode.
func TimeDomain() Mode {
	return Mode{kind: KindDirect}
}

// FrequencyDomain returns the partitioned convolution mode with the given
// partition size. The size is validated by [New].
func FrequencyDomain(blockSize int) Mode {
	return Mode{kind: KindPartitioned, blockSize: blockSize}
}

// Kind returns the engine kind.
func (m Mode) Kind() Kind {
	return m.kind
}

// BlockSize returns the partition size, or 0 in time-domain mode.
func (m Mode) BlockSize() int {
	return m.blockSize
}

// String implements fmt.Stringer.
func (m Mode) String() string {
	if m.kind == KindPartitioned {
		return fmt.Sprintf("partitioned(blockSize=%d)", m.blockSize)
	}
	return m.kind.String()
}

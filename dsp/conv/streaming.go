package conv

// engine is the state shared by both streaming convolution modes.
// Mode-specific processing is reached through the concrete types.
type engine interface {
	// Reset clears all streaming state, ready for a new signal.
	Reset()

	// KernelLen returns the impulse response length.
	KernelLen() int

	// TailLen returns the number of samples a flush yields after the last
	// real input sample: KernelLen() - 1.
	TailLen() int
}

var (
	_ engine = (*DirectConvolver)(nil)
	_ engine = (*PartitionedConvolver)(nil)
)

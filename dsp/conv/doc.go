// Package conv provides streaming convolution of audio signals with an
// arbitrary-length impulse response.
//
// Two engines are available, with identical results up to floating-point
// rounding:
//
//   - Direct convolution ([DirectConvolver]): time-domain dot product per
//     sample, O(L) work per sample. Output length always equals input length.
//   - Uniformly partitioned overlap-add ([PartitionedConvolver]): the impulse
//     response is split into equal blocks that are transformed once; input is
//     analysed two blocks at a time with a single complex FFT. Output is
//     emitted in chunks of 2*blockSize as soon as it is final.
//
// # Usage
//
// [Convolver] wraps both engines behind one streaming interface. The mode is
// chosen at construction and never changes:
//
//	c, err := conv.New(ir, conv.FrequencyDomain(256))
//	out, err := c.ProcessStreaming(block)      // zero or more finished samples
//	rest, tail, err := c.FlushStreaming()      // after the last input block
//
//	d, err := conv.New(ir, conv.TimeDomain())
//	err = d.Process(block, out)                // len(out) == len(block)
//	err = d.Flush(tail)                        // len(tail) == d.TailLen()
//
// Calling an entry point of the other mode returns [ErrWrongMode].
//
// # Flushing
//
// After the last real input sample the convolution tail, TailLen() =
// len(ir)-1 samples, is still owed to the caller. Direct mode produces it by
// pushing zeros through Flush. Partitioned mode returns the already valid
// samples of a partially filled analysis window separately from the tail, so
// callers can tell real output from ring-out. Once the tail is drained,
// further flushing yields zeros.
//
// # One-shot convolution
//
// [Direct] computes a full linear convolution of two finite signals and is
// used as the reference for the streaming engines.
package conv

// Package interp provides interpolation primitives used by fractional reads
// from circular buffers and delay lines.
//
// Available methods, from cheapest to highest quality:
//
//   - [Linear2]:  2-point linear interpolation
//   - [Hermite4]: 4-point cubic Hermite (good default for modulated delays)
//
// The [Mode] enum selects the algorithm at construction time for types that
// support more than one.
package interp

// Package buffer provides Ring, a fixed-capacity circular sample store with
// independent read and write cursors.
//
// Ring centralises all wraparound arithmetic for the streaming processors in
// this module: the convolution engines keep their input history and
// overlap-add accumulators in a Ring, and delay lines relocate its read
// cursor to obtain variable delay lengths. Fractional reads interpolate
// linearly between neighbouring slots.
package buffer

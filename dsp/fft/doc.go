// Package fft implements the discrete Fourier transform and its inverse
// over power-of-two blocks of real samples.
//
// The Plan type precomputes the bit-reversal permutation and twiddle
// factors for one transform size; the one-shot Forward and Inverse
// functions are conveniences for callers without a hot loop. The forward
// transform is unnormalized and the inverse divides by N.
package fft

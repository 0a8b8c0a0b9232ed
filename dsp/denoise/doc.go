// Package denoise implements overlap-add spectral gating over normalized
// sample buffers.
//
// Denoising is a whole-buffer batch operation: it either completes and
// returns a full output buffer or fails and returns nothing. The gate is
// hard - a bin below the threshold is zeroed, magnitude and phase both -
// and the threshold is interpreted relative to each window's peak bin
// magnitude, so gating strength tracks the local signal level.
package denoise

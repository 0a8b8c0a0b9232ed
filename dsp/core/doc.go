// Package core provides small shared numeric helpers used across the
// denoising pipeline: clamping, tolerant comparison, power-of-two sizing,
// and dB conversion. It has no dependencies beyond the standard library.
package core

package fft

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-denoise/dsp/core"
)

// Errors returned by transform functions.
var (
	ErrInvalidSize    = errors.New("fft: size must be a nonzero power of two")
	ErrLengthMismatch = errors.New("fft: buffer length mismatch")
)

// Plan holds precomputed state for transforms of one fixed size.
//
// A Plan is created once per size and reused for every window of that size.
// The forward transform is unnormalized (sum form); the inverse divides by N,
// so Inverse(Forward(x)) reproduces x up to floating-point rounding.
//
// The transform is the iterative radix-2 decimation-in-time formulation:
// a bit-reversal permutation followed by log2(N) butterfly stages using
// precomputed twiddle factors. Stack depth is constant regardless of N.
//
// A Plan is safe for concurrent use: its state is read-only after creation
// and all scratch space lives in caller-provided buffers.
type Plan struct {
	n       int
	rev     []int        // bit-reversal permutation
	twiddle []complex128 // exp(-2*pi*i*k/n) for k in [0, n/2)
}

// NewPlan creates a transform plan for size n.
// n must be a power of two; otherwise ErrInvalidSize is returned.
func NewPlan(n int) (*Plan, error) {
	if !core.IsPowerOfTwo(n) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, n)
	}

	p := &Plan{
		n:       n,
		rev:     make([]int, n),
		twiddle: make([]complex128, n/2),
	}

	shift := 0
	for 1<<(shift+1) <= n {
		shift++
	}
	for i := 1; i < n; i++ {
		p.rev[i] = p.rev[i>>1]>>1 | (i&1)<<(shift-1)
	}

	for k := range p.twiddle {
		s, c := math.Sincos(-2 * math.Pi * float64(k) / float64(n))
		p.twiddle[k] = complex(c, s)
	}

	return p, nil
}

// Size returns the transform size N.
func (p *Plan) Size() int { return p.n }

// Bins returns the number of distinct bins for real input, N/2 + 1.
func (p *Plan) Bins() int { return p.n/2 + 1 }

// Forward computes the discrete Fourier transform of src into dst.
//
// src holds N real time-domain samples; dst receives N complex bins where
// bin k and bin N-k are conjugate-symmetric. dst and src must both have
// length N. The output is unnormalized.
func (p *Plan) Forward(dst []complex128, src []float64) error {
	if len(src) != p.n || len(dst) != p.n {
		return fmt.Errorf("%w: plan size %d, src %d, dst %d", ErrLengthMismatch, p.n, len(src), len(dst))
	}

	for i, r := range p.rev {
		dst[i] = complex(src[r], 0)
	}
	p.butterflies(dst, false)

	return nil
}

// ForwardComplex computes the transform of complex input src into dst.
// dst and src may alias. Both must have length N.
func (p *Plan) ForwardComplex(dst, src []complex128) error {
	if len(src) != p.n || len(dst) != p.n {
		return fmt.Errorf("%w: plan size %d, src %d, dst %d", ErrLengthMismatch, p.n, len(src), len(dst))
	}

	p.permute(dst, src)
	p.butterflies(dst, false)

	return nil
}

// Inverse computes the inverse transform of src into dst.
//
// src holds N complex frequency bins; dst receives the N real time-domain
// samples, scaled by 1/N. Imaginary residue from asymmetric input is
// discarded. dst and src must both have length N.
func (p *Plan) Inverse(dst []float64, src []complex128) error {
	if len(src) != p.n || len(dst) != p.n {
		return fmt.Errorf("%w: plan size %d, src %d, dst %d", ErrLengthMismatch, p.n, len(src), len(dst))
	}

	// src must survive the call, so the butterflies run on a scratch copy.
	tmp := make([]complex128, p.n)
	p.permute(tmp, src)
	p.butterflies(tmp, true)

	scale := 1 / float64(p.n)
	for i, v := range tmp {
		dst[i] = real(v) * scale
	}

	return nil
}

// InverseComplex computes the full complex inverse transform of src into dst,
// scaled by 1/N. dst and src may alias. Both must have length N.
func (p *Plan) InverseComplex(dst, src []complex128) error {
	if len(src) != p.n || len(dst) != p.n {
		return fmt.Errorf("%w: plan size %d, src %d, dst %d", ErrLengthMismatch, p.n, len(src), len(dst))
	}

	p.permute(dst, src)
	p.butterflies(dst, true)

	scale := complex(1/float64(p.n), 0)
	for i := range dst {
		dst[i] *= scale
	}

	return nil
}

// permute writes src in bit-reversed order into dst. Aliasing is allowed:
// the permutation is its own inverse, so for dst == src each pair is
// swapped exactly once.
func (p *Plan) permute(dst, src []complex128) {
	if &dst[0] == &src[0] {
		for i, r := range p.rev {
			if i < r {
				dst[i], dst[r] = dst[r], dst[i]
			}
		}
		return
	}

	for i, r := range p.rev {
		dst[i] = src[r]
	}
}

// butterflies runs the log2(N) combine stages in place over bit-reversed data.
func (p *Plan) butterflies(buf []complex128, invert bool) {
	n := p.n
	for size := 2; size <= n; size <<= 1 {
		half := size >> 1
		step := n / size

		for start := 0; start < n; start += size {
			for k := 0; k < half; k++ {
				w := p.twiddle[k*step]
				if invert {
					w = complex(real(w), -imag(w))
				}

				a := buf[start+k]
				b := buf[start+k+half] * w
				buf[start+k] = a + b
				buf[start+k+half] = a - b
			}
		}
	}
}

// Forward is a one-shot forward transform of real samples.
// len(x) must be a power of two.
func Forward(x []float64) ([]complex128, error) {
	p, err := NewPlan(len(x))
	if err != nil {
		return nil, err
	}

	out := make([]complex128, len(x))
	if err := p.Forward(out, x); err != nil {
		return nil, err
	}

	return out, nil
}

// Inverse is a one-shot inverse transform to real samples.
// len(bins) must be a power of two.
func Inverse(bins []complex128) ([]float64, error) {
	p, err := NewPlan(len(bins))
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(bins))
	if err := p.Inverse(out, bins); err != nil {
		return nil, err
	}

	return out, nil
}

// ZeroPad returns x extended with zeros to the next power-of-two length.
// If len(x) is already a power of two the input is copied unchanged.
func ZeroPad(x []float64) []float64 {
	n := core.NextPowerOfTwo(len(x))
	out := make([]float64, n)
	copy(out, x)

	return out
}

package denoise

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-denoise/dsp/core"
	"github.com/cwbudde/algo-denoise/dsp/fft"
	"github.com/cwbudde/algo-denoise/dsp/window"
	"github.com/cwbudde/algo-denoise/pcm"
	"github.com/cwbudde/algo-vecmath"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidWindowConfig rejects a window/hop/threshold combination before
// any processing begins; no partial result is ever produced.
var ErrInvalidWindowConfig = errors.New("denoise: invalid window configuration")

const (
	// DefaultWindowSize is the default STFT window length in samples.
	DefaultWindowSize = 1024

	// DefaultHopSize is the default stride between windows. Half-window
	// overlap keeps reconstruction artifact-free with a Hann taper.
	DefaultHopSize = DefaultWindowSize / 2

	// DefaultThresholdFraction is the default gate strength relative to
	// each window's peak bin magnitude.
	DefaultThresholdFraction = 0.1

	// normFloor guards the overlap-add normalization against division by
	// near-zero taper weight at the accumulator edges.
	normFloor = 1e-12
)

// Denoiser removes broadband noise by hard spectral gating.
//
// Each channel is segmented into overlapping Hann-tapered windows; every
// frequency bin whose magnitude falls below thresholdFraction times the
// window's peak magnitude is zeroed; the gated windows are reassembled by
// overlap-add, dividing each sample by its accumulated taper weight. The
// taper is applied once, on analysis, so every output sample is a
// taper-weighted average of its windows' gated frames and raising the
// threshold cannot add energy back.
//
// A Denoiser is immutable after New and safe for concurrent use.
type Denoiser struct {
	threshold  float64
	windowSize int
	hopSize    int
	windowType window.Type

	plan   *fft.Plan
	coeffs []float64
}

// Option configures a Denoiser.
type Option func(*Denoiser)

// WithThresholdFraction sets the spectral gate strength in [0, 1].
// 0 disables gating; 1 keeps only each window's peak bin.
func WithThresholdFraction(v float64) Option {
	return func(d *Denoiser) {
		d.threshold = v
	}
}

// WithWindowSize sets the STFT window length. Must be a power of two.
func WithWindowSize(n int) Option {
	return func(d *Denoiser) {
		d.windowSize = n
	}
}

// WithHopSize sets the stride between windows. Must be in [1, windowSize).
func WithHopSize(n int) Option {
	return func(d *Denoiser) {
		d.hopSize = n
	}
}

// WithWindowType sets the taper shape applied to each window.
func WithWindowType(t window.Type) Option {
	return func(d *Denoiser) {
		d.windowType = t
	}
}

// New creates a Denoiser with the given options applied over defaults.
func New(opts ...Option) (*Denoiser, error) {
	d := &Denoiser{
		threshold:  DefaultThresholdFraction,
		windowSize: DefaultWindowSize,
		hopSize:    DefaultHopSize,
		windowType: window.TypeHann,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}

	if err := d.validate(); err != nil {
		return nil, err
	}

	plan, err := fft.NewPlan(d.windowSize)
	if err != nil {
		return nil, fmt.Errorf("denoise: %w", err)
	}

	d.plan = plan
	d.coeffs = window.Generate(d.windowType, d.windowSize, window.WithPeriodic())

	return d, nil
}

func (d *Denoiser) validate() error {
	if !core.IsPowerOfTwo(d.windowSize) {
		return fmt.Errorf("%w: window size must be a power of two: %d", ErrInvalidWindowConfig, d.windowSize)
	}

	if d.hopSize <= 0 || d.hopSize >= d.windowSize {
		return fmt.Errorf("%w: hop size must be in [1, %d): %d", ErrInvalidWindowConfig, d.windowSize, d.hopSize)
	}

	if d.threshold < 0 || math.IsNaN(d.threshold) || math.IsInf(d.threshold, 0) {
		return fmt.Errorf("%w: threshold fraction must be >= 0 and finite: %f", ErrInvalidWindowConfig, d.threshold)
	}

	return nil
}

// ThresholdFraction returns the configured gate strength.
func (d *Denoiser) ThresholdFraction() float64 { return d.threshold }

// WindowSize returns the STFT window length in samples.
func (d *Denoiser) WindowSize() int { return d.windowSize }

// HopSize returns the stride between windows in samples.
func (d *Denoiser) HopSize() int { return d.hopSize }

// WindowType returns the taper shape.
func (d *Denoiser) WindowType() window.Type { return d.windowType }

// Process denoises every channel of the input buffer and returns a new
// buffer of the same shape. The input is not modified.
//
// Channels are independent and processed in parallel, each with private
// scratch and accumulator buffers; there is no shared mutable state.
func (d *Denoiser) Process(in *pcm.Buffer) (*pcm.Buffer, error) {
	out := pcm.NewBuffer(in.Channels(), in.Frames())

	var g errgroup.Group
	for c := range in.Channels() {
		src := in.Channel(c)
		dst := out.Channel(c)

		g.Go(func() error {
			result, err := d.processChannel(src)
			if err != nil {
				return err
			}

			copy(dst, result)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// processChannel runs the window/transform/gate/reconstruct cycle over one
// channel. The channel is padded with windowSize-hopSize leading zeros so
// every real sample receives full taper coverage; windows running past the
// end are zero-padded and only the valid region is returned.
func (d *Denoiser) processChannel(in []float64) ([]float64, error) {
	n := len(in)
	if n == 0 {
		return nil, nil
	}

	lead := d.windowSize - d.hopSize
	padded := lead + n
	frameCount := 1 + (padded-1)/d.hopSize
	accumLen := (frameCount-1)*d.hopSize + d.windowSize

	output := make([]float64, accumLen)
	norm := make([]float64, accumLen)

	frame := make([]float64, d.windowSize)
	spectrum := make([]complex128, d.windowSize)
	timeFrame := make([]float64, d.windowSize)

	bins := d.plan.Bins()
	re := make([]float64, bins)
	im := make([]float64, bins)
	mag := make([]float64, bins)

	for f := range frameCount {
		pos := f * d.hopSize

		for i := range frame {
			x := 0.0

			idx := pos + i - lead
			if idx >= 0 && idx < n {
				x = in[idx]
			}

			frame[i] = x
		}
		vecmath.MulBlockInPlace(frame, d.coeffs)

		if err := d.plan.Forward(spectrum, frame); err != nil {
			return nil, fmt.Errorf("denoise: forward FFT failed: %w", err)
		}

		d.gate(spectrum, re, im, mag)

		if err := d.plan.Inverse(timeFrame, spectrum); err != nil {
			return nil, fmt.Errorf("denoise: inverse FFT failed: %w", err)
		}

		for i, v := range timeFrame {
			output[pos+i] += v
			norm[pos+i] += d.coeffs[i]
		}
	}

	result := make([]float64, n)
	for i := range result {
		v := output[lead+i]
		if norm[lead+i] > normFloor {
			v /= norm[lead+i]
		}

		result[i] = v
	}

	return result, nil
}

// gate zeroes every spectrum bin whose magnitude falls below the configured
// fraction of the window's peak magnitude. Only the non-redundant half of
// the conjugate-symmetric spectrum is examined; each decision is mirrored
// onto the conjugate bin, so the inverse stays real.
func (d *Denoiser) gate(spectrum []complex128, re, im, mag []float64) {
	bins := d.plan.Bins()
	for i, c := range spectrum[:bins] {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Magnitude(mag[:bins], re[:bins], im[:bins])

	peak := 0.0
	for _, m := range mag[:bins] {
		if m > peak {
			peak = m
		}
	}

	n := len(spectrum)
	cut := d.threshold * peak
	for i, m := range mag[:bins] {
		if m < cut {
			spectrum[i] = 0
			if i > 0 && i < n-i {
				spectrum[n-i] = 0
			}
		}
	}
}

// Denoise is a one-shot convenience around New and Process.
func Denoise(in *pcm.Buffer, thresholdFraction float64, windowSize, hopSize int) (*pcm.Buffer, error) {
	d, err := New(
		WithThresholdFraction(thresholdFraction),
		WithWindowSize(windowSize),
		WithHopSize(hopSize),
	)
	if err != nil {
		return nil, err
	}

	return d.Process(in)
}

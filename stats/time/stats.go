// Package time computes time-domain signal statistics used to report
// denoising results.
package time

import "math"

// Stats holds time-domain signal statistics.
//
//nolint:revive
type Stats struct {
	Length        int
	DC            float64 // mean
	RMS           float64
	RMS_dB        float64
	Peak          float64 // max absolute amplitude
	Peak_dB       float64
	Energy        float64 // sum of squares
	Power         float64 // energy / length
	ZeroCrossings int
}

// ampTodB converts an amplitude value to decibels: 20 * log10(|value|).
// Returns -Inf for zero values.
func ampTodB(value float64) float64 {
	a := math.Abs(value)
	if a == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(a)
}

// emptyStats returns a zero-valued Stats with -Inf for all dB fields.
func emptyStats() Stats {
	return Stats{
		RMS_dB:  math.Inf(-1),
		Peak_dB: math.Inf(-1),
	}
}

// Calculate computes all statistics in a single pass over the signal.
func Calculate(signal []float64) Stats {
	n := len(signal)
	if n == 0 {
		return emptyStats()
	}

	var (
		sum           float64
		sumSq         float64
		peak          float64
		zeroCrossings int
	)

	for i, x := range signal {
		sum += x
		sumSq += x * x

		if a := math.Abs(x); a > peak {
			peak = a
		}

		if i > 0 && signal[i-1]*x < 0 {
			zeroCrossings++
		}
	}

	nf := float64(n)
	rms := math.Sqrt(sumSq / nf)

	return Stats{
		Length:        n,
		DC:            sum / nf,
		RMS:           rms,
		RMS_dB:        ampTodB(rms),
		Peak:          peak,
		Peak_dB:       ampTodB(peak),
		Energy:        sumSq,
		Power:         sumSq / nf,
		ZeroCrossings: zeroCrossings,
	}
}

// RMS returns the root-mean-square of the signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	var sumSq float64
	for _, x := range signal {
		sumSq += x * x
	}

	return math.Sqrt(sumSq / float64(len(signal)))
}

// Peak returns the peak absolute amplitude of the signal.
func Peak(signal []float64) float64 {
	var peak float64
	for _, x := range signal {
		if a := math.Abs(x); a > peak {
			peak = a
		}
	}

	return peak
}

// ReductionDB reports how much the RMS level dropped from before to after,
// in decibels. Positive values mean the signal got quieter. Returns 0 when
// either signal is silent.
func ReductionDB(before, after []float64) float64 {
	rb := RMS(before)
	ra := RMS(after)
	if rb == 0 || ra == 0 {
		return 0
	}

	return 20 * math.Log10(rb/ra)
}

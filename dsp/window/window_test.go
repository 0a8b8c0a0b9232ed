package window

import (
	"math"
	"testing"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestGenerateLengthAndRange(t *testing.T) {
	for _, typ := range []Type{TypeRectangular, TypeHann, TypeHamming, TypeBlackman} {
		t.Run(typ.String(), func(t *testing.T) {
			w := Generate(typ, 64)
			if len(w) != 64 {
				t.Fatalf("len = %d, want 64", len(w))
			}

			for i, v := range w {
				if math.IsNaN(v) || v < -1e-12 || v > 1+1e-12 {
					t.Fatalf("coefficient[%d] = %v out of range", i, v)
				}
			}
		})
	}
}

func TestGenerateInvalidLength(t *testing.T) {
	if w := Generate(TypeHann, 0); w != nil {
		t.Fatalf("Generate(0) = %v, want nil", w)
	}
	if w := Generate(TypeHann, -3); w != nil {
		t.Fatalf("Generate(-3) = %v, want nil", w)
	}
}

func TestHannEndpoints(t *testing.T) {
	w := Generate(TypeHann, 17)

	if !almostEqual(w[0], 0, 1e-12) || !almostEqual(w[16], 0, 1e-12) {
		t.Errorf("symmetric Hann endpoints = %v, %v, want 0", w[0], w[16])
	}

	if !almostEqual(w[8], 1, 1e-12) {
		t.Errorf("symmetric Hann midpoint = %v, want 1", w[8])
	}
}

func TestPeriodicDiffersFromSymmetric(t *testing.T) {
	a := Generate(TypeHann, 16)
	b := Generate(TypeHann, 16, WithPeriodic())

	if almostEqual(a[15], b[15], 1e-12) {
		t.Fatal("expected different end coefficient for periodic form")
	}
}

func TestPeriodicHannOverlapAddIsConstant(t *testing.T) {
	// Periodic Hann at 50% overlap sums to a constant, the property the
	// overlap-add reconstruction relies on.
	const (
		size = 64
		hop  = 32
	)

	w := Generate(TypeHann, size, WithPeriodic())

	for i := range hop {
		sum := w[i] + w[i+hop]
		if !almostEqual(sum, 1, 1e-12) {
			t.Fatalf("overlapped sum at %d = %v, want 1", i, sum)
		}
	}
}

func TestApply(t *testing.T) {
	buf := []float64{1, 1, 1, 1, 1, 1, 1, 1}
	Apply(TypeHann, buf)

	want := Generate(TypeHann, 8)
	for i := range buf {
		if !almostEqual(buf[i], want[i], 1e-12) {
			t.Fatalf("buf[%d] = %v, want %v", i, buf[i], want[i])
		}
	}
}

func TestRectangularIsUnity(t *testing.T) {
	for _, v := range Generate(TypeRectangular, 8) {
		if v != 1 {
			t.Fatalf("rectangular coefficient = %v, want 1", v)
		}
	}
}

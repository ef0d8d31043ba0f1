// Package testutil provides assertion helpers and synthetic spectra
// for tests.
package testutil

import (
	"math"
	"testing"
)

// RequireNearlyEqual fails t if got and want differ in length or any
// element pair differs by more than eps (absolute tolerance).
func RequireNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}

	for i := range got {
		if math.Abs(got[i]-want[i]) > eps {
			t.Fatalf("index %d: got %v, want %v (eps %v)", i, got[i], want[i], eps)
		}
	}
}

// RequireNearlyEqualRel fails t like RequireNearlyEqual but with a
// relative tolerance: |got-want| <= rel*|want|, with an absolute
// fallback of rel for values near zero.
func RequireNearlyEqualRel(t *testing.T, got, want []float64, rel float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}

	for i := range got {
		tol := rel * math.Abs(want[i])
		if tol < rel {
			tol = rel
		}

		if math.Abs(got[i]-want[i]) > tol {
			t.Fatalf("index %d: got %v, want %v (rel %v)", i, got[i], want[i], rel)
		}
	}
}

// RequireFinite fails t if any element is NaN or infinite.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()

	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// Delta returns an n-bin spectrum with a single spike of the given
// amplitude at pos.
func Delta(n, pos int, amp float64) []float64 {
	out := make([]float64, n)
	if pos >= 0 && pos < n {
		out[pos] = amp
	}

	return out
}

// Flat returns an n-bin spectrum with every bin set to v.
func Flat(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}

	return out
}

// Sum returns the sum of all bins.
func Sum(spec []float64) float64 {
	total := 0.0
	for _, v := range spec {
		total += v
	}

	return total
}

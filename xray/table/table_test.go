package table

import (
	"errors"
	"math"
	"path/filepath"
	"testing"
)

func TestOpenXSect(t *testing.T) {
	x, err := OpenXSect(filepath.Join("testdata", "xsect_simple.fits"))
	if err != nil {
		t.Fatal(err)
	}

	if len(x.Energy) != 6 || len(x.Sigma) != 6 {
		t.Fatalf("lengths = %d, %d, want 6, 6", len(x.Energy), len(x.Sigma))
	}

	wantE := []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0}
	wantS := []float64{900.0, 120.0, 24.0, 3.0, 0.4, 0.05}

	for i := range wantE {
		if x.Energy[i] != wantE[i] {
			t.Errorf("Energy[%d] = %v, want %v", i, x.Energy[i], wantE[i])
		}

		if x.Sigma[i] != wantS[i] {
			t.Errorf("Sigma[%d] = %v, want %v", i, x.Sigma[i], wantS[i])
		}
	}
}

func TestOpenXSectMissingHDU(t *testing.T) {
	_, err := OpenXSect(filepath.Join("testdata", "xsect_misnamed.fits"))
	if !errors.Is(err, ErrNoHDU) {
		t.Errorf("err = %v, want ErrNoHDU", err)
	}
}

func TestOpenXSectNonMonotonic(t *testing.T) {
	_, err := OpenXSect(filepath.Join("testdata", "xsect_bad.fits"))
	if !errors.Is(err, ErrNotIncreasing) {
		t.Errorf("err = %v, want ErrNotIncreasing", err)
	}
}

func TestOpenXSectMissingFile(t *testing.T) {
	_, err := OpenXSect(filepath.Join("testdata", "does_not_exist.fits"))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestXSectValidate(t *testing.T) {
	tests := []struct {
		name    string
		x       XSect
		wantErr error
	}{
		{"valid", XSect{[]float64{1, 2}, []float64{3, 4}}, nil},
		{"empty", XSect{}, ErrEmpty},
		{"length", XSect{[]float64{1, 2}, []float64{3}}, ErrLength},
		{"order", XSect{[]float64{2, 1}, []float64{3, 4}}, ErrNotIncreasing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.x.Validate()
			if !errors.Is(err, tt.wantErr) && err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestInterpolatorInterior(t *testing.T) {
	it, err := NewInterpolator([]float64{0.5, 1.0, 2.0}, []float64{120, 24, 3})
	if err != nil {
		t.Fatal(err)
	}

	// Midpoint of the first segment.
	got := it.At(0.75)

	want := 0.5 * (120 + 24)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("At(0.75) = %v, want %v", got, want)
	}

	// Knots reproduce exactly.
	if v := it.At(1.0); math.Abs(v-24) > 1e-12 {
		t.Errorf("At(1.0) = %v, want 24", v)
	}
}

func TestInterpolatorClamps(t *testing.T) {
	it, err := NewInterpolator([]float64{1, 2, 4}, []float64{10, 20, 40})
	if err != nil {
		t.Fatal(err)
	}

	if v := it.At(0.1); v != 10 {
		t.Errorf("At(0.1) = %v, want 10 (clamped)", v)
	}

	if v := it.At(100); v != 40 {
		t.Errorf("At(100) = %v, want 40 (clamped)", v)
	}
}

func TestInterpolatorErrors(t *testing.T) {
	if _, err := NewInterpolator(nil, nil); !errors.Is(err, ErrEmpty) {
		t.Errorf("err = %v, want ErrEmpty", err)
	}

	if _, err := NewInterpolator([]float64{1, 2}, []float64{1}); !errors.Is(err, ErrLength) {
		t.Errorf("err = %v, want ErrLength", err)
	}

	if _, err := NewInterpolator([]float64{2, 1}, []float64{1, 2}); !errors.Is(err, ErrNotIncreasing) {
		t.Errorf("err = %v, want ErrNotIncreasing", err)
	}

	if _, err := NewInterpolator([]float64{1, 1}, []float64{1, 2}); !errors.Is(err, ErrNotIncreasing) {
		t.Errorf("err = %v, want ErrNotIncreasing", err)
	}
}

func TestInterpolatorSinglePoint(t *testing.T) {
	it, err := NewInterpolator([]float64{2}, []float64{7})
	if err != nil {
		t.Fatal(err)
	}

	// One point means a constant everywhere.
	for _, x := range []float64{0.1, 2, 100} {
		if v := it.At(x); v != 7 {
			t.Errorf("At(%v) = %v, want 7", x, v)
		}
	}

	x := &XSect{Energy: []float64{2}, Sigma: []float64{7}}

	if _, err := x.Interpolator(); err != nil {
		t.Errorf("Interpolator() = %v", err)
	}
}

func TestInterpolatorEval(t *testing.T) {
	x := &XSect{
		Energy: []float64{1, 2, 3},
		Sigma:  []float64{10, 20, 30},
	}

	it, err := x.Interpolator()
	if err != nil {
		t.Fatal(err)
	}

	out := it.Eval(nil, []float64{0.5, 1.5, 2.5, 9})

	want := []float64{10, 15, 25, 30}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-12 {
			t.Errorf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

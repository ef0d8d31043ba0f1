package param

import (
	"errors"
	"math"
	"testing"
)

func TestNewDefaults(t *testing.T) {
	p := New("kT", 1.0)

	if p.Value() != 1.0 {
		t.Errorf("Value() = %v, want 1", p.Value())
	}

	if !math.IsInf(p.Min, -1) || !math.IsInf(p.Max, 1) {
		t.Errorf("default bounds = [%v, %v], want unbounded", p.Min, p.Max)
	}

	if err := p.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestOptions(t *testing.T) {
	p := New("K", 1.0,
		WithDesc("normalization"),
		WithUnit("ph/(s keV)"),
		WithBounds(1e-30, 1e3),
		WithDelta(0.1),
		Normalization(),
		LogTransform(),
	)

	if p.Desc != "normalization" || p.Unit != "ph/(s keV)" {
		t.Errorf("metadata = %q, %q", p.Desc, p.Unit)
	}

	if p.Min != 1e-30 || p.Max != 1e3 || p.Delta != 0.1 {
		t.Errorf("bounds/delta = %v, %v, %v", p.Min, p.Max, p.Delta)
	}

	if !p.Normalization || !p.LogTransform || p.Fixed {
		t.Errorf("flags = norm:%v log:%v fixed:%v", p.Normalization, p.LogTransform, p.Fixed)
	}
}

func TestSetBounds(t *testing.T) {
	p := New("abund", 1.0, WithBounds(0, 5), Fixed())

	tests := []struct {
		name  string
		v     float64
		valid bool
	}{
		{"inside", 2.5, true},
		{"lower edge", 0, true},
		{"upper edge", 5, true},
		{"below", -0.1, false},
		{"above", 5.1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.Set(tt.v)
			if tt.valid && err != nil {
				t.Errorf("Set(%v) = %v, want nil", tt.v, err)
			}

			if !tt.valid {
				if !errors.Is(err, ErrOutOfRange) {
					t.Errorf("Set(%v) = %v, want ErrOutOfRange", tt.v, err)
				}
			} else if p.Value() != tt.v {
				t.Errorf("Value() = %v, want %v", p.Value(), tt.v)
			}
		})
	}
}

func TestSetRejectedKeepsValue(t *testing.T) {
	p := New("NH", 1.0, WithBounds(1e-4, 1e4))

	if err := p.Set(1e5); err == nil {
		t.Fatal("expected error")
	}

	if p.Value() != 1.0 {
		t.Errorf("Value() = %v after rejected Set, want 1", p.Value())
	}
}

func TestValidateBadBounds(t *testing.T) {
	p := New("x", 1.0, WithBounds(2, 1))

	if err := p.Validate(); !errors.Is(err, ErrBadBounds) {
		t.Errorf("Validate() = %v, want ErrBadBounds", err)
	}
}

func TestValidateDefaultOutsideBounds(t *testing.T) {
	p := New("x", 10.0, WithBounds(0, 5))

	if err := p.Validate(); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Validate() = %v, want ErrOutOfRange", err)
	}
}

func TestParamsByName(t *testing.T) {
	ps := Params{
		New("K", 1.0),
		New("kT", 1.0, WithBounds(0.08, 64)),
	}

	p, err := ps.ByName("kT")
	if err != nil {
		t.Fatal(err)
	}

	if p.Name != "kT" {
		t.Errorf("Name = %q, want kT", p.Name)
	}

	_, err = ps.ByName("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestParamsValidate(t *testing.T) {
	ps := Params{
		New("good", 1.0, WithBounds(0, 2)),
		New("bad", 7.0, WithBounds(0, 2)),
	}

	if err := ps.Validate(); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Validate() = %v, want ErrOutOfRange", err)
	}
}

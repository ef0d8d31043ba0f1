// Package param declares model parameter descriptors: the value, its
// physical unit, bounds, step size, and fitting hints (fixed,
// normalization, log-transform) that a model publishes to its caller.
package param

import (
	"errors"
	"fmt"
	"math"
)

// Errors returned by parameter operations.
var (
	ErrOutOfRange = errors.New("param: value out of range")
	ErrBadBounds  = errors.New("param: min must be less than max")
	ErrNotFound   = errors.New("param: no such parameter")
)

// Param describes a single model parameter.
//
// The metadata fields are set at construction and treated as
// read-only afterwards; only the value changes through Set.
type Param struct {
	Name string
	Desc string
	Unit string

	Min   float64
	Max   float64
	Delta float64

	// Fixed marks parameters a fitting host should keep frozen by
	// default.
	Fixed bool

	// Normalization marks the overall scale parameter of a model.
	Normalization bool

	// LogTransform hints that the parameter is best explored in
	// log10 space (common for normalizations spanning decades).
	LogTransform bool

	value float64
}

// Option mutates a Param during construction.
type Option func(*Param)

// WithDesc sets the human-readable description.
func WithDesc(desc string) Option {
	return func(p *Param) { p.Desc = desc }
}

// WithUnit sets the physical unit label.
func WithUnit(unit string) Option {
	return func(p *Param) { p.Unit = unit }
}

// WithBounds sets the allowed value range.
func WithBounds(minVal, maxVal float64) Option {
	return func(p *Param) {
		p.Min = minVal
		p.Max = maxVal
	}
}

// WithDelta sets the suggested step size for fitting hosts.
func WithDelta(delta float64) Option {
	return func(p *Param) { p.Delta = delta }
}

// Fixed marks the parameter as frozen by default.
func Fixed() Option {
	return func(p *Param) { p.Fixed = true }
}

// Normalization marks the parameter as the model normalization.
func Normalization() Option {
	return func(p *Param) { p.Normalization = true }
}

// LogTransform marks the parameter for log10-space exploration.
func LogTransform() Option {
	return func(p *Param) { p.LogTransform = true }
}

// New creates a parameter with the given default value. Bounds default
// to (-inf, +inf) until WithBounds is applied.
func New(name string, value float64, opts ...Option) *Param {
	p := &Param{
		Name:  name,
		Min:   math.Inf(-1),
		Max:   math.Inf(1),
		value: value,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	return p
}

// Validate reports whether the descriptor is self-consistent: bounds
// ordered and the current value inside them.
func (p *Param) Validate() error {
	if p.Min > p.Max {
		return fmt.Errorf("%w: %s [%g, %g]", ErrBadBounds, p.Name, p.Min, p.Max)
	}

	if p.value < p.Min || p.value > p.Max {
		return fmt.Errorf("%w: %s = %g not in [%g, %g]", ErrOutOfRange, p.Name, p.value, p.Min, p.Max)
	}

	return nil
}

// Value returns the current value.
func (p *Param) Value() float64 {
	return p.value
}

// Set updates the value after a bounds check.
func (p *Param) Set(v float64) error {
	if v < p.Min || v > p.Max {
		return fmt.Errorf("%w: %s = %g not in [%g, %g]", ErrOutOfRange, p.Name, v, p.Min, p.Max)
	}

	p.value = v

	return nil
}

// Params is an ordered parameter list, as published by a model.
type Params []*Param

// ByName returns the parameter with the given name.
func (ps Params) ByName(name string) (*Param, error) {
	for _, p := range ps {
		if p.Name == name {
			return p, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Validate checks every descriptor in the list.
func (ps Params) Validate() error {
	for _, p := range ps {
		err := p.Validate()
		if err != nil {
			return err
		}
	}

	return nil
}

package atomdb

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-xray/xray/abund"
)

// Errors returned by database validation.
var (
	ErrNoTemps       = errors.New("atomdb: empty temperature grid")
	ErrTempOrder     = errors.New("atomdb: temperatures must be positive and strictly increasing")
	ErrLayerCount    = errors.New("atomdb: line/continuum layers must match the temperature grid")
	ErrBadElement    = errors.New("atomdb: element out of range")
	ErrContShape     = errors.New("atomdb: continuum arrays must have equal lengths")
	ErrContOrder     = errors.New("atomdb: continuum energies must be strictly increasing")
	ErrNegativeValue = errors.New("atomdb: emissivities must not be negative")
)

// Line is a single emission line at one database temperature.
type Line struct {
	Energy  float64 // keV
	Epsilon float64 // ph cm^3 s^-1
	Element int     // atomic number
	Ion     int     // ionization stage (1 = neutral)
}

// LineList holds the emission lines of one temperature layer.
type LineList []Line

// ElementContinuum is the compressed continuum of one element at one
// temperature: a piecewise-linear emissivity density sampled at
// Energy, plus the pseudo-continuum of unresolved weak lines on the
// same abscissa.
type ElementContinuum struct {
	Element int
	Energy  []float64 // keV, strictly increasing
	Rate    []float64 // ph cm^3 s^-1 keV^-1
	Pseudo  []float64 // ph cm^3 s^-1 keV^-1
}

// ContinuumSet holds the per-element continua of one temperature layer.
type ContinuumSet []ElementContinuum

// DB is a CIE emission database on a fixed temperature grid.
// Lines[i] and Cont[i] belong to Temps[i].
type DB struct {
	Temps []float64 // keV, strictly increasing
	Lines []LineList
	Cont  []ContinuumSet

	// AbundSet names the abundance table the emissivities were
	// computed with.
	AbundSet abund.Set
}

// Validate checks the database invariants.
func (db *DB) Validate() error {
	if len(db.Temps) == 0 {
		return ErrNoTemps
	}

	prev := 0.0
	for i, kT := range db.Temps {
		if kT <= prev {
			return fmt.Errorf("%w: index %d", ErrTempOrder, i)
		}

		prev = kT
	}

	if len(db.Lines) != len(db.Temps) || len(db.Cont) != len(db.Temps) {
		return fmt.Errorf("%w: %d temps, %d line layers, %d continuum layers",
			ErrLayerCount, len(db.Temps), len(db.Lines), len(db.Cont))
	}

	for i, lines := range db.Lines {
		for j, ln := range lines {
			if ln.Element < 1 || ln.Element > abund.MaxElement {
				return fmt.Errorf("%w: layer %d line %d Z=%d", ErrBadElement, i, j, ln.Element)
			}

			if ln.Epsilon < 0 {
				return fmt.Errorf("%w: layer %d line %d", ErrNegativeValue, i, j)
			}
		}
	}

	for i, set := range db.Cont {
		for j := range set {
			err := set[j].validate()
			if err != nil {
				return fmt.Errorf("atomdb: layer %d element entry %d: %w", i, j, err)
			}
		}
	}

	return nil
}

func (ec *ElementContinuum) validate() error {
	if ec.Element < 1 || ec.Element > abund.MaxElement {
		return fmt.Errorf("%w: Z=%d", ErrBadElement, ec.Element)
	}

	if len(ec.Rate) != len(ec.Energy) || len(ec.Pseudo) != len(ec.Energy) {
		return ErrContShape
	}

	for i := 1; i < len(ec.Energy); i++ {
		if ec.Energy[i] <= ec.Energy[i-1] {
			return fmt.Errorf("%w: at sample %d", ErrContOrder, i)
		}
	}

	for i := range ec.Energy {
		if ec.Rate[i] < 0 || ec.Pseudo[i] < 0 {
			return fmt.Errorf("%w: at sample %d", ErrNegativeValue, i)
		}
	}

	return nil
}

// TempRange returns the lowest and highest database temperature.
func (db *DB) TempRange() (lo, hi float64) {
	if len(db.Temps) == 0 {
		return 0, 0
	}

	return db.Temps[0], db.Temps[len(db.Temps)-1]
}

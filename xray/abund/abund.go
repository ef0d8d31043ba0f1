// Package abund provides solar elemental abundance tables used to
// scale plasma emissivities and select absorption cross-section
// tables.
//
// Abundances are stored on the conventional logarithmic scale where
// hydrogen is 12.00; Value converts to number density relative to H.
// Three sets are carried, matching the tables commonly used in X-ray
// spectral codes:
//
//   - AG89: Anders & Grevesse (1989)
//   - ASPL: Asplund et al. (2009)
//   - WILM: Wilms, Allen & McCray (2000)
package abund

import (
	"errors"
	"fmt"
	"math"
)

// Set names an abundance table.
type Set string

// Known abundance sets.
const (
	AG89 Set = "AG89"
	ASPL Set = "ASPL"
	WILM Set = "WILM"
)

// MaxElement is the largest atomic number carried by the tables (zinc).
const MaxElement = 30

// Errors returned by abundance lookups.
var (
	ErrUnknownSet = errors.New("abund: unknown abundance set")
	ErrBadElement = errors.New("abund: element out of range")
	ErrZeroAbund  = errors.New("abund: element absent from source set")
)

// Sets returns the known set names in declaration order.
func Sets() []Set {
	return []Set{AG89, ASPL, WILM}
}

// Parse maps a name to a Set, falling back to def with ErrUnknownSet
// for unrecognized names. The error is advisory: the returned Set is
// always usable.
func Parse(name string, def Set) (Set, error) {
	switch Set(name) {
	case AG89, ASPL, WILM:
		return Set(name), nil
	default:
		return def, fmt.Errorf("%w: %q (using %s)", ErrUnknownSet, name, def)
	}
}

// Symbol returns the element symbol for atomic number z, or "" when z
// is out of range.
func Symbol(z int) string {
	if z < 1 || z > MaxElement {
		return ""
	}

	return symbols[z]
}

// Value returns the number abundance of element z relative to
// hydrogen for the given set.
func Value(set Set, z int) (float64, error) {
	tbl, ok := tables[set]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSet, set)
	}

	if z < 1 || z > MaxElement {
		return 0, fmt.Errorf("%w: Z=%d", ErrBadElement, z)
	}

	logA := tbl[z]
	if logA == 0 {
		return 0, fmt.Errorf("%w: Z=%d in %s", ErrZeroAbund, z, set)
	}

	return math.Pow(10, logA-12), nil
}

// Ratio returns the factor that rescales an emissivity computed with
// abundances `from` to abundances `to` for element z.
func Ratio(from, to Set, z int) (float64, error) {
	if from == to {
		// Still validate the inputs.
		_, err := Value(from, z)
		if err != nil {
			return 0, err
		}

		return 1, nil
	}

	src, err := Value(from, z)
	if err != nil {
		return 0, err
	}

	dst, err := Value(to, z)
	if err != nil {
		return 0, err
	}

	if src == 0 {
		return 0, fmt.Errorf("%w: Z=%d", ErrZeroAbund, z)
	}

	return dst / src, nil
}

var symbols = [MaxElement + 1]string{
	1: "H", 2: "He", 3: "Li", 4: "Be", 5: "B",
	6: "C", 7: "N", 8: "O", 9: "F", 10: "Ne",
	11: "Na", 12: "Mg", 13: "Al", 14: "Si", 15: "P",
	16: "S", 17: "Cl", 18: "Ar", 19: "K", 20: "Ca",
	21: "Sc", 22: "Ti", 23: "V", 24: "Cr", 25: "Mn",
	26: "Fe", 27: "Co", 28: "Ni", 29: "Cu", 30: "Zn",
}

// log10 abundances, H = 12.00. Index is the atomic number.
var tables = map[Set][MaxElement + 1]float64{
	AG89: {
		1: 12.00, 2: 10.99, 3: 1.16, 4: 1.15, 5: 2.60,
		6: 8.56, 7: 8.05, 8: 8.93, 9: 4.56, 10: 8.09,
		11: 6.33, 12: 7.58, 13: 6.47, 14: 7.55, 15: 5.45,
		16: 7.21, 17: 5.50, 18: 6.56, 19: 5.12, 20: 6.36,
		21: 3.10, 22: 4.99, 23: 4.00, 24: 5.67, 25: 5.39,
		26: 7.67, 27: 4.92, 28: 6.25, 29: 4.21, 30: 4.60,
	},
	ASPL: {
		1: 12.00, 2: 10.93, 3: 1.05, 4: 1.38, 5: 2.70,
		6: 8.43, 7: 7.83, 8: 8.69, 9: 4.56, 10: 7.93,
		11: 6.24, 12: 7.60, 13: 6.45, 14: 7.51, 15: 5.41,
		16: 7.12, 17: 5.50, 18: 6.40, 19: 5.03, 20: 6.34,
		21: 3.15, 22: 4.95, 23: 3.93, 24: 5.64, 25: 5.43,
		26: 7.50, 27: 4.99, 28: 6.22, 29: 4.19, 30: 4.56,
	},
	WILM: {
		1: 12.00, 2: 10.99, 3: 1.16, 4: 1.15, 5: 2.60,
		6: 8.38, 7: 7.88, 8: 8.69, 9: 4.56, 10: 7.94,
		11: 6.16, 12: 7.40, 13: 6.33, 14: 7.27, 15: 5.42,
		16: 7.09, 17: 5.12, 18: 6.41, 19: 5.12, 20: 6.20,
		21: 3.10, 22: 4.81, 23: 4.00, 24: 5.51, 25: 5.34,
		26: 7.43, 27: 4.92, 28: 6.05, 29: 4.21, 30: 4.60,
	},
}

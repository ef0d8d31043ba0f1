package grid

import (
	"errors"
	"math"
)

// Errors returned by grid functions.
var (
	ErrTooFewBins    = errors.New("grid: need at least 2 bin centers")
	ErrNotIncreasing = errors.New("grid: centers must be strictly increasing")
	ErrNotPositive   = errors.New("grid: energies must be positive")
	ErrInvalidRange  = errors.New("grid: emin must be positive and less than emax")
	ErrInvalidCount  = errors.New("grid: bin count must be at least 2")
)

// Validate checks that centers form a usable energy grid:
// at least two strictly increasing, positive values.
func Validate(centers []float64) error {
	if len(centers) < 2 {
		return ErrTooFewBins
	}

	if centers[0] <= 0 {
		return ErrNotPositive
	}

	for i := 1; i < len(centers); i++ {
		if centers[i] <= centers[i-1] {
			return ErrNotIncreasing
		}
	}

	return nil
}

// Edges converts n bin centers into n+1 bin edges.
//
// Interior edges are midpoints of neighboring centers. The first and
// last edge mirror the distance from the outermost centers to their
// nearest midpoint, so edges[i] < centers[i] < edges[i+1] for all i.
func Edges(centers []float64) ([]float64, error) {
	err := Validate(centers)
	if err != nil {
		return nil, err
	}

	n := len(centers)
	edges := make([]float64, n+1)

	for i := 1; i < n; i++ {
		edges[i] = 0.5 * (centers[i-1] + centers[i])
	}

	edges[0] = centers[0] - (edges[1] - centers[0])
	edges[n] = centers[n-1] + (centers[n-1] - edges[n-1])

	return edges, nil
}

// Widths returns the n bin widths derived from n+1 edges.
func Widths(edges []float64) []float64 {
	if len(edges) < 2 {
		return nil
	}

	widths := make([]float64, len(edges)-1)
	for i := range widths {
		widths[i] = edges[i+1] - edges[i]
	}

	return widths
}

// Shift scales observer-frame centers into the source rest frame by
// (1+z), reusing dst capacity if possible. A nil dst allocates.
func Shift(dst, centers []float64, z float64) []float64 {
	if cap(dst) < len(centers) {
		dst = make([]float64, len(centers))
	}

	dst = dst[:len(centers)]

	s := 1 + z
	for i, c := range centers {
		dst[i] = c * s
	}

	return dst
}

// Uniform returns n linearly spaced bin centers spanning [emin, emax].
func Uniform(emin, emax float64, n int) ([]float64, error) {
	if n < 2 {
		return nil, ErrInvalidCount
	}

	if emin <= 0 || emin >= emax {
		return nil, ErrInvalidRange
	}

	centers := make([]float64, n)
	step := (emax - emin) / float64(n-1)

	for i := range centers {
		centers[i] = emin + float64(i)*step
	}

	// Guard against accumulated rounding on the last bin.
	centers[n-1] = emax

	return centers, nil
}

// Logarithmic returns n logarithmically spaced bin centers spanning
// [emin, emax].
func Logarithmic(emin, emax float64, n int) ([]float64, error) {
	if n < 2 {
		return nil, ErrInvalidCount
	}

	if emin <= 0 || emin >= emax {
		return nil, ErrInvalidRange
	}

	centers := make([]float64, n)
	step := math.Log(emax/emin) / float64(n-1)

	for i := range centers {
		centers[i] = emin * math.Exp(float64(i)*step)
	}

	centers[n-1] = emax

	return centers, nil
}

// Package table loads cross-section tables from FITS binary tables
// and interpolates them onto arbitrary energy grids.
//
// A cross-section table is a pair of parallel arrays: energy in keV
// and the effective photoelectric cross section per hydrogen atom in
// units of 1e-22 cm^2. Tables are loaded once per model instance and
// held for its lifetime.
package table

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/astrogo/fitsio"
	"gonum.org/v1/gonum/interp"
)

// HDUName is the extension name of cross-section table HDUs.
const HDUName = "XSECT"

// Errors returned by table loading and interpolation.
var (
	ErrEmpty         = errors.New("table: empty table")
	ErrLength        = errors.New("table: energy and sigma lengths differ")
	ErrNotIncreasing = errors.New("table: energies must be strictly increasing")
	ErrNoHDU         = errors.New("table: no XSECT binary table HDU")
)

// XSect holds a photoelectric cross-section table.
type XSect struct {
	Energy []float64 // keV, strictly increasing
	Sigma  []float64 // 1e-22 cm^2 per H atom
}

// Validate checks the table invariants.
func (x *XSect) Validate() error {
	if len(x.Energy) == 0 {
		return ErrEmpty
	}

	if len(x.Energy) != len(x.Sigma) {
		return fmt.Errorf("%w: %d vs %d", ErrLength, len(x.Energy), len(x.Sigma))
	}

	for i := 1; i < len(x.Energy); i++ {
		if x.Energy[i] <= x.Energy[i-1] {
			return fmt.Errorf("%w: at row %d", ErrNotIncreasing, i)
		}
	}

	return nil
}

// Interpolator returns a clamped linear interpolator over the table.
func (x *XSect) Interpolator() (*Interpolator, error) {
	err := x.Validate()
	if err != nil {
		return nil, err
	}

	return NewInterpolator(x.Energy, x.Sigma)
}

// ReadXSect reads a cross-section table from FITS data. It scans the
// HDUs for a binary table named XSECT with ENERGY and SIGMA columns.
func ReadXSect(r io.Reader) (*XSect, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("table: read FITS: %w", err)
	}

	f, err := fitsio.Open(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("table: open FITS: %w", err)
	}
	defer f.Close()

	for _, hdu := range f.HDUs() {
		tbl, ok := hdu.(*fitsio.Table)
		if !ok || tbl.Name() != HDUName {
			continue
		}

		return readColumns(tbl)
	}

	return nil, ErrNoHDU
}

// OpenXSect loads a cross-section table from a FITS file on disk.
func OpenXSect(path string) (*XSect, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("table: %w", err)
	}
	defer f.Close()

	x, err := ReadXSect(f)
	if err != nil {
		return nil, fmt.Errorf("table: %s: %w", path, err)
	}

	return x, nil
}

func readColumns(tbl *fitsio.Table) (*XSect, error) {
	n := int(tbl.NumRows())

	x := &XSect{
		Energy: make([]float64, 0, n),
		Sigma:  make([]float64, 0, n),
	}

	rows, err := tbl.Read(0, tbl.NumRows())
	if err != nil {
		return nil, fmt.Errorf("table: read rows: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var row struct {
			Energy float64 `fits:"ENERGY"`
			Sigma  float64 `fits:"SIGMA"`
		}

		err = rows.Scan(&row)
		if err != nil {
			return nil, fmt.Errorf("table: scan row %d: %w", len(x.Energy), err)
		}

		x.Energy = append(x.Energy, row.Energy)
		x.Sigma = append(x.Sigma, row.Sigma)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("table: iterate rows: %w", err)
	}

	err = x.Validate()
	if err != nil {
		return nil, err
	}

	return x, nil
}

// Interpolator performs piecewise-linear interpolation with endpoint
// clamping: queries outside the abscissa range return the boundary
// ordinate instead of extrapolating. A single-point table evaluates
// to a constant.
type Interpolator struct {
	pl     interp.PiecewiseLinear
	lo, hi float64

	flat  bool
	value float64
}

// NewInterpolator fits a clamped linear interpolator to xs/ys.
// xs must be non-empty and strictly increasing.
func NewInterpolator(xs, ys []float64) (*Interpolator, error) {
	if len(xs) == 0 {
		return nil, ErrEmpty
	}

	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLength, len(xs), len(ys))
	}

	// Fit panics on unordered abscissas, so check here.
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			return nil, fmt.Errorf("%w: at index %d", ErrNotIncreasing, i)
		}
	}

	it := &Interpolator{lo: xs[0], hi: xs[len(xs)-1]}

	if len(xs) == 1 {
		it.flat = true
		it.value = ys[0]

		return it, nil
	}

	err := it.pl.Fit(xs, ys)
	if err != nil {
		return nil, fmt.Errorf("table: fit: %w", err)
	}

	return it, nil
}

// At returns the interpolated value at x, clamped to the table range.
func (it *Interpolator) At(x float64) float64 {
	if it.flat {
		return it.value
	}

	if x < it.lo {
		x = it.lo
	}

	if x > it.hi {
		x = it.hi
	}

	return it.pl.Predict(x)
}

// Eval interpolates onto every point of xs, reusing dst capacity if
// possible. A nil dst allocates.
func (it *Interpolator) Eval(dst, xs []float64) []float64 {
	if cap(dst) < len(xs) {
		dst = make([]float64, len(xs))
	}

	dst = dst[:len(xs)]

	for i, x := range xs {
		dst[i] = it.At(x)
	}

	return dst
}

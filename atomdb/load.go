package atomdb

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/astrogo/fitsio"

	"github.com/cwbudde/algo-xray/xray/abund"
)

// Database file layout: three binary table HDUs.
//
//	PARAMETERS  KT (D)                       one row per temperature,
//	                                         ABUNDSET header card
//	EMISSIVITY  TEMPIDX (K), ENERGY (D),     lines, grouped by
//	            EPSILON (D), ELEMENT (K),    ascending TEMPIDX
//	            ION (K)
//	CONTINUUM   TEMPIDX (K), ELEMENT (K),    samples, grouped by
//	            ENERGY (D), CONTINUUM (D),   (TEMPIDX, ELEMENT) with
//	            PSEUDO (D)                   ascending ENERGY
//
// Energies are keV, line emissivities ph cm^3 s^-1, continuum
// densities ph cm^3 s^-1 keV^-1.
const (
	hduParameters = "PARAMETERS"
	hduEmissivity = "EMISSIVITY"
	hduContinuum  = "CONTINUUM"
)

// Errors returned by the loader.
var (
	ErrMissingHDU = errors.New("atomdb: missing binary table HDU")
	ErrBadTempIdx = errors.New("atomdb: temperature index out of range")
)

// Open loads a database from a FITS file on disk.
func Open(path string) (*DB, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("atomdb: %w", err)
	}
	defer f.Close()

	db, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("atomdb: %s: %w", path, err)
	}

	return db, nil
}

// Read loads a database from FITS data.
func Read(r io.Reader) (*DB, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("atomdb: read FITS: %w", err)
	}

	f, err := fitsio.Open(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("atomdb: open FITS: %w", err)
	}
	defer f.Close()

	db := &DB{AbundSet: abund.AG89}

	params, err := findTable(f, hduParameters)
	if err != nil {
		return nil, err
	}

	err = readParameters(params, db)
	if err != nil {
		return nil, err
	}

	lines, err := findTable(f, hduEmissivity)
	if err != nil {
		return nil, err
	}

	err = readLines(lines, db)
	if err != nil {
		return nil, err
	}

	cont, err := findTable(f, hduContinuum)
	if err != nil {
		return nil, err
	}

	err = readContinuum(cont, db)
	if err != nil {
		return nil, err
	}

	err = db.Validate()
	if err != nil {
		return nil, err
	}

	return db, nil
}

func findTable(f *fitsio.File, name string) (*fitsio.Table, error) {
	for _, hdu := range f.HDUs() {
		tbl, ok := hdu.(*fitsio.Table)
		if ok && tbl.Name() == name {
			return tbl, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrMissingHDU, name)
}

func readParameters(tbl *fitsio.Table, db *DB) error {
	if card := tbl.Header().Get("ABUNDSET"); card != nil {
		if name, ok := card.Value.(string); ok {
			set, err := abund.Parse(name, abund.AG89)
			if err != nil {
				return fmt.Errorf("atomdb: %w", err)
			}

			db.AbundSet = set
		}
	}

	rows, err := tbl.Read(0, tbl.NumRows())
	if err != nil {
		return fmt.Errorf("atomdb: read %s: %w", hduParameters, err)
	}
	defer rows.Close()

	for rows.Next() {
		var row struct {
			KT float64 `fits:"KT"`
		}

		err = rows.Scan(&row)
		if err != nil {
			return fmt.Errorf("atomdb: scan %s: %w", hduParameters, err)
		}

		db.Temps = append(db.Temps, row.KT)
	}

	err = rows.Err()
	if err != nil {
		return fmt.Errorf("atomdb: iterate %s: %w", hduParameters, err)
	}

	db.Lines = make([]LineList, len(db.Temps))
	db.Cont = make([]ContinuumSet, len(db.Temps))

	return nil
}

func readLines(tbl *fitsio.Table, db *DB) error {
	rows, err := tbl.Read(0, tbl.NumRows())
	if err != nil {
		return fmt.Errorf("atomdb: read %s: %w", hduEmissivity, err)
	}
	defer rows.Close()

	for rows.Next() {
		var row struct {
			TempIdx int64   `fits:"TEMPIDX"`
			Energy  float64 `fits:"ENERGY"`
			Epsilon float64 `fits:"EPSILON"`
			Element int64   `fits:"ELEMENT"`
			Ion     int64   `fits:"ION"`
		}

		err = rows.Scan(&row)
		if err != nil {
			return fmt.Errorf("atomdb: scan %s: %w", hduEmissivity, err)
		}

		idx := int(row.TempIdx)
		if idx < 0 || idx >= len(db.Temps) {
			return fmt.Errorf("%w: %d", ErrBadTempIdx, idx)
		}

		db.Lines[idx] = append(db.Lines[idx], Line{
			Energy:  row.Energy,
			Epsilon: row.Epsilon,
			Element: int(row.Element),
			Ion:     int(row.Ion),
		})
	}

	err = rows.Err()
	if err != nil {
		return fmt.Errorf("atomdb: iterate %s: %w", hduEmissivity, err)
	}

	return nil
}

func readContinuum(tbl *fitsio.Table, db *DB) error {
	rows, err := tbl.Read(0, tbl.NumRows())
	if err != nil {
		return fmt.Errorf("atomdb: read %s: %w", hduContinuum, err)
	}
	defer rows.Close()

	var cur *ElementContinuum

	curIdx := -1

	for rows.Next() {
		var row struct {
			TempIdx   int64   `fits:"TEMPIDX"`
			Element   int64   `fits:"ELEMENT"`
			Energy    float64 `fits:"ENERGY"`
			Continuum float64 `fits:"CONTINUUM"`
			Pseudo    float64 `fits:"PSEUDO"`
		}

		err = rows.Scan(&row)
		if err != nil {
			return fmt.Errorf("atomdb: scan %s: %w", hduContinuum, err)
		}

		idx := int(row.TempIdx)
		if idx < 0 || idx >= len(db.Temps) {
			return fmt.Errorf("%w: %d", ErrBadTempIdx, idx)
		}

		el := int(row.Element)
		if cur == nil || idx != curIdx || el != cur.Element {
			db.Cont[idx] = append(db.Cont[idx], ElementContinuum{Element: el})
			cur = &db.Cont[idx][len(db.Cont[idx])-1]
			curIdx = idx
		}

		cur.Energy = append(cur.Energy, row.Energy)
		cur.Rate = append(cur.Rate, row.Continuum)
		cur.Pseudo = append(cur.Pseudo, row.Pseudo)
	}

	err = rows.Err()
	if err != nil {
		return fmt.Errorf("atomdb: iterate %s: %w", hduContinuum, err)
	}

	return nil
}

package atomdb

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-xray/xray/abund"
)

// testDB builds a small two-temperature database used across the
// session tests: one oxygen line per layer plus a flat hydrogen
// continuum over [1, 3] keV.
func testDB() *DB {
	return &DB{
		Temps:    []float64{1, 4},
		AbundSet: abund.AG89,
		Lines: []LineList{
			{{Energy: 1.5, Epsilon: 2.0, Element: 8, Ion: 7}},
			{{Energy: 1.5, Epsilon: 6.0, Element: 8, Ion: 7}},
		},
		Cont: []ContinuumSet{
			{{
				Element: 1,
				Energy:  []float64{1, 3},
				Rate:    []float64{2, 2},
				Pseudo:  []float64{0, 0},
			}},
			{{
				Element: 1,
				Energy:  []float64{1, 3},
				Rate:    []float64{4, 4},
				Pseudo:  []float64{0, 0},
			}},
		},
	}
}

func TestDBValidate(t *testing.T) {
	if err := testDB().Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
}

func TestDBValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*DB)
		wantErr error
	}{
		{"no temps", func(db *DB) { db.Temps = nil }, ErrNoTemps},
		{"temp order", func(db *DB) { db.Temps = []float64{4, 1} }, ErrTempOrder},
		{"zero temp", func(db *DB) { db.Temps = []float64{0, 1} }, ErrTempOrder},
		{"layer count", func(db *DB) { db.Lines = db.Lines[:1] }, ErrLayerCount},
		{"bad line element", func(db *DB) { db.Lines[0][0].Element = 99 }, ErrBadElement},
		{"negative epsilon", func(db *DB) { db.Lines[0][0].Epsilon = -1 }, ErrNegativeValue},
		{"bad cont element", func(db *DB) { db.Cont[0][0].Element = 0 }, ErrBadElement},
		{"cont shape", func(db *DB) { db.Cont[0][0].Rate = db.Cont[0][0].Rate[:1] }, ErrContShape},
		{"cont order", func(db *DB) { db.Cont[0][0].Energy = []float64{3, 1} }, ErrContOrder},
		{"negative rate", func(db *DB) { db.Cont[0][0].Rate = []float64{-1, 1} }, ErrNegativeValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testDB()
			tt.mutate(db)

			err := db.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTempRange(t *testing.T) {
	lo, hi := testDB().TempRange()
	if lo != 1 || hi != 4 {
		t.Errorf("range = [%v, %v], want [1, 4]", lo, hi)
	}

	var empty DB

	lo, hi = empty.TempRange()
	if lo != 0 || hi != 0 {
		t.Errorf("empty range = [%v, %v], want [0, 0]", lo, hi)
	}
}

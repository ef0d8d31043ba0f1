package absorb

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-xray/xray/abund"
	"github.com/cwbudde/algo-xray/xray/param"
	"github.com/cwbudde/algo-xray/xray/table"
)

// Errors returned by absorption models.
var (
	ErrNoTable   = errors.New("absorb: no table source, use WithTable or WithTableDir")
	ErrEmptyGrid = errors.New("absorb: empty energy grid")
	ErrLength    = errors.New("absorb: spectrum and grid lengths differ")
)

// Config holds absorption model construction settings.
type Config struct {
	// Set selects the abundance table the cross sections were
	// computed with. Unknown sets fall back to the model default
	// (AG89 for PhAbs, WILM for TbAbs).
	Set abund.Set

	// TableDir is the directory holding the xsect_*.fits files.
	TableDir string

	// Table bypasses file loading with an in-memory table.
	Table *table.XSect
}

// Option mutates a Config.
type Option func(*Config)

// WithAbundanceSet selects the cross-section table variant.
func WithAbundanceSet(set abund.Set) Option {
	return func(cfg *Config) { cfg.Set = set }
}

// WithTableDir sets the directory to load cross-section tables from.
func WithTableDir(dir string) Option {
	return func(cfg *Config) { cfg.TableDir = dir }
}

// WithTable injects an in-memory cross-section table, bypassing file
// loading.
func WithTable(t *table.XSect) Option {
	return func(cfg *Config) { cfg.Table = t }
}

// Model is a photoelectric absorption model bound to one
// cross-section table.
type Model struct {
	// NH is the equivalent hydrogen column density in 1e22 cm^-2.
	NH *param.Param

	name   string
	interp *table.Interpolator
}

// NewPhAbs creates a phabs absorption model. Supported abundance
// sets: AG89 (default) and ASPL; anything else falls back to AG89.
func NewPhAbs(opts ...Option) (*Model, error) {
	return newModel("phabs", phabsFile, opts)
}

// NewTbAbs creates a tbabs absorption model. Supported abundance
// sets: AG89, ASPL and WILM (default); anything else falls back to
// WILM.
func NewTbAbs(opts ...Option) (*Model, error) {
	return newModel("tbabs", tbabsFile, opts)
}

func newModel(name string, fileFor func(abund.Set) string, opts []Option) (*Model, error) {
	var cfg Config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	xs := cfg.Table

	if xs == nil {
		if cfg.TableDir == "" {
			return nil, ErrNoTable
		}

		path := filepath.Join(cfg.TableDir, fileFor(cfg.Set))

		var err error

		xs, err = table.OpenXSect(path)
		if err != nil {
			return nil, fmt.Errorf("absorb: %s: %w", name, err)
		}
	}

	it, err := xs.Interpolator()
	if err != nil {
		return nil, fmt.Errorf("absorb: %s: %w", name, err)
	}

	m := &Model{
		NH: param.New("NH", 1.0,
			param.WithDesc("absorbing column density"),
			param.WithUnit("1e22 cm^-2"),
			param.WithBounds(1e-4, 1e4),
			param.WithDelta(0.1),
			param.Normalization(),
			param.LogTransform(),
		),
		name:   name,
		interp: it,
	}

	return m, nil
}

// phabsFile maps an abundance set to its phabs table file name.
func phabsFile(set abund.Set) string {
	switch set {
	case abund.ASPL:
		return "xsect_phabs_aspl.fits"
	default:
		return "xsect_phabs_angr.fits"
	}
}

// tbabsFile maps an abundance set to its tbabs table file name.
func tbabsFile(set abund.Set) string {
	switch set {
	case abund.AG89:
		return "xsect_tbabs_angr.fits"
	case abund.ASPL:
		return "xsect_tbabs_aspl.fits"
	default:
		return "xsect_tbabs_wilm.fits"
	}
}

// Name returns the model name.
func (m *Model) Name() string {
	return m.name
}

// Params returns the model parameter descriptors.
func (m *Model) Params() param.Params {
	return param.Params{m.NH}
}

// Evaluate returns the transmission exp(-NH*sigma(E)) at every bin
// center of the energy grid (keV).
func (m *Model) Evaluate(energies []float64) ([]float64, error) {
	if len(energies) == 0 {
		return nil, ErrEmptyGrid
	}

	nh := m.NH.Value()

	out := make([]float64, len(energies))
	for i, e := range energies {
		out[i] = math.Exp(-nh * m.interp.At(e))
	}

	return out, nil
}

// Apply multiplies spec in place by the transmission on the given
// grid. spec and energies must have equal lengths.
func (m *Model) Apply(spec, energies []float64) error {
	if len(spec) != len(energies) {
		return fmt.Errorf("%w: %d vs %d", ErrLength, len(spec), len(energies))
	}

	trans, err := m.Evaluate(energies)
	if err != nil {
		return err
	}

	vecmath.MulBlockInPlace(spec, trans)

	return nil
}

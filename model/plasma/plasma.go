package plasma

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-xray/atomdb"
	"github.com/cwbudde/algo-xray/xray/abund"
	"github.com/cwbudde/algo-xray/xray/broaden"
	"github.com/cwbudde/algo-xray/xray/grid"
	"github.com/cwbudde/algo-xray/xray/param"
)

// The spectrum is reported in units of 1e-14 of the raw emission
// measure integral, matching the conventional APEC normalization.
const normDivisor = 1e-14

// Relative tolerance for the uniform-grid check of resolution
// broadening.
const uniformTol = 1e-9

// ErrNonUniform is returned when resolution broadening is requested
// on a non-uniform energy grid.
var ErrNonUniform = errors.New("plasma: resolution broadening needs a uniform energy grid")

// Metals scaled by the abundance parameter. APEC ties C through Zn
// (except P) to one abundance; VAPEC also frees Li, Be and B.
var (
	apecMetals = []int{
		6, 7, 8, 9, 10, 11, 12, 13, 14,
		16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30,
	}
	vapecMetals = []int{
		3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14,
		16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30,
	}
)

// Config holds plasma model construction settings.
type Config struct {
	// AbundSet selects the abundance table spectra are rescaled to.
	AbundSet abund.Set

	// VelocitySigma is the Gaussian velocity broadening in km/s.
	VelocitySigma float64

	// Resolution is the instrument FWHM in keV applied to the
	// evaluated spectrum. Zero disables it. Requires a uniform grid.
	Resolution float64
}

// Option mutates a Config.
type Option func(*Config)

// WithAbundanceSet selects the abundance table.
func WithAbundanceSet(set abund.Set) Option {
	return func(cfg *Config) { cfg.AbundSet = set }
}

// WithVelocityBroadening applies Gaussian velocity broadening to
// every line (standard deviation, km/s).
func WithVelocityBroadening(sigmaKmS float64) Option {
	return func(cfg *Config) {
		if sigmaKmS > 0 {
			cfg.VelocitySigma = sigmaKmS
		}
	}
}

// WithResolution applies Gaussian instrument broadening of the given
// FWHM (keV) to evaluated spectra.
func WithResolution(fwhmKeV float64) Option {
	return func(cfg *Config) {
		if fwhmKeV > 0 {
			cfg.Resolution = fwhmKeV
		}
	}
}

// Model is an APEC-family plasma emission model bound to a database
// session. Models are not safe for concurrent use.
type Model struct {
	// K is the normalization in units of
	// 1e-14/(4 pi (1+z)^2 dA^2) * EM.
	K *param.Param

	// KT is the plasma temperature in keV.
	KT *param.Param

	// Abund is the common metal abundance relative to solar.
	Abund *param.Param

	// Redshift is the source redshift.
	Redshift *param.Param

	// Elements holds the per-element free abundances of VAPEC, one
	// parameter per metal, named by element symbol. Nil for APEC.
	Elements param.Params

	name       string
	metals     []int
	resolution float64
	sess       *atomdb.CIESession

	rest []float64 // scratch for the rest-frame grid
}

// NewAPEC creates an APEC model over db.
func NewAPEC(db *atomdb.DB, opts ...Option) (*Model, error) {
	return newModel("apec", db, apecMetals, false, opts)
}

// NewVAPEC creates a VAPEC model over db: like APEC, with the
// abundance of each metal individually adjustable through Elements.
func NewVAPEC(db *atomdb.DB, opts ...Option) (*Model, error) {
	return newModel("vapec", db, vapecMetals, true, opts)
}

func newModel(name string, db *atomdb.DB, metals []int, free bool, opts []Option) (*Model, error) {
	var cfg Config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	var sessOpts []atomdb.SessionOption
	if cfg.AbundSet != "" {
		sessOpts = append(sessOpts, atomdb.WithAbundanceSet(cfg.AbundSet))
	}

	if cfg.VelocitySigma > 0 {
		sessOpts = append(sessOpts, atomdb.WithVelocityBroadening(cfg.VelocitySigma))
	}

	sess, err := atomdb.NewCIESession(db, sessOpts...)
	if err != nil {
		return nil, fmt.Errorf("plasma: %s: %w", name, err)
	}

	m := &Model{
		K: param.New("K", 1.0,
			param.WithDesc("normalization in units of 1e-14/(4 pi (1+z)^2 dA^2) EM"),
			param.WithUnit("ph/(s keV)"),
			param.WithBounds(1e-30, 1e3),
			param.WithDelta(0.1),
			param.Normalization(),
			param.LogTransform(),
		),
		KT: param.New("kT", 1.0,
			param.WithDesc("plasma temperature"),
			param.WithUnit("keV"),
			param.WithBounds(0.08, 64),
			param.WithDelta(0.1),
		),
		Abund: param.New("abund", 1.0,
			param.WithDesc("metal abundance"),
			param.WithBounds(0, 5),
			param.WithDelta(0.01),
			param.Fixed(),
		),
		Redshift: param.New("redshift", 0.1,
			param.WithDesc("source redshift"),
			param.WithBounds(0, 10),
			param.WithDelta(1e-3),
			param.Fixed(),
		),
		name:       name,
		metals:     metals,
		resolution: cfg.Resolution,
		sess:       sess,
	}

	if free {
		m.Elements = make(param.Params, 0, len(metals))
		for _, z := range metals {
			m.Elements = append(m.Elements, param.New(abund.Symbol(z), 1.0,
				param.WithDesc("abundance of "+abund.Symbol(z)),
				param.WithBounds(0, 5),
				param.WithDelta(0.01),
				param.Fixed(),
			))
		}
	}

	return m, nil
}

// Name returns the model name.
func (m *Model) Name() string {
	return m.name
}

// Params returns the model parameter descriptors, the per-element
// abundances of VAPEC included.
func (m *Model) Params() param.Params {
	ps := param.Params{m.K, m.KT, m.Abund, m.Redshift}
	return append(ps, m.Elements...)
}

// Evaluate returns the photon flux density in ph/(s keV) (scaled by
// K) at every bin center of the observer-frame energy grid.
func (m *Model) Evaluate(energies []float64) ([]float64, error) {
	m.rest = grid.Shift(m.rest, energies, m.Redshift.Value())

	edges, err := grid.Edges(m.rest)
	if err != nil {
		return nil, fmt.Errorf("plasma: %s: %w", m.name, err)
	}

	widths := grid.Widths(edges)

	err = m.sess.SetResponse(edges)
	if err != nil {
		return nil, fmt.Errorf("plasma: %s: %w", m.name, err)
	}

	err = m.setAbundances()
	if err != nil {
		return nil, fmt.Errorf("plasma: %s: %w", m.name, err)
	}

	spec, err := m.sess.Spectrum(m.KT.Value())
	if err != nil {
		return nil, fmt.Errorf("plasma: %s: %w", m.name, err)
	}

	k := m.K.Value()
	for i := range spec {
		spec[i] = k * spec[i] / widths[i] / normDivisor
	}

	if m.resolution > 0 {
		spec, err = m.smooth(spec, energies)
		if err != nil {
			return nil, err
		}
	}

	return spec, nil
}

func (m *Model) setAbundances() error {
	base := m.Abund.Value()

	err := m.sess.SetAbund(m.metals, base)
	if err != nil {
		return err
	}

	if m.Elements == nil {
		return nil
	}

	for i, z := range m.metals {
		v := m.Elements[i].Value()
		if v == 1 {
			continue
		}

		err = m.sess.SetAbund([]int{z}, base*v)
		if err != nil {
			return err
		}
	}

	return nil
}

func (m *Model) smooth(spec, energies []float64) ([]float64, error) {
	width, err := uniformWidth(energies)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", ErrNonUniform, m.name)
	}

	sigma := broaden.FWHMToSigma(m.resolution)

	out, err := broaden.Gaussian(spec, width, sigma)
	if err != nil {
		return nil, fmt.Errorf("plasma: %s: %w", m.name, err)
	}

	return out, nil
}

// uniformWidth returns the common spacing of a uniform grid.
func uniformWidth(energies []float64) (float64, error) {
	if len(energies) < 2 {
		return 0, ErrNonUniform
	}

	width := energies[1] - energies[0]

	for i := 2; i < len(energies); i++ {
		d := energies[i] - energies[i-1]
		if math.Abs(d-width) > uniformTol*width {
			return 0, ErrNonUniform
		}
	}

	return width, nil
}

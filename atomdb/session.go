package atomdb

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/algo-xray/xray/abund"
)

const (
	speedOfLightKmS = 299792.458

	// Broadened lines are spread over bins within this many sigma of
	// the line center.
	lineReach = 5.0
)

// Errors returned by session operations.
var (
	ErrNilDB         = errors.New("atomdb: nil database")
	ErrNoResponse    = errors.New("atomdb: no response set, call SetResponse first")
	ErrBadResponse   = errors.New("atomdb: response edges must be strictly increasing with at least 2 values")
	ErrTempRange     = errors.New("atomdb: temperature outside database grid")
	ErrNegativeAbund = errors.New("atomdb: abundance factor must not be negative")
)

// SessionConfig holds CIESession construction settings.
type SessionConfig struct {
	// AbundSet is the abundance table spectra are rescaled to. Empty
	// means the database's native set (no rescaling).
	AbundSet abund.Set

	// VelocitySigma is the Gaussian velocity broadening in km/s
	// applied to every line. Zero disables broadening.
	VelocitySigma float64
}

// SessionOption mutates a SessionConfig.
type SessionOption func(*SessionConfig)

// WithAbundanceSet rescales emissivities from the database's native
// abundance table to the given one.
func WithAbundanceSet(set abund.Set) SessionOption {
	return func(cfg *SessionConfig) { cfg.AbundSet = set }
}

// WithVelocityBroadening spreads each line over a Gaussian of the
// given velocity width (standard deviation, km/s).
func WithVelocityBroadening(sigmaKmS float64) SessionOption {
	return func(cfg *SessionConfig) {
		if sigmaKmS > 0 {
			cfg.VelocitySigma = sigmaKmS
		}
	}
}

// CIESession synthesizes binned CIE spectra from a database.
//
// A session carries the energy response (bin edges) and per-element
// abundance factors between evaluations; both can be changed at any
// time. Sessions are not safe for concurrent use.
type CIESession struct {
	db  *DB
	cfg SessionConfig

	ebounds []float64

	// setScale rescales the database abundance set to cfg.AbundSet;
	// userScale carries SetAbund factors. Index is the atomic number.
	setScale  [abund.MaxElement + 1]float64
	userScale [abund.MaxElement + 1]float64
}

// NewCIESession creates a session over db.
func NewCIESession(db *DB, opts ...SessionOption) (*CIESession, error) {
	if db == nil {
		return nil, ErrNilDB
	}

	err := db.Validate()
	if err != nil {
		return nil, err
	}

	var cfg SessionConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	s := &CIESession{db: db, cfg: cfg}

	for z := 1; z <= abund.MaxElement; z++ {
		s.setScale[z] = 1
		s.userScale[z] = 1
	}

	if cfg.AbundSet != "" && cfg.AbundSet != db.AbundSet {
		for z := 1; z <= abund.MaxElement; z++ {
			r, err := abund.Ratio(db.AbundSet, cfg.AbundSet, z)
			if err != nil {
				return nil, fmt.Errorf("atomdb: abundance rescaling: %w", err)
			}

			s.setScale[z] = r
		}
	}

	return s, nil
}

// SetResponse sets the raw diagonal response: n+1 strictly increasing
// bin edges in keV. Spectrum results have n bins.
func (s *CIESession) SetResponse(ebounds []float64) error {
	if len(ebounds) < 2 {
		return ErrBadResponse
	}

	for i := 1; i < len(ebounds); i++ {
		if ebounds[i] <= ebounds[i-1] {
			return fmt.Errorf("%w: at edge %d", ErrBadResponse, i)
		}
	}

	s.ebounds = append(s.ebounds[:0], ebounds...)

	return nil
}

// SetAbund sets the abundance factor of the given elements relative
// to the session's abundance table.
func (s *CIESession) SetAbund(elements []int, factor float64) error {
	if factor < 0 {
		return ErrNegativeAbund
	}

	for _, z := range elements {
		if z < 1 || z > abund.MaxElement {
			return fmt.Errorf("%w: Z=%d", ErrBadElement, z)
		}
	}

	for _, z := range elements {
		s.userScale[z] = factor
	}

	return nil
}

// ResetAbund restores all abundance factors to 1.
func (s *CIESession) ResetAbund() {
	for z := 1; z <= abund.MaxElement; z++ {
		s.userScale[z] = 1
	}
}

// Spectrum returns the emissivity spectrum at plasma temperature kT,
// integrated per response bin, in ph cm^3 s^-1.
//
// kT must lie inside the database temperature grid. Between grid
// points the two neighboring spectra are combined linearly in log kT.
func (s *CIESession) Spectrum(kT float64) ([]float64, error) {
	if len(s.ebounds) == 0 {
		return nil, ErrNoResponse
	}

	lo, hi := s.db.TempRange()
	if kT < lo || kT > hi {
		return nil, fmt.Errorf("%w: kT=%g not in [%g, %g]", ErrTempRange, kT, lo, hi)
	}

	idx := sort.SearchFloat64s(s.db.Temps, kT)
	if idx < len(s.db.Temps) && s.db.Temps[idx] == kT {
		return s.layerSpectrum(idx), nil
	}

	// kT strictly between Temps[idx-1] and Temps[idx].
	t0, t1 := s.db.Temps[idx-1], s.db.Temps[idx]
	frac := math.Log(kT/t0) / math.Log(t1/t0)

	spec0 := s.layerSpectrum(idx - 1)
	spec1 := s.layerSpectrum(idx)

	for i := range spec0 {
		spec0[i] = (1-frac)*spec0[i] + frac*spec1[i]
	}

	return spec0, nil
}

// layerSpectrum evaluates one temperature layer onto the response.
func (s *CIESession) layerSpectrum(idx int) []float64 {
	out := make([]float64, len(s.ebounds)-1)

	for _, ln := range s.db.Lines[idx] {
		amp := ln.Epsilon * s.scale(ln.Element)
		if amp == 0 {
			continue
		}

		if s.cfg.VelocitySigma > 0 {
			sigma := ln.Energy * s.cfg.VelocitySigma / speedOfLightKmS
			s.addLineBroadened(out, ln.Energy, amp, sigma)
		} else {
			s.addLine(out, ln.Energy, amp)
		}
	}

	for i := range s.db.Cont[idx] {
		ec := &s.db.Cont[idx][i]

		scale := s.scale(ec.Element)
		if scale == 0 {
			continue
		}

		s.addContinuum(out, ec, scale)
	}

	return out
}

func (s *CIESession) scale(z int) float64 {
	return s.setScale[z] * s.userScale[z]
}

// addLine deposits the full line emissivity into the bin containing
// energy. Lines on a bin edge belong to the upper bin; lines outside
// the response are dropped.
func (s *CIESession) addLine(out []float64, energy, amp float64) {
	eb := s.ebounds

	i := sort.SearchFloat64s(eb, energy)

	j := i - 1
	if i < len(eb) && eb[i] == energy {
		j = i
	}

	if j >= 0 && j < len(out) {
		out[j] += amp
	}
}

// addLineBroadened spreads the line emissivity over bins with a
// Gaussian of width sigma, using the error function over bin edges.
func (s *CIESession) addLineBroadened(out []float64, energy, amp, sigma float64) {
	if sigma <= 0 {
		s.addLine(out, energy, amp)
		return
	}

	eb := s.ebounds
	inv := 1 / (sigma * math.Sqrt2)

	lo := sort.SearchFloat64s(eb, energy-lineReach*sigma) - 1
	if lo < 0 {
		lo = 0
	}

	hi := sort.SearchFloat64s(eb, energy+lineReach*sigma)
	if hi > len(out) {
		hi = len(out)
	}

	prev := math.Erf((eb[lo] - energy) * inv)
	for j := lo; j < hi; j++ {
		cur := math.Erf((eb[j+1] - energy) * inv)
		out[j] += amp * 0.5 * (cur - prev)
		prev = cur
	}
}

// addContinuum integrates the piecewise-linear continuum and pseudo
// continuum of one element over every response bin.
func (s *CIESession) addContinuum(out []float64, ec *ElementContinuum, scale float64) {
	eb := s.ebounds

	if len(ec.Energy) < 2 {
		return
	}

	for j := range out {
		v := segmentIntegral(ec.Energy, ec.Rate, eb[j], eb[j+1])
		v += segmentIntegral(ec.Energy, ec.Pseudo, eb[j], eb[j+1])
		out[j] += v * scale
	}
}

// segmentIntegral integrates the piecewise-linear function (xs, ys)
// over [lo, hi]. The function is zero outside its abscissa range.
func segmentIntegral(xs, ys []float64, lo, hi float64) float64 {
	n := len(xs)
	if n < 2 || hi <= xs[0] || lo >= xs[n-1] {
		return 0
	}

	// First segment that can overlap [lo, hi].
	k := sort.SearchFloat64s(xs, lo) - 1
	if k < 0 {
		k = 0
	}

	sum := 0.0

	for ; k < n-1 && xs[k] < hi; k++ {
		a := math.Max(lo, xs[k])
		b := math.Min(hi, xs[k+1])

		if b <= a {
			continue
		}

		w := xs[k+1] - xs[k]
		fa := ys[k] + (ys[k+1]-ys[k])*(a-xs[k])/w
		fb := ys[k] + (ys[k+1]-ys[k])*(b-xs[k])/w

		sum += 0.5 * (fa + fb) * (b - a)
	}

	return sum
}

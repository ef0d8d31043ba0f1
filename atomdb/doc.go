// Package atomdb evaluates collisional-ionization-equilibrium (CIE)
// plasma emission from a precomputed atomic database.
//
// A DB holds, for each temperature of a fixed grid, the emission-line
// list (energy, emissivity, element, ion) and the per-element
// compressed continuum (piecewise-linear emissivity density plus a
// pseudo-continuum of weak lines). Databases are loaded from FITS
// files with Open or assembled in memory.
//
// A CIESession binds a DB to an energy response and abundance
// scaling, and synthesizes binned spectra:
//
//	sess, _ := atomdb.NewCIESession(db, atomdb.WithAbundanceSet(abund.AG89))
//	_ = sess.SetResponse(ebounds)
//	_ = sess.SetAbund([]int{26}, 0.5)
//	spec, _ := sess.Spectrum(2.0) // ph cm^3 s^-1 per bin
//
// For a temperature between two grid points the session evaluates the
// spectrum at both neighbors and interpolates linearly in log kT.
package atomdb

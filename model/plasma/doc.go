// Package plasma implements the APEC collisional plasma emission
// models (Smith et al. 2001) on top of an atomdb database.
//
// APEC exposes the classic four parameters: normalization K, plasma
// temperature kT, a single metal abundance, and the source redshift.
// VAPEC additionally frees the abundance of each metal individually.
//
// Evaluation shifts the observer-frame energy grid into the source
// rest frame, synthesizes the binned emissivity spectrum through an
// atomdb.CIESession, and converts it to a photon flux density:
//
//	F(E) = K * S(E*(1+z), kT) / dE / 1e-14
//
// with S the per-bin emissivity and dE the bin width, so K carries
// the usual 1e-14/(4 pi (1+z)^2 dA^2) * EM normalization.
package plasma

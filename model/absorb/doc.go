// Package absorb implements photoelectric absorption models: the
// transmission of the interstellar medium as a function of energy,
//
//	f(E) = exp(-NH * sigma(E))
//
// with NH the equivalent hydrogen column density in 1e22 cm^-2 and
// sigma the effective cross section per hydrogen atom interpolated
// from a precomputed table.
//
// Two table families are supported: PhAbs (Balucinska-Church &
// McCammon photoionization cross sections) and TbAbs (Wilms, Allen &
// McCray, including ISM grain and molecular corrections). Both share
// the same evaluation; they differ only in the table loaded.
//
// # Usage
//
//	m, err := absorb.NewTbAbs(absorb.WithTableDir("data/xsect"))
//	if err != nil { ... }
//	_ = m.NH.Set(0.3)
//	trans, err := m.Evaluate(energies)
package absorb

// Package grid converts energy grids between the bin-center form used
// by model callers and the bin-edge form used by spectral evaluation.
//
// Model functions receive ordered bin centers in keV. Binned spectra
// (line histograms, integrated continua) need the n+1 edges that
// bracket those centers: interior edges are midpoints of neighboring
// centers, and the two outer edges mirror the distance to the nearest
// midpoint so every center sits inside its bin.
//
// # Usage
//
//	centers, _ := grid.Uniform(0.5, 10, 1024)
//	edges, _ := grid.Edges(centers)
//	widths := grid.Widths(edges)
//
// For a source at redshift z, shift observer-frame centers into the
// source rest frame before building edges:
//
//	rest := grid.Shift(nil, centers, z)
package grid

// Package broaden smooths binned spectra with a Gaussian kernel,
// approximating instrument energy resolution.
//
// The convolution is linear (zero-padded FFT), so flux is conserved
// up to spill-over past the grid ends. The spectrum must be binned on
// a uniform grid; binWidth is the common bin width in keV.
package broaden

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// Kernel support half-width in units of sigma.
const kernelReach = 4.0

// Errors returned by broadening functions.
var (
	ErrEmptyInput   = errors.New("broaden: empty spectrum")
	ErrInvalidSigma = errors.New("broaden: sigma must be positive")
	ErrInvalidWidth = errors.New("broaden: bin width must be positive")
)

// Kernel returns a unit-area Gaussian kernel sampled on a uniform
// grid of the given bin width, truncated at ±4 sigma. The kernel
// length is odd and the peak sits at the center index.
func Kernel(binWidth, sigma float64) ([]float64, error) {
	if binWidth <= 0 {
		return nil, ErrInvalidWidth
	}

	if sigma <= 0 {
		return nil, ErrInvalidSigma
	}

	half := int(math.Ceil(kernelReach * sigma / binWidth))
	if half < 1 {
		half = 1
	}

	kernel := make([]float64, 2*half+1)

	sum := 0.0
	for i := range kernel {
		x := float64(i-half) * binWidth
		kernel[i] = math.Exp(-x * x / (2 * sigma * sigma))
		sum += kernel[i]
	}

	for i := range kernel {
		kernel[i] /= sum
	}

	return kernel, nil
}

// Gaussian convolves spec with a Gaussian of standard deviation sigma
// (same unit as binWidth) and returns the smoothed spectrum with the
// same length.
func Gaussian(spec []float64, binWidth, sigma float64) ([]float64, error) {
	if len(spec) == 0 {
		return nil, ErrEmptyInput
	}

	kernel, err := Kernel(binWidth, sigma)
	if err != nil {
		return nil, err
	}

	n := len(spec)
	half := (len(kernel) - 1) / 2
	fftSize := nextPowerOf2(n + len(kernel) - 1)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("broaden: failed to create FFT plan: %w", err)
	}

	specPadded := make([]complex128, fftSize)
	kernelPadded := make([]complex128, fftSize)

	for i, v := range spec {
		specPadded[i] = complex(v, 0)
	}

	for i, v := range kernel {
		kernelPadded[i] = complex(v, 0)
	}

	specFreq := make([]complex128, fftSize)
	kernelFreq := make([]complex128, fftSize)

	err = plan.Forward(specFreq, specPadded)
	if err != nil {
		return nil, err
	}

	err = plan.Forward(kernelFreq, kernelPadded)
	if err != nil {
		return nil, err
	}

	for i := range specFreq {
		specFreq[i] *= kernelFreq[i]
	}

	resultTime := make([]complex128, fftSize)

	err = plan.Inverse(resultTime, specFreq)
	if err != nil {
		return nil, err
	}

	// The full linear convolution has length n + 2*half; the aligned
	// output starts at the kernel center.
	out := make([]float64, n)
	for i := range out {
		out[i] = real(resultTime[i+half])
	}

	return out, nil
}

// FWHMToSigma converts a full width at half maximum to the standard
// deviation of the corresponding Gaussian.
func FWHMToSigma(fwhm float64) float64 {
	return fwhm / (2 * math.Sqrt(2*math.Ln2))
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}

package spectral

import (
	"errors"
	"fmt"

	"Illuminate/internal/calc/standards"
	"Illuminate/internal/room"

	"gonum.org/v1/gonum/floats"
)

// Actinic UV-C band used for all spectral integration, nm inclusive.
const (
	BandLow  = 200.0
	BandHigh = 280.0
)

// TLVDose is the weighted dose at the limit, uJ/cm2.
const TLVDose = 3000.0

var (
	ErrDegenerateSpectrum = errors.New("degenerate spectrum")
	ErrNoSpectrum         = errors.New("no spectrum")
)

type Breakdown struct {
	SpectralPower float64 `json:"spectral_power"`
	Ratio         float64 `json:"ratio"`
	WeightedPower float64 `json:"weighted_power"`
	Hours         float64 `json:"hours"`
}

// Sum integrates with the left-sample rule: each sample times the step leading up to it.
func Sum(wavelengths, values []float64) float64 {
	if len(wavelengths) < 2 {
		return 0
	}
	steps := make([]float64, len(wavelengths)-1)
	floats.SubTo(steps, wavelengths[1:], wavelengths[:len(wavelengths)-1])
	return floats.Dot(values[1:], steps)
}

// Band returns the indices whose wavelength lies in [BandLow, BandHigh].
func Band(wavelengths []float64) []int {
	var idx []int
	for i, wl := range wavelengths {
		if wl >= BandLow && wl <= BandHigh {
			idx = append(idx, i)
		}
	}
	return idx
}

func pick(values []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = values[j]
	}
	return out
}

// WeightedHours returns hours until the weighted TLV is reached for a lamp
// producing irradiance (uW/cm2) at the point of interest.
func WeightedHours(lamp *room.Lamp, irradiance float64, std standards.Standard) (float64, error) {
	b, err := Integrate(lamp.Spectra[standards.Unweighted], lamp.SpectralWeightings[std], irradiance)
	if err != nil {
		return 0, fmt.Errorf("%s/%s: %w", lamp.Name, std, err)
	}
	return b.Hours, nil
}

// Integrate scales a relative spectrum to irradiance and weights it.
// weighting must be sampled on the spectrum's wavelengths.
func Integrate(spectrum, weighting room.Spectrum, irradiance float64) (Breakdown, error) {
	if spectrum.Len() == 0 {
		return Breakdown{}, ErrNoSpectrum
	}
	if len(weighting.Values) != spectrum.Len() {
		return Breakdown{}, fmt.Errorf("%w: weighting has %d samples, spectrum %d",
			ErrNoSpectrum, len(weighting.Values), spectrum.Len())
	}

	idx := Band(spectrum.Wavelengths)
	wl := pick(spectrum.Wavelengths, idx)
	rel := pick(spectrum.Values, idx)

	power := Sum(wl, rel)
	if power == 0 {
		return Breakdown{}, fmt.Errorf("%w: zero power in %g-%g nm", ErrDegenerateSpectrum, BandLow, BandHigh)
	}
	ratio := irradiance / power

	scaled := append([]float64(nil), rel...)
	floats.Scale(ratio, scaled)
	weighted := pick(weighting.Values, idx)
	floats.Mul(weighted, scaled)

	wp := Sum(wl, weighted)
	if wp == 0 {
		return Breakdown{}, fmt.Errorf("%w: zero weighted power", ErrDegenerateSpectrum)
	}
	return Breakdown{
		SpectralPower: power,
		Ratio:         ratio,
		WeightedPower: wp,
		Hours:         TLVDose / wp / 3600,
	}, nil
}

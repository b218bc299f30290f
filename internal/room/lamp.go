package room

import (
	"fmt"
	"math"

	"Illuminate/internal/calc/standards"
)

type Lamp struct {
	Name               string                          `json:"name"`
	Filename           string                          `json:"filename"`
	MaxIrradiances     map[string]float64              `json:"max_irradiances"`
	Spectra            map[standards.Standard]Spectrum `json:"spectra"`
	SpectralWeightings map[standards.Standard]Spectrum `json:"spectral_weightings"`
}

func (l *Lamp) HasSpectra() bool {
	return len(l.Spectra) > 0
}

// MaxIrradiance is this lamp's own maximum on a zone, in the zone's units.
func (l *Lamp) MaxIrradiance(zone string) float64 {
	return l.MaxIrradiances[zone]
}

func (l *Lamp) Validate() error {
	for zone, v := range l.MaxIrradiances {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: max irradiance %v on %s", ErrInvalidRoom, v, zone)
		}
	}
	if len(l.Spectra) == 0 {
		return nil
	}
	base, ok := l.Spectra[standards.Unweighted]
	if !ok {
		return fmt.Errorf("%w: spectra present without %q", ErrInvalidRoom, standards.Unweighted)
	}
	for key, s := range l.Spectra {
		if !key.Valid() {
			return fmt.Errorf("%w: spectrum key %q", ErrInvalidRoom, key)
		}
		if err := s.Validate(); err != nil {
			return fmt.Errorf("spectrum %q: %w", key, err)
		}
	}
	for key, w := range l.SpectralWeightings {
		if !key.Valid() || key == standards.Unweighted {
			return fmt.Errorf("%w: weighting key %q", ErrInvalidRoom, key)
		}
		if err := w.Validate(); err != nil {
			return fmt.Errorf("weighting %q: %w", key, err)
		}
		if w.Len() != base.Len() {
			return fmt.Errorf("%w: weighting %q has %d samples, spectrum has %d",
				ErrInvalidRoom, key, w.Len(), base.Len())
		}
		for i, wl := range w.Wavelengths {
			if wl != base.Wavelengths[i] {
				return fmt.Errorf("%w: weighting %q wavelength %v at index %d, spectrum has %v",
					ErrInvalidRoom, key, wl, i, base.Wavelengths[i])
			}
		}
	}
	return nil
}

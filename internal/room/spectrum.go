package room

import (
	"encoding/json"
	"fmt"
)

// Spectrum is a wavelength-ordered series of samples.
type Spectrum struct {
	Wavelengths []float64 `json:"wavelengths"`
	Values      []float64 `json:"values"`
}

func NewSpectrum(wavelengths, values []float64) (Spectrum, error) {
	s := Spectrum{Wavelengths: wavelengths, Values: values}
	if err := s.Validate(); err != nil {
		return Spectrum{}, err
	}
	return s, nil
}

func (s Spectrum) Len() int {
	return len(s.Wavelengths)
}

func (s Spectrum) Validate() error {
	if len(s.Wavelengths) != len(s.Values) {
		return fmt.Errorf("%w: %d wavelengths but %d values", ErrInvalidRoom, len(s.Wavelengths), len(s.Values))
	}
	for i := 1; i < len(s.Wavelengths); i++ {
		if s.Wavelengths[i] <= s.Wavelengths[i-1] {
			return fmt.Errorf("%w: wavelengths not ascending at index %d", ErrInvalidRoom, i)
		}
	}
	return nil
}

// Decode parses a room payload and validates it.
func Decode(data []byte) (*Room, error) {
	var r Room
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoom, err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

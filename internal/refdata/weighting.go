package refdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"Illuminate/internal/calc/standards"
)

var ErrWavelengthNotTabulated = errors.New("wavelength not tabulated")

// Weightings holds one weighting curve per standard on a shared wavelength axis.
// Cell values are a third of the reciprocal 8-hour limit, so limit = 3 / cell.
type Weightings struct {
	wavelengths []float64
	columns     map[standards.Standard][]float64
	index       map[float64]int
}

func ParseWeightings(r io.Reader) (*Weightings, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("weighting table is empty")
	}
	headers := rows[0]
	w := &Weightings{
		columns: make(map[standards.Standard][]float64, len(headers)-1),
		index:   make(map[float64]int, len(rows)-1),
	}
	for i, row := range rows[1:] {
		if len(row) != len(headers) {
			return nil, fmt.Errorf("row %d: %d fields, want %d", i+2, len(row), len(headers))
		}
		wl, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: wavelength: %w", i+2, err)
		}
		if n := len(w.wavelengths); n > 0 && wl <= w.wavelengths[n-1] {
			return nil, fmt.Errorf("row %d: wavelengths not ascending", i+2)
		}
		w.index[wl] = len(w.wavelengths)
		w.wavelengths = append(w.wavelengths, wl)
		for j, h := range headers[1:] {
			v, err := strconv.ParseFloat(row[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", i+2, h, err)
			}
			s := standards.Standard(h)
			w.columns[s] = append(w.columns[s], v)
		}
	}
	return w, nil
}

func (w *Weightings) Has(s standards.Standard) bool {
	_, ok := w.columns[s]
	return ok
}

// At returns the tabulated cell for a standard at an exact wavelength.
func (w *Weightings) At(wavelength float64, s standards.Standard) (float64, error) {
	col, ok := w.columns[s]
	if !ok {
		return 0, fmt.Errorf("%w: no column %q", standards.ErrInvalidStandard, s)
	}
	i, ok := w.index[wavelength]
	if !ok {
		return 0, fmt.Errorf("%w: %g nm", ErrWavelengthNotTabulated, wavelength)
	}
	return col[i], nil
}

// EightHourLimit returns the monochromatic skin and eye limits (mJ/cm2) at a wavelength.
func (w *Weightings) EightHourLimit(wavelength float64, label string) (skin, eye float64, err error) {
	skinStd, eyeStd, err := standards.Resolve(label)
	if err != nil {
		return 0, 0, err
	}
	s, err := w.At(wavelength, skinStd)
	if err != nil {
		return 0, 0, err
	}
	e, err := w.At(wavelength, eyeStd)
	if err != nil {
		return 0, 0, err
	}
	return 3 / s, 3 / e, nil
}

// Wavelengths returns a copy of the table axis.
func (w *Weightings) Wavelengths() []float64 {
	return append([]float64(nil), w.wavelengths...)
}

// Interpolate resamples a standard's curve onto the given wavelengths.
// Points outside the table are weighted zero.
func (w *Weightings) Interpolate(s standards.Standard, wavelengths []float64) ([]float64, error) {
	col, ok := w.columns[s]
	if !ok {
		return nil, fmt.Errorf("%w: no column %q", standards.ErrInvalidStandard, s)
	}
	out := make([]float64, len(wavelengths))
	n := len(w.wavelengths)
	for i, x := range wavelengths {
		if n == 0 || x < w.wavelengths[0] || x > w.wavelengths[n-1] {
			continue
		}
		j := sort.SearchFloat64s(w.wavelengths, x)
		if w.wavelengths[j] == x {
			out[i] = col[j]
			continue
		}
		x0, x1 := w.wavelengths[j-1], w.wavelengths[j]
		t := (x - x0) / (x1 - x0)
		out[i] = col[j-1] + t*(col[j]-col[j-1])
	}
	return out, nil
}

package refdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

const (
	colSpecies    = "Species"
	colMedium     = "Medium"
	colSpecific   = "Medium (specific)"
	colWavelength = "wavelength [nm]"
	colK          = "k [cm2/mJ]"
	colRef        = "Ref"
	colCitation   = "Full Citation"
)

const MediumAerosol = "Aerosol"

// Pathogen is one inactivation rate constant measurement.
type Pathogen struct {
	Species        string
	Medium         string
	MediumSpecific string
	WavelengthNM   float64
	K              float64 // cm2/mJ
	Ref            string
	Citation       string
}

type Pathogens []Pathogen

func ParsePathogens(r io.Reader) (Pathogens, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("disinfection table is empty")
	}
	col := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		col[h] = i
	}
	for _, h := range []string{colSpecies, colMedium, colWavelength, colK} {
		if _, ok := col[h]; !ok {
			return nil, fmt.Errorf("missing column %q", h)
		}
	}
	get := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	out := make(Pathogens, 0, len(rows)-1)
	for n, row := range rows[1:] {
		wl, err := strconv.ParseFloat(get(row, colWavelength), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: wavelength: %w", n+2, err)
		}
		k, err := strconv.ParseFloat(get(row, colK), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: k: %w", n+2, err)
		}
		out = append(out, Pathogen{
			Species:        get(row, colSpecies),
			Medium:         get(row, colMedium),
			MediumSpecific: get(row, colSpecific),
			WavelengthNM:   wl,
			K:              k,
			Ref:            get(row, colRef),
			Citation:       get(row, colCitation),
		})
	}
	return out, nil
}

// Filter keeps rows for a medium at an exact wavelength.
func (p Pathogens) Filter(medium string, wavelength float64) Pathogens {
	var out Pathogens
	for _, row := range p {
		if row.Medium == medium && row.WavelengthNM == wavelength {
			out = append(out, row)
		}
	}
	return out
}

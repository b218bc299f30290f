package efficacy

import (
	"fmt"
	"math"

	"Illuminate/internal/refdata"
	"Illuminate/internal/room"
)

// Wavelength is the only emission line supported; every lamp is assumed GUV222.
const Wavelength = 222.0

const (
	cubicFootInM3 = 0.3048 * 0.3048 * 0.3048
	lpsPerCFM     = 0.47195
)

type Row struct {
	Species   string  `json:"species"`
	K         float64 `json:"k_cm2_mj"`
	EACH      float64 `json:"each_uv"`
	CADRCFM   float64 `json:"cadr_cfm"`
	CADRLPS   float64 `json:"cadr_lps"`
	Reference string  `json:"reference"`
}

type Table struct {
	AvgFluence float64 `json:"avg_fluence"`
	Rows       []Row   `json:"rows"`
}

// VolumeCubicFeet returns the room volume in ft3.
func VolumeCubicFeet(r *room.Room) float64 {
	v := r.Volume()
	if r.Units == room.UnitsMeters {
		v = v / cubicFootInM3
	}
	return v
}

// Calculate builds the disinfection table for an average fluence in uW/cm2.
// Values are unrounded; use Rounded for display.
func Calculate(avgFluence float64, r *room.Room, pathogens refdata.Pathogens) (Table, error) {
	if r.Units != room.UnitsMeters && r.Units != room.UnitsFeet {
		return Table{}, fmt.Errorf("%w: units %q", room.ErrInvalidRoom, r.Units)
	}
	volume := VolumeCubicFeet(r)
	rows := pathogens.Filter(refdata.MediumAerosol, Wavelength)

	out := Table{AvgFluence: avgFluence, Rows: make([]Row, 0, len(rows))}
	for _, p := range rows {
		each := p.K * avgFluence * 3.6
		cfm := each * volume / 60
		out.Rows = append(out.Rows, Row{
			Species:   p.Species,
			K:         p.K,
			EACH:      each,
			CADRCFM:   cfm,
			CADRLPS:   cfm * lpsPerCFM,
			Reference: p.Citation,
		})
	}
	return out, nil
}

// ForRoom uses the mean of the WholeRoomFluence zone.
func ForRoom(r *room.Room, pathogens refdata.Pathogens) (Table, error) {
	fluence, err := r.Zone(room.ZoneFluence).Mean()
	if err != nil {
		return Table{}, err
	}
	return Calculate(fluence, r, pathogens)
}

func (t Table) Rounded() Table {
	out := Table{AvgFluence: round(t.AvgFluence, 3), Rows: make([]Row, len(t.Rows))}
	for i, row := range t.Rows {
		row.EACH = round(row.EACH, 2)
		row.CADRCFM = round(row.CADRCFM, 2)
		row.CADRLPS = round(row.CADRLPS, 2)
		out.Rows[i] = row
	}
	return out
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

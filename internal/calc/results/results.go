package results

import (
	"errors"
	"math"

	"Illuminate/internal/calc/efficacy"
	"Illuminate/internal/calc/ozone"
	"Illuminate/internal/calc/premium/recommend"
	"Illuminate/internal/calc/safety"
	"Illuminate/internal/room"
)

// Photobiological is nil in a Summary when skin or eye limits were not calculated.
type Photobiological struct {
	SkinMaxDose          float64                 `json:"skin_max_dose"`
	EyeMaxDose           float64                 `json:"eye_max_dose"`
	DoseUnits            string                  `json:"dose_units"`
	Unweighted           safety.Hours            `json:"unweighted"`
	Weighted             safety.Weighted         `json:"weighted"`
	SkinExceeded         bool                    `json:"skin_exceeded"`
	EyeExceeded          bool                    `json:"eye_exceeded"`
	UnweightedCompliance recommend.DimmingResult `json:"unweighted_compliance"`
	WeightedCompliance   recommend.DimmingResult `json:"weighted_compliance"`
}

type Efficacy struct {
	AvgFluence float64        `json:"avg_fluence"`
	Table      efficacy.Table `json:"table"`
}

type Ozone struct {
	AirChanges         float64 `json:"air_changes"`
	OzoneDecayConstant float64 `json:"ozone_decay_constant"`
	IncreasePPB        float64 `json:"increase_ppb"`
	Exceeded           bool    `json:"exceeded"`
}

type Summary struct {
	Standard        string           `json:"standard"`
	Photobiological *Photobiological `json:"photobiological"`
	Efficacy        *Efficacy        `json:"efficacy"`
	Ozone           *Ozone           `json:"ozone"`
	Notes           []string         `json:"notes,omitempty"`
}

// Summarize runs every calculation whose input zones are available. Sections
// with missing zones are left nil.
func Summarize(e *safety.Engine, r *room.Room, rounded bool) (Summary, error) {
	out := Summary{Standard: r.Standard}

	skin, eye := r.Zone(room.ZoneSkin), r.Zone(room.ZoneEye)
	if skin.Available() && eye.Available() {
		p, err := photobiological(e, r, skin, eye)
		if err != nil {
			return Summary{}, err
		}
		if rounded {
			p.SkinMaxDose, p.EyeMaxDose = round3(p.SkinMaxDose), round3(p.EyeMaxDose)
		}
		out.Photobiological = p
	} else {
		out.Notes = append(out.Notes, "Photobiological safety not available: skin and eye limits not calculated.")
	}

	fluence := r.Zone(room.ZoneFluence)
	if !fluence.Available() {
		out.Notes = append(out.Notes, "Efficacy and ozone not available: whole room fluence not calculated.")
		return out, nil
	}
	avg, err := fluence.Mean()
	if err != nil {
		return Summary{}, err
	}
	table, err := efficacy.Calculate(avg, r, e.Tables().Pathogens)
	if err != nil {
		return Summary{}, err
	}
	if rounded {
		table = table.Rounded()
	}
	out.Efficacy = &Efficacy{AvgFluence: table.AvgFluence, Table: table}

	ppb, err := ozone.Increase(r)
	switch {
	case errors.Is(err, ozone.ErrNoRemoval):
		out.Notes = append(out.Notes, "Ozone increase not available: no ventilation or decay.")
	case err != nil:
		return Summary{}, err
	default:
		out.Ozone = &Ozone{
			AirChanges:         r.AirChanges,
			OzoneDecayConstant: r.OzoneDecayConstant,
			IncreasePPB:        ppb,
			Exceeded:           ppb > ozone.Threshold,
		}
	}
	return out, nil
}

func photobiological(e *safety.Engine, r *room.Room, skin, eye *room.CalcZone) (*Photobiological, error) {
	res, err := e.Calculate(r)
	if err != nil {
		return nil, err
	}
	skinMax, err := skin.Max()
	if err != nil {
		return nil, err
	}
	eyeMax, err := eye.Max()
	if err != nil {
		return nil, err
	}
	uwc, err := recommend.Dimming(res.Unweighted.Skin, res.Unweighted.Eye)
	if err != nil {
		return nil, err
	}
	wc, err := recommend.Dimming(res.Weighted.Skin, res.Weighted.Eye)
	if err != nil {
		return nil, err
	}
	return &Photobiological{
		SkinMaxDose:          skinMax,
		EyeMaxDose:           eyeMax,
		DoseUnits:            skin.Units,
		Unweighted:           res.Unweighted,
		Weighted:             res.Weighted,
		SkinExceeded:         res.Unweighted.Skin < recommend.ExposureWindow,
		EyeExceeded:          res.Unweighted.Eye < recommend.ExposureWindow,
		UnweightedCompliance: uwc,
		WeightedCompliance:   wc,
	}, nil
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }

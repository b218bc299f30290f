package recommend

import (
	"fmt"
	"math"
)

// ExposureWindow is the TLV averaging period in hours.
const ExposureWindow = 8.0

// DimmingInput takes hours to TLV; a missing value means no exposure.
type DimmingInput struct {
	SkinHours *float64 `json:"skin_hours"`
	EyeHours  *float64 `json:"eye_hours"`
}

type DimmingResult struct {
	HoursToTLV *float64 `json:"hours_to_tlv"`
	Indefinite bool     `json:"indefinite"`
	DimPercent float64  `json:"dim_percent"`
	Notes      string   `json:"notes"`
}

// Dimming reports whether the installation stays below the TLV over a full
// exposure window and, if not, the power fraction that would.
func Dimming(skinHours, eyeHours float64) (DimmingResult, error) {
	if math.IsNaN(skinHours) || math.IsNaN(eyeHours) || skinHours < 0 || eyeHours < 0 {
		return DimmingResult{}, fmt.Errorf("invalid input")
	}
	hours := math.Min(skinHours, eyeHours)
	if hours > ExposureWindow {
		res := DimmingResult{Indefinite: true, DimPercent: 100, Notes: "Compliant with TLVs for indefinite exposure."}
		if !math.IsInf(hours, 1) {
			res.HoursToTLV = &hours
		}
		return res, nil
	}
	dim := math.Round(hours/ExposureWindow*1000) / 10
	return DimmingResult{
		HoursToTLV: &hours,
		DimPercent: dim,
		Notes:      fmt.Sprintf("To be compliant with TLVs, lamps must be dimmed to %.1f%% of their present power.", dim),
	}, nil
}

func FromInput(in DimmingInput) (DimmingResult, error) {
	return Dimming(orInf(in.SkinHours), orInf(in.EyeHours))
}

func orInf(p *float64) float64 {
	if p == nil {
		return math.Inf(1)
	}
	return *p
}

package autodesign

import (
	"fmt"
	"math"

	"Illuminate/internal/calc/ozone"
)

type VentilationInput struct {
	AvgFluence         float64 `json:"avg_fluence"`
	OzoneDecayConstant float64 `json:"ozone_decay_constant"`
	CeilingPPB         float64 `json:"ceiling_ppb"`
}

type VentilationResult struct {
	RequiredAirChanges float64 `json:"required_air_changes"`
	OzoneIncreasePPB   float64 `json:"ozone_increase_ppb"`
	Notes              string  `json:"notes"`
}

// Ventilation sizes the air changes needed to keep the ozone increase at or
// below a ceiling.
func Ventilation(in VentilationInput) (VentilationResult, error) {
	if in.AvgFluence < 0 || in.OzoneDecayConstant < 0 {
		return VentilationResult{}, fmt.Errorf("invalid input")
	}
	if in.CeilingPPB <= 0 {
		in.CeilingPPB = ozone.Threshold
	}

	// ceiling = F*g / (ach + decay)
	ach := math.Max(0, in.AvgFluence*ozone.GenerationConstant/in.CeilingPPB-in.OzoneDecayConstant)

	ppb := 0.0
	if in.AvgFluence > 0 {
		var err error
		ppb, err = ozone.Estimate(in.AvgFluence, ozone.GenerationConstant, ach, in.OzoneDecayConstant)
		if err != nil {
			return VentilationResult{}, err
		}
	}
	return VentilationResult{
		RequiredAirChanges: ach,
		OzoneIncreasePPB:   ppb,
		Notes:              fmt.Sprintf("Minimum ventilation for an ozone increase of at most %g ppb.", in.CeilingPPB),
	}, nil
}

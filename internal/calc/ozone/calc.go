package ozone

import (
	"errors"
	"fmt"

	"Illuminate/internal/room"
)

// GenerationConstant is fixed for GUV222 sources, not derived from spectra.
const GenerationConstant = 10.0

// Threshold above which an increase is flagged, ppb.
const Threshold = 5.0

var ErrNoRemoval = errors.New("no ozone removal: air changes and decay constant are both zero")

// Estimate is the first-order steady state: production over total removal rate.
func Estimate(avgFluence, generation, airChanges, decay float64) (float64, error) {
	removal := airChanges + decay
	if removal <= 0 {
		return 0, ErrNoRemoval
	}
	return avgFluence * generation / removal, nil
}

// Increase estimates the indoor ozone increase for a room, ppb.
func Increase(r *room.Room) (float64, error) {
	fluence, err := r.Zone(room.ZoneFluence).Mean()
	if err != nil {
		return 0, err
	}
	ppb, err := Estimate(fluence, GenerationConstant, r.AirChanges, r.OzoneDecayConstant)
	if err != nil {
		return 0, fmt.Errorf("ozone: %w", err)
	}
	return ppb, nil
}

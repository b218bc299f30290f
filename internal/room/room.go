package room

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
)

const (
	ZoneSkin    = "SkinLimits"
	ZoneEye     = "EyeLimits"
	ZoneFluence = "WholeRoomFluence"
)

const (
	UnitsMeters = "meters"
	UnitsFeet   = "feet"
)

var (
	ErrMissingZoneData = errors.New("zone values not computed")
	ErrInvalidRoom     = errors.New("invalid room")
)

type Dimensions struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type Room struct {
	Standard           string               `json:"standard"`
	Units              string               `json:"units"`
	Dimensions         Dimensions           `json:"dimensions"`
	AirChanges         float64              `json:"air_changes"`
	OzoneDecayConstant float64              `json:"ozone_decay_constant"`
	Lamps              map[string]*Lamp     `json:"lamps"`
	CalcZones          map[string]*CalcZone `json:"calc_zones"`
}

// Volume is in cubic room units.
func (r *Room) Volume() float64 {
	return r.Dimensions.X * r.Dimensions.Y * r.Dimensions.Z
}

// LampIDs returns lamp ids in a stable order.
func (r *Room) LampIDs() []string {
	ids := make([]string, 0, len(r.Lamps))
	for id := range r.Lamps {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Zone returns the named zone or an empty, unavailable one.
func (r *Room) Zone(name string) *CalcZone {
	if z, ok := r.CalcZones[name]; ok && z != nil {
		return &CalcZone{Values: z.Values, Units: z.Units, name: name}
	}
	return &CalcZone{name: name}
}

func (r *Room) Validate() error {
	if r.Units != UnitsMeters && r.Units != UnitsFeet {
		return fmt.Errorf("%w: units %q", ErrInvalidRoom, r.Units)
	}
	if r.AirChanges < 0 || r.OzoneDecayConstant < 0 {
		return fmt.Errorf("%w: air changes and ozone decay must be >= 0", ErrInvalidRoom)
	}
	if r.Dimensions.X < 0 || r.Dimensions.Y < 0 || r.Dimensions.Z < 0 {
		return fmt.Errorf("%w: negative dimensions", ErrInvalidRoom)
	}
	for _, id := range r.LampIDs() {
		lamp := r.Lamps[id]
		if lamp == nil {
			return fmt.Errorf("%w: lamp %q is empty", ErrInvalidRoom, id)
		}
		if err := lamp.Validate(); err != nil {
			return fmt.Errorf("lamp %q: %w", id, err)
		}
	}
	return nil
}

// CalcZone is an irradiance field. Nil Values means the zone was never calculated.
type CalcZone struct {
	Values []float64 `json:"values"`
	Units  string    `json:"units"`

	name string
}

func (z *CalcZone) Available() bool {
	return z != nil && len(z.Values) > 0
}

func (z *CalcZone) Max() (float64, error) {
	if !z.Available() {
		return 0, z.missing()
	}
	return floats.Max(z.Values), nil
}

func (z *CalcZone) Mean() (float64, error) {
	if !z.Available() {
		return 0, z.missing()
	}
	return floats.Sum(z.Values) / float64(len(z.Values)), nil
}

func (z *CalcZone) missing() error {
	if z == nil || z.name == "" {
		return ErrMissingZoneData
	}
	return fmt.Errorf("%w: %s", ErrMissingZoneData, z.name)
}

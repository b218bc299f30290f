package safety

import (
	"errors"
	"fmt"
	"math"

	"Illuminate/internal/calc/spectral"
	"Illuminate/internal/calc/standards"
	"Illuminate/internal/refdata"
	"Illuminate/internal/room"

	"gonum.org/v1/gonum/floats"
)

// MonoWavelength is the emission line assumed for the monochromatic approximation.
const MonoWavelength = 222.0

// DoseFactor converts uW/cm2 sustained for 8 hours into mJ/cm2.
const DoseFactor = 3.6 * 8

type Hours struct {
	Skin float64 `json:"skin"`
	Eye  float64 `json:"eye"`
}

func (h Hours) Min() float64 {
	return math.Min(h.Skin, h.Eye)
}

type Weighted struct {
	Hours
	Warnings []string `json:"warnings,omitempty"`
}

type Engine struct {
	ref *refdata.Tables
}

func NewEngine(ref *refdata.Tables) *Engine {
	return &Engine{ref: ref}
}

func (e *Engine) Tables() *refdata.Tables {
	return e.ref
}

type zoneMaxima struct {
	skin, eye float64
}

func zoneMaxes(r *room.Room) (zoneMaxima, error) {
	skin, err := r.Zone(room.ZoneSkin).Max()
	if err != nil {
		return zoneMaxima{}, err
	}
	eye, err := r.Zone(room.ZoneEye).Max()
	if err != nil {
		return zoneMaxima{}, err
	}
	return zoneMaxima{skin: skin, eye: eye}, nil
}

func monoHours(limit, dose float64) float64 {
	return limit * 8 / dose
}

// UnweightedHours treats every lamp as a pure 222 nm source.
func (e *Engine) UnweightedHours(r *room.Room) (Hours, error) {
	limSkin, limEye, err := e.ref.Weightings.EightHourLimit(MonoWavelength, r.Standard)
	if err != nil {
		return Hours{}, err
	}
	z, err := zoneMaxes(r)
	if err != nil {
		return Hours{}, err
	}
	return Hours{
		Skin: monoHours(limSkin, z.skin),
		Eye:  monoHours(limEye, z.eye),
	}, nil
}

type limits struct {
	skinStd, eyeStd standards.Standard
	skin, eye       float64
}

// WeightedHours accounts for lamp spectra. Overlapping beams are handled by
// scoring a representative lamp against the zone maxima.
func (e *Engine) WeightedHours(r *room.Room) (Weighted, error) {
	if err := r.Validate(); err != nil {
		return Weighted{}, err
	}
	skinStd, eyeStd, err := standards.Resolve(r.Standard)
	if err != nil {
		return Weighted{}, err
	}
	limSkin, limEye, err := e.ref.Weightings.EightHourLimit(MonoWavelength, r.Standard)
	if err != nil {
		return Weighted{}, err
	}
	lim := limits{skinStd: skinStd, eyeStd: eyeStd, skin: limSkin, eye: limEye}
	z, err := zoneMaxes(r)
	if err != nil {
		return Weighted{}, err
	}

	var out Weighted
	skinHours, eyeHours, skinMaxes, eyeMaxes, err := e.overLamps(r, lim, &out.Warnings)
	if err != nil {
		return Weighted{}, err
	}

	globalSkin := round3(z.skin / DoseFactor)
	globalEye := round3(z.eye / DoseFactor)
	localSkin := round3(floats.Max(skinMaxes))
	localEye := round3(floats.Max(eyeMaxes))

	if globalSkin > localSkin || globalEye > localEye {
		s, ey, err := e.globalEstimate(r, lim, z, globalSkin, globalEye, &out.Warnings)
		if err != nil {
			return Weighted{}, err
		}
		skinHours = append(skinHours, s)
		eyeHours = append(eyeHours, ey)
	}

	out.Skin = floats.Min(skinHours)
	out.Eye = floats.Min(eyeHours)
	return out, nil
}

func (e *Engine) overLamps(r *room.Room, lim limits, warnings *[]string) (skinHours, eyeHours, skinMaxes, eyeMaxes []float64, err error) {
	ids := r.LampIDs()
	if len(ids) == 0 {
		return []float64{math.Inf(1)}, []float64{math.Inf(1)}, []float64{0}, []float64{0}, nil
	}
	for _, id := range ids {
		lamp := r.Lamps[id]
		skinIrr := lamp.MaxIrradiance(room.ZoneSkin)
		eyeIrr := lamp.MaxIrradiance(room.ZoneEye)

		if !lamp.HasSpectra() {
			*warnings = append(*warnings, fmt.Sprintf(
				"%s does not have an associated spectrum; its contribution uses the monochromatic approximation", lampLabel(id, lamp)))
		}
		s, err := e.estimate(lamp, skinIrr, lim.skinStd, lim.skin, warnings)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		ey, err := e.estimate(lamp, eyeIrr, lim.eyeStd, lim.eye, warnings)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		skinHours = append(skinHours, s)
		eyeHours = append(eyeHours, ey)
		skinMaxes = append(skinMaxes, skinIrr)
		eyeMaxes = append(eyeMaxes, eyeIrr)
	}
	return skinHours, eyeHours, skinMaxes, eyeMaxes, nil
}

func (e *Engine) globalEstimate(r *room.Room, lim limits, z zoneMaxima, globalSkin, globalEye float64, warnings *[]string) (float64, float64, error) {
	lamp, ok := e.SelectRepresentativeLamp(r, lim.skinStd)
	if !ok || !lamp.HasSpectra() {
		return monoHours(lim.skin, z.skin), monoHours(lim.eye, z.eye), nil
	}
	s, err := e.estimate(lamp, globalSkin, lim.skinStd, lim.skin, warnings)
	if err != nil {
		return 0, 0, err
	}
	ey, err := e.estimate(lamp, globalEye, lim.eyeStd, lim.eye, warnings)
	if err != nil {
		return 0, 0, err
	}
	return s, ey, nil
}

// estimate returns hours to TLV for one lamp at irradiance, in the zone's units.
func (e *Engine) estimate(lamp *room.Lamp, irradiance float64, std standards.Standard, limit float64, warnings *[]string) (float64, error) {
	if irradiance <= 0 {
		return math.Inf(1), nil
	}
	if !lamp.HasSpectra() {
		return monoHours(limit, irradiance), nil
	}
	h, err := e.lampHours(lamp, irradiance, std)
	if errors.Is(err, spectral.ErrDegenerateSpectrum) || errors.Is(err, spectral.ErrNoSpectrum) {
		*warnings = append(*warnings, fmt.Sprintf("%v; falling back to the monochromatic approximation", err))
		return monoHours(limit, irradiance), nil
	}
	return h, err
}

func (e *Engine) lampHours(lamp *room.Lamp, irradiance float64, std standards.Standard) (float64, error) {
	if _, ok := lamp.SpectralWeightings[std]; ok {
		return spectral.WeightedHours(lamp, irradiance, std)
	}
	w, err := e.weighting(lamp, std)
	if err != nil {
		return 0, err
	}
	b, err := spectral.Integrate(lamp.Spectra[standards.Unweighted], w, irradiance)
	if err != nil {
		return 0, fmt.Errorf("%s/%s: %w", lamp.Name, std, err)
	}
	return b.Hours, nil
}

// weighting returns the lamp's own curve for std, or the reference curve
// resampled onto the lamp's wavelengths.
func (e *Engine) weighting(lamp *room.Lamp, std standards.Standard) (room.Spectrum, error) {
	if w, ok := lamp.SpectralWeightings[std]; ok {
		return w, nil
	}
	base := lamp.Spectra[standards.Unweighted]
	vals, err := e.ref.Weightings.Interpolate(std, base.Wavelengths)
	if err != nil {
		return room.Spectrum{}, err
	}
	return room.Spectrum{Wavelengths: base.Wavelengths, Values: vals}, nil
}

func lampLabel(id string, lamp *room.Lamp) string {
	if lamp.Name != "" {
		return lamp.Name
	}
	return id
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Calculate runs both the monochromatic and the spectrally weighted estimate.
func (e *Engine) Calculate(r *room.Room) (Result, error) {
	uw, err := e.UnweightedHours(r)
	if err != nil {
		return Result{}, err
	}
	wt, err := e.WeightedHours(r)
	if err != nil {
		return Result{}, err
	}
	return Result{Unweighted: uw, Weighted: wt}, nil
}

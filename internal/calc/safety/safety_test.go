package safety

import (
	"math"
	"testing"

	"Illuminate/internal/calc/spectral"
	"Illuminate/internal/calc/standards"
	"Illuminate/internal/refdata"
	"Illuminate/internal/room"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rp27 = "ANSI IES RP 27.1-22 (America)"

func newEngine(t *testing.T) *Engine {
	t.Helper()
	tables, err := refdata.Default()
	require.NoError(t, err)
	return NewEngine(tables)
}

// krcl returns a filtered KrCl-like lamp with its own RP 27.1 weightings.
func krcl(t *testing.T, name, file string, skinMax, eyeMax float64) *room.Lamp {
	t.Helper()
	wl := []float64{200, 210, 215, 220, 222, 225, 230, 240, 260, 280}
	spd, err := room.NewSpectrum(wl, []float64{0.001, 0.01, 0.05, 0.4, 1, 0.5, 0.1, 0.02, 0.01, 0.005})
	require.NoError(t, err)
	skinW, err := room.NewSpectrum(wl, []float64{0.0021, 0.0036, 0.0045, 0.0056, 0.00626, 0.008, 0.011, 0.042, 0.55, 0.88})
	require.NoError(t, err)
	eyeW, err := room.NewSpectrum(wl, []float64{0.0079, 0.0125, 0.0146, 0.0171, 0.0186, 0.025, 0.035, 0.12, 0.65, 0.88})
	require.NoError(t, err)
	return &room.Lamp{
		Name:           name,
		Filename:       file,
		MaxIrradiances: map[string]float64{room.ZoneSkin: skinMax, room.ZoneEye: eyeMax},
		Spectra:        map[standards.Standard]room.Spectrum{standards.Unweighted: spd},
		SpectralWeightings: map[standards.Standard]room.Spectrum{
			standards.RP27Skin: skinW,
			standards.RP27Eye:  eyeW,
		},
	}
}

func newRoom(skinZoneMax, eyeZoneMax float64, lamps map[string]*room.Lamp) *room.Room {
	return &room.Room{
		Standard:   rp27,
		Units:      room.UnitsMeters,
		Dimensions: room.Dimensions{X: 6, Y: 4, Z: 2.7},
		Lamps:      lamps,
		CalcZones: map[string]*room.CalcZone{
			room.ZoneSkin: {Values: []float64{0, skinZoneMax / 2, skinZoneMax}, Units: "mJ/cm2"},
			room.ZoneEye:  {Values: []float64{eyeZoneMax, 0, eyeZoneMax / 3}, Units: "mJ/cm2"},
		},
	}
}

func TestUnweightedHours(t *testing.T) {
	e := newEngine(t)
	r := newRoom(200, 80, nil)

	limSkin, limEye, err := e.Tables().Weightings.EightHourLimit(222, rp27)
	require.NoError(t, err)

	h, err := e.UnweightedHours(r)
	require.NoError(t, err)
	assert.InDelta(t, limSkin*8/200, h.Skin, 1e-12)
	assert.InDelta(t, limEye*8/80, h.Eye, 1e-12)
	assert.Equal(t, math.Min(h.Skin, h.Eye), h.Min())
}

func TestUnweightedHours_Errors(t *testing.T) {
	e := newEngine(t)

	r := newRoom(200, 80, nil)
	r.CalcZones[room.ZoneEye].Values = nil
	_, err := e.UnweightedHours(r)
	assert.ErrorIs(t, err, room.ErrMissingZoneData)

	r = newRoom(200, 80, nil)
	delete(r.CalcZones, room.ZoneSkin)
	_, err = e.UnweightedHours(r)
	assert.ErrorIs(t, err, room.ErrMissingZoneData)

	r = newRoom(200, 80, nil)
	r.Standard = "ACGIH"
	_, err = e.UnweightedHours(r)
	assert.ErrorIs(t, err, standards.ErrInvalidStandard)
	_, err = e.WeightedHours(r)
	assert.ErrorIs(t, err, standards.ErrInvalidStandard)
}

func TestWeightedHours_SingleLampNoOverlap(t *testing.T) {
	e := newEngine(t)
	lamp := krcl(t, "A", "a.ies", 5, 3)
	r := newRoom(5*DoseFactor, 3*DoseFactor, map[string]*room.Lamp{"1": lamp})

	got, err := e.WeightedHours(r)
	require.NoError(t, err)

	skin, err := spectral.WeightedHours(lamp, 5, standards.RP27Skin)
	require.NoError(t, err)
	eye, err := spectral.WeightedHours(lamp, 3, standards.RP27Eye)
	require.NoError(t, err)
	assert.Equal(t, skin, got.Skin)
	assert.Equal(t, eye, got.Eye)
	assert.Empty(t, got.Warnings)
}

func TestWeightedHours_OverlapUsesGlobalMax(t *testing.T) {
	e := newEngine(t)
	a := krcl(t, "A", "krcl.ies", 5, 3)
	b := krcl(t, "B", "krcl.ies", 5, 3)
	r := newRoom(10*DoseFactor, 3*DoseFactor, map[string]*room.Lamp{"1": a, "2": b})

	got, err := e.WeightedHours(r)
	require.NoError(t, err)

	skin, err := spectral.WeightedHours(a, 10, standards.RP27Skin)
	require.NoError(t, err)
	eye, err := spectral.WeightedHours(a, 3, standards.RP27Eye)
	require.NoError(t, err)
	assert.InDelta(t, skin, got.Skin, 1e-12)
	assert.InDelta(t, eye, got.Eye, 1e-12)

	single, err := spectral.WeightedHours(a, 5, standards.RP27Skin)
	require.NoError(t, err)
	assert.Less(t, got.Skin, single)
}

func TestWeightedHours_NoLamps(t *testing.T) {
	e := newEngine(t)

	got, err := e.WeightedHours(newRoom(0, 0, nil))
	require.NoError(t, err)
	assert.True(t, math.IsInf(got.Skin, 1))
	assert.True(t, math.IsInf(got.Eye, 1))

	// with irradiance but no lamps the zone itself is the only estimate
	r := newRoom(150, 40, map[string]*room.Lamp{})
	got, err = e.WeightedHours(r)
	require.NoError(t, err)
	mono, err := e.UnweightedHours(r)
	require.NoError(t, err)
	assert.InDelta(t, mono.Skin, got.Skin, 1e-12)
	assert.InDelta(t, mono.Eye, got.Eye, 1e-12)
}

func TestWeightedHours_LampWithoutSpectrumWarns(t *testing.T) {
	e := newEngine(t)
	bare := &room.Lamp{
		Name:           "Bare",
		Filename:       "bare.ies",
		MaxIrradiances: map[string]float64{room.ZoneSkin: 4, room.ZoneEye: 2},
	}
	r := newRoom(4*DoseFactor, 2*DoseFactor, map[string]*room.Lamp{"1": bare})

	got, err := e.WeightedHours(r)
	require.NoError(t, err)
	require.Len(t, got.Warnings, 1)
	assert.Contains(t, got.Warnings[0], "Bare")

	limSkin, limEye, err := e.Tables().Weightings.EightHourLimit(MonoWavelength, rp27)
	require.NoError(t, err)
	assert.InDelta(t, limSkin*8/4, got.Skin, 1e-9)
	assert.InDelta(t, limEye*8/2, got.Eye, 1e-9)
}

func TestWeightedHours_LampWithoutSpectrumUsesOwnMaxima(t *testing.T) {
	e := newEngine(t)
	bare := &room.Lamp{
		Name:           "Bare",
		Filename:       "bare.ies",
		MaxIrradiances: map[string]float64{room.ZoneSkin: 5, room.ZoneEye: 5},
	}
	r := newRoom(5, 5, map[string]*room.Lamp{"1": bare})

	got, err := e.WeightedHours(r)
	require.NoError(t, err)
	limSkin, limEye, err := e.Tables().Weightings.EightHourLimit(MonoWavelength, rp27)
	require.NoError(t, err)
	assert.InDelta(t, limSkin*8/5, got.Skin, 1e-9)
	assert.InDelta(t, limEye*8/5, got.Eye, 1e-9)
	assert.Greater(t, got.Min(), 8.0)
}

func TestWeightedHours_PureLineMatchesMonochromatic(t *testing.T) {
	e := newEngine(t)
	line, err := room.NewSpectrum([]float64{221, 222, 223}, []float64{0, 1, 0})
	require.NoError(t, err)
	lamp := &room.Lamp{
		Name:           "line",
		Filename:       "line.ies",
		MaxIrradiances: map[string]float64{room.ZoneSkin: 2, room.ZoneEye: 1},
		Spectra:        map[standards.Standard]room.Spectrum{standards.Unweighted: line},
	}
	r := newRoom(2*DoseFactor, 1*DoseFactor, map[string]*room.Lamp{"1": lamp})

	got, err := e.WeightedHours(r)
	require.NoError(t, err)
	mono, err := e.UnweightedHours(r)
	require.NoError(t, err)
	assert.InDelta(t, mono.Skin, got.Skin, mono.Skin*1e-9)
	assert.InDelta(t, mono.Eye, got.Eye, mono.Eye*1e-9)
	assert.Empty(t, got.Warnings)
}

func TestWeightedHours_DegenerateSpectrumFallsBack(t *testing.T) {
	e := newEngine(t)
	dark, err := room.NewSpectrum([]float64{300, 310}, []float64{1, 1})
	require.NoError(t, err)
	lamp := &room.Lamp{
		Name:           "uvb",
		Filename:       "uvb.ies",
		MaxIrradiances: map[string]float64{room.ZoneSkin: 2, room.ZoneEye: 1},
		Spectra:        map[standards.Standard]room.Spectrum{standards.Unweighted: dark},
	}
	r := newRoom(2*DoseFactor, 1*DoseFactor, map[string]*room.Lamp{"1": lamp})

	got, err := e.WeightedHours(r)
	require.NoError(t, err)
	assert.Len(t, got.Warnings, 2)
	limSkin, _, err := e.Tables().Weightings.EightHourLimit(MonoWavelength, rp27)
	require.NoError(t, err)
	assert.InDelta(t, limSkin*8/2, got.Skin, 1e-9)
}

func TestWeightedHours_RejectsInvalidLamp(t *testing.T) {
	e := newEngine(t)
	lamp := krcl(t, "A", "a.ies", 5, 3)
	delete(lamp.Spectra, standards.Unweighted)
	lamp.Spectra[standards.RP27Skin] = room.Spectrum{Wavelengths: []float64{222}, Values: []float64{1}}

	_, err := e.WeightedHours(newRoom(1, 1, map[string]*room.Lamp{"1": lamp}))
	assert.ErrorIs(t, err, room.ErrInvalidRoom)
}

package room

import (
	"math"
	"testing"

	"Illuminate/internal/calc/standards"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const payload = `{
  "standard": "ANSI IES RP 27.1-22 (America)",
  "units": "meters",
  "dimensions": {"x": 6, "y": 4, "z": 2.7},
  "air_changes": 1,
  "ozone_decay_constant": 2.7,
  "lamps": {
    "2": {"name": "B", "filename": "b.ies", "max_irradiances": {"SkinLimits": 1.5}},
    "1": {
      "name": "A",
      "filename": "a.ies",
      "max_irradiances": {"SkinLimits": 2.5, "EyeLimits": 1.1},
      "spectra": {"Unweighted": {"wavelengths": [220, 222, 224], "values": [0.2, 1, 0.3]}},
      "spectral_weightings": {"ANSI IES RP 27.1-22 (Skin)": {"wavelengths": [220, 222, 224], "values": [0.005, 0.006, 0.007]}}
    }
  },
  "calc_zones": {
    "SkinLimits": {"values": [1, 4, 2], "units": "mJ/cm2"},
    "EyeLimits": {"values": null, "units": "mJ/cm2"},
    "WholeRoomFluence": {"values": [0, 0, 0], "units": "uW/cm2"}
  }
}`

func TestDecode(t *testing.T) {
	r, err := Decode([]byte(payload))
	require.NoError(t, err)

	assert.InDelta(t, 64.8, r.Volume(), 1e-9)
	assert.Equal(t, []string{"1", "2"}, r.LampIDs())
	assert.True(t, r.Lamps["1"].HasSpectra())
	assert.False(t, r.Lamps["2"].HasSpectra())
	assert.Equal(t, 2.5, r.Lamps["1"].MaxIrradiance(ZoneSkin))
	assert.Equal(t, 0.0, r.Lamps["2"].MaxIrradiance(ZoneEye))

	skin := r.Zone(ZoneSkin)
	peak, err := skin.Max()
	require.NoError(t, err)
	assert.Equal(t, 4.0, peak)
	mean, err := skin.Mean()
	require.NoError(t, err)
	assert.InDelta(t, 7.0/3, mean, 1e-12)

	// null is "not computed"; an all-zero field is a real result
	assert.False(t, r.Zone(ZoneEye).Available())
	_, err = r.Zone(ZoneEye).Max()
	assert.ErrorIs(t, err, ErrMissingZoneData)
	assert.Contains(t, err.Error(), ZoneEye)
	assert.True(t, r.Zone(ZoneFluence).Available())

	assert.False(t, r.Zone("Nope").Available())
}

func TestDecode_Rejects(t *testing.T) {
	cases := []struct{ name, body string }{
		{"bad json", `{"units": `},
		{"units", `{"units": "yards"}`},
		{"negative ach", `{"units": "feet", "air_changes": -1}`},
		{"no unweighted", `{"units": "feet", "lamps": {"1": {"spectra": {
			"ANSI IES RP 27.1-22 (Skin)": {"wavelengths": [222], "values": [1]}}}}}`},
		{"unknown key", `{"units": "feet", "lamps": {"1": {"spectra": {
			"Unweighted": {"wavelengths": [222], "values": [1]},
			"Weighted": {"wavelengths": [222], "values": [1]}}}}}`},
		{"descending", `{"units": "feet", "lamps": {"1": {"spectra": {
			"Unweighted": {"wavelengths": [224, 222], "values": [1, 1]}}}}}`},
		{"length mismatch", `{"units": "feet", "lamps": {"1": {"spectra": {
			"Unweighted": {"wavelengths": [222, 224], "values": [1]}}}}}`},
		{"weighting grid", `{"units": "feet", "lamps": {"1": {
			"spectra": {"Unweighted": {"wavelengths": [222, 224], "values": [1, 1]}},
			"spectral_weightings": {"IEC 62471-6:2022 (Eye/Skin)": {"wavelengths": [222], "values": [1]}}}}}`},
		{"shifted weighting grid", `{"units": "feet", "lamps": {"1": {
			"spectra": {"Unweighted": {"wavelengths": [222, 224], "values": [1, 1]}},
			"spectral_weightings": {"IEC 62471-6:2022 (Eye/Skin)": {"wavelengths": [223, 225], "values": [1, 1]}}}}}`},
		{"negative irradiance", `{"units": "feet", "lamps": {"1": {"max_irradiances": {"SkinLimits": -1}}}}`},
	}
	for _, tc := range cases {
		_, err := Decode([]byte(tc.body))
		assert.ErrorIs(t, err, ErrInvalidRoom, tc.name)
	}
}

func TestLampValidate_Irradiances(t *testing.T) {
	for _, v := range []float64{-0.5, math.NaN(), math.Inf(1)} {
		lamp := &Lamp{MaxIrradiances: map[string]float64{ZoneEye: v}}
		assert.ErrorIs(t, lamp.Validate(), ErrInvalidRoom, "%v", v)
	}
	lamp := &Lamp{MaxIrradiances: map[string]float64{ZoneSkin: 0, ZoneEye: 3}}
	assert.NoError(t, lamp.Validate())
}

func TestNewSpectrum(t *testing.T) {
	s, err := NewSpectrum([]float64{200, 201}, []float64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())

	_, err = NewSpectrum([]float64{200, 200}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrInvalidRoom)
}

func TestZoneDoesNotMutateRoom(t *testing.T) {
	r := &Room{CalcZones: map[string]*CalcZone{ZoneSkin: {Values: []float64{1}}}}
	_, err := r.Zone(ZoneSkin).Max()
	require.NoError(t, err)
	assert.Empty(t, r.CalcZones[ZoneSkin].name)

	lamp := &Lamp{Spectra: map[standards.Standard]Spectrum{}}
	assert.NoError(t, lamp.Validate())
}

package sugar

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/wort/internal/apperr"
	"github.com/starford/wort/internal/units"
)

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

func TestGravityConversions(t *testing.T) {
	tests := []struct {
		name   string
		got    float64
		places int
		want   float64
	}{
		{"brix to plato", BrixToPlato(22.0), 3, 22.001},
		{"brix to sg", BrixToSG(22.0), 3, 1.092},
		{"gu to sg", GUToSG(57.0), 3, 1.057},
		{"plato to brix", PlatoToBrix(14.0), 3, 14.002},
		{"plato to sg", PlatoToSG(14.0), 3, 1.057},
		{"sg to plato", SGToPlato(1.057), 2, 14.04},
		{"sg to gu", SGToGU(1.057), 2, 57.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, round(tt.got, tt.places))
		})
	}
}

func TestPlatoRoundTripIsApproximate(t *testing.T) {
	for _, plato := range []float64{5, 10, 14, 20, 25} {
		back := SGToPlato(PlatoToSG(plato))
		assert.InDelta(t, plato, back, 0.05, "plato %v", plato)
	}
}

func TestSGToBrix(t *testing.T) {
	brix, err := SGToBrix(1.092)
	require.NoError(t, err)
	assert.Equal(t, 22.0, round(brix, 1))

	_, err = SGToBrix(MaxBrixSG)
	require.NoError(t, err, "ceiling is inclusive")

	_, err = SGToBrix(1.18)
	require.ErrorIs(t, err, apperr.ErrSugar)
	assert.Equal(t, "Above 40 degBx this function no longer works", err.Error())
}

func TestHydrometerAdjustment(t *testing.T) {
	t.Run("warm sample", func(t *testing.T) {
		sg, err := HydrometerAdjustment(1.050, 70.0, units.Imperial)
		require.NoError(t, err)
		assert.Equal(t, 1.051, round(sg, 3))
	})

	t.Run("calibration temperature", func(t *testing.T) {
		sg, err := HydrometerAdjustment(1.050, 59.0, units.Imperial)
		require.NoError(t, err)
		assert.Equal(t, 1.050, sg)
	})

	t.Run("metric", func(t *testing.T) {
		sg, err := HydrometerAdjustment(1.050, 16.0, units.SI)
		require.NoError(t, err)
		assert.Equal(t, 1.050, round(sg, 3))
	})

	t.Run("bad units", func(t *testing.T) {
		_, err := HydrometerAdjustment(1.050, 16.0, "bad")
		require.ErrorIs(t, err, apperr.ErrUnits)
		assert.Equal(t, "Unknown units 'bad', must use imperial or metric", err.Error())
	})

	t.Run("out of range", func(t *testing.T) {
		cases := []struct {
			temp float64
			unit string
			msg  string
		}{
			{-1.0, units.Imperial, "Correction does not work outside temps 0 - 212F"},
			{213.0, units.Imperial, "Correction does not work outside temps 0 - 212F"},
			{-1.0, units.SI, "Correction does not work outside temps 0 - 100C"},
			{101.0, units.SI, "Correction does not work outside temps 0 - 100C"},
		}
		for _, c := range cases {
			_, err := HydrometerAdjustment(1.050, c.temp, c.unit)
			require.ErrorIs(t, err, apperr.ErrSugar)
			assert.Equal(t, c.msg, err.Error())
		}
	})
}

func TestRefractometerAdjustment(t *testing.T) {
	fg, err := RefractometerAdjustment(1.053, 1.032)
	require.NoError(t, err)
	assert.Equal(t, 1.017, round(fg, 3))

	_, err = RefractometerAdjustment(1.2, 1.032)
	assert.ErrorIs(t, err, apperr.ErrSugar)
}

func TestApparentExtractToRealExtract(t *testing.T) {
	oe := SGToPlato(1.060)
	ae := SGToPlato(1.010)
	assert.Equal(t, 4.88, round(ApparentExtractToRealExtract(oe, ae), 2))
}

func TestAlcohol(t *testing.T) {
	assert.InDelta(t, 5.775, AlcoholByVolumeStandard(1.057, 1.013), 1e-9)
	assert.Equal(t, 5.95, round(AlcoholByVolumeAlternative(1.057, 1.013), 2))
	assert.InDelta(t, 4.5817, AlcoholByWeight(5.775), 1e-4)
}

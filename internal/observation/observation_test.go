package observation

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-skyglow/internal/astro"
)

func dirZenith() astro.Direction {
	return astro.Direction{AzDeg: 0, AltDeg: 90}
}

func testContext() Context {
	return Context{
		Site: Site{
			Name:      "Test site",
			Latitude:  50.0,
			Longitude: 0.0,
			Altitude:  100,
		},
		Weather: Weather{Temperature: 15, RelHumidity: 50},
		Scales:  DefaultScales(),
	}
}

func TestComputeGeometry(t *testing.T) {
	c := testContext()

	// Solstice noon on the Greenwich meridian: the sun stands due south
	// near its yearly maximum altitude for 50°N (90 - 50 + 23.4 ≈ 63°).
	noon := time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC)
	g := c.Compute(noon)

	assert.InDelta(t, 180, g.Sun.AzDeg, 15, "solstice noon sun azimuth")
	assert.Greater(t, g.Sun.AltDeg, 55.0)
	assert.Less(t, g.Sun.AltDeg, 70.0)
	assert.InDelta(t, 90-g.Sun.AltDeg, g.SunZenithDeg(), 1e-9)

	// Solstice midnight: sun well below the horizon.
	midnight := time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)
	gm := c.Compute(midnight)
	assert.Less(t, gm.Sun.AltDeg, -10.0)

	// Phase angle stays in the model's convention and matches the
	// illuminated fraction.
	for _, tt := range []time.Time{noon, midnight,
		time.Date(2024, 1, 11, 6, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 25, 22, 0, 0, 0, time.UTC)} {
		gg := c.Compute(tt)
		assert.GreaterOrEqual(t, gg.MoonPhaseDeg, 0.0)
		assert.LessOrEqual(t, gg.MoonPhaseDeg, 180.0)
		assert.GreaterOrEqual(t, gg.MoonIllum, 0.0)
		assert.LessOrEqual(t, gg.MoonIllum, 1.0)

		wantFrac := (1 + math.Cos(gg.MoonPhaseDeg*math.Pi/180)) / 2
		assert.InDelta(t, wantFrac, gg.MoonIllum, 1e-6)
	}
}

func TestConditionsClampHumidity(t *testing.T) {
	c := testContext()
	c.Weather.RelHumidity = 0

	g := c.Compute(time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC))
	cond := c.Conditions(g)

	require.NoError(t, cond.Validate(), "clamped conditions must be in domain")
	assert.GreaterOrEqual(t, cond.RelHumidity, minRelHumidity)

	c.Weather.RelHumidity = 250
	cond = c.Conditions(g)
	require.NoError(t, cond.Validate())
	assert.LessOrEqual(t, cond.RelHumidity, 100.0)
}

func TestNewSessionDayNight(t *testing.T) {
	c := testContext()

	noonSession, noonGeom := c.NewSession(time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC))
	nightSession, nightGeom := c.NewSession(time.Date(2024, 12, 21, 0, 0, 0, 0, time.UTC))

	zenith := dirZenith()
	day := Luminance(noonSession, noonGeom, zenith)
	night := Luminance(nightSession, nightGeom, zenith)

	require.Greater(t, day, 0.0)
	require.Greater(t, night, 0.0)
	assert.Greater(t, day, night*100, "zenith sky should be far brighter at noon")

	// Daytime zenith luminance lands in the low-thousands cd/m² range.
	assert.Greater(t, day, 100.0)
	assert.Less(t, day, 1e5)
}

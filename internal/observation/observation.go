// Package observation turns an observer site, local weather, and a clock
// time into the Sun/Moon geometry the brightness model needs, and builds
// prepared skybright sessions from it.
package observation

import (
	"math"
	"time"

	"github.com/sixdouglas/suncalc"

	"github.com/litescript/ls-skyglow/internal/astro"
	"github.com/litescript/ls-skyglow/internal/skybright"
)

// minRelHumidity is the floor applied before preparing a session; a zero
// humidity would put the aerosol logarithm out of domain.
const minRelHumidity = 0.1

// Site is a ground observing site.
type Site struct {
	Name      string
	Latitude  float64 // degrees, north positive
	Longitude float64 // degrees, east positive
	Altitude  float64 // meters above sea level
}

// Weather is the slow-varying local atmosphere state.
type Weather struct {
	Temperature float64 // °C
	RelHumidity float64 // percent
}

// Scales carries the calibration multipliers for the brightness terms.
type Scales struct {
	Twilight  float64
	Moon      float64
	DarkNight float64
}

// DefaultScales returns the uncalibrated model scales.
func DefaultScales() Scales {
	return Scales{Twilight: 1, Moon: 1, DarkNight: 1}
}

// Context bundles everything that changes slower than a frame: where we
// observe from, the weather, and the model calibration.
type Context struct {
	Site    Site
	Weather Weather
	Scales  Scales
}

// Geometry is the Sun/Moon sky state at one instant.
type Geometry struct {
	Time time.Time

	Sun  astro.Direction
	Moon astro.Direction

	// MoonPhaseDeg is the Sun-Moon-Earth phase angle in degrees using the
	// brightness model's convention: 0 = full moon, 180 = new moon.
	MoonPhaseDeg float64

	// MoonIllum is the illuminated fraction of the lunar disk, 0..1.
	MoonIllum float64
}

// SunZenithDeg returns the Sun's zenith distance in degrees.
func (g Geometry) SunZenithDeg() float64 { return g.Sun.ZenithDeg() }

// MoonZenithDeg returns the Moon's zenith distance in degrees.
func (g Geometry) MoonZenithDeg() float64 { return g.Moon.ZenithDeg() }

// Compute derives the Sun/Moon geometry over the context's site at time t.
func (c Context) Compute(t time.Time) Geometry {
	sun := suncalc.GetPosition(t, c.Site.Latitude, c.Site.Longitude)
	moon := suncalc.GetMoonPosition(t, c.Site.Latitude, c.Site.Longitude)
	illum := suncalc.GetMoonIllumination(t)

	// suncalc measures azimuth from south, westward positive; shift to the
	// compass convention used everywhere else in this module.
	frac := math.Min(math.Max(illum.Fraction, 0), 1)
	return Geometry{
		Time: t,
		Sun: astro.Direction{
			AzDeg:  astro.NormalizeAz(astro.RadToDeg(sun.Azimuth) + 180),
			AltDeg: astro.RadToDeg(sun.Altitude),
		},
		Moon: astro.Direction{
			AzDeg:  astro.NormalizeAz(astro.RadToDeg(moon.Azimuth) + 180),
			AltDeg: astro.RadToDeg(moon.Altitude),
		},
		MoonPhaseDeg: astro.RadToDeg(math.Acos(2*frac - 1)),
		MoonIllum:    frac,
	}
}

// NewSession computes the geometry for time t and prepares a fresh
// brightness session for it. The returned session is never mutated again,
// so it is safe to hand to concurrent readers.
func (c Context) NewSession(t time.Time) (*skybright.Session, Geometry) {
	g := c.Compute(t)
	s := &skybright.Session{}
	s.Prepare(c.Conditions(g))
	return s, g
}

// Conditions translates the context and a geometry into the model's input
// struct, clamping humidity into the model's domain.
func (c Context) Conditions(g Geometry) skybright.Conditions {
	rh := math.Min(math.Max(c.Weather.RelHumidity, minRelHumidity), 100)

	return skybright.Conditions{
		Year:          g.Time.UTC().Year(),
		Month:         int(g.Time.UTC().Month()),
		MoonPhase:     astro.DegToRad(g.MoonPhaseDeg),
		Latitude:      astro.DegToRad(c.Site.Latitude),
		Altitude:      c.Site.Altitude,
		Temperature:   c.Weather.Temperature,
		RelHumidity:   rh,
		MoonZenith:    astro.DegToRad(g.MoonZenithDeg()),
		SunZenith:     astro.DegToRad(g.SunZenithDeg()),
		TwilightScale: c.Scales.Twilight,
		MoonScale:     c.Scales.Moon,
		DarkScale:     c.Scales.DarkNight,
	}
}

// Luminance evaluates a prepared session at an az/alt direction, deriving
// the per-direction query inputs from the geometry.
func Luminance(s *skybright.Session, g Geometry, dir astro.Direction) float64 {
	return Components(s, g, dir).Total
}

// Components is Luminance with the per-term breakdown.
func Components(s *skybright.Session, g Geometry, dir astro.Direction) skybright.Components {
	moonSep := astro.DegToRad(astro.Separation(dir, g.Moon))
	sunSep := astro.DegToRad(astro.Separation(dir, g.Sun))
	zenith := astro.DegToRad(dir.ZenithDeg())
	return s.Components(moonSep, sunSep, zenith)
}

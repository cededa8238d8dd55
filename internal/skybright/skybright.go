// Package skybright computes apparent sky background brightness in cd/m²
// using the Schaefer empirical model: a dark-night airglow baseline plus
// scattered moonlight, twilight, and daylight, all attenuated by a composite
// atmospheric extinction coefficient.
//
// The model splits into a slow phase and a fast phase. Prepare derives the
// extinction coefficient and the Sun/Moon airmasses from site, date, weather,
// and Sun/Moon geometry; it runs once per update tick. Luminance then
// evaluates the total brightness for one sky direction using only the
// prepared scalars, and may run many times per frame.
package skybright

import "math"

const (
	degPerRad = 180.0 / math.Pi
	radPerDeg = math.Pi / 180.0

	// nanolambertToCdM2 converts nanolamberts to cd/m².
	nanolambertToCdM2 = 3.183e-6

	// wavelength is the V-band reference wavelength in micrometers; the
	// extinction fits below are normalized to 0.55 µm.
	wavelength = 0.55

	// magMoon and magSun are the reference apparent magnitudes of the full
	// Moon and the Sun used by the scattering terms.
	magMoon = -11.05
	magSun  = -26.74

	// darkZenithBase is the dark night sky brightness at zenith in the
	// model's internal linear unit, before the solar-cycle modulation.
	darkZenithBase = 1.0e-13

	// BelowHorizonAirmass caps the airmass approximation once a body sinks
	// below the geometric horizon, where the secant formula diverges. The
	// huge-but-finite value saturates extinction toward zero transmission
	// instead of producing infinities downstream.
	BelowHorizonAirmass = 40.0
)

// Conditions carries the slow-varying inputs of an observation session.
// Angles cross this boundary in radians and are converted to degrees
// internally, where the empirical fits live.
type Conditions struct {
	Year  int
	Month int // 1 = January

	MoonPhase float64 // radians; 0 = full moon, π = new moon
	Latitude  float64 // radians, north positive
	Altitude  float64 // meters above sea level

	Temperature float64 // air temperature, °C
	RelHumidity float64 // relative humidity, percent; must be in (0, 100]

	MoonZenith float64 // zenith distance of the Moon, radians
	SunZenith  float64 // zenith distance of the Sun, radians

	// Calibration multipliers for the twilight, moonlight, and dark-night
	// terms. Use 1 for the uncalibrated model.
	TwilightScale float64
	MoonScale     float64
	DarkScale     float64
}

// ErrHumidityRange is returned by Validate for a relative humidity outside
// (0, 100]. A value of exactly zero would put a logarithm in the aerosol
// term out of domain; Prepare itself does not check and would propagate NaN.
var ErrHumidityRange = errRange("relative humidity must be in (0, 100]")

type errRange string

func (e errRange) Error() string { return string(e) }

// Validate reports whether the conditions are inside the model's domain.
// Prepare never validates on its own; callers on a hot path may skip this.
func (c Conditions) Validate() error {
	if !(c.RelHumidity > 0 && c.RelHumidity <= 100) {
		return ErrHumidityRange
	}
	return nil
}

// Session holds one observation session: the raw inputs converted to the
// internal degree convention plus the scalars precomputed by Prepare. The
// zero value is unprepared and must not be queried. A Session is immutable
// between Prepare calls, so distinct sessions may be queried from separate
// goroutines without synchronization; re-preparing a session that is being
// queried concurrently is the caller's race to prevent.
type Session struct {
	year  float64
	month float64

	moonPhase float64 // degrees; 0 = full, 180 = new
	latitude  float64 // degrees
	altitude  float64 // meters

	temperature float64 // °C
	relHumidity float64 // percent

	moonZenith float64 // degrees
	sunZenith  float64 // degrees

	twilightScale float64
	moonScale     float64
	darkScale     float64

	// Derived by Prepare.
	extinction  float64 // composite coefficient K
	moonAirmass float64
	sunAirmass  float64
}

// Prepare derives the composite extinction coefficient and the Sun and Moon
// airmasses from the given conditions and stores everything in the session,
// replacing any previous state. It always succeeds for finite in-domain
// inputs; a non-positive relative humidity or an extreme altitude produces
// NaN/underflow rather than an error (see Conditions.Validate).
func (s *Session) Prepare(c Conditions) {
	s.year = float64(c.Year)
	s.month = float64(c.Month)
	s.moonPhase = c.MoonPhase * degPerRad
	s.latitude = c.Latitude * degPerRad
	s.altitude = c.Altitude
	s.temperature = c.Temperature
	s.relHumidity = c.RelHumidity
	s.moonZenith = c.MoonZenith * degPerRad
	s.sunZenith = c.SunZenith * degPerRad
	s.twilightScale = c.TwilightScale
	s.moonScale = c.MoonScale
	s.darkScale = c.DarkScale

	lat := s.latitude * radPerDeg

	// Seasonal phase of the aerosol loading, peaking in northern-hemisphere
	// summer; the hemisphere sign flips it for southern sites.
	season := (s.month - 3) * 30 * radPerDeg
	hemisphere := -1.0
	if s.latitude > 0 {
		hemisphere = 1.0
	}

	// Rayleigh scattering by the molecular atmosphere.
	rayleigh := 0.1066 * math.Exp(-s.altitude/8200) * math.Pow(wavelength/0.55, -4)

	// Aerosol scattering, grown by humidity and modulated by season.
	aerosol := 0.1 * math.Pow(wavelength/0.55, -1.3) * math.Exp(-s.altitude/1500)
	aerosol *= math.Pow(1-0.32/math.Log(s.relHumidity/100), 1.33)
	aerosol *= 1 + 0.33*hemisphere*math.Sin(season)

	// Ozone absorption, varying with latitude and season.
	ozone := 0.031 * (3 + 0.4*(lat*math.Cos(season)-math.Cos(3*lat))) / 3

	// Water-vapor absorption from humidity and temperature.
	water := 0.031 * 0.94 * (s.relHumidity / 100) *
		math.Exp(s.temperature/15) * math.Exp(-s.altitude/8200)

	s.extinction = rayleigh + aerosol + ozone + water

	s.moonAirmass = Airmass(s.moonZenith)
	s.sunAirmass = Airmass(s.sunZenith)
}

// Airmass returns the optical path length through the atmosphere for a
// zenith distance in degrees, normalized so that zenith = 1. It uses the
// secant approximation with a curvature correction, clamped to
// BelowHorizonAirmass for zenith distances of 90° and beyond.
func Airmass(zenithDeg float64) float64 {
	if zenithDeg >= 90 {
		return BelowHorizonAirmass
	}
	cz := math.Cos(zenithDeg * radPerDeg)
	return 1 / (cz + 0.025*math.Exp(-11*cz))
}

// Extinction returns the composite extinction coefficient K computed by the
// last Prepare call.
func (s *Session) Extinction() float64 { return s.extinction }

// MoonAirmass returns the Moon's airmass computed by the last Prepare call.
func (s *Session) MoonAirmass() float64 { return s.moonAirmass }

// SunAirmass returns the Sun's airmass computed by the last Prepare call.
func (s *Session) SunAirmass() float64 { return s.sunAirmass }

// Components is the per-term breakdown of one luminance query, all in cd/m².
// Moon is the contribution actually added after the horizon blend; Twilight
// and Daylight are the raw terms, of which only the smaller one enters Total.
type Components struct {
	Dark     float64
	Moon     float64
	Twilight float64
	Daylight float64
	Total    float64
}

// Luminance returns the total sky background brightness in cd/m² for a sky
// direction given by its zenith distance and its angular separations from
// the Moon and the Sun, all in radians. It is a pure read-only function of
// the prepared session and always returns a finite non-negative value for
// finite in-range inputs.
func (s *Session) Luminance(moonDist, sunDist, zenithDist float64) float64 {
	return s.Components(moonDist, sunDist, zenithDist).Total
}

// Components evaluates one query like Luminance but returns the per-term
// breakdown as well as the total.
func (s *Session) Components(moonDist, sunDist, zenithDist float64) Components {
	// Separations under 1° would blow up the inverse-square scattering
	// term when evaluating inside a body's disk; clamp instead.
	rm := math.Max(moonDist*degPerRad, 1)
	rs := math.Max(sunDist*degPerRad, 1)
	z := zenithDist * degPerRad
	zz := z * radPerDeg

	k := s.extinction
	xm := s.moonAirmass
	xs := s.sunAirmass

	// Airmass along the queried direction, on the hot path with the fast
	// exponential surrogate.
	cz := math.Cos(zz)
	x := 1 / (cz + 0.025*FastExp(-11*cz))

	// Dark night airglow, modulated by an 11-year solar-cycle cosine keyed
	// on the calendar year, brightening toward the horizon.
	dark := darkZenithBase * (1 + 0.3*math.Cos(2*math.Pi*(s.year-1992)/11))
	dark *= 0.4 + 0.6/math.Sqrt(1-0.96*sqr(math.Sin(zz)))
	dark *= FastExp10(-0.4 * k * x)
	dark *= s.darkScale

	// Scattered moonlight. The lunar magnitude comes from a polynomial fit
	// in the phase angle; the scattering function blends an inverse-square
	// core with exponential wings.
	moonMag := -12.73 + 0.026*math.Abs(s.moonPhase) + 4e-9*sqr(sqr(s.moonPhase))
	moonTrans := FastExp10(-0.4 * k * xm)
	moonScatter := 6.2e7/sqr(rm) + exp10(6.15-rm/40)
	moonScatter += exp10(5.36) * (1.06 + sqr(math.Cos(rm*radPerDeg)))
	moon := exp10(-0.4 * (moonMag - magMoon + 43.27))
	moon *= 1 - exp10(-0.4*k*x)
	moon *= moonScatter*moonTrans + 440000*(1-moonTrans)
	moon *= s.moonScale

	// Twilight glow, driven by how far the Sun sits below the horizon and
	// falling off with the angular distance to the Sun.
	sunHeight := 90 - s.sunZenith
	twilight := exp10(-0.4 * (magSun - magMoon + 32.5 - sunHeight - z/(360*k)))
	twilight *= (100 / rs) * (1 - exp10(-0.4*k*x))
	twilight *= s.twilightScale

	// Scattered daylight, same form as the moonlight term with the solar
	// magnitude and the Sun's airmass.
	sunTrans := FastExp10(-0.4 * k * xs)
	sunScatter := 6.2e7/sqr(rs) + FastExp10(6.15-rs/40)
	sunScatter += FastExp10(5.36) * (1.06 + sqr(math.Cos(rs*radPerDeg)))
	day := exp10(-0.4 * (magSun - magMoon + 43.27))
	day *= 1 - exp10(-0.4*k*x)
	day *= sunScatter*sunTrans + 440000*(1-sunTrans)

	// The twilight fit runs away once the Sun is high and the daylight fit
	// runs away once it is deep below the horizon, so the smaller of the
	// two is the trustworthy one. This is an acknowledged patch inherited
	// from the source model, not a physical derivation.
	total := dark
	if day > twilight {
		total += twilight
	} else {
		total += day
	}

	// Fade the Moon's contribution out linearly between 80° and 90° zenith
	// distance so it does not snap off as the Moon crosses the horizon.
	// Another acknowledged hack; it could shrink once extinction of the
	// moonlight path itself were modeled more fully.
	moonWeight := 0.0
	switch {
	case s.moonZenith <= 80:
		moonWeight = 1
	case s.moonZenith <= 90:
		moonWeight = (90 - s.moonZenith) / 10
	}
	moonApplied := moon * moonWeight
	total += moonApplied

	// Internal units to nanolamberts, then to cd/m².
	const toCd = nanolambertToCdM2 / 1.11e-15
	return Components{
		Dark:     dark * toCd,
		Moon:     moonApplied * toCd,
		Twilight: twilight * toCd,
		Daylight: day * toCd,
		Total:    total * toCd,
	}
}

func sqr(v float64) float64 { return v * v }

// exp10 is the exact base-10 exponential, used where Prepare-level accuracy
// is wanted inside the query path.
func exp10(x float64) float64 {
	return math.Exp(x * ln10)
}

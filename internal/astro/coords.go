// Package astro provides the sky geometry helpers shared by the brightness
// engine's callers: horizontal-coordinate directions, angular separations,
// and angle conversions.
package astro

import "math"

// Direction is a direction on the sky in horizontal coordinates.
type Direction struct {
	AzDeg  float64 // Azimuth in degrees (0=N, 90=E, 180=S, 270=W)
	AltDeg float64 // Altitude above the horizon in degrees (90=zenith)
}

// ZenithDeg returns the zenith distance of the direction in degrees.
func (d Direction) ZenithDeg() float64 {
	return 90 - d.AltDeg
}

// AboveHorizon reports whether the direction sits above the geometric horizon.
func (d Direction) AboveHorizon() bool {
	return d.AltDeg > 0
}

// AngularSeparation returns the great-circle angle in degrees between two
// directions given as azimuth/altitude pairs in degrees. The haversine form
// stays well-conditioned for small separations.
func AngularSeparation(az1, alt1, az2, alt2 float64) float64 {
	a1 := DegToRad(az1)
	h1 := DegToRad(alt1)
	a2 := DegToRad(az2)
	h2 := DegToRad(alt2)

	dAz := a2 - a1
	dAlt := h2 - h1

	h := math.Sin(dAlt/2)*math.Sin(dAlt/2) +
		math.Cos(h1)*math.Cos(h2)*math.Sin(dAz/2)*math.Sin(dAz/2)

	// Clamp to guard asin against rounding just past 1.
	if h > 1 {
		h = 1
	}

	return RadToDeg(2 * math.Asin(math.Sqrt(h)))
}

// Separation is AngularSeparation over Direction values.
func Separation(a, b Direction) float64 {
	return AngularSeparation(a.AzDeg, a.AltDeg, b.AzDeg, b.AltDeg)
}

// NormalizeAz normalizes an azimuth to [0, 360) degrees.
func NormalizeAz(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

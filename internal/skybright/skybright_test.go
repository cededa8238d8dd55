package skybright

import (
	"math"
	"testing"
)

// darkSkyConditions is a deep-twilight reference scene: new moon below the
// horizon, sun ~19° below the horizon, mid-latitude site at 100 m.
func darkSkyConditions() Conditions {
	return Conditions{
		Year:          2020,
		Month:         6,
		MoonPhase:     math.Pi, // new moon
		Latitude:      0.872,   // ≈50°N
		Altitude:      100,
		Temperature:   15,
		RelHumidity:   50,
		MoonZenith:    1.74, // ≈100°, below horizon
		SunZenith:     1.91, // ≈109.5°
		TwilightScale: 1,
		MoonScale:     1,
		DarkScale:     1,
	}
}

func TestConditionsValidate(t *testing.T) {
	tests := []struct {
		name     string
		humidity float64
		wantErr  bool
	}{
		{"typical humidity", 50, false},
		{"saturated air", 100, false},
		{"near-zero humidity", 0.1, false},
		{"zero humidity", 0, true},
		{"negative humidity", -5, true},
		{"over-range humidity", 120, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := darkSkyConditions()
			c.RelHumidity = tt.humidity
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() with RH=%.1f%% error = %v, wantErr %v",
					tt.humidity, err, tt.wantErr)
			}
		})
	}
}

func TestAirmass(t *testing.T) {
	tests := []struct {
		name      string
		zenithDeg float64
		want      float64
		tol       float64
	}{
		{"zenith", 0, 1.0, 0.001},
		{"30 degrees", 30, 1.15, 0.01},
		{"60 degrees", 60, 1.99, 0.02},
		{"horizon", 90, 40, 0},
		{"below horizon", 95, 40, 0},
		{"far below horizon", 150, 40, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Airmass(tt.zenithDeg)
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("Airmass(%.1f°) = %.4f, want %.4f ± %.3f",
					tt.zenithDeg, got, tt.want, tt.tol)
			}
		})
	}
}

func TestAirmassMonotonic(t *testing.T) {
	prev := Airmass(0)
	for z := 0.5; z <= 90; z += 0.5 {
		got := Airmass(z)
		if got < prev {
			t.Fatalf("Airmass(%.1f°) = %.4f decreased from %.4f", z, got, prev)
		}
		prev = got
	}

	// The formula itself reaches exactly 40 at the horizon, so the clamped
	// region continues the curve without a jump.
	if got := Airmass(90); got != 40 {
		t.Errorf("Airmass(90°) = %.4f, want exactly 40", got)
	}
}

func TestPrepareDeterminism(t *testing.T) {
	c := darkSkyConditions()

	var a, b Session
	a.Prepare(c)
	b.Prepare(c)

	la := a.Luminance(1.57, 1.57, 0)
	lb := b.Luminance(1.57, 1.57, 0)
	if la != lb {
		t.Errorf("identical sessions disagree: %g vs %g", la, lb)
	}

	// Re-preparing the same session must fully replace the derived state.
	a.Prepare(Conditions{Year: 1999, Month: 1, MoonPhase: 0, Latitude: -0.5,
		Altitude: 2000, Temperature: -10, RelHumidity: 20,
		MoonZenith: 0.2, SunZenith: 2.5,
		TwilightScale: 1, MoonScale: 1, DarkScale: 1})
	a.Prepare(c)
	if got := a.Luminance(1.57, 1.57, 0); got != la {
		t.Errorf("re-prepared session luminance = %g, want %g", got, la)
	}
}

func TestExtinctionDecreasesWithAltitude(t *testing.T) {
	altitudes := []float64{0, 100, 500, 1000, 2000, 4000}

	var prev float64 = math.Inf(1)
	for _, alt := range altitudes {
		c := darkSkyConditions()
		c.Altitude = alt

		var s Session
		s.Prepare(c)
		k := s.Extinction()
		if k <= 0 {
			t.Fatalf("extinction at %gm = %.4f, want positive", alt, k)
		}
		if k >= prev {
			t.Errorf("extinction at %gm = %.4f, did not decrease from %.4f",
				alt, k, prev)
		}
		prev = k
	}
}

func TestExtinctionHumidityAndSeason(t *testing.T) {
	// More humid air grows aerosols; extinction must not drop.
	dry := darkSkyConditions()
	dry.RelHumidity = 20
	humid := darkSkyConditions()
	humid.RelHumidity = 90

	var sDry, sHumid Session
	sDry.Prepare(dry)
	sHumid.Prepare(humid)

	if sHumid.Extinction() <= sDry.Extinction() {
		t.Errorf("extinction at RH=90%% (%.4f) not above RH=20%% (%.4f)",
			sHumid.Extinction(), sDry.Extinction())
	}

	// The seasonal aerosol term flips with hemisphere: a June sky over a
	// southern site carries less aerosol than the same sky in the north.
	south := darkSkyConditions()
	south.Latitude = -south.Latitude
	var sSouth, sNorth Session
	sNorth.Prepare(darkSkyConditions())
	sSouth.Prepare(south)
	if sSouth.Extinction() >= sNorth.Extinction() {
		t.Errorf("June extinction south (%.4f) not below north (%.4f)",
			sSouth.Extinction(), sNorth.Extinction())
	}
}

func TestMoonHorizonBlend(t *testing.T) {
	// Full moon, sun deep below the horizon: the moon term dominates, so
	// the blend across the 80°-90° band is where discontinuities would show.
	base := darkSkyConditions()
	base.MoonPhase = 0
	base.SunZenith = 2.4

	moonContribution := func(moonZenithDeg float64) float64 {
		c := base
		c.MoonZenith = moonZenithDeg * math.Pi / 180

		var with, without Session
		with.Prepare(c)
		c.MoonScale = 0
		without.Prepare(c)

		// Query 40° from the moon, 90° from the sun, at 45° zenith distance.
		const q = math.Pi / 4
		return with.Luminance(40*math.Pi/180, math.Pi/2, q) -
			without.Luminance(40*math.Pi/180, math.Pi/2, q)
	}

	full := moonContribution(75)
	if full <= 0 {
		t.Fatalf("full moon at 75° zenith distance contributes %g, want > 0", full)
	}

	// The blend strictly interpolates between fully included and excluded.
	steps := []float64{79.9, 80.0, 85.0, 90.0, 90.1}
	prev := moonContribution(steps[0])
	for _, zm := range steps[1:] {
		got := moonContribution(zm)
		if got > prev+full*1e-6 {
			t.Errorf("moon contribution rose from %g to %g across Zm=%.1f°",
				prev, got, zm)
		}
		prev = got
	}

	// Continuity at the band edges: 79.9° vs 80.0° and 90.0° vs 90.1° must
	// differ by no more than the slope of the blend would account for.
	if d := math.Abs(moonContribution(79.9) - moonContribution(80.0)); d > full*0.05 {
		t.Errorf("jump of %g at the 80° boundary (full term %g)", d, full)
	}
	if d := math.Abs(moonContribution(90.0) - moonContribution(90.1)); d > full*0.05 {
		t.Errorf("jump of %g at the 90° boundary (full term %g)", d, full)
	}
	if got := moonContribution(100); got != 0 {
		t.Errorf("moon below 90° zenith distance contributes %g, want 0", got)
	}

	halfway := moonContribution(85)
	edge := moonContribution(80)
	if halfway <= 0 || halfway >= edge {
		t.Errorf("blend at 85° = %g, want strictly between 0 and %g", halfway, edge)
	}
}

func TestTwilightDaylightSelection(t *testing.T) {
	tests := []struct {
		name         string
		sunZenithDeg float64
		wantTwilight bool // true when the twilight term should be selected
	}{
		{"sun just set", 92, true},
		{"civil twilight", 95, true},
		{"sun high", 10, false},
		{"sun at zenith", 0.5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := darkSkyConditions()
			c.SunZenith = tt.sunZenithDeg * math.Pi / 180
			c.MoonScale = 0 // isolate the sun terms

			var s Session
			s.Prepare(c)
			comp := s.Components(math.Pi/2, math.Pi/2, math.Pi/4)

			twilightSelected := comp.Twilight < comp.Daylight
			if twilightSelected != tt.wantTwilight {
				t.Errorf("Zs=%.0f°: twilight=%g daylight=%g, selected twilight=%v, want %v",
					tt.sunZenithDeg, comp.Twilight, comp.Daylight,
					twilightSelected, tt.wantTwilight)
			}

			want := comp.Dark + math.Min(comp.Twilight, comp.Daylight)
			if math.Abs(comp.Total-want) > want*1e-9 {
				t.Errorf("Total = %g, want dark + smaller sun term = %g", comp.Total, want)
			}
		})
	}
}

func TestDarkSkyScenario(t *testing.T) {
	var s Session
	s.Prepare(darkSkyConditions())

	got := s.Luminance(1.57, 1.57, 0)
	if got < 1e-4 || got > 1e-3 {
		t.Errorf("dark-sky zenith luminance = %g cd/m², want within [1e-4, 1e-3]", got)
	}

	// Sinking the sun further must darken the sky.
	deeper := darkSkyConditions()
	deeper.SunZenith = 2.3
	var sDeep Session
	sDeep.Prepare(deeper)
	if gotDeep := sDeep.Luminance(1.57, 1.57, 0); gotDeep >= got {
		t.Errorf("deeper night luminance = %g, want below %g", gotDeep, got)
	}
}

func TestDarkScaleLinearity(t *testing.T) {
	// Sun and moon both far below the horizon so their terms are ~0; the
	// returned luminance is then the dark term alone and must scale
	// linearly with its calibration multiplier.
	c := darkSkyConditions()
	c.SunZenith = 2.4 // ≈137°

	var one, two Session
	one.Prepare(c)
	c.DarkScale = 2
	two.Prepare(c)

	a := one.Luminance(1.57, 1.57, 0)
	b := two.Luminance(1.57, 1.57, 0)
	if ratio := b / a; math.Abs(ratio-2) > 1e-6 {
		t.Errorf("doubling DarkScale scaled luminance by %.9f, want 2", ratio)
	}
}

func TestLuminanceFiniteNonNegative(t *testing.T) {
	phases := []float64{0, math.Pi / 2, math.Pi}
	zeniths := []float64{0, 0.5, 1.2, 1.5, 1.9, 2.6}
	seps := []float64{0, 0.01, 0.3, 1.57, math.Pi}

	for _, phase := range phases {
		for _, mz := range zeniths {
			for _, sz := range zeniths {
				c := darkSkyConditions()
				c.MoonPhase = phase
				c.MoonZenith = mz
				c.SunZenith = sz

				var s Session
				s.Prepare(c)
				for _, sep := range seps {
					got := s.Luminance(sep, sep, 0.9)
					if math.IsNaN(got) || math.IsInf(got, 0) || got < 0 {
						t.Fatalf("Luminance(phase=%.2f mz=%.2f sz=%.2f sep=%.2f) = %g",
							phase, mz, sz, sep, got)
					}
				}
			}
		}
	}
}

func TestNewMoonContributesNothing(t *testing.T) {
	// At phase π the lunar magnitude fit collapses the moon term by ~17
	// magnitudes; even with the moon high it must be lost in the airglow.
	c := darkSkyConditions()
	c.SunZenith = 2.4

	newMoonUp := c
	newMoonUp.MoonZenith = 0.3
	noMoon := c
	noMoon.MoonScale = 0
	noMoon.MoonZenith = 0.3

	var up, off Session
	up.Prepare(newMoonUp)
	off.Prepare(noMoon)

	a := up.Luminance(math.Pi/2, math.Pi/2, 0)
	b := off.Luminance(math.Pi/2, math.Pi/2, 0)
	if rel := math.Abs(a-b) / b; rel > 0.05 {
		t.Errorf("new moon shifted luminance by %.4f relative, want < 0.05", rel)
	}
}

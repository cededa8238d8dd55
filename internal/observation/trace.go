package observation

import (
	"math"
	"time"

	"github.com/litescript/ls-skyglow/internal/astro"
)

// BrightnessSample is a single zenith luminance measurement at a point in time.
type BrightnessSample struct {
	Time      time.Time
	Luminance float64 // cd/m²
	SunAltDeg float64
}

// BrightnessTrace contains zenith brightness samples over a time window,
// each from a session prepared for that instant.
type BrightnessTrace struct {
	Site        string
	Samples     []BrightnessSample
	GeneratedAt time.Time
	WindowStart time.Time
	WindowEnd   time.Time
}

// TraceWindow is the time span of a brightness trace (±6 hours from now),
// enough to cover dusk through dawn at mid latitudes.
const TraceWindow = 6 * time.Hour

// TraceSampleInterval is the time between trace samples.
const TraceSampleInterval = 10 * time.Minute

// ComputeBrightnessTrace samples the zenith sky brightness over a window
// centered on 'now', re-preparing a session for every sample so the Sun and
// Moon move between points. The zenith target means each body's angular
// separation equals its zenith distance.
func ComputeBrightnessTrace(c Context, now time.Time) *BrightnessTrace {
	windowStart := now.Add(-TraceWindow)
	windowEnd := now.Add(TraceWindow)

	var samples []BrightnessSample
	for t := windowStart; !t.After(windowEnd); t = t.Add(TraceSampleInterval) {
		s, g := c.NewSession(t)
		zenith := astro.Direction{AzDeg: 0, AltDeg: 90}
		samples = append(samples, BrightnessSample{
			Time:      t,
			Luminance: Luminance(s, g, zenith),
			SunAltDeg: g.Sun.AltDeg,
		})
	}

	return &BrightnessTrace{
		Site:        c.Site.Name,
		Samples:     samples,
		GeneratedAt: now,
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
	}
}

// Range returns the minimum and maximum luminance over the trace.
func (t *BrightnessTrace) Range() (min, max float64) {
	if len(t.Samples) == 0 {
		return 0, 0
	}
	min = math.Inf(1)
	max = math.Inf(-1)
	for _, s := range t.Samples {
		if s.Luminance < min {
			min = s.Luminance
		}
		if s.Luminance > max {
			max = s.Luminance
		}
	}
	return min, max
}

// Darkest returns the sample with the lowest luminance, or nil for an
// empty trace.
func (t *BrightnessTrace) Darkest() *BrightnessSample {
	if len(t.Samples) == 0 {
		return nil
	}
	best := &t.Samples[0]
	for i := range t.Samples {
		if t.Samples[i].Luminance < best.Luminance {
			best = &t.Samples[i]
		}
	}
	return best
}

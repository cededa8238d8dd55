package observation

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/litescript/ls-skyglow/internal/astro"
)

// MagPerArcsec2 converts a luminance in cd/m² to the magnitudes-per-square-
// arcsecond scale astronomers quote sky quality in (~22 at a pristine site,
// ~18 under heavy moonlight).
func MagPerArcsec2(lum float64) float64 {
	if lum <= 0 {
		return math.Inf(1)
	}
	return -2.5 * math.Log10(lum/108000)
}

// WriteSummary writes a text report of the sky state at time t: geometry,
// session constants, and a per-direction brightness table with the term
// breakdown at zenith.
func WriteSummary(w io.Writer, c Context, t time.Time) {
	s, g := c.NewSession(t)

	fmt.Fprintf(w, "Sky brightness @ %s", t.UTC().Format(time.RFC3339))
	if c.Site.Name != "" {
		fmt.Fprintf(w, " — %s", c.Site.Name)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("─", 72))

	fmt.Fprintf(w, "Site      lat %+.3f° lon %+.3f° alt %.0fm   %0.1f°C RH %.0f%%\n",
		c.Site.Latitude, c.Site.Longitude, c.Site.Altitude,
		c.Weather.Temperature, c.Weather.RelHumidity)
	fmt.Fprintf(w, "Sun       az %6.1f° alt %+6.1f°\n", g.Sun.AzDeg, g.Sun.AltDeg)
	fmt.Fprintf(w, "Moon      az %6.1f° alt %+6.1f°  phase %5.1f° (%.0f%% lit)\n",
		g.Moon.AzDeg, g.Moon.AltDeg, g.MoonPhaseDeg, g.MoonIllum*100)
	fmt.Fprintf(w, "Session   K %.4f  airmass moon %.2f  sun %.2f\n",
		s.Extinction(), s.MoonAirmass(), s.SunAirmass())
	fmt.Fprintln(w)

	// Per-term breakdown straight overhead.
	comp := Components(s, g, astro.Direction{AzDeg: 0, AltDeg: 90})
	fmt.Fprintf(w, "Zenith    %-12s %-12s %-12s %-12s\n", "dark", "moon", "twilight", "daylight")
	fmt.Fprintf(w, "cd/m²     %-12.3g %-12.3g %-12.3g %-12.3g\n",
		comp.Dark, comp.Moon, comp.Twilight, comp.Daylight)
	fmt.Fprintln(w)

	// Sample directions around the dome.
	fmt.Fprintf(w, "%-10s %5s %5s %12s %10s\n", "Direction", "az", "alt", "cd/m²", "mag/as²")
	fmt.Fprintln(w, strings.Repeat("─", 48))

	rows := []struct {
		name   string
		az, el float64
	}{
		{"Zenith", 0, 90},
		{"N 30°", 0, 30},
		{"E 30°", 90, 30},
		{"S 30°", 180, 30},
		{"W 30°", 270, 30},
		{"N horiz", 0, 5},
		{"S horiz", 180, 5},
	}
	for _, r := range rows {
		lum := Luminance(s, g, astro.Direction{AzDeg: r.az, AltDeg: r.el})
		fmt.Fprintf(w, "%-10s %5.0f %5.0f %12.3g %10.2f\n",
			r.name, r.az, r.el, lum, MagPerArcsec2(lum))
	}
}

// Sky grid dimensions: altitude bands from zenith to horizon, azimuth
// columns around the full compass.
const (
	gridAltStep = 10 // degrees per row
	gridAzStep  = 15 // degrees per column
)

// brightnessGlyph shades a luminance with fixed physical bands, so a given
// glyph means the same sky quality in every view.
func brightnessGlyph(lum float64) rune {
	switch {
	case lum < 3e-4:
		return ' ' // pristine dark sky
	case lum < 1e-3:
		return '·' // airglow / light moonlight
	case lum < 1e-2:
		return '░' // bright moonlight
	case lum < 1:
		return '▒' // twilight
	case lum < 100:
		return '▓' // deep daylight transition
	default:
		return '█' // daytime sky
	}
}

// WriteSkyGrid writes an ASCII all-sky map: rows from zenith down to the
// horizon, columns around the compass, shaded by luminance band, with the
// Sun and Moon marked when above the horizon.
func WriteSkyGrid(w io.Writer, c Context, t time.Time) {
	s, g := c.NewSession(t)

	fmt.Fprintf(w, "All-sky luminance @ %s\n", t.UTC().Format(time.RFC3339))
	fmt.Fprintf(w, "      %-6s%-6s%-6s%-6s\n", "N", "E", "S", "W")

	for alt := 85; alt >= 5; alt -= gridAltStep {
		fmt.Fprintf(w, "%3d° ", alt)
		for az := 0; az < 360; az += gridAzStep {
			dir := astro.Direction{AzDeg: float64(az), AltDeg: float64(alt)}

			glyph := brightnessGlyph(Luminance(s, g, dir))
			if g.Sun.AboveHorizon() && astro.Separation(dir, g.Sun) < gridAltStep/2 {
				glyph = '☀'
			} else if g.Moon.AboveHorizon() && astro.Separation(dir, g.Moon) < gridAltStep/2 {
				glyph = '☾'
			}
			fmt.Fprintf(w, "%c", glyph)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, "      ' '<3e-4  ·<1e-3  ░<1e-2  ▒<1  ▓<100  █ cd/m²")
}

// sparkRunes index on a 0..7 level.
var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// traceWidth is the fixed width brightness sparklines are resampled to.
const traceWidth = 60

// WriteNightTrace writes a sparkline of zenith luminance over the trace
// window around 'now', on a log scale between the window's extremes.
func WriteNightTrace(w io.Writer, c Context, now time.Time) {
	trace := ComputeBrightnessTrace(c, now)
	lo, hi := trace.Range()

	fmt.Fprintf(w, "Zenith brightness %s → %s\n",
		trace.WindowStart.UTC().Format("15:04"),
		trace.WindowEnd.UTC().Format("15:04"))

	samples := resampleTrace(trace.Samples, traceWidth)
	logLo := math.Log10(lo)
	logSpan := math.Log10(hi) - logLo

	var sb strings.Builder
	for _, smp := range samples {
		level := 0
		if logSpan > 0 {
			frac := (math.Log10(smp.Luminance) - logLo) / logSpan
			level = int(frac * float64(len(sparkRunes)-1))
			if level < 0 {
				level = 0
			} else if level >= len(sparkRunes) {
				level = len(sparkRunes) - 1
			}
		}
		sb.WriteRune(sparkRunes[level])
	}
	fmt.Fprintln(w, sb.String())

	fmt.Fprintf(w, "min %.3g cd/m² (%.1f mag/as²)  max %.3g cd/m²\n",
		lo, MagPerArcsec2(lo), hi)
	if d := trace.Darkest(); d != nil {
		fmt.Fprintf(w, "darkest at %s UTC\n", d.Time.UTC().Format("15:04"))
	}
}

// resampleTrace reduces samples to a fixed width by nearest-neighbor pick.
func resampleTrace(samples []BrightnessSample, width int) []BrightnessSample {
	if len(samples) <= width {
		return samples
	}
	out := make([]BrightnessSample, width)
	for i := 0; i < width; i++ {
		idx := i * (len(samples) - 1) / (width - 1)
		out[i] = samples[idx]
	}
	return out
}

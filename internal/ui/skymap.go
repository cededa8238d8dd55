package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-skyglow/internal/astro"
	"github.com/litescript/ls-skyglow/internal/observation"
	"github.com/litescript/ls-skyglow/internal/state"
)

// Sky map glyphs and colors, one band per luminance decade.
const (
	glyphSun  = '☀'
	glyphMoon = '☾'
)

type brightnessBand struct {
	limit float64 // upper bound, cd/m²
	glyph rune
	color string
}

// skyBands maps a luminance to a glyph and color; bands are fixed physical
// values so a glyph means the same sky quality everywhere in the UI.
var skyBands = []brightnessBand{
	{3e-4, ' ', "235"},  // pristine dark sky
	{1e-3, '·', "240"},  // airglow, faint moonlight
	{1e-2, '░', "60"},   // bright moonlight
	{1, '▒', "103"},     // twilight
	{100, '▓', "146"},   // day transition
	{math.Inf(1), '█', "189"}, // daytime sky
}

func bandFor(lum float64) brightnessBand {
	for _, b := range skyBands {
		if lum < b.limit {
			return b
		}
	}
	return skyBands[len(skyBands)-1]
}

// renderSkyMap renders the whole dome as an azimuth/altitude grid shaded by
// luminance: rows run from zenith at the top to the horizon at the bottom,
// columns run through the compass from north through east.
func renderSkyMap(snap state.Snapshot, width, height int) string {
	if !snap.HasData() {
		return dimStyle.Render("No session prepared yet")
	}

	// One line for the compass ruler, the rest for altitude bands.
	rows := height - 1
	if rows < 3 {
		rows = 3
	}
	cols := width - 6 // room for the altitude label
	if cols < 12 {
		cols = 12
	}

	sunStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	moonStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	var b strings.Builder
	b.WriteString("      ")
	b.WriteString(dimStyle.Render(compassRuler(cols)))
	b.WriteString("\n")

	g := snap.Geometry
	for r := 0; r < rows; r++ {
		// Top row is near the zenith, bottom row sits on the horizon.
		alt := 90 - (float64(r)+0.5)*90/float64(rows)
		b.WriteString(dimStyle.Render(fmt.Sprintf("%4.0f° ", alt)))

		for col := 0; col < cols; col++ {
			az := (float64(col) + 0.5) * 360 / float64(cols)
			dir := astro.Direction{AzDeg: az, AltDeg: alt}

			cellRadius := math.Max(90/float64(rows), 360/float64(cols)/2)
			switch {
			case g.Sun.AboveHorizon() && astro.Separation(dir, g.Sun) < cellRadius:
				b.WriteString(sunStyle.Render(string(glyphSun)))
			case g.Moon.AboveHorizon() && astro.Separation(dir, g.Moon) < cellRadius:
				b.WriteString(moonStyle.Render(string(glyphMoon)))
			default:
				band := bandFor(observation.Luminance(snap.Session, g, dir))
				style := lipgloss.NewStyle().Foreground(lipgloss.Color(band.color))
				b.WriteString(style.Render(string(band.glyph)))
			}
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// compassRuler builds an azimuth ruler with the cardinal points placed
// proportionally across the given width.
func compassRuler(cols int) string {
	ruler := []rune(strings.Repeat("─", cols))
	marks := map[int]rune{
		0:            'N',
		cols / 4:     'E',
		cols / 2:     'S',
		3 * cols / 4: 'W',
	}
	for pos, mark := range marks {
		if pos >= 0 && pos < cols {
			ruler[pos] = mark
		}
	}
	return string(ruler)
}

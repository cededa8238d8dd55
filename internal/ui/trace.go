package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-skyglow/internal/observation"
)

// sparkLevels index on a 0..7 brightness level.
var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// renderTraceSparkline renders the night trace as a per-cell colored
// sparkline, log-scaled between the window's extremes.
func renderTraceSparkline(trace *observation.BrightnessTrace, width int) string {
	if width < 10 {
		width = 10
	}

	samples := trace.Samples
	if len(samples) > width {
		resampled := make([]observation.BrightnessSample, width)
		for i := 0; i < width; i++ {
			resampled[i] = samples[i*(len(samples)-1)/(width-1)]
		}
		samples = resampled
	}

	lo, hi := trace.Range()
	logLo := math.Log10(lo)
	logSpan := math.Log10(hi) - logLo

	var b strings.Builder
	for _, s := range samples {
		level := 0
		if logSpan > 0 {
			frac := (math.Log10(s.Luminance) - logLo) / logSpan
			level = int(frac * float64(len(sparkLevels)-1))
			if level < 0 {
				level = 0
			} else if level >= len(sparkLevels) {
				level = len(sparkLevels) - 1
			}
		}

		band := bandFor(s.Luminance)
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(band.color))
		b.WriteString(style.Render(string(sparkLevels[level])))
	}
	return b.String()
}

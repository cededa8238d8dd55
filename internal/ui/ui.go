// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-skyglow/internal/observation"
	"github.com/litescript/ls-skyglow/internal/state"
	"github.com/litescript/ls-skyglow/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewSky ViewMode = iota
	ViewNight
)

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic UI updates.
	TickMsg time.Time

	// DataUpdateMsg signals a freshly prepared session is available.
	DataUpdateMsg struct {
		Snapshot state.Snapshot
	}
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// Model is the root Bubble Tea model.
type Model struct {
	state *state.Manager

	viewMode ViewMode
	width    int
	height   int
	ready    bool

	snapshot state.Snapshot

	// Night trace, recomputed when the session updates.
	trace *observation.BrightnessTrace
}

// New creates a new root UI model.
func New(stateMgr *state.Manager) Model {
	return Model{
		state:    stateMgr,
		viewMode: ViewSky,
		snapshot: stateMgr.Snapshot(),
	}
}

// Init starts the UI tick.
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "n":
			if m.viewMode == ViewSky {
				m.viewMode = ViewNight
			} else {
				m.viewMode = ViewSky
			}
			return m, nil
		}

	case TickMsg:
		return m, tick()

	case DataUpdateMsg:
		m.snapshot = msg.Snapshot
		if m.snapshot.HasData() {
			m.trace = observation.ComputeBrightnessTrace(
				m.snapshot.Context, m.snapshot.PreparedAt)
		}
		return m, nil
	}

	return m, nil
}

// View renders the UI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.width < 40 || m.height < 12 {
		return "Terminal too small for ls-skyglow"
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	contentHeight := m.height - 4
	switch m.viewMode {
	case ViewSky:
		b.WriteString(renderSkyMap(m.snapshot, m.width, contentHeight))
	case ViewNight:
		b.WriteString(m.renderNightView(contentHeight))
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	title := titleStyle.Render("ls-skyglow " + version.Version)

	site := dimStyle.Render("no site")
	clock := ""
	if m.snapshot.HasData() {
		site = accentStyle.Render(m.snapshot.Context.Site.Name)
		clock = dimStyle.Render(m.snapshot.PreparedAt.UTC().Format("2006-01-02 15:04 UTC"))
	}

	mode := "Sky Map"
	if m.viewMode == ViewNight {
		mode = "Night Trace"
	}

	return fmt.Sprintf("%s | %s | %s | %s", title, site, dimStyle.Render(mode), clock)
}

func (m Model) renderFooter() string {
	if !m.snapshot.HasData() {
		return errStyle.Render("Waiting for first session...")
	}

	g := m.snapshot.Geometry
	lum := m.snapshot.ZenithLuminance()
	status := fmt.Sprintf("Sun %+.1f° | Moon %+.1f° (%.0f%% lit) | Zenith %.3g cd/m² (%.1f mag/as²)",
		g.Sun.AltDeg, g.Moon.AltDeg, g.MoonIllum*100,
		lum, observation.MagPerArcsec2(lum))

	help := dimStyle.Render("tab: view  q: quit")
	return fmt.Sprintf("%s   %s", status, help)
}

// renderNightView shows the zenith brightness sparkline over the night plus
// the recent horizon-crossing events.
func (m Model) renderNightView(height int) string {
	var b strings.Builder

	if m.trace == nil || len(m.trace.Samples) == 0 {
		b.WriteString(dimStyle.Render("No trace computed yet"))
		return padLines(b.String(), height)
	}

	lo, hi := m.trace.Range()
	b.WriteString(fmt.Sprintf("Zenith luminance %s → %s UTC\n\n",
		m.trace.WindowStart.UTC().Format("15:04"),
		m.trace.WindowEnd.UTC().Format("15:04")))
	b.WriteString(renderTraceSparkline(m.trace, m.width-4))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("min %s   max %s\n",
		accentStyle.Render(fmt.Sprintf("%.3g cd/m²", lo)),
		accentStyle.Render(fmt.Sprintf("%.3g cd/m²", hi))))
	if d := m.trace.Darkest(); d != nil {
		b.WriteString(dimStyle.Render(fmt.Sprintf("darkest at %s UTC (%.1f mag/as²)",
			d.Time.UTC().Format("15:04"), observation.MagPerArcsec2(d.Luminance))))
		b.WriteString("\n")
	}

	if len(m.snapshot.Events) > 0 {
		b.WriteString("\nEvents\n")
		events := m.snapshot.Events
		if len(events) > 6 {
			events = events[len(events)-6:]
		}
		for _, e := range events {
			b.WriteString(fmt.Sprintf("  %s %-9s az %.0f°\n",
				dimStyle.Render(e.Timestamp.UTC().Format("15:04")),
				e.Type, e.AzDeg))
		}
	}

	return padLines(b.String(), height)
}

// padLines pads content with blank lines up to the given height.
func padLines(s string, height int) string {
	lines := strings.Count(s, "\n") + 1
	if lines >= height {
		return s
	}
	return s + strings.Repeat("\n", height-lines)
}

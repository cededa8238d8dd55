// Command ls-skyglow is a terminal tool for computing and visualizing
// apparent night-sky background brightness at an observing site.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/litescript/ls-skyglow/internal/config"
	"github.com/litescript/ls-skyglow/internal/logging"
	"github.com/litescript/ls-skyglow/internal/observation"
	"github.com/litescript/ls-skyglow/internal/state"
	"github.com/litescript/ls-skyglow/internal/ui"
)

// CLI flags for headless mode
var (
	summaryMode   bool
	gridMode      bool
	traceMode     bool
	watchInterval time.Duration
	atTime        string
)

const (
	minRefresh = 1 * time.Second
	maxRefresh = 10 * time.Minute
)

func main() {
	var flags config.Flags
	flags.Register(pflag.CommandLine)
	pflag.BoolVar(&summaryMode, "summary", false, "Print a text summary instead of the TUI")
	pflag.BoolVar(&gridMode, "grid", false, "Print an ASCII all-sky luminance map")
	pflag.BoolVar(&traceMode, "trace", false, "Print the night brightness sparkline")
	pflag.DurationVar(&watchInterval, "watch", 0, "Repeat headless output at interval (e.g. 60s)")
	pflag.StringVar(&atTime, "at", "", "Evaluate at an RFC3339 time instead of now")
	pflag.Parse()

	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	flags.Apply(pflag.CommandLine, cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Clamp refresh interval
	if cfg.UI.RefreshInterval < minRefresh {
		cfg.UI.RefreshInterval = minRefresh
	} else if cfg.UI.RefreshInterval > maxRefresh {
		cfg.UI.RefreshInterval = maxRefresh
	}

	// Set up logging
	logger := logging.New(logging.ParseLevel(cfg.Logging.Level))

	at := time.Now()
	if atTime != "" {
		at, err = time.Parse(time.RFC3339, atTime)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid --at time: %v\n", err)
			os.Exit(1)
		}
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	obsCtx := cfg.Context()

	// Headless mode: no TUI
	headless := summaryMode || gridMode || traceMode || atTime != ""
	if headless {
		if !gridMode && !traceMode {
			summaryMode = true
		}
		runHeadless(ctx, obsCtx, at, logger)
		return
	}

	stateCfg := state.DefaultConfig()
	stateCfg.RefreshInterval = cfg.UI.RefreshInterval
	mgr := state.NewManager(obsCtx, stateCfg)

	// Create Bubble Tea program
	model := ui.New(mgr)
	p := tea.NewProgram(model, tea.WithAltScreen())

	// Start the session update loop in background
	go runUpdateLoop(ctx, mgr, p, logger)

	// Run TUI (blocks until quit)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// runUpdateLoop re-prepares the session at the refresh cadence and pushes
// snapshots into the UI.
func runUpdateLoop(ctx context.Context, mgr *state.Manager, p *tea.Program, logger *logging.Logger) {
	log := logger.WithPrefix("session")

	update := func() {
		snap := mgr.Update(time.Now())
		log.Debug("prepared session: K=%.4f zenith=%.3g cd/m²",
			snap.Session.Extinction(), snap.ZenithLuminance())
		p.Send(ui.DataUpdateMsg{Snapshot: snap})
	}

	update()

	ticker := time.NewTicker(mgr.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug("update loop shutting down")
			return
		case <-ticker.C:
			update()
		}
	}
}

// runHeadless handles all headless modes without starting the TUI.
func runHeadless(ctx context.Context, obsCtx observation.Context, at time.Time, logger *logging.Logger) {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))

	outputOnce := func(t time.Time) {
		if summaryMode {
			observation.WriteSummary(os.Stdout, obsCtx, t)
		}
		if gridMode {
			if summaryMode {
				fmt.Println()
			}
			observation.WriteSkyGrid(os.Stdout, obsCtx, t)
		}
		if traceMode {
			if summaryMode || gridMode {
				fmt.Println()
			}
			observation.WriteNightTrace(os.Stdout, obsCtx, t)
		}
	}

	// Single run
	if watchInterval == 0 {
		outputOnce(at)
		return
	}

	// Watch mode: repeat at interval, tracking the wall clock plus the
	// offset a --at time implies.
	offset := time.Until(at)
	outputOnce(time.Now().Add(offset))

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if isTTY {
				// Rewrite in place on a live terminal
				fmt.Print("\033[H\033[2J")
			} else {
				fmt.Println()
			}
			outputOnce(time.Now().Add(offset))
		}
	}
}

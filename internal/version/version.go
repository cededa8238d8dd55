// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Night brightness trace, sunrise/moonrise event log, humidity clamp
// 0.2.0 - TUI sky map, YAML site config, mag/arcsec² readout
// 0.1.0 - Initial release: Schaefer brightness engine, headless summary mode

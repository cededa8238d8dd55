// Package config handles configuration loading: defaults, an optional YAML
// file, and command line overrides, in that priority order.
package config

import (
	"fmt"
	"time"

	"github.com/litescript/ls-skyglow/internal/observation"
)

// Config holds all application settings.
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Weather WeatherConfig `yaml:"weather"`
	Scales  ScalesConfig  `yaml:"scales"`
	Logging LoggingConfig `yaml:"logging"`
	UI      UIConfig      `yaml:"ui"`
}

// SiteConfig holds the observing site.
type SiteConfig struct {
	Name      string  `yaml:"name"`
	Latitude  float64 `yaml:"latitude"`  // degrees, north positive
	Longitude float64 `yaml:"longitude"` // degrees, east positive
	Altitude  float64 `yaml:"altitude"`  // meters above sea level
}

// WeatherConfig holds the local atmosphere inputs.
type WeatherConfig struct {
	Temperature float64 `yaml:"temperature"`  // °C
	RelHumidity float64 `yaml:"rel_humidity"` // percent
}

// ScalesConfig holds the brightness model calibration multipliers.
type ScalesConfig struct {
	Twilight  float64 `yaml:"twilight"`
	Moon      float64 `yaml:"moon"`
	DarkNight float64 `yaml:"dark_night"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// UIConfig holds terminal UI settings.
type UIConfig struct {
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

// Default returns a Config with sensible default values: a mid-latitude
// sea-level site with average weather and the uncalibrated model.
func Default() *Config {
	return &Config{
		Site: SiteConfig{
			Name:      "Greenwich",
			Latitude:  51.477,
			Longitude: -0.001,
			Altitude:  47,
		},
		Weather: WeatherConfig{
			Temperature: 10,
			RelHumidity: 70,
		},
		Scales: ScalesConfig{
			Twilight:  1,
			Moon:      1,
			DarkNight: 1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		UI: UIConfig{
			RefreshInterval: time.Minute,
		},
	}
}

// Validate checks the ranges the downstream model cares about.
func (c *Config) Validate() error {
	if c.Site.Latitude < -90 || c.Site.Latitude > 90 {
		return fmt.Errorf("site latitude %.3f out of range [-90, 90]", c.Site.Latitude)
	}
	if c.Site.Longitude < -180 || c.Site.Longitude > 180 {
		return fmt.Errorf("site longitude %.3f out of range [-180, 180]", c.Site.Longitude)
	}
	if c.Weather.RelHumidity < 0 || c.Weather.RelHumidity > 100 {
		return fmt.Errorf("relative humidity %.1f out of range [0, 100]", c.Weather.RelHumidity)
	}
	if c.UI.RefreshInterval < time.Second {
		return fmt.Errorf("refresh interval %v below 1s", c.UI.RefreshInterval)
	}
	return nil
}

// Context converts the configuration into an observation context.
func (c *Config) Context() observation.Context {
	return observation.Context{
		Site: observation.Site{
			Name:      c.Site.Name,
			Latitude:  c.Site.Latitude,
			Longitude: c.Site.Longitude,
			Altitude:  c.Site.Altitude,
		},
		Weather: observation.Weather{
			Temperature: c.Weather.Temperature,
			RelHumidity: c.Weather.RelHumidity,
		},
		Scales: observation.Scales{
			Twilight:  c.Scales.Twilight,
			Moon:      c.Scales.Moon,
			DarkNight: c.Scales.DarkNight,
		},
	}
}

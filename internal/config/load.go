package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file. Pass an empty
// path to search the standard locations; a missing file is not an error
// then. Command line overrides are applied separately via Flags.Apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = findConfigFile()
	}
	if path == "" {
		return cfg, nil
	}

	if err := loadFromFile(cfg, path); err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// findConfigFile looks for a config in the standard locations.
func findConfigFile() string {
	candidates := []string{"./ls-skyglow.yaml"}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "ls-skyglow", "config.yaml"))
	}

	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}
	return nil
}

// Flags holds the command line overrides with the highest priority.
type Flags struct {
	ConfigPath  string
	Latitude    float64
	Longitude   float64
	Altitude    float64
	Temperature float64
	Humidity    float64
	LogLevel    string
}

// Register declares the override flags on the given flag set with the
// defaults from Default(). Only flags the user actually set are applied.
func (f *Flags) Register(fs *pflag.FlagSet) {
	def := Default()
	fs.StringVar(&f.ConfigPath, "config", "", "Path to YAML config file")
	fs.Float64Var(&f.Latitude, "lat", def.Site.Latitude, "Site latitude in degrees (north positive)")
	fs.Float64Var(&f.Longitude, "lon", def.Site.Longitude, "Site longitude in degrees (east positive)")
	fs.Float64Var(&f.Altitude, "alt", def.Site.Altitude, "Site altitude in meters")
	fs.Float64Var(&f.Temperature, "temp", def.Weather.Temperature, "Air temperature in °C")
	fs.Float64Var(&f.Humidity, "humidity", def.Weather.RelHumidity, "Relative humidity in percent")
	fs.StringVar(&f.LogLevel, "log-level", def.Logging.Level, "Log level (debug, info, warn, error)")
}

// Apply copies the flags the user set onto the config.
func (f *Flags) Apply(fs *pflag.FlagSet, cfg *Config) {
	if fs.Changed("lat") {
		cfg.Site.Latitude = f.Latitude
	}
	if fs.Changed("lon") {
		cfg.Site.Longitude = f.Longitude
	}
	if fs.Changed("alt") {
		cfg.Site.Altitude = f.Altitude
	}
	if fs.Changed("temp") {
		cfg.Weather.Temperature = f.Temperature
	}
	if fs.Changed("humidity") {
		cfg.Weather.RelHumidity = f.Humidity
	}
	if fs.Changed("log-level") {
		cfg.Logging.Level = f.LogLevel
	}
}

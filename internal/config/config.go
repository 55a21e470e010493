// SPDX-FileCopyrightText: The mudwatch authors
//
// SPDX-License-Identifier: MIT

// Package config loads and validates the mudwatch configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kkyr/fig"
)

const (
	configEnv = "MUDWATCH"

	// DefaultReportTpl is the report template used when none is configured.
	DefaultReportTpl = `{{loc "Road report for"}} {{.Location}} ({{floatFormat .Latitude 4}}, {{floatFormat .Longitude 4}})
{{loc "Surface"}}: {{loc (printf "%s" .Surface)}}
{{if not .Unpaved}}{{loc "The road is not a dirt road. No estimate needed."}}{{else if .Passable}}{{loc "The dirt road is dry. You can pass."}}{{else}}{{loc "The dirt road is muddy. Better avoid it."}}{{end}}
{{if .HasNextDryDay}}{{loc "Expected to be passable from"}} {{naturalDay .NextDryDay}}{{end}}`
)

// Config represents the application's configuration structure.
type Config struct {
	// Allowed values: metric, imperial
	Units    string     `fig:"units" default:"metric"`
	Locale   string     `fig:"locale"`
	LogLevel slog.Level `fig:"loglevel" default:"0"`

	// Road holds the tunables of the road condition estimator.
	Road struct {
		// Daily rainfall above this value counts as a wet day.
		WetThresholdMM float64 `fig:"wet_threshold_mm" default:"5"`
		// Consecutive non-wet days required before the road reverts to dry.
		DryAfterDays int `fig:"dry_after_days" default:"2"`
		// The road stays muddy while mean humidity exceeds this value.
		// A value of 0 disables the humidity rule.
		HumidityMax float64 `fig:"humidity_max" default:"90"`
	} `fig:"road"`

	Weather struct {
		// Allowed value: open-meteo
		Provider string `fig:"provider" default:"open-meteo"`
		// Allowed value: 1 to 92
		PastDays int `fig:"past_days" default:"30"`
	} `fig:"weather"`

	Locations []Location `fig:"locations"`

	Intervals struct {
		WeatherUpdate time.Duration `fig:"weather_update" default:"30m"`
		Report        time.Duration `fig:"report" default:"1h"`
	} `fig:"intervals"`

	Server struct {
		Enabled    bool   `fig:"enabled"`
		ListenAddr string `fig:"listen_addr" default:"localhost:8732"`
	} `fig:"server"`

	Cache struct {
		// Path to the sqlite forecast cache. Empty disables caching.
		Path string        `fig:"path"`
		TTL  time.Duration `fig:"ttl" default:"1h"`
	} `fig:"cache"`

	Templates struct {
		Report string `fig:"report"`
	} `fig:"templates"`
}

// Location is a named coordinate the service watches.
type Location struct {
	Name string  `fig:"name"`
	Lat  float64 `fig:"lat"`
	Lon  float64 `fig:"lon"`
}

// defaultLocations mirrors the places the dashboard originally shipped with.
var defaultLocations = []Location{
	{Name: "Uri Land", Lat: -35.081202, Lon: -59.033928},
	{Name: "Zapiola", Lat: -35.060995, Lon: -59.042510},
	{Name: "Areco", Lat: -34.256575, Lon: -59.487683},
	{Name: "Campana", Lat: -34.177675, Lon: -58.966298},
}

// NewFromFile reads and validates the configuration from the given file.
func NewFromFile(path, file string) (*Config, error) {
	conf := new(Config)
	_, err := os.Stat(filepath.Join(path, file))
	if err != nil {
		return conf, fmt.Errorf("failed to read Config: %w", err)
	}
	if err = fig.Load(conf, fig.Dirs(path), fig.File(file), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

// New returns a configuration built from defaults and the environment.
func New() (*Config, error) {
	conf := new(Config)
	if err := fig.Load(conf, fig.AllowNoFile(), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

// Validate checks value ranges and fills derived defaults.
func (c *Config) Validate() error {
	if c.Units != "metric" && c.Units != "imperial" {
		return fmt.Errorf("invalid units: %s", c.Units)
	}
	if c.Locale == "" {
		c.Locale = getLocale()
	}
	if c.Road.WetThresholdMM < 0 {
		return fmt.Errorf("invalid wet threshold: %f", c.Road.WetThresholdMM)
	}
	if c.Road.DryAfterDays < 0 {
		return fmt.Errorf("invalid dry after days: %d", c.Road.DryAfterDays)
	}
	if c.Road.HumidityMax < 0 || c.Road.HumidityMax > 100 {
		return fmt.Errorf("invalid humidity max: %f", c.Road.HumidityMax)
	}
	if c.Weather.PastDays < 1 || c.Weather.PastDays > 92 {
		return fmt.Errorf("invalid past days: %d", c.Weather.PastDays)
	}
	if len(c.Locations) == 0 {
		c.Locations = defaultLocations
	}
	for _, loc := range c.Locations {
		if loc.Name == "" {
			return fmt.Errorf("location without a name: %+v", loc)
		}
		if loc.Lat < -90 || loc.Lat > 90 || loc.Lon < -180 || loc.Lon > 180 {
			return fmt.Errorf("invalid coordinates for location %s: %f, %f", loc.Name, loc.Lat, loc.Lon)
		}
	}
	if c.Templates.Report == "" {
		c.Templates.Report = DefaultReportTpl
	}

	return nil
}

func getLocale() string {
	locale := os.Getenv("LC_MESSAGES")
	if idx := strings.Index(locale, "."); idx != -1 {
		lang := locale[:idx]
		return strings.ReplaceAll(lang, "_", "-")
	}
	return locale
}

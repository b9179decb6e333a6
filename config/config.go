// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/warp/intake-engine/generic"
	"github.com/warp/intake-engine/hydration"
)

// Config holds process settings. Flags in cmd/ override these.
type Config struct {
	Port          int           `env:"INTAKE_PORT" envDefault:"8080"`
	DBPath        string        `env:"INTAKE_DB" envDefault:"intake.db"`
	TimeZone      string        `env:"INTAKE_TIMEZONE" envDefault:"UTC"`
	CheckInterval time.Duration `env:"INTAKE_CHECK_INTERVAL" envDefault:"1m"`

	// First-run defaults. Once settings are persisted they win.
	DefaultTarget int   `env:"INTAKE_DEFAULT_TARGET" envDefault:"2000"`
	QuickAmounts  []int `env:"INTAKE_QUICK_AMOUNTS" envDefault:"100,250,500" envSeparator:","`
	AutoReset     bool  `env:"INTAKE_AUTO_RESET" envDefault:"true"`
}

// Load reads the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// LoadFrom reads the given variables instead of the process environment.
func LoadFrom(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the values that have no safe fallback.
func (c Config) Validate() error {
	if c.CheckInterval <= 0 {
		return fmt.Errorf("INTAKE_CHECK_INTERVAL must be positive, got %s", c.CheckInterval)
	}
	if err := c.Defaults().Validate(); err != nil {
		return fmt.Errorf("first-run defaults: %w", err)
	}
	return nil
}

// Defaults returns the first-run settings.
func (c Config) Defaults() hydration.Settings {
	s := hydration.DefaultSettings()
	s.DefaultTarget = c.DefaultTarget
	s.QuickAmounts = append([]int{}, c.QuickAmounts...)
	s.AutoResetAtMidnight = c.AutoReset
	return s
}

// Calendar returns the reference-zone day calendar.
func (c Config) Calendar() (generic.DayCalendar, error) {
	return generic.NewDayCalendar(c.TimeZone)
}

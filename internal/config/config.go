// Package config handles configuration loading and defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/mkravets/tickle/internal/parser"
	"github.com/mkravets/tickle/internal/reminder"
)

// Default values.
const (
	DefaultDataDir        = "~/.tickle"
	DefaultLead           = "30m"
	DefaultPastDue        = "skip"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultStreamBuffer   = 64
	DefaultTickSeconds    = 30
	DefaultResyncMinutes  = 15
	defaultConfigFileName = "config.toml"
)

// Config holds the full configuration for tickle.
type Config struct {
	// Paths
	DataDir string `toml:"data_dir"`

	// Reminders
	Lead    string `toml:"lead"`     // span before the due date, e.g. "30m", "2 hours"
	PastDue string `toml:"past_due"` // skip or fire

	// Logging
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"` // text, logfmt, json

	// Change stream
	StreamBuffer int `toml:"stream_buffer"`

	// Daemon intervals
	TickSeconds   int `toml:"tick_seconds"`   // delivery check cadence
	ResyncMinutes int `toml:"resync_minutes"` // full reconcile cadence
}

// Load builds the configuration from priority order:
// 1. Defaults
// 2. Config file (TOML) at <data_dir>/config.toml
// 3. Environment variables (TICKLE_*)
func Load() (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	// The config file location itself honors TICKLE_DATA_DIR.
	if v := os.Getenv("TICKLE_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}

	configFile := filepath.Join(expandPath(cfg.DataDir), defaultConfigFileName)
	if _, err := os.Stat(configFile); err == nil {
		if err := loadConfigFile(cfg, configFile); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", configFile, err)
		}
	}

	loadFromEnv(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	cfg.DataDir = expandPath(cfg.DataDir)
	return cfg, nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.DataDir = DefaultDataDir
	cfg.Lead = DefaultLead
	cfg.PastDue = DefaultPastDue
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.StreamBuffer = DefaultStreamBuffer
	cfg.TickSeconds = DefaultTickSeconds
	cfg.ResyncMinutes = DefaultResyncMinutes
}

// loadConfigFile loads TOML config from the given file.
func loadConfigFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TICKLE_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("TICKLE_LEAD"); v != "" {
		cfg.Lead = v
	}
	if v := os.Getenv("TICKLE_PAST_DUE"); v != "" {
		cfg.PastDue = v
	}
	if v := os.Getenv("TICKLE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TICKLE_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("TICKLE_STREAM_BUFFER"); v != "" {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			cfg.StreamBuffer = i
		}
	}
	if v := os.Getenv("TICKLE_TICK_SECONDS"); v != "" {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			cfg.TickSeconds = i
		}
	}
	if v := os.Getenv("TICKLE_RESYNC_MINUTES"); v != "" {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			cfg.ResyncMinutes = i
		}
	}
}

// validate rejects values the rest of the app cannot work with.
func validate(cfg *Config) error {
	if _, err := parser.ParseLead(cfg.Lead); err != nil {
		return fmt.Errorf("invalid lead %q: %w", cfg.Lead, err)
	}
	switch cfg.PastDue {
	case "skip", "fire":
	default:
		return fmt.Errorf("invalid past_due %q: use skip or fire", cfg.PastDue)
	}
	if cfg.TickSeconds < 1 {
		return fmt.Errorf("tick_seconds must be at least 1")
	}
	if cfg.ResyncMinutes < 1 {
		return fmt.Errorf("resync_minutes must be at least 1")
	}
	return nil
}

// DBPath returns the SQLite database location.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "tickle.db")
}

// NotifyStatePath returns the notification platform state file.
func (c *Config) NotifyStatePath() string {
	return filepath.Join(c.DataDir, "notifications.json")
}

// Policy translates the reminder settings into a scheduler policy.
func (c *Config) Policy() reminder.Policy {
	lead, err := parser.ParseLead(c.Lead)
	if err != nil {
		lead = reminder.DefaultLead
	}

	pastDue := reminder.SkipPastDue
	if c.PastDue == "fire" {
		pastDue = reminder.FirePastDueNow
	}

	return reminder.Policy{Lead: lead, PastDue: pastDue}
}

// Tick returns the daemon's delivery check interval.
func (c *Config) Tick() time.Duration {
	return time.Duration(c.TickSeconds) * time.Second
}

// Resync returns the daemon's full reconcile interval.
func (c *Config) Resync() time.Duration {
	return time.Duration(c.ResyncMinutes) * time.Minute
}

// expandPath expands a leading ~ to the user's home directory.
func expandPath(p string) string {
	if strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, p[2:])
	}
	if p == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return home
	}
	return p
}

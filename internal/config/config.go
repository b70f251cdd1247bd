// Package config provides configuration loading for syncgo.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/syncgo/internal/gamify"
)

// Config represents the complete syncgo configuration
type Config struct {
	Database     DatabaseConfig     `yaml:"database"`
	Server       ServerConfig       `yaml:"server"`
	Gamification GamificationConfig `yaml:"gamification"`
	Log          LogConfig          `yaml:"log"`
}

// DatabaseConfig configures the SQLite store
type DatabaseConfig struct {
	// Path is the database file (":memory:" for a throwaway store)
	Path string `yaml:"path"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// GamificationConfig configures scoring and streaks
type GamificationConfig struct {
	// Timezone is the IANA zone used for special times and calendar days
	Timezone string `yaml:"timezone"`
	// RulesFile is an optional CUE file overriding the built-in rule tables
	RulesFile string `yaml:"rules_file"`
}

// LogConfig configures logging
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "syncgo.db",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Gamification: GamificationConfig{
			Timezone: "UTC",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		return fmt.Errorf("server timeouts must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Database.Path != "" {
		c.Database.Path = other.Database.Path
	}

	if other.Server.Addr != "" {
		c.Server.Addr = other.Server.Addr
	}
	if other.Server.ReadTimeout != 0 {
		c.Server.ReadTimeout = other.Server.ReadTimeout
	}
	if other.Server.WriteTimeout != 0 {
		c.Server.WriteTimeout = other.Server.WriteTimeout
	}

	if other.Gamification.Timezone != "" {
		c.Gamification.Timezone = other.Gamification.Timezone
	}
	if other.Gamification.RulesFile != "" {
		c.Gamification.RulesFile = other.Gamification.RulesFile
	}

	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
}

// Location resolves Gamification.Timezone.
func (c *Config) Location() (*time.Location, error) {
	name := c.Gamification.Timezone
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("gamification.timezone: %w", err)
	}
	return loc, nil
}

// Rules returns the built-in rule tables, or the override file unified with
// them when RulesFile is set.
func (c *Config) Rules() (gamify.Rules, error) {
	if c.Gamification.RulesFile == "" {
		return gamify.DefaultRules(), nil
	}
	return gamify.LoadRules(c.Gamification.RulesFile)
}

// SlogLevel returns the configured log level. Invalid values fall back to
// Info; Validate reports them.
func (c *Config) SlogLevel() slog.Level {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("log.level must be debug, info, warn or error, got %q", s)
}

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that override file settings.
const (
	EnvDatabase = "SYNCGO_DB"
	EnvAddr     = "SYNCGO_ADDR"
	EnvTimezone = "SYNCGO_TIMEZONE"
	EnvRules    = "SYNCGO_RULES"
	EnvLogLevel = "SYNCGO_LOG_LEVEL"
)

// DefaultEnvFile is read, if present, before environment overrides apply.
const DefaultEnvFile = ".env"

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger *slog.Logger

	// EnvFile is the dotenv file to load. Empty disables dotenv loading.
	EnvFile string

	// Getenv looks up environment variables. Defaults to os.LookupEnv.
	Getenv func(key string) (string, bool)
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger, EnvFile: DefaultEnvFile, Getenv: os.LookupEnv}
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. Config file at path, if path is non-empty
// 3. Dotenv file (does not override variables already set)
// 4. SYNCGO_* environment variables
func (l *Loader) Load(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		fileConfig, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("Loaded config file", slog.String("path", path))
		config.Merge(fileConfig)
	}

	if l.EnvFile != "" {
		err := godotenv.Load(l.EnvFile)
		switch {
		case err == nil:
			l.logger.Debug("Loaded env file", slog.String("path", l.EnvFile))
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to load env file %s: %w", l.EnvFile, err)
		}
	}

	config.Merge(l.fromEnv())

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// fromEnv builds a partial config from SYNCGO_* variables.
func (l *Loader) fromEnv() *Config {
	getenv := l.Getenv
	if getenv == nil {
		getenv = os.LookupEnv
	}
	lookup := func(key string) string {
		v, _ := getenv(key)
		return v
	}

	var c Config
	c.Database.Path = lookup(EnvDatabase)
	c.Server.Addr = lookup(EnvAddr)
	c.Gamification.Timezone = lookup(EnvTimezone)
	c.Gamification.RulesFile = lookup(EnvRules)
	c.Log.Level = lookup(EnvLogLevel)
	return &c
}

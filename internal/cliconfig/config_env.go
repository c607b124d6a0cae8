package cliconfig

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable fishery reads.
const EnvPrefix = "FISHERY_"

// EnvConfig holds the raw FISHERY_* variables. Values stay strings so empty
// means unset and parse errors name the flag they shadow.
type EnvConfig struct {
	ListenAddr      string `env:"LISTEN_ADDR"`
	Driver          string `env:"DB_DRIVER"`
	SQLitePath      string `env:"SQLITE_PATH"`
	PostgresDSN     string `env:"POSTGRES_DSN"`
	LogLevel        string `env:"LOG_LEVEL"`
	LogFormat       string `env:"LOG_FORMAT"`
	ReadTimeout     string `env:"READ_TIMEOUT"`
	WriteTimeout    string `env:"WRITE_TIMEOUT"`
	ShutdownTimeout string `env:"SHUTDOWN_TIMEOUT"`
	DefaultLocale   string `env:"DEFAULT_LOCALE"`
	Metrics         string `env:"METRICS"`
	WatchConfig     string `env:"WATCH_CONFIG"`
}

// LoadEnvConfig reads the FISHERY_* environment variables.
func LoadEnvConfig() (EnvConfig, error) {
	var ec EnvConfig
	if err := env.ParseWithOptions(&ec, env.Options{Prefix: EnvPrefix}); err != nil {
		return ec, fmt.Errorf("parse env: %w", err)
	}
	return ec, nil
}

// LoadDotEnv loads variables from a .env file without overriding ones that
// are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnvConfig applies configuration from environment variables (FISHERY_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	ec, err := LoadEnvConfig()
	if err != nil {
		return err
	}

	s := newConfigSetter(changed)

	s.setString("listen", ec.ListenAddr, &cfg.ListenAddr)
	s.setString("driver", ec.Driver, &cfg.Driver)
	s.setString("sqlite-path", ec.SQLitePath, &cfg.SQLitePath)
	s.setString("postgres-dsn", ec.PostgresDSN, &cfg.PostgresDSN)
	s.setString("log-level", ec.LogLevel, &cfg.LogLevel)
	s.setString("log-format", ec.LogFormat, &cfg.LogFormat)
	s.setString("locale", ec.DefaultLocale, &cfg.DefaultLocale)

	if err := s.setDuration("read-timeout", ec.ReadTimeout, &cfg.ReadTimeout); err != nil {
		return err
	}
	if err := s.setDuration("write-timeout", ec.WriteTimeout, &cfg.WriteTimeout); err != nil {
		return err
	}
	if err := s.setDuration("shutdown-timeout", ec.ShutdownTimeout, &cfg.ShutdownTimeout); err != nil {
		return err
	}

	s.setBoolFromString("metrics", ec.Metrics, &cfg.Metrics)
	s.setBoolFromString("watch-config", ec.WatchConfig, &cfg.WatchConfig)

	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}

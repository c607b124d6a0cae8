package cliconfig

import (
	"fmt"
	"strings"
	"time"

	"github.com/bft-labs/fishery/internal/adapters/storage"
	"github.com/bft-labs/fishery/internal/i18n"
	"github.com/bft-labs/fishery/pkg/log"
)

// DefaultListenAddr is the address the API binds when none is configured.
const DefaultListenAddr = ":8000"

// Config holds CLI configuration for fishery.
type Config struct {
	ListenAddr string

	Driver      string
	SQLitePath  string
	PostgresDSN string

	LogLevel  string
	LogFormat string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	DefaultLocale string
	Metrics       bool
	WatchConfig   bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		ListenAddr:      DefaultListenAddr,
		Driver:          string(storage.DriverSQLite),
		SQLitePath:      storage.DefaultSQLitePath,
		LogLevel:        "info",
		LogFormat:       log.FormatConsole,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: 15 * time.Second,
		DefaultLocale:   i18n.Default().String(),
		Metrics:         true,
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}

	c.Driver = strings.ToLower(strings.TrimSpace(c.Driver))
	switch storage.Driver(c.Driver) {
	case "":
		c.Driver = string(storage.DriverSQLite)
		fallthrough
	case storage.DriverSQLite:
		if c.SQLitePath == "" {
			c.SQLitePath = storage.DefaultSQLitePath
		}
	case storage.DriverPostgres:
	default:
		return fmt.Errorf("unknown driver %q (want sqlite or postgres)", c.Driver)
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "":
		c.LogFormat = log.FormatConsole
	case log.FormatConsole, log.FormatJSON:
	default:
		return fmt.Errorf("unknown log format %q (want console or json)", c.LogFormat)
	}

	if c.DefaultLocale == "" {
		c.DefaultLocale = i18n.Default().String()
	}
	tag, ok := i18n.ParseTag(c.DefaultLocale)
	if !ok {
		return fmt.Errorf("unsupported locale %q", c.DefaultLocale)
	}
	c.DefaultLocale = tag.String()

	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive")
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}

	return nil
}

// Redacted returns a copy safe to log: the postgres password is masked.
func (c Config) Redacted() Config {
	if c.PostgresDSN != "" {
		c.PostgresDSN = redactDSN(c.PostgresDSN)
	}
	return c
}

func redactDSN(dsn string) string {
	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		return "*****"
	}
	userinfo, host, ok := strings.Cut(rest, "@")
	if !ok {
		return dsn
	}
	user, _, _ := strings.Cut(userinfo, ":")
	return scheme + "://" + user + ":*****@" + host
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

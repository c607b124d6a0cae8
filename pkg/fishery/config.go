package fishery

import (
	"fmt"
	"time"

	"github.com/bft-labs/fishery/internal/adapters/storage"
	"github.com/bft-labs/fishery/internal/i18n"
)

// Config holds the settings of an embedded fishery server.
type Config struct {
	// ListenAddr is the TCP address to bind. Use "127.0.0.1:0" for an
	// ephemeral port and read it back with Server.Addr.
	ListenAddr string

	// Driver is "sqlite" (default) or "postgres".
	Driver      string
	SQLitePath  string
	PostgresDSN string

	// ConnectAttempts bounds how often the first database ping is tried.
	// Defaults to 1 for sqlite and 5 for postgres.
	ConnectAttempts int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// DefaultLocale is used when a request names no supported language.
	DefaultLocale string

	// Metrics exposes /metrics and records operation metrics.
	Metrics bool

	// ConfigPath is handed to plugins that react to config file changes.
	ConfigPath string
}

// SetDefaults fills zero values with defaults.
func (c *Config) SetDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8000"
	}
	if c.Driver == "" {
		c.Driver = string(storage.DriverSQLite)
	}
	if c.Driver == string(storage.DriverSQLite) && c.SQLitePath == "" {
		c.SQLitePath = storage.DefaultSQLitePath
	}
	if c.ConnectAttempts <= 0 {
		c.ConnectAttempts = 1
		if c.Driver == string(storage.DriverPostgres) {
			c.ConnectAttempts = 5
		}
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 10 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 10 * time.Second
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 15 * time.Second
	}
	if c.DefaultLocale == "" {
		c.DefaultLocale = i18n.Default().String()
	}
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	switch storage.Driver(c.Driver) {
	case storage.DriverSQLite, storage.DriverPostgres:
	default:
		return fmt.Errorf("unknown driver %q", c.Driver)
	}
	if _, ok := i18n.ParseTag(c.DefaultLocale); !ok {
		return fmt.Errorf("unsupported locale %q", c.DefaultLocale)
	}
	return nil
}

func (c Config) storageConfig() storage.Config {
	return storage.Config{
		Driver:          storage.Driver(c.Driver),
		SQLitePath:      c.SQLitePath,
		PostgresDSN:     c.PostgresDSN,
		ConnectAttempts: c.ConnectAttempts,
	}
}

package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	ListenAddr      string `toml:"listen_addr"`
	Driver          string `toml:"driver"`
	SQLitePath      string `toml:"sqlite_path"`
	PostgresDSN     string `toml:"postgres_dsn"`
	LogLevel        string `toml:"log_level"`
	LogFormat       string `toml:"log_format"`
	ReadTimeout     string `toml:"read_timeout"`
	WriteTimeout    string `toml:"write_timeout"`
	ShutdownTimeout string `toml:"shutdown_timeout"`
	DefaultLocale   string `toml:"default_locale"`
	Metrics         *bool  `toml:"metrics"`
	WatchConfig     *bool  `toml:"watch_config"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.fishery/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".fishery", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("listen", fc.ListenAddr, &cfg.ListenAddr)
	s.setString("driver", fc.Driver, &cfg.Driver)
	s.setString("sqlite-path", fc.SQLitePath, &cfg.SQLitePath)
	s.setString("postgres-dsn", fc.PostgresDSN, &cfg.PostgresDSN)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setString("log-format", fc.LogFormat, &cfg.LogFormat)
	s.setString("locale", fc.DefaultLocale, &cfg.DefaultLocale)

	if err := s.setDuration("read-timeout", fc.ReadTimeout, &cfg.ReadTimeout); err != nil {
		return err
	}
	if err := s.setDuration("write-timeout", fc.WriteTimeout, &cfg.WriteTimeout); err != nil {
		return err
	}
	if err := s.setDuration("shutdown-timeout", fc.ShutdownTimeout, &cfg.ShutdownTimeout); err != nil {
		return err
	}

	s.setBool("metrics", fc.Metrics, &cfg.Metrics)
	s.setBool("watch-config", fc.WatchConfig, &cfg.WatchConfig)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// ToFileConfig renders cfg in file form, e.g. to print the effective configuration.
func ToFileConfig(cfg Config) FileConfig {
	metrics := cfg.Metrics
	watch := cfg.WatchConfig
	return FileConfig{
		ListenAddr:      cfg.ListenAddr,
		Driver:          cfg.Driver,
		SQLitePath:      cfg.SQLitePath,
		PostgresDSN:     cfg.PostgresDSN,
		LogLevel:        cfg.LogLevel,
		LogFormat:       cfg.LogFormat,
		ReadTimeout:     cfg.ReadTimeout.String(),
		WriteTimeout:    cfg.WriteTimeout.String(),
		ShutdownTimeout: cfg.ShutdownTimeout.String(),
		DefaultLocale:   cfg.DefaultLocale,
		Metrics:         &metrics,
		WatchConfig:     &watch,
	}
}

// MarshalFileConfig encodes fc as TOML.
func MarshalFileConfig(fc FileConfig) ([]byte, error) {
	return toml.Marshal(fc)
}

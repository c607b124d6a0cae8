package cliconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		changed  map[string]bool
		initial  Config
		expected Config
		wantErr  bool
	}{
		{
			name: "applies all valid env vars",
			envVars: map[string]string{
				"FISHERY_LISTEN_ADDR":      ":9999",
				"FISHERY_DB_DRIVER":        "postgres",
				"FISHERY_POSTGRES_DSN":     "postgres://db/fishery",
				"FISHERY_LOG_FORMAT":       "json",
				"FISHERY_READ_TIMEOUT":     "3s",
				"FISHERY_SHUTDOWN_TIMEOUT": "1m",
				"FISHERY_DEFAULT_LOCALE":   "pt-BR",
				"FISHERY_WATCH_CONFIG":     "true",
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				ListenAddr:      ":9999",
				Driver:          "postgres",
				PostgresDSN:     "postgres://db/fishery",
				LogFormat:       "json",
				ReadTimeout:     3 * time.Second,
				ShutdownTimeout: time.Minute,
				DefaultLocale:   "pt-BR",
				WatchConfig:     true,
			},
		},
		{
			name: "respects changed flags",
			envVars: map[string]string{
				"FISHERY_LISTEN_ADDR": ":9999",
				"FISHERY_LOG_LEVEL":   "debug",
			},
			changed: map[string]bool{"listen": true},
			initial: Config{
				ListenAddr: ":8080",
			},
			expected: Config{
				ListenAddr: ":8080",
				LogLevel:   "debug",
			},
		},
		{
			name: "returns error for invalid duration",
			envVars: map[string]string{
				"FISHERY_WRITE_TIMEOUT": "not-a-duration",
			},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name: "handles bool '1' as true",
			envVars: map[string]string{
				"FISHERY_WATCH_CONFIG": "1",
			},
			changed:  map[string]bool{},
			initial:  Config{},
			expected: Config{WatchConfig: true},
		},
		{
			name: "handles bool 'false' as false",
			envVars: map[string]string{
				"FISHERY_METRICS": "false",
			},
			changed:  map[string]bool{},
			initial:  Config{Metrics: true},
			expected: Config{Metrics: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := tt.initial
			err := ApplyEnvConfig(&cfg, tt.changed)

			if tt.wantErr && err == nil {
				t.Error("ApplyEnvConfig() expected error but got nil")
				return
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ApplyEnvConfig() unexpected error: %v", err)
				return
			}

			if !tt.wantErr && cfg != tt.expected {
				t.Errorf("ApplyEnvConfig() = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "FISHERY_LOG_LEVEL=warn\nFISHERY_LISTEN_ADDR=:7777\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	// An already exported variable wins over the file.
	t.Setenv("FISHERY_LISTEN_ADDR", ":6666")
	t.Setenv("FISHERY_LOG_LEVEL", "")
	os.Unsetenv("FISHERY_LOG_LEVEL")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv failed: %v", err)
	}

	if got := os.Getenv("FISHERY_LOG_LEVEL"); got != "warn" {
		t.Errorf("FISHERY_LOG_LEVEL = %q, want warn", got)
	}
	if got := os.Getenv("FISHERY_LISTEN_ADDR"); got != ":6666" {
		t.Errorf("FISHERY_LISTEN_ADDR = %q, want :6666", got)
	}
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("LoadDotEnv() on missing file = %v, want nil", err)
	}
}

// Integration test: precedence order (CLI > Env > File)
func TestConfigPrecedence(t *testing.T) {
	trueVal := true

	fileConf := FileConfig{
		ListenAddr:  ":1111",
		LogLevel:    "error",
		SQLitePath:  "/file/fish.db",
		WatchConfig: &trueVal,
	}

	t.Setenv("FISHERY_LISTEN_ADDR", ":2222")
	t.Setenv("FISHERY_LOG_LEVEL", "debug")

	changed := map[string]bool{
		"listen": true,
	}

	cfg := Config{
		ListenAddr: ":3333", // CLI wins
	}

	if err := ApplyFileConfig(&cfg, fileConf, changed); err != nil {
		t.Fatalf("ApplyFileConfig failed: %v", err)
	}
	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		t.Fatalf("ApplyEnvConfig failed: %v", err)
	}

	if cfg.ListenAddr != ":3333" {
		t.Errorf("ListenAddr = %v, want :3333 (CLI should win)", cfg.ListenAddr)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %v, want debug (env should override file)", cfg.LogLevel)
	}
	if cfg.SQLitePath != "/file/fish.db" {
		t.Errorf("SQLitePath = %v, want /file/fish.db (file should set)", cfg.SQLitePath)
	}
	if !cfg.WatchConfig {
		t.Error("WatchConfig = false, want true (file should set)")
	}
}

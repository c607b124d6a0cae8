// Package fishery runs the fish record API from CLI-style configuration.
//
// Example usage:
//
//	cfg := fishery.DefaultConfig()
//	cfg.SQLitePath = "/var/lib/fishery/fishery.db"
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//	if err := fishery.Run(ctx, cfg, ""); err != nil {
//	    log.Fatal(err)
//	}
package fishery

import (
	"context"
	"fmt"
	"time"

	"github.com/bft-labs/fishery/internal/cliconfig"
	server "github.com/bft-labs/fishery/pkg/fishery"
)

// Config holds the configuration for the fishery server.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config = cliconfig.Config

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return cliconfig.DefaultConfig()
}

// ServerConfig converts a validated Config into the embedding API's config.
// configPath is forwarded to plugins that watch the file.
func ServerConfig(cfg Config, configPath string) server.Config {
	return server.Config{
		ListenAddr:      cfg.ListenAddr,
		Driver:          cfg.Driver,
		SQLitePath:      cfg.SQLitePath,
		PostgresDSN:     cfg.PostgresDSN,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
		DefaultLocale:   cfg.DefaultLocale,
		Metrics:         cfg.Metrics,
		ConfigPath:      configPath,
	}
}

// Run serves until ctx is cancelled or the server crashes, then shuts down.
func Run(ctx context.Context, cfg Config, configPath string, opts ...server.Option) error {
	srv, err := server.New(ServerConfig(cfg, configPath), opts...)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := srv.Stop(); err != nil {
				return fmt.Errorf("stop server: %w", err)
			}
			return nil
		case <-ticker.C:
			if srv.Status() == server.StateCrashed {
				_ = srv.Stop()
				return fmt.Errorf("server crashed")
			}
		}
	}
}

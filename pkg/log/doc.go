// Package log provides the logging abstraction used across fishery.
//
// This package defines a Logger interface that can be implemented by any
// logging library. A zerolog-backed implementation is provided for the
// server, and a no-op logger for tests and embedding.
//
// # Usage
//
// Build a logger from the configured level and format:
//
//	logger, err := log.New(log.Options{Level: "info", Format: "json"})
//
// Or wrap an existing zerolog.Logger:
//
//	logger := log.NewZerologAdapterWithLogger(zerolog.New(os.Stderr))
//
// # Levels
//
// The level is process-wide. [SetLevel] changes it at runtime, which is how
// the config watcher applies an edited log_level without a restart.
package log

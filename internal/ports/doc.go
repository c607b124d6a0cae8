// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// Ports are the boundaries between the service core and the outside world.
// They say what the application needs from storage, logging and metrics
// without saying how those needs are met.
//
// # Port Interfaces
//
//   - [Storage]: Hands out one [Session] per request
//   - [Session]: Reads fish and scopes writes in a transaction
//   - [FishTx]: The operations available inside a write transaction
//   - [Recorder]: Observes the outcome and latency of service operations
//   - [Logger]: Structured logging abstraction
//
// # Usage
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with bun over
// SQLite or Postgres, zerolog and Prometheus.
package ports

// Package fishery provides an embeddable fish record API server.
//
// The server exposes create, read, update, delete and list operations over
// a single "fishes" table, stored in an embedded SQLite file or a
// PostgreSQL database. It can be run through the fishery CLI or embedded
// as a library in other Go programs.
//
// # Basic Usage
//
//	srv, err := fishery.New(fishery.Config{
//	    ListenAddr: ":8000",
//	    SQLitePath: "/var/lib/fishery/fishery.db",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := srv.Start(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//
//	// ... run until shutdown signal ...
//
//	if err := srv.Stop(); err != nil {
//	    log.Printf("shutdown error: %v", err)
//	}
//
// # Event Handling
//
// To observe lifecycle transitions, implement [EventHandler] and pass it via
// [WithEventHandler]. Embed [BaseEventHandler] for no-op defaults.
//
// # Lifecycle States
//
// A Server is in one of five states: [StateStopped], [StateStarting],
// [StateRunning], [StateStopping] or [StateCrashed]. Use [Server.Status] to
// query the current state. A crashed server can be started again.
//
// # Plugins
//
// Plugins registered with [WithPlugin] are initialized before the server
// accepts requests and shut down after it stops:
//
//	import "github.com/bft-labs/fishery/plugins/configwatcher"
//
//	srv, err := fishery.New(cfg,
//	    configwatcher.WithConfigWatcher(configwatcher.DefaultConfig()),
//	)
//
// # Metrics
//
// With Config.Metrics set, operation counters and latencies are exported in
// the Prometheus format on /metrics. [WithRegistry] registers them on a
// caller-owned registry instead of a private one.
package fishery

package configwatcher

import "github.com/bft-labs/fishery/pkg/fishery"

// WithConfigWatcher returns a fishery Option that enables config file watching.
//
// Usage:
//
//	srv, err := fishery.New(cfg,
//	    configwatcher.WithConfigWatcher(configwatcher.Config{
//	        DebounceDelay: 100 * time.Millisecond,
//	    }),
//	)
func WithConfigWatcher(cfg Config) fishery.Option {
	return fishery.WithPlugin(New(cfg))
}

// WithDefaultConfigWatcher returns a fishery Option that enables config
// watching with default settings (debounce 100ms).
func WithDefaultConfigWatcher() fishery.Option {
	return WithConfigWatcher(DefaultConfig())
}

package fishery

import "context"

// Plugin extends a Server with optional behavior. Plugins are initialized
// in registration order when the server starts and shut down in reverse
// order when it stops.
type Plugin interface {
	// Name identifies the plugin in logs.
	Name() string

	// Initialize is called during Start, before the server accepts
	// requests. An error aborts Start and leaves the server Crashed.
	Initialize(ctx context.Context, cfg PluginConfig) error

	// Shutdown is called during Stop. Errors are logged, not returned.
	Shutdown(ctx context.Context) error
}

// PluginConfig is what a plugin gets to know about the server.
type PluginConfig struct {
	ListenAddr string
	ConfigPath string
	Logger     Logger
}

// BasePlugin provides no-op implementations for embedding.
type BasePlugin struct{}

func (BasePlugin) Name() string                                   { return "base" }
func (BasePlugin) Initialize(context.Context, PluginConfig) error { return nil }
func (BasePlugin) Shutdown(context.Context) error                 { return nil }

// State is the lifecycle state of a Server.
type State int

const (
	StateStopped State = iota
	StateStarting
	StateRunning
	StateStopping
	StateCrashed
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateStarting:
		return "Starting"
	case StateRunning:
		return "Running"
	case StateStopping:
		return "Stopping"
	case StateCrashed:
		return "Crashed"
	default:
		return "Unknown"
	}
}

// StateChangeEvent describes one lifecycle transition.
type StateChangeEvent struct {
	Previous State
	Current  State
	Reason   string
}

// EventHandler receives server events. Calls are synchronous; keep them short.
type EventHandler interface {
	OnStateChange(event StateChangeEvent)
}

// BaseEventHandler ignores every event.
type BaseEventHandler struct{}

func (BaseEventHandler) OnStateChange(StateChangeEvent) {}

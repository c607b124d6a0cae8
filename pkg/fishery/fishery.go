package fishery

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	httpAdapter "github.com/bft-labs/fishery/internal/adapters/http"
	"github.com/bft-labs/fishery/internal/adapters/metrics"
	"github.com/bft-labs/fishery/internal/adapters/storage"
	"github.com/bft-labs/fishery/internal/app"
	"github.com/bft-labs/fishery/internal/domain"
	"github.com/bft-labs/fishery/internal/i18n"
	"github.com/bft-labs/fishery/internal/ports"
	"github.com/bft-labs/fishery/pkg/log"
)

// Errors returned by Start and Stop. They can be checked with errors.Is.
var (
	ErrAlreadyRunning  = domain.ErrAlreadyRunning
	ErrNotRunning      = domain.ErrNotRunning
	ErrShutdownTimeout = domain.ErrShutdownTimeout
)

// Server is an embeddable fishery HTTP API.
// Use New() to create an instance, then Start() to begin serving.
type Server struct {
	config    Config
	logger    Logger
	lifecycle *app.Lifecycle
	plugins   []Plugin
	metrics   *metrics.Recorder

	// started holds the plugins initialized by the current run.
	started []Plugin

	mu       sync.RWMutex
	store    *storage.Store
	http     *http.Server
	listener net.Listener
}

// New creates a Server with the given configuration.
// The instance is created in StateStopped; call Start() to begin serving.
func New(cfg Config, opts ...Option) (*Server, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.NewNoopLogger()
	}

	var emitter app.EventEmitter
	if o.eventHandler != nil {
		emitter = &eventEmitterWrapper{handler: o.eventHandler}
	}

	s := &Server{
		config:    cfg,
		logger:    o.logger,
		lifecycle: app.NewLifecycle(o.logger, emitter),
		plugins:   o.plugins,
	}

	if cfg.Metrics {
		rec, err := metrics.NewRecorder(o.registry)
		if err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		s.metrics = rec
	}

	return s, nil
}

// Start opens storage, binds the listener and serves in the background.
// It returns once the server accepts connections.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.lifecycle.CanStart() {
		return ErrAlreadyRunning
	}
	if err := s.lifecycle.TransitionTo(app.StateStarting, "Start() called"); err != nil {
		return err
	}

	// Leftovers from a crashed run.
	s.closeResources()

	runCtx, cancel := context.WithCancel(ctx)
	s.lifecycle.SetCancel(cancel)

	fail := func(reason string, err error) error {
		cancel()
		s.shutdownPlugins()
		s.closeResources()
		_ = s.lifecycle.TransitionTo(app.StateCrashed, reason)
		return err
	}

	store, err := storage.Open(runCtx, s.config.storageConfig())
	if err != nil {
		return fail("storage unavailable", fmt.Errorf("open storage: %w", err))
	}
	s.store = store

	ln, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		return fail("listen failed", fmt.Errorf("listen %s: %w", s.config.ListenAddr, err))
	}
	s.listener = ln

	pluginCfg := PluginConfig{
		ListenAddr: ln.Addr().String(),
		ConfigPath: s.config.ConfigPath,
		Logger:     s.logger,
	}
	for _, p := range s.plugins {
		if err := p.Initialize(runCtx, pluginCfg); err != nil {
			s.logger.Error("plugin initialization failed",
				log.String("plugin", p.Name()),
				log.Err(err))
			return fail("plugin init failed: "+p.Name(), err)
		}
		s.started = append(s.started, p)
		s.logger.Info("plugin initialized", log.String("plugin", p.Name()))
	}

	s.http = &http.Server{
		Handler:      s.handler(store),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	if err := s.lifecycle.TransitionTo(app.StateRunning, "listening on "+ln.Addr().String()); err != nil {
		return fail("transition failed", err)
	}

	srv := s.http
	s.lifecycle.Go(func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server error", log.Err(err))
			_ = s.lifecycle.TransitionTo(app.StateCrashed, err.Error())
		}
	})

	return nil
}

func (s *Server) handler(store ports.Storage) http.Handler {
	var (
		recorder ports.Recorder
		opts     = httpAdapter.Options{Logger: s.logger}
	)
	if tag, ok := i18n.ParseTag(s.config.DefaultLocale); ok {
		opts.DefaultLocale = tag
	}
	if s.metrics != nil {
		recorder = s.metrics
		opts.Requests = s.metrics
		opts.MetricsHandler = s.metrics.Handler()
	}

	svc := app.NewFishService(store, s.logger, recorder)
	return httpAdapter.NewServer(svc, opts)
}

// Stop gracefully shuts the server down: it stops accepting connections,
// waits for in-flight requests up to Config.ShutdownTimeout, stops plugins
// and releases storage. Returns ErrShutdownTimeout if requests were cut off.
//
// On a crashed server Stop only releases what the failed run left behind
// and returns nil; the state stays Crashed.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lifecycle.State() == app.StateCrashed {
		s.lifecycle.Cancel()
		s.shutdownPlugins()
		s.closeResources()
		return nil
	}
	if !s.lifecycle.CanStop() {
		return ErrNotRunning
	}
	if err := s.lifecycle.TransitionTo(app.StateStopping, "Stop() called"); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	var err error
	if s.http != nil {
		if shutdownErr := s.http.Shutdown(ctx); shutdownErr != nil {
			s.logger.Warn("graceful shutdown incomplete", log.Err(shutdownErr))
			_ = s.http.Close()
			err = ErrShutdownTimeout
		}
	}
	s.lifecycle.Cancel()

	if waitErr := s.lifecycle.WaitWithTimeout(s.config.ShutdownTimeout); waitErr != nil && err == nil {
		err = waitErr
	}

	s.shutdownPlugins()
	s.closeResources()

	if err != nil {
		_ = s.lifecycle.TransitionTo(app.StateCrashed, "shutdown timeout")
	} else {
		_ = s.lifecycle.TransitionTo(app.StateStopped, "graceful shutdown")
	}
	return err
}

// shutdownPlugins stops the started plugins in reverse order. Callers hold s.mu.
func (s *Server) shutdownPlugins() {
	for i := len(s.started) - 1; i >= 0; i-- {
		p := s.started[i]
		if err := p.Shutdown(context.Background()); err != nil {
			s.logger.Error("plugin shutdown failed",
				log.String("plugin", p.Name()),
				log.Err(err))
		} else {
			s.logger.Info("plugin shutdown complete", log.String("plugin", p.Name()))
		}
	}
	s.started = nil
}

// closeResources releases the listener and storage. Callers hold s.mu.
func (s *Server) closeResources() {
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn("close storage", log.Err(err))
		}
		s.store = nil
	}
	s.http = nil
}

// Status returns the current lifecycle state.
// Safe to call concurrently from any goroutine.
func (s *Server) Status() State {
	return convertState(s.lifecycle.State())
}

// Addr returns the bound listen address, or "" when not running.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// eventEmitterWrapper adapts EventHandler to app.EventEmitter.
type eventEmitterWrapper struct {
	handler EventHandler
}

func (e *eventEmitterWrapper) OnStateChange(previous, current app.State, reason string) {
	e.handler.OnStateChange(StateChangeEvent{
		Previous: convertState(previous),
		Current:  convertState(current),
		Reason:   reason,
	})
}

func convertState(s app.State) State {
	switch s {
	case app.StateStopped:
		return StateStopped
	case app.StateStarting:
		return StateStarting
	case app.StateRunning:
		return StateRunning
	case app.StateStopping:
		return StateStopping
	case app.StateCrashed:
		return StateCrashed
	default:
		return StateStopped
	}
}

// Package http exposes the fish operations over a JSON API built on echo.
//
// Routes:
//
//	GET    /fish
//	POST   /fish
//	GET    /fish/:id
//	PUT    /fish/:id
//	DELETE /fish/:id
//	GET    /healthz
//	GET    /metrics   (when a metrics handler is configured)
//
// Errors are rendered as {"detail": ...} so existing clients of the API keep
// working unchanged.
package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/text/language"

	"github.com/bft-labs/fishery/internal/domain"
	"github.com/bft-labs/fishery/internal/i18n"
	"github.com/bft-labs/fishery/internal/ports"
	"github.com/bft-labs/fishery/pkg/log"
)

// Service is the set of operations the API serves.
type Service interface {
	List(ctx context.Context) ([]domain.Fish, error)
	Create(ctx context.Context, in domain.FishCreate) (domain.Fish, error)
	Get(ctx context.Context, id int64) (domain.Fish, error)
	Update(ctx context.Context, id int64, in domain.FishUpdate) (domain.Fish, error)
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}

// RequestObserver is notified once per served request.
type RequestObserver interface {
	ObserveRequest(route, method string, code int)
}

// Options configures a Server. All fields are optional.
type Options struct {
	Logger         ports.Logger
	Requests       RequestObserver
	MetricsHandler http.Handler
	DefaultLocale  language.Tag
}

// Server routes HTTP requests to a Service.
type Server struct {
	echo     *echo.Echo
	svc      Service
	logger   ports.Logger
	requests RequestObserver
	locale   language.Tag
}

// NewServer builds the echo router for svc.
func NewServer(svc Service, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.NewNoopLogger()
	}
	if opts.DefaultLocale == (language.Tag{}) {
		opts.DefaultLocale = i18n.Default()
	}

	s := &Server{
		echo:     echo.New(),
		svc:      svc,
		logger:   opts.Logger,
		requests: opts.Requests,
		locale:   opts.DefaultLocale,
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newBodyValidator()
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(s.accessLog)
	e.Use(middleware.Recover())
	e.Use(s.resolveLocale)

	e.GET("/fish", s.listFish)
	e.POST("/fish", s.createFish)
	e.GET("/fish/:id", s.getFish)
	e.PUT("/fish/:id", s.updateFish)
	e.DELETE("/fish/:id", s.deleteFish)
	e.GET("/healthz", s.health)
	if opts.MetricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(opts.MetricsHandler))
	}

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

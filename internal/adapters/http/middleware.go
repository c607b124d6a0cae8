package http

import (
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/text/language"

	"github.com/bft-labs/fishery/internal/i18n"
	"github.com/bft-labs/fishery/pkg/log"
)

const localeKey = "fishery.locale"

// accessLog logs one line per request and feeds the request counter. Handler
// errors are rendered here so the logged status is the one sent.
func (s *Server) accessLog(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		if err := next(c); err != nil {
			c.Error(err)
		}

		req := c.Request()
		res := c.Response()
		route := c.Path()
		if route == "" {
			route = "unmatched"
		}

		s.logger.Info("request",
			log.String("method", req.Method),
			log.String("path", req.URL.Path),
			log.Int("status", res.Status),
			log.Duration("latency", time.Since(start)),
			log.String("request_id", requestID(c)),
		)
		if s.requests != nil {
			s.requests.ObserveRequest(route, req.Method, res.Status)
		}
		return nil
	}
}

func (s *Server) resolveLocale(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Set(localeKey, i18n.Resolve(c.Request(), s.locale))
		return next(c)
	}
}

func localeOf(c echo.Context) language.Tag {
	if tag, ok := c.Get(localeKey).(language.Tag); ok {
		return tag
	}
	return i18n.Default()
}

func requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

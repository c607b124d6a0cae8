package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bft-labs/fishery/internal/domain"
	"github.com/bft-labs/fishery/internal/i18n"
	"github.com/bft-labs/fishery/pkg/log"
)

type errorResponse struct {
	Detail any `json:"detail"`
}

// statusOf maps an error to its HTTP status and response detail.
func (s *Server) statusOf(c echo.Context, err error) (int, any) {
	var (
		verr *domain.ValidationError
		perr *domain.PersistenceError
		herr *echo.HTTPError
	)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, i18n.T(localeOf(c), i18n.KeyFishNotFound)
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, verr.Fields
	case errors.As(err, &perr):
		return http.StatusInternalServerError, perr.Error()
	case errors.As(err, &herr):
		if herr.Code >= http.StatusInternalServerError {
			return herr.Code, i18n.T(localeOf(c), i18n.KeyInternal)
		}
		return herr.Code, fmt.Sprint(herr.Message)
	default:
		return http.StatusInternalServerError, i18n.T(localeOf(c), i18n.KeyInternal)
	}
}

// handleError is the echo.HTTPErrorHandler. Server errors are logged here and
// nowhere else.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, detail := s.statusOf(c, err)
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			log.String("method", c.Request().Method),
			log.String("path", c.Request().URL.Path),
			log.String("request_id", requestID(c)),
			log.Err(err),
		)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, errorResponse{Detail: detail})
	}
	if err != nil {
		s.logger.Warn("write error response", log.Err(err))
	}
}

package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bft-labs/fishery/internal/domain"
	"github.com/bft-labs/fishery/internal/i18n"
	"github.com/bft-labs/fishery/pkg/log"
)

type fishResponse struct {
	Fish   domain.Fish `json:"fish"`
	Status bool        `json:"status"`
}

type messageResponse struct {
	Message string `json:"message"`
	Status  bool   `json:"status"`
}

type healthResponse struct {
	Status string `json:"status"`
}

func (s *Server) listFish(c echo.Context) error {
	fishes, err := s.svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	if fishes == nil {
		fishes = []domain.Fish{}
	}
	return c.JSON(http.StatusOK, fishes)
}

func (s *Server) createFish(c echo.Context) error {
	var in domain.FishCreate
	if err := bindBody(c, &in); err != nil {
		return err
	}
	f, err := s.svc.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, fishResponse{Fish: f, Status: true})
}

func (s *Server) getFish(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	f, err := s.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, f)
}

func (s *Server) updateFish(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var in domain.FishUpdate
	if err := bindBody(c, &in); err != nil {
		return err
	}
	f, err := s.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fishResponse{Fish: f, Status: true})
}

func (s *Server) deleteFish(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{
		Message: i18n.T(localeOf(c), i18n.KeyFishDeleted),
		Status:  true,
	})
}

func (s *Server) health(c echo.Context) error {
	if err := s.svc.Ping(c.Request().Context()); err != nil {
		s.logger.Warn("health check failed", log.Err(err))
		return c.JSON(http.StatusServiceUnavailable, errorResponse{
			Detail: i18n.T(localeOf(c), i18n.KeyUnavailable),
		})
	}
	return c.JSON(http.StatusOK, healthResponse{Status: "ok"})
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, &domain.ValidationError{Fields: []domain.FieldError{{
			Field:   "id",
			Message: "id must be an integer",
		}}}
	}
	return id, nil
}

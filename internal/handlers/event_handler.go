package handlers

import (
	"errors"
	"net/http"

	"github.com/arefin88/vidora/backend/internal/notify"
	"github.com/arefin88/vidora/backend/pkg/errno"
	"github.com/labstack/echo/v4"
)

// EventHandler is the internal ingestion endpoint for activity producers
// (upload pipeline, comment service, ...). Producers never see delivery
// outcome beyond the channel activation summary.
type EventHandler struct {
	service *notify.Service
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(service *notify.Service) *EventHandler {
	return &EventHandler{service: service}
}

// RegisterEventRoutes registers producer-facing routes
func (h *EventHandler) RegisterEventRoutes(g *echo.Group) {
	g.POST("/events", h.IngestEvent)
}

// IngestEvent accepts one activity event and runs it through the filter
func (h *EventHandler) IngestEvent(c echo.Context) error {
	var event notify.Event
	if err := c.Bind(&event); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&event); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	outcome, err := h.service.Ingest(c.Request().Context(), event)
	if err != nil {
		if errors.Is(err, errno.ErrInvalidArgument) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if errors.Is(err, errno.ErrUnavailable) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusAccepted, echo.Map{"success": true, "data": outcome})
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/arefin88/vidora/backend/internal/models"
	"github.com/arefin88/vidora/backend/internal/repositories"
	"github.com/arefin88/vidora/backend/pkg/errno"
	"github.com/labstack/echo/v4"
)

// PreferenceHandler exposes the per-user notification preference matrix.
type PreferenceHandler struct {
	preferenceRepository repositories.PreferenceRepository
}

// NewPreferenceHandler creates a new PreferenceHandler
func NewPreferenceHandler(prefRepo repositories.PreferenceRepository) *PreferenceHandler {
	return &PreferenceHandler{preferenceRepository: prefRepo}
}

// RegisterPreferenceRoutes registers preference routes
func (h *PreferenceHandler) RegisterPreferenceRoutes(g *echo.Group) {
	g.GET("/preferences/notifications", h.GetPreferences)
	g.PUT("/preferences/notifications", h.ReplacePreferences)
	g.PATCH("/preferences/notifications/:channel", h.SetChannel)
	g.PATCH("/preferences/notifications/:channel/:type", h.SetField)
}

// UpdatePreferencesRequest is the PUT body. Types missing from a bucket fall
// back to enabled.
type UpdatePreferencesRequest struct {
	Email map[string]bool `json:"email"`
	Push  map[string]bool `json:"push"`
	InApp map[string]bool `json:"in_app"`
}

// SetFlagRequest is the PATCH body for channel and field updates.
type SetFlagRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

func validateBucket(bucket map[string]bool) error {
	for key := range bucket {
		if !models.NotificationType(key).Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "Unknown notification type: "+key)
		}
	}
	return nil
}

// GetPreferences returns the caller's preference document, defaulted on first access
func (h *PreferenceHandler) GetPreferences(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	prefs, err := h.preferenceRepository.Get(c.Request().Context(), currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": prefs})
}

// ReplacePreferences replaces the caller's preference document wholesale
func (h *PreferenceHandler) ReplacePreferences(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req UpdatePreferencesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	for _, bucket := range []map[string]bool{req.Email, req.Push, req.InApp} {
		if err := validateBucket(bucket); err != nil {
			return err
		}
	}

	prefs := &models.NotificationPreferences{
		UserID: currentUserID,
		Email:  req.Email,
		Push:   req.Push,
		InApp:  req.InApp,
	}
	prefs.FillDefaults()

	if err := h.preferenceRepository.Replace(c.Request().Context(), prefs); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": prefs})
}

// SetChannel bulk-enables or bulk-disables every type within one channel
func (h *PreferenceHandler) SetChannel(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req SetFlagRequest
	if err := c.Bind(&req); err != nil || req.Enabled == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	err := h.preferenceRepository.SetChannel(c.Request().Context(), currentUserID, c.Param("channel"), *req.Enabled)
	if err != nil {
		if errors.Is(err, errno.ErrInvalidArgument) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"success": true}})
}

// SetField flips a single channel/type flag
func (h *PreferenceHandler) SetField(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req SetFlagRequest
	if err := c.Bind(&req); err != nil || req.Enabled == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	err := h.preferenceRepository.SetField(
		c.Request().Context(),
		currentUserID,
		c.Param("channel"),
		models.NotificationType(c.Param("type")),
		*req.Enabled,
	)
	if err != nil {
		if errors.Is(err, errno.ErrInvalidArgument) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"success": true}})
}

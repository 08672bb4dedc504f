package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/arefin88/vidora/backend/internal/models"
	"github.com/arefin88/vidora/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// NotificationHandler exposes the client-facing read-state operations. It owns
// no state machine logic itself: it translates identifiers, enforces that a
// caller only mutates its own notifications, and delegates to the store.
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
	userRepository         repositories.UserRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifRepo repositories.NotificationRepository, userRepo repositories.UserRepository) *NotificationHandler {
	return &NotificationHandler{
		notificationRepository: notifRepo,
		userRepository:         userRepo,
	}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.POST("/notifications/:id/read", h.MarkAsRead)
	g.POST("/notifications/read-all", h.MarkAllAsRead)
	g.POST("/notifications/:id/clicked", h.MarkAsClicked)
	g.DELETE("/notifications/:id", h.DeleteNotification)
	g.DELETE("/notifications", h.ClearAll)
}

// EnrichedNotification includes a compact sender projection; Sender is nil for
// system-generated notifications.
type EnrichedNotification struct {
	models.Notification
	Sender *models.UserCompact `json:"sender,omitempty"`
}

func (h *NotificationHandler) enrichNotifications(notifications []models.Notification) []EnrichedNotification {
	enriched := make([]EnrichedNotification, len(notifications))
	userCache := make(map[uint]models.UserCompact)

	for i, n := range notifications {
		enriched[i] = EnrichedNotification{Notification: n}
		if n.SenderID == nil {
			continue
		}
		if sender, ok := userCache[*n.SenderID]; ok {
			enriched[i].Sender = &sender
		} else {
			user, err := h.userRepository.GetUserByID(*n.SenderID)
			if err == nil {
				compact := user.ToCompact()
				userCache[*n.SenderID] = compact
				enriched[i].Sender = &compact
			}
		}
	}
	return enriched
}

// GetNotifications returns paginated notifications, newest first
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("pageSize"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 50 {
		pageSize = 20
	}
	unreadOnly := c.QueryParam("unreadOnly") == "true"

	notifications, total, err := h.notificationRepository.List(currentUserID, page, pageSize, unreadOnly)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))
	enriched := h.enrichNotifications(notifications)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"notifications": enriched,
		},
		"meta": echo.Map{
			"currentPage":     page,
			"totalPages":      totalPages,
			"totalItems":      total,
			"itemsPerPage":    pageSize,
			"hasNextPage":     page < totalPages,
			"hasPreviousPage": page > 1,
		},
	})
}

// GetUnreadCount returns the unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	count, err := h.notificationRepository.UnreadCount(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"count": count}})
}

// resolveOwned parses the :id param and checks ownership. A missing
// notification returns (0, nil, nil): mutations on missing ids are no-ops per
// the idempotence contract. A notification owned by someone else is Forbidden.
func (h *NotificationHandler) resolveOwned(c echo.Context, currentUserID uint) (uint, *models.Notification, error) {
	notifID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid notification ID")
	}

	notification, err := h.notificationRepository.GetByID(uint(notifID))
	if err != nil {
		return 0, nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if notification == nil {
		return 0, nil, nil
	}
	if notification.RecipientID != currentUserID {
		return 0, nil, echo.NewHTTPError(http.StatusForbidden, "Notification belongs to another user")
	}
	return uint(notifID), notification, nil
}

// MarkAsRead marks a notification as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	notifID, notification, err := h.resolveOwned(c, currentUserID)
	if err != nil {
		return err
	}
	if notification != nil {
		if err := h.notificationRepository.MarkRead(notifID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"success": true}})
}

// MarkAsClicked marks a notification as clicked; clicking implies read
func (h *NotificationHandler) MarkAsClicked(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	notifID, notification, err := h.resolveOwned(c, currentUserID)
	if err != nil {
		return err
	}
	if notification != nil {
		if err := h.notificationRepository.MarkClicked(notifID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"success": true}})
}

// MarkAllAsRead marks all notifications as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.notificationRepository.MarkAllRead(currentUserID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"success": true}})
}

// DeleteNotification removes a single notification; delete is terminal
func (h *NotificationHandler) DeleteNotification(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	notifID, notification, err := h.resolveOwned(c, currentUserID)
	if err != nil {
		return err
	}
	if notification != nil {
		if err := h.notificationRepository.Delete(notifID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"success": true}})
}

// ClearAll removes every notification for the caller
func (h *NotificationHandler) ClearAll(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.notificationRepository.ClearAll(currentUserID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"success": true}})
}

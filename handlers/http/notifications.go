package httpHandler

import (
	"log"
	"net/http"
	"strconv"

	"security-monitor/entities"
	"security-monitor/seed"
	"security-monitor/usecases"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifications *usecases.NotificationUseCase
	users         *usecases.AuthUseCase
	seeder        *seed.Initializer
}

func NewNotificationHandler(notifications *usecases.NotificationUseCase, users *usecases.AuthUseCase, seeder *seed.Initializer) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, users: users, seeder: seeder}
}

// feedOwner resolves the caller's notification client. It writes the error
// response and returns false when there is none.
func (h *NotificationHandler) feedOwner(c *gin.Context) (*entities.User, bool) {
	user, err := h.users.GetUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if user.ClientID == nil && h.seeder == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "account has no notification feed"})
		return nil, false
	}
	return user, true
}

// List handles GET /api/v1/notifications. A first visit seeds the account's
// demo notifications.
func (h *NotificationHandler) List(c *gin.Context) {
	user, ok := h.feedOwner(c)
	if !ok {
		return
	}
	if h.seeder != nil {
		if n, err := h.seeder.EnsureNotifications(c.Request.Context(), user); err != nil {
			log.Printf("Error seeding notifications for %s: %v", user.Username, err)
		} else if n > 0 {
			log.Printf("Seeded %d notifications for %s", n, user.Username)
		}
	}
	if user.ClientID == nil {
		c.JSON(http.StatusOK, gin.H{"data": []NotificationView{}, "count": 0})
		return
	}

	ns := h.notifications.ListForClient(c.Request.Context(), *user.ClientID)
	c.JSON(http.StatusOK, gin.H{"data": NewNotificationViews(ns), "count": len(ns)})
}

// UnreadCount handles GET /api/v1/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	user, ok := h.feedOwner(c)
	if !ok {
		return
	}
	if user.ClientID == nil {
		c.JSON(http.StatusOK, gin.H{"count": 0})
		return
	}
	count, err := h.notifications.UnreadCount(c.Request.Context(), *user.ClientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// MarkRead handles POST /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}
	user, ok := h.feedOwner(c)
	if !ok {
		return
	}
	if user.ClientID == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	owns, err := h.notifications.Owns(c.Request.Context(), *user.ClientID, uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	if !owns {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if err := h.notifications.MarkAsRead(c.Request.Context(), uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MarkAllRead handles POST /api/v1/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	user, ok := h.feedOwner(c)
	if !ok {
		return
	}
	if user.ClientID != nil {
		if err := h.notifications.MarkAllAsReadForClient(c.Request.Context(), *user.ClientID); err != nil {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"

	"security-monitor/auth"
	"security-monitor/entities"
	httpHandler "security-monitor/handlers/http"
	"security-monitor/live"
	"security-monitor/usecases"
	"security-monitor/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Client -> server envelopes
type incomingMessage struct {
	Type           string `json:"type"` // mark_read | mark_all_read | ping
	NotificationID uint   `json:"notification_id,omitempty"`
}

// Server -> client envelopes
type outgoingMessage struct {
	Type  string      `json:"type"` // notifications | unread_count | error | pong
	Seq   uint64      `json:"seq"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// WSHandler streams live notification snapshots to signed-in users.
type WSHandler struct {
	mgr           *ws.Manager
	tokens        *auth.TokenIssuer
	users         *usecases.AuthUseCase
	notifications *usecases.NotificationUseCase
}

func NewWSHandler(mgr *ws.Manager, tokens *auth.TokenIssuer, users *usecases.AuthUseCase, notifications *usecases.NotificationUseCase) *WSHandler {
	return &WSHandler{mgr: mgr, tokens: tokens, users: users, notifications: notifications}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// HandleNotificationsWS upgrades and pushes the caller's notification list
// and unread count every time either changes.
// GET /ws/notifications?token=<jwt>
func (h *WSHandler) HandleNotificationsWS(c *gin.Context) {
	raw := c.Query("token")
	if raw == "" {
		raw = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	}
	claims, err := h.tokens.Parse(raw)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	user, err := h.users.GetUser(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	if user.ClientID == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "account has no notification feed"})
		return
	}
	clientID := *user.ClientID

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	scope := live.NewScope(ctx)
	h.mgr.Register(user.ID, conn, cancel)
	log.Printf("notification stream opened for %s", user.Username)

	defer func() {
		h.mgr.Unregister(user.ID, conn)
		_ = scope.Close()
		log.Printf("notification stream closed for %s", user.Username)
	}()

	var writeMu sync.Mutex
	send := func(msg outgoingMessage) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("write to %s failed: %v", user.Username, err)
			_ = conn.Close()
		}
	}

	live.Forward(scope, func(ctx context.Context) *live.Subscription[[]entities.Notification] {
		return h.notifications.WatchForClient(ctx, clientID)
	}, func(s live.Snapshot[[]entities.Notification]) {
		if s.Err != nil {
			send(outgoingMessage{Type: "error", Seq: s.Seq, Error: "could not load notifications"})
			return
		}
		send(outgoingMessage{Type: "notifications", Seq: s.Seq, Data: httpHandler.NewNotificationViews(s.Data)})
	})
	live.Forward(scope, func(ctx context.Context) *live.Subscription[int64] {
		return h.notifications.WatchUnreadCount(ctx, clientID)
	}, func(s live.Snapshot[int64]) {
		if s.Err != nil {
			return
		}
		send(outgoingMessage{Type: "unread_count", Seq: s.Seq, Data: s.Data})
	})

	reqCtx := usecases.WithClientIP(ctx, c.ClientIP())
	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && ctx.Err() == nil {
				log.Printf("read error from %s: %v", user.Username, err)
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}

		var in incomingMessage
		if err := json.Unmarshal(message, &in); err != nil {
			log.Printf("invalid json from %s: %v", user.Username, err)
			continue
		}

		switch in.Type {
		case "mark_read":
			owns, err := h.notifications.Owns(reqCtx, clientID, in.NotificationID)
			if err != nil || !owns {
				send(outgoingMessage{Type: "error", Error: "notification not found"})
				continue
			}
			if err := h.notifications.MarkAsRead(reqCtx, in.NotificationID); err != nil {
				log.Printf("mark read %d failed: %v", in.NotificationID, err)
			}
		case "mark_all_read":
			if err := h.notifications.MarkAllAsReadForClient(reqCtx, clientID); err != nil {
				log.Printf("mark all read for client %d failed: %v", clientID, err)
			}
		case "ping":
			send(outgoingMessage{Type: "pong"})
		default:
			log.Printf("unknown message type from %s: %s", user.Username, in.Type)
		}
	}
}

// GetConnectedUsers GET /api/v1/streams
func (h *WSHandler) GetConnectedUsers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"users": h.mgr.List(), "count": h.mgr.Count()})
}

package ws

import (
	"log"
	"net/http"

	"habitlink-backend/internal/notification"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Token auth happens in the middleware; origins are not restricted
	// because native apps send none.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades authenticated requests to websocket sessions and keeps
// the session registry in sync with their lifecycle.
type Handler struct {
	registry *notification.Registry
}

func NewHandler(registry *notification.Registry) *Handler {
	return &Handler{registry: registry}
}

// Serve upgrades the request and blocks until the session ends. The
// session is registered under the caller's (user, device token) pair taken
// from the auth middleware.
func (h *Handler) Serve(c *gin.Context) {
	userID := c.GetString("userID")
	deviceID := c.GetString("deviceID")
	if userID == "" || deviceID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session identity"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade failed for user %s: %v", userID, err)
		return
	}

	session := newSession(conn)
	sessionID := h.registry.Register(userID, deviceID, session)
	log.Printf("[WS] Session %s connected (user %s, device %s), %d live", sessionID, userID, deviceID, h.registry.Count())

	go session.writePump()
	session.readPump()

	h.registry.Unregister(userID, deviceID, sessionID)
	log.Printf("[WS] Session %s disconnected (user %s), %d live", sessionID, userID, h.registry.Count())
}

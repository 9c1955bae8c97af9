package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Handler for WebSocket connections
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewHandler creates a new WebSocket handler. allowedOrigins extends the same-origin default.
func NewHandler(hub *Hub, logger zerolog.Logger, allowedOrigins ...string) *Handler {
	return &Handler{
		hub:      hub,
		upgrader: NewUpgrader(allowedOrigins...),
		logger:   logger,
	}
}

// HandleConnection godoc
// @Summary Stream wizard events
// @Description Upgrades to a WebSocket that receives the session's wizard state and progress events
// @Tags wizard, websocket
// @Param schoolId path string true "School ID"
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 302 {string} string "Redirect to /auth/login when there is no session"
// @Router /school/{schoolId}/wizard/events [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	// Set by the session middleware
	sessionID := c.GetString("sessionID")
	userID := c.GetString("userID")
	if sessionID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Session not found in context",
		})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("sessionID", sessionID).
			Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:       h.hub,
		conn:      conn,
		send:      make(chan []byte, 64),
		sessionID: sessionID,
		userID:    userID,
		logger:    h.logger,
	}

	select {
	case h.hub.register <- client:
	case <-h.hub.done:
		conn.Close()
		return
	}

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Str("sessionID", sessionID).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("WebSocket connection established")
}

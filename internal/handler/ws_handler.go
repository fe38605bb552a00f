package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/nexusprep/assessd/internal/engine"
	"github.com/nexusprep/assessd/internal/response"
	"github.com/nexusprep/assessd/internal/websocket"
)

// WSHandler upgrades clients onto a session's live event stream.
type WSHandler struct {
	registry *engine.Registry
	hub      *websocket.Hub
	upgrader gorillaws.Upgrader
	log      zerolog.Logger
}

// NewWSHandler wires the websocket handler. allowedOrigins guards the upgrade
// handshake; an entry of "*" disables the origin check.
func NewWSHandler(registry *engine.Registry, hub *websocket.Hub, allowedOrigins []string, log zerolog.Logger) *WSHandler {
	return &WSHandler{
		registry: registry,
		hub:      hub,
		upgrader: buildUpgrader(allowedOrigins),
		log:      log.With().Str("component", "ws_handler").Logger(),
	}
}

func buildUpgrader(allowedOrigins []string) gorillaws.Upgrader {
	return gorillaws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || len(allowedOrigins) == 0 {
				return true
			}
			for _, allowed := range allowedOrigins {
				if allowed == "*" || allowed == origin {
					return true
				}
			}
			return false
		},
	}
}

// Events handles GET /ws/v1/sessions/:id/events. The stream carries the
// session's lifecycle events (warnings, pause/resume, completion) as JSON
// frames until the session finishes or the client disconnects.
func (h *WSHandler) Events(c *gin.Context) {
	sessionID := c.Param("id")
	if _, err := h.registry.Status(sessionID); err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Str("session_id", sessionID).Msg("Websocket upgrade failed")
		return
	}

	client := websocket.NewClient(sessionID, conn, h.log)
	h.hub.Subscribe(client)

	h.log.Debug().Str("session_id", sessionID).Msg("Event stream subscribed")

	go client.WritePump()
	client.ReadPump()

	h.hub.Unsubscribe(client)
	h.log.Debug().Str("session_id", sessionID).Msg("Event stream closed")
}

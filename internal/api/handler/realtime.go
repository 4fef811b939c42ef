package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/timmy/learnx/internal/domain"
	"github.com/timmy/learnx/internal/logger"
	"github.com/timmy/learnx/internal/realtime"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// RealtimeHandler streams table change events over websockets.
type RealtimeHandler struct {
	hub      *realtime.Hub
	upgrader websocket.Upgrader
}

// NewRealtimeHandler creates a new realtime handler.
func NewRealtimeHandler(hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin is enforced by CORS config and the project key.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Subscribe handles GET /realtime/v1/:table.
func (h *RealtimeHandler) Subscribe(c *gin.Context) {
	table := c.Param("table")
	if table != domain.GeneratedImagesTable {
		c.JSON(http.StatusNotFound, domain.ErrorResponse{Error: "unknown table: " + table})
		return
	}

	// Subscribe before the handshake completes so no change committed after
	// the client sees the upgrade is missed.
	sub := h.hub.Subscribe(table)
	defer sub.Close()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the error response.
		logger.CtxWarn(c.Request.Context(), "Websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := logger.WithField(c.Request.Context(), logger.FieldTable, table)

	logger.CtxInfo(ctx, "Realtime subscriber connected")
	defer logger.CtxInfo(ctx, "Realtime subscriber disconnected")

	// The read loop only exists to notice the peer going away.
	done := make(chan struct{})
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case evt, ok := <-sub.C():
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
					time.Now().Add(writeWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(evt); err != nil {
				logger.CtxWarn(ctx, "Failed to push change event: %v", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// websocket/handler.go
package websocket

import (
	"context"
	"time"

	"doctor-survey-targeting/config"
	"doctor-survey-targeting/predictions/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StateReader returns the current state of a page view.
type StateReader interface {
	State(ctx context.Context, viewID string) (models.ViewState, error)
}

// WsHandler manages WebSocket requests and connections
type WsHandler struct {
	hub    *Hub
	states StateReader
}

// NewWsHandler creates a new WebSocket handler instance
func NewWsHandler(hub *Hub, states StateReader) *WsHandler {
	return &WsHandler{hub: hub, states: states}
}

// HandleWebSocket upgrades GET /ws?view=<id>. The client first receives the
// view's current state, then a STATE_CHANGED message for every later change.
func (h *WsHandler) HandleWebSocket(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	viewID := c.Query("view")
	if viewID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "view parameter is required",
		})
	}
	if _, err := uuid.Parse(viewID); err != nil {
		config.Logger.Warn("Invalid view ID format", zap.String("viewID", viewID))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid view ID",
		})
	}

	initial, err := h.states.State(c.UserContext(), viewID)
	if err != nil {
		config.Logger.Error("Failed to load view state for websocket", zap.String("viewID", viewID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load view state",
		})
	}

	return websocket.New(func(conn *websocket.Conn) {
		client := &Client{
			ID:     uuid.New(),
			ViewID: viewID,
			Conn:   conn,
			Hub:    h.hub,
			Send:   make(chan WebSocketMessage, 64),
		}

		client.Send <- WebSocketMessage{
			Type:      MessageTypeStateChanged,
			Payload:   initial.Payload(),
			Timestamp: time.Now(),
			ViewID:    viewID,
		}
		h.hub.Register(client)

		config.Logger.Info("WebSocket client registered",
			zap.String("clientID", client.ID.String()),
			zap.String("viewID", viewID),
		)

		go client.writePump()
		client.readPump()
	})(c)
}

// readPump listens for incoming messages from the WebSocket
func (c *Client) readPump() {
	defer func() {
		config.Logger.Info("WebSocket client disconnecting",
			zap.String("clientID", c.ID.String()),
			zap.String("viewID", c.ViewID),
		)
		c.Hub.Unregister(c)
		c.Conn.Close()
		config.Logger.Debug("WebSocket clients connected", zap.Int("clients", c.Hub.GetClientCount()))
	}()

	c.Conn.SetReadLimit(4 * 1024)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		var msg WebSocketMessage
		if err := c.Conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				config.Logger.Warn("WebSocket unexpected close",
					zap.String("clientID", c.ID.String()),
					zap.Error(err),
				)
			}
			break
		}
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		// Clients only listen; anything they send is logged and dropped.
		config.Logger.Debug("WebSocket message ignored",
			zap.String("clientID", c.ID.String()),
			zap.String("type", string(msg.Type)),
		)
	}
}

// writePump sends queued messages and keeps the connection alive
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteJSON(message); err != nil {
				config.Logger.Debug("WebSocket write error",
					zap.String("clientID", c.ID.String()),
					zap.Error(err),
				)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				config.Logger.Debug("WebSocket ping error",
					zap.String("clientID", c.ID.String()),
					zap.Error(err),
				)
				return
			}
		}
	}
}

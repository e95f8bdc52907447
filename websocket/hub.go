// websocket/hub.go
package websocket

import (
	"sync"
	"time"

	"doctor-survey-targeting/predictions/models"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type MessageType string

const (
	MessageTypeStateChanged MessageType = "STATE_CHANGED"
)

type WebSocketMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	ViewID    string      `json:"viewId,omitempty"`
}

// Client is one websocket connection following a single page view.
type Client struct {
	ID     uuid.UUID
	ViewID string
	Conn   *websocket.Conn
	Hub    *Hub
	Send   chan WebSocketMessage
}

type Hub struct {
	clients    map[*Client]bool
	broadcast  chan WebSocketMessage
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan WebSocketMessage),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.deliver(message)

		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Stop ends Run and closes every client's send channel.
func (h *Hub) Stop() {
	close(h.done)
}

// Register adds a client; its Send channel receives messages for its view.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister removes a client and closes its Send channel.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// PublishState queues a STATE_CHANGED message for the clients of viewID.
// Views nobody follows are skipped.
func (h *Hub) PublishState(viewID string, state models.ViewState) {
	if len(h.GetViewSubscribers(viewID)) == 0 {
		return
	}
	msg := WebSocketMessage{
		Type:      MessageTypeStateChanged,
		Payload:   state.Payload(),
		Timestamp: time.Now(),
		ViewID:    viewID,
	}
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

// deliver sends a message to every client following the message's view.
// A client whose buffer is full is dropped.
func (h *Hub) deliver(message WebSocketMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		if client.ViewID != message.ViewID {
			continue
		}
		select {
		case client.Send <- message:
		default:
			close(client.Send)
			delete(h.clients, client)
		}
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// GetViewSubscribers returns the clients following viewID.
func (h *Hub) GetViewSubscribers(viewID string) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var subscribers []*Client
	for client := range h.clients {
		if client.ViewID == viewID {
			subscribers = append(subscribers, client)
		}
	}
	return subscribers
}

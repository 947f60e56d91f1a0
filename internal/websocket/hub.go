package websocket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/veldt-io/binstock/internal/models"
)

// Hub maintains the set of connected clients and fans item snapshots out
// to them. It is the websocket face of the item store's subscription:
// main wires ItemStore.Subscribe to BroadcastSnapshot.
type Hub struct {
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	mu sync.RWMutex
}

// snapshotMessage is the wire form of a full item set push.
type snapshotMessage struct {
	Type  string        `json:"type"`
	Items []models.Item `json:"items"`
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 16),
		clients:    make(map[string]*Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if old, ok := h.clients[client.ID]; ok {
				close(old.send)
			}
			h.clients[client.ID] = client
			h.mu.Unlock()
			log.Printf("🔌 Client connected: %s", client.ID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.send)
			}
			h.mu.Unlock()
			log.Printf("🔌 Client disconnected: %s", client.ID)

		case message := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Buffer full or client dead; drop the frame, the
					// next snapshot supersedes it anyway.
				}
			}
			h.mu.RUnlock()
		}
	}
}

// BroadcastSnapshot pushes the full item set to every connected client.
func (h *Hub) BroadcastSnapshot(items []models.Item) {
	msg, err := json.Marshal(snapshotMessage{Type: "items_snapshot", Items: items})
	if err != nil {
		log.Printf("Error marshaling snapshot: %v", err)
		return
	}
	h.broadcast <- msg
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

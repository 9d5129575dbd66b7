// Package realtime delivers events to connected clients over websockets.
// Delivery is fire-and-forget: if the target is not connected the event is
// dropped, there is no queuing or replay.
package realtime

import (
	"context"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// EventNewMessage carries a persisted message to its conversation view.
const EventNewMessage = "newMessage"

// EventOnlineUsers carries the full online-user id list on every
// connect and disconnect.
const EventOnlineUsers = "getOnlineUsers"

// Event is one websocket frame.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Client is one registered websocket connection.
type Client struct {
	userID string
	conn   *websocket.Conn
	send   chan Event
	once   sync.Once
}

func (c *Client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// Hub tracks connected clients keyed by user id.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]*Client
	presence *Presence
}

// NewHub creates a hub. presence may be nil when no shared presence set
// is configured.
func NewHub(presence *Presence) *Hub {
	return &Hub{
		clients:  make(map[string]*Client),
		presence: presence,
	}
}

// Register attaches a connection for userID, replacing any previous one,
// and starts its read/write pumps. The read pump unregisters the client
// when the peer goes away.
func (h *Hub) Register(userID string, conn *websocket.Conn) {
	client := &Client{
		userID: userID,
		conn:   conn,
		send:   make(chan Event, 16),
	}

	h.mu.Lock()
	if old, ok := h.clients[userID]; ok {
		old.close()
	}
	h.clients[userID] = client
	h.mu.Unlock()

	if h.presence != nil {
		if err := h.presence.Add(context.Background(), userID); err != nil {
			log.Printf("presence add for %s: %v", userID, err)
		}
	}
	h.broadcastOnlineUsers()

	go client.writePump()
	go h.readPump(client)
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	current, ok := h.clients[client.userID]
	removed := ok && current == client
	if removed {
		delete(h.clients, client.userID)
	}
	h.mu.Unlock()
	client.close()

	// A client displaced by a newer connection must not clear the
	// user's presence.
	if !removed {
		return
	}

	if h.presence != nil {
		if err := h.presence.Remove(context.Background(), client.userID); err != nil {
			log.Printf("presence remove for %s: %v", client.userID, err)
		}
	}
	h.broadcastOnlineUsers()
}

// IsConnected reports whether userID has a live connection on this hub.
func (h *Hub) IsConnected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// Publish sends an event to userID if connected; otherwise it is dropped.
// A slow client's full buffer also drops the event rather than blocking.
func (h *Hub) Publish(userID, event string, payload interface{}) {
	h.mu.RLock()
	client, ok := h.clients[userID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	select {
	case client.send <- Event{Event: event, Data: payload}:
	default:
		log.Printf("dropping %s event for slow client %s", event, userID)
	}
}

func (h *Hub) broadcastOnlineUsers() {
	var online []string
	if h.presence != nil {
		var err error
		online, err = h.presence.Online(context.Background())
		if err != nil {
			log.Printf("presence list: %v", err)
		}
	}
	if online == nil {
		h.mu.RLock()
		for id := range h.clients {
			online = append(online, id)
		}
		h.mu.RUnlock()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		select {
		case client.send <- Event{Event: EventOnlineUsers, Data: online}:
		default:
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for event := range c.send {
		if err := c.conn.WriteJSON(event); err != nil {
			return
		}
	}
}

// readPump drains inbound frames; clients never send application data,
// but reading is what surfaces the close handshake.
func (h *Hub) readPump(client *Client) {
	defer h.unregister(client)
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

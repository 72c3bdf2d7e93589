package websocket

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/wricardo/skirmish/game/engine"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Pending broadcasts before Publish starts dropping.
	broadcastBuffer = 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message represents a WebSocket message
type Message struct {
	SessionID string        `json:"session_id"`
	Event     string        `json:"event"`
	Payload   *engine.Event `json:"payload,omitempty"`
	Data      interface{}   `json:"data,omitempty"`
}

// Client represents a WebSocket client
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string

	// snapshot builds the first message, taken once the client is registered
	snapshot func() interface{}
}

// Hub maintains the set of active clients and broadcasts messages. The
// session map is owned by the Run goroutine.
type Hub struct {
	// Registered clients by session ID
	sessions map[string]map[*Client]bool

	// Outbound messages for a session's clients
	broadcast chan *Message

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Client count queries
	counts chan countQuery

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

type countQuery struct {
	sessionID string
	reply     chan int
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		sessions:   make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		counts:     make(chan countQuery),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop and returns after Stop
func (h *Hub) Run() {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case q := <-h.counts:
			q.reply <- len(h.sessions[q.sessionID])

		case <-h.stop:
			for _, clients := range h.sessions {
				for client := range clients {
					h.unregisterClient(client)
				}
			}
			return
		}
	}
}

// Stop ends the event loop and disconnects every client
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
	<-h.done
}

// ServeWS upgrades the request and subscribes the connection to sessionID.
// snapshot, when non-nil, is called after the client is registered and its
// result is sent as a "snapshot" message ahead of any later event.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string, snapshot func() interface{}) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, 256),
		sessionID: sessionID,
		snapshot:  snapshot,
	}

	select {
	case client.hub.register <- client:
	case <-h.stop:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// Publish forwards a game event to every client subscribed to sessionID.
// It never blocks; events are dropped when the hub falls behind.
func (h *Hub) Publish(sessionID string, ev engine.Event) {
	h.enqueue(&Message{
		SessionID: sessionID,
		Event:     string(ev.Type),
		Payload:   &ev,
	})
}

// BroadcastEvent sends a custom event to all clients in a session
func (h *Hub) BroadcastEvent(sessionID string, event string, data interface{}) {
	h.enqueue(&Message{
		SessionID: sessionID,
		Event:     event,
		Data:      data,
	})
}

func (h *Hub) enqueue(message *Message) {
	select {
	case h.broadcast <- message:
	default:
		log.WithFields(log.Fields{
			"session": message.SessionID,
			"event":   message.Event,
		}).Warn("websocket hub backlog full, dropping message")
	}
}

// ClientCount returns how many clients are subscribed to sessionID. It
// requires Run to be active.
func (h *Hub) ClientCount(sessionID string) int {
	q := countQuery{sessionID: sessionID, reply: make(chan int, 1)}
	select {
	case h.counts <- q:
		return <-q.reply
	case <-h.done:
		return 0
	}
}

// registerClient adds a client to a session
func (h *Hub) registerClient(client *Client) {
	if h.sessions[client.sessionID] == nil {
		h.sessions[client.sessionID] = make(map[*Client]bool)
	}
	h.sessions[client.sessionID][client] = true

	// Broadcasts are handled on this goroutine, so nothing published after
	// the snapshot can reach the client ahead of it.
	if client.snapshot != nil {
		message := &Message{SessionID: client.sessionID, Event: "snapshot", Data: client.snapshot()}
		if data, err := json.Marshal(message); err == nil {
			client.send <- data
		}
		client.snapshot = nil
	}

	log.WithFields(log.Fields{
		"session": client.sessionID,
		"clients": len(h.sessions[client.sessionID]),
	}).Debug("websocket client registered")
}

// unregisterClient removes a client from a session
func (h *Hub) unregisterClient(client *Client) {
	if clients, ok := h.sessions[client.sessionID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client.send)

			// Clean up empty sessions
			if len(clients) == 0 {
				delete(h.sessions, client.sessionID)
			}

			log.WithFields(log.Fields{
				"session": client.sessionID,
				"clients": len(clients),
			}).Debug("websocket client unregistered")
		}
	}
}

// broadcastMessage sends a message to all clients in a session
func (h *Hub) broadcastMessage(message *Message) {
	clients, ok := h.sessions[message.SessionID]
	if !ok {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.WithError(err).Error("failed to marshal websocket message")
		return
	}

	for client := range clients {
		select {
		case client.send <- data:
		default:
			// Slow client, drop it
			h.unregisterClient(client)
		}
	}
}

// readPump pumps messages from the WebSocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		// Clients only listen; reads keep the deadline and close detection alive
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.WithError(err).Debug("websocket read error")
			}
			break
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// One JSON message per frame
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

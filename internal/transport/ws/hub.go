package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgPlayerSnapshot MessageType = "player_snapshot"
	MsgPlayerDeleted  MessageType = "player_deleted"
	MsgError          MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans pushes out to every device bound to a player
type Hub struct {
	// playerKey -> open connections
	conns map[string]map[*Connection]struct{}

	mu     sync.RWMutex
	logger *slog.Logger

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
	done       chan struct{}
	closeOnce  sync.Once
}

// Connection represents a WebSocket connection
type Connection struct {
	PlayerKey string
	Send      chan []byte
	Hub       *Hub
}

// BroadcastMessage is a message for every connection of one player.
// Close drops those connections after earlier messages are queued.
type BroadcastMessage struct {
	PlayerKey string
	Message   *Message
	Close     bool
}

// NewHub creates a new WebSocket hub
func NewHub(logger *slog.Logger) *Hub {
	h := &Hub{
		conns:      make(map[string]map[*Connection]struct{}),
		logger:     logger,
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
		done:       make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for key, set := range h.conns {
				for conn := range set {
					close(conn.Send)
				}
				delete(h.conns, key)
			}
			h.mu.Unlock()
			return

		case conn := <-h.register:
			h.mu.Lock()
			if h.conns[conn.PlayerKey] == nil {
				h.conns[conn.PlayerKey] = make(map[*Connection]struct{})
			}
			h.conns[conn.PlayerKey][conn] = struct{}{}
			n := len(h.conns[conn.PlayerKey])
			h.mu.Unlock()
			h.logger.Debug("ws connected", "player", conn.PlayerKey, "devices", n)

		case conn := <-h.unregister:
			h.mu.Lock()
			if set, ok := h.conns[conn.PlayerKey]; ok {
				if _, ok := set[conn]; ok {
					delete(set, conn)
					close(conn.Send)
					if len(set) == 0 {
						delete(h.conns, conn.PlayerKey)
					}
					h.logger.Debug("ws disconnected", "player", conn.PlayerKey)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			if msg.Close {
				h.mu.Lock()
				for conn := range h.conns[msg.PlayerKey] {
					close(conn.Send)
				}
				delete(h.conns, msg.PlayerKey)
				h.mu.Unlock()
				h.logger.Debug("ws player disconnected", "player", msg.PlayerKey)
				continue
			}
			data, err := json.Marshal(msg.Message)
			if err != nil {
				h.logger.Warn("ws encode failed", "player", msg.PlayerKey, "err", err)
				continue
			}
			h.mu.RLock()
			for conn := range h.conns[msg.PlayerKey] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.done:
		close(conn.Send)
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// BroadcastToPlayer sends a message to every device of a player (implements service.Broadcaster)
func (h *Hub) BroadcastToPlayer(playerKey string, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Warn("ws payload encode failed", "player", playerKey, "type", msgType, "err", err)
		return
	}
	select {
	case h.broadcast <- &BroadcastMessage{
		PlayerKey: playerKey,
		Message:   &Message{Type: MessageType(msgType), Payload: data},
	}:
	case <-h.done:
	}
}

// DisconnectPlayer closes every connection of a player (implements service.Broadcaster)
func (h *Hub) DisconnectPlayer(playerKey string) {
	select {
	case h.broadcast <- &BroadcastMessage{PlayerKey: playerKey, Close: true}:
	case <-h.done:
	}
}

// Connections returns how many devices are connected for a player
func (h *Hub) Connections(playerKey string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[playerKey])
}

// Close drops every connection and stops the hub
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

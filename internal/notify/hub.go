package notify

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/PartyAppOfficial/Partyapp/internal/platform/logger"
	"go.uber.org/zap"
)

// Message types pushed to pages.
const (
	MsgNotification   = "notification"
	MsgSessionChanged = "session.changed"
)

type Message struct {
	Type      string    `json:"type"`
	UserID    string    `json:"-"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Hub keeps the open websocket clients grouped by user id. Pages without a
// session register under the empty id and only receive what is sent to
// them directly on connect.
type Hub struct {
	clients    map[string]map[*Client]bool
	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	logger     *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     log.Named("NotifyHub"),
	}
}

// Run processes registrations and broadcasts until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for _, clients := range h.clients {
				for c := range clients {
					close(c.send)
				}
			}
			h.clients = make(map[string]map[*Client]bool)
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			if h.clients[c.userID] == nil {
				h.clients[c.userID] = make(map[*Client]bool)
			}
			h.clients[c.userID][c] = true
			h.mu.Unlock()
			h.logger.Debug("Client registered", zap.String("userID", c.userID))

		case c := <-h.unregister:
			h.remove(c)

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg)
			if err != nil {
				h.logger.Error("Failed to marshal hub message", zap.String("type", msg.Type), zap.Error(err))
				continue
			}
			h.mu.RLock()
			var slow []*Client
			for c := range h.clients[msg.UserID] {
				select {
				case c.send <- data:
				default:
					slow = append(slow, c)
				}
			}
			h.mu.RUnlock()
			for _, c := range slow {
				h.remove(c)
			}
		}
	}
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.clients[c.userID]
	if !ok {
		return
	}
	if _, ok := clients[c]; ok {
		delete(clients, c)
		close(c.send)
		if len(clients) == 0 {
			delete(h.clients, c.userID)
		}
	}
}

func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Send queues msg for every client of userID. Anonymous sends are dropped.
func (h *Hub) Send(userID string, msgType string, data any) {
	if userID == "" {
		return
	}
	msg := &Message{Type: msgType, UserID: userID, Data: data, Timestamp: time.Now()}
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("Hub broadcast queue full, dropping message", zap.String("type", msgType), zap.String("userID", userID))
	}
}

// Notify implements Notifier.
func (h *Hub) Notify(userID string, n Notification) {
	h.Send(userID, MsgNotification, n)
}

// ClientCount reports how many pages userID has open.
func (h *Hub) ClientCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

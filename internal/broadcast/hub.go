package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/DhavalSuthar-24/crickscore/internal/match"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Client is one websocket subscriber to a single match.
type Client struct {
	ID      string
	MatchID uint
	Conn    *websocket.Conn
	Send    chan []byte
	Hub     *Hub
}

type delivery struct {
	matchID uint
	data    []byte
}

// Hub keeps websocket subscribers grouped by match and delivers each event
// only to the subscribers of its match.
type Hub struct {
	matchClients map[uint]map[*Client]bool
	broadcast    chan delivery
	register     chan *Client
	unregister   chan *Client
	done         chan struct{}
	logger       *logrus.Logger
	mutex        sync.RWMutex
}

var _ match.Broadcaster = (*Hub)(nil)

var ErrHubStopped = errors.New("websocket hub stopped")

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		matchClients: make(map[uint]map[*Client]bool),
		broadcast:    make(chan delivery, 256),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		done:         make(chan struct{}),
		logger:       logger,
	}
}

// Run handles registration and delivery until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for matchID, clients := range h.matchClients {
				for client := range clients {
					close(client.Send)
				}
				delete(h.matchClients, matchID)
			}
			h.mutex.Unlock()
			return

		case client := <-h.register:
			h.mutex.Lock()
			if h.matchClients[client.MatchID] == nil {
				h.matchClients[client.MatchID] = make(map[*Client]bool)
			}
			h.matchClients[client.MatchID][client] = true
			count := len(h.matchClients[client.MatchID])
			h.mutex.Unlock()

			h.logger.WithFields(logrus.Fields{
				"client_id":     client.ID,
				"match_id":      client.MatchID,
				"match_clients": count,
			}).Info("WebSocket client subscribed")

		case client := <-h.unregister:
			h.remove(client)
			h.logger.WithFields(logrus.Fields{
				"client_id": client.ID,
				"match_id":  client.MatchID,
			}).Info("WebSocket client unsubscribed")

		case msg := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.matchClients[msg.matchID] {
				select {
				case client.Send <- msg.data:
				default:
					h.logger.WithField("client_id", client.ID).Warn("Dropping slow websocket client")
					delete(h.matchClients[msg.matchID], client)
					close(client.Send)
				}
			}
			if len(h.matchClients[msg.matchID]) == 0 {
				delete(h.matchClients, msg.matchID)
			}
			h.mutex.Unlock()
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	clients := h.matchClients[client.MatchID]
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.Send)
	if len(clients) == 0 {
		delete(h.matchClients, client.MatchID)
	}
}

// Publish encodes the event as JSON and queues it for the match's subscribers.
func (h *Hub) Publish(ctx context.Context, event match.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.Type, err)
	}
	return h.Deliver(ctx, event.MatchID, data)
}

// Deliver queues an already encoded event, as received from a relay.
func (h *Hub) Deliver(ctx context.Context, matchID uint, data []byte) error {
	select {
	case h.broadcast <- delivery{matchID: matchID, data: data}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-h.done:
		return ErrHubStopped
	}
}

// ConnectionCount returns the number of subscribers to matchID.
func (h *Hub) ConnectionCount(matchID uint) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.matchClients[matchID])
}

// HandleWebSocket upgrades GET /ws/matches/:id and subscribes the caller.
func (h *Hub) HandleWebSocket(c *gin.Context) {
	matchID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || matchID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid match ID"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Error("Failed to upgrade WebSocket connection")
		return
	}

	client := &Client{
		ID:      uuid.NewString(),
		MatchID: uint(matchID),
		Conn:    conn,
		Send:    make(chan []byte, 256),
		Hub:     h,
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump discards inbound frames and keeps the connection alive.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.Hub.unregister <- c:
		case <-c.Hub.done:
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(512)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.WithError(err).WithField("client_id", c.ID).Error("WebSocket error")
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.Hub.logger.WithError(err).WithField("client_id", c.ID).Error("Failed to write WebSocket message")
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

package realtime

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pushp314/devconnect-chat/pkg/logger"
	"github.com/rs/zerolog"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 64
)

// Client is one websocket connection bound to a single private channel
type Client struct {
	ID      string
	UserID  string
	Channel string

	conn *websocket.Conn
	send chan []byte
	hub  *Hub
	once sync.Once
}

// Hub is the plain websocket transport. Connections are indexed by channel.
type Hub struct {
	mu       sync.RWMutex
	channels map[string]map[string]*Client

	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func NewHub(allowOrigin func(r *http.Request) bool) *Hub {
	if allowOrigin == nil {
		allowOrigin = func(r *http.Request) bool { return true }
	}
	return &Hub{
		channels: make(map[string]map[string]*Client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     allowOrigin,
		},
		log: logger.Component("ws_hub"),
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.channels[c.Channel] == nil {
		h.channels[c.Channel] = make(map[string]*Client)
	}
	h.channels[c.Channel][c.ID] = c
}

func (h *Hub) unregister(c *Client) {
	c.once.Do(func() {
		h.mu.Lock()
		if clients, ok := h.channels[c.Channel]; ok {
			delete(clients, c.ID)
			if len(clients) == 0 {
				delete(h.channels, c.Channel)
			}
		}
		h.mu.Unlock()
		close(c.send)
	})
}

// Publish queues ev on every connection of channel. A connection whose
// buffer is full is dropped rather than blocking the publisher.
func (h *Hub) Publish(ctx context.Context, channel string, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encodeEnvelope(channel, ev)
	if err != nil {
		return err
	}

	var slow []*Client
	h.mu.RLock()
	for _, c := range h.channels[channel] {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.log.Warn().Str("conn_id", c.ID).Str("channel", channel).Msg("Send buffer full, dropping connection")
		h.unregister(c)
	}
	return nil
}

// Subscribers returns the number of live connections on channel
func (h *Hub) Subscribers(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channel])
}

// Handler upgrades authenticated requests. The token comes from the
// "token" query parameter since browsers cannot set headers on upgrade.
func (h *Hub) Handler(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		userID, err := auth(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			h.log.Warn().Err(err).Msg("Websocket upgrade failed")
			return
		}

		client := &Client{
			ID:      uuid.New().String(),
			UserID:  userID,
			Channel: ChannelFor(userID),
			conn:    conn,
			send:    make(chan []byte, sendBufferSize),
			hub:     h,
		}
		h.register(client)
		h.log.Debug().Str("conn_id", client.ID).Str("user_id", userID).Msg("Websocket connected")

		go client.writePump()
		client.readPump()
	}
}

// readPump only services control frames; clients never send data on this transport
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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

// Close disconnects every client
func (h *Hub) Close() {
	h.mu.RLock()
	var all []*Client
	for _, clients := range h.channels {
		for _, c := range clients {
			all = append(all, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range all {
		h.unregister(c)
	}
}

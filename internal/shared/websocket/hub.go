package websocket

import (
	"context"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/topbid/auction-api/internal/shared/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// Hub keeps the client registry and broadcasts auction events. Clients are
// grouped by the auction code they watch; the feed is one-way, bids travel
// over HTTP.
type Hub struct {
	// Registered clients, grouped by auction code.
	clients map[string]map[*Client]bool
	// Outbound messages for one auction code group.
	broadcast chan *Message
	// Register requests from the clients.
	register chan *Client
	// Unregister requests from clients.
	unregister chan *Client
}

// Client represents one websocket connection watching a single auction.
type Client struct {
	Hub *Hub
	// The websocket connection.
	Conn *websocket.Conn
	// Buffered channel of outbound messages.
	Send chan []byte
	// The auction code this client is watching.
	AuctionCode string
	// Unique identifier for the client.
	ID string
}

// Message is a payload addressed to every watcher of one auction code.
type Message struct {
	AuctionCode string
	Data        []byte
}

func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan *Message),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string]map[*Client]bool),
	}
}

// Register queues a client for registration with the hub.
func (h *Hub) Register(client *Client) { h.register <- client }

// Unregister queues a client for removal from the hub.
func (h *Hub) Unregister(client *Client) { h.unregister <- client }

// Broadcast sends data to every client watching the given auction code.
func (h *Hub) Broadcast(auctionCode string, data []byte) {
	h.broadcast <- &Message{AuctionCode: auctionCode, Data: data}
}

// Run starts the hub listening on its channels until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	log.Info("WebSocket hub started")
	for {
		select {
		case <-ctx.Done():
			log.Info("WebSocket hub shutting down")
			for _, group := range h.clients {
				for client := range group {
					close(client.Send)
				}
			}
			return

		case client := <-h.register:
			if _, ok := h.clients[client.AuctionCode]; !ok {
				h.clients[client.AuctionCode] = make(map[*Client]bool)
			}
			h.clients[client.AuctionCode][client] = true
			log.Info("Client registered",
				zap.String("clientID", client.ID),
				zap.String("auctionCode", client.AuctionCode),
			)

		case client := <-h.unregister:
			if group, ok := h.clients[client.AuctionCode]; ok {
				if _, ok := group[client]; ok {
					delete(group, client)
					close(client.Send)
					if len(group) == 0 {
						delete(h.clients, client.AuctionCode)
					}
					log.Info("Client unregistered",
						zap.String("clientID", client.ID),
						zap.String("auctionCode", client.AuctionCode),
					)
				}
			}

		case message := <-h.broadcast:
			for client := range h.clients[message.AuctionCode] {
				select {
				case client.Send <- message.Data:
				default:
					// slow consumer, drop it
					delete(h.clients[message.AuctionCode], client)
					close(client.Send)
				}
			}
		}
	}
}

// WritePump pumps messages from the hub to the websocket connection and
// keeps the connection alive with pings. Runs in its own goroutine per client.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump drains the connection so control frames are processed and the
// hub notices disconnects. Inbound payloads are ignored, the feed is read-only.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister(c)
		_ = c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("WebSocket read error",
					zap.String("clientID", c.ID),
					zap.Error(err),
				)
			}
			return
		}
	}
}

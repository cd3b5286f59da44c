package websocket

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/topbid/auction-api/internal/auction/application"
	"github.com/topbid/auction-api/internal/auction/domain"
	"github.com/topbid/auction-api/internal/shared/logger"
	sharedws "github.com/topbid/auction-api/internal/shared/websocket"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Handler upgrades connections on the auction feed endpoint, sends the
// initial state and hands the connection over to the hub pumps.
type Handler struct {
	hub     *sharedws.Hub
	service application.AuctionService
}

func NewHandler(hub *sharedws.Hub, service application.AuctionService) *Handler {
	return &Handler{hub: hub, service: service}
}

// Register mounts the feed endpoint on the fiber app.
func (h *Handler) Register(app *fiber.App) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/auctions/:code", websocket.New(h.serveAuctionFeed))
}

func (h *Handler) serveAuctionFeed(conn *websocket.Conn) {
	code := conn.Params("code")

	client := &sharedws.Client{
		Hub:         h.hub,
		Conn:        conn,
		Send:        make(chan []byte, 16),
		AuctionCode: code,
		ID:          uuid.NewString(),
	}

	state, err := h.service.GetAuction(context.Background(), code)
	if err != nil {
		if !errors.Is(err, domain.ErrAuctionNotFound) {
			log.Error("Failed to load auction for feed",
				zap.String("auctionCode", code),
				zap.Error(err),
			)
		}
		h.sendError(conn, "auction not found")
		_ = conn.Close()
		return
	}

	h.hub.Register(client)

	initial := AuctionStateMessage{
		BaseMessage: BaseMessage{Type: MessageTypeInitialState},
		Payload:     state,
	}
	if data, err := json.Marshal(initial); err == nil {
		client.Send <- data
	}

	go client.WritePump()
	// ReadPump blocks until the peer goes away; the fiber websocket handler
	// must not return while the connection is in use
	client.ReadPump()
}

func (h *Handler) sendError(conn *websocket.Conn, message string) {
	errorMessage := ServerErrorMessage{BaseMessage: BaseMessage{Type: MessageTypeServerError}}
	errorMessage.Payload.Error = message
	if data, err := json.Marshal(errorMessage); err == nil {
		_ = conn.WriteMessage(websocket.TextMessage, data)
	}
}

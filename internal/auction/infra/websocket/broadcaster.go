package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/topbid/auction-api/internal/auction/application"
	"github.com/topbid/auction-api/internal/auction/domain"
	sharedws "github.com/topbid/auction-api/internal/shared/websocket"
)

// Broadcaster implements domain.AuctionEventPublisher by pushing every
// event to the websocket watchers of that auction code. Wired next to the
// NATS publisher through the composite.
type Broadcaster struct {
	hub *sharedws.Hub
}

func NewBroadcaster(hub *sharedws.Hub) *Broadcaster {
	return &Broadcaster{hub: hub}
}

// PublishAuctionCreated implements domain.AuctionEventPublisher.
func (b *Broadcaster) PublishAuctionCreated(_ context.Context, snapshot domain.AuctionSnapshot) error {
	return b.pushState(MessageTypeAuctionCreated, snapshot)
}

// PublishAuctionStarted implements domain.AuctionEventPublisher.
func (b *Broadcaster) PublishAuctionStarted(_ context.Context, snapshot domain.AuctionSnapshot) error {
	return b.pushState(MessageTypeAuctionStarted, snapshot)
}

// PublishAuctionFinished implements domain.AuctionEventPublisher.
func (b *Broadcaster) PublishAuctionFinished(_ context.Context, snapshot domain.AuctionSnapshot) error {
	return b.pushState(MessageTypeAuctionClosed, snapshot)
}

// PublishBetOperationPerformed implements domain.AuctionEventPublisher.
func (b *Broadcaster) PublishBetOperationPerformed(_ context.Context, snapshot domain.AuctionSnapshot, result domain.PlaceBetResult) error {
	message := BetOperationMessage{BaseMessage: BaseMessage{Type: MessageTypeAuctionUpdated}}
	message.Payload.Auction = application.AuctionStateFromSnapshot(snapshot)
	message.Payload.Status = string(result.Status())
	message.Payload.Timestamp = time.Now().UTC()
	if bet, ok := result.Bet(); ok {
		message.Payload.Bet = &application.BetDTO{
			ID:           bet.ID.String(),
			BidderID:     bet.BidderID.String(),
			Price:        bet.Price.Amount().String(),
			CreationTime: bet.CreationTime,
		}
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("websocket broadcaster: failed to marshal bet operation: %w", err)
	}
	b.hub.Broadcast(snapshot.Code, data)
	return nil
}

func (b *Broadcaster) pushState(messageType MessageType, snapshot domain.AuctionSnapshot) error {
	message := AuctionStateMessage{
		BaseMessage: BaseMessage{Type: messageType},
		Payload:     application.AuctionStateFromSnapshot(snapshot),
	}
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("websocket broadcaster: failed to marshal %s: %w", messageType, err)
	}
	b.hub.Broadcast(snapshot.Code, data)
	return nil
}

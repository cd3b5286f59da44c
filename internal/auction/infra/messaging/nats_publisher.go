package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/topbid/auction-api/internal/auction/application"
	"github.com/topbid/auction-api/internal/auction/domain"
)

// Subjects for the auction event stream. Consumers subscribe with
// "auction.events.*" to see everything.
const (
	subjectAuctionCreated  = "auction.events.created"
	subjectAuctionStarted  = "auction.events.started"
	subjectAuctionFinished = "auction.events.finished"
	subjectBetOperation    = "auction.events.bets"
)

// auctionEventMessage is the wire payload for lifecycle events.
type auctionEventMessage struct {
	Auction   *application.AuctionStateDTO `json:"auction"`
	Timestamp time.Time                    `json:"timestamp"`
}

// betOperationMessage carries both the snapshot and the outcome, so
// observers see every attempt, not just accepted bets.
type betOperationMessage struct {
	Auction   *application.AuctionStateDTO `json:"auction"`
	Status    string                       `json:"status"`
	Bet       *application.BetDTO          `json:"bet,omitempty"`
	Timestamp time.Time                    `json:"timestamp"`
}

// NatsAuctionEventPublisher implements domain.AuctionEventPublisher by
// publishing JSON messages to NATS. Fire-and-forget: delivery guarantees
// beyond the publish call are the broker's business.
type NatsAuctionEventPublisher struct {
	conn *nats.Conn
}

func NewNatsAuctionEventPublisher(conn *nats.Conn) *NatsAuctionEventPublisher {
	return &NatsAuctionEventPublisher{conn: conn}
}

// PublishAuctionCreated implements domain.AuctionEventPublisher.
func (p *NatsAuctionEventPublisher) PublishAuctionCreated(_ context.Context, snapshot domain.AuctionSnapshot) error {
	return p.publish(subjectAuctionCreated, lifecycleMessage(snapshot))
}

// PublishAuctionStarted implements domain.AuctionEventPublisher.
func (p *NatsAuctionEventPublisher) PublishAuctionStarted(_ context.Context, snapshot domain.AuctionSnapshot) error {
	return p.publish(subjectAuctionStarted, lifecycleMessage(snapshot))
}

// PublishAuctionFinished implements domain.AuctionEventPublisher.
func (p *NatsAuctionEventPublisher) PublishAuctionFinished(_ context.Context, snapshot domain.AuctionSnapshot) error {
	return p.publish(subjectAuctionFinished, lifecycleMessage(snapshot))
}

// PublishBetOperationPerformed implements domain.AuctionEventPublisher.
func (p *NatsAuctionEventPublisher) PublishBetOperationPerformed(_ context.Context, snapshot domain.AuctionSnapshot, result domain.PlaceBetResult) error {
	message := betOperationMessage{
		Auction:   application.AuctionStateFromSnapshot(snapshot),
		Status:    string(result.Status()),
		Timestamp: time.Now().UTC(),
	}
	if bet, ok := result.Bet(); ok {
		message.Bet = &application.BetDTO{
			ID:           bet.ID.String(),
			BidderID:     bet.BidderID.String(),
			Price:        bet.Price.Amount().String(),
			CreationTime: bet.CreationTime,
		}
	}
	return p.publish(subjectBetOperation, message)
}

func lifecycleMessage(snapshot domain.AuctionSnapshot) auctionEventMessage {
	return auctionEventMessage{
		Auction:   application.AuctionStateFromSnapshot(snapshot),
		Timestamp: time.Now().UTC(),
	}
}

func (p *NatsAuctionEventPublisher) publish(subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("nats publisher: failed to marshal %s payload: %w", subject, err)
	}
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("nats publisher: failed to publish to %s: %w", subject, err)
	}
	return nil
}

package websocket

import (
	"time"

	"github.com/topbid/auction-api/internal/auction/application"
)

// MessageType identifies the kind of feed message.
type MessageType string

const (
	MessageTypeInitialState   MessageType = "server_initial_state" // auction state sent right after connecting
	MessageTypeAuctionCreated MessageType = "auction_created"
	MessageTypeAuctionStarted MessageType = "auction_started"
	MessageTypeAuctionUpdated MessageType = "auction_updated" // a bet operation happened
	MessageTypeAuctionClosed  MessageType = "auction_finished"
	MessageTypeServerError    MessageType = "server_error"
)

// BaseMessage is the envelope shared by every feed message.
type BaseMessage struct {
	Type MessageType `json:"type"`
}

// AuctionStateMessage pushes the full auction state, used both for the
// initial state and for lifecycle events.
type AuctionStateMessage struct {
	BaseMessage
	Payload *application.AuctionStateDTO `json:"payload"`
}

// BetOperationMessage pushes the state plus the outcome of one bet attempt.
type BetOperationMessage struct {
	BaseMessage
	Payload struct {
		Auction   *application.AuctionStateDTO `json:"auction"`
		Status    string                       `json:"status"`
		Bet       *application.BetDTO          `json:"bet,omitempty"`
		Timestamp time.Time                    `json:"timestamp"`
	} `json:"payload"`
}

// ServerErrorMessage reports a terminal error to the client before closing.
type ServerErrorMessage struct {
	BaseMessage
	Payload struct {
		Error string `json:"error"`
	} `json:"payload"`
}

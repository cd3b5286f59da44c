package messaging

import (
	"context"

	"github.com/topbid/auction-api/internal/auction/domain"
)

// CompositePublisher fans every event out to all wrapped publishers, in
// order. The first error stops the fan-out so the use case reports failure.
type CompositePublisher struct {
	publishers []domain.AuctionEventPublisher
}

func NewCompositePublisher(publishers ...domain.AuctionEventPublisher) *CompositePublisher {
	return &CompositePublisher{publishers: publishers}
}

// PublishAuctionCreated implements domain.AuctionEventPublisher.
func (c *CompositePublisher) PublishAuctionCreated(ctx context.Context, snapshot domain.AuctionSnapshot) error {
	for _, publisher := range c.publishers {
		if err := publisher.PublishAuctionCreated(ctx, snapshot); err != nil {
			return err
		}
	}
	return nil
}

// PublishAuctionStarted implements domain.AuctionEventPublisher.
func (c *CompositePublisher) PublishAuctionStarted(ctx context.Context, snapshot domain.AuctionSnapshot) error {
	for _, publisher := range c.publishers {
		if err := publisher.PublishAuctionStarted(ctx, snapshot); err != nil {
			return err
		}
	}
	return nil
}

// PublishAuctionFinished implements domain.AuctionEventPublisher.
func (c *CompositePublisher) PublishAuctionFinished(ctx context.Context, snapshot domain.AuctionSnapshot) error {
	for _, publisher := range c.publishers {
		if err := publisher.PublishAuctionFinished(ctx, snapshot); err != nil {
			return err
		}
	}
	return nil
}

// PublishBetOperationPerformed implements domain.AuctionEventPublisher.
func (c *CompositePublisher) PublishBetOperationPerformed(ctx context.Context, snapshot domain.AuctionSnapshot, result domain.PlaceBetResult) error {
	for _, publisher := range c.publishers {
		if err := publisher.PublishBetOperationPerformed(ctx, snapshot, result); err != nil {
			return err
		}
	}
	return nil
}

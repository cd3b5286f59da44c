package application

import (
	"context"
	"fmt"

	"github.com/topbid/auction-api/internal/auction/domain"
	"github.com/topbid/auction-api/internal/shared/clock"
	"github.com/topbid/auction-api/internal/shared/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// CreateAuctionUseCase opens a new auction: build the aggregate, persist
// its first snapshot at version 0, publish the created event.
type CreateAuctionUseCase struct {
	repo      domain.AuctionRepository
	publisher domain.AuctionEventPublisher
	clk       clock.Clock
}

func NewCreateAuctionUseCase(repo domain.AuctionRepository, publisher domain.AuctionEventPublisher, clk clock.Clock) *CreateAuctionUseCase {
	return &CreateAuctionUseCase{
		repo:      repo,
		publisher: publisher,
		clk:       clk,
	}
}

func (uc *CreateAuctionUseCase) Execute(ctx context.Context, specification domain.CreateAuctionSpecification) (domain.ID, error) {
	auction := domain.CreateAuction(specification, uc.clk)

	snapshot, err := uc.repo.Save(ctx, auction.Snapshot())
	if err != nil {
		log.Error("CreateAuctionUseCase: failed to save auction",
			zap.String("code", specification.Code()),
			zap.Error(err),
		)
		return domain.ID{}, fmt.Errorf("create auction use case: failed to save auction %s: %w", specification.Code(), err)
	}

	if err := uc.publisher.PublishAuctionCreated(ctx, snapshot); err != nil {
		log.Error("CreateAuctionUseCase: failed to publish created event",
			zap.String("code", snapshot.Code),
			zap.Error(err),
		)
		return domain.ID{}, fmt.Errorf("create auction use case: failed to publish created event for %s: %w", snapshot.Code, err)
	}

	log.Info("Auction created",
		zap.String("auctionID", snapshot.ID.String()),
		zap.String("code", snapshot.Code),
	)
	return snapshot.ID, nil
}

package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/topbid/auction-api/internal/auction/domain"
	"github.com/topbid/auction-api/internal/shared/clock"
	"go.uber.org/zap"
)

// PlaceBetUseCase runs one bid attempt: load the snapshot by code,
// reconstruct the aggregate, decide, persist only when the bet was
// accepted, and publish the bet-operation event for every attempt so
// external observers see rejections too.
type PlaceBetUseCase struct {
	repo      domain.AuctionRepository
	publisher domain.AuctionEventPublisher
	clk       clock.Clock
}

func NewPlaceBetUseCase(repo domain.AuctionRepository, publisher domain.AuctionEventPublisher, clk clock.Clock) *PlaceBetUseCase {
	return &PlaceBetUseCase{
		repo:      repo,
		publisher: publisher,
		clk:       clk,
	}
}

func (uc *PlaceBetUseCase) Execute(ctx context.Context, specification domain.PlaceBetSpecification) (domain.PlaceBetResult, error) {
	snapshot, err := uc.repo.FindOne(ctx, domain.QueryForCode(specification.AuctionCode()))
	if err != nil {
		if !errors.Is(err, domain.ErrAuctionNotFound) {
			log.Error("PlaceBetUseCase: failed to load auction",
				zap.String("auctionCode", specification.AuctionCode()),
				zap.Error(err),
			)
		}
		return domain.PlaceBetResult{}, fmt.Errorf("place bet use case: failed to load auction %s: %w", specification.AuctionCode(), err)
	}

	auction := domain.RestoreAuction(snapshot)
	result := auction.PlaceBet(specification, uc.clk)

	latest := auction.Snapshot()
	if result.Accepted() {
		latest, err = uc.repo.Save(ctx, latest)
		if err != nil {
			// a version conflict here means a concurrent writer won the
			// race; the caller may retry the whole use case
			log.Warn("PlaceBetUseCase: failed to save auction after accepted bet",
				zap.String("auctionCode", specification.AuctionCode()),
				zap.Error(err),
			)
			return domain.PlaceBetResult{}, fmt.Errorf("place bet use case: failed to save auction %s: %w", specification.AuctionCode(), err)
		}
	}

	if err := uc.publisher.PublishBetOperationPerformed(ctx, latest, result); err != nil {
		log.Error("PlaceBetUseCase: failed to publish bet operation event",
			zap.String("auctionCode", specification.AuctionCode()),
			zap.Error(err),
		)
		return domain.PlaceBetResult{}, fmt.Errorf("place bet use case: failed to publish bet operation for %s: %w", specification.AuctionCode(), err)
	}

	return result, nil
}

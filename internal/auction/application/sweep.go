package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/topbid/auction-api/internal/auction/domain"
	"github.com/topbid/auction-api/internal/shared/clock"
	"go.uber.org/zap"
)

// SweepUseCase mechanically starts and finishes auctions whose time
// windows became eligible. Each candidate is re-read by code and processed
// on its own, a failure on one auction never blocks the rest of the sweep.
type SweepUseCase struct {
	repo      domain.AuctionRepository
	publisher domain.AuctionEventPublisher
	clk       clock.Clock
}

func NewSweepUseCase(repo domain.AuctionRepository, publisher domain.AuctionEventPublisher, clk clock.Clock) *SweepUseCase {
	return &SweepUseCase{
		repo:      repo,
		publisher: publisher,
		clk:       clk,
	}
}

// StartEligible starts every NOT_STARTED auction whose start date has been reached.
func (uc *SweepUseCase) StartEligible(ctx context.Context) error {
	return uc.sweep(ctx, domain.StatusNotStarted,
		func(a *domain.Auction) bool { return a.IsEligibleForStarting(uc.clk) },
		func(a *domain.Auction) { a.Start(uc.clk) },
		uc.publisher.PublishAuctionStarted,
	)
}

// FinishEligible finishes every STARTED auction whose end date has passed.
func (uc *SweepUseCase) FinishEligible(ctx context.Context) error {
	return uc.sweep(ctx, domain.StatusStarted,
		func(a *domain.Auction) bool { return a.IsEligibleForFinishing(uc.clk) },
		func(a *domain.Auction) { a.Finish(uc.clk) },
		uc.publisher.PublishAuctionFinished,
	)
}

func (uc *SweepUseCase) sweep(
	ctx context.Context,
	status domain.AuctionStatus,
	eligible func(*domain.Auction) bool,
	transition func(*domain.Auction),
	publish func(context.Context, domain.AuctionSnapshot) error,
) error {
	candidates, err := uc.repo.FindAll(ctx, domain.QueryForStatuses(status))
	if err != nil {
		return fmt.Errorf("sweep use case: failed to list %s auctions: %w", status, err)
	}

	for _, candidate := range candidates {
		if err := uc.sweepOne(ctx, candidate.Code, eligible, transition, publish); err != nil {
			log.Warn("SweepUseCase: auction sweep failed, continuing",
				zap.String("auctionCode", candidate.Code),
				zap.Error(err),
			)
		}
	}
	return nil
}

// sweepOne re-reads the candidate inside its own save cycle: eligibility
// may have changed between the listing read and this mutation.
func (uc *SweepUseCase) sweepOne(
	ctx context.Context,
	code string,
	eligible func(*domain.Auction) bool,
	transition func(*domain.Auction),
	publish func(context.Context, domain.AuctionSnapshot) error,
) error {
	snapshot, err := uc.repo.FindOne(ctx, domain.QueryForCode(code))
	if err != nil {
		if errors.Is(err, domain.ErrAuctionNotFound) {
			return nil
		}
		return fmt.Errorf("failed to reload auction: %w", err)
	}

	auction := domain.RestoreAuction(snapshot)
	if !eligible(auction) {
		return nil
	}
	transition(auction)

	saved, err := uc.repo.Save(ctx, auction.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to save auction: %w", err)
	}
	if err := publish(ctx, saved); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

package application

import (
	"context"

	"github.com/topbid/auction-api/internal/auction/domain"
)

// AuctionService is the application interface of the auction module,
// exposing the use cases to the outer layers (HTTP, websocket, sweeper).
type AuctionService interface {
	// CreateAuction opens a new auction from a validated specification and
	// returns its fresh identifier.
	CreateAuction(ctx context.Context, specification domain.CreateAuctionSpecification) (domain.ID, error)
	// PlaceBet runs one bid attempt against the auction addressed by the
	// specification's code. The returned result carries the business
	// outcome, success or rejection.
	PlaceBet(ctx context.Context, specification domain.PlaceBetSpecification) (domain.PlaceBetResult, error)
	// StartEligibleAuctions sweeps NOT_STARTED auctions whose start date
	// has been reached.
	StartEligibleAuctions(ctx context.Context) error
	// FinishEligibleAuctions sweeps STARTED auctions whose end date has passed.
	FinishEligibleAuctions(ctx context.Context) error
	// GetAuction reads the current state of an auction by business code.
	GetAuction(ctx context.Context, code string) (*AuctionStateDTO, error)
}

type auctionService struct {
	createAuctionUC *CreateAuctionUseCase
	placeBetUC      *PlaceBetUseCase
	sweepUC         *SweepUseCase
	getAuctionUC    *GetAuctionUseCase
}

func NewAuctionService(
	createAuctionUC *CreateAuctionUseCase,
	placeBetUC *PlaceBetUseCase,
	sweepUC *SweepUseCase,
	getAuctionUC *GetAuctionUseCase,
) AuctionService {
	return &auctionService{
		createAuctionUC: createAuctionUC,
		placeBetUC:      placeBetUC,
		sweepUC:         sweepUC,
		getAuctionUC:    getAuctionUC,
	}
}

// CreateAuction implements AuctionService.
func (as *auctionService) CreateAuction(ctx context.Context, specification domain.CreateAuctionSpecification) (domain.ID, error) {
	return as.createAuctionUC.Execute(ctx, specification)
}

// PlaceBet implements AuctionService.
func (as *auctionService) PlaceBet(ctx context.Context, specification domain.PlaceBetSpecification) (domain.PlaceBetResult, error) {
	return as.placeBetUC.Execute(ctx, specification)
}

// StartEligibleAuctions implements AuctionService.
func (as *auctionService) StartEligibleAuctions(ctx context.Context) error {
	return as.sweepUC.StartEligible(ctx)
}

// FinishEligibleAuctions implements AuctionService.
func (as *auctionService) FinishEligibleAuctions(ctx context.Context) error {
	return as.sweepUC.FinishEligible(ctx)
}

// GetAuction implements AuctionService.
func (as *auctionService) GetAuction(ctx context.Context, code string) (*AuctionStateDTO, error) {
	return as.getAuctionUC.Execute(ctx, code)
}

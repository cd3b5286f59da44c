package application

import (
	"context"
	"time"

	"github.com/topbid/auction-api/internal/auction/domain"
)

// AuctionStateDTO is the output DTO exposing an auction's state to the
// HTTP and websocket layers.
type AuctionStateDTO struct {
	ID                    string    `json:"id"`
	Code                  string    `json:"code"`
	MinimalPrice          string    `json:"minimal_price"`
	CurrentAuctionedPrice string    `json:"current_auctioned_price"`
	Currency              string    `json:"currency"`
	StartDate             time.Time `json:"start_date"`
	EndDate               time.Time `json:"end_date"`
	CreationTime          time.Time `json:"creation_time"`
	Status                string    `json:"status"`
	Version               int       `json:"version"`
	Bets                  []BetDTO  `json:"bets"`
}

// BetDTO is the output DTO for one accepted bet.
type BetDTO struct {
	ID           string    `json:"id"`
	BidderID     string    `json:"bidder_id"`
	Price        string    `json:"price"`
	CreationTime time.Time `json:"creation_time"`
}

// AuctionStateFromSnapshot flattens a snapshot into the transport DTO.
func AuctionStateFromSnapshot(snapshot domain.AuctionSnapshot) *AuctionStateDTO {
	bets := make([]BetDTO, 0, len(snapshot.Bets))
	for _, bet := range snapshot.Bets {
		bets = append(bets, BetDTO{
			ID:           bet.ID.String(),
			BidderID:     bet.BidderID.String(),
			Price:        bet.Price.Amount().String(),
			CreationTime: bet.CreationTime,
		})
	}
	return &AuctionStateDTO{
		ID:                    snapshot.ID.String(),
		Code:                  snapshot.Code,
		MinimalPrice:          snapshot.MinimalPrice.Amount().String(),
		CurrentAuctionedPrice: snapshot.CurrentAuctionedPrice.Amount().String(),
		Currency:              string(snapshot.MinimalPrice.Currency()),
		StartDate:             snapshot.StartDate,
		EndDate:               snapshot.EndDate,
		CreationTime:          snapshot.CreationTime,
		Status:                string(snapshot.Status),
		Version:               snapshot.Version,
		Bets:                  bets,
	}
}

// GetAuctionUseCase reads the current state of an auction by business code.
type GetAuctionUseCase struct {
	repo domain.AuctionRepository
}

func NewGetAuctionUseCase(repo domain.AuctionRepository) *GetAuctionUseCase {
	return &GetAuctionUseCase{repo: repo}
}

func (uc *GetAuctionUseCase) Execute(ctx context.Context, code string) (*AuctionStateDTO, error) {
	snapshot, err := uc.repo.FindOne(ctx, domain.QueryForCode(code))
	if err != nil {
		return nil, err
	}
	return AuctionStateFromSnapshot(snapshot), nil
}

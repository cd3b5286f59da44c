package domain

import "time"

const (
	minAuctionDuration = 24 * time.Hour
	maxAuctionDuration = 120 * time.Hour
)

// CreateAuctionSpecification is the validated input for opening an auction.
// Instances can only be obtained through NewCreateAuctionSpecification, so
// holding one means every field already passed validation.
type CreateAuctionSpecification struct {
	code         string
	minimalPrice Money
	startDate    time.Time
	endDate      time.Time
}

// NewCreateAuctionSpecification validates the creation command and fails
// fast before any aggregate is touched.
func NewCreateAuctionSpecification(code string, minimalPrice Money, startDate, endDate time.Time) (CreateAuctionSpecification, error) {
	if code == "" {
		return CreateAuctionSpecification{}, ErrCodeEmpty
	}
	if minimalPrice.IsZero() {
		return CreateAuctionSpecification{}, ErrMinimalPriceMissing
	}
	if minimalPrice.IsNegative() {
		return CreateAuctionSpecification{}, ErrMinimalPriceNegative
	}
	if startDate.IsZero() || endDate.IsZero() {
		return CreateAuctionSpecification{}, ErrDatesMissing
	}
	if !startDate.Before(endDate) {
		return CreateAuctionSpecification{}, ErrStartNotBeforeEnd
	}
	duration := endDate.Sub(startDate)
	if duration < minAuctionDuration || duration > maxAuctionDuration {
		return CreateAuctionSpecification{}, ErrDurationOutOfRange
	}
	return CreateAuctionSpecification{
		code:         code,
		minimalPrice: minimalPrice,
		startDate:    startDate,
		endDate:      endDate,
	}, nil
}

func (s CreateAuctionSpecification) Code() string { return s.code }

func (s CreateAuctionSpecification) MinimalPrice() Money { return s.minimalPrice }

func (s CreateAuctionSpecification) StartDate() time.Time { return s.startDate }

func (s CreateAuctionSpecification) EndDate() time.Time { return s.endDate }

// PlaceBetSpecification is the validated input for placing a bet: which
// auction, who bids, and how much. Price comparisons stay with the
// aggregate, only presence is checked here.
type PlaceBetSpecification struct {
	auctionCode string
	bidderID    ID
	price       Money
}

// NewPlaceBetSpecification validates presence of all three fields.
func NewPlaceBetSpecification(auctionCode string, bidderID ID, price Money) (PlaceBetSpecification, error) {
	if auctionCode == "" {
		return PlaceBetSpecification{}, ErrCodeEmpty
	}
	if bidderID.IsZero() {
		return PlaceBetSpecification{}, ErrBidderMissing
	}
	if price.IsZero() {
		return PlaceBetSpecification{}, ErrPriceMissing
	}
	return PlaceBetSpecification{
		auctionCode: auctionCode,
		bidderID:    bidderID,
		price:       price,
	}, nil
}

func (s PlaceBetSpecification) AuctionCode() string { return s.auctionCode }

func (s PlaceBetSpecification) BidderID() ID { return s.bidderID }

func (s PlaceBetSpecification) Price() Money { return s.price }

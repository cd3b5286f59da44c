package domain

import (
	"fmt"
	"time"

	"github.com/topbid/auction-api/internal/shared/clock"
	"github.com/topbid/auction-api/internal/shared/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// AuctionStatus represents the lifecycle state of an auction. Transitions
// are strictly forward-only: NOT_STARTED -> STARTED -> FINISHED_SOLD or
// FINISHED_NOT_SOLD, and nothing leaves a terminal state.
type AuctionStatus string

const (
	StatusNotStarted      AuctionStatus = "NOT_STARTED"
	StatusStarted         AuctionStatus = "STARTED"
	StatusFinishedSold    AuctionStatus = "FINISHED_SOLD"
	StatusFinishedNotSold AuctionStatus = "FINISHED_NOT_SOLD"
)

// ParseAuctionStatus maps raw onto a known AuctionStatus.
func ParseAuctionStatus(raw string) (AuctionStatus, error) {
	switch AuctionStatus(raw) {
	case StatusNotStarted, StatusStarted, StatusFinishedSold, StatusFinishedNotSold:
		return AuctionStatus(raw), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
}

// IsTerminal reports whether the status admits no further transitions.
func (s AuctionStatus) IsTerminal() bool {
	return s == StatusFinishedSold || s == StatusFinishedNotSold
}

// PlaceBetResultStatus tags the outcome of a bet attempt.
type PlaceBetResultStatus string

const (
	PlaceBetSuccess                      PlaceBetResultStatus = "SUCCESS"
	PlaceBetFailureAuctionNotStarted     PlaceBetResultStatus = "FAILURE_AUCTION_NOT_STARTED"
	PlaceBetFailureAuctionFinished       PlaceBetResultStatus = "FAILURE_AUCTION_FINISHED"
	PlaceBetFailurePriceTooLow           PlaceBetResultStatus = "FAILURE_PRICE_TOO_LOW"
	PlaceBetFailurePriceLowerThanMinimal PlaceBetResultStatus = "FAILURE_PRICE_LOWER_THAN_MINIMAL_PRICE"
)

// PlaceBetResult is the typed outcome of Auction.PlaceBet. Rejections are
// normal business outcomes, not errors; only a SUCCESS result carries the
// accepted bet's data.
type PlaceBetResult struct {
	status        PlaceBetResultStatus
	specification PlaceBetSpecification
	bet           *BetSnapshot
}

func successResult(specification PlaceBetSpecification, bet BetSnapshot) PlaceBetResult {
	return PlaceBetResult{status: PlaceBetSuccess, specification: specification, bet: &bet}
}

func failureResult(status PlaceBetResultStatus, specification PlaceBetSpecification) PlaceBetResult {
	return PlaceBetResult{status: status, specification: specification}
}

func (r PlaceBetResult) Status() PlaceBetResultStatus { return r.status }

func (r PlaceBetResult) Specification() PlaceBetSpecification { return r.specification }

// Bet returns the accepted bet's snapshot; ok is false for every failure status.
func (r PlaceBetResult) Bet() (BetSnapshot, bool) {
	if r.bet == nil {
		return BetSnapshot{}, false
	}
	return *r.bet, true
}

// Accepted reports whether the bet was taken.
func (r PlaceBetResult) Accepted() bool { return r.status == PlaceBetSuccess }

// Bet is one accepted bid, immutable once appended to the auction.
type Bet struct {
	id           ID
	bidderID     ID
	creationTime time.Time
	price        Money
}

func (b Bet) Snapshot() BetSnapshot {
	return BetSnapshot{
		ID:           b.id,
		BidderID:     b.bidderID,
		CreationTime: b.creationTime,
		Price:        b.price,
	}
}

func betFromSnapshot(snapshot BetSnapshot) Bet {
	return Bet{
		id:           snapshot.ID,
		bidderID:     snapshot.BidderID,
		creationTime: snapshot.CreationTime,
		price:        snapshot.Price,
	}
}

// Auction is the aggregate governing one timed sale. It exclusively owns
// its bet sequence (insertion order = bid order = price order, since each
// accepted bet must exceed the prior top) and is reconstructed from a
// snapshot for every operation rather than kept resident in memory.
type Auction struct {
	id           ID
	code         string
	minimalPrice Money
	startDate    time.Time
	endDate      time.Time
	creationTime time.Time
	bets         []Bet
	status       AuctionStatus
	version      int
}

// CreateAuction builds a brand new aggregate from a validated specification:
// NOT_STARTED, no bets, version 0, creation time read from the clock.
func CreateAuction(specification CreateAuctionSpecification, clk clock.Clock) *Auction {
	return &Auction{
		id:           GenerateID(),
		code:         specification.Code(),
		minimalPrice: specification.MinimalPrice(),
		startDate:    specification.StartDate(),
		endDate:      specification.EndDate(),
		creationTime: clk.Now(),
		bets:         nil,
		status:       StatusNotStarted,
		version:      0,
	}
}

// RestoreAuction reconstructs an aggregate from a persisted snapshot,
// reproducing the bet order exactly as stored.
func RestoreAuction(snapshot AuctionSnapshot) *Auction {
	bets := make([]Bet, 0, len(snapshot.Bets))
	for _, betSnapshot := range snapshot.Bets {
		bets = append(bets, betFromSnapshot(betSnapshot))
	}
	return &Auction{
		id:           snapshot.ID,
		code:         snapshot.Code,
		minimalPrice: snapshot.MinimalPrice,
		startDate:    snapshot.StartDate,
		endDate:      snapshot.EndDate,
		creationTime: snapshot.CreationTime,
		bets:         bets,
		status:       snapshot.Status,
		version:      snapshot.Version,
	}
}

func (a *Auction) ID() ID { return a.id }

func (a *Auction) Code() string { return a.code }

func (a *Auction) Status() AuctionStatus { return a.status }

func (a *Auction) Version() int { return a.version }

// IsEligibleForStarting is true iff the auction has not started yet and its
// start date is at or before the current instant. Note the asymmetry with
// IsEligibleForFinishing: starting uses <=, finishing is strictly after.
func (a *Auction) IsEligibleForStarting(clk clock.Clock) bool {
	return a.status == StatusNotStarted && !a.startDate.After(clk.Now())
}

// Start transitions the auction to STARTED. Callers must check
// IsEligibleForStarting first; calling Start on an ineligible auction is a
// contract violation and panics.
func (a *Auction) Start(clk clock.Clock) {
	if !a.IsEligibleForStarting(clk) {
		panic("auction is not eligible for starting")
	}
	a.status = StatusStarted
	log.Info("Auction started",
		zap.String("auctionID", a.id.String()),
		zap.String("code", a.code),
	)
}

// IsEligibleForFinishing is true iff the auction is running and the current
// instant is strictly after the end date; at the end date itself the
// auction is not yet eligible.
func (a *Auction) IsEligibleForFinishing(clk clock.Clock) bool {
	return a.status == StatusStarted && clk.Now().After(a.endDate)
}

// Finish resolves the auction: FINISHED_SOLD if at least one bet exists,
// FINISHED_NOT_SOLD otherwise. Every accepted bet already cleared the
// minimal price at acceptance time, so no re-check happens here. Callers
// must check IsEligibleForFinishing first; an ineligible Finish panics.
func (a *Auction) Finish(clk clock.Clock) {
	if !a.IsEligibleForFinishing(clk) {
		panic("auction is not eligible for finishing")
	}
	if _, ok := a.lastBet(); ok {
		a.status = StatusFinishedSold
	} else {
		a.status = StatusFinishedNotSold
	}
	log.Info("Auction finished",
		zap.String("auctionID", a.id.String()),
		zap.String("code", a.code),
		zap.String("status", string(a.status)),
	)
}

// PlaceBet runs the bidding decision over the current state. The
// specification must target this auction; a mismatched code is a caller
// bug and panics. Rejections leave the bet sequence untouched.
func (a *Auction) PlaceBet(specification PlaceBetSpecification, clk clock.Clock) PlaceBetResult {
	if specification.AuctionCode() != a.code {
		panic("bet specification is not for this auction")
	}

	if a.status == StatusNotStarted {
		return a.rejectBet(PlaceBetFailureAuctionNotStarted, specification)
	}
	if a.status.IsTerminal() {
		return a.rejectBet(PlaceBetFailureAuctionFinished, specification)
	}

	lastBet, ok := a.lastBet()
	if !ok {
		if specification.Price().GreaterThanOrEqual(a.minimalPrice) {
			return a.acceptBet(specification, clk)
		}
		return a.rejectBet(PlaceBetFailurePriceLowerThanMinimal, specification)
	}

	// ties never win, the new bet must be strictly higher
	if specification.Price().GreaterThan(lastBet.price) {
		return a.acceptBet(specification, clk)
	}
	return a.rejectBet(PlaceBetFailurePriceTooLow, specification)
}

// CurrentAuctionedPrice is the leading bet's price, or zero in the
// auction's currency while no bet exists.
func (a *Auction) CurrentAuctionedPrice() Money {
	if lastBet, ok := a.lastBet(); ok {
		return lastBet.price
	}
	return ZeroMoney(a.minimalPrice.Currency())
}

// Snapshot projects the aggregate into its flat persisted form. Total and
// pure, callable in any state.
func (a *Auction) Snapshot() AuctionSnapshot {
	bets := make([]BetSnapshot, 0, len(a.bets))
	for _, bet := range a.bets {
		bets = append(bets, bet.Snapshot())
	}
	return AuctionSnapshot{
		ID:                    a.id,
		Code:                  a.code,
		MinimalPrice:          a.minimalPrice,
		CurrentAuctionedPrice: a.CurrentAuctionedPrice(),
		StartDate:             a.startDate,
		EndDate:               a.endDate,
		CreationTime:          a.creationTime,
		Bets:                  bets,
		Status:                a.status,
		Version:               a.version,
	}
}

func (a *Auction) acceptBet(specification PlaceBetSpecification, clk clock.Clock) PlaceBetResult {
	bet := Bet{
		id:           GenerateID(),
		bidderID:     specification.BidderID(),
		creationTime: clk.Now(),
		price:        specification.Price(),
	}
	a.bets = append(a.bets, bet)
	log.Info("Bet accepted",
		zap.String("auctionCode", a.code),
		zap.String("bidderID", bet.bidderID.String()),
		zap.String("price", bet.price.String()),
	)
	return successResult(specification, bet.Snapshot())
}

func (a *Auction) rejectBet(status PlaceBetResultStatus, specification PlaceBetSpecification) PlaceBetResult {
	log.Warn("Bet rejected",
		zap.String("auctionCode", a.code),
		zap.String("bidderID", specification.BidderID().String()),
		zap.String("price", specification.Price().String()),
		zap.String("reason", string(status)),
	)
	return failureResult(status, specification)
}

func (a *Auction) lastBet() (Bet, bool) {
	if len(a.bets) == 0 {
		return Bet{}, false
	}
	return a.bets[len(a.bets)-1], true
}

package domain

import "time"

// AuctionSnapshot is the flat, immutable projection of an Auction used to
// cross the aggregate boundary: it is what gets persisted and what gets
// published. Pure data, no behavior. It is produced by Auction.Snapshot and
// consumed by RestoreAuction; nothing else should assemble one by hand
// except the storage mapper.
type AuctionSnapshot struct {
	ID                    ID
	Code                  string
	MinimalPrice          Money
	CurrentAuctionedPrice Money
	StartDate             time.Time
	EndDate               time.Time
	CreationTime          time.Time
	Bets                  []BetSnapshot
	Status                AuctionStatus
	Version               int
}

// BetSnapshot is the flat projection of a single accepted bet.
type BetSnapshot struct {
	ID           ID
	BidderID     ID
	CreationTime time.Time
	Price        Money
}

package domain

import "context"

// AuctionQuery narrows repository lookups by business code and/or a status
// set. An empty status set means all statuses.
type AuctionQuery struct {
	Code     string
	Statuses []AuctionStatus
}

// QueryForCode builds a lookup for a single auction by its business code.
func QueryForCode(code string) AuctionQuery {
	return AuctionQuery{Code: code}
}

// QueryForStatuses builds a listing query filtered by statuses.
func QueryForStatuses(statuses ...AuctionStatus) AuctionQuery {
	return AuctionQuery{Statuses: statuses}
}

// AuctionRepository persists auction snapshots. Save upserts by id and must
// enforce the optimistic version check, failing with ErrVersionConflict
// when a concurrent writer got there first. FindOne fails with
// ErrAuctionNotFound when no auction matches.
type AuctionRepository interface {
	Save(ctx context.Context, snapshot AuctionSnapshot) (AuctionSnapshot, error)
	FindOne(ctx context.Context, query AuctionQuery) (AuctionSnapshot, error)
	FindAll(ctx context.Context, query AuctionQuery) ([]AuctionSnapshot, error)
}

// AuctionEventPublisher emits the semantic auction events. Delivery
// guarantees, ordering across subscribers and retries are the
// implementation's concern, the core only hands over snapshots.
type AuctionEventPublisher interface {
	PublishAuctionCreated(ctx context.Context, snapshot AuctionSnapshot) error
	PublishAuctionStarted(ctx context.Context, snapshot AuctionSnapshot) error
	PublishAuctionFinished(ctx context.Context, snapshot AuctionSnapshot) error
	PublishBetOperationPerformed(ctx context.Context, snapshot AuctionSnapshot, result PlaceBetResult) error
}

package memory

import (
	"context"
	"sync"

	"github.com/topbid/auction-api/internal/auction/domain"
)

// AuctionRepository is an in-memory domain.AuctionRepository with the same
// optimistic-version semantics as the postgres implementation. It backs the
// application tests and is handy for running the service without a database.
type AuctionRepository struct {
	mu        sync.RWMutex
	snapshots map[string]domain.AuctionSnapshot // keyed by auction id
}

func NewAuctionRepository() *AuctionRepository {
	return &AuctionRepository{
		snapshots: make(map[string]domain.AuctionSnapshot),
	}
}

// Save upserts by id, rejecting writes based on a stale version.
func (r *AuctionRepository) Save(_ context.Context, snapshot domain.AuctionSnapshot) (domain.AuctionSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.snapshots[snapshot.ID.String()]
	if exists {
		if stored.Version != snapshot.Version {
			return domain.AuctionSnapshot{}, domain.ErrVersionConflict
		}
		snapshot.Version++
	}

	r.snapshots[snapshot.ID.String()] = cloneSnapshot(snapshot)
	return snapshot, nil
}

func (r *AuctionRepository) FindOne(_ context.Context, query domain.AuctionQuery) (domain.AuctionSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, snapshot := range r.snapshots {
		if matches(snapshot, query) {
			return cloneSnapshot(snapshot), nil
		}
	}
	return domain.AuctionSnapshot{}, domain.ErrAuctionNotFound
}

func (r *AuctionRepository) FindAll(_ context.Context, query domain.AuctionQuery) ([]domain.AuctionSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []domain.AuctionSnapshot
	for _, snapshot := range r.snapshots {
		if matches(snapshot, query) {
			result = append(result, cloneSnapshot(snapshot))
		}
	}
	return result, nil
}

func matches(snapshot domain.AuctionSnapshot, query domain.AuctionQuery) bool {
	if query.Code != "" && snapshot.Code != query.Code {
		return false
	}
	if len(query.Statuses) == 0 {
		return true
	}
	for _, status := range query.Statuses {
		if snapshot.Status == status {
			return true
		}
	}
	return false
}

// cloneSnapshot copies the bet slice so stored state never shares mutable
// structure with callers.
func cloneSnapshot(snapshot domain.AuctionSnapshot) domain.AuctionSnapshot {
	clone := snapshot
	clone.Bets = make([]domain.BetSnapshot, len(snapshot.Bets))
	copy(clone.Bets, snapshot.Bets)
	return clone
}

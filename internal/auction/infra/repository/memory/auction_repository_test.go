package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/topbid/auction-api/internal/auction/domain"
	"github.com/topbid/auction-api/internal/shared/clock"
)

func seedSnapshot(t *testing.T) domain.AuctionSnapshot {
	t.Helper()
	start := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	minimalPrice, err := domain.NewMoney("100", domain.CurrencyPLN)
	if err != nil {
		t.Fatalf("new money: %v", err)
	}
	spec, err := domain.NewCreateAuctionSpecification("AUC-001", minimalPrice, start, start.Add(48*time.Hour))
	if err != nil {
		t.Fatalf("create specification: %v", err)
	}
	return domain.CreateAuction(spec, clock.NewFixed(start)).Snapshot()
}

func TestSaveAndFindOne(t *testing.T) {
	repo := NewAuctionRepository()
	snapshot := seedSnapshot(t)

	saved, err := repo.Save(context.Background(), snapshot)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.Version != 0 {
		t.Fatalf("first save must keep version 0, got %d", saved.Version)
	}

	found, err := repo.FindOne(context.Background(), domain.QueryForCode("AUC-001"))
	if err != nil {
		t.Fatalf("find one: %v", err)
	}
	if found.ID != snapshot.ID {
		t.Fatalf("expected id %s, got %s", snapshot.ID, found.ID)
	}
}

func TestSaveIncrementsVersion(t *testing.T) {
	repo := NewAuctionRepository()
	snapshot := seedSnapshot(t)

	first, err := repo.Save(context.Background(), snapshot)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	second, err := repo.Save(context.Background(), first)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if second.Version != first.Version+1 {
		t.Fatalf("expected version %d, got %d", first.Version+1, second.Version)
	}
}

func TestSaveStaleVersionConflicts(t *testing.T) {
	repo := NewAuctionRepository()
	snapshot := seedSnapshot(t)

	loaded, err := repo.Save(context.Background(), snapshot)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := repo.Save(context.Background(), loaded); err != nil {
		t.Fatalf("concurrent save: %v", err)
	}

	// a second writer still holding the old version must be rejected
	if _, err := repo.Save(context.Background(), loaded); !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
}

func TestFindOneNotFound(t *testing.T) {
	repo := NewAuctionRepository()
	if _, err := repo.FindOne(context.Background(), domain.QueryForCode("MISSING")); !errors.Is(err, domain.ErrAuctionNotFound) {
		t.Fatalf("expected ErrAuctionNotFound, got %v", err)
	}
}

func TestFindAllFiltersByStatus(t *testing.T) {
	repo := NewAuctionRepository()
	snapshot := seedSnapshot(t)
	if _, err := repo.Save(context.Background(), snapshot); err != nil {
		t.Fatalf("save: %v", err)
	}

	notStarted, err := repo.FindAll(context.Background(), domain.QueryForStatuses(domain.StatusNotStarted))
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(notStarted) != 1 {
		t.Fatalf("expected 1 NOT_STARTED auction, got %d", len(notStarted))
	}

	started, err := repo.FindAll(context.Background(), domain.QueryForStatuses(domain.StatusStarted))
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(started) != 0 {
		t.Fatalf("expected no STARTED auctions, got %d", len(started))
	}

	// an empty status set means all statuses
	all, err := repo.FindAll(context.Background(), domain.AuctionQuery{})
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 auction, got %d", len(all))
	}
}

package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/topbid/auction-api/internal/auction/domain"
	"github.com/topbid/auction-api/internal/auction/infra/repository/memory"
	"github.com/topbid/auction-api/internal/shared/clock"
)

var testBase = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

// recordingPublisher captures every published event for assertions.
type recordingPublisher struct {
	created  []domain.AuctionSnapshot
	started  []domain.AuctionSnapshot
	finished []domain.AuctionSnapshot
	betOps   []domain.PlaceBetResult
}

func (p *recordingPublisher) PublishAuctionCreated(_ context.Context, snapshot domain.AuctionSnapshot) error {
	p.created = append(p.created, snapshot)
	return nil
}

func (p *recordingPublisher) PublishAuctionStarted(_ context.Context, snapshot domain.AuctionSnapshot) error {
	p.started = append(p.started, snapshot)
	return nil
}

func (p *recordingPublisher) PublishAuctionFinished(_ context.Context, snapshot domain.AuctionSnapshot) error {
	p.finished = append(p.finished, snapshot)
	return nil
}

func (p *recordingPublisher) PublishBetOperationPerformed(_ context.Context, _ domain.AuctionSnapshot, result domain.PlaceBetResult) error {
	p.betOps = append(p.betOps, result)
	return nil
}

type fixture struct {
	service   AuctionService
	repo      *memory.AuctionRepository
	publisher *recordingPublisher
	clk       *clock.Fixed
}

func newFixture() *fixture {
	repo := memory.NewAuctionRepository()
	publisher := &recordingPublisher{}
	clk := clock.NewFixed(testBase)
	return &fixture{
		service:   newService(repo, publisher, clk),
		repo:      repo,
		publisher: publisher,
		clk:       clk,
	}
}

func newService(repo domain.AuctionRepository, publisher domain.AuctionEventPublisher, clk clock.Clock) AuctionService {
	return NewAuctionService(
		NewCreateAuctionUseCase(repo, publisher, clk),
		NewPlaceBetUseCase(repo, publisher, clk),
		NewSweepUseCase(repo, publisher, clk),
		NewGetAuctionUseCase(repo),
	)
}

func (f *fixture) createAuction(t *testing.T, code string, start time.Time) domain.ID {
	t.Helper()
	minimalPrice, err := domain.NewMoney("100", domain.CurrencyPLN)
	if err != nil {
		t.Fatalf("new money: %v", err)
	}
	spec, err := domain.NewCreateAuctionSpecification(code, minimalPrice, start, start.Add(48*time.Hour))
	if err != nil {
		t.Fatalf("create specification: %v", err)
	}
	id, err := f.service.CreateAuction(context.Background(), spec)
	if err != nil {
		t.Fatalf("create auction: %v", err)
	}
	return id
}

func (f *fixture) placeBet(t *testing.T, code, price string) (domain.PlaceBetResult, error) {
	t.Helper()
	money, err := domain.NewMoney(price, domain.CurrencyPLN)
	if err != nil {
		t.Fatalf("new money: %v", err)
	}
	spec, err := domain.NewPlaceBetSpecification(code, domain.GenerateID(), money)
	if err != nil {
		t.Fatalf("create bet specification: %v", err)
	}
	return f.service.PlaceBet(context.Background(), spec)
}

func (f *fixture) snapshot(t *testing.T, code string) domain.AuctionSnapshot {
	t.Helper()
	snapshot, err := f.repo.FindOne(context.Background(), domain.QueryForCode(code))
	if err != nil {
		t.Fatalf("find auction %s: %v", code, err)
	}
	return snapshot
}

func TestCreateAuction(t *testing.T) {
	f := newFixture()

	id := f.createAuction(t, "AUC-001", testBase)

	snapshot := f.snapshot(t, "AUC-001")
	if snapshot.ID != id {
		t.Fatalf("stored id %s does not match returned id %s", snapshot.ID, id)
	}
	if snapshot.Status != domain.StatusNotStarted {
		t.Fatalf("expected NOT_STARTED, got %s", snapshot.Status)
	}
	if snapshot.Version != 0 {
		t.Fatalf("expected version 0, got %d", snapshot.Version)
	}
	if len(f.publisher.created) != 1 {
		t.Fatalf("expected 1 created event, got %d", len(f.publisher.created))
	}
}

func TestStartEligibleAuctions(t *testing.T) {
	f := newFixture()
	f.createAuction(t, "AUC-DUE", testBase)                   // start date reached
	f.createAuction(t, "AUC-FUTURE", testBase.Add(time.Hour)) // not yet

	if err := f.service.StartEligibleAuctions(context.Background()); err != nil {
		t.Fatalf("start sweep: %v", err)
	}

	if status := f.snapshot(t, "AUC-DUE").Status; status != domain.StatusStarted {
		t.Fatalf("expected AUC-DUE to be STARTED, got %s", status)
	}
	if status := f.snapshot(t, "AUC-FUTURE").Status; status != domain.StatusNotStarted {
		t.Fatalf("expected AUC-FUTURE to stay NOT_STARTED, got %s", status)
	}
	if len(f.publisher.started) != 1 {
		t.Fatalf("expected 1 started event, got %d", len(f.publisher.started))
	}
	if version := f.snapshot(t, "AUC-DUE").Version; version != 1 {
		t.Fatalf("expected version 1 after start, got %d", version)
	}
}

func TestFinishEligibleAuctions(t *testing.T) {
	f := newFixture()
	f.createAuction(t, "AUC-001", testBase)
	if err := f.service.StartEligibleAuctions(context.Background()); err != nil {
		t.Fatalf("start sweep: %v", err)
	}
	if _, err := f.placeBet(t, "AUC-001", "150"); err != nil {
		t.Fatalf("place bet: %v", err)
	}

	// exactly at the end date nothing happens yet
	f.clk.Set(testBase.Add(48 * time.Hour))
	if err := f.service.FinishEligibleAuctions(context.Background()); err != nil {
		t.Fatalf("finish sweep: %v", err)
	}
	if status := f.snapshot(t, "AUC-001").Status; status != domain.StatusStarted {
		t.Fatalf("expected STARTED at the end date, got %s", status)
	}

	f.clk.Advance(time.Second)
	if err := f.service.FinishEligibleAuctions(context.Background()); err != nil {
		t.Fatalf("finish sweep: %v", err)
	}
	if status := f.snapshot(t, "AUC-001").Status; status != domain.StatusFinishedSold {
		t.Fatalf("expected FINISHED_SOLD, got %s", status)
	}
	if len(f.publisher.finished) != 1 {
		t.Fatalf("expected 1 finished event, got %d", len(f.publisher.finished))
	}
}

func TestFinishEligibleAuctionsWithoutBets(t *testing.T) {
	f := newFixture()
	f.createAuction(t, "AUC-001", testBase)
	if err := f.service.StartEligibleAuctions(context.Background()); err != nil {
		t.Fatalf("start sweep: %v", err)
	}

	f.clk.Set(testBase.Add(48*time.Hour + time.Second))
	if err := f.service.FinishEligibleAuctions(context.Background()); err != nil {
		t.Fatalf("finish sweep: %v", err)
	}

	if status := f.snapshot(t, "AUC-001").Status; status != domain.StatusFinishedNotSold {
		t.Fatalf("expected FINISHED_NOT_SOLD, got %s", status)
	}
}

func TestPlaceBetAccepted(t *testing.T) {
	f := newFixture()
	f.createAuction(t, "AUC-001", testBase)
	if err := f.service.StartEligibleAuctions(context.Background()); err != nil {
		t.Fatalf("start sweep: %v", err)
	}

	result, err := f.placeBet(t, "AUC-001", "150")
	if err != nil {
		t.Fatalf("place bet: %v", err)
	}

	if !result.Accepted() {
		t.Fatalf("expected accepted bet, got %s", result.Status())
	}
	snapshot := f.snapshot(t, "AUC-001")
	if len(snapshot.Bets) != 1 {
		t.Fatalf("expected 1 persisted bet, got %d", len(snapshot.Bets))
	}
	if snapshot.Version != 2 { // create=0, start=1, bet=2
		t.Fatalf("expected version 2, got %d", snapshot.Version)
	}
	if len(f.publisher.betOps) != 1 {
		t.Fatalf("expected 1 bet operation event, got %d", len(f.publisher.betOps))
	}
}

func TestPlaceBetRejectedIsPublishedButNotSaved(t *testing.T) {
	f := newFixture()
	f.createAuction(t, "AUC-001", testBase)
	if err := f.service.StartEligibleAuctions(context.Background()); err != nil {
		t.Fatalf("start sweep: %v", err)
	}
	before := f.snapshot(t, "AUC-001")

	result, err := f.placeBet(t, "AUC-001", "50")
	if err != nil {
		t.Fatalf("place bet: %v", err)
	}

	if result.Status() != domain.PlaceBetFailurePriceLowerThanMinimal {
		t.Fatalf("expected FAILURE_PRICE_LOWER_THAN_MINIMAL_PRICE, got %s", result.Status())
	}
	after := f.snapshot(t, "AUC-001")
	if after.Version != before.Version {
		t.Fatalf("rejected bet must not bump the version: %d -> %d", before.Version, after.Version)
	}
	if len(after.Bets) != 0 {
		t.Fatalf("rejected bet must not be persisted, got %d bets", len(after.Bets))
	}
	// observers see every attempt, not just accepted bets
	if len(f.publisher.betOps) != 1 {
		t.Fatalf("expected 1 bet operation event, got %d", len(f.publisher.betOps))
	}
}

func TestPlaceBetUnknownAuction(t *testing.T) {
	f := newFixture()

	_, err := f.placeBet(t, "NO-SUCH-AUCTION", "150")

	if !errors.Is(err, domain.ErrAuctionNotFound) {
		t.Fatalf("expected ErrAuctionNotFound, got %v", err)
	}
}

func TestGetAuction(t *testing.T) {
	f := newFixture()
	f.createAuction(t, "AUC-001", testBase)

	state, err := f.service.GetAuction(context.Background(), "AUC-001")
	if err != nil {
		t.Fatalf("get auction: %v", err)
	}

	if state.Code != "AUC-001" {
		t.Fatalf("unexpected code %s", state.Code)
	}
	if state.Status != string(domain.StatusNotStarted) {
		t.Fatalf("unexpected status %s", state.Status)
	}
	if state.CurrentAuctionedPrice != "0" {
		t.Fatalf("expected leading price 0, got %s", state.CurrentAuctionedPrice)
	}

	if _, err := f.service.GetAuction(context.Background(), "NO-SUCH-AUCTION"); !errors.Is(err, domain.ErrAuctionNotFound) {
		t.Fatalf("expected ErrAuctionNotFound, got %v", err)
	}
}

// savePickyRepo fails Save for one auction code to exercise sweep isolation.
type savePickyRepo struct {
	*memory.AuctionRepository
	failCode string
}

func (r *savePickyRepo) Save(ctx context.Context, snapshot domain.AuctionSnapshot) (domain.AuctionSnapshot, error) {
	if snapshot.Code == r.failCode && snapshot.Status == domain.StatusStarted {
		return domain.AuctionSnapshot{}, fmt.Errorf("save %s: storage unavailable", snapshot.Code)
	}
	return r.AuctionRepository.Save(ctx, snapshot)
}

func TestSweepContinuesWhenOneAuctionFails(t *testing.T) {
	repo := &savePickyRepo{AuctionRepository: memory.NewAuctionRepository(), failCode: "AUC-BROKEN"}
	publisher := &recordingPublisher{}
	clk := clock.NewFixed(testBase)
	f := &fixture{service: newService(repo, publisher, clk), repo: repo.AuctionRepository, publisher: publisher, clk: clk}

	f.createAuction(t, "AUC-BROKEN", testBase)
	f.createAuction(t, "AUC-OK", testBase)

	if err := f.service.StartEligibleAuctions(context.Background()); err != nil {
		t.Fatalf("start sweep: %v", err)
	}

	if status := f.snapshot(t, "AUC-OK").Status; status != domain.StatusStarted {
		t.Fatalf("expected AUC-OK to be STARTED despite the other failure, got %s", status)
	}
	if status := f.snapshot(t, "AUC-BROKEN").Status; status != domain.StatusNotStarted {
		t.Fatalf("expected AUC-BROKEN to stay NOT_STARTED, got %s", status)
	}
}

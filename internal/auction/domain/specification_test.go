package domain

import (
	"errors"
	"testing"
	"time"
)

var specBase = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func TestNewCreateAuctionSpecification(t *testing.T) {
	spec, err := NewCreateAuctionSpecification("AUC-001", mustMoney(t, "100"), specBase, specBase.Add(48*time.Hour))
	if err != nil {
		t.Fatalf("new create auction specification: %v", err)
	}
	if spec.Code() != "AUC-001" {
		t.Fatalf("unexpected code %s", spec.Code())
	}
	if !spec.MinimalPrice().Equal(mustMoney(t, "100")) {
		t.Fatalf("unexpected minimal price %s", spec.MinimalPrice())
	}
}

func TestNewCreateAuctionSpecificationDurationBounds(t *testing.T) {
	// both bounds are inclusive
	for _, duration := range []time.Duration{24 * time.Hour, 120 * time.Hour} {
		if _, err := NewCreateAuctionSpecification("AUC-001", mustMoney(t, "0"), specBase, specBase.Add(duration)); err != nil {
			t.Fatalf("duration %s must be accepted: %v", duration, err)
		}
	}
}

func TestNewCreateAuctionSpecificationInvalid(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		price   Money
		start   time.Time
		end     time.Time
		wantErr error
	}{
		{
			name: "empty code", code: "", price: mustMoney(t, "100"),
			start: specBase, end: specBase.Add(48 * time.Hour), wantErr: ErrCodeEmpty,
		},
		{
			name: "missing price", code: "AUC-001", price: Money{},
			start: specBase, end: specBase.Add(48 * time.Hour), wantErr: ErrMinimalPriceMissing,
		},
		{
			name: "negative price", code: "AUC-001", price: mustMoney(t, "-1"),
			start: specBase, end: specBase.Add(48 * time.Hour), wantErr: ErrMinimalPriceNegative,
		},
		{
			name: "missing dates", code: "AUC-001", price: mustMoney(t, "100"),
			wantErr: ErrDatesMissing,
		},
		{
			name: "start after end", code: "AUC-001", price: mustMoney(t, "100"),
			start: specBase.Add(48 * time.Hour), end: specBase, wantErr: ErrStartNotBeforeEnd,
		},
		{
			name: "start equals end", code: "AUC-001", price: mustMoney(t, "100"),
			start: specBase, end: specBase, wantErr: ErrStartNotBeforeEnd,
		},
		{
			name: "too short", code: "AUC-001", price: mustMoney(t, "100"),
			start: specBase, end: specBase.Add(24*time.Hour - time.Second), wantErr: ErrDurationOutOfRange,
		},
		{
			name: "too long", code: "AUC-001", price: mustMoney(t, "100"),
			start: specBase, end: specBase.Add(120*time.Hour + time.Second), wantErr: ErrDurationOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCreateAuctionSpecification(tt.code, tt.price, tt.start, tt.end)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNewPlaceBetSpecification(t *testing.T) {
	spec, err := NewPlaceBetSpecification("AUC-001", GenerateID(), mustMoney(t, "150"))
	if err != nil {
		t.Fatalf("new place bet specification: %v", err)
	}
	if spec.AuctionCode() != "AUC-001" {
		t.Fatalf("unexpected auction code %s", spec.AuctionCode())
	}
}

func TestNewPlaceBetSpecificationInvalid(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		bidder  ID
		price   Money
		wantErr error
	}{
		{name: "empty code", code: "", bidder: GenerateID(), price: mustMoney(t, "100"), wantErr: ErrCodeEmpty},
		{name: "missing bidder", code: "AUC-001", bidder: ID{}, price: mustMoney(t, "100"), wantErr: ErrBidderMissing},
		{name: "missing price", code: "AUC-001", bidder: GenerateID(), price: Money{}, wantErr: ErrPriceMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPlaceBetSpecification(tt.code, tt.bidder, tt.price)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

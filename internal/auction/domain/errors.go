package domain

import "errors"

var (
	ErrInvalidID       = errors.New("not a valid UUID")
	ErrUnknownCurrency = errors.New("unknown currency")
	ErrUnknownStatus   = errors.New("unknown auction status")
	ErrInvalidMoney    = errors.New("invalid money value")

	// specification validation
	ErrCodeEmpty            = errors.New("auction code is empty")
	ErrMinimalPriceMissing  = errors.New("minimal price is missing")
	ErrMinimalPriceNegative = errors.New("minimal price can not be negative")
	ErrDatesMissing         = errors.New("start date and end date are required")
	ErrStartNotBeforeEnd    = errors.New("start date must be before end date")
	ErrDurationOutOfRange   = errors.New("auction valid period is from 24 hours to 120 hours")
	ErrBidderMissing        = errors.New("bidder id is missing")
	ErrPriceMissing         = errors.New("bet price is missing")

	// collaborator failures
	ErrAuctionNotFound = errors.New("auction not found")
	ErrVersionConflict = errors.New("auction version conflict")
)

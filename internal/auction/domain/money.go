package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency enumerates the supported currencies. There is exactly one for
// now, multi-currency support is out of scope.
type Currency string

const CurrencyPLN Currency = "PLN"

// ParseCurrency maps raw onto a known Currency.
func ParseCurrency(raw string) (Currency, error) {
	if Currency(raw) != CurrencyPLN {
		return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, raw)
	}
	return CurrencyPLN, nil
}

// Money is an immutable amount + currency pair. Amounts are exact decimals,
// never implicitly rounded.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney parses amount as an exact decimal in the given currency.
func NewMoney(amount string, currency Currency) (Money, error) {
	if amount == "" {
		return Money{}, fmt.Errorf("%w: amount is empty", ErrInvalidMoney)
	}
	if currency == "" {
		return Money{}, fmt.Errorf("%w: currency is empty", ErrInvalidMoney)
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidMoney, amount)
	}
	return Money{amount: d, currency: currency}, nil
}

// NewMoneyFromDecimal wraps an already parsed decimal amount.
func NewMoneyFromDecimal(amount decimal.Decimal, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, fmt.Errorf("%w: currency is empty", ErrInvalidMoney)
	}
	return Money{amount: amount, currency: currency}, nil
}

// ZeroMoney returns a zero amount in the given currency.
func ZeroMoney(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

func (m Money) Amount() decimal.Decimal { return m.amount }

func (m Money) Currency() Currency { return m.currency }

// IsZero reports whether m is the zero value, i.e. was never constructed.
func (m Money) IsZero() bool { return m.currency == "" }

func (m Money) IsNegative() bool { return m.amount.IsNegative() }

func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

func (m Money) GreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

func (m Money) GreaterThanOrEqual(other Money) bool {
	return m.amount.GreaterThanOrEqual(other.amount)
}

func (m Money) String() string {
	return m.amount.String() + " " + string(m.currency)
}

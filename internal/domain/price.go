package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Price struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"` // ISO 4217 code, e.g. EUR
}

func NewPrice(amount string, currency string) (Price, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Price{}, fmt.Errorf("failed to parse price amount %q: %w", amount, err)
	}
	return Price{Amount: d, Currency: currency}, nil
}

// Mul returns the price multiplied by a quantity
func (p Price) Mul(quantity int) Price {
	return Price{Amount: p.Amount.Mul(decimal.NewFromInt(int64(quantity))), Currency: p.Currency}
}

// Formatted renders the amount with two decimals followed by the currency code
func (p Price) Formatted() string {
	if p.Currency == "" {
		return p.Amount.StringFixed(2)
	}
	return p.Amount.StringFixed(2) + " " + p.Currency
}

func (p Price) String() string {
	return p.Formatted()
}

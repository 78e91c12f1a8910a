package pricing

import (
	"fmt"
	"strings"

	"catalog/navigator/internal/domain"

	"github.com/shopspring/decimal"
)

// Converter is the currency conversion policy used when summing prices
type Converter interface {
	Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error)
}

// RateTable converts through a base currency. Rates are units of a currency per one unit of base.
type RateTable struct {
	base  string
	rates map[string]decimal.Decimal
}

func NewRateTable(base string, rates map[string]decimal.Decimal) *RateTable {
	table := &RateTable{
		base:  strings.ToUpper(base),
		rates: make(map[string]decimal.Decimal, len(rates)+1),
	}
	for currency, rate := range rates {
		if rate.IsPositive() {
			table.rates[strings.ToUpper(currency)] = rate
		}
	}
	table.rates[table.base] = decimal.NewFromInt(1)
	return table
}

// ParseRates builds a table from decimal strings as they appear in configuration
func ParseRates(base string, rates map[string]string) (*RateTable, error) {
	parsed := make(map[string]decimal.Decimal, len(rates))
	for currency, value := range rates {
		rate, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rate for %s: %w", currency, err)
		}
		parsed[currency] = rate
	}
	return NewRateTable(base, parsed), nil
}

func (t *RateTable) Base() string {
	return t.base
}

// Len returns the number of known currencies, base included
func (t *RateTable) Len() int {
	return len(t.rates)
}

func (t *RateTable) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	if from == to {
		return amount, nil
	}

	fromRate, ok := t.rates[from]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: no rate for %s", domain.ErrCurrencyMismatch, from)
	}
	toRate, ok := t.rates[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: no rate for %s", domain.ErrCurrencyMismatch, to)
	}

	return amount.Div(fromRate).Mul(toRate), nil
}

// Sum adds prices in the currency of the first one. Without a converter every price
// must share that currency.
func Sum(prices []domain.Price, converter Converter) (domain.Price, error) {
	if len(prices) == 0 {
		return domain.Price{Amount: decimal.Zero}, nil
	}

	currency := prices[0].Currency
	total := decimal.Zero
	converted := false
	for _, p := range prices {
		amount := p.Amount
		if p.Currency != currency {
			if converter == nil {
				return domain.Price{}, fmt.Errorf("%w: %s and %s", domain.ErrCurrencyMismatch, currency, p.Currency)
			}
			var err error
			amount, err = converter.Convert(p.Amount, p.Currency, currency)
			if err != nil {
				return domain.Price{}, err
			}
			converted = true
		}
		total = total.Add(amount)
	}

	if converted {
		total = total.Round(2)
	}
	return domain.Price{Amount: total, Currency: currency}, nil
}

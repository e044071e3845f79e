package provider

import (
	"context"

	"github.com/shopspring/decimal"
)

// SpotRates is one provider answer: every quote currency for a base currency.
type SpotRates struct {
	Base        string
	Rates       map[string]decimal.Decimal
	LastUpdated string
}

// CentralBankRate is one central-bank policy rate record. RatePct is nil
// when the provider sent no rate.
type CentralBankRate struct {
	CentralBank string
	Country     string
	RatePct     *decimal.Decimal
	LastUpdated string
}

// SpotRateProvider fetches spot exchange rates for a base currency.
type SpotRateProvider interface {
	SpotRates(ctx context.Context, base string) (*SpotRates, error)
}

// InterestRateProvider fetches central-bank rates for a canonical country name.
// The first record is the authoritative one.
type InterestRateProvider interface {
	CentralBankRates(ctx context.Context, country string) ([]CentralBankRate, error)
}

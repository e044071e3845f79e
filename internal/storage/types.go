package storage

import (
	"strings"

	"github.com/shopspring/decimal"
)

// SpotKey identifies a spot rate converting Base into Quote.
type SpotKey struct {
	Base  string
	Quote string
}

// NewSpotKey upper-cases both currency codes.
func NewSpotKey(base, quote string) SpotKey {
	return SpotKey{Base: strings.ToUpper(base), Quote: strings.ToUpper(quote)}
}

// CountryKey identifies an interest rate by canonical country name.
type CountryKey string

// RateEntry is one cached rate and the provider's last-updated stamp.
type RateEntry struct {
	Rate        decimal.Decimal `json:"rate"`
	LastUpdated string          `json:"last_updated"`
}

// SpotTable is every quote the provider returned for one base currency.
type SpotTable struct {
	Base        string                     `json:"base"`
	Rates       map[string]decimal.Decimal `json:"rates"`
	LastUpdated string                     `json:"last_updated"`
}

package service

import (
	"github.com/shopspring/decimal"
)

// HedgeRequest is one hedge calculation: an amount and a domestic/foreign country pair.
// For a payable the amount is in the foreign currency, for a receivable in the domestic one.
type HedgeRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Domestic string          `json:"domestic"`
	Foreign  string          `json:"foreign"`
}

package service

import (
	"github.com/shopspring/decimal"

	"github.com/omerorhan/hedging-calculator/internal/country"
)

// Quote is a rate together with the provider's last-updated stamp.
type Quote struct {
	Rate        decimal.Decimal `json:"rate"`
	LastUpdated string          `json:"last_updated"`
}

// KeyRates are the three rates a hedge calculation is based on. Interest
// rates are annual percentages as published.
type KeyRates struct {
	Domestic         country.Country `json:"domestic"`
	Foreign          country.Country `json:"foreign"`
	DomesticCurrency string          `json:"domestic_currency"`
	ForeignCurrency  string          `json:"foreign_currency"`
	Spot             Quote           `json:"spot"`
	DomesticInterest Quote           `json:"domestic_interest"`
	ForeignInterest  Quote           `json:"foreign_interest"`
}

// PayableResult is the money-market hedge of a foreign-currency payable.
type PayableResult struct {
	PresentValueFC decimal.Decimal `json:"present_value_fc"`
	BorrowDC       decimal.Decimal `json:"borrow_dc"`
	FinalOweDC     decimal.Decimal `json:"final_owe_dc"`
	ForwardRate    decimal.Decimal `json:"forward_rate"`
}

// ReceivableResult is the money-market hedge of a domestic-currency receivable.
type ReceivableResult struct {
	PresentValueDC    decimal.Decimal `json:"present_value_dc"`
	BorrowFC          decimal.Decimal `json:"borrow_fc"`
	FinalInvestmentFC decimal.Decimal `json:"final_investment_fc"`
	ForwardRate       decimal.Decimal `json:"forward_rate"`
}

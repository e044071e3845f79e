package service

import (
	"strings"
	"text/template"

	"github.com/shopspring/decimal"
)

const reportText = `Key Rates:
- Spot exchange rate ({{.DC}}/{{.FC}}): {{fixed .Rates.Spot.Rate 4}} (Last updated: {{.Rates.Spot.LastUpdated}})
- {{.Rates.Domestic}} interest rate: {{fixed .Rates.DomesticInterest.Rate 2}}% (Last updated: {{.Rates.DomesticInterest.LastUpdated}})
- {{.Rates.Foreign}} interest rate: {{fixed .Rates.ForeignInterest.Rate 2}}% (Last updated: {{.Rates.ForeignInterest.LastUpdated}})

Account Payable Hedging Report:

If Account Payable is {{.Amount}} {{.FC}}, we should

1. Borrow the {{.Rates.Domestic}} currency ({{.DC}}) equivalent to the present value of the {{.Rates.Foreign}} currency ({{.FC}}) payable:
- Present Value of {{.FC}}: PV(AP_fc) = {{.Amount}} / (1 + fc_interest_rate) = {{fixed .Payable.PresentValueFC 4}} {{.FC}}
- Borrowed Amount in {{.DC}}: Borrow Needed = PV(AP_fc) * spot_rate = {{fixed .Payable.BorrowDC 4}} {{.DC}}

2. Convert the borrowed {{.DC}} into {{.FC}} and deposit it at the {{.Rates.Foreign}} interest rate:
- Deposit grows to {{.Amount}} {{.FC}} after one year.

3. Repay the {{.Rates.Domestic}} loan with interest:
- Total Repayment in {{.DC}}: Final Owe = {{fixed .Payable.FinalOweDC 4}} {{.DC}}

4. Effective Locked-in Forward Rate:
- Effective Forward Rate = Final Owe / Payable Amount = {{fixed .Payable.ForwardRate 4}} {{.DC}}/{{.FC}}

Account Receivable Hedging Report:

If Account Receivable is {{.Amount}} {{.DC}}, we should

1. Borrow the {{.Rates.Foreign}} currency ({{.FC}}) equivalent to the present value of the {{.Rates.Domestic}} currency ({{.DC}}) receivable of {{.Amount}} {{.DC}}:
- Present Value of {{.DC}}: PV(AR_dc) = {{.Amount}} / (1 + dc_interest_rate) = {{fixed .Receivable.PresentValueDC 4}} {{.DC}}
- Borrowed Amount in {{.FC}}: Borrow Needed = PV(AR_dc) / spot_rate = {{fixed .Receivable.BorrowFC 4}} {{.FC}}

2. Invest the borrowed {{.FC}} at the {{.Rates.Foreign}} interest rate:
- Investment grows to Final Investment = {{fixed .Receivable.FinalInvestmentFC 4}} {{.FC}}

3. Use the receivable {{.Amount}} {{.DC}} to settle obligations.

4. Effective Locked-in Forward Rate:
- Effective Forward Rate = Receivable / Final Investment = {{fixed .Receivable.ForwardRate 4}} {{.DC}}/{{.FC}}
`

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"fixed": func(d decimal.Decimal, places int32) string { return d.StringFixed(places) },
}).Parse(reportText))

type reportData struct {
	Amount     decimal.Decimal
	DC, FC     string
	Rates      KeyRates
	Payable    PayableResult
	Receivable ReceivableResult
}

// RenderReport formats a combined payable and receivable report. Rounding
// happens here only: four places for amounts and rates, two for interest.
func RenderReport(amount decimal.Decimal, rates KeyRates, payable PayableResult, receivable ReceivableResult) (string, error) {
	var b strings.Builder
	err := reportTemplate.Execute(&b, reportData{
		Amount:     amount,
		DC:         rates.DomesticCurrency,
		FC:         rates.ForeignCurrency,
		Rates:      rates,
		Payable:    payable,
		Receivable: receivable,
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/omerorhan/hedging-calculator/internal/apperrors"
)

// PresentValue discounts fv by one period at rate r (a fraction, not a percentage).
func PresentValue(fv, r decimal.Decimal) (decimal.Decimal, error) {
	factor := one.Add(r)
	if factor.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: discount factor 1 + (%s) is zero", apperrors.ErrInvalidInput, r)
	}
	return fv.Div(factor), nil
}

// ForwardRate is the effective rate locked in: final amount per unit of the transaction amount.
func ForwardRate(final, transaction decimal.Decimal) (decimal.Decimal, error) {
	if transaction.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: transaction amount is zero", apperrors.ErrInvalidInput)
	}
	return final.Div(transaction), nil
}

// PercentToFraction turns a published percentage like 4.5 into 0.045.
func PercentToFraction(p decimal.Decimal) decimal.Decimal {
	return p.Div(hundred)
}

// PayableHedge borrows domestic currency today so that, deposited abroad, it
// grows into amountFC in one year. Rates are fractions.
func PayableHedge(amountFC, spot, dcRate, fcRate decimal.Decimal) (PayableResult, error) {
	pvFC, err := PresentValue(amountFC, fcRate)
	if err != nil {
		return PayableResult{}, err
	}

	borrowDC := pvFC.Mul(spot)
	finalOweDC := borrowDC.Mul(one.Add(dcRate))

	forward, err := ForwardRate(finalOweDC, amountFC)
	if err != nil {
		return PayableResult{}, err
	}

	return PayableResult{
		PresentValueFC: pvFC,
		BorrowDC:       borrowDC,
		FinalOweDC:     finalOweDC,
		ForwardRate:    forward,
	}, nil
}

// ReceivableHedge borrows foreign currency against the discounted domestic
// receivable and invests it abroad for one year. Rates are fractions.
func ReceivableHedge(amountDC, spot, dcRate, fcRate decimal.Decimal) (ReceivableResult, error) {
	pvDC, err := PresentValue(amountDC, dcRate)
	if err != nil {
		return ReceivableResult{}, err
	}

	if spot.IsZero() {
		return ReceivableResult{}, fmt.Errorf("%w: spot rate is zero", apperrors.ErrInvalidInput)
	}
	borrowFC := pvDC.Div(spot)
	finalInvestmentFC := borrowFC.Mul(one.Add(fcRate))

	forward, err := ForwardRate(amountDC, finalInvestmentFC)
	if err != nil {
		return ReceivableResult{}, err
	}

	return ReceivableResult{
		PresentValueDC:    pvDC,
		BorrowFC:          borrowFC,
		FinalInvestmentFC: finalInvestmentFC,
		ForwardRate:       forward,
	}, nil
}

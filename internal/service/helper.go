package service

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/omerorhan/hedging-calculator/internal/apperrors"
)

// normalizeCurrencyCode trims and upper-cases code, which must be three letters.
func normalizeCurrencyCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", fmt.Errorf("%w: currency code %q must be 3 letters", apperrors.ErrInvalidInput, code)
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return "", fmt.Errorf("%w: currency code %q must be 3 letters", apperrors.ErrInvalidInput, code)
		}
	}
	return code, nil
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive, got %s", apperrors.ErrInvalidInput, amount)
	}
	return nil
}

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/omerorhan/hedging-calculator/internal/apperrors"
)

const ExchangeRateAPIBaseURL = "https://v6.exchangerate-api.com"

// ExchangeRateAPI is a client for the ExchangeRate-API v6 "latest" endpoint.
type ExchangeRateAPI struct {
	apiKey    string
	baseURL   string
	transport *transport
}

// NewExchangeRateAPI constructs a client. A blank apiKey is a configuration error.
func NewExchangeRateAPI(apiKey string, options ...ClientOption) (*ExchangeRateAPI, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: exchange rate API key is missing", apperrors.ErrConfiguration)
	}

	opts := DefaultClientOptions()
	opts.BaseURL = ExchangeRateAPIBaseURL
	for _, option := range options {
		option(opts)
	}

	return &ExchangeRateAPI{
		apiKey:    apiKey,
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		transport: newTransport("exchangerate-api", opts),
	}, nil
}

type exchangeRateResponse struct {
	Result            string                     `json:"result"`
	ErrorType         string                     `json:"error-type"`
	BaseCode          string                     `json:"base_code"`
	TimeLastUpdateUTC string                     `json:"time_last_update_utc"`
	ConversionRates   map[string]decimal.Decimal `json:"conversion_rates"`
}

// SpotRates loads every conversion rate for base.
func (api *ExchangeRateAPI) SpotRates(ctx context.Context, base string) (*SpotRates, error) {
	base = strings.ToUpper(strings.TrimSpace(base))
	if !isCurrencyCode(base) {
		return nil, fmt.Errorf("%w: currency code %q must be 3 letters", apperrors.ErrInvalidInput, base)
	}

	rawURL := fmt.Sprintf("%s/v6/%s/latest/%s", api.baseURL, url.PathEscape(api.apiKey), base)
	redacted := fmt.Sprintf("%s/v6/***/latest/%s", api.baseURL, base)

	status, body, err := api.transport.get(ctx, rawURL, redacted, nil)
	if err != nil {
		return nil, err
	}

	var resp exchangeRateResponse
	decodeErr := json.Unmarshal(body, &resp)

	// Errors may arrive with either a 2xx or 4xx status; the body decides.
	if decodeErr == nil && resp.Result == "error" && resp.ErrorType == "unsupported-code" {
		return nil, fmt.Errorf("%w: exchange rates for %s (unsupported code)", apperrors.ErrRateNotFound, base)
	}
	if status >= http.StatusMultipleChoices {
		return nil, api.transport.statusError(status, body)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: decoding exchange rates for %s: %v", apperrors.ErrRateFetch, base, decodeErr)
	}
	if resp.Result != "success" {
		return nil, fmt.Errorf("%w: exchange rates for %s: result=%q error-type=%q",
			apperrors.ErrRateFetch, base, resp.Result, resp.ErrorType)
	}
	if len(resp.ConversionRates) == 0 {
		return nil, fmt.Errorf("%w: exchange rates for %s: no conversion_rates in response", apperrors.ErrRateFetch, base)
	}

	// Non-positive quotes are dropped; asking for one later reports it as missing.
	rates := make(map[string]decimal.Decimal, len(resp.ConversionRates))
	for code, r := range resp.ConversionRates {
		if !r.IsPositive() {
			api.transport.lg.Warn("dropping non-positive quote",
				zap.String("base", base), zap.String("quote", code), zap.String("rate", r.String()))
			continue
		}
		rates[strings.ToUpper(code)] = r
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("%w: exchange rates for %s: no usable conversion_rates in response", apperrors.ErrRateFetch, base)
	}

	lastUpdated := strings.TrimSpace(resp.TimeLastUpdateUTC)
	if lastUpdated == "" {
		lastUpdated = unknownTimestamp
	}

	return &SpotRates{
		Base:        base,
		Rates:       rates,
		LastUpdated: lastUpdated,
	}, nil
}

func isCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

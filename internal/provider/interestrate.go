package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/omerorhan/hedging-calculator/internal/apperrors"
)

const APINinjasBaseURL = "https://api.api-ninjas.com"

// unknownTimestamp matches storage.UnknownTimestamp.
const unknownTimestamp = "Unknown"

// InterestRateAPI is a client for the API Ninjas interest rate endpoint.
type InterestRateAPI struct {
	apiKey    string
	baseURL   string
	transport *transport
}

// NewInterestRateAPI constructs a client. A blank apiKey is a configuration error.
func NewInterestRateAPI(apiKey string, options ...ClientOption) (*InterestRateAPI, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: interest rate API key is missing", apperrors.ErrConfiguration)
	}

	opts := DefaultClientOptions()
	opts.BaseURL = APINinjasBaseURL
	for _, option := range options {
		option(opts)
	}

	return &InterestRateAPI{
		apiKey:    apiKey,
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		transport: newTransport("api-ninjas", opts),
	}, nil
}

type interestRateResponse struct {
	CentralBankRates []struct {
		CentralBank string           `json:"central_bank"`
		Country     string           `json:"country"`
		RatePct     *decimal.Decimal `json:"rate_pct"`
		LastUpdated string           `json:"last_updated"`
	} `json:"central_bank_rates"`
}

// CentralBankRates loads the central-bank rate records for a canonical country name.
func (api *InterestRateAPI) CentralBankRates(ctx context.Context, country string) ([]CentralBankRate, error) {
	country = strings.TrimSpace(country)
	if country == "" {
		return nil, fmt.Errorf("%w: country is empty", apperrors.ErrInvalidInput)
	}

	rawURL := api.baseURL + "/v1/interestrate?" + url.Values{"country": {country}}.Encode()
	header := http.Header{"X-Api-Key": {api.apiKey}}

	status, body, err := api.transport.get(ctx, rawURL, rawURL, header)
	if err != nil {
		return nil, err
	}
	if status >= http.StatusMultipleChoices {
		return nil, api.transport.statusError(status, body)
	}

	var resp interestRateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding interest rates for %s: %v", apperrors.ErrRateFetch, country, err)
	}

	out := make([]CentralBankRate, 0, len(resp.CentralBankRates))
	for _, r := range resp.CentralBankRates {
		lastUpdated := strings.TrimSpace(r.LastUpdated)
		if lastUpdated == "" {
			lastUpdated = unknownTimestamp
		}
		out = append(out, CentralBankRate{
			CentralBank: r.CentralBank,
			Country:     r.Country,
			RatePct:     r.RatePct,
			LastUpdated: lastUpdated,
		})
	}
	return out, nil
}

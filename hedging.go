package hedging

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/omerorhan/hedging-calculator/internal/apperrors"
	"github.com/omerorhan/hedging-calculator/internal/country"
	"github.com/omerorhan/hedging-calculator/internal/provider"
	"github.com/omerorhan/hedging-calculator/internal/service"
)

// Client provides a clean public API for the hedge calculator
type Client struct {
	service *service.HedgeCalculator
}

// NewClient creates a new hedge calculator client
func NewClient(options ...ServiceOption) (*Client, error) {
	svc, err := service.NewHedgeCalculator(options...)
	if err != nil {
		return nil, err
	}

	return &Client{
		service: svc,
	}, nil
}

// NewSession returns a client whose rate cache starts empty. Rates are
// cached for the lifetime of a session and never refreshed.
func (c *Client) NewSession() *Client {
	return &Client{service: c.service.NewSession()}
}

func (c *Client) ResolveCountry(input string) (Country, error) {
	return c.service.ResolveCountry(input)
}

func (c *Client) GetSpotRate(ctx context.Context, dc, fc string) (decimal.Decimal, string, error) {
	return c.service.GetSpotRate(ctx, dc, fc)
}

func (c *Client) GetInterestRate(ctx context.Context, countryName string) (decimal.Decimal, string, error) {
	return c.service.GetInterestRate(ctx, countryName)
}

func (c *Client) KeyRates(ctx context.Context, dcCountry, fcCountry string) (KeyRates, error) {
	return c.service.KeyRates(ctx, dcCountry, fcCountry)
}

// CalculatePayable hedges paying amountFC in one year. Both countries must use
// different currencies, otherwise the error is ErrInvalidInput.
func (c *Client) CalculatePayable(ctx context.Context, amountFC decimal.Decimal, dcCountry, fcCountry string) (PayableResult, error) {
	return c.service.CalculatePayable(ctx, amountFC, dcCountry, fcCountry)
}

// CalculateReceivable hedges receiving amountDC in one year. A same-currency
// pair is ErrInvalidInput.
func (c *Client) CalculateReceivable(ctx context.Context, amountDC decimal.Decimal, dcCountry, fcCountry string) (ReceivableResult, error) {
	return c.service.CalculateReceivable(ctx, amountDC, dcCountry, fcCountry)
}

func (c *Client) GenerateCombinedReport(ctx context.Context, amount decimal.Decimal, dcCountry, fcCountry string) (string, error) {
	return c.service.GenerateCombinedReport(ctx, amount, dcCountry, fcCountry)
}

// Close releases the Redis snapshot store if the client opened one
func (c *Client) Close() error {
	return c.service.Close()
}

// Service options (re-exported for convenience)
type ServiceOption = service.ServiceOption

// Re-export service options for clean API
var (
	WithExchangeRateAPI      = service.WithExchangeRateAPI
	WithInterestRateAPI      = service.WithInterestRateAPI
	WithRedisConfig          = service.WithRedisConfig
	WithSnapshotTTL          = service.WithSnapshotTTL
	WithRequestTimeout       = service.WithRequestTimeout
	WithRateLimit            = service.WithRateLimit
	WithLogging              = service.WithLogging
	WithLogger               = service.WithLogger
	WithSpotRateProvider     = service.WithSpotRateProvider
	WithInterestRateProvider = service.WithInterestRateProvider
)

// Re-export common types for convenience
type (
	Country          = country.Country
	KeyRates         = service.KeyRates
	Quote            = service.Quote
	PayableResult    = service.PayableResult
	ReceivableResult = service.ReceivableResult
	HedgeRequest     = service.HedgeRequest

	// Implement these to plug custom rate sources in with
	// WithSpotRateProvider and WithInterestRateProvider.
	SpotRateProvider     = provider.SpotRateProvider
	InterestRateProvider = provider.InterestRateProvider
	SpotRates            = provider.SpotRates
	CentralBankRate      = provider.CentralBankRate
)

// Sentinel errors, for use with errors.Is
var (
	ErrConfiguration       = apperrors.ErrConfiguration
	ErrUnrecognizedCountry = apperrors.ErrUnrecognizedCountry
	ErrRateFetch           = apperrors.ErrRateFetch
	ErrRateNotFound        = apperrors.ErrRateNotFound
	ErrInvalidInput        = apperrors.ErrInvalidInput
)

type UnrecognizedCountryError = apperrors.UnrecognizedCountryError

package provider

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// loggingSpotProvider decorates a SpotRateProvider with logging
type loggingSpotProvider struct {
	next SpotRateProvider
	lg   *zap.Logger
}

// NewLoggingSpotProvider returns a new logging SpotRateProvider
func NewLoggingSpotProvider(lg *zap.Logger, next SpotRateProvider) SpotRateProvider {
	return &loggingSpotProvider{next: next, lg: lg}
}

func (p *loggingSpotProvider) SpotRates(ctx context.Context, base string) (rates *SpotRates, err error) {
	defer func(begin time.Time) {
		quotes := 0
		if rates != nil {
			quotes = len(rates.Rates)
		}
		p.lg.Info("spot rates fetched",
			zap.String("method", "spot_rates"),
			zap.String("base", base),
			zap.Int("quotes", quotes),
			zap.Duration("took", time.Since(begin)),
			zap.Error(err),
		)
	}(time.Now())
	return p.next.SpotRates(ctx, base)
}

// loggingInterestProvider decorates an InterestRateProvider with logging
type loggingInterestProvider struct {
	next InterestRateProvider
	lg   *zap.Logger
}

// NewLoggingInterestProvider returns a new logging InterestRateProvider
func NewLoggingInterestProvider(lg *zap.Logger, next InterestRateProvider) InterestRateProvider {
	return &loggingInterestProvider{next: next, lg: lg}
}

func (p *loggingInterestProvider) CentralBankRates(ctx context.Context, country string) (rates []CentralBankRate, err error) {
	defer func(begin time.Time) {
		p.lg.Info("central bank rates fetched",
			zap.String("method", "central_bank_rates"),
			zap.String("country", country),
			zap.Int("records", len(rates)),
			zap.Duration("took", time.Since(begin)),
			zap.Error(err),
		)
	}(time.Now())
	return p.next.CentralBankRates(ctx, country)
}

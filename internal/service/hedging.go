package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/omerorhan/hedging-calculator/internal/apperrors"
	"github.com/omerorhan/hedging-calculator/internal/country"
	"github.com/omerorhan/hedging-calculator/internal/provider"
	"github.com/omerorhan/hedging-calculator/internal/storage"
)

// HedgeCalculator resolves countries, looks up rates through a session cache
// and computes money-market hedges. One calculation is sequential; the
// session cache is safe for concurrent use.
type HedgeCalculator struct {
	resolver  *country.Resolver
	spot      provider.SpotRateProvider
	interest  provider.InterestRateProvider
	store     storage.Store
	ownsStore bool
	session   *storage.MemoryCache
	opts      *ServiceOptions
	lg        *zap.Logger
}

// ServiceOptions provides configuration for the hedge calculator
type ServiceOptions struct {
	ExchangeRateBaseURL string        `json:"exchangeRateBaseUrl"`
	ExchangeRateAPIKey  string        `json:"-"`
	InterestRateBaseURL string        `json:"interestRateBaseUrl"`
	InterestRateAPIKey  string        `json:"-"`
	RedisAddr           string        `json:"redisAddr"`
	SnapshotTTL         time.Duration `json:"snapshotTtl"`
	RequestTimeout      time.Duration `json:"requestTimeout"`
	RateLimitPerMinute  int           `json:"rateLimitPerMinute"`
	EnableLogging       bool          `json:"enableLogging"`

	logger           *zap.Logger
	spotProvider     provider.SpotRateProvider
	interestProvider provider.InterestRateProvider
	store            storage.Store
}

// DefaultServiceOptions returns sensible default options
func DefaultServiceOptions() *ServiceOptions {
	return &ServiceOptions{
		SnapshotTTL:        defaultSnapshotTTL,
		RequestTimeout:     defaultRequestTimeout,
		RateLimitPerMinute: defaultRateLimitPerMinute,
		EnableLogging:      true,
	}
}

// ServiceOption is a function that configures service options
type ServiceOption func(*ServiceOptions)

// WithExchangeRateAPI sets the spot rate service. An empty baseURL keeps the public default.
func WithExchangeRateAPI(baseURL, apiKey string) ServiceOption {
	return func(opts *ServiceOptions) {
		opts.ExchangeRateBaseURL = baseURL
		opts.ExchangeRateAPIKey = apiKey
	}
}

// WithInterestRateAPI sets the interest rate service. An empty baseURL keeps the public default.
func WithInterestRateAPI(baseURL, apiKey string) ServiceOption {
	return func(opts *ServiceOptions) {
		opts.InterestRateBaseURL = baseURL
		opts.InterestRateAPIKey = apiKey
	}
}

// WithRedisConfig enables the Redis snapshot store
func WithRedisConfig(addr string) ServiceOption {
	return func(opts *ServiceOptions) {
		opts.RedisAddr = addr
	}
}

func WithSnapshotTTL(ttl time.Duration) ServiceOption {
	return func(opts *ServiceOptions) {
		opts.SnapshotTTL = ttl
	}
}

func WithRequestTimeout(timeout time.Duration) ServiceOption {
	return func(opts *ServiceOptions) {
		opts.RequestTimeout = timeout
	}
}

// WithRateLimit caps provider requests per minute; zero or less disables the limit.
func WithRateLimit(perMinute int) ServiceOption {
	return func(opts *ServiceOptions) {
		opts.RateLimitPerMinute = perMinute
	}
}

// WithLogging enables/disables logging
func WithLogging(enabled bool) ServiceOption {
	return func(opts *ServiceOptions) {
		opts.EnableLogging = enabled
	}
}

func WithLogger(lg *zap.Logger) ServiceOption {
	return func(opts *ServiceOptions) {
		opts.logger = lg
	}
}

// WithSpotRateProvider replaces the ExchangeRate-API client; no API key is then required.
func WithSpotRateProvider(p provider.SpotRateProvider) ServiceOption {
	return func(opts *ServiceOptions) {
		opts.spotProvider = p
	}
}

// WithInterestRateProvider replaces the API Ninjas client; no API key is then required.
func WithInterestRateProvider(p provider.InterestRateProvider) ServiceOption {
	return func(opts *ServiceOptions) {
		opts.interestProvider = p
	}
}

// WithStore sets the snapshot store. The caller keeps ownership and closes it.
func WithStore(store storage.Store) ServiceOption {
	return func(opts *ServiceOptions) {
		opts.store = store
	}
}

// NewHedgeCalculator creates a calculator with an empty session cache. A
// missing API key for a provider that was not injected is ErrConfiguration.
func NewHedgeCalculator(options ...ServiceOption) (*HedgeCalculator, error) {
	opts := DefaultServiceOptions()

	// Apply options
	for _, option := range options {
		option(opts)
	}

	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}

	lg := opts.logger
	if lg == nil || !opts.EnableLogging {
		lg = zap.NewNop()
	}
	lg = lg.Named("hedging")

	resolver := country.Default()

	clientOpts := []provider.ClientOption{
		provider.WithTimeout(opts.RequestTimeout),
		provider.WithRateLimit(opts.RateLimitPerMinute, defaultRateLimitBurst),
		provider.WithLogger(lg),
	}

	spot := opts.spotProvider
	if spot == nil {
		api, err := provider.NewExchangeRateAPI(opts.ExchangeRateAPIKey, withBaseURL(clientOpts, opts.ExchangeRateBaseURL)...)
		if err != nil {
			return nil, err
		}
		spot = api
	}

	interest := opts.interestProvider
	if interest == nil {
		api, err := provider.NewInterestRateAPI(opts.InterestRateAPIKey, withBaseURL(clientOpts, opts.InterestRateBaseURL)...)
		if err != nil {
			return nil, err
		}
		interest = api
	}

	if opts.EnableLogging {
		spot = provider.NewLoggingSpotProvider(lg, spot)
		interest = provider.NewLoggingInterestProvider(lg, interest)
	}

	hc := &HedgeCalculator{
		resolver: resolver,
		spot:     spot,
		interest: interest,
		store:    opts.store,
		session:  storage.NewMemoryCache(),
		opts:     opts,
		lg:       lg,
	}

	if hc.store == nil && opts.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), opts.RequestTimeout)
		defer cancel()

		redisCache, err := storage.NewRedisCache(ctx, opts.RedisAddr, storage.WithRedisOptions(&storage.CacheOptions{DefaultTTL: opts.SnapshotTTL}))
		if err != nil {
			return nil, fmt.Errorf("%w: failed to create Redis cache: %v", apperrors.ErrConfiguration, err)
		}
		hc.store = redisCache
		hc.ownsStore = true
		hc.log("✅ Redis snapshot store connected (ttl: %v)", opts.SnapshotTTL)
	}

	return hc, nil
}

func withBaseURL(options []provider.ClientOption, baseURL string) []provider.ClientOption {
	if baseURL == "" {
		return options
	}
	return append(options[:len(options):len(options)], provider.WithBaseURL(baseURL))
}

// NewSession returns a calculator with an empty session cache that shares
// providers, resolver, store and logger with hc. Closing it does not close the store.
func (hc *HedgeCalculator) NewSession() *HedgeCalculator {
	return &HedgeCalculator{
		resolver: hc.resolver,
		spot:     hc.spot,
		interest: hc.interest,
		store:    hc.store,
		session:  storage.NewMemoryCache(),
		opts:     hc.opts,
		lg:       hc.lg,
	}
}

// Resolver exposes the country table in use.
func (hc *HedgeCalculator) Resolver() *country.Resolver {
	return hc.resolver
}

func (hc *HedgeCalculator) ResolveCountry(input string) (country.Country, error) {
	return hc.resolver.Resolve(input)
}

// GetSpotRate returns how many units of fc one unit of dc buys, and when the
// provider last updated it. The first lookup of a base currency caches every
// quote the provider returned for it.
func (hc *HedgeCalculator) GetSpotRate(ctx context.Context, dc, fc string) (decimal.Decimal, string, error) {
	dc, err := normalizeCurrencyCode(dc)
	if err != nil {
		return decimal.Zero, "", err
	}
	fc, err = normalizeCurrencyCode(fc)
	if err != nil {
		return decimal.Zero, "", err
	}

	key := storage.NewSpotKey(dc, fc)
	if e, ok := hc.session.GetSpot(key); ok {
		return e.Rate, e.LastUpdated, nil
	}

	table := hc.loadSpotSnapshot(ctx, dc)
	if table == nil {
		rates, err := hc.spot.SpotRates(ctx, dc)
		if err != nil {
			return decimal.Zero, "", err
		}
		table = &storage.SpotTable{Base: dc, Rates: rates.Rates, LastUpdated: rates.LastUpdated}
		hc.saveSpotSnapshot(ctx, table)
	}

	hc.session.DumpSpotTable(table)

	e, ok := hc.session.GetSpot(key)
	if !ok {
		return decimal.Zero, "", fmt.Errorf("%w: exchange rate for %s not found", apperrors.ErrRateNotFound, fc)
	}
	return e.Rate, e.LastUpdated, nil
}

// GetInterestRate returns the one-year central bank rate of a country as an
// annual percentage, and when it was last updated.
func (hc *HedgeCalculator) GetInterestRate(ctx context.Context, countryName string) (decimal.Decimal, string, error) {
	c, err := hc.resolver.Resolve(countryName)
	if err != nil {
		return decimal.Zero, "", err
	}

	key := storage.CountryKey(c)
	if e, ok := hc.session.GetInterest(key); ok {
		return e.Rate, e.LastUpdated, nil
	}

	if e := hc.loadInterestSnapshot(ctx, key); e != nil {
		stored := hc.session.PutInterest(key, *e)
		return stored.Rate, stored.LastUpdated, nil
	}

	records, err := hc.interest.CentralBankRates(ctx, string(c))
	if err != nil {
		return decimal.Zero, "", err
	}
	// The first record is the country's own central bank.
	if len(records) == 0 || records[0].RatePct == nil {
		return decimal.Zero, "", fmt.Errorf("%w: interest rate for %s not found in the response", apperrors.ErrRateNotFound, c)
	}

	entry := storage.RateEntry{Rate: *records[0].RatePct, LastUpdated: records[0].LastUpdated}
	if entry.LastUpdated == "" {
		entry.LastUpdated = storage.UnknownTimestamp
	}
	hc.saveInterestSnapshot(ctx, key, entry)

	stored := hc.session.PutInterest(key, entry)
	return stored.Rate, stored.LastUpdated, nil
}

// KeyRates resolves both countries and looks up the spot rate and both interest rates.
func (hc *HedgeCalculator) KeyRates(ctx context.Context, dcCountry, fcCountry string) (KeyRates, error) {
	rates, err := hc.resolvePair(dcCountry, fcCountry)
	if err != nil {
		return KeyRates{}, err
	}

	if rates.Spot.Rate, rates.Spot.LastUpdated, err = hc.GetSpotRate(ctx, rates.DomesticCurrency, rates.ForeignCurrency); err != nil {
		return KeyRates{}, err
	}
	if rates.DomesticInterest.Rate, rates.DomesticInterest.LastUpdated, err = hc.GetInterestRate(ctx, string(rates.Domestic)); err != nil {
		return KeyRates{}, err
	}
	if rates.ForeignInterest.Rate, rates.ForeignInterest.LastUpdated, err = hc.GetInterestRate(ctx, string(rates.Foreign)); err != nil {
		return KeyRates{}, err
	}
	return rates, nil
}

// CalculatePayable hedges an obligation to pay amountFC of the foreign currency in one year.
// Two names for one country, such as "UK" and "England", have nothing to hedge
// and are rejected with ErrInvalidInput before any rate is fetched.
func (hc *HedgeCalculator) CalculatePayable(ctx context.Context, amountFC decimal.Decimal, dcCountry, fcCountry string) (PayableResult, error) {
	if err := validateAmount(amountFC); err != nil {
		return PayableResult{}, err
	}
	rates, err := hc.KeyRates(ctx, dcCountry, fcCountry)
	if err != nil {
		return PayableResult{}, err
	}
	return payableFor(amountFC, rates)
}

// CalculateReceivable hedges amountDC of the domestic currency to be received in one year.
// As with CalculatePayable, a same-currency pair is ErrInvalidInput.
func (hc *HedgeCalculator) CalculateReceivable(ctx context.Context, amountDC decimal.Decimal, dcCountry, fcCountry string) (ReceivableResult, error) {
	if err := validateAmount(amountDC); err != nil {
		return ReceivableResult{}, err
	}
	rates, err := hc.KeyRates(ctx, dcCountry, fcCountry)
	if err != nil {
		return ReceivableResult{}, err
	}
	return receivableFor(amountDC, rates)
}

// GenerateCombinedReport renders the key rates plus the payable and receivable
// hedges of amount, each read in its own currency. A same-currency pair is ErrInvalidInput.
func (hc *HedgeCalculator) GenerateCombinedReport(ctx context.Context, amount decimal.Decimal, dcCountry, fcCountry string) (string, error) {
	if err := validateAmount(amount); err != nil {
		return "", err
	}
	rates, err := hc.KeyRates(ctx, dcCountry, fcCountry)
	if err != nil {
		return "", err
	}

	payable, err := payableFor(amount, rates)
	if err != nil {
		return "", err
	}
	receivable, err := receivableFor(amount, rates)
	if err != nil {
		return "", err
	}

	hc.log("📊 Report generated for %s/%s, amount %s", rates.DomesticCurrency, rates.ForeignCurrency, amount)
	return RenderReport(amount, rates, payable, receivable)
}

// Close closes the Redis snapshot store if this calculator opened it.
func (hc *HedgeCalculator) Close() error {
	if hc.ownsStore && hc.store != nil {
		hc.log("🛑 Closing Redis snapshot store")
		return hc.store.Close()
	}
	return nil
}

func (hc *HedgeCalculator) resolvePair(dcCountry, fcCountry string) (KeyRates, error) {
	dc, err := hc.resolver.Resolve(dcCountry)
	if err != nil {
		return KeyRates{}, err
	}
	fc, err := hc.resolver.Resolve(fcCountry)
	if err != nil {
		return KeyRates{}, err
	}
	dcCode, err := hc.resolver.Currency(dc)
	if err != nil {
		return KeyRates{}, err
	}
	fcCode, err := hc.resolver.Currency(fc)
	if err != nil {
		return KeyRates{}, err
	}
	if dcCode == fcCode {
		return KeyRates{}, fmt.Errorf("%w: domestic and foreign currency are both %s", apperrors.ErrInvalidInput, dcCode)
	}
	return KeyRates{Domestic: dc, Foreign: fc, DomesticCurrency: dcCode, ForeignCurrency: fcCode}, nil
}

func payableFor(amountFC decimal.Decimal, rates KeyRates) (PayableResult, error) {
	return PayableHedge(amountFC, rates.Spot.Rate,
		PercentToFraction(rates.DomesticInterest.Rate), PercentToFraction(rates.ForeignInterest.Rate))
}

func receivableFor(amountDC decimal.Decimal, rates KeyRates) (ReceivableResult, error) {
	return ReceivableHedge(amountDC, rates.Spot.Rate,
		PercentToFraction(rates.DomesticInterest.Rate), PercentToFraction(rates.ForeignInterest.Rate))
}

func (hc *HedgeCalculator) loadSpotSnapshot(ctx context.Context, base string) *storage.SpotTable {
	if hc.store == nil {
		return nil
	}
	table, err := hc.store.GetSpotTable(ctx, base)
	if err != nil {
		hc.warn("⚠️ Warning: Failed to load %s spot snapshot from store: %v", base, err)
		return nil
	}
	if table != nil {
		hc.log("✅ Loaded %s spot snapshot from store (%d quotes)", base, len(table.Rates))
	}
	return table
}

func (hc *HedgeCalculator) saveSpotSnapshot(ctx context.Context, table *storage.SpotTable) {
	if hc.store == nil {
		return
	}
	if err := hc.store.SetSpotTable(ctx, table); err != nil {
		hc.warn("⚠️ Warning: failed to store %s spot snapshot: %v", table.Base, err)
	}
}

func (hc *HedgeCalculator) loadInterestSnapshot(ctx context.Context, key storage.CountryKey) *storage.RateEntry {
	if hc.store == nil {
		return nil
	}
	e, err := hc.store.GetInterest(ctx, key)
	if err != nil {
		hc.warn("⚠️ Warning: Failed to load %s interest snapshot from store: %v", key, err)
		return nil
	}
	if e != nil {
		hc.log("✅ Loaded %s interest rate from store", key)
	}
	return e
}

func (hc *HedgeCalculator) saveInterestSnapshot(ctx context.Context, key storage.CountryKey, entry storage.RateEntry) {
	if hc.store == nil {
		return
	}
	if err := hc.store.SetInterest(ctx, key, entry); err != nil {
		hc.warn("⚠️ Warning: failed to store %s interest snapshot: %v", key, err)
	}
}

func (hc *HedgeCalculator) log(format string, args ...interface{}) {
	hc.lg.Sugar().Infof(format, args...)
}

func (hc *HedgeCalculator) warn(format string, args ...interface{}) {
	hc.lg.Sugar().Warnf(format, args...)
}

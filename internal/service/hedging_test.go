package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/omerorhan/hedging-calculator/internal/apperrors"
	"github.com/omerorhan/hedging-calculator/internal/country"
	"github.com/omerorhan/hedging-calculator/internal/provider"
	"github.com/omerorhan/hedging-calculator/internal/storage"
)

const nokUpdated = "Mon, 13 Oct 2025 00:00:01 +0000"

type mockSpotProvider struct {
	mock.Mock
}

func (m *mockSpotProvider) SpotRates(ctx context.Context, base string) (*provider.SpotRates, error) {
	args := m.Called(ctx, base)
	rates, _ := args.Get(0).(*provider.SpotRates)
	return rates, args.Error(1)
}

type mockInterestProvider struct {
	mock.Mock
}

func (m *mockInterestProvider) CentralBankRates(ctx context.Context, c string) ([]provider.CentralBankRate, error) {
	args := m.Called(ctx, c)
	rates, _ := args.Get(0).([]provider.CentralBankRate)
	return rates, args.Error(1)
}

func nokRates() *provider.SpotRates {
	return &provider.SpotRates{
		Base: "NOK",
		Rates: map[string]decimal.Decimal{
			"NOK": decimal.NewFromInt(1),
			"PLN": d("0.36"),
			"SEK": d("0.95"),
		},
		LastUpdated: nokUpdated,
	}
}

func centralBank(pct string, updated string) []provider.CentralBankRate {
	r := d(pct)
	return []provider.CentralBankRate{{CentralBank: "Central Bank", RatePct: &r, LastUpdated: updated}}
}

type CalculatorSuite struct {
	suite.Suite
	ctx      context.Context
	spot     *mockSpotProvider
	interest *mockInterestProvider
	hc       *HedgeCalculator
}

func TestCalculatorSuite(t *testing.T) {
	suite.Run(t, new(CalculatorSuite))
}

func (s *CalculatorSuite) SetupTest() {
	s.ctx = context.Background()
	s.spot = new(mockSpotProvider)
	s.interest = new(mockInterestProvider)

	hc, err := NewHedgeCalculator(
		WithSpotRateProvider(s.spot),
		WithInterestRateProvider(s.interest),
		WithLogging(false),
	)
	s.Require().NoError(err)
	s.hc = hc
}

func (s *CalculatorSuite) TearDownTest() {
	s.spot.AssertExpectations(s.T())
	s.interest.AssertExpectations(s.T())
}

func (s *CalculatorSuite) expectNorwayPoland() {
	s.spot.On("SpotRates", mock.Anything, "NOK").Return(nokRates(), nil).Once()
	s.interest.On("CentralBankRates", mock.Anything, "Norway").Return(centralBank("10", "09-18-2025"), nil).Once()
	s.interest.On("CentralBankRates", mock.Anything, "Poland").Return(centralBank("5", "10-08-2025"), nil).Once()
}

func (s *CalculatorSuite) TestResolveCountry() {
	c, err := s.hc.ResolveCountry(" britain ")
	s.Require().NoError(err)
	s.Equal(country.UnitedKingdom, c)

	_, err = s.hc.ResolveCountry("Atlantis")
	s.ErrorIs(err, apperrors.ErrUnrecognizedCountry)
}

func (s *CalculatorSuite) TestGetSpotRate_OneFetchPerBase() {
	s.spot.On("SpotRates", mock.Anything, "NOK").Return(nokRates(), nil).Once()

	rate, updated, err := s.hc.GetSpotRate(s.ctx, "NOK", "PLN")
	s.Require().NoError(err)
	s.True(d("0.36").Equal(rate))
	s.Equal(nokUpdated, updated)

	again, againUpdated, err := s.hc.GetSpotRate(s.ctx, " nok", "pln ")
	s.Require().NoError(err)
	s.True(rate.Equal(again))
	s.Equal(updated, againUpdated)

	// Other quotes of the same table are already cached.
	sek, _, err := s.hc.GetSpotRate(s.ctx, "NOK", "SEK")
	s.Require().NoError(err)
	s.True(d("0.95").Equal(sek))

	s.spot.AssertNumberOfCalls(s.T(), "SpotRates", 1)
}

func (s *CalculatorSuite) TestGetSpotRate_QuoteMissing() {
	s.spot.On("SpotRates", mock.Anything, "NOK").Return(nokRates(), nil).Once()

	_, _, err := s.hc.GetSpotRate(s.ctx, "NOK", "CHF")
	s.Require().ErrorIs(err, apperrors.ErrRateNotFound)
	s.Contains(err.Error(), "CHF")
}

func (s *CalculatorSuite) TestGetSpotRate_ProviderFailureIsNotCached() {
	boom := errors.Join(apperrors.ErrRateFetch, errors.New("http 500"))
	s.spot.On("SpotRates", mock.Anything, "NOK").Return(nil, boom).Once()
	s.spot.On("SpotRates", mock.Anything, "NOK").Return(nokRates(), nil).Once()

	_, _, err := s.hc.GetSpotRate(s.ctx, "NOK", "PLN")
	s.ErrorIs(err, apperrors.ErrRateFetch)

	rate, _, err := s.hc.GetSpotRate(s.ctx, "NOK", "PLN")
	s.Require().NoError(err)
	s.True(d("0.36").Equal(rate))
}

func (s *CalculatorSuite) TestGetSpotRate_InvalidCodes() {
	for _, pair := range [][2]string{{"NO", "PLN"}, {"NOK", ""}, {"N0K", "PLN"}, {"NOK", "PLNX"}} {
		_, _, err := s.hc.GetSpotRate(s.ctx, pair[0], pair[1])
		s.ErrorIs(err, apperrors.ErrInvalidInput, pair)
	}
	s.spot.AssertNotCalled(s.T(), "SpotRates", mock.Anything, mock.Anything)
}

func (s *CalculatorSuite) TestGetInterestRate_CachedByCanonicalCountry() {
	s.interest.On("CentralBankRates", mock.Anything, "United Kingdom").Return(centralBank("4.0", "08-07-2025"), nil).Once()

	rate, updated, err := s.hc.GetInterestRate(s.ctx, "UK")
	s.Require().NoError(err)
	s.True(d("4").Equal(rate))
	s.Equal("08-07-2025", updated)

	rate, _, err = s.hc.GetInterestRate(s.ctx, "England")
	s.Require().NoError(err)
	s.True(d("4").Equal(rate))
}

func (s *CalculatorSuite) TestGetInterestRate_NotFound() {
	s.interest.On("CentralBankRates", mock.Anything, "Mexico").Return([]provider.CentralBankRate{}, nil).Once()
	s.interest.On("CentralBankRates", mock.Anything, "China").
		Return([]provider.CentralBankRate{{CentralBank: "People's Bank of China", LastUpdated: "Unknown"}}, nil).Once()

	_, _, err := s.hc.GetInterestRate(s.ctx, "Mexico")
	s.ErrorIs(err, apperrors.ErrRateNotFound)

	_, _, err = s.hc.GetInterestRate(s.ctx, "China")
	s.ErrorIs(err, apperrors.ErrRateNotFound)
}

func (s *CalculatorSuite) TestGetInterestRate_UnknownCountryMakesNoRequest() {
	_, _, err := s.hc.GetInterestRate(s.ctx, "France")
	s.ErrorIs(err, apperrors.ErrUnrecognizedCountry)
	s.interest.AssertNotCalled(s.T(), "CentralBankRates", mock.Anything, mock.Anything)
}

func (s *CalculatorSuite) TestKeyRates() {
	s.expectNorwayPoland()

	rates, err := s.hc.KeyRates(s.ctx, "norway", "POLAND")
	s.Require().NoError(err)

	s.Equal(country.Norway, rates.Domestic)
	s.Equal(country.Poland, rates.Foreign)
	s.Equal("NOK", rates.DomesticCurrency)
	s.Equal("PLN", rates.ForeignCurrency)
	s.True(d("0.36").Equal(rates.Spot.Rate))
	s.Equal(nokUpdated, rates.Spot.LastUpdated)
	s.True(d("10").Equal(rates.DomesticInterest.Rate))
	s.Equal("09-18-2025", rates.DomesticInterest.LastUpdated)
	s.True(d("5").Equal(rates.ForeignInterest.Rate))
}

func (s *CalculatorSuite) TestCalculatePayableAndReceivable() {
	s.expectNorwayPoland()

	payable, err := s.hc.CalculatePayable(s.ctx, d("1050"), "Norway", "Poland")
	s.Require().NoError(err)
	s.True(d("1000").Equal(payable.PresentValueFC))
	s.True(d("360").Equal(payable.BorrowDC))
	s.True(d("396").Equal(payable.FinalOweDC))
	s.Equal("0.3771", payable.ForwardRate.StringFixed(4))

	// Same session: no further fetches.
	receivable, err := s.hc.CalculateReceivable(s.ctx, d("1100"), "Norway", "Poland")
	s.Require().NoError(err)
	s.True(d("1000").Equal(receivable.PresentValueDC))
	s.Equal("2777.7778", receivable.BorrowFC.StringFixed(4))
	s.Equal("2916.6667", receivable.FinalInvestmentFC.StringFixed(4))
	s.Equal("0.3771", receivable.ForwardRate.StringFixed(4))
}

func gbpRates() *provider.SpotRates {
	return &provider.SpotRates{
		Base: "GBP",
		Rates: map[string]decimal.Decimal{
			"GBP": decimal.NewFromInt(1),
			"TRY": d("41.2875"),
			"SEK": d("12.6094"),
		},
		LastUpdated: "Tue, 14 Oct 2025 00:00:01 +0000",
	}
}

func (s *CalculatorSuite) assertAllPositive(values map[string]decimal.Decimal) {
	for name, v := range values {
		s.True(v.IsPositive(), "%s = %s", name, v)
	}
}

func (s *CalculatorSuite) TestCalculatePayable_UnitedKingdomTurkiye() {
	s.spot.On("SpotRates", mock.Anything, "GBP").Return(gbpRates(), nil).Once()
	s.interest.On("CentralBankRates", mock.Anything, "United Kingdom").Return(centralBank("4", "08-07-2025"), nil).Once()
	s.interest.On("CentralBankRates", mock.Anything, "Türkiye").Return(centralBank("40.5", "09-11-2025"), nil).Once()

	payable, err := s.hc.CalculatePayable(s.ctx, decimal.NewFromInt(1_000_000), "United Kingdom", "Türkiye")
	s.Require().NoError(err)
	s.assertAllPositive(map[string]decimal.Decimal{
		"present value FC": payable.PresentValueFC,
		"borrow DC":        payable.BorrowDC,
		"final owe DC":     payable.FinalOweDC,
		"forward rate":     payable.ForwardRate,
	})
	s.True(payable.PresentValueFC.LessThan(decimal.NewFromInt(1_000_000)))
}

func (s *CalculatorSuite) TestCalculateReceivable_UnitedKingdomSweden() {
	s.spot.On("SpotRates", mock.Anything, "GBP").Return(gbpRates(), nil).Once()
	s.interest.On("CentralBankRates", mock.Anything, "United Kingdom").Return(centralBank("4", "08-07-2025"), nil).Once()
	s.interest.On("CentralBankRates", mock.Anything, "Sweden").Return(centralBank("1.75", "09-24-2025"), nil).Once()

	receivable, err := s.hc.CalculateReceivable(s.ctx, decimal.NewFromInt(2_000_000), "United Kingdom", "Sweden")
	s.Require().NoError(err)
	s.assertAllPositive(map[string]decimal.Decimal{
		"present value DC":    receivable.PresentValueDC,
		"borrow FC":           receivable.BorrowFC,
		"final investment FC": receivable.FinalInvestmentFC,
		"forward rate":        receivable.ForwardRate,
	})
	s.True(receivable.PresentValueDC.LessThan(decimal.NewFromInt(2_000_000)))
}

func (s *CalculatorSuite) TestCalculate_RejectsAmountsBeforeFetching() {
	for _, amount := range []string{"0", "-1", "-0.01"} {
		_, err := s.hc.CalculatePayable(s.ctx, d(amount), "Norway", "Poland")
		s.ErrorIs(err, apperrors.ErrInvalidInput, amount)

		_, err = s.hc.CalculateReceivable(s.ctx, d(amount), "Norway", "Poland")
		s.ErrorIs(err, apperrors.ErrInvalidInput, amount)

		_, err = s.hc.GenerateCombinedReport(s.ctx, d(amount), "Norway", "Poland")
		s.ErrorIs(err, apperrors.ErrInvalidInput, amount)
	}
	s.spot.AssertNotCalled(s.T(), "SpotRates", mock.Anything, mock.Anything)
	s.interest.AssertNotCalled(s.T(), "CentralBankRates", mock.Anything, mock.Anything)
}

func (s *CalculatorSuite) TestCalculate_SameCurrency() {
	_, err := s.hc.CalculatePayable(s.ctx, d("100"), "UK", "England")
	s.ErrorIs(err, apperrors.ErrInvalidInput)

	_, err = s.hc.CalculateReceivable(s.ctx, d("100"), "Britain", "United Kingdom")
	s.ErrorIs(err, apperrors.ErrInvalidInput)

	_, err = s.hc.GenerateCombinedReport(s.ctx, d("100"), "UK", "UK")
	s.ErrorIs(err, apperrors.ErrInvalidInput)

	s.spot.AssertNotCalled(s.T(), "SpotRates", mock.Anything, mock.Anything)
}

func (s *CalculatorSuite) TestCalculate_UnrecognizedCountry() {
	_, err := s.hc.CalculateReceivable(s.ctx, d("100"), "Norway", "Narnia")
	s.ErrorIs(err, apperrors.ErrUnrecognizedCountry)

	var uerr *apperrors.UnrecognizedCountryError
	s.Require().True(errors.As(err, &uerr))
	s.Equal("Narnia", uerr.Input)
}

func (s *CalculatorSuite) TestGenerateCombinedReport() {
	s.expectNorwayPoland()

	report, err := s.hc.GenerateCombinedReport(s.ctx, d("1500000"), "Norway", "Poland")
	s.Require().NoError(err)

	s.Contains(report, "Key Rates:")
	s.Contains(report, "Spot exchange rate (NOK/PLN): 0.3600 (Last updated: "+nokUpdated+")")
	s.Contains(report, "Norway interest rate: 10.00%")
	s.Contains(report, "Poland interest rate: 5.00%")
	s.Contains(report, "Account Payable Hedging Report:")
	s.Contains(report, "Account Receivable Hedging Report:")
	s.Contains(report, "PV(AP_fc) = 1500000 / (1 + fc_interest_rate) = 1428571.4286 PLN")
	s.Contains(report, "PV(AR_dc) = 1500000 / (1 + dc_interest_rate) = 1363636.3636 NOK")
}

func (s *CalculatorSuite) TestNewSession_StartsEmpty() {
	s.spot.On("SpotRates", mock.Anything, "NOK").Return(nokRates(), nil).Twice()

	_, _, err := s.hc.GetSpotRate(s.ctx, "NOK", "PLN")
	s.Require().NoError(err)

	fresh := s.hc.NewSession()
	spot, interest := fresh.session.Len()
	s.Zero(spot)
	s.Zero(interest)

	_, _, err = fresh.GetSpotRate(s.ctx, "NOK", "PLN")
	s.Require().NoError(err)
	s.spot.AssertNumberOfCalls(s.T(), "SpotRates", 2)
}

func TestNewHedgeCalculator_MissingKeys(t *testing.T) {
	_, err := NewHedgeCalculator()
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)

	_, err = NewHedgeCalculator(WithExchangeRateAPI("", "spot-key"))
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)

	_, err = NewHedgeCalculator(WithSpotRateProvider(new(mockSpotProvider)), WithInterestRateAPI("", " "))
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)

	hc, err := NewHedgeCalculator(WithExchangeRateAPI("", "spot-key"), WithInterestRateAPI("http://localhost:1", "rate-key"))
	require.NoError(t, err)
	assert.NoError(t, hc.Close())
}

func TestNewHedgeCalculator_BadRedis(t *testing.T) {
	_, err := NewHedgeCalculator(
		WithSpotRateProvider(new(mockSpotProvider)),
		WithInterestRateProvider(new(mockInterestProvider)),
		WithRedisConfig("tcp://127.0.0.1:1"),
	)
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
}

func TestHedgeCalculator_SnapshotStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	spot := new(mockSpotProvider)
	spot.On("SpotRates", mock.Anything, "GBP").Return(&provider.SpotRates{
		Base:        "GBP",
		Rates:       map[string]decimal.Decimal{"TRY": d("41.2875")},
		LastUpdated: "Tue, 14 Oct 2025 00:00:01 +0000",
	}, nil).Once()
	interest := new(mockInterestProvider)
	interest.On("CentralBankRates", mock.Anything, "Türkiye").Return(centralBank("40.5", "09-11-2025"), nil).Once()

	hc, err := NewHedgeCalculator(
		WithSpotRateProvider(spot),
		WithInterestRateProvider(interest),
		WithRedisConfig("tcp://"+mr.Addr()),
		WithSnapshotTTL(15*time.Minute),
		WithLogging(false),
	)
	require.NoError(t, err)

	_, _, err = hc.GetSpotRate(ctx, "GBP", "TRY")
	require.NoError(t, err)
	_, _, err = hc.GetInterestRate(ctx, "Turkey")
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, mr.TTL("hedging:spot:GBP"))
	assert.Equal(t, 15*time.Minute, mr.TTL("hedging:interest:Türkiye"))

	// A new session misses its own cache but is served by the snapshot.
	session := hc.NewSession()
	rate, updated, err := session.GetSpotRate(ctx, "GBP", "TRY")
	require.NoError(t, err)
	assert.True(t, d("41.2875").Equal(rate))
	assert.Equal(t, "Tue, 14 Oct 2025 00:00:01 +0000", updated)

	pct, _, err := session.GetInterestRate(ctx, "TÜRKIYE")
	require.NoError(t, err)
	assert.True(t, d("40.5").Equal(pct))

	spot.AssertNumberOfCalls(t, "SpotRates", 1)
	interest.AssertNumberOfCalls(t, "CentralBankRates", 1)

	// Sessions share the store, they do not own it.
	require.NoError(t, session.Close())
	_, err = hc.store.GetSpotTable(ctx, "GBP")
	require.NoError(t, err)

	require.NoError(t, hc.Close())
	_, err = hc.store.GetSpotTable(ctx, "GBP")
	assert.Error(t, err)
}

func TestHedgeCalculator_InjectedStoreIsNotClosed(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := storage.NewRedisCache(context.Background(), "tcp://"+mr.Addr())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.SetSpotTable(context.Background(), &storage.SpotTable{
		Base:        "SEK",
		Rates:       map[string]decimal.Decimal{"DKK": d("0.68")},
		LastUpdated: storage.UnknownTimestamp,
	}))

	spot := new(mockSpotProvider)
	hc, err := NewHedgeCalculator(
		WithSpotRateProvider(spot),
		WithInterestRateProvider(new(mockInterestProvider)),
		WithStore(store),
	)
	require.NoError(t, err)

	rate, updated, err := hc.GetSpotRate(context.Background(), "SEK", "DKK")
	require.NoError(t, err)
	assert.True(t, d("0.68").Equal(rate))
	assert.Equal(t, "Unknown", updated)
	spot.AssertNotCalled(t, "SpotRates", mock.Anything, mock.Anything)

	require.NoError(t, hc.Close())
	_, err = store.GetSpotTable(context.Background(), "SEK")
	assert.NoError(t, err)
}

type brokenStore struct{}

var errStoreDown = errors.New("store down")

func (brokenStore) GetSpotTable(context.Context, string) (*storage.SpotTable, error) {
	return nil, errStoreDown
}

func (brokenStore) SetSpotTable(context.Context, *storage.SpotTable) error { return errStoreDown }

func (brokenStore) GetInterest(context.Context, storage.CountryKey) (*storage.RateEntry, error) {
	return nil, errStoreDown
}

func (brokenStore) SetInterest(context.Context, storage.CountryKey, storage.RateEntry) error {
	return errStoreDown
}

func (brokenStore) Close() error { return nil }

func TestHedgeCalculator_StoreFailuresAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	spot := new(mockSpotProvider)
	spot.On("SpotRates", mock.Anything, "NOK").Return(nokRates(), nil).Once()
	interest := new(mockInterestProvider)
	interest.On("CentralBankRates", mock.Anything, "Norway").Return(centralBank("4.25", "06-19-2025"), nil).Once()

	hc, err := NewHedgeCalculator(
		WithSpotRateProvider(spot),
		WithInterestRateProvider(interest),
		WithStore(brokenStore{}),
		WithLogger(zap.New(core)),
	)
	require.NoError(t, err)

	rate, _, err := hc.GetSpotRate(context.Background(), "NOK", "SEK")
	require.NoError(t, err)
	assert.True(t, d("0.95").Equal(rate))

	pct, _, err := hc.GetInterestRate(context.Background(), "Norway")
	require.NoError(t, err)
	assert.True(t, d("4.25").Equal(pct))

	// load and save for each of the two lookups
	assert.Equal(t, 4, logs.FilterMessageSnippet("store down").Len())
}

func TestHedgeCalculator_BadQuoteDoesNotSpoilBase(t *testing.T) {
	ctx := context.Background()
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		_, _ = rw.Write([]byte(`{"result":"success","conversion_rates":{"GBP":1,"TRY":41.2,"SEK":12.5,"VES":0}}`))
	}))
	defer server.Close()

	hc, err := NewHedgeCalculator(
		WithExchangeRateAPI(server.URL, "spot-key"),
		WithInterestRateProvider(new(mockInterestProvider)),
		WithRateLimit(0),
		WithLogging(false),
	)
	require.NoError(t, err)
	defer hc.Close()

	rate, _, err := hc.GetSpotRate(ctx, "GBP", "TRY")
	require.NoError(t, err)
	assert.True(t, d("41.2").Equal(rate))

	_, _, err = hc.GetSpotRate(ctx, "GBP", "VES")
	assert.ErrorIs(t, err, apperrors.ErrRateNotFound)
}

package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/omerorhan/hedging-calculator/internal/apperrors"
	"github.com/omerorhan/hedging-calculator/internal/service"
)

const (
	KeyExchangeRateAPIKey  = "EXCHANGE_RATE_API_KEY"
	KeyExchangeRateBaseURL = "EXCHANGE_RATE_BASE_URL"
	KeyInterestRateAPIKey  = "INTEREST_RATE_API_KEY"
	KeyInterestRateBaseURL = "INTEREST_RATE_BASE_URL"
	KeyRequestTimeout      = "REQUEST_TIMEOUT"
	KeyRateLimitPerMinute  = "RATE_LIMIT_PER_MINUTE"
	KeyRedisURL            = "REDIS_URL"
	KeySnapshotTTL         = "SNAPSHOT_TTL"
	KeyLogLevel            = "LOG_LEVEL"
	KeyPort                = "PORT"
)

// Config holds application configuration.
type Config struct {
	ExchangeRateAPIKey  string
	ExchangeRateBaseURL string
	InterestRateAPIKey  string
	InterestRateBaseURL string
	RequestTimeout      time.Duration
	RateLimitPerMinute  int
	RedisURL            string
	SnapshotTTL         time.Duration
	LogLevel            string
	Port                string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()
	return Load(viper.GetViper())
}

// Load reads configuration from v, with environment variables overriding
// defaults. Both API keys are required.
func Load(v *viper.Viper) (*Config, error) {
	v.SetDefault(KeyExchangeRateBaseURL, "")
	v.SetDefault(KeyInterestRateBaseURL, "")
	v.SetDefault(KeyRequestTimeout, "10s")
	v.SetDefault(KeyRateLimitPerMinute, 60)
	v.SetDefault(KeyRedisURL, "")
	v.SetDefault(KeySnapshotTTL, "1h")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyPort, "8080")
	v.AutomaticEnv()

	cfg := &Config{
		ExchangeRateAPIKey:  strings.TrimSpace(v.GetString(KeyExchangeRateAPIKey)),
		ExchangeRateBaseURL: v.GetString(KeyExchangeRateBaseURL),
		InterestRateAPIKey:  strings.TrimSpace(v.GetString(KeyInterestRateAPIKey)),
		InterestRateBaseURL: v.GetString(KeyInterestRateBaseURL),
		RedisURL:            v.GetString(KeyRedisURL),
		LogLevel:            v.GetString(KeyLogLevel),
		Port:                v.GetString(KeyPort),
	}

	var missing []string
	if cfg.ExchangeRateAPIKey == "" {
		missing = append(missing, KeyExchangeRateAPIKey)
	}
	if cfg.InterestRateAPIKey == "" {
		missing = append(missing, KeyInterestRateAPIKey)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s not set", apperrors.ErrConfiguration, strings.Join(missing, ", "))
	}

	var err error
	if cfg.RequestTimeout, err = positiveDuration(v, KeyRequestTimeout); err != nil {
		return nil, err
	}
	if cfg.SnapshotTTL, err = positiveDuration(v, KeySnapshotTTL); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute, err = nonNegativeInt(v, KeyRateLimitPerMinute); err != nil {
		return nil, err
	}

	return cfg, nil
}

func positiveDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: invalid value for %s ('%s')", apperrors.ErrConfiguration, key, raw)
	}
	return d, nil
}

// nonNegativeInt reads key as a whole number; 0 turns the limiter off.
func nonNegativeInt(v *viper.Viper, key string) (int, error) {
	raw := strings.TrimSpace(v.GetString(key))
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: invalid value for %s ('%s')", apperrors.ErrConfiguration, key, raw)
	}
	return n, nil
}

// ServiceOptions maps the configuration onto calculator options.
func (c *Config) ServiceOptions() []service.ServiceOption {
	options := []service.ServiceOption{
		service.WithExchangeRateAPI(c.ExchangeRateBaseURL, c.ExchangeRateAPIKey),
		service.WithInterestRateAPI(c.InterestRateBaseURL, c.InterestRateAPIKey),
		service.WithRequestTimeout(c.RequestTimeout),
		service.WithRateLimit(c.RateLimitPerMinute),
		service.WithSnapshotTTL(c.SnapshotTTL),
	}
	if c.RedisURL != "" {
		options = append(options, service.WithRedisConfig(c.RedisURL))
	}
	return options
}

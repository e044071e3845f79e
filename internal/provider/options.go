package provider

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ClientOptions configures an HTTP rate provider
type ClientOptions struct {
	BaseURL       string
	Timeout       time.Duration
	RatePerMinute int
	Burst         int
	Logger        *zap.Logger
}

// DefaultClientOptions returns sensible default options
func DefaultClientOptions() *ClientOptions {
	return &ClientOptions{
		Timeout:       10 * time.Second,
		RatePerMinute: 60,
		Burst:         5,
		Logger:        zap.NewNop(),
	}
}

// ClientOption is a function that configures client options
type ClientOption func(*ClientOptions)

// WithBaseURL overrides the provider's API root
func WithBaseURL(url string) ClientOption {
	return func(opts *ClientOptions) {
		opts.BaseURL = url
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(opts *ClientOptions) {
		opts.Timeout = timeout
	}
}

// WithRateLimit caps outgoing requests; perMinute <= 0 disables the limit.
func WithRateLimit(perMinute, burst int) ClientOption {
	return func(opts *ClientOptions) {
		opts.RatePerMinute = perMinute
		opts.Burst = burst
	}
}

func WithLogger(lg *zap.Logger) ClientOption {
	return func(opts *ClientOptions) {
		if lg != nil {
			opts.Logger = lg
		}
	}
}

func (opts *ClientOptions) limiter() *rate.Limiter {
	if opts.RatePerMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RatePerMinute)), burst)
}

func (opts *ClientOptions) httpClient() *http.Client {
	return &http.Client{Timeout: opts.Timeout}
}

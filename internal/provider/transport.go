package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/omerorhan/hedging-calculator/internal/apperrors"
)

// maxErrorBody bounds how much of a failed response body ends up in an error message.
const maxErrorBody = 512

// transport performs rate-limited GETs for one provider.
type transport struct {
	name    string
	client  *http.Client
	limiter *rate.Limiter
	lg      *zap.Logger
}

func newTransport(name string, opts *ClientOptions) *transport {
	return &transport{
		name:    name,
		client:  opts.httpClient(),
		limiter: opts.limiter(),
		lg:      opts.Logger.With(zap.String("provider", name)),
	}
}

// get returns the status code and body. Only failures to obtain a response are
// errors here; status handling belongs to the caller. redacted is the URL as it
// may appear in logs and errors.
func (t *transport) get(ctx context.Context, rawURL, redacted string, header http.Header) (int, []byte, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return 0, nil, fmt.Errorf("%w: %s rate limiter: %v", apperrors.ErrRateFetch, t.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: building %s request: %v", apperrors.ErrRateFetch, t.name, err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	t.lg.Debug("requesting rates", zap.String("url", redacted))

	resp, err := t.client.Do(req)
	if err != nil {
		// url.Error repeats the full URL, which may carry the API key.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return 0, nil, fmt.Errorf("%w: %s get %s: %v", apperrors.ErrRateFetch, t.name, redacted, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%w: reading %s response: %v", apperrors.ErrRateFetch, t.name, err)
	}
	return resp.StatusCode, b, nil
}

func (t *transport) statusError(status int, body []byte) error {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return fmt.Errorf("%w: %s http %d - %s", apperrors.ErrRateFetch, t.name, status, string(body))
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the outbound clients:
// retry on rate-limit responses and uniform pacing of consecutive calls.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 10 * time.Second

const defaultMaxRetries = 5

// DoWithRetry executes an HTTP request and retries on HTTP 429 (Too Many
// Requests) with exponential backoff. The delay starts at RetryBaseDelay
// and doubles each attempt.
//
// When maxRetries is 0 the default (5) is used. On each 429 the response
// body is drained and closed before sleeping. If the context is cancelled
// during a backoff wait the function returns ctx.Err(). After exhausting
// retries the last 429 response is returned so the caller can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		// Exhausted retries — return the 429 response as-is.
		if attempt >= maxRetries {
			return resp, nil
		}

		// Drain and close the body before retrying.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

// Upstream bibliographic services allow 10 requests per second with an
// API key and roughly 3 per second without one. The pacer applies the
// matching interval before every outbound call regardless of which
// endpoint is next.
const (
	KeyedInterval   = 110 * time.Millisecond
	UnkeyedInterval = 340 * time.Millisecond
)

// PacerInterval returns the inter-call delay: the short interval when an
// API key credential is configured, the long one otherwise.
func PacerInterval(hasAPIKey bool) time.Duration {
	if hasAPIKey {
		return KeyedInterval
	}
	return UnkeyedInterval
}

// Pacer spaces consecutive outbound calls a fixed interval apart. All
// clients in one pipeline run share a single Pacer so the combined call
// stream stays under the upstream rate limit.
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer creates a Pacer allowing one call per interval with no burst
// beyond the first call.
func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the next call is permitted or the context ends.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil {
		return nil
	}
	return p.limiter.Wait(ctx)
}

package smartsheet

import (
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"
)

// RetryPolicy bounds retries of rate-limited (HTTP 429) requests. The zero
// policy disables retries.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// BaseDelay is the wait before the second attempt; each further
	// attempt doubles it. Up to BaseDelay of jitter is added.
	BaseDelay time.Duration
	// MaxDelay caps the computed wait. Zero means one minute.
	MaxDelay time.Duration
}

// DefaultRetryPolicy matches the API guidance: five attempts with
// exponential backoff from one second. The CLI config takes its delays as
// defaults but leaves retries off until max_attempts is set.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts: 5,
	BaseDelay:   time.Second,
	MaxDelay:    time.Minute,
}

// shouldRetry reports whether attempt (0-based) may be followed by another.
func (p RetryPolicy) shouldRetry(status, attempt int) bool {
	return status == http.StatusTooManyRequests && attempt+1 < p.MaxAttempts
}

// backoff returns the wait after the given failed attempt (0-based). A
// Retry-After header in seconds takes precedence.
func (p RetryPolicy) backoff(attempt int, h http.Header) time.Duration {
	maxDelay := p.MaxDelay
	if maxDelay <= 0 {
		maxDelay = time.Minute
	}

	if secs, err := strconv.Atoi(h.Get("Retry-After")); err == nil && secs >= 0 {
		return min(time.Duration(secs)*time.Second, maxDelay)
	}

	if p.BaseDelay <= 0 {
		return 0
	}

	d := maxDelay
	if attempt < 32 {
		d = p.BaseDelay << attempt
	}
	if d <= 0 || d > maxDelay {
		d = maxDelay
	}
	return d + rand.N(p.BaseDelay)
}

package envato

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultRateLimitWait is used when a 429 carries no usable Retry-After.
const DefaultRateLimitWait = 60 * time.Second

// RetryPolicy decides how long to wait after an HTTP 429. The server's
// Retry-After (in seconds) always wins; Fallback is consulted only when the
// header is missing or not an integer.
type RetryPolicy struct {
	// MaxAttempts bounds the number of retries after 429s. Zero is unbounded.
	MaxAttempts int
	// Fallback supplies the wait when Retry-After is unusable. Returning
	// backoff.Stop ends the retries. Nil means a constant DefaultRateLimitWait.
	Fallback backoff.BackOff
}

// ConstantRetryPolicy retries forever, waiting d when the server gives no hint.
func ConstantRetryPolicy(d time.Duration) RetryPolicy {
	return RetryPolicy{Fallback: backoff.NewConstantBackOff(d)}
}

// next returns the wait before retry number attempt (1-based) and whether
// to retry at all.
func (p RetryPolicy) next(retryAfter string, attempt int) (time.Duration, bool) {
	if p.MaxAttempts > 0 && attempt > p.MaxAttempts {
		return 0, false
	}
	if retryAfter != "" {
		if secs, err := strconv.Atoi(strings.TrimSpace(retryAfter)); err == nil {
			if secs < 0 {
				secs = 0
			}
			return time.Duration(secs) * time.Second, true
		}
	}
	if p.Fallback == nil {
		return DefaultRateLimitWait, true
	}
	d := p.Fallback.NextBackOff()
	if d == backoff.Stop {
		return 0, false
	}
	return d, true
}

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

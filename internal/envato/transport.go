package envato

import (
	"fmt"
	"net/http"

	"golang.org/x/time/rate"
)

// PacedTransport is an http.RoundTripper that fixes the User-Agent and waits
// on a client-side rate limiter before every request.
type PacedTransport struct {
	Base        http.RoundTripper
	RateLimiter *rate.Limiter
	UserAgent   string
}

// NewLimiter returns a limiter for perSecond requests; zero or negative
// means unlimited.
func NewLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

func (t *PacedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.UserAgent != "" && req.Header.Get("User-Agent") != t.UserAgent {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.UserAgent)
	}

	if t.RateLimiter != nil {
		if err := t.RateLimiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	transport := t.Base
	if transport == nil {
		transport = http.DefaultTransport
	}
	return transport.RoundTrip(req)
}

package client

import (
	"net/http"

	"golang.org/x/time/rate"
)

// rateLimitedTransport holds each request until the limiter admits it.
type rateLimitedTransport struct {
	limiter *rate.Limiter
	next    http.RoundTripper
}

// newRateLimitedTransport allows perSecond requests with bursts of burst.
// A non-positive perSecond returns next unchanged.
func newRateLimitedTransport(perSecond float64, burst int, next http.RoundTripper) http.RoundTripper {
	if perSecond <= 0 {
		return next
	}
	if burst < 1 {
		burst = 1
	}
	return &rateLimitedTransport{
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		next:    next,
	}
}

func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.next.RoundTrip(req)
}

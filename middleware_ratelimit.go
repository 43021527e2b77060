package saluran

import (
	"context"
)

// RateLimitMiddleware acquires a slot from a sliding-window limiter before
// the request goes out, for compositions that prefer admission control as a
// chain unit rather than a client-level limiter.
type RateLimitMiddleware struct {
	NopMiddleware

	limiter *RateLimiter
}

// NewRateLimitMiddleware creates a rate-limiting unit around the limiter.
func NewRateLimitMiddleware(limiter *RateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter}
}

// ProcessRequest implements Middleware. It blocks until admitted or ctx is
// cancelled.
func (m *RateLimitMiddleware) ProcessRequest(ctx context.Context, rc *RequestContext) error {
	if m.limiter == nil {
		return nil
	}
	return m.limiter.Acquire(ctx)
}

package saluran

import (
	"context"
	"strings"
	"sync"
	"time"

	internalbackoff "github.com/ambiyansyah-risyal/saluran/internal/backoff"
)

// BackoffStrategy selects the delay algorithm used between retry attempts.
type BackoffStrategy int

const (
	// ExponentialJitter grows delays exponentially with a centered uniform
	// jitter. This is the default.
	ExponentialJitter BackoffStrategy = iota
	// DecorrelatedJitter uses AWS-style decorrelated jitter.
	DecorrelatedJitter
)

// RetryConfig describes which failures are retryable and how delay grows
// between attempts. It is immutable and safe to share across operations.
type RetryConfig struct {
	MaxAttempts       int
	InitialDelay      time.Duration
	BackoffMultiplier float64
	MaxDelay          time.Duration
	Jitter            bool
	Strategy          BackoffStrategy
	RetryableKinds    []string
}

// DefaultRetryConfig returns the stock policy: three attempts, 100ms initial
// delay doubling up to 10s, 10% jitter, transient kinds retryable.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		InitialDelay:      100 * time.Millisecond,
		BackoffMultiplier: 2.0,
		MaxDelay:          10 * time.Second,
		Jitter:            true,
		Strategy:          ExponentialJitter,
		RetryableKinds:    []string{ErrorKindNetwork, ErrorKindTimeout, ErrorKindServer, ErrorKindRateLimit},
	}
}

// DelayFor returns the backoff delay for the given zero-based attempt index:
// InitialDelay × BackoffMultiplier^attempt, capped at MaxDelay, with a ±10%
// uniform adjustment when Jitter is enabled, floored at zero.
func (cfg RetryConfig) DelayFor(attempt int) time.Duration {
	jitter := 0.0
	if cfg.Jitter {
		jitter = 0.1
	}
	return cfg.calculator().Delay(attempt, cfg.InitialDelay, cfg.MaxDelay, cfg.BackoffMultiplier, jitter)
}

func (cfg RetryConfig) calculator() *internalbackoff.Calculator {
	switch cfg.Strategy {
	case DecorrelatedJitter:
		return internalbackoff.Decorrelated()
	default:
		return internalbackoff.Exponential()
	}
}

func (cfg RetryConfig) isRetryable(kind string) bool {
	for _, k := range cfg.RetryableKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// RetryDecision is the explicit outcome of RetryHandler.HandleError: either
// the caller re-invokes the transport with the same mutated context, or it
// treats the error as terminal.
type RetryDecision int

const (
	// RetryStop signals the error must propagate; no further attempts.
	RetryStop RetryDecision = iota
	// RetryAgain signals the caller should re-invoke the transport call.
	RetryAgain
)

// RetryHandler tracks attempt counts per logical operation and decides retry
// versus give-up. Safe for concurrent use across calls; each logical call is
// identified by operation kind, target and optional request ID so unrelated
// calls never share counters.
type RetryHandler struct {
	config   RetryConfig
	mu       sync.Mutex
	attempts map[string]int
}

// NewRetryHandler creates a handler for the given policy.
func NewRetryHandler(config RetryConfig) *RetryHandler {
	return &RetryHandler{
		config:   config,
		attempts: make(map[string]int),
	}
}

// Config returns the policy this handler enforces.
func (h *RetryHandler) Config() RetryConfig { return h.config }

// HandleError is the decision point invoked when an operation fails. A
// non-retryable error kind or an exhausted attempt budget yields RetryStop;
// both terminal outcomes clear the state for the key so stale counters never
// leak into later calls reusing the same operation identity. Otherwise the
// handler suspends for the backoff delay (honoring ctx cancellation), stamps
// the context metadata with the attempt number, and yields RetryAgain.
func (h *RetryHandler) HandleError(ctx context.Context, rc *RequestContext, callErr error) (RetryDecision, error) {
	if !h.config.isRetryable(ErrorKindOf(callErr)) {
		h.Forget(rc)
		return RetryStop, nil
	}

	key := retryStateKey(rc)

	h.mu.Lock()
	count := h.attempts[key] + 1
	if count >= h.config.MaxAttempts {
		delete(h.attempts, key)
		h.mu.Unlock()
		return RetryStop, nil
	}
	h.attempts[key] = count
	h.mu.Unlock()

	delay := h.config.DelayFor(count - 1)
	if delay > 0 {
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			h.Forget(rc)
			return RetryStop, ctx.Err()
		}
	}

	rc.markRetry(count)
	return RetryAgain, nil
}

// Forget clears the attempt counter for the call's identity. Invoked on
// success and on terminal failure so counters never persist past a completed
// call.
func (h *RetryHandler) Forget(rc *RequestContext) {
	key := retryStateKey(rc)
	h.mu.Lock()
	delete(h.attempts, key)
	h.mu.Unlock()
}

// pending returns the current attempt count for a key; test hook.
func (h *RetryHandler) pending(rc *RequestContext) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.attempts[retryStateKey(rc)]
}

func retryStateKey(rc *RequestContext) string {
	var b strings.Builder
	b.WriteString(rc.OperationKind)
	b.WriteByte('|')
	b.WriteString(rc.Target)
	if rc.RequestID != "" {
		b.WriteByte('|')
		b.WriteString(rc.RequestID)
	}
	return b.String()
}

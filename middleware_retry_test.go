package saluran

import (
	"context"
	"testing"
	"time"
)

func TestRetryMiddlewareSignalsRetry(t *testing.T) {
	m := NewRetryMiddleware(NewRetryHandler(RetryConfig{
		MaxAttempts:       3,
		InitialDelay:      1 * time.Millisecond,
		BackoffMultiplier: 2.0,
		RetryableKinds:    []string{ErrorKindNetwork},
	}))

	rc := retryContext("/users")
	res, err := m.ProcessError(context.Background(), rc, networkError("conn reset"))
	if res != nil || err != nil {
		t.Fatalf("Expected nil, nil, got %v, %v", res, err)
	}
	if !rc.takeRetrySignal() {
		t.Error("Expected the retry signal to be set")
	}
}

func TestRetryMiddlewareResponseClearsState(t *testing.T) {
	handler := NewRetryHandler(RetryConfig{
		MaxAttempts:       5,
		InitialDelay:      1 * time.Millisecond,
		BackoffMultiplier: 2.0,
		RetryableKinds:    []string{ErrorKindNetwork},
	})
	m := NewRetryMiddleware(handler)

	rc := retryContext("/users")
	m.ProcessError(context.Background(), rc, networkError("conn reset"))
	if got := handler.pending(rc); got != 1 {
		t.Fatalf("Expected attempt state 1, got %d", got)
	}

	resCtx := NewResponseContext(&Result{Success: true}, rc)
	if err := m.ProcessResponse(context.Background(), resCtx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got := handler.pending(rc); got != 0 {
		t.Errorf("Expected attempt state cleared on success, got %d", got)
	}
}

func TestRateLimitMiddlewareAcquires(t *testing.T) {
	limiter := NewRateLimiter(1, 1*time.Hour)
	m := NewRateLimitMiddleware(limiter)

	if err := m.ProcessRequest(context.Background(), &RequestContext{}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := m.ProcessRequest(ctx, &RequestContext{}); err != context.DeadlineExceeded {
		t.Errorf("Expected context.DeadlineExceeded, got %v", err)
	}
}

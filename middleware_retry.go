package saluran

import (
	"context"
)

// RetryMiddleware delegates failure handling to a RetryHandler. On a
// retryable error it suspends for the backoff delay, stamps the request
// context and signals the orchestrator's retry edge; it never supplies a
// replacement Result itself. On success it clears the handler's state for
// the call so attempt counters cannot leak into later calls.
type RetryMiddleware struct {
	handler *RetryHandler
}

// NewRetryMiddleware creates a retry unit around the handler.
func NewRetryMiddleware(handler *RetryHandler) *RetryMiddleware {
	return &RetryMiddleware{handler: handler}
}

// Handler returns the underlying RetryHandler.
func (m *RetryMiddleware) Handler() *RetryHandler { return m.handler }

// ProcessRequest implements Middleware.
func (m *RetryMiddleware) ProcessRequest(ctx context.Context, rc *RequestContext) error {
	return nil
}

// ProcessResponse implements Middleware. A completed call must leave no
// attempt counter behind.
func (m *RetryMiddleware) ProcessResponse(ctx context.Context, resCtx *ResponseContext) error {
	if resCtx.Request != nil {
		m.handler.Forget(resCtx.Request)
	}
	return nil
}

// ProcessError implements Middleware. The handler's decision is translated
// into the orchestrator's retry signal; RetryStop lets the error propagate to
// the rest of the chain.
func (m *RetryMiddleware) ProcessError(ctx context.Context, rc *RequestContext, callErr error) (*Result, error) {
	decision, err := m.handler.HandleError(ctx, rc, callErr)
	if err != nil {
		return nil, err
	}
	if decision == RetryAgain {
		rc.requestRetry()
	}
	return nil, nil
}

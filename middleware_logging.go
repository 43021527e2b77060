package saluran

import (
	"context"
)

// LoggingMiddleware emits structured log lines for requests, responses and
// errors. It never mutates the traffic.
type LoggingMiddleware struct {
	logger Logger
}

// NewLoggingMiddleware creates a logging unit writing through the given Logger.
func NewLoggingMiddleware(logger Logger) *LoggingMiddleware {
	return &LoggingMiddleware{logger: logger}
}

// ProcessRequest implements Middleware.
func (m *LoggingMiddleware) ProcessRequest(ctx context.Context, rc *RequestContext) error {
	if m.logger != nil {
		m.logger.Debug("outgoing request", "kind", rc.OperationKind, "target", rc.Target, "requestID", rc.RequestID)
	}
	return nil
}

// ProcessResponse implements Middleware.
func (m *LoggingMiddleware) ProcessResponse(ctx context.Context, resCtx *ResponseContext) error {
	if m.logger != nil {
		m.logger.Debug("incoming response",
			"success", resCtx.Result.Success,
			"status", resCtx.Result.StatusCode,
			"duration", resCtx.Result.Duration)
	}
	return nil
}

// ProcessError implements Middleware.
func (m *LoggingMiddleware) ProcessError(ctx context.Context, rc *RequestContext, callErr error) (*Result, error) {
	if m.logger != nil {
		m.logger.Warn("request error", "kind", rc.OperationKind, "target", rc.Target, "error", callErr.Error())
	}
	return nil, nil
}

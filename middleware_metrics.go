package saluran

import (
	"context"
	"time"
)

// MetricsMiddleware records success/failure and latency through the narrow
// Recorder interface. A failed Result that carries neither an error message
// nor structured errors is bucketed as unknown_error rather than dropped.
type MetricsMiddleware struct {
	recorder Recorder
}

// NewMetricsMiddleware creates a metrics unit emitting to the given recorder.
func NewMetricsMiddleware(recorder Recorder) *MetricsMiddleware {
	return &MetricsMiddleware{recorder: recorder}
}

// ProcessRequest implements Middleware.
func (m *MetricsMiddleware) ProcessRequest(ctx context.Context, rc *RequestContext) error {
	rc.Metadata[MetadataStartedAt] = time.Now()
	return nil
}

// ProcessResponse implements Middleware.
func (m *MetricsMiddleware) ProcessResponse(ctx context.Context, resCtx *ResponseContext) error {
	if m.recorder == nil {
		return nil
	}
	res := resCtx.Result
	latency := res.Duration

	if res.Success {
		m.recorder.RecordRequest(true, latency, "")
		return nil
	}
	m.recorder.RecordRequest(false, latency, failureKind(res))
	return nil
}

// ProcessError implements Middleware.
func (m *MetricsMiddleware) ProcessError(ctx context.Context, rc *RequestContext, callErr error) (*Result, error) {
	if m.recorder != nil {
		var latency time.Duration
		if started, ok := rc.Metadata[MetadataStartedAt].(time.Time); ok {
			latency = time.Since(started)
		}
		m.recorder.RecordRequest(false, latency, ErrorKindOf(callErr))
	}
	return nil, nil
}

func failureKind(res *Result) string {
	if res.ErrorMessage == "" && len(res.Errors) == 0 {
		return "unknown_error"
	}
	if kind, ok := res.Metadata["errorKind"].(string); ok && kind != "" {
		return kind
	}
	switch {
	case res.ServerError:
		return ErrorKindServer
	case res.ClientError:
		return ErrorKindProtocol
	default:
		return ErrorKindProtocol
	}
}

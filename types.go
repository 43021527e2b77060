package saluran

import (
	"context"
	"time"
)

// Operation kinds understood by the operation/result call style.
const (
	OperationQuery    = "query"
	OperationMutation = "mutation"
)

// TransportFunc performs the actual wire call. It receives the (possibly
// middleware-mutated) request context and returns a raw response or an error.
// The pipeline never inspects the wire format; REST, GraphQL document
// execution and other styles all satisfy this signature.
type TransportFunc func(ctx context.Context, rc *RequestContext) (*RawResponse, error)

// RawResponse is the transport's provider-agnostic output. Protocol-level
// error descriptors carried by a well-formed response (e.g. a GraphQL errors
// array) go into Errors.
type RawResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
	Data       any
	Errors     []ErrorDetail
}

// ErrorDetail is a structured error descriptor attached to a failed Result.
type ErrorDetail struct {
	Message    string
	Extensions map[string]any
}

// RequestContext is the mutable record carried through one logical call,
// including all of its retry attempts. Middleware may mutate Headers, Params,
// Payload and Metadata during ProcessRequest. It must never be shared across
// concurrent calls.
type RequestContext struct {
	OperationKind string
	Target        string
	Headers       map[string]string
	Params        map[string]string
	Payload       any
	Metadata      map[string]any
	RequestID     string

	retryRequested bool
	retryAttempt   int
}

// Metadata keys used by the built-in middleware units.
const (
	MetadataRetryAttempt = "retryAttempt"
	MetadataShouldRetry  = "shouldRetry"
	MetadataSchema       = "schema"
	MetadataStartedAt    = "startedAt"
)

// markRetry records the attempt number on the context; the metadata stamps
// are observability only and drive no control flow.
func (rc *RequestContext) markRetry(attempt int) {
	rc.retryAttempt = attempt
	rc.Metadata[MetadataRetryAttempt] = attempt
	rc.Metadata[MetadataShouldRetry] = true
}

// requestRetry arms the orchestrator's feedback edge. Only the retry unit
// calls it, after its handler decides RetryAgain.
func (rc *RequestContext) requestRetry() {
	rc.retryRequested = true
}

func (rc *RequestContext) takeRetrySignal() bool {
	requested := rc.retryRequested
	rc.retryRequested = false
	return requested
}

// ResponseContext wraps the Result handed to response middleware. Its
// Metadata map is a shallow copy of the Result's own metadata so mutations
// here never retroactively change the original Result. Request points back
// at the originating request context so units can correlate the two.
type ResponseContext struct {
	Result   *Result
	Request  *RequestContext
	Metadata map[string]any
}

// NewResponseContext builds a ResponseContext around a Result.
func NewResponseContext(res *Result, rc *RequestContext) *ResponseContext {
	md := make(map[string]any, len(res.Metadata))
	for k, v := range res.Metadata {
		md[k] = v
	}
	return &ResponseContext{Result: res, Request: rc, Metadata: md}
}

// Request describes one request/response style call.
type Request struct {
	Method    string
	URL       string
	Headers   map[string]string
	Params    map[string]string
	Body      []byte
	RequestID string

	// SkipRateLimit bypasses the configured limiter for this call only.
	SkipRateLimit bool
	// CacheTTL overrides the client default TTL when the response is cached.
	CacheTTL time.Duration
}

// Operation describes one operation/result style call (GraphQL-like).
type Operation struct {
	Kind      string
	Name      string
	Variables map[string]any
	Headers   map[string]string
	RequestID string

	SkipRateLimit bool
	CacheTTL      time.Duration
}

// Recorder is the narrow sink the Metrics middleware emits through.
type Recorder interface {
	RecordRequest(success bool, latency time.Duration, errorKind string)
}

// Schema validates an outgoing payload before it is sent.
type Schema interface {
	Validate(payload any) error
}

// SchemaFunc adapts a function to the Schema interface.
type SchemaFunc func(payload any) error

// Validate implements Schema.
func (f SchemaFunc) Validate(payload any) error { return f(payload) }

// Option represents a configuration option.
type Option func(*Client)

func cloneStringMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

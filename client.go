package saluran

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ambiyansyah-risyal/saluran/internal/singleflight"
)

// Client orchestrates cache, middleware, rate limiting and retry around a
// single transport call. It is safe for concurrent use; each call owns its
// RequestContext exclusively, while cache, limiter and retry state are shared.
type Client struct {
	transport    TransportFunc
	chain        *MiddlewareChain
	cache        *RequestCache
	cacheEnabled bool
	cacheTTL     time.Duration
	cacheMaxSize int
	limiter      *RateLimiter
	breaker      *CircuitBreaker
	coalesce     *singleflight.Group[*Result]
	metrics      *MetricsCollector
	debug        *DebugConfig
	logger       Logger

	validationError error
}

// New constructs a Client using the provided functional options. A best
// effort validation is performed; call IsValid / ValidationError for errors.
func New(options ...Option) *Client {
	client := &Client{
		chain:        NewMiddlewareChain(),
		cacheTTL:     DefaultCacheTTL,
		cacheMaxSize: DefaultCacheMaxSize,
		debug:        DefaultDebugConfig(),
	}

	for _, option := range options {
		option(client)
	}

	if client.cacheEnabled && client.cache == nil {
		client.cache = NewBoundedRequestCache(client.cacheTTL, client.cacheMaxSize)
	}

	if err := client.ValidateConfiguration(); err != nil {
		client.validationError = err
	}

	return client
}

// callSpec carries the per-call identity and orchestration flags shared by
// both call styles.
type callSpec struct {
	kind          string
	target        string
	headers       map[string]string
	params        map[string]string
	body          []byte
	payload       any
	requestID     string
	skipRateLimit bool
	cacheable     bool
	cacheTTL      time.Duration
	headerTTL     bool
}

// Do executes a request/response style call. GET and HEAD requests are
// cacheable; response Cache-Control/Expires headers refine the cache TTL.
// Ordinary remote failures come back as a Result with Success=false; the
// returned error is reserved for local misuse, cancellation, and unexpected
// middleware failures.
func (c *Client) Do(ctx context.Context, req *Request) (*Result, error) {
	if req == nil {
		return nil, fmt.Errorf("saluran: nil request")
	}
	method := strings.ToUpper(req.Method)
	if method == "" || req.URL == "" {
		return nil, fmt.Errorf("saluran: request method and URL are required")
	}

	return c.execute(ctx, callSpec{
		kind:          method,
		target:        req.URL,
		headers:       req.Headers,
		params:        req.Params,
		body:          req.Body,
		payload:       req.Body,
		requestID:     req.RequestID,
		skipRateLimit: req.SkipRateLimit,
		cacheable:     method == "GET" || method == "HEAD",
		cacheTTL:      req.CacheTTL,
		headerTTL:     true,
	})
}

// Execute runs an operation/result style call (GraphQL-like). Queries are
// cacheable, mutations are not. Variables travel as the payload and
// contribute to the cache fingerprint.
func (c *Client) Execute(ctx context.Context, op *Operation) (*Result, error) {
	if op == nil {
		return nil, fmt.Errorf("saluran: nil operation")
	}
	if op.Name == "" {
		return nil, fmt.Errorf("saluran: operation name is required")
	}
	kind := op.Kind
	if kind == "" {
		kind = OperationQuery
	}
	if kind != OperationQuery && kind != OperationMutation {
		return nil, fmt.Errorf("saluran: unsupported operation kind %q", kind)
	}

	// Variables are part of the operation identity; encoding/json emits map
	// keys in sorted order so the fingerprint stays deterministic.
	var body []byte
	if len(op.Variables) > 0 {
		encoded, err := json.Marshal(op.Variables)
		if err != nil {
			return nil, fmt.Errorf("saluran: encode variables: %w", err)
		}
		body = encoded
	}

	return c.execute(ctx, callSpec{
		kind:          kind,
		target:        op.Name,
		headers:       op.Headers,
		params:        nil,
		body:          body,
		payload:       op.Variables,
		requestID:     op.RequestID,
		skipRateLimit: op.SkipRateLimit,
		cacheable:     kind == OperationQuery,
		cacheTTL:      op.CacheTTL,
	})
}

func (c *Client) execute(ctx context.Context, spec callSpec) (*Result, error) {
	if c.transport == nil {
		return nil, ErrNoTransport
	}

	if spec.requestID == "" && c.debug != nil && c.debug.Enabled && c.debug.RequestIDGen != nil {
		spec.requestID = c.debug.RequestIDGen()
	}

	c.metrics.RecordRequestStart(spec.kind, spec.target)
	defer c.metrics.RecordRequestEnd(spec.kind, spec.target)

	if c.debug != nil && c.debug.Enabled && c.debug.LogRequests && c.logger != nil {
		c.logger.Debug("starting call", "requestID", spec.requestID, "kind", spec.kind, "target", spec.target)
	}

	// CacheCheck: a hit short-circuits every later state.
	if spec.cacheable && c.cache != nil {
		if res, found := c.cache.Get(spec.kind, spec.target, spec.headers, spec.params, spec.body); found {
			c.metrics.RecordCacheHit(spec.kind, spec.target)
			c.metrics.RecordRequest(spec.kind, spec.target, res.StatusCode, 0)
			if c.debug != nil && c.debug.Enabled && c.debug.LogCache && c.logger != nil {
				c.logger.Debug("cache hit", "requestID", spec.requestID, "target", spec.target)
			}
			return res, nil
		}
		c.metrics.RecordCacheMiss(spec.kind, spec.target)
	}

	if c.coalesce != nil && spec.cacheable {
		key := Fingerprint(spec.kind, spec.target, spec.headers, spec.params, spec.body)
		res, shared, err := c.coalesce.Do(key, func() (*Result, error) {
			return c.run(ctx, spec)
		})
		if shared {
			c.metrics.RecordCoalesced(spec.kind, spec.target)
			if c.debug != nil && c.debug.Enabled && c.logger != nil {
				c.logger.Debug("coalesced onto in-flight call", "requestID", spec.requestID, "target", spec.target)
			}
		}
		return res, err
	}

	return c.run(ctx, spec)
}

// run drives the per-call state machine:
//
//	Prepare -> RateLimit -> Execute -> (retry edge) -> Finalize
//
// The retry edge re-enters Prepare with the same RequestContext, so header
// and metadata mutations accumulate across attempts. It is the only feedback
// edge; everything else advances strictly forward.
func (c *Client) run(ctx context.Context, spec callSpec) (*Result, error) {
	rc := &RequestContext{
		OperationKind: spec.kind,
		Target:        spec.target,
		Headers:       cloneStringMap(spec.headers),
		Params:        cloneStringMap(spec.params),
		Payload:       spec.payload,
		Metadata:      make(map[string]any),
		RequestID:     spec.requestID,
	}
	start := time.Now()

	for {
		// Prepare: middleware failures here (validation included) are
		// unexpected and propagate raised, never as a failure Result.
		if err := c.chain.ProcessRequest(ctx, rc); err != nil {
			return nil, err
		}

		// RateLimit.
		if c.limiter != nil && !spec.skipRateLimit {
			if err := c.limiter.Acquire(ctx); err != nil {
				return nil, err
			}
			remaining := c.limiter.Remaining()
			c.metrics.RecordRateLimiterRemaining("default", remaining)
			if c.debug != nil && c.debug.Enabled && c.debug.LogRateLimit && c.logger != nil {
				c.logger.Debug("rate limit acquired", "requestID", rc.RequestID, "remaining", remaining)
			}
		}

		// Execute.
		var raw *RawResponse
		var callErr error
		if c.breaker != nil && !c.breaker.Allow() {
			if c.debug != nil && c.debug.Enabled && c.logger != nil {
				c.logger.Warn("circuit breaker open", "requestID", rc.RequestID, "target", rc.Target)
			}
			callErr = &ClientError{
				Kind:      ErrorKindCircuitOpen,
				Message:   "circuit breaker is open",
				Cause:     ErrCircuitOpen,
				RequestID: rc.RequestID,
				Operation: rc.OperationKind,
				Target:    rc.Target,
				Timestamp: time.Now(),
			}
		} else {
			raw, callErr = c.transport(ctx, rc)
			if callErr == nil {
				callErr = c.responseError(raw, rc)
			}
			if c.breaker != nil {
				if callErr != nil {
					c.breaker.RecordFailure()
				} else {
					c.breaker.RecordSuccess()
				}
				c.metrics.RecordCircuitBreakerState("default", c.breaker.State())
			}
		}

		if callErr == nil {
			result := newResultFromRaw(raw, time.Since(start))
			resCtx := NewResponseContext(result, rc)
			if err := c.chain.ProcessResponse(ctx, resCtx); err != nil {
				return nil, err
			}
			result = resCtx.Result
			c.storeCache(spec, result)
			c.metrics.RecordRequest(spec.kind, spec.target, result.StatusCode, result.Duration)
			return result, nil
		}

		// Error path: middleware (particularly Retry) intervenes first.
		c.metrics.RecordError(ErrorKindOf(callErr), spec.kind, spec.target)
		res, perr := c.chain.ProcessError(ctx, rc, callErr)
		if perr != nil {
			return nil, perr
		}
		if res != nil {
			c.forgetRetryState(rc)
			c.metrics.RecordRequest(spec.kind, spec.target, res.StatusCode, time.Since(start))
			return res, nil
		}

		if rc.takeRetrySignal() {
			c.metrics.RecordRetry(spec.kind, spec.target, rc.retryAttempt)
			if c.debug != nil && c.debug.Enabled && c.debug.LogRetries && c.logger != nil {
				c.logger.Info("retrying", "requestID", rc.RequestID, "attempt", rc.retryAttempt, "target", rc.Target)
			}
			continue
		}

		c.forgetRetryState(rc)
		failure := newFailureResult(callErr, raw, time.Since(start))
		c.metrics.RecordRequest(spec.kind, spec.target, failure.StatusCode, failure.Duration)
		return failure, nil
	}
}

// forgetRetryState clears retry attempt counters for the call on terminal
// failure outcomes, where ProcessResponse never runs. Attempt counters must
// not outlive the call that accumulated them.
func (c *Client) forgetRetryState(rc *RequestContext) {
	for _, unit := range c.chain.units {
		if rm, ok := unit.(*RetryMiddleware); ok {
			rm.Handler().Forget(rc)
		}
	}
}

// responseError converts protocol-level failures in a well-formed response
// into an error so the error chain (and retry whitelisting) applies. 4xx
// statuses are plain failed Results, not errors, matching retry semantics.
func (c *Client) responseError(raw *RawResponse, rc *RequestContext) error {
	if raw == nil {
		return &ClientError{
			Kind:      ErrorKindUnknown,
			Message:   "transport returned no response",
			RequestID: rc.RequestID,
			Operation: rc.OperationKind,
			Target:    rc.Target,
			Timestamp: time.Now(),
		}
	}
	if len(raw.Errors) > 0 {
		kind := ErrorKindProtocol
		if k, ok := raw.Errors[0].Extensions["kind"].(string); ok && k != "" {
			kind = k
		}
		return &ClientError{
			Kind:       kind,
			Message:    raw.Errors[0].Message,
			RequestID:  rc.RequestID,
			Operation:  rc.OperationKind,
			Target:     rc.Target,
			StatusCode: raw.StatusCode,
			Timestamp:  time.Now(),
		}
	}
	if raw.StatusCode >= 500 {
		return &ClientError{
			Kind:       ErrorKindServer,
			Message:    fmt.Sprintf("server error: status %d", raw.StatusCode),
			RequestID:  rc.RequestID,
			Operation:  rc.OperationKind,
			Target:     rc.Target,
			StatusCode: raw.StatusCode,
			Timestamp:  time.Now(),
		}
	}
	return nil
}

func (c *Client) storeCache(spec callSpec, result *Result) {
	if !spec.cacheable || c.cache == nil || result == nil || !result.Success {
		return
	}

	ttl := spec.cacheTTL
	if spec.headerTTL {
		if headerTTL, ok, noStore := ttlFromHeaders(result.Headers); noStore {
			return
		} else if ok {
			ttl = headerTTL
		}
	}

	c.cache.Set(spec.kind, spec.target, result, ttl, spec.headers, spec.params, spec.body)
	c.metrics.RecordCacheSize("default", c.cache.Size())

	if c.debug != nil && c.debug.Enabled && c.debug.LogCache && c.logger != nil {
		c.logger.Debug("response cached", "requestID", spec.requestID, "target", spec.target, "ttl", ttl)
	}
}

// Cache exposes the configured request cache, or nil.
func (c *Client) Cache() *RequestCache { return c.cache }

// RateLimiter exposes the configured limiter, or nil.
func (c *Client) RateLimiter() *RateLimiter { return c.limiter }

// Middleware exposes the middleware chain for composition after construction.
func (c *Client) Middleware() *MiddlewareChain { return c.chain }

// IsValid reports whether configuration validation passed at construction.
func (c *Client) IsValid() bool { return c.validationError == nil }

// ValidationError returns the configuration validation error, if any.
func (c *Client) ValidationError() error { return c.validationError }

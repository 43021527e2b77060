// Package saluran provides a reusable client-side request pipeline that sits
// in front of any outbound request/response exchange (REST, GraphQL or similar):
//
//   - Response caching with per-entry TTL and strict FIFO eviction
//   - Sliding-window rate limiting with blocking and non-blocking acquisition
//   - Retries with exponential backoff + jitter, keyed per logical operation
//   - An ordered middleware chain (auth, logging, metrics, validation, ...)
//   - Optional circuit breaker and coalescing of identical in-flight calls
//   - Prometheus metrics and lightweight structured debug logging
//
// Design goals:
//   - Transport agnostic: the wire call is an injected TransportFunc
//   - Small surface area: functional options configure everything
//   - Safe concurrent use of a single *Client instance
//   - Failures surface as a *Result, never as panics or swallowed errors
//
// Typical usage:
//
//	client := saluran.New(
//	    saluran.WithHTTPClient(http.DefaultClient),
//	    saluran.WithCacheTTL(5*time.Minute),
//	    saluran.WithRateLimiter(10, time.Second),
//	    saluran.WithRetry(saluran.DefaultRetryConfig()),
//	)
//	res, err := client.Do(ctx, &saluran.Request{Method: "GET", URL: "https://api.example.com/users"})
//
// Ordinary remote failures come back as a Result with Success=false; err is
// reserved for local misuse and unexpected middleware failures (validation
// errors included), which propagate unmodified.
package saluran

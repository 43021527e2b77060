package saluran

import (
	"fmt"
	"strings"
	"time"
)

// RedactedValue replaces sensitive header values before a Result is exposed
// to middleware or callers.
const RedactedValue = "[REDACTED]"

// sensitiveHeaders are stripped from cache fingerprints and redacted in
// results. Lookup is case-insensitive.
var sensitiveHeaders = map[string]bool{
	"authorization":       true,
	"proxy-authorization": true,
	"cookie":              true,
	"set-cookie":          true,
	"api-key":             true,
	"x-api-key":           true,
	"x-auth-token":        true,
}

func isSensitiveHeader(name string) bool {
	return sensitiveHeaders[strings.ToLower(name)]
}

// Result is the immutable outcome of one orchestrated call. Success implies
// an empty error list; failure implies a populated ErrorMessage and/or Errors.
// At most one of the four classification flags is set.
type Result struct {
	Success       bool
	StatusCode    int
	Informational bool
	Redirect      bool
	ClientError   bool
	ServerError   bool
	Duration      time.Duration
	Headers       map[string]string
	Body          []byte
	Data          any
	Errors        []ErrorDetail
	ErrorMessage  string
	Metadata      map[string]any
}

// RedactHeaders returns a copy of headers with sensitive values replaced by
// RedactedValue. The operation is idempotent and case-insensitive.
func RedactHeaders(headers map[string]string) map[string]string {
	if headers == nil {
		return nil
	}
	out := make(map[string]string, len(headers))
	for name, value := range headers {
		if isSensitiveHeader(name) {
			out[name] = RedactedValue
		} else {
			out[name] = value
		}
	}
	return out
}

// newResultFromRaw builds a Result from a raw transport response. Headers are
// redacted unconditionally before the Result is seen by anyone.
func newResultFromRaw(raw *RawResponse, duration time.Duration) *Result {
	res := &Result{
		StatusCode: raw.StatusCode,
		Duration:   duration,
		Headers:    RedactHeaders(raw.Headers),
		Body:       raw.Body,
		Data:       raw.Data,
		Errors:     raw.Errors,
		Metadata:   map[string]any{},
	}

	switch {
	case raw.StatusCode >= 500:
		res.ServerError = true
	case raw.StatusCode >= 400:
		res.ClientError = true
	case raw.StatusCode >= 300:
		res.Redirect = true
	case raw.StatusCode >= 100 && raw.StatusCode < 200:
		res.Informational = true
	}

	res.Success = !res.ClientError && !res.ServerError && len(res.Errors) == 0

	if !res.Success && res.ErrorMessage == "" && len(res.Errors) == 0 {
		res.ErrorMessage = fmt.Sprintf("request failed with status %d", raw.StatusCode)
	}

	return res
}

// newFailureResult builds the generic failure Result used when no middleware
// supplied a replacement. When the failure happened after a well-formed
// response (protocol or server errors), status and headers are preserved.
func newFailureResult(callErr error, raw *RawResponse, duration time.Duration) *Result {
	res := &Result{
		Duration: duration,
		Metadata: map[string]any{},
	}
	if raw != nil {
		res.StatusCode = raw.StatusCode
		res.Headers = RedactHeaders(raw.Headers)
		res.Body = raw.Body
		res.Errors = raw.Errors
		if raw.StatusCode >= 500 {
			res.ServerError = true
		} else if raw.StatusCode >= 400 {
			res.ClientError = true
		}
	}
	if callErr != nil {
		res.ErrorMessage = callErr.Error()
		res.Metadata["errorKind"] = ErrorKindOf(callErr)
	}
	if res.ErrorMessage == "" && len(res.Errors) == 0 {
		res.ErrorMessage = "request failed"
	}
	return res
}

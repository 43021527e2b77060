package saluran

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// Error kinds used for retry whitelisting and metrics bucketing.
const (
	ErrorKindNetwork     = "network"
	ErrorKindTimeout     = "timeout"
	ErrorKindServer      = "server"
	ErrorKindProtocol    = "protocol"
	ErrorKindRateLimit   = "rate_limit"
	ErrorKindCircuitOpen = "circuit_open"
	ErrorKindValidation  = "validation"
	ErrorKindUnknown     = "unknown"
)

// Sentinel errors for common failure scenarios.
var (
	// ErrCircuitOpen is returned when the circuit breaker is in open state.
	ErrCircuitOpen = errors.New("saluran: circuit open")

	// ErrRateLimited is returned when a non-blocking admission is denied.
	ErrRateLimited = errors.New("saluran: rate limited")

	// ErrNoTransport is returned when a call is made without a transport configured.
	ErrNoTransport = errors.New("saluran: no transport configured")
)

// ClientError is the structured error produced by the pipeline.
type ClientError struct {
	Kind       string
	Message    string
	Cause      error
	RequestID  string
	Operation  string
	Target     string
	StatusCode int
	Attempt    int
	Timestamp  time.Time
	Duration   time.Duration
}

// Error implements error interface.
func (e *ClientError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.Cause)
	}
	if e.RequestID != "" {
		msg = fmt.Sprintf("[%s] %s", e.RequestID, msg)
	}
	if e.Attempt > 0 {
		msg = fmt.Sprintf("%s (attempt %d)", msg, e.Attempt)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ClientError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is compares error kinds for errors.Is.
func (e *ClientError) Is(target error) bool {
	if e == nil {
		return false
	}
	if targetErr, ok := target.(*ClientError); ok {
		return e.Kind == targetErr.Kind
	}
	return false
}

// DebugInfo renders a multi-line string with diagnostic context.
func (e *ClientError) DebugInfo() string {
	if e == nil {
		return "Error: <nil>"
	}
	info := fmt.Sprintf("Error Kind: %s\n", e.Kind)
	info += fmt.Sprintf("Message: %s\n", e.Message)
	if e.RequestID != "" {
		info += fmt.Sprintf("Request ID: %s\n", e.RequestID)
	}
	if e.Operation != "" {
		info += fmt.Sprintf("Operation: %s\n", e.Operation)
	}
	if e.Target != "" {
		info += fmt.Sprintf("Target: %s\n", e.Target)
	}
	if e.StatusCode > 0 {
		info += fmt.Sprintf("Status Code: %d\n", e.StatusCode)
	}
	if e.Attempt > 0 {
		info += fmt.Sprintf("Attempt: %d\n", e.Attempt)
	}
	if !e.Timestamp.IsZero() {
		info += fmt.Sprintf("Timestamp: %s\n", e.Timestamp.Format(time.RFC3339))
	}
	if e.Duration > 0 {
		info += fmt.Sprintf("Duration: %v\n", e.Duration)
	}
	if e.Cause != nil {
		info += fmt.Sprintf("Cause: %v\n", e.Cause)
	}
	return info
}

// ErrorKindOf classifies an arbitrary error into one of the error kinds.
// Unwrapped transport errors default to the network kind; timeouts are
// detected through net.Error and context deadline expiry.
func ErrorKindOf(err error) string {
	if err == nil {
		return ""
	}

	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Kind
	}

	if errors.Is(err, ErrCircuitOpen) {
		return ErrorKindCircuitOpen
	}
	if errors.Is(err, ErrRateLimited) {
		return ErrorKindRateLimit
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorKindTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ErrorKindTimeout
		}
		return ErrorKindNetwork
	}

	return ErrorKindNetwork
}

// IsTransient reports whether an error represents a transient failure that
// might succeed on retry. Validation and protocol errors are not transient.
func IsTransient(err error) bool {
	switch ErrorKindOf(err) {
	case ErrorKindNetwork, ErrorKindTimeout, ErrorKindServer, ErrorKindRateLimit, ErrorKindCircuitOpen:
		return true
	default:
		return false
	}
}

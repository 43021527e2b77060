package saluran

import (
	"testing"
	"time"
)

func TestNewResultFromRawClassification(t *testing.T) {
	tests := []struct {
		status        int
		success       bool
		informational bool
		redirect      bool
		clientError   bool
		serverError   bool
	}{
		{100, true, true, false, false, false},
		{200, true, false, false, false, false},
		{204, true, false, false, false, false},
		{301, true, false, true, false, false},
		{404, false, false, false, true, false},
		{500, false, false, false, false, true},
		{503, false, false, false, false, true},
	}

	for _, tt := range tests {
		res := newResultFromRaw(&RawResponse{StatusCode: tt.status}, time.Millisecond)
		if res.Success != tt.success {
			t.Errorf("status %d: expected Success=%v, got %v", tt.status, tt.success, res.Success)
		}
		if res.Informational != tt.informational {
			t.Errorf("status %d: expected Informational=%v, got %v", tt.status, tt.informational, res.Informational)
		}
		if res.Redirect != tt.redirect {
			t.Errorf("status %d: expected Redirect=%v, got %v", tt.status, tt.redirect, res.Redirect)
		}
		if res.ClientError != tt.clientError {
			t.Errorf("status %d: expected ClientError=%v, got %v", tt.status, tt.clientError, res.ClientError)
		}
		if res.ServerError != tt.serverError {
			t.Errorf("status %d: expected ServerError=%v, got %v", tt.status, tt.serverError, res.ServerError)
		}
	}
}

func TestNewResultFromRawProtocolErrors(t *testing.T) {
	raw := &RawResponse{
		StatusCode: 200,
		Errors:     []ErrorDetail{{Message: "field not found"}},
	}
	res := newResultFromRaw(raw, time.Millisecond)

	if res.Success {
		t.Error("Expected Success=false when protocol errors are present")
	}
	if len(res.Errors) != 1 || res.Errors[0].Message != "field not found" {
		t.Errorf("Expected protocol errors preserved, got %v", res.Errors)
	}
}

func TestNewResultFromRawFailureMessage(t *testing.T) {
	res := newResultFromRaw(&RawResponse{StatusCode: 404}, time.Millisecond)

	if res.ErrorMessage == "" {
		t.Error("Expected a non-empty ErrorMessage on failure")
	}
}

func TestRedactHeaders(t *testing.T) {
	headers := map[string]string{
		"Authorization": "Bearer secret",
		"Cookie":        "session=abc",
		"X-Api-Key":     "key123",
		"Accept":        "application/json",
	}

	redacted := RedactHeaders(headers)

	for _, name := range []string{"Authorization", "Cookie", "X-Api-Key"} {
		if redacted[name] != RedactedValue {
			t.Errorf("Expected %s to be redacted, got %q", name, redacted[name])
		}
	}
	if redacted["Accept"] != "application/json" {
		t.Errorf("Expected Accept to pass through, got %q", redacted["Accept"])
	}

	// The input map is never mutated.
	if headers["Authorization"] != "Bearer secret" {
		t.Error("Expected the input map to be untouched")
	}
}

func TestRedactHeadersCaseInsensitive(t *testing.T) {
	for _, name := range []string{"authorization", "AUTHORIZATION", "Authorization", "aUtHoRiZaTiOn"} {
		redacted := RedactHeaders(map[string]string{name: "Bearer secret"})
		if redacted[name] != RedactedValue {
			t.Errorf("Expected %q to be redacted, got %q", name, redacted[name])
		}
	}
}

func TestRedactHeadersIdempotent(t *testing.T) {
	headers := map[string]string{"Authorization": "Bearer secret", "Accept": "text/plain"}

	once := RedactHeaders(headers)
	twice := RedactHeaders(once)

	if twice["Authorization"] != RedactedValue {
		t.Errorf("Expected %q, got %q", RedactedValue, twice["Authorization"])
	}
	if twice["Accept"] != "text/plain" {
		t.Errorf("Expected Accept unchanged, got %q", twice["Accept"])
	}
}

func TestRedactHeadersNil(t *testing.T) {
	if RedactHeaders(nil) != nil {
		t.Error("Expected nil for nil input")
	}
}

func TestNewFailureResultPreservesResponse(t *testing.T) {
	raw := &RawResponse{
		StatusCode: 503,
		Headers:    map[string]string{"Retry-After": "5", "Set-Cookie": "x=y"},
		Body:       []byte("unavailable"),
	}
	callErr := &ClientError{Kind: ErrorKindServer, Message: "server error: status 503"}

	res := newFailureResult(callErr, raw, 2*time.Millisecond)

	if res.Success {
		t.Error("Expected Success=false")
	}
	if !res.ServerError {
		t.Error("Expected ServerError flag")
	}
	if res.StatusCode != 503 {
		t.Errorf("Expected status 503, got %d", res.StatusCode)
	}
	if res.Headers["Retry-After"] != "5" {
		t.Errorf("Expected Retry-After preserved, got %q", res.Headers["Retry-After"])
	}
	if res.Headers["Set-Cookie"] != RedactedValue {
		t.Errorf("Expected Set-Cookie redacted, got %q", res.Headers["Set-Cookie"])
	}
	if res.ErrorMessage != callErr.Error() {
		t.Errorf("Expected error message %q, got %q", callErr.Error(), res.ErrorMessage)
	}
	if res.Metadata["errorKind"] != ErrorKindServer {
		t.Errorf("Expected errorKind=%q, got %v", ErrorKindServer, res.Metadata["errorKind"])
	}
}

func TestNewFailureResultNoResponse(t *testing.T) {
	res := newFailureResult(&ClientError{Kind: ErrorKindNetwork, Message: "conn refused"}, nil, time.Millisecond)

	if res.StatusCode != 0 {
		t.Errorf("Expected zero status, got %d", res.StatusCode)
	}
	if res.ErrorMessage == "" {
		t.Error("Expected a non-empty ErrorMessage")
	}
}

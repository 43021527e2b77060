package saluran

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestSimpleLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := &SimpleLogger{out: &buf}

	logger.Info("request sent", "target", "/users", "attempt", 2)

	line := buf.String()
	if !strings.Contains(line, "[INFO]") {
		t.Errorf("Expected level tag, got %q", line)
	}
	if !strings.Contains(line, "request sent") {
		t.Errorf("Expected message, got %q", line)
	}
	if !strings.Contains(line, "target=/users") || !strings.Contains(line, "attempt=2") {
		t.Errorf("Expected key-value pairs, got %q", line)
	}
}

func TestZerologLoggerEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf)

	logger.Warn("rate limited", "target", "/users", "remaining", 0)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected a JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["level"] != "warn" {
		t.Errorf("Expected level=warn, got %v", entry["level"])
	}
	if entry["message"] != "rate limited" {
		t.Errorf("Expected message, got %v", entry["message"])
	}
	if entry["target"] != "/users" {
		t.Errorf("Expected target field, got %v", entry["target"])
	}
}

func TestDefaultDebugConfig(t *testing.T) {
	cfg := DefaultDebugConfig()

	if cfg.Enabled {
		t.Error("Expected debug disabled by default")
	}
	if !cfg.LogRequests || !cfg.LogRetries || !cfg.LogCache || !cfg.LogRateLimit {
		t.Error("Expected all concerns enabled once debug is on")
	}
	if cfg.RequestIDGen == nil {
		t.Fatal("Expected a request ID generator")
	}
	if id := cfg.RequestIDGen(); id == "" {
		t.Error("Expected non-empty generated IDs")
	}
	if a, b := cfg.RequestIDGen(), cfg.RequestIDGen(); a == b {
		t.Error("Expected unique generated IDs")
	}
}

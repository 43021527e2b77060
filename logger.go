package saluran

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Logger is the minimal structured logging interface the pipeline emits
// through. Key-value pairs alternate keys and values.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// SimpleLogger writes human-readable lines to stderr. Intended for examples
// and debugging, not production log shipping.
type SimpleLogger struct {
	out io.Writer
}

// NewSimpleLogger creates a console logger.
func NewSimpleLogger() *SimpleLogger {
	return &SimpleLogger{out: os.Stderr}
}

func (l *SimpleLogger) log(level, msg string, keysAndValues ...any) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] %s", time.Now().Format(time.RFC3339), level, msg)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keysAndValues[i], keysAndValues[i+1])
	}
	fmt.Fprintln(l.out, b.String())
}

// Debug implements Logger.
func (l *SimpleLogger) Debug(msg string, keysAndValues ...any) { l.log("DEBUG", msg, keysAndValues...) }

// Info implements Logger.
func (l *SimpleLogger) Info(msg string, keysAndValues ...any) { l.log("INFO", msg, keysAndValues...) }

// Warn implements Logger.
func (l *SimpleLogger) Warn(msg string, keysAndValues ...any) { l.log("WARN", msg, keysAndValues...) }

// Error implements Logger.
func (l *SimpleLogger) Error(msg string, keysAndValues ...any) { l.log("ERROR", msg, keysAndValues...) }

// ZerologLogger adapts a zerolog.Logger to the Logger interface for callers
// that already ship structured logs through zerolog.
type ZerologLogger struct {
	zl zerolog.Logger
}

// NewZerologLogger creates an adapter writing JSON log lines to w.
func NewZerologLogger(w io.Writer) *ZerologLogger {
	return &ZerologLogger{zl: zerolog.New(w).With().Timestamp().Logger()}
}

// WrapZerolog adapts an existing zerolog.Logger.
func WrapZerolog(zl zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{zl: zl}
}

func (l *ZerologLogger) emit(ev *zerolog.Event, msg string, keysAndValues []any) {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		ev = ev.Interface(fmt.Sprint(keysAndValues[i]), keysAndValues[i+1])
	}
	ev.Msg(msg)
}

// Debug implements Logger.
func (l *ZerologLogger) Debug(msg string, keysAndValues ...any) {
	l.emit(l.zl.Debug(), msg, keysAndValues)
}

// Info implements Logger.
func (l *ZerologLogger) Info(msg string, keysAndValues ...any) {
	l.emit(l.zl.Info(), msg, keysAndValues)
}

// Warn implements Logger.
func (l *ZerologLogger) Warn(msg string, keysAndValues ...any) {
	l.emit(l.zl.Warn(), msg, keysAndValues)
}

// Error implements Logger.
func (l *ZerologLogger) Error(msg string, keysAndValues ...any) {
	l.emit(l.zl.Error(), msg, keysAndValues)
}

// DebugConfig gates the client's own debug logging per concern.
type DebugConfig struct {
	Enabled      bool
	LogRequests  bool
	LogRetries   bool
	LogCache     bool
	LogRateLimit bool
	RequestIDGen func() string
}

// DefaultDebugConfig enables all concerns with UUID request IDs; Enabled
// still defaults to false until WithDebug is applied.
func DefaultDebugConfig() *DebugConfig {
	return &DebugConfig{
		LogRequests:  true,
		LogRetries:   true,
		LogCache:     true,
		LogRateLimit: true,
		RequestIDGen: uuid.NewString,
	}
}

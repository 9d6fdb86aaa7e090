package commands

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-mdstyle/internal/logging"
	"github.com/goliatone/go-mdstyle/pkg/interfaces"
)

const (
	// DefaultCommandTimeout bounds a single command execution, including
	// the wait for the highlight engine.
	DefaultCommandTimeout = 5 * time.Second
	// SlowEditThreshold marks successful commands that took longer than a
	// keystroke can afford.
	SlowEditThreshold = 100 * time.Millisecond
)

// EnsureContext returns a non-nil context, falling back to context.Background when nil.
func EnsureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// WithCommandTimeout applies the provided timeout unless it is zero or negative.
func WithCommandTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// EnsureLogger returns a usable logger, defaulting to a no-op logger when nil.
func EnsureLogger(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return logging.NoOp()
	}
	return logger
}

// DocumentFields returns the log fields shared by commands that carry a
// document body.
func DocumentFields(documentID uuid.UUID, text string) map[string]any {
	lines := 0
	if text != "" {
		lines = strings.Count(text, "\n") + 1
		if strings.HasSuffix(text, "\n") {
			lines--
		}
	}
	return map[string]any{
		"document_id":  documentID,
		"source_bytes": len(text),
		"source_lines": lines,
	}
}

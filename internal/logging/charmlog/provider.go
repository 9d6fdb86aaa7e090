// Package charmlog adapts github.com/charmbracelet/log to the mdstyle
// logging contract. Entries render in charm's colored text format, or as
// JSON or logfmt.
package charmlog

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/goliatone/go-mdstyle/internal/logging"
	"github.com/goliatone/go-mdstyle/pkg/interfaces"
)

type Config struct {
	Writer    io.Writer
	Level     string
	Format    string
	AddSource bool
}

type Provider struct {
	root *log.Logger
}

// NewProvider builds the charm root logger. Format is one of text (default),
// json or logfmt. Trace maps to charm's debug level.
func NewProvider(cfg Config) (*Provider, error) {
	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}

	opts := log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		ReportCaller:    cfg.AddSource,
		Level:           log.InfoLevel,
	}

	if name := strings.TrimSpace(cfg.Level); name != "" {
		if strings.EqualFold(name, "trace") {
			name = "debug"
		}
		level, err := log.ParseLevel(name)
		if err != nil {
			return nil, fmt.Errorf("charmlog: %w", err)
		}
		opts.Level = level
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "text", "console", "pretty":
		opts.Formatter = log.TextFormatter
	case "json":
		opts.Formatter = log.JSONFormatter
	case "logfmt":
		opts.Formatter = log.LogfmtFormatter
	default:
		return nil, fmt.Errorf("charmlog: unsupported format %q", cfg.Format)
	}

	return &Provider{root: log.NewWithOptions(w, opts)}, nil
}

// GetLogger returns a child logger prefixed with name.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	if p == nil || p.root == nil {
		return logging.NoOp()
	}
	inner := p.root
	if name = strings.TrimSpace(name); name != "" {
		inner = p.root.WithPrefix(name)
	}
	return &adapter{inner: inner}
}

type adapter struct {
	inner *log.Logger
	ctx   context.Context
}

var (
	_ interfaces.Logger       = (*adapter)(nil)
	_ interfaces.FieldsLogger = (*adapter)(nil)
)

func (a *adapter) Trace(msg string, args ...any) { a.log(log.DebugLevel, msg, args) }
func (a *adapter) Debug(msg string, args ...any) { a.log(log.DebugLevel, msg, args) }
func (a *adapter) Info(msg string, args ...any)  { a.log(log.InfoLevel, msg, args) }
func (a *adapter) Warn(msg string, args ...any)  { a.log(log.WarnLevel, msg, args) }
func (a *adapter) Error(msg string, args ...any) { a.log(log.ErrorLevel, msg, args) }

// Fatal logs at fatal level without exiting; process lifetime stays with the
// caller.
func (a *adapter) Fatal(msg string, args ...any) { a.log(log.FatalLevel, msg, args) }

func (a *adapter) log(level log.Level, msg string, args []any) {
	if fields := logging.ContextFields(a.ctx); len(fields) > 0 {
		args = append(logging.KeyValues(fields), args...)
	}
	a.inner.Log(level, msg, args...)
}

func (a *adapter) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return a
	}
	return &adapter{inner: a.inner.With(logging.KeyValues(fields)...), ctx: a.ctx}
}

func (a *adapter) WithContext(ctx context.Context) interfaces.Logger {
	return &adapter{inner: a.inner, ctx: ctx}
}

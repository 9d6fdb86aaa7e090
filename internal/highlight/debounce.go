package highlight

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-mdstyle/internal/ast"
	"github.com/goliatone/go-mdstyle/internal/logging"
	"github.com/goliatone/go-mdstyle/pkg/interfaces"
)

// Debouncer drops calls that arrive within interval of the last accepted
// one. The elapsed-time check and the delegate call run under one lock, so
// concurrent callers cannot both pass the check for the same window.
type Debouncer struct {
	delegate Highlighter
	interval time.Duration
	now      func() time.Time
	logger   interfaces.Logger

	mu       lock
	last     time.Time
	accepted bool
}

type DebounceOption func(*Debouncer)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) DebounceOption {
	return func(d *Debouncer) {
		if now != nil {
			d.now = now
		}
	}
}

func WithDebounceLogger(logger interfaces.Logger) DebounceOption {
	return func(d *Debouncer) {
		if logger != nil {
			d.logger = logger
		}
	}
}

func NewDebouncer(delegate Highlighter, interval time.Duration, opts ...DebounceOption) *Debouncer {
	d := &Debouncer{
		delegate: delegate,
		interval: max(interval, 0),
		now:      time.Now,
		logger:   logging.NoOp(),
		mu:       newLock(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Highlight returns ok=false without touching the tree when the call falls
// inside the debounce window and force is unset. If the delegate fails
// because ctx ended, the window is rolled back so the abandoned call does
// not delay the next one.
func (d *Debouncer) Highlight(ctx context.Context, tree ast.Node, source string, force bool) (AnnotatedText, bool, error) {
	if err := d.mu.Lock(ctx); err != nil {
		return AnnotatedText{}, false, err
	}
	defer d.mu.Unlock()

	now := d.now()
	if !force && d.accepted && now.Sub(d.last) < d.interval {
		d.logger.Trace("highlight.debounced", "since_last", now.Sub(d.last))
		return AnnotatedText{}, false, nil
	}

	prevLast, prevAccepted := d.last, d.accepted
	d.last, d.accepted = now, true

	out, err := d.delegate.Highlight(ctx, tree, source)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			d.last, d.accepted = prevLast, prevAccepted
		}
		return AnnotatedText{}, false, err
	}
	return out, true, nil
}

// Interval returns the configured debounce window.
func (d *Debouncer) Interval() time.Duration { return d.interval }

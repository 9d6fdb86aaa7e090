package highlight

import (
	"context"
	"slices"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"

	"github.com/goliatone/go-mdstyle/internal/ast"
	"github.com/goliatone/go-mdstyle/internal/logging"
	"github.com/goliatone/go-mdstyle/pkg/interfaces"
)

// Span styles the half-open byte range [Start, End) of the source.
type Span struct {
	Start int       `json:"start"`
	End   int       `json:"end"`
	Style StyleID   `json:"style"`
	Rule  StyleRule `json:"rule"`
}

// AnnotatedText is source text plus its style spans in tree pre-order.
// Spans may overlap; renderers stack them.
type AnnotatedText struct {
	Text  string `json:"text"`
	Spans []Span `json:"spans"`
}

// At returns the spans covering pos.
func (a AnnotatedText) At(pos int) []Span {
	var out []Span
	for _, span := range a.Spans {
		if pos >= span.Start && pos < span.End {
			out = append(out, span)
		}
	}
	return out
}

// Map walks tree and emits one span per styled node. It does not cache.
func Map(tree ast.Node, source string, cfg StyleConfig) AnnotatedText {
	out := AnnotatedText{Text: source}
	if tree == nil {
		return out
	}
	ast.Walk(tree, func(n ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.WalkContinue
		}
		id, ok := styleFor(n)
		if !ok {
			return ast.WalkContinue
		}
		start, end := n.Range()
		start = min(max(start, 0), len(source))
		end = min(max(end, 0), len(source))
		if end <= start {
			return ast.WalkContinue
		}
		rule, _ := cfg.Rule(id)
		out.Spans = append(out.Spans, Span{Start: start, End: end, Style: id, Rule: rule})
		return ast.WalkContinue
	})
	return out
}

func styleFor(n ast.Node) (StyleID, bool) {
	switch v := n.(type) {
	case *ast.Heading:
		return HeadingStyle(v.Level), true
	case *ast.Strong:
		return StyleBold, true
	case *ast.Emphasis:
		return StyleItalic, true
	case *ast.Code:
		return StyleCode, true
	case *ast.CodeBlock:
		return StyleCodeBlock, true
	case *ast.Link:
		return StyleLink, true
	case *ast.Strikethrough:
		return StyleStrikethrough, true
	case *ast.Blockquote:
		return StyleBlockquote, true
	}
	return "", false
}

type cacheKey struct {
	hash    uint64
	version uint64
}

// Stats is a snapshot of engine counters.
type Stats struct {
	Hits    uint64
	Misses  uint64
	Entries int
	Version uint64
}

// Engine maps trees to AnnotatedText and caches results by source content
// and config version. Calls are serialized; waiting callers may abandon
// through their context.
type Engine struct {
	mu           lock
	config       StyleConfig
	cache        map[cacheKey]AnnotatedText
	cacheEnabled bool
	logger       interfaces.Logger

	version atomic.Uint64
	hits    atomic.Uint64
	misses  atomic.Uint64
	entries atomic.Int64
}

type Option func(*Engine)

func WithLogger(logger interfaces.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func WithStyleConfig(cfg StyleConfig) Option {
	return func(e *Engine) { e.config = cfg }
}

// WithCache turns result caching on or off. When off, every call maps the
// tree regardless of useCache.
func WithCache(enabled bool) Option {
	return func(e *Engine) { e.cacheEnabled = enabled }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		mu:           newLock(),
		config:       DefaultStyleConfig(PaletteLight),
		cache:        map[cacheKey]AnnotatedText{},
		cacheEnabled: true,
		logger:       logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Highlight maps tree over source. With useCache a stored result for the
// same source and config version is returned unchanged, and a fresh result
// is stored. The only error is the context's, when the caller gives up
// waiting for another call to finish.
func (e *Engine) Highlight(ctx context.Context, tree ast.Node, source string, useCache bool) (AnnotatedText, error) {
	if err := e.mu.Lock(ctx); err != nil {
		return AnnotatedText{}, err
	}
	defer e.mu.Unlock()

	if !useCache || !e.cacheEnabled {
		return Map(tree, source, e.config), nil
	}

	key := cacheKey{hash: xxhash.Sum64String(source), version: e.version.Load()}
	if cached, ok := e.cache[key]; ok {
		e.hits.Add(1)
		e.logger.Debug("highlight.cache.hit", "version", key.version, "spans", len(cached.Spans))
		return clone(cached), nil
	}

	e.misses.Add(1)
	out := Map(tree, source, e.config)
	e.cache[key] = clone(out)
	e.entries.Store(int64(len(e.cache)))
	e.logger.Debug("highlight.cache.miss", "version", key.version, "spans", len(out.Spans), "source_bytes", len(source))
	return out, nil
}

func clone(a AnnotatedText) AnnotatedText {
	return AnnotatedText{Text: a.Text, Spans: slices.Clone(a.Spans)}
}

// ClearCache drops every entry and bumps the version so results computed
// before the call are never served again.
func (e *Engine) ClearCache(ctx context.Context) error {
	if err := e.mu.Lock(ctx); err != nil {
		return err
	}
	defer e.mu.Unlock()
	e.clearLocked()
	return nil
}

func (e *Engine) clearLocked() {
	dropped := len(e.cache)
	clear(e.cache)
	e.entries.Store(0)
	version := e.version.Add(1)
	e.logger.Debug("highlight.cache.cleared", "version", version, "dropped", dropped)
}

// SetStyleConfig swaps the style rules and clears the cache.
func (e *Engine) SetStyleConfig(ctx context.Context, cfg StyleConfig) error {
	if err := e.mu.Lock(ctx); err != nil {
		return err
	}
	defer e.mu.Unlock()
	e.config = cfg
	e.clearLocked()
	e.logger.Info("highlight.config.changed", "palette", string(cfg.Palette()))
	return nil
}

// StyleConfig returns the active rules.
func (e *Engine) StyleConfig(ctx context.Context) (StyleConfig, error) {
	if err := e.mu.Lock(ctx); err != nil {
		return StyleConfig{}, err
	}
	defer e.mu.Unlock()
	return e.config, nil
}

func (e *Engine) Version() uint64 { return e.version.Load() }

func (e *Engine) Stats() Stats {
	return Stats{
		Hits:    e.hits.Load(),
		Misses:  e.misses.Load(),
		Entries: int(e.entries.Load()),
		Version: e.version.Load(),
	}
}

package highlight

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/goliatone/go-mdstyle/internal/ast"
	"github.com/goliatone/go-mdstyle/internal/logging/logtest"
	"github.com/goliatone/go-mdstyle/internal/markdown"
)

func highlightSource(t *testing.T, e *Engine, src string, useCache bool) AnnotatedText {
	t.Helper()
	res := markdown.Parse(src)
	out, err := e.Highlight(context.Background(), res.Tree, res.Content, useCache)
	if err != nil {
		t.Fatalf("Highlight: %v", err)
	}
	return out
}

func spansWith(out AnnotatedText, id StyleID) []Span {
	var found []Span
	for _, span := range out.Spans {
		if span.Style == id {
			found = append(found, span)
		}
	}
	return found
}

func TestBoldAndItalicSpans(t *testing.T) {
	src := "This is **bold** and *italic*."
	out := highlightSource(t, NewEngine(), src, true)

	bold := spansWith(out, StyleBold)
	italic := spansWith(out, StyleItalic)
	if len(bold) != 1 || len(italic) != 1 {
		t.Fatalf("expected one bold and one italic span, got %+v", out.Spans)
	}
	if got := src[bold[0].Start:bold[0].End]; got != "bold" {
		t.Fatalf("bold span covers %q", got)
	}
	if got := src[italic[0].Start:italic[0].End]; got != "italic" {
		t.Fatalf("italic span covers %q", got)
	}
	if bold[0].End > italic[0].Start {
		t.Fatal("expected bold and italic spans not to overlap")
	}
	if !bold[0].Rule.Bold || !italic[0].Rule.Italic {
		t.Fatalf("expected rules from the style config, got %+v %+v", bold[0].Rule, italic[0].Rule)
	}
}

func TestNestedStylesStack(t *testing.T) {
	out := highlightSource(t, NewEngine(), "# A **b**", false)
	if len(out.Spans) != 2 {
		t.Fatalf("expected heading and bold spans, got %+v", out.Spans)
	}
	heading, bold := out.Spans[0], out.Spans[1]
	if heading.Style != HeadingStyle(1) || heading.Start != 0 || heading.End != 9 {
		t.Fatalf("unexpected heading span %+v", heading)
	}
	if bold.Style != StyleBold || bold.Start != 6 || bold.End != 7 {
		t.Fatalf("unexpected bold span %+v", bold)
	}
	if heading.Rule.Scale != 2.0 {
		t.Fatalf("expected heading scale 2, got %v", heading.Rule.Scale)
	}
	if got := len(out.At(6)); got != 2 {
		t.Fatalf("expected two spans at offset 6, got %d", got)
	}
}

func TestBlockStyles(t *testing.T) {
	src := "> quote with [link](https://go.dev)\n\n```go\nx := 1\n```\n\nsome `code` and ~~gone~~\n"
	out := highlightSource(t, NewEngine(), src, false)

	for _, id := range []StyleID{StyleBlockquote, StyleLink, StyleCodeBlock, StyleCode, StyleStrikethrough} {
		if len(spansWith(out, id)) != 1 {
			t.Fatalf("expected one %s span, got %+v", id, out.Spans)
		}
	}
	link := spansWith(out, StyleLink)[0]
	if got := src[link.Start:link.End]; got != "[link](https://go.dev)" {
		t.Fatalf("unexpected link span %q", got)
	}
}

func TestUnstyledContentEmitsNothing(t *testing.T) {
	out := highlightSource(t, NewEngine(), "plain text\n\n- item\n\n---\n\n![alt](a.png)\n", false)
	if len(out.Spans) != 0 {
		t.Fatalf("expected no spans, got %+v", out.Spans)
	}
	if out.Text == "" {
		t.Fatal("expected text to be carried")
	}
}

func TestMapClampsAndDropsEmptyRanges(t *testing.T) {
	doc := &ast.Document{Base: ast.NewBase(0, 50)}
	doc.Append(
		&ast.Strong{Base: ast.NewBase(2, 50)},
		&ast.Emphasis{Base: ast.NewBase(3, 3)},
		&ast.Code{Base: ast.NewBase(40, 45)},
	)
	out := Map(doc, "0123456789", DefaultStyleConfig(PaletteDark))
	if len(out.Spans) != 1 {
		t.Fatalf("expected only the clamped bold span, got %+v", out.Spans)
	}
	if out.Spans[0].Start != 2 || out.Spans[0].End != 10 {
		t.Fatalf("unexpected clamped span %+v", out.Spans[0])
	}
}

func TestHighlightIsDeterministic(t *testing.T) {
	src := "# T\n\n**a** *b* `c`\n\n> q\n"
	first := highlightSource(t, NewEngine(), src, true)
	second := highlightSource(t, NewEngine(), src, false)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical output\n%+v\n%+v", first, second)
	}
}

func TestCacheHitAndClear(t *testing.T) {
	rec := logtest.New()
	e := NewEngine(WithLogger(rec))
	src := "**cached**"

	first := highlightSource(t, e, src, true)
	second := highlightSource(t, e, src, true)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("expected cache hit to return the stored value")
	}
	stats := e.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Entries != 1 || stats.Version != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if _, ok := rec.Find("highlight.cache.hit"); !ok {
		t.Fatal("expected hit to be logged")
	}

	if err := e.ClearCache(context.Background()); err != nil {
		t.Fatalf("ClearCache: %v", err)
	}
	if e.Version() != 1 || e.Stats().Entries != 0 {
		t.Fatalf("expected version bump and empty cache, got %+v", e.Stats())
	}

	third := highlightSource(t, e, src, true)
	if !reflect.DeepEqual(first, third) {
		t.Fatal("expected recomputed value to match")
	}
	if stats := e.Stats(); stats.Misses != 2 || stats.Hits != 1 {
		t.Fatalf("expected a recompute after clear, got %+v", stats)
	}
}

func TestCachedSpansAreNotShared(t *testing.T) {
	e := NewEngine()
	first := highlightSource(t, e, "**x**", true)
	first.Spans[0].Style = "mutated"

	second := highlightSource(t, e, "**x**", true)
	if second.Spans[0].Style != StyleBold {
		t.Fatalf("cache entry was mutated through a returned value: %+v", second.Spans)
	}
}

func TestUseCacheFalseBypassesCache(t *testing.T) {
	e := NewEngine()
	highlightSource(t, e, "*a*", false)
	highlightSource(t, e, "*a*", false)
	if stats := e.Stats(); stats.Entries != 0 || stats.Hits != 0 || stats.Misses != 0 {
		t.Fatalf("expected cache untouched, got %+v", stats)
	}

	disabled := NewEngine(WithCache(false))
	highlightSource(t, disabled, "*a*", true)
	if disabled.Stats().Entries != 0 {
		t.Fatal("expected disabled cache to stay empty")
	}
}

func TestSetStyleConfigClearsCache(t *testing.T) {
	e := NewEngine()
	before := highlightSource(t, e, "[x](y)", true)

	if err := e.SetStyleConfig(context.Background(), DefaultStyleConfig(PaletteDark)); err != nil {
		t.Fatalf("SetStyleConfig: %v", err)
	}
	if e.Version() != 1 {
		t.Fatalf("expected version 1, got %d", e.Version())
	}
	after := highlightSource(t, e, "[x](y)", true)
	if before.Spans[0].Rule.Foreground == after.Spans[0].Rule.Foreground {
		t.Fatal("expected dark palette link color after config change")
	}
	cfg, err := e.StyleConfig(context.Background())
	if err != nil || cfg.Palette() != PaletteDark {
		t.Fatalf("unexpected config %v %v", cfg.Palette(), err)
	}
}

func TestHighlightAbandonsWhenContextEnds(t *testing.T) {
	e := NewEngine()
	if err := e.mu.Lock(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer e.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := e.Highlight(ctx, &ast.Document{}, "", true)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}

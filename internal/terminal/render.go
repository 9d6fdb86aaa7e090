// Package terminal renders highlighted text with ANSI styling for previews.
package terminal

import (
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-mdstyle/internal/highlight"
)

// Token is a styled region of the text. Tokens returned by Tokens never
// overlap and are sorted by Start; gaps between them render unstyled.
type Token struct {
	Start  int
	End    int
	Styles []highlight.StyleID
	Rule   highlight.StyleRule
}

// Tokens flattens possibly overlapping spans into tokens. Where spans stack,
// flags accumulate and the innermost color wins.
func Tokens(text highlight.AnnotatedText) []Token {
	bounds := make([]int, 0, len(text.Spans)*2)
	for _, span := range text.Spans {
		bounds = append(bounds, span.Start, span.End)
	}
	slices.Sort(bounds)
	bounds = slices.Compact(bounds)

	var tokens []Token
	for i := 0; i+1 < len(bounds); i++ {
		start, end := bounds[i], bounds[i+1]
		var tok Token
		for _, span := range text.Spans {
			if span.Start <= start && span.End >= end {
				tok.Styles = append(tok.Styles, span.Style)
				tok.Rule = merge(tok.Rule, span.Rule)
			}
		}
		if len(tok.Styles) == 0 {
			continue
		}
		tok.Start, tok.End = start, end
		if n := len(tokens); n > 0 && tokens[n-1].End == start && slices.Equal(tokens[n-1].Styles, tok.Styles) {
			tokens[n-1].End = end
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

func merge(outer, inner highlight.StyleRule) highlight.StyleRule {
	out := outer
	if inner.Foreground != "" {
		out.Foreground = inner.Foreground
	}
	if inner.Background != "" {
		out.Background = inner.Background
	}
	if inner.Scale != 0 {
		out.Scale = inner.Scale
	}
	out.Bold = out.Bold || inner.Bold
	out.Italic = out.Italic || inner.Italic
	out.Underline = out.Underline || inner.Underline
	out.Strikethrough = out.Strikethrough || inner.Strikethrough
	out.Monospace = out.Monospace || inner.Monospace
	return out
}

// Renderer turns annotated text into terminal output.
type Renderer struct {
	lg *lipgloss.Renderer
}

// NewRenderer detects the color profile of w. A nil writer uses lipgloss'
// default renderer.
func NewRenderer(w io.Writer) *Renderer {
	if w == nil {
		return &Renderer{lg: lipgloss.DefaultRenderer()}
	}
	return &Renderer{lg: lipgloss.NewRenderer(w)}
}

// Style converts a rule to a lipgloss style. Headings scaled above body size
// are rendered bold since terminals have a single font size.
func (r *Renderer) Style(rule highlight.StyleRule) lipgloss.Style {
	style := r.lg.NewStyle()
	if rule.Foreground != "" {
		style = style.Foreground(lipgloss.Color(rule.Foreground))
	}
	if rule.Background != "" {
		style = style.Background(lipgloss.Color(rule.Background))
	}
	return style.
		Bold(rule.Bold || rule.Scale > 1).
		Italic(rule.Italic).
		Underline(rule.Underline).
		Strikethrough(rule.Strikethrough)
}

// Render styles every token of text. Styles are applied per line so that
// multi-line tokens are not padded into blocks.
func (r *Renderer) Render(text highlight.AnnotatedText) string {
	var b strings.Builder
	pos := 0
	for _, tok := range Tokens(text) {
		start, end := clamp(tok.Start, len(text.Text)), clamp(tok.End, len(text.Text))
		if start < pos || start >= end {
			continue
		}
		b.WriteString(text.Text[pos:start])
		style := r.Style(tok.Rule)
		for i, line := range strings.Split(text.Text[start:end], "\n") {
			if i > 0 {
				b.WriteByte('\n')
			}
			if line != "" {
				b.WriteString(style.Render(line))
			}
		}
		pos = end
	}
	b.WriteString(text.Text[pos:])
	return b.String()
}

func clamp(v, n int) int {
	return min(max(v, 0), n)
}

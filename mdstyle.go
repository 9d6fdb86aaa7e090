// Package mdstyle turns markdown-style document text into a syntax tree and
// a list of style spans for an editor surface.
package mdstyle

import (
	"context"

	editorcmd "github.com/goliatone/go-mdstyle/internal/commands/editor"
	"github.com/goliatone/go-mdstyle/internal/di"
	"github.com/goliatone/go-mdstyle/internal/frontmatter"
	"github.com/goliatone/go-mdstyle/internal/highlight"
	"github.com/goliatone/go-mdstyle/internal/markdown"
)

type (
	// Result is the outcome of parsing one document.
	Result        = markdown.Result
	AnnotatedText = highlight.AnnotatedText
	Span          = highlight.Span
	StyleID       = highlight.StyleID
	StyleRule     = highlight.StyleRule
	StyleConfig   = highlight.StyleConfig
	Palette       = highlight.Palette
	Snapshot      = highlight.Snapshot
	Frontmatter   = frontmatter.Map
	Value         = frontmatter.Value

	DocumentEditedCommand = editorcmd.DocumentEditedCommand
	ClearStylesCommand    = editorcmd.ClearStylesCommand
	ChangePaletteCommand  = editorcmd.ChangePaletteCommand
	EditorHandlers        = editorcmd.HandlerSet
)

const (
	PaletteLight = highlight.PaletteLight
	PaletteDark  = highlight.PaletteDark
)

// Module is the top level façade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Parse splits frontmatter from raw and parses the body. With strict
// frontmatter enabled an undecodable block is returned as an error alongside
// the otherwise complete result.
func (m *Module) Parse(raw string) (Result, error) {
	res := m.container.Parser().Parse(raw)
	if m.container.Config.Frontmatter.Strict && res.FrontmatterErr != nil {
		return res, res.FrontmatterErr
	}
	return res, nil
}

// Highlight maps a parse result to style spans through the shared engine.
func (m *Module) Highlight(ctx context.Context, res Result) (AnnotatedText, error) {
	return m.container.Engine().Highlight(ctx, res.Tree, res.Content, m.container.Config.Highlight.CacheEnabled)
}

// Process parses and highlights raw in one step.
func (m *Module) Process(ctx context.Context, raw string) (Result, AnnotatedText, error) {
	res, err := m.Parse(raw)
	if err != nil {
		return res, AnnotatedText{}, err
	}
	text, err := m.Highlight(ctx, res)
	return res, text, err
}

// Engine returns the highlighting engine for cache and style control.
func (m *Module) Engine() *highlight.Engine {
	return m.container.Engine()
}

// Editor returns the command handlers that feed edits into per-document pipelines.
func (m *Module) Editor() *EditorHandlers {
	return m.container.Handlers()
}

// ExtractFrontmatter splits a leading metadata block from text. Text without
// a block yields an empty mapping and the text unchanged.
func ExtractFrontmatter(text string) (*Frontmatter, string) {
	return frontmatter.Extract(text)
}

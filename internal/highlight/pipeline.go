package highlight

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-mdstyle/internal/markdown"
	"github.com/goliatone/go-mdstyle/pkg/interfaces"
)

// Snapshot is the state of a document after an update.
type Snapshot struct {
	Result markdown.Result
	Text   AnnotatedText
	// Fresh is false when the update was debounced; Text then holds the
	// last accepted spans, which may not match Result.Content.
	Fresh bool
}

// PipelineOptions configures NewPipeline. Zero values use the defaults of
// each layer.
type PipelineOptions struct {
	Threshold float64
	Interval  time.Duration
	Clock     func() time.Time
	Logger    interfaces.Logger
}

// Pipeline wires parser, engine, incremental gate and debouncer for one
// document being edited.
type Pipeline struct {
	parser    *markdown.Parser
	engine    *Engine
	debouncer *Debouncer

	mu   sync.Mutex
	last AnnotatedText
}

func NewPipeline(parser *markdown.Parser, engine *Engine, opts PipelineOptions) *Pipeline {
	if parser == nil {
		parser = markdown.NewParser(markdown.Options{Logger: opts.Logger})
	}
	if engine == nil {
		engine = NewEngine(WithLogger(opts.Logger))
	}

	incOpts := []IncrementalOption{WithIncrementalLogger(opts.Logger)}
	if opts.Threshold > 0 {
		incOpts = append(incOpts, WithThreshold(opts.Threshold))
	}
	incremental := NewIncremental(engine, incOpts...)

	return &Pipeline{
		parser:    parser,
		engine:    engine,
		debouncer: NewDebouncer(incremental, opts.Interval, WithClock(opts.Clock), WithDebounceLogger(opts.Logger)),
	}
}

// Update parses raw and highlights its body unless the call is debounced.
func (p *Pipeline) Update(ctx context.Context, raw string, force bool) (Snapshot, error) {
	result := p.parser.Parse(raw)

	text, ok, err := p.debouncer.Highlight(ctx, result.Tree, result.Content, force)
	if err != nil {
		return Snapshot{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if ok {
		p.last = text
	}
	return Snapshot{Result: result, Text: clone(p.last), Fresh: ok}, nil
}

// Engine exposes the engine for cache and style control.
func (p *Pipeline) Engine() *Engine { return p.engine }

package editorcmd

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-mdstyle/internal/frontmatter"
	"github.com/goliatone/go-mdstyle/internal/highlight"
	"github.com/goliatone/go-mdstyle/internal/logging"
	"github.com/goliatone/go-mdstyle/internal/markdown"
	"github.com/goliatone/go-mdstyle/pkg/interfaces"
)

// ErrUnknownDocument is returned when closing a document that has no pipeline.
var ErrUnknownDocument = errors.New("editor: unknown document")

// SessionOptions configures NewSession.
type SessionOptions struct {
	Parser    *markdown.Parser
	Engine    *highlight.Engine
	Presenter interfaces.Presenter
	// Threshold and Interval configure every document pipeline.
	Threshold float64
	Interval  time.Duration
	Clock     func() time.Time
	// StrictFrontmatter turns undecodable metadata blocks into edit errors.
	StrictFrontmatter bool
	// Schema, when set, validates the decoded metadata of every edit.
	Schema map[string]any
	Logger interfaces.Logger
}

// Session keeps one pipeline per open document. All pipelines share the
// parser and the engine, so cache and style changes apply to every document.
type Session struct {
	opts   SessionOptions
	logger interfaces.Logger

	mu   sync.Mutex
	docs map[uuid.UUID]*highlight.Pipeline
}

func NewSession(opts SessionOptions) *Session {
	if opts.Logger == nil {
		opts.Logger = logging.NoOp()
	}
	if opts.Parser == nil {
		opts.Parser = markdown.NewParser(markdown.Options{Logger: opts.Logger})
	}
	if opts.Engine == nil {
		opts.Engine = highlight.NewEngine(highlight.WithLogger(opts.Logger))
	}
	return &Session{
		opts:   opts,
		logger: opts.Logger,
		docs:   map[uuid.UUID]*highlight.Pipeline{},
	}
}

// Engine returns the shared highlighting engine.
func (s *Session) Engine() *highlight.Engine { return s.opts.Engine }

// Edit runs the document's pipeline over text and hands the rendering to the
// presenter, if any.
func (s *Session) Edit(ctx context.Context, id uuid.UUID, text string, force bool) (highlight.Snapshot, error) {
	snap, err := s.pipeline(id).Update(ctx, text, force)
	if err != nil {
		return highlight.Snapshot{}, err
	}

	if s.opts.StrictFrontmatter && snap.Result.FrontmatterErr != nil {
		return snap, fmt.Errorf("document %s: %w", id, snap.Result.FrontmatterErr)
	}
	if s.opts.Schema != nil {
		if err := frontmatter.ValidateSchema(snap.Result.Frontmatter, s.opts.Schema); err != nil {
			return snap, fmt.Errorf("document %s: %w", id, err)
		}
	}

	if s.opts.Presenter != nil {
		if err := s.opts.Presenter.Present(ctx, Rendering(id, snap)); err != nil {
			return snap, err
		}
	}
	return snap, nil
}

// Load reads a document from source and highlights it immediately.
func (s *Session) Load(ctx context.Context, source interfaces.DocumentSource, id uuid.UUID) (highlight.Snapshot, error) {
	text, err := source.Load(ctx, id.String())
	if err != nil {
		return highlight.Snapshot{}, fmt.Errorf("load document %s: %w", id, err)
	}
	return s.Edit(ctx, id, text, true)
}

// Close forgets the pipeline of a document.
func (s *Session) Close(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownDocument, id)
	}
	delete(s.docs, id)
	return nil
}

// Documents returns the number of open documents.
func (s *Session) Documents() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

func (s *Session) pipeline(id uuid.UUID) *highlight.Pipeline {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.docs[id]; ok {
		return p
	}
	p := highlight.NewPipeline(s.opts.Parser, s.opts.Engine, highlight.PipelineOptions{
		Threshold: s.opts.Threshold,
		Interval:  s.opts.Interval,
		Clock:     s.opts.Clock,
		Logger:    logging.WithDocumentContext(s.logger, id.String(), -1, ""),
	})
	s.docs[id] = p
	return p
}

// Rendering converts a snapshot into the presenter payload.
func Rendering(id uuid.UUID, snap highlight.Snapshot) interfaces.Rendering {
	ranges := make([]interfaces.StyledRange, 0, len(snap.Text.Spans))
	for _, span := range snap.Text.Spans {
		ranges = append(ranges, interfaces.StyledRange{Start: span.Start, End: span.End, Style: string(span.Style)})
	}
	r := interfaces.Rendering{
		DocumentID: id.String(),
		Body:       snap.Result.Content,
		Ranges:     ranges,
		Fresh:      snap.Fresh,
	}
	if snap.Result.Frontmatter != nil {
		r.Frontmatter = snap.Result.Frontmatter.Any()
	}
	return r
}

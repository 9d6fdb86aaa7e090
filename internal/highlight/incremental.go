package highlight

import (
	"context"
	"sync"
	"unicode/utf8"

	"github.com/goliatone/go-mdstyle/internal/ast"
	"github.com/goliatone/go-mdstyle/internal/logging"
	"github.com/goliatone/go-mdstyle/pkg/interfaces"
)

// DefaultSimilarityThreshold is the similarity above which the cache is
// consulted.
const DefaultSimilarityThreshold = 0.9

// Highlighter produces AnnotatedText for a parsed document.
type Highlighter interface {
	Highlight(ctx context.Context, tree ast.Node, source string) (AnnotatedText, error)
}

// CachingHighlighter lets callers choose whether the cache may be used.
// *Engine implements it.
type CachingHighlighter interface {
	Highlight(ctx context.Context, tree ast.Node, source string, useCache bool) (AnnotatedText, error)
}

// Incremental decides per call whether the cache may be used, based on how
// close the new source is to the previous one. The full mapping runs on
// every cache miss; no spans are patched.
type Incremental struct {
	delegate  CachingHighlighter
	threshold float64
	logger    interfaces.Logger

	mu       sync.Mutex
	previous string
}

type IncrementalOption func(*Incremental)

// WithThreshold sets the similarity cutoff. Values outside [0,1] are
// ignored.
func WithThreshold(threshold float64) IncrementalOption {
	return func(i *Incremental) {
		if threshold >= 0 && threshold <= 1 {
			i.threshold = threshold
		}
	}
}

func WithIncrementalLogger(logger interfaces.Logger) IncrementalOption {
	return func(i *Incremental) {
		if logger != nil {
			i.logger = logger
		}
	}
}

func NewIncremental(delegate CachingHighlighter, opts ...IncrementalOption) *Incremental {
	i := &Incremental{
		delegate:  delegate,
		threshold: DefaultSimilarityThreshold,
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(i)
		}
	}
	return i
}

func (i *Incremental) Highlight(ctx context.Context, tree ast.Node, source string) (AnnotatedText, error) {
	i.mu.Lock()
	score := Similarity(i.previous, source)
	i.previous = source
	i.mu.Unlock()

	useCache := score > i.threshold
	i.logger.Trace("highlight.incremental.decision", "similarity", score, "use_cache", useCache)
	return i.delegate.Highlight(ctx, tree, source, useCache)
}

// Similarity scores two texts in [0,1] as the mean of their rune length
// ratio and the fraction of matching rune positions over the shorter text.
// Two empty texts score 1.
func Similarity(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	shorter, longer := min(la, lb), max(la, lb)
	if longer == 0 {
		return 1
	}
	if shorter == 0 {
		return 0
	}

	matches := 0
	for n := 0; n < shorter; n++ {
		ra, sa := utf8.DecodeRuneInString(a)
		rb, sb := utf8.DecodeRuneInString(b)
		if ra == rb {
			matches++
		}
		a, b = a[sa:], b[sb:]
	}

	lengthRatio := float64(shorter) / float64(longer)
	positional := float64(matches) / float64(shorter)
	return (lengthRatio + positional) / 2
}

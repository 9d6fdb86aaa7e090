package markdown

import (
	"sync"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/text"

	"github.com/goliatone/go-mdstyle/internal/ast"
	"github.com/goliatone/go-mdstyle/internal/frontmatter"
	"github.com/goliatone/go-mdstyle/internal/logging"
	"github.com/goliatone/go-mdstyle/pkg/interfaces"
)

// Options configures a Parser.
type Options struct {
	// Extensions names the goldmark extensions to enable. Empty selects
	// DefaultExtensions.
	Extensions []string
	// DisableAnnotations keeps `{.class}` suffixes as literal text.
	DisableAnnotations bool
	Logger             interfaces.Logger
}

// Result is the outcome of parsing one document.
type Result struct {
	Tree        *ast.Document
	Frontmatter *frontmatter.Map
	// Content is the body the tree offsets refer to.
	Content string
	// Offset is the position of Content within the raw text.
	Offset int
	// FrontmatterErr is set when a metadata block was present but could not
	// be decoded. Frontmatter is empty in that case.
	FrontmatterErr error
}

// Parser is safe for concurrent use.
type Parser struct {
	engine      goldmark.Markdown
	annotations bool
	logger      interfaces.Logger
}

func NewParser(opts Options) *Parser {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Parser{
		engine:      newGoldmarkEngine(opts.Extensions),
		annotations: !opts.DisableAnnotations,
		logger:      logger,
	}
}

// Parse never fails. Undecodable frontmatter yields an empty mapping and
// constructs the transform cannot model degrade to literal text.
func (p *Parser) Parse(raw string) Result {
	started := time.Now()

	result := Result{Frontmatter: frontmatter.NewMap(), Content: raw}
	if block, content, ok := frontmatter.Split(raw); ok {
		result.Content = content
		result.Offset = len(raw) - len(content)
		fm, err := frontmatter.ParseWithResult(block)
		if err != nil {
			result.FrontmatterErr = err
			p.logger.Warn("markdown.frontmatter.invalid", "error", err, "block_bytes", len(block))
		} else {
			result.Frontmatter = fm
		}
	}

	result.Tree = p.tree([]byte(result.Content))

	p.logger.Debug("markdown.parse.completed",
		"source_bytes", len(raw),
		"body_bytes", len(result.Content),
		"frontmatter_keys", result.Frontmatter.Len(),
		"nodes", ast.Count(result.Tree),
		"elapsed", time.Since(started),
	)
	return result
}

func (p *Parser) tree(src []byte) (doc *ast.Document) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("markdown.parse.recovered", "panic", r, "body_bytes", len(src))
			doc = &ast.Document{Base: ast.NewBase(0, len(src))}
			if len(src) > 0 {
				doc.Append(&ast.Text{Base: ast.NewBase(0, len(src)), Literal: string(src)})
			}
		}
	}()

	root := p.engine.Parser().Parse(text.NewReader(src))
	return newTransformer(src, p.annotations).document(root)
}

var (
	defaultParserOnce sync.Once
	defaultParser     *Parser
)

// Parse parses raw with the default extension set and annotations enabled.
func Parse(raw string) Result {
	defaultParserOnce.Do(func() {
		defaultParser = NewParser(Options{})
	})
	return defaultParser.Parse(raw)
}

package di

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	editorcmd "github.com/goliatone/go-mdstyle/internal/commands/editor"
	"github.com/goliatone/go-mdstyle/internal/highlight"
	"github.com/goliatone/go-mdstyle/internal/logging"
	"github.com/goliatone/go-mdstyle/internal/logging/charmlog"
	"github.com/goliatone/go-mdstyle/internal/logging/console"
	"github.com/goliatone/go-mdstyle/internal/logging/gologger"
	"github.com/goliatone/go-mdstyle/internal/markdown"
	"github.com/goliatone/go-mdstyle/internal/runtimeconfig"
	"github.com/goliatone/go-mdstyle/pkg/interfaces"
)

// Container wires the parser, the highlighting engine and the editor
// session from a runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logWriter      io.Writer
	presenter      interfaces.Presenter
	schema         map[string]any
	clock          func() time.Time

	parser   *markdown.Parser
	engine   *highlight.Engine
	session  *editorcmd.Session
	handlers *editorcmd.HandlerSet
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithLogWriter redirects console and charm log output. Defaults to stderr.
func WithLogWriter(w io.Writer) Option {
	return func(c *Container) {
		c.logWriter = w
	}
}

// WithPresenter receives every rendering produced by editor commands.
func WithPresenter(p interfaces.Presenter) Option {
	return func(c *Container) {
		c.presenter = p
	}
}

// WithSchema supplies a frontmatter schema directly instead of reading
// Config.Frontmatter.Schema from disk.
func WithSchema(schema map[string]any) Option {
	return func(c *Container) {
		c.schema = schema
	}
}

// WithClock overrides the debounce clock.
func WithClock(now func() time.Time) Option {
	return func(c *Container) {
		c.clock = now
	}
}

// NewContainer validates cfg and builds the services it describes.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureSchema(); err != nil {
		return nil, err
	}

	c.parser = markdown.NewParser(markdown.Options{
		Extensions:         cfg.Parser.Extensions,
		DisableAnnotations: !cfg.Parser.Annotations,
		Logger:             logging.MarkdownLogger(c.loggerProvider),
	})

	highlightLogger := logging.HighlightLogger(c.loggerProvider)
	c.engine = highlight.NewEngine(
		highlight.WithLogger(highlightLogger),
		highlight.WithCache(cfg.Highlight.CacheEnabled),
		highlight.WithStyleConfig(highlight.DefaultStyleConfig(cfg.Palette())),
	)

	c.session = editorcmd.NewSession(editorcmd.SessionOptions{
		Parser:            c.parser,
		Engine:            c.engine,
		Presenter:         c.presenter,
		Threshold:         cfg.Highlight.SimilarityThreshold,
		Interval:          cfg.Highlight.DebounceInterval,
		Clock:             c.clock,
		StrictFrontmatter: cfg.Frontmatter.Strict,
		Schema:            c.schema,
		Logger:            highlightLogger,
	})

	handlers, err := editorcmd.RegisterEditorCommands(nil, c.session, c.loggerProvider)
	if err != nil {
		return nil, err
	}
	c.handlers = handlers

	logging.ModuleLogger(c.loggerProvider, logging.RootModule).Debug("container.configured",
		"palette", string(cfg.Palette()),
		"cache", cfg.Highlight.CacheEnabled,
		"debounce", cfg.Highlight.DebounceInterval,
		"strict_frontmatter", cfg.Frontmatter.Strict,
	)
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}

	logCfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(logCfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			return fmt.Errorf("configure gologger provider: %w", err)
		}
		c.loggerProvider = provider
	case "charm":
		provider, err := charmlog.NewProvider(charmlog.Config{
			Writer:    c.logWriter,
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
		})
		if err != nil {
			return fmt.Errorf("configure charm provider: %w", err)
		}
		c.loggerProvider = provider
	default:
		level, _ := console.ParseLevel(logCfg.Level)
		c.loggerProvider = console.NewProvider(console.Options{
			Writer:   c.logWriter,
			MinLevel: &level,
			Styled:   c.logWriter == nil,
		})
	}
	return nil
}

func (c *Container) configureSchema() error {
	path := strings.TrimSpace(c.Config.Frontmatter.Schema)
	if c.schema != nil || path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read frontmatter schema: %w", err)
	}
	var schema map[string]any
	if err := json.Unmarshal(data, &schema); err != nil {
		return fmt.Errorf("decode frontmatter schema %s: %w", path, err)
	}
	c.schema = schema
	return nil
}

// LoggerProvider returns the configured provider, nil when logging is disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

func (c *Container) Parser() *markdown.Parser { return c.parser }

func (c *Container) Engine() *highlight.Engine { return c.engine }

func (c *Container) Session() *editorcmd.Session { return c.session }

// Handlers returns the editor command handlers bound to the session.
func (c *Container) Handlers() *editorcmd.HandlerSet { return c.handlers }

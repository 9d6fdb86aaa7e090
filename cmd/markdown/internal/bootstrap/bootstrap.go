package bootstrap

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/goliatone/go-mdstyle"
	"github.com/goliatone/go-mdstyle/internal/di"
	"github.com/goliatone/go-mdstyle/internal/logging"
	"github.com/goliatone/go-mdstyle/pkg/interfaces"
)

// Options captures configuration for markdown CLI bootstraps. Non-zero
// fields override values read from ConfigPath.
type Options struct {
	ConfigPath     string
	Palette        string
	Debounce       *time.Duration
	Schema         string
	Verbose        bool
	LogWriter      io.Writer
	LoggerProvider interfaces.LoggerProvider
	Presenter      interfaces.Presenter
}

// Module wraps the mdstyle module and the CLI logger.
type Module struct {
	Module *mdstyle.Module
	Logger interfaces.Logger
}

// BuildModule constructs an mdstyle module configured for CLI use.
func BuildModule(opts Options) (*Module, error) {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	if palette := strings.TrimSpace(opts.Palette); palette != "" {
		cfg.Highlight.Palette = palette
	}
	if opts.Debounce != nil {
		cfg.Highlight.DebounceInterval = *opts.Debounce
	}
	if schema := strings.TrimSpace(opts.Schema); schema != "" {
		cfg.Frontmatter.Strict = true
		cfg.Frontmatter.Schema = schema
	}
	if opts.Verbose {
		cfg.Features.Logger = true
		cfg.Logging.Level = "debug"
	}

	diOpts := []di.Option{di.WithPresenter(opts.Presenter)}
	if opts.LogWriter != nil {
		diOpts = append(diOpts, di.WithLogWriter(opts.LogWriter))
	}
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, di.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := mdstyle.New(cfg, diOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise mdstyle module: %w", err)
	}

	return &Module{
		Module: module,
		Logger: logging.ModuleLogger(module.Container().LoggerProvider(), "mdstyle.cli"),
	}, nil
}

func loadConfig(path string) (mdstyle.Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return mdstyle.DefaultConfig(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return mdstyle.Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return mdstyle.LoadConfig(f)
}

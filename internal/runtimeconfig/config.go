package runtimeconfig

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-mdstyle/internal/highlight"
	"github.com/goliatone/go-mdstyle/internal/markdown"
)

var ErrParserExtensionUnknown = errors.New("mdstyle config: parser extension is not supported")
var ErrSimilarityThresholdInvalid = errors.New("mdstyle config: similarity threshold must be within [0,1]")
var ErrDebounceIntervalInvalid = errors.New("mdstyle config: debounce interval must be zero or positive")
var ErrPaletteInvalid = errors.New("mdstyle config: highlight palette is invalid")
var ErrSchemaRequiresFrontmatter = errors.New("mdstyle config: frontmatter schema requires strict frontmatter decoding")
var ErrLoggingProviderRequired = errors.New("mdstyle config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("mdstyle config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("mdstyle config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("mdstyle config: logging format is invalid")

// Config aggregates parser, highlighter and logging settings.
type Config struct {
	Parser      ParserConfig      `yaml:"parser"`
	Highlight   HighlightConfig   `yaml:"highlight"`
	Frontmatter FrontmatterConfig `yaml:"frontmatter"`
	Logging     LoggingConfig     `yaml:"logging"`
	Features    Features          `yaml:"features"`
}

type ParserConfig struct {
	// Extensions lists goldmark extensions by name; empty selects the
	// parser defaults.
	Extensions  []string `yaml:"extensions"`
	Annotations bool     `yaml:"annotations"`
}

type HighlightConfig struct {
	CacheEnabled        bool          `yaml:"cache_enabled"`
	SimilarityThreshold float64       `yaml:"similarity_threshold"`
	DebounceInterval    time.Duration `yaml:"debounce_interval"`
	Palette             string        `yaml:"palette"`
}

// FrontmatterConfig controls how metadata blocks are surfaced. When Strict
// is set, decode failures are reported to the caller instead of yielding an
// empty mapping.
type FrontmatterConfig struct {
	Strict bool `yaml:"strict"`
	// Schema is a path to a JSON schema validated against decoded metadata.
	Schema string `yaml:"schema"`
}

type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

type Features struct {
	Logger bool `yaml:"logger"`
}

func DefaultConfig() Config {
	return Config{
		Parser: ParserConfig{
			Extensions:  append([]string(nil), markdown.DefaultExtensions...),
			Annotations: true,
		},
		Highlight: HighlightConfig{
			CacheEnabled:        true,
			SimilarityThreshold: highlight.DefaultSimilarityThreshold,
			DebounceInterval:    150 * time.Millisecond,
			Palette:             string(highlight.PaletteLight),
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Load decodes YAML from r over DefaultConfig and validates the result.
func Load(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("mdstyle config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate performs consistency checks.
func (cfg Config) Validate() error {
	for _, name := range cfg.Parser.Extensions {
		if !markdown.SupportedExtension(name) {
			return fmt.Errorf("%w: %s", ErrParserExtensionUnknown, name)
		}
	}
	if t := cfg.Highlight.SimilarityThreshold; t < 0 || t > 1 {
		return fmt.Errorf("%w: %v", ErrSimilarityThresholdInvalid, t)
	}
	if cfg.Highlight.DebounceInterval < 0 {
		return ErrDebounceIntervalInvalid
	}
	if palette := strings.TrimSpace(cfg.Highlight.Palette); palette != "" {
		if _, err := highlight.ParsePalette(palette); err != nil {
			return fmt.Errorf("%w: %s", ErrPaletteInvalid, palette)
		}
	}
	if strings.TrimSpace(cfg.Frontmatter.Schema) != "" && !cfg.Frontmatter.Strict {
		return ErrSchemaRequiresFrontmatter
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(provider, format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

// Palette returns the configured palette, defaulting to light.
func (cfg Config) Palette() highlight.Palette {
	palette, err := highlight.ParsePalette(cfg.Highlight.Palette)
	if err != nil {
		return highlight.PaletteLight
	}
	return palette
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger", "charm":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(provider, format string) bool {
	format = strings.ToLower(strings.TrimSpace(format))
	switch provider {
	case "gologger":
		return format == "json" || format == "console" || format == "pretty"
	case "charm":
		return format == "text" || format == "json" || format == "logfmt"
	default:
		return format == "text"
	}
}

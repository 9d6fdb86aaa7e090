package mdstyle

import (
	"io"

	"github.com/goliatone/go-mdstyle/internal/runtimeconfig"
)

var (
	ErrParserExtensionUnknown     = runtimeconfig.ErrParserExtensionUnknown
	ErrSimilarityThresholdInvalid = runtimeconfig.ErrSimilarityThresholdInvalid
	ErrDebounceIntervalInvalid    = runtimeconfig.ErrDebounceIntervalInvalid
	ErrPaletteInvalid             = runtimeconfig.ErrPaletteInvalid
	ErrSchemaRequiresFrontmatter  = runtimeconfig.ErrSchemaRequiresFrontmatter
	ErrLoggingProviderRequired    = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown     = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid        = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid       = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config            = runtimeconfig.Config
	ParserConfig      = runtimeconfig.ParserConfig
	HighlightConfig   = runtimeconfig.HighlightConfig
	FrontmatterConfig = runtimeconfig.FrontmatterConfig
	LoggingConfig     = runtimeconfig.LoggingConfig
	Features          = runtimeconfig.Features
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig decodes a YAML configuration over the defaults.
func LoadConfig(r io.Reader) (Config, error) {
	return runtimeconfig.Load(r)
}

package logging

import (
	"strings"

	"github.com/goliatone/go-mdstyle/pkg/interfaces"
)

const (
	RootModule        = "mdstyle"
	FrontmatterModule = "mdstyle.frontmatter"
	MarkdownModule    = "mdstyle.markdown"
	HighlightModule   = "mdstyle.highlight"
	EditorModule      = "mdstyle.editor"
)

const (
	fieldDocumentID = "document_id"
	fieldSourceSize = "source_bytes"
	fieldOperation  = "operation"
)

// ModuleLogger returns the provider's logger for module tagged with a module
// field. A nil provider, or one that returns nil, yields NoOp.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	module = strings.TrimSpace(module)
	if module == "" {
		module = RootModule
	}

	var logger interfaces.Logger
	if provider != nil {
		logger = provider.GetLogger(module)
	}
	if logger == nil {
		return NoOp()
	}
	return WithFields(logger, map[string]any{"module": module})
}

func FrontmatterLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, FrontmatterModule)
}

func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, MarkdownModule)
}

func HighlightLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, HighlightModule)
}

func EditorLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, EditorModule)
}

// WithDocumentContext tags logger with the document being processed. Empty
// identifiers and negative sizes are skipped.
func WithDocumentContext(logger interfaces.Logger, documentID string, size int, operation string) interfaces.Logger {
	fields := map[string]any{}
	if id := strings.TrimSpace(documentID); id != "" {
		fields[fieldDocumentID] = id
	}
	if size >= 0 {
		fields[fieldSourceSize] = size
	}
	if op := strings.TrimSpace(operation); op != "" {
		fields[fieldOperation] = op
	}
	return WithFields(logger, fields)
}

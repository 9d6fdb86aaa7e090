package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// newGoldmarkEngine builds the goldmark instance used for tokenizing. Only the
// parser half is used; nothing is rendered to HTML. Unsupported extension
// names are ignored.
func newGoldmarkEngine(extensions []string) goldmark.Markdown {
	// goldmark's own attribute syntax stays disabled so `{.class}` suffixes
	// reach the transform as plain text.
	engineOptions := []goldmark.Option{}
	if exts := collectExtensions(extensions); len(exts) > 0 {
		engineOptions = append(engineOptions, goldmark.WithExtensions(exts...))
	}
	return goldmark.New(engineOptions...)
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
}

// DefaultExtensions is the extension set used when none are configured.
var DefaultExtensions = []string{"table", "strikethrough", "tasklist", "linkify"}

func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		names = DefaultExtensions
	}

	var extenders []goldmark.Extender
	seen := map[string]struct{}{}

	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}

		if _, ok := seen[key]; ok {
			continue
		}

		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}

		extenders = append(extenders, ext)
		seen[key] = struct{}{}
	}

	return extenders
}

// SupportedExtension reports whether name is a known extension.
func SupportedExtension(name string) bool {
	_, ok := extensionRegistry[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

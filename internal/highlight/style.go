package highlight

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// StyleID names a style descriptor. Renderers resolve it to concrete
// attributes through a StyleConfig.
type StyleID string

const (
	StyleBold          StyleID = "bold"
	StyleItalic        StyleID = "italic"
	StyleCode          StyleID = "code"
	StyleCodeBlock     StyleID = "code-block"
	StyleLink          StyleID = "link"
	StyleStrikethrough StyleID = "strikethrough"
	StyleBlockquote    StyleID = "blockquote"
)

// HeadingStyle returns the style for a heading level, e.g. "heading-2".
func HeadingStyle(level int) StyleID {
	return StyleID(fmt.Sprintf("heading-%d", level))
}

type Palette string

const (
	PaletteLight Palette = "light"
	PaletteDark  Palette = "dark"
)

var ErrUnknownPalette = errors.New("highlight: unknown palette")

// ParsePalette accepts "light" or "dark" in any case.
func ParsePalette(name string) (Palette, error) {
	switch Palette(strings.ToLower(strings.TrimSpace(name))) {
	case PaletteLight:
		return PaletteLight, nil
	case PaletteDark:
		return PaletteDark, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPalette, name)
}

// StyleRule describes how a styled range should look. Colors are hex
// strings; Scale is a font size factor relative to body text.
type StyleRule struct {
	Foreground    string  `json:"foreground,omitempty"`
	Background    string  `json:"background,omitempty"`
	Scale         float64 `json:"scale,omitempty"`
	Bold          bool    `json:"bold,omitempty"`
	Italic        bool    `json:"italic,omitempty"`
	Underline     bool    `json:"underline,omitempty"`
	Strikethrough bool    `json:"strikethrough,omitempty"`
	Monospace     bool    `json:"monospace,omitempty"`
}

// StyleConfig is an immutable set of rules for one palette.
type StyleConfig struct {
	palette Palette
	rules   map[StyleID]StyleRule
}

// NewStyleConfig copies rules into a new config.
func NewStyleConfig(palette Palette, rules map[StyleID]StyleRule) StyleConfig {
	return StyleConfig{palette: palette, rules: maps.Clone(rules)}
}

func (c StyleConfig) Palette() Palette { return c.palette }

func (c StyleConfig) Rule(id StyleID) (StyleRule, bool) {
	rule, ok := c.rules[id]
	return rule, ok
}

// WithRule returns a copy of c with id set to rule.
func (c StyleConfig) WithRule(id StyleID, rule StyleRule) StyleConfig {
	rules := maps.Clone(c.rules)
	if rules == nil {
		rules = map[StyleID]StyleRule{}
	}
	rules[id] = rule
	return StyleConfig{palette: c.palette, rules: rules}
}

// IDs lists the configured styles in sorted order.
func (c StyleConfig) IDs() []StyleID {
	return slices.Sorted(maps.Keys(c.rules))
}

type paletteColors struct {
	text, secondary, link, codeText, codeBackground, strike string
}

var palettes = map[Palette]paletteColors{
	PaletteLight: {
		text:           "#1F2328",
		secondary:      "#57606A",
		link:           "#0969DA",
		codeText:       "#CF222E",
		codeBackground: "#F6F8FA",
		strike:         "#8C959F",
	},
	PaletteDark: {
		text:           "#E6EDF3",
		secondary:      "#8B949E",
		link:           "#58A6FF",
		codeText:       "#FF7B72",
		codeBackground: "#161B22",
		strike:         "#6E7681",
	},
}

var headingScales = [...]float64{2.0, 1.5, 1.25, 1.1, 1.0, 0.9}

// DefaultStyleConfig returns the built-in rules for palette. Unknown
// palettes fall back to light.
func DefaultStyleConfig(palette Palette) StyleConfig {
	colors, ok := palettes[palette]
	if !ok {
		palette = PaletteLight
		colors = palettes[PaletteLight]
	}

	rules := map[StyleID]StyleRule{
		StyleBold:          {Bold: true},
		StyleItalic:        {Italic: true},
		StyleCode:          {Foreground: colors.codeText, Background: colors.codeBackground, Monospace: true},
		StyleCodeBlock:     {Foreground: colors.text, Background: colors.codeBackground, Monospace: true},
		StyleLink:          {Foreground: colors.link, Underline: true},
		StyleStrikethrough: {Foreground: colors.strike, Strikethrough: true},
		StyleBlockquote:    {Foreground: colors.secondary, Italic: true},
	}
	for i, scale := range headingScales {
		rules[HeadingStyle(i+1)] = StyleRule{Foreground: colors.text, Scale: scale, Bold: true}
	}
	return StyleConfig{palette: palette, rules: rules}
}

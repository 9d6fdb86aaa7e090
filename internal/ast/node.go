// Package ast defines the syntax tree produced by the markdown parser. Every
// node records a half-open byte range into the document body and the CSS class
// names attached through the `{.class}` annotation extension.
package ast

import (
	"errors"
	"fmt"

	"github.com/yuin/goldmark/util"
)

// ErrHeadingLevel is returned when a heading is built outside levels 1-6.
var ErrHeadingLevel = errors.New("ast: heading level must be between 1 and 6")

// Kind identifies a node variant.
type Kind uint8

const (
	KindDocument Kind = iota
	KindHeading
	KindParagraph
	KindText
	KindStrong
	KindEmphasis
	KindCode
	KindCodeBlock
	KindLink
	KindImage
	KindBulletList
	KindOrderedList
	KindListItem
	KindBlockquote
	KindHorizontalRule
	KindLineBreak
	KindStrikethrough
	KindTable
	KindTableRow
	KindTableCell
	KindTaskListItem
)

var kindNames = [...]string{
	KindDocument:       "Document",
	KindHeading:        "Heading",
	KindParagraph:      "Paragraph",
	KindText:           "Text",
	KindStrong:         "Strong",
	KindEmphasis:       "Emphasis",
	KindCode:           "Code",
	KindCodeBlock:      "CodeBlock",
	KindLink:           "Link",
	KindImage:          "Image",
	KindBulletList:     "BulletList",
	KindOrderedList:    "OrderedList",
	KindListItem:       "ListItem",
	KindBlockquote:     "Blockquote",
	KindHorizontalRule: "HorizontalRule",
	KindLineBreak:      "LineBreak",
	KindStrikethrough:  "Strikethrough",
	KindTable:          "Table",
	KindTableRow:       "TableRow",
	KindTableCell:      "TableCell",
	KindTaskListItem:   "TaskListItem",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Node is implemented by every tree variant.
type Node interface {
	Kind() Kind
	// Range returns the half-open byte range of the node in the body text.
	Range() (start, end int)
	// Classes returns the annotation class names in source order.
	Classes() []string
	// Children returns the child nodes; leaves return nil.
	Children() []Node
}

// Base carries the fields shared by all variants.
type Base struct {
	Start      int
	End        int
	CSSClasses []string
}

// NewBase builds a Base, clamping end so it never precedes start.
func NewBase(start, end int, classes ...string) Base {
	if start < 0 {
		start = 0
	}
	if end < start {
		end = start
	}
	return Base{Start: start, End: end, CSSClasses: classes}
}

func (b *Base) Range() (int, int)   { return b.Start, b.End }
func (b *Base) Classes() []string   { return b.CSSClasses }
func (b *Base) Len() int            { return b.End - b.Start }
func (b *Base) Contains(i int) bool { return i >= b.Start && i < b.End }

// Container holds ordered child nodes.
type Container struct {
	Nodes []Node
}

func (c *Container) Children() []Node { return c.Nodes }

// Append adds children, skipping nil nodes.
func (c *Container) Append(nodes ...Node) {
	for _, n := range nodes {
		if n != nil {
			c.Nodes = append(c.Nodes, n)
		}
	}
}

type leaf struct{}

func (leaf) Children() []Node { return nil }

// Document is the tree root.
type Document struct {
	Base
	Container
}

func (*Document) Kind() Kind { return KindDocument }

// Heading is an ATX or setext heading.
type Heading struct {
	Base
	Container
	Level int
	// Text is the literal heading content with annotations removed.
	Text string
}

// NewHeading builds a heading, rejecting levels outside 1-6.
func NewHeading(level int, text string, base Base, children ...Node) (*Heading, error) {
	if level < 1 || level > 6 {
		return nil, fmt.Errorf("%w: got %d", ErrHeadingLevel, level)
	}
	h := &Heading{Base: base, Level: level, Text: text}
	h.Append(children...)
	return h, nil
}

func (*Heading) Kind() Kind { return KindHeading }

type Paragraph struct {
	Base
	Container
}

func (*Paragraph) Kind() Kind { return KindParagraph }

// Text is a run of literal characters. It also stands in for constructs the
// parser does not model, carrying their raw source.
type Text struct {
	Base
	leaf
	// Literal is the source text of the range, escapes included.
	Literal string
	// Raw marks source the parser did not model, such as inline HTML.
	Raw bool
}

func (*Text) Kind() Kind { return KindText }

// Value returns Literal with backslash escapes and character references
// resolved. Raw text is returned as is.
func (t *Text) Value() string {
	if t.Raw {
		return t.Literal
	}
	return string(Unescape([]byte(t.Literal)))
}

// Unescape resolves backslash escapes, numeric references and entity names.
func Unescape(src []byte) []byte {
	out := util.UnescapePunctuations(src)
	out = util.ResolveNumericReferences(out)
	return util.ResolveEntityNames(out)
}

type Strong struct {
	Base
	Container
}

func (*Strong) Kind() Kind { return KindStrong }

type Emphasis struct {
	Base
	Container
}

func (*Emphasis) Kind() Kind { return KindEmphasis }

type Strikethrough struct {
	Base
	Container
}

func (*Strikethrough) Kind() Kind { return KindStrikethrough }

// Code is an inline code span.
type Code struct {
	Base
	leaf
	Literal string
}

func (*Code) Kind() Kind { return KindCode }

// CodeBlock is a fenced or indented code block. Literal excludes fence lines.
type CodeBlock struct {
	Base
	leaf
	Fenced   bool
	Language string
	Literal  string
}

func (*CodeBlock) Kind() Kind { return KindCodeBlock }

// HasLanguage reports whether the fence declared a language.
func (c *CodeBlock) HasLanguage() bool { return c.Language != "" }

type Link struct {
	Base
	Container
	Destination string
	Title       string
}

func (*Link) Kind() Kind { return KindLink }

// Image keeps its alternative text flat; it has no children.
type Image struct {
	Base
	leaf
	Destination string
	Title       string
	AltText     string
}

func (*Image) Kind() Kind { return KindImage }

type BulletList struct {
	Base
	Container
	Marker byte
	Tight  bool
}

func (*BulletList) Kind() Kind { return KindBulletList }

type OrderedList struct {
	Base
	Container
	StartNumber int
	Tight       bool
}

func (*OrderedList) Kind() Kind { return KindOrderedList }

type ListItem struct {
	Base
	Container
}

func (*ListItem) Kind() Kind { return KindListItem }

// TaskListItem is a list item opened by a `[ ]` or `[x]` checkbox.
type TaskListItem struct {
	Base
	Container
	Checked bool
}

func (*TaskListItem) Kind() Kind { return KindTaskListItem }

type Blockquote struct {
	Base
	Container
}

func (*Blockquote) Kind() Kind { return KindBlockquote }

type HorizontalRule struct {
	Base
	leaf
}

func (*HorizontalRule) Kind() Kind { return KindHorizontalRule }

// LineBreak marks the end of a line inside a paragraph. Hard is set for
// explicit breaks (trailing backslash or two spaces).
type LineBreak struct {
	Base
	leaf
	Hard bool
}

func (*LineBreak) Kind() Kind { return KindLineBreak }

// Alignment is the column alignment declared by a table delimiter row.
type Alignment uint8

const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "LEFT"
	case AlignCenter:
		return "CENTER"
	case AlignRight:
		return "RIGHT"
	default:
		return "NONE"
	}
}

// Table keeps its header apart from body rows. Header is nil for tables
// without rows.
type Table struct {
	Base
	Header     *TableRow
	Rows       []*TableRow
	Alignments []Alignment
}

func (*Table) Kind() Kind { return KindTable }

// Children returns the header (when present) followed by the body rows.
func (t *Table) Children() []Node {
	out := make([]Node, 0, len(t.Rows)+1)
	if t.Header != nil {
		out = append(out, t.Header)
	}
	for _, row := range t.Rows {
		out = append(out, row)
	}
	return out
}

type TableRow struct {
	Base
	Cells []*TableCell
}

func (*TableRow) Kind() Kind { return KindTableRow }

func (r *TableRow) Children() []Node {
	out := make([]Node, len(r.Cells))
	for i, cell := range r.Cells {
		out[i] = cell
	}
	return out
}

type TableCell struct {
	Base
	Container
	Alignment Alignment
}

func (*TableCell) Kind() Kind { return KindTableCell }

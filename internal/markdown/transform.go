package markdown

import (
	"bytes"
	"strings"

	gast "github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"github.com/goliatone/go-mdstyle/internal/ast"
)

// transformer converts a goldmark tree into the package ast. Block ranges
// are derived from line segments, falling back to a cursor that tracks the
// end of the last placed block for nodes goldmark records without lines.
type transformer struct {
	src         source
	annotations bool
	cursor      int
	inlinePos   int
}

func newTransformer(src []byte, annotations bool) *transformer {
	return &transformer{src: source(src), annotations: annotations}
}

func (t *transformer) document(root gast.Node) *ast.Document {
	doc := &ast.Document{Base: ast.NewBase(0, len(t.src))}
	for child := root.FirstChild(); child != nil; child = child.NextSibling() {
		doc.Append(t.block(child))
	}
	return doc
}

// block dispatches one block node. Panics raised while inspecting an
// unexpected shape degrade the node to opaque text.
func (t *transformer) block(n gast.Node) (out ast.Node) {
	defer func() {
		if r := recover(); r != nil {
			out = t.opaque(n)
		}
	}()

	switch v := n.(type) {
	case *gast.Heading:
		out = t.heading(v)
	case *gast.Paragraph:
		out = t.paragraph(v)
	case *gast.TextBlock:
		out = t.paragraph(v)
	case *gast.ThematicBreak:
		start, end := t.placeLine()
		out = &ast.HorizontalRule{Base: ast.NewBase(start, end)}
	case *gast.FencedCodeBlock:
		out = t.fencedCode(v)
	case *gast.CodeBlock:
		out = t.indentedCode(v)
	case *gast.Blockquote:
		out = t.blockquote(v)
	case *gast.List:
		out = t.list(v)
	case *gast.ListItem:
		out = t.listItem(v)
	case *gast.HTMLBlock:
		out = t.opaque(v)
	case *east.Table:
		out = t.table(v)
	default:
		out = t.passThrough(n)
	}

	if out != nil {
		_, end := out.Range()
		if end > t.cursor {
			t.cursor = end
		}
	}
	return out
}

func (t *transformer) heading(n *gast.Heading) ast.Node {
	contentStart, contentEnd, ok := t.src.linesRange(blockLines(n))
	var start, end int
	if ok {
		start = t.src.firstNonSpace(t.src.lineStart(contentStart), contentEnd)
		end = t.src.lineEnd(contentEnd)
		if start < len(t.src) && t.src[start] != '#' {
			if next := t.src.nextLineStart(contentEnd); next >= 0 && t.src.isUnderline(next) {
				end = t.src.lineEnd(next)
			}
		}
	} else {
		start, end = t.placeLine()
		contentStart, contentEnd = end, end
	}
	end = t.src.trimRightSpace(start, end)

	raw := string(t.src[contentStart:contentEnd])
	children := t.inlines(n, contentStart)

	var classes []string
	if t.annotations {
		if found, ok := findAnnotation(raw); ok {
			classes = found.classes
			raw = raw[:found.index]
			children = clipInlines(children, contentStart+found.index)
		}
	}

	heading, err := ast.NewHeading(n.Level, strings.TrimSpace(raw), ast.NewBase(start, end, classes...), children...)
	if err != nil {
		p := &ast.Paragraph{Base: ast.NewBase(start, end, classes...)}
		p.Append(children...)
		return p
	}
	return heading
}

func (t *transformer) paragraph(n gast.Node) ast.Node {
	lines := blockLines(n)
	start, end, ok := t.src.linesRange(lines)
	if !ok {
		start, end = t.placeLine()
	}

	children := t.inlines(n, start)

	var classes []string
	if t.annotations && ok {
		last := lines.At(lines.Len() - 1)
		lastEnd := t.src.trimRightNewlines(last.Stop)
		if found, ok := findAnnotation(string(t.src[last.Start:lastEnd])); ok {
			classes = found.classes
			children = clipInlines(children, last.Start+found.index)
		}
	}

	p := &ast.Paragraph{Base: ast.NewBase(start, end, classes...)}
	p.Append(children...)
	return p
}

func (t *transformer) fencedCode(n *gast.FencedCodeBlock) ast.Node {
	lines := blockLines(n)

	openLine := -1
	switch {
	case n.Info != nil:
		openLine = t.src.lineStart(n.Info.Segment.Start)
	case lines.Len() > 0:
		openLine = t.src.prevLineStart(lines.At(0).Start)
	}
	if openLine < 0 {
		start, _ := t.placeLine()
		openLine = t.src.lineStart(start)
	}
	start := t.src.firstNonSpace(openLine, t.src.lineEnd(openLine))
	fence := byte('`')
	if start < len(t.src) && t.src[start] == '~' {
		fence = '~'
	}

	end := t.src.lineEnd(openLine)
	lastLine := openLine
	if lines.Len() > 0 {
		lastLine = t.src.lineStart(lines.At(lines.Len() - 1).Start)
		end = t.src.lineEnd(lastLine)
	}
	if next := t.src.nextLineStart(lastLine); next >= 0 && t.src.isFenceLine(next, fence) {
		_, end = t.src.line(next)
	}

	var info string
	if n.Info != nil {
		info = string(n.Info.Segment.Value(t.src))
	}
	var classes []string
	if t.annotations {
		info, classes = stripAnnotation(info)
	}
	language := ""
	if fields := strings.Fields(info); len(fields) > 0 {
		language = fields[0]
	}

	return &ast.CodeBlock{
		Base:     ast.NewBase(start, end, classes...),
		Fenced:   true,
		Language: language,
		Literal:  codeLiteral(t.src.segmentsValue(lines)),
	}
}

func (t *transformer) indentedCode(n *gast.CodeBlock) ast.Node {
	lines := blockLines(n)
	start, end, ok := t.src.linesRange(lines)
	if !ok {
		start, end = t.placeLine()
	}

	literal := codeLiteral(t.src.segmentsValue(lines))
	var classes []string
	if t.annotations {
		lastBreak := strings.LastIndexByte(literal, '\n')
		lastLine := literal[lastBreak+1:]
		if stripped, found := stripAnnotation(lastLine); found != nil {
			classes = found
			literal = literal[:lastBreak+1] + stripped
		}
	}

	return &ast.CodeBlock{
		Base:    ast.NewBase(start, end, classes...),
		Literal: literal,
	}
}

func codeLiteral(raw []byte) string {
	return strings.TrimSuffix(strings.TrimSuffix(string(raw), "\n"), "\r")
}

func (t *transformer) blockquote(n *gast.Blockquote) ast.Node {
	q := &ast.Blockquote{}
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		q.Append(t.block(child))
	}

	start, end, ok := spanOf(q.Nodes)
	if ok {
		start = t.markerStart(start, func(b byte) bool { return b == '>' })
	} else {
		start, end = t.placeLine()
	}
	q.Base = ast.NewBase(start, end)

	// A trailing annotation on the last quoted paragraph belongs to the quote.
	if t.annotations && len(q.Nodes) > 0 {
		if p, ok := q.Nodes[len(q.Nodes)-1].(*ast.Paragraph); ok && len(p.CSSClasses) > 0 {
			q.CSSClasses = p.CSSClasses
			p.CSSClasses = nil
		}
	}
	return q
}

func (t *transformer) list(n *gast.List) ast.Node {
	var items []ast.Node
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if item := t.block(child); item != nil {
			items = append(items, item)
		}
	}

	start, end, ok := spanOf(items)
	if !ok {
		start, end = t.placeLine()
	}

	if n.IsOrdered() {
		l := &ast.OrderedList{Base: ast.NewBase(start, end), StartNumber: n.Start, Tight: n.IsTight}
		l.Append(items...)
		return l
	}
	l := &ast.BulletList{Base: ast.NewBase(start, end), Marker: n.Marker, Tight: n.IsTight}
	l.Append(items...)
	return l
}

func (t *transformer) listItem(n *gast.ListItem) ast.Node {
	checked, isTask := taskState(n)

	var children []ast.Node
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if node := t.block(child); node != nil {
			children = append(children, node)
		}
	}

	start, end, ok := spanOf(children)
	if ok {
		start = t.markerStart(start, isListMarker)
	} else {
		start, end = t.placeLine()
	}

	if isTask {
		item := &ast.TaskListItem{Base: ast.NewBase(start, end), Checked: checked}
		item.Append(children...)
		return item
	}
	item := &ast.ListItem{Base: ast.NewBase(start, end)}
	item.Append(children...)
	return item
}

// taskState reports whether the item opens with a task checkbox.
func taskState(item *gast.ListItem) (checked, ok bool) {
	first := item.FirstChild()
	if first == nil {
		return false, false
	}
	box, ok := first.FirstChild().(*east.TaskCheckBox)
	if !ok {
		return false, false
	}
	return box.IsChecked, true
}

func isListMarker(b byte) bool {
	return b == '-' || b == '*' || b == '+' || b == '.' || b == ')' || (b >= '0' && b <= '9')
}

// markerStart walks left from pos across blanks and marker bytes on the same
// line, returning the offset of the leftmost marker byte found.
func (t *transformer) markerStart(pos int, marker func(byte) bool) int {
	lineStart := t.src.lineStart(pos)
	start := pos
	i := pos - 1
	for i >= lineStart {
		for i >= lineStart && (t.src[i] == ' ' || t.src[i] == '\t') {
			i--
		}
		if i < lineStart || !marker(t.src[i]) {
			break
		}
		for i >= lineStart && marker(t.src[i]) {
			i--
		}
		start = i + 1
	}
	return start
}

func (t *transformer) table(n *east.Table) ast.Node {
	table := &ast.Table{}
	for _, align := range n.Alignments {
		table.Alignments = append(table.Alignments, alignment(align))
	}

	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		row := t.tableRow(child)
		if row == nil {
			continue
		}
		if table.Header == nil {
			table.Header = row
			continue
		}
		table.Rows = append(table.Rows, row)
	}

	start, end, ok := spanOf(table.Children())
	if !ok {
		start, end = t.placeLine()
	}
	table.Base = ast.NewBase(start, end)
	return table
}

func (t *transformer) tableRow(n gast.Node) *ast.TableRow {
	row := &ast.TableRow{}
	var placed []ast.Node
	empty := map[*ast.TableCell]bool{}
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		cell, ok := child.(*east.TableCell)
		if !ok {
			continue
		}
		c := &ast.TableCell{Alignment: alignment(cell.Alignment)}
		c.Append(t.inlines(cell, t.inlinePos)...)
		if start, end, ok := spanOf(c.Nodes); ok {
			c.Base = ast.NewBase(start, end)
			placed = append(placed, c)
		} else {
			empty[c] = true
		}
		row.Cells = append(row.Cells, c)
	}

	start, end, ok := spanOf(placed)
	if ok {
		start, end = t.src.line(start)
		if end > t.cursor {
			t.cursor = end
		}
	} else {
		start, end = t.placeLine()
	}
	row.Base = ast.NewBase(start, end)

	// Empty cells sit zero-width after the previous cell.
	prev := start
	for _, c := range row.Cells {
		if empty[c] {
			c.Base = ast.NewBase(prev, prev)
			continue
		}
		prev = c.End
	}
	return row
}

func alignment(a east.Alignment) ast.Alignment {
	switch a {
	case east.AlignLeft:
		return ast.AlignLeft
	case east.AlignCenter:
		return ast.AlignCenter
	case east.AlignRight:
		return ast.AlignRight
	default:
		return ast.AlignNone
	}
}

// passThrough keeps unknown block content reachable: children are wrapped in
// a paragraph and childless nodes become opaque text.
func (t *transformer) passThrough(n gast.Node) ast.Node {
	if !n.HasChildren() {
		return t.opaque(n)
	}
	p := &ast.Paragraph{}
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if child.Type() == gast.TypeInline {
			p.Append(t.inline(child)...)
			continue
		}
		p.Append(t.block(child))
	}
	start, end, ok := spanOf(p.Nodes)
	if !ok {
		start, end = t.placeLine()
	}
	p.Base = ast.NewBase(start, end)
	return p
}

// opaque renders a node as literal source text.
func (t *transformer) opaque(n gast.Node) ast.Node {
	var start, end int
	var ok bool
	switch v := n.(type) {
	case *gast.RawHTML:
		start, end, ok = t.src.linesRange(v.Segments)
	case *gast.Text:
		start, end, ok = v.Segment.Start, v.Segment.Stop, true
	default:
		start, end, ok = t.src.linesRange(blockLines(n))
		if ok {
			if html, isHTML := n.(*gast.HTMLBlock); isHTML && html.HasClosure() {
				end = t.src.trimRightNewlines(html.ClosureLine.Stop)
			}
		}
	}
	if !ok {
		if n.Type() == gast.TypeInline {
			start, end = t.inlinePos, t.inlinePos
		} else {
			start, end = t.placeLine()
		}
	}
	start, end = t.src.clamp(start), t.src.clamp(end)
	if end < start {
		end = start
	}
	return &ast.Text{Base: ast.NewBase(start, end), Literal: string(t.src[start:end]), Raw: true}
}

// placeLine claims the next non-blank line after the cursor for nodes that
// carry no line segments.
func (t *transformer) placeLine() (int, int) {
	pos := t.src.clamp(t.cursor)
	if pos > 0 && pos != t.src.lineStart(pos) {
		// The cursor's line belongs to the previous block.
		if pos = t.src.nextLineStart(pos); pos < 0 {
			return len(t.src), len(t.src)
		}
	}
	start, end, ok := t.src.nextNonBlankLine(pos)
	if !ok {
		return len(t.src), len(t.src)
	}
	if start < t.cursor {
		start = t.cursor
	}
	t.cursor = end
	return start, end
}

// spanOf returns the union of the ranges of nodes.
func spanOf(nodes []ast.Node) (int, int, bool) {
	start, end, ok := 0, 0, false
	for _, n := range nodes {
		if n == nil {
			continue
		}
		s, e := n.Range()
		if !ok {
			start, end, ok = s, e, true
			continue
		}
		start = min(start, s)
		end = max(end, e)
	}
	return start, end, ok
}

func plainText(n gast.Node, src []byte) string {
	var b bytes.Buffer
	_ = gast.Walk(n, func(node gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			return gast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *gast.Text:
			b.Write(ast.Unescape(v.Segment.Value(src)))
			if v.SoftLineBreak() || v.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *gast.String:
			b.Write(v.Value)
		}
		return gast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

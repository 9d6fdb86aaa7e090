package markdown

import (
	"bytes"

	gast "github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"github.com/goliatone/go-mdstyle/internal/ast"
)

// inlines converts the inline children of parent. from seeds the inline
// cursor used to place nodes that carry no segment of their own.
func (t *transformer) inlines(parent gast.Node, from int) []ast.Node {
	t.inlinePos = t.src.clamp(from)
	var out []ast.Node
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		out = append(out, t.inline(child)...)
	}
	return mergeText(out)
}

func (t *transformer) inline(n gast.Node) (out []ast.Node) {
	defer func() {
		if r := recover(); r != nil {
			out = []ast.Node{t.opaque(n)}
		}
		for _, node := range out {
			if _, end := node.Range(); end > t.inlinePos {
				t.inlinePos = end
			}
		}
	}()

	switch v := n.(type) {
	case *gast.Text:
		return t.text(v)
	case *gast.String:
		return nil
	case *gast.Emphasis:
		children, start, end := t.wrapped(v)
		if v.Level >= 2 {
			s := &ast.Strong{Base: ast.NewBase(start, end)}
			s.Append(children...)
			return []ast.Node{s}
		}
		e := &ast.Emphasis{Base: ast.NewBase(start, end)}
		e.Append(children...)
		return []ast.Node{e}
	case *east.Strikethrough:
		children, start, end := t.wrapped(v)
		s := &ast.Strikethrough{Base: ast.NewBase(start, end)}
		s.Append(children...)
		return []ast.Node{s}
	case *gast.CodeSpan:
		return []ast.Node{t.codeSpan(v)}
	case *gast.Link:
		return []ast.Node{t.link(v)}
	case *gast.Image:
		return []ast.Node{t.image(v)}
	case *gast.AutoLink:
		return []ast.Node{t.autoLink(v)}
	case *gast.RawHTML:
		return []ast.Node{t.opaque(v)}
	case *east.TaskCheckBox:
		return nil
	default:
		if !n.HasChildren() {
			return []ast.Node{t.opaque(n)}
		}
		var children []ast.Node
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			children = append(children, t.inline(child)...)
		}
		return children
	}
}

func (t *transformer) text(n *gast.Text) []ast.Node {
	var out []ast.Node
	seg := n.Segment
	if seg.Len() > 0 {
		out = append(out, &ast.Text{Base: ast.NewBase(seg.Start, seg.Stop), Literal: string(seg.Value(t.src))})
	}
	if n.SoftLineBreak() || n.HardLineBreak() {
		if nl := bytes.IndexByte(t.src[t.src.clamp(seg.Stop):], '\n'); nl >= 0 {
			pos := seg.Stop + nl
			start := pos
			if start > 0 && t.src[start-1] == '\r' {
				start--
			}
			out = append(out, &ast.LineBreak{Base: ast.NewBase(start, pos+1), Hard: n.HardLineBreak()})
		}
	}
	return out
}

// wrapped converts the children of a delimited inline. The node spans its
// content only; delimiters are left outside the range.
func (t *transformer) wrapped(n gast.Node) ([]ast.Node, int, int) {
	pos := t.inlinePos
	var children []ast.Node
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		children = append(children, t.inline(child)...)
	}
	children = mergeText(children)
	start, end, ok := spanOf(children)
	if !ok {
		start, end = pos, pos
	}
	return children, start, end
}

func (t *transformer) codeSpan(n *gast.CodeSpan) ast.Node {
	pos := t.inlinePos
	var literal bytes.Buffer
	start, end, ok := 0, 0, false
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *gast.Text:
			literal.Write(c.Segment.Value(t.src))
			if !ok {
				start, end, ok = c.Segment.Start, c.Segment.Stop, true
				continue
			}
			start = min(start, c.Segment.Start)
			end = max(end, c.Segment.Stop)
		case *gast.String:
			literal.Write(c.Value)
		}
	}
	if !ok {
		start, end = pos, pos
	}
	return &ast.Code{Base: ast.NewBase(start, end), Literal: literal.String()}
}

func (t *transformer) link(n *gast.Link) ast.Node {
	pos := t.inlinePos
	children, childStart, childEnd := t.wrapped(n)
	start, end := t.bracketed(pos, childStart, childEnd, len(children) > 0)

	l := &ast.Link{
		Base:        ast.NewBase(start, end),
		Destination: string(n.Destination),
		Title:       string(n.Title),
	}
	l.Append(children...)
	return l
}

func (t *transformer) image(n *gast.Image) ast.Node {
	pos := t.inlinePos
	childStart, childEnd, ok := t.segmentSpan(n)
	if !ok {
		childStart, childEnd = pos, pos
	}
	start, end := t.bracketed(pos, childStart, childEnd, ok)
	if start > pos && t.src[start-1] == '!' {
		start--
	}
	return &ast.Image{
		Base:        ast.NewBase(start, end),
		Destination: string(n.Destination),
		Title:       string(n.Title),
		AltText:     plainText(n, t.src),
	}
}

// segmentSpan returns the union of the text segments below n without
// converting them.
func (t *transformer) segmentSpan(n gast.Node) (int, int, bool) {
	start, end, ok := 0, 0, false
	_ = gast.Walk(n, func(node gast.Node, entering bool) (gast.WalkStatus, error) {
		text, isText := node.(*gast.Text)
		if !entering || !isText {
			return gast.WalkContinue, nil
		}
		if !ok {
			start, end, ok = text.Segment.Start, text.Segment.Stop, true
			return gast.WalkContinue, nil
		}
		start = min(start, text.Segment.Start)
		end = max(end, text.Segment.Stop)
		return gast.WalkContinue, nil
	})
	return start, end, ok
}

// bracketed widens a link label range to cover `[label]` and the trailing
// `(destination)` or `[reference]` part.
func (t *transformer) bracketed(pos, childStart, childEnd int, hasChildren bool) (int, int) {
	var open int
	if hasChildren {
		open = bytes.LastIndexByte(t.src[pos:t.src.clamp(childStart)], '[')
		if open >= 0 {
			open += pos
		}
	} else {
		open = bytes.IndexByte(t.src[pos:], '[')
		if open >= 0 {
			open += pos
			childEnd = open + 1
		}
	}
	if open < 0 {
		return childStart, childEnd
	}

	end := childEnd
	closing := bytes.IndexByte(t.src[t.src.clamp(childEnd):], ']')
	if closing < 0 {
		return open, end
	}
	end = childEnd + closing + 1
	if end < len(t.src) {
		switch t.src[end] {
		case '(':
			if paren := t.src.matchingParen(end); paren > 0 {
				end = paren
			}
		case '[':
			if ref := bytes.IndexByte(t.src[end:], ']'); ref >= 0 {
				end += ref + 1
			}
		}
	}
	return open, end
}

func (t *transformer) autoLink(n *gast.AutoLink) ast.Node {
	label := n.Label(t.src)
	pos := t.inlinePos
	start, end := pos, pos
	if idx := bytes.Index(t.src[pos:], label); idx >= 0 && len(label) > 0 {
		start = pos + idx
		end = start + len(label)
	}
	text := &ast.Text{Base: ast.NewBase(start, end), Literal: string(label)}

	outerStart, outerEnd := start, end
	if start > 0 && end < len(t.src) && t.src[start-1] == '<' && t.src[end] == '>' {
		outerStart, outerEnd = start-1, end+1
	}

	l := &ast.Link{Base: ast.NewBase(outerStart, outerEnd), Destination: string(n.URL(t.src))}
	l.Append(text)
	return l
}

// mergeText joins adjacent text nodes that are contiguous in the source.
func mergeText(nodes []ast.Node) []ast.Node {
	if len(nodes) < 2 {
		return nodes
	}
	out := nodes[:1]
	for _, n := range nodes[1:] {
		next, ok := n.(*ast.Text)
		prev, prevOK := out[len(out)-1].(*ast.Text)
		if ok && prevOK && prev.End == next.Start && prev.Raw == next.Raw && len(prev.CSSClasses) == 0 && len(next.CSSClasses) == 0 {
			prev.Literal += next.Literal
			prev.End = next.End
			continue
		}
		out = append(out, n)
	}
	return out
}

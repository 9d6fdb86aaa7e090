package markdown

import (
	"bytes"

	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// source wraps the body bytes with the offset helpers used by the transform.
type source []byte

func (s source) clamp(pos int) int {
	if pos < 0 {
		return 0
	}
	if pos > len(s) {
		return len(s)
	}
	return pos
}

// lineStart returns the offset of the first byte of the line holding pos.
func (s source) lineStart(pos int) int {
	pos = s.clamp(pos)
	if idx := bytes.LastIndexByte(s[:pos], '\n'); idx >= 0 {
		return idx + 1
	}
	return 0
}

// lineEnd returns the offset of the newline ending the line holding pos, or
// the end of the source.
func (s source) lineEnd(pos int) int {
	pos = s.clamp(pos)
	if idx := bytes.IndexByte(s[pos:], '\n'); idx >= 0 {
		end := pos + idx
		if end > pos && s[end-1] == '\r' {
			end--
		}
		return end
	}
	return len(s)
}

// nextLineStart returns the offset just after the newline ending the line
// holding pos, or -1 on the last line.
func (s source) nextLineStart(pos int) int {
	pos = s.clamp(pos)
	if idx := bytes.IndexByte(s[pos:], '\n'); idx >= 0 {
		return pos + idx + 1
	}
	return -1
}

// prevLineStart returns the start of the line before the one holding pos.
func (s source) prevLineStart(pos int) int {
	start := s.lineStart(pos)
	if start == 0 {
		return -1
	}
	return s.lineStart(start - 1)
}

func (s source) firstNonSpace(from, to int) int {
	from, to = s.clamp(from), s.clamp(to)
	for i := from; i < to; i++ {
		if s[i] != ' ' && s[i] != '\t' {
			return i
		}
	}
	return to
}

func (s source) trimRightNewlines(end int) int {
	end = s.clamp(end)
	for end > 0 && (s[end-1] == '\n' || s[end-1] == '\r') {
		end--
	}
	return end
}

func (s source) trimRightSpace(start, end int) int {
	for end > start && (s[end-1] == ' ' || s[end-1] == '\t') {
		end--
	}
	return end
}

// line returns the trimmed content range of the line holding pos.
func (s source) line(pos int) (int, int) {
	start := s.lineStart(pos)
	end := s.lineEnd(pos)
	return s.firstNonSpace(start, end), s.trimRightSpace(start, end)
}

// nextNonBlankLine returns the content range of the first non-blank line at
// or after pos.
func (s source) nextNonBlankLine(pos int) (int, int, bool) {
	for pos >= 0 && pos <= len(s) {
		start, end := s.line(pos)
		if end > start {
			return start, end, true
		}
		pos = s.nextLineStart(pos)
	}
	return 0, 0, false
}

// isFenceLine reports whether the trimmed line at pos consists only of a
// fence character repeated at least three times.
func (s source) isFenceLine(pos int, fence byte) bool {
	start, end := s.line(pos)
	if end-start < 3 {
		return false
	}
	for i := start; i < end; i++ {
		if s[i] != fence {
			return false
		}
	}
	return true
}

// isUnderline reports whether the trimmed line at pos is a setext underline.
func (s source) isUnderline(pos int) bool {
	start, end := s.line(pos)
	if end <= start {
		return false
	}
	marker := s[start]
	if marker != '=' && marker != '-' {
		return false
	}
	for i := start; i < end; i++ {
		if s[i] != marker {
			return false
		}
	}
	return true
}

// matchingParen returns the offset after the ')' closing the '(' at pos.
func (s source) matchingParen(pos int) int {
	depth := 0
	for i := pos; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1
			}
		case '\n':
			if i+1 < len(s) && s[i+1] == '\n' {
				return -1
			}
		}
	}
	return -1
}

// linesRange returns the byte range covered by a block's line segments.
func (s source) linesRange(lines *text.Segments) (int, int, bool) {
	if lines == nil || lines.Len() == 0 {
		return 0, 0, false
	}
	first := lines.At(0)
	last := lines.At(lines.Len() - 1)
	return first.Start, s.trimRightNewlines(last.Stop), true
}

func (s source) segmentsValue(lines *text.Segments) []byte {
	if lines == nil {
		return nil
	}
	var buf bytes.Buffer
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(s))
	}
	return buf.Bytes()
}

// blockLines returns the lines of block nodes; inline nodes have none.
func blockLines(n gast.Node) *text.Segments {
	if n == nil || n.Type() == gast.TypeInline {
		return nil
	}
	return n.Lines()
}

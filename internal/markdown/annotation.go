package markdown

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-mdstyle/internal/ast"
)

// annotationPattern matches a trailing `{.name .name}` class annotation.
var annotationPattern = regexp.MustCompile(`[ \t]*\{[ \t]*(\.[a-zA-Z0-9_-]+(?:[ \t]+\.[a-zA-Z0-9_-]+)*)[ \t]*\}[ \t]*$`)

// annotation is a class list found at the end of a line.
type annotation struct {
	// index is the offset of the annotation (leading blanks included) within
	// the scanned string.
	index   int
	classes []string
}

// findAnnotation looks for a trailing annotation in line.
func findAnnotation(line string) (annotation, bool) {
	loc := annotationPattern.FindStringSubmatchIndex(line)
	if loc == nil {
		return annotation{}, false
	}
	names := strings.Fields(line[loc[2]:loc[3]])
	classes := make([]string, 0, len(names))
	for _, name := range names {
		classes = append(classes, strings.TrimPrefix(name, "."))
	}
	return annotation{index: loc[0], classes: classes}, true
}

// stripAnnotation removes a trailing annotation from s, returning the
// remaining text and the class names.
func stripAnnotation(s string) (string, []string) {
	found, ok := findAnnotation(s)
	if !ok {
		return s, nil
	}
	return s[:found.index], found.classes
}

// clipInlines drops inline content at or after cut and trims trailing blanks
// from the text that remains. Ranges keep their source positions.
func clipInlines(nodes []ast.Node, cut int) []ast.Node {
	out := make([]ast.Node, 0, len(nodes))
	for _, n := range nodes {
		start, end := n.Range()
		if start >= cut {
			continue
		}
		if end > cut {
			clipNode(n, cut)
		}
		out = append(out, n)
	}
	trimTrailingBlank(out)
	return out
}

func clipNode(n ast.Node, cut int) {
	switch v := n.(type) {
	case *ast.Text:
		v.Literal = v.Literal[:min(len(v.Literal), cut-v.Start)]
		v.End = cut
	case *ast.Strong:
		v.Nodes = clipInlines(v.Nodes, cut)
		v.End = cut
	case *ast.Emphasis:
		v.Nodes = clipInlines(v.Nodes, cut)
		v.End = cut
	case *ast.Strikethrough:
		v.Nodes = clipInlines(v.Nodes, cut)
		v.End = cut
	case *ast.Link:
		v.Nodes = clipInlines(v.Nodes, cut)
		v.End = cut
	case *ast.Paragraph:
		v.Nodes = clipInlines(v.Nodes, cut)
		v.End = cut
	}
}

func trimTrailingBlank(nodes []ast.Node) {
	if len(nodes) == 0 {
		return
	}
	text, ok := nodes[len(nodes)-1].(*ast.Text)
	if !ok {
		return
	}
	trimmed := strings.TrimRight(text.Literal, " \t")
	text.End -= len(text.Literal) - len(trimmed)
	text.Literal = trimmed
	if text.End < text.Start {
		text.End = text.Start
	}
}

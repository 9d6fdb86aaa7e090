package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Dump writes an indented outline of the tree, one node per line.
func Dump(w io.Writer, root Node) error {
	var err error
	depth := 0
	Walk(root, func(n Node, entering bool) WalkStatus {
		if !entering {
			depth--
			return WalkContinue
		}
		if err == nil {
			_, err = fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), describe(n))
		}
		depth++
		return WalkContinue
	})
	return err
}

func describe(n Node) string {
	start, end := n.Range()
	var b strings.Builder
	b.WriteString(n.Kind().String())
	fmt.Fprintf(&b, " [%d,%d)", start, end)

	switch v := n.(type) {
	case *Heading:
		fmt.Fprintf(&b, " level=%d text=%s", v.Level, strconv.Quote(v.Text))
	case *Text:
		fmt.Fprintf(&b, " %s", strconv.Quote(v.Literal))
	case *Code:
		fmt.Fprintf(&b, " %s", strconv.Quote(v.Literal))
	case *CodeBlock:
		if v.HasLanguage() {
			fmt.Fprintf(&b, " lang=%s", v.Language)
		}
	case *Link:
		fmt.Fprintf(&b, " dest=%s", strconv.Quote(v.Destination))
	case *Image:
		fmt.Fprintf(&b, " dest=%s alt=%s", strconv.Quote(v.Destination), strconv.Quote(v.AltText))
	case *TaskListItem:
		fmt.Fprintf(&b, " checked=%t", v.Checked)
	case *TableCell:
		fmt.Fprintf(&b, " align=%s", v.Alignment)
	}

	if classes := n.Classes(); len(classes) > 0 {
		fmt.Fprintf(&b, " classes=%s", strings.Join(classes, ","))
	}
	return b.String()
}

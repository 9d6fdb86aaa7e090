package ast

import "strings"

// WalkStatus steers Walk.
type WalkStatus uint8

const (
	WalkContinue WalkStatus = iota
	WalkSkipChildren
	WalkStop
)

// Visitor is called once when entering a node and once when leaving it.
// The status returned on entry controls traversal; the status returned on
// exit is only checked for WalkStop.
type Visitor func(n Node, entering bool) WalkStatus

// Walk traverses the tree depth first in source order.
func Walk(root Node, visit Visitor) {
	if root == nil || visit == nil {
		return
	}
	walk(root, visit)
}

func walk(n Node, visit Visitor) WalkStatus {
	status := visit(n, true)
	if status == WalkStop {
		return WalkStop
	}
	if status != WalkSkipChildren {
		for _, child := range n.Children() {
			if walk(child, visit) == WalkStop {
				return WalkStop
			}
		}
	}
	return visit(n, false)
}

// FindAll returns every node matching the predicate in pre-order.
func FindAll(root Node, match func(Node) bool) []Node {
	var out []Node
	Walk(root, func(n Node, entering bool) WalkStatus {
		if entering && match(n) {
			out = append(out, n)
		}
		return WalkContinue
	})
	return out
}

// FindKind returns every node of the given kind.
func FindKind(root Node, kind Kind) []Node {
	return FindAll(root, func(n Node) bool { return n.Kind() == kind })
}

// First returns the first node matching the predicate, or nil.
func First(root Node, match func(Node) bool) Node {
	var found Node
	Walk(root, func(n Node, entering bool) WalkStatus {
		if entering && match(n) {
			found = n
			return WalkStop
		}
		return WalkContinue
	})
	return found
}

// Count returns the number of nodes in the tree.
func Count(root Node) int {
	total := 0
	Walk(root, func(_ Node, entering bool) WalkStatus {
		if entering {
			total++
		}
		return WalkContinue
	})
	return total
}

// PlainText concatenates the literal text under n.
func PlainText(n Node) string {
	var b strings.Builder
	Walk(n, func(node Node, entering bool) WalkStatus {
		if !entering {
			return WalkContinue
		}
		switch v := node.(type) {
		case *Text:
			b.WriteString(v.Value())
		case *Code:
			b.WriteString(v.Literal)
		case *CodeBlock:
			b.WriteString(v.Literal)
		case *Image:
			b.WriteString(v.AltText)
		case *LineBreak:
			b.WriteByte('\n')
		}
		return WalkContinue
	})
	return b.String()
}

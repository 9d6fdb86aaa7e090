package frontmatter

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse decodes a metadata block into an ordered mapping. Any decode problem
// yields an empty mapping; callers that need diagnostics use ParseWithResult.
func Parse(block string) *Map {
	m, err := ParseWithResult(block)
	if err != nil {
		return NewMap()
	}
	return m
}

// ParseWithResult decodes a metadata block and reports failures. Errors are
// go-errors values in the validation category; an empty block decodes to an
// empty mapping.
func ParseWithResult(block string) (*Map, error) {
	if strings.TrimSpace(block) == "" {
		return NewMap(), nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(block), &doc); err != nil {
		return nil, wrapDecodeError(err)
	}

	root := &doc
	if root.Kind == 0 {
		return NewMap(), nil
	}
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return NewMap(), nil
		}
		root = root.Content[0]
	}
	root = resolveAlias(root)
	if root.Kind != yaml.MappingNode {
		return nil, wrapNotMapping()
	}

	value := convertNode(root, 0)
	m, _ := value.Map()
	return m, nil
}

// maxDepth bounds alias expansion so self-referencing anchors terminate.
const maxDepth = 64

func convertNode(node *yaml.Node, depth int) Value {
	node = resolveAlias(node)
	if node == nil || depth > maxDepth {
		return String("")
	}

	switch node.Kind {
	case yaml.MappingNode:
		m := NewMap()
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := resolveAlias(node.Content[i])
			if key.Tag == "!!merge" {
				mergeInto(m, node.Content[i+1], depth+1)
				continue
			}
			m.set(key.Value, convertNode(node.Content[i+1], depth+1))
		}
		return MapValue(m)
	case yaml.SequenceNode:
		items := make([]Value, 0, len(node.Content))
		for _, child := range node.Content {
			items = append(items, convertNode(child, depth+1))
		}
		return Value{kind: KindList, list: items}
	case yaml.ScalarNode:
		if node.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle|yaml.LiteralStyle|yaml.FoldedStyle) != 0 {
			return String(node.Value)
		}
		return coerceScalar(node.Value)
	default:
		return String(node.Value)
	}
}

func mergeInto(m *Map, node *yaml.Node, depth int) {
	node = resolveAlias(node)
	if node == nil {
		return
	}
	switch node.Kind {
	case yaml.MappingNode:
		merged, _ := convertNode(node, depth).Map()
		merged.Range(func(key string, value Value) bool {
			if !m.Has(key) {
				m.set(key, value)
			}
			return true
		})
	case yaml.SequenceNode:
		for _, child := range node.Content {
			mergeInto(m, child, depth+1)
		}
	}
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for i := 0; node != nil && node.Kind == yaml.AliasNode && i < maxDepth; i++ {
		node = node.Alias
	}
	return node
}

// coerceScalar applies the scalar policy: boolean literal, then integer, then
// floating point, else the raw string.
func coerceScalar(raw string) Value {
	switch raw {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return Int(i)
	}
	if looksNumeric(raw) {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return Float(f)
		}
	}
	return String(raw)
}

// looksNumeric keeps words such as "inf" or "nan" as strings; ParseFloat
// would otherwise accept them.
func looksNumeric(raw string) bool {
	if raw == "" {
		return false
	}
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
		case r == '.', r == '-', r == '+', r == 'e', r == 'E':
		default:
			return false
		}
	}
	return true
}

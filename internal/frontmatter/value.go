package frontmatter

import (
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindString Kind = iota
	KindBool
	KindInt
	KindFloat
	KindList
	KindMap
)

// String renders the kind label used in diagnostics.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is a node of the decoded metadata tree. The zero value is an empty
// string. Values are immutable once returned from a decode call.
type Value struct {
	kind  Kind
	str   string
	flag  bool
	integ int64
	float float64
	list  []Value
	dict  *Map
}

// String builds a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Bool builds a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

// Int builds an integer value.
func Int(i int64) Value { return Value{kind: KindInt, integ: i} }

// Float builds a floating point value.
func Float(f float64) Value { return Value{kind: KindFloat, float: f} }

// List builds a list value. The slice is copied.
func List(items ...Value) Value {
	return Value{kind: KindList, list: append([]Value(nil), items...)}
}

// MapValue wraps a mapping as a Value.
func MapValue(m *Map) Value {
	if m == nil {
		m = NewMap()
	}
	return Value{kind: KindMap, dict: m}
}

// Kind reports the variant.
func (v Value) Kind() Kind { return v.kind }

// IsNumber reports whether the value is an integer or a float.
func (v Value) IsNumber() bool { return v.kind == KindInt || v.kind == KindFloat }

// Str returns the string payload and whether the value is a string.
func (v Value) Str() (string, bool) { return v.str, v.kind == KindString }

// BoolValue returns the boolean payload and whether the value is a boolean.
func (v Value) BoolValue() (bool, bool) { return v.flag, v.kind == KindBool }

// IntValue returns the integer payload and whether the value is an integer.
func (v Value) IntValue() (int64, bool) { return v.integ, v.kind == KindInt }

// Number returns the numeric payload as float64 for either numeric kind.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.integ), true
	case KindFloat:
		return v.float, true
	default:
		return 0, false
	}
}

// Items returns a copy of the list payload.
func (v Value) Items() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return append([]Value(nil), v.list...), true
}

// Len returns the number of list items or mapping entries.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.list)
	case KindMap:
		return v.dict.Len()
	default:
		return 0
	}
}

// Map returns the mapping payload.
func (v Value) Map() (*Map, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	return v.dict, true
}

// Any converts the tree into plain Go values: map[string]any, []any,
// string, bool, int64 and float64.
func (v Value) Any() any {
	switch v.kind {
	case KindBool:
		return v.flag
	case KindInt:
		return v.integ
	case KindFloat:
		return v.float
	case KindList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.Any()
		}
		return out
	case KindMap:
		return v.dict.Any()
	default:
		return v.str
	}
}

// Text renders scalars in their canonical textual form. Containers render
// as an empty string.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.flag)
	case KindInt:
		return strconv.FormatInt(v.integ, 10)
	case KindFloat:
		return strconv.FormatFloat(v.float, 'g', -1, 64)
	default:
		return ""
	}
}

// Equal reports deep equality between two trees. Mapping comparison is
// order sensitive.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == other.str
	case KindBool:
		return v.flag == other.flag
	case KindInt:
		return v.integ == other.integ
	case KindFloat:
		return v.float == other.float
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		return v.dict.Equal(other.dict)
	default:
		return false
	}
}

// Map is an insertion-ordered string keyed mapping.
type Map struct {
	keys   []string
	values map[string]Value
}

// NewMap returns an empty mapping.
func NewMap() *Map {
	return &Map{values: map[string]Value{}}
}

// set is only used while decoding; maps are immutable once handed out.
// A repeated key keeps its first position and takes the latest value.
func (m *Map) set(key string, value Value) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in document order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Get looks up a key.
func (m *Map) Get(key string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	value, ok := m.values[key]
	return value, ok
}

// Has reports whether the key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Range calls fn for each entry in document order until fn returns false.
func (m *Map) Range(fn func(key string, value Value) bool) {
	if m == nil {
		return
	}
	for _, key := range m.keys {
		if !fn(key, m.values[key]) {
			return
		}
	}
}

// Any converts the mapping into a map[string]any.
func (m *Map) Any() map[string]any {
	out := make(map[string]any, m.Len())
	m.Range(func(key string, value Value) bool {
		out[key] = value.Any()
		return true
	})
	return out
}

// Equal reports deep, order sensitive equality. A nil map equals an
// empty one.
func (m *Map) Equal(other *Map) bool {
	if m.Len() != other.Len() {
		return false
	}
	if m == nil || other == nil {
		return true
	}
	for i, key := range m.keys {
		if other.keys[i] != key {
			return false
		}
		if !m.values[key].Equal(other.values[key]) {
			return false
		}
	}
	return true
}

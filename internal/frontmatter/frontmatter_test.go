package frontmatter

import (
	"os"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

func TestExtractWithoutDelimiterReturnsTextUnchanged(t *testing.T) {
	inputs := []string{
		"",
		"# Heading\n\nBody",
		"--- not a delimiter\nbody",
		"text\n---\nkey: value\n---\n",
	}
	for _, input := range inputs {
		fm, content := Extract(input)
		if fm.Len() != 0 {
			t.Fatalf("expected empty frontmatter for %q, got %v", input, fm.Keys())
		}
		if content != input {
			t.Fatalf("expected content unchanged for %q, got %q", input, content)
		}

		again, contentAgain := Extract(content)
		if again.Len() != 0 || contentAgain != content {
			t.Fatalf("expected Extract to be idempotent for %q", input)
		}
	}
}

func TestExtractUnclosedBlockIsNotParsed(t *testing.T) {
	input := "---\ntitle: Open\nbody without closing"
	fm, content := Extract(input)
	if fm.Len() != 0 {
		t.Fatalf("expected no keys from unclosed block, got %v", fm.Keys())
	}
	if content != input {
		t.Fatalf("expected original text, got %q", content)
	}
}

func TestExtractSplitsBlockAndBody(t *testing.T) {
	input := "---\ntitle: Hello\ncount: 3\n---\n# Body\n\ntext"
	fm, content := Extract(input)

	if content != "# Body\n\ntext" {
		t.Fatalf("unexpected content %q", content)
	}
	if got := fm.Keys(); len(got) != 2 || got[0] != "title" || got[1] != "count" {
		t.Fatalf("expected keys [title count], got %v", got)
	}
	title, _ := fm.Get("title")
	if s, ok := title.Str(); !ok || s != "Hello" {
		t.Fatalf("expected title Hello, got %#v", title)
	}
	count, _ := fm.Get("count")
	if i, ok := count.IntValue(); !ok || i != 3 {
		t.Fatalf("expected count 3, got %#v", count)
	}
}

func TestExtractClosingDelimiterAtEndOfText(t *testing.T) {
	fm, content := Extract("---\nkey: v\n  ---  ")
	if content != "" {
		t.Fatalf("expected empty content, got %q", content)
	}
	if !fm.Has("key") {
		t.Fatalf("expected key to be decoded")
	}
}

func TestExtractHandlesCRLF(t *testing.T) {
	fm, content := Extract("---\r\ntitle: Win\r\n---\r\nbody")
	if content != "body" {
		t.Fatalf("unexpected content %q", content)
	}
	title, _ := fm.Get("title")
	if s, _ := title.Str(); s != "Win" {
		t.Fatalf("expected title Win, got %q", s)
	}
}

func TestExtractMalformedBlockKeepsBody(t *testing.T) {
	fm, content := Extract("---\nkey: [unterminated\n---\nbody")
	if fm.Len() != 0 {
		t.Fatalf("expected empty mapping on malformed block")
	}
	if content != "body" {
		t.Fatalf("expected body to be returned, got %q", content)
	}
}

func TestBodyOffset(t *testing.T) {
	input := "---\na: 1\n---\nbody"
	if got := BodyOffset(input); input[got:] != "body" {
		t.Fatalf("unexpected body offset %d", got)
	}
	if got := BodyOffset("body"); got != 0 {
		t.Fatalf("expected zero offset, got %d", got)
	}
}

func TestParseCoercesScalars(t *testing.T) {
	fm := Parse(strings.Join([]string{
		"flag: true",
		"off: false",
		"count: 42",
		"ratio: 1.5",
		"quoted: \"42\"",
		"word: hello",
		"yes: yes",
		"inf: inf",
		"empty:",
	}, "\n"))

	cases := []struct {
		key  string
		kind Kind
		text string
	}{
		{"flag", KindBool, "true"},
		{"off", KindBool, "false"},
		{"count", KindInt, "42"},
		{"ratio", KindFloat, "1.5"},
		{"quoted", KindString, "42"},
		{"word", KindString, "hello"},
		{"yes", KindString, "yes"},
		{"inf", KindString, "inf"},
		{"empty", KindString, ""},
	}
	for _, tc := range cases {
		value, ok := fm.Get(tc.key)
		if !ok {
			t.Fatalf("missing key %s", tc.key)
		}
		if value.Kind() != tc.kind {
			t.Fatalf("%s: expected kind %s, got %s", tc.key, tc.kind, value.Kind())
		}
		if value.Text() != tc.text {
			t.Fatalf("%s: expected text %q, got %q", tc.key, tc.text, value.Text())
		}
	}
}

func TestParseNestedValues(t *testing.T) {
	fm := Parse("tags:\n  - a\n  - 2\nauthor:\n  name: Ada\n  meta:\n    active: true\n")

	tags, _ := fm.Get("tags")
	items, ok := tags.Items()
	if !ok || len(items) != 2 {
		t.Fatalf("expected 2 tags, got %#v", tags)
	}
	if s, _ := items[0].Str(); s != "a" {
		t.Fatalf("expected first tag a, got %#v", items[0])
	}
	if i, _ := items[1].IntValue(); i != 2 {
		t.Fatalf("expected second tag 2, got %#v", items[1])
	}

	author, _ := fm.Get("author")
	authorMap, ok := author.Map()
	if !ok {
		t.Fatalf("expected author mapping, got %s", author.Kind())
	}
	meta, _ := authorMap.Get("meta")
	metaMap, _ := meta.Map()
	active, _ := metaMap.Get("active")
	if b, ok := active.BoolValue(); !ok || !b {
		t.Fatalf("expected nested active true, got %#v", active)
	}
}

func TestParseResolvesAliasesAndMerges(t *testing.T) {
	fm := Parse("base: &base\n  color: red\n  size: 2\nchild:\n  <<: *base\n  size: 3\ncopy: *base\n")

	child, _ := fm.Get("child")
	childMap, _ := child.Map()
	if got := childMap.Keys(); len(got) != 2 {
		t.Fatalf("expected merged keys, got %v", got)
	}
	size, _ := childMap.Get("size")
	if i, _ := size.IntValue(); i != 3 {
		t.Fatalf("expected explicit key to win over merge, got %d", i)
	}

	copied, _ := fm.Get("copy")
	base, _ := fm.Get("base")
	if !copied.Equal(base) {
		t.Fatalf("expected alias to resolve to anchor value")
	}
}

func TestParseKeepsDuplicateKeyOrder(t *testing.T) {
	m := NewMap()
	m.set("a", Int(1))
	m.set("b", Int(2))
	m.set("a", Int(3))
	if got := m.Keys(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected key order %v", got)
	}
	value, _ := m.Get("a")
	if i, _ := value.IntValue(); i != 3 {
		t.Fatalf("expected latest value, got %d", i)
	}
}

func TestParseLenientReturnsEmptyMapping(t *testing.T) {
	for _, block := range []string{"- a\n- b", "just a string", "key: [broken"} {
		if fm := Parse(block); fm.Len() != 0 {
			t.Fatalf("expected empty mapping for %q, got %v", block, fm.Keys())
		}
	}
}

func TestParseWithResultReportsFailures(t *testing.T) {
	if _, err := ParseWithResult("key: [broken"); err == nil {
		t.Fatalf("expected decode error")
	} else if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}

	if _, err := ParseWithResult("- a\n- b"); err == nil {
		t.Fatalf("expected not-mapping error")
	} else if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}

	fm, err := ParseWithResult("")
	if err != nil || fm.Len() != 0 {
		t.Fatalf("expected empty mapping without error, got %v %v", fm, err)
	}

	fm, err = ParseWithResult("# only a comment")
	if err != nil || fm.Len() != 0 {
		t.Fatalf("expected empty mapping for comment-only block, got %v %v", fm, err)
	}
}

func TestValueAny(t *testing.T) {
	fm := Parse("a: 1\nb: [x, true]\nc:\n  d: 2.5\n")
	raw := fm.Any()
	if raw["a"] != int64(1) {
		t.Fatalf("expected int64 1, got %#v", raw["a"])
	}
	list, ok := raw["b"].([]any)
	if !ok || len(list) != 2 || list[0] != "x" || list[1] != true {
		t.Fatalf("unexpected list %#v", raw["b"])
	}
	nested, ok := raw["c"].(map[string]any)
	if !ok || nested["d"] != 2.5 {
		t.Fatalf("unexpected nested map %#v", raw["c"])
	}
}

func TestMapEqualHandlesNil(t *testing.T) {
	var nilMap *Map
	if !nilMap.Equal(nil) {
		t.Fatal("expected nil maps to be equal")
	}
	if !nilMap.Equal(NewMap()) || !NewMap().Equal(nilMap) {
		t.Fatal("expected nil map to equal an empty map")
	}
	if nilMap.Equal(Parse("a: 1\n")) || Parse("a: 1\n").Equal(nilMap) {
		t.Fatal("expected nil map to differ from a populated map")
	}
}

func TestDecodeDocument(t *testing.T) {
	data := readFixture(t, "testdata/basic.md")

	fm, body, err := DecodeDocument(data)
	if err != nil {
		t.Fatalf("DecodeDocument: %v", err)
	}

	wantKeys := []string{"title", "slug", "draft", "weight", "ratio", "version", "tags", "author"}
	if got := fm.Keys(); strings.Join(got, ",") != strings.Join(wantKeys, ",") {
		t.Fatalf("expected keys %v, got %v", wantKeys, got)
	}
	version, _ := fm.Get("version")
	if version.Kind() != KindString {
		t.Fatalf("expected quoted version to stay a string, got %s", version.Kind())
	}
	if !strings.Contains(string(body), "# Sample Document") {
		t.Fatalf("markdown body not returned correctly: %q", string(body))
	}
}

func TestDecodeDocumentJSONBlock(t *testing.T) {
	fm, body, err := DecodeDocument(readFixture(t, "testdata/json.md"))
	if err != nil {
		t.Fatalf("DecodeDocument: %v", err)
	}
	title, _ := fm.Get("title")
	if s, _ := title.Str(); s != "JSON Block" {
		t.Fatalf("expected JSON title, got %#v", title)
	}
	if !strings.Contains(string(body), "Body") {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestDecodeDocumentWithoutBlock(t *testing.T) {
	fm, body, err := DecodeDocument([]byte("plain body"))
	if err != nil {
		t.Fatalf("DecodeDocument: %v", err)
	}
	if fm.Len() != 0 || string(body) != "plain body" {
		t.Fatalf("expected empty mapping and full body, got %v %q", fm.Keys(), body)
	}
}

func TestRoundTripMatchesExtract(t *testing.T) {
	source := string(readFixture(t, "testdata/basic.md"))
	fm, content := Extract(source)
	strict, _, err := DecodeDocument([]byte(source))
	if err != nil {
		t.Fatalf("DecodeDocument: %v", err)
	}
	if !MapValue(fm).Equal(MapValue(strict)) {
		t.Fatalf("lenient and strict decodes differ: %v vs %v", fm.Keys(), strict.Keys())
	}
	if !strings.HasPrefix(content, "# Sample Document") {
		t.Fatalf("unexpected content %q", content)
	}
}

func TestValidateSchema(t *testing.T) {
	schema := map[string]any{
		"type":     "object",
		"required": []any{"title"},
		"properties": map[string]any{
			"title": map[string]any{"type": "string"},
			"count": map[string]any{"type": "integer"},
		},
	}

	if err := ValidateSchema(Parse("title: ok\ncount: 2"), schema); err != nil {
		t.Fatalf("expected valid frontmatter, got %v", err)
	}

	err := ValidateSchema(Parse("count: nope"), schema)
	if err == nil {
		t.Fatalf("expected schema violations")
	}
	issues := Issues(err)
	if len(issues) < 2 {
		t.Fatalf("expected missing title and bad count issues, got %#v", issues)
	}

	if err := ValidateSchema(Parse("anything: 1"), nil); err != nil {
		t.Fatalf("expected nil schema to accept, got %v", err)
	}
}

func readFixture(tb testing.TB, path string) []byte {
	tb.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		tb.Fatalf("read fixture %s: %v", path, err)
	}
	return data
}

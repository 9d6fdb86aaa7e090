package markdown

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goliatone/go-mdstyle/internal/ast"
	"github.com/goliatone/go-mdstyle/internal/logging/logtest"
)

func mustFirst[T ast.Node](t *testing.T, root ast.Node) T {
	t.Helper()
	var zero T
	found := ast.First(root, func(n ast.Node) bool {
		_, ok := n.(T)
		return ok
	})
	if found == nil {
		t.Fatalf("expected a %T in tree", zero)
	}
	return found.(T)
}

func slice(content string, n ast.Node) string {
	start, end := n.Range()
	return content[start:end]
}

func TestParseEmptyInput(t *testing.T) {
	res := Parse("")
	if res.Tree == nil {
		t.Fatal("expected a document")
	}
	if len(res.Tree.Children()) != 0 {
		t.Fatalf("expected no children, got %d", len(res.Tree.Children()))
	}
	if res.Frontmatter.Len() != 0 || res.Content != "" || res.FrontmatterErr != nil {
		t.Fatalf("unexpected result %#v", res)
	}
}

func TestHeadingAnnotation(t *testing.T) {
	res := Parse("# Title {.foo .bar}")

	h := mustFirst[*ast.Heading](t, res.Tree)
	if h.Level != 1 || h.Text != "Title" {
		t.Fatalf("unexpected heading level=%d text=%q", h.Level, h.Text)
	}
	if got := strings.Join(h.Classes(), ","); got != "foo,bar" {
		t.Fatalf("expected classes foo,bar got %q", got)
	}
	if strings.ContainsAny(h.Text, "{}") || strings.Contains(ast.PlainText(h), "foo") {
		t.Fatalf("annotation leaked into heading content: %q / %q", h.Text, ast.PlainText(h))
	}
	if start, end := h.Range(); start != 0 || end != len(res.Content) {
		t.Fatalf("expected heading to span the line, got [%d,%d)", start, end)
	}
}

func TestHeadingWithoutAnnotationKeepsText(t *testing.T) {
	h := mustFirst[*ast.Heading](t, Parse("## Plain heading  ").Tree)
	if h.Level != 2 || h.Text != "Plain heading" || len(h.Classes()) != 0 {
		t.Fatalf("unexpected heading %#v", h)
	}
}

func TestAnnotationsDisabled(t *testing.T) {
	p := NewParser(Options{DisableAnnotations: true})
	h := mustFirst[*ast.Heading](t, p.Parse("# Title {.foo}").Tree)
	if h.Text != "Title {.foo}" || len(h.Classes()) != 0 {
		t.Fatalf("expected literal annotation, got %q %v", h.Text, h.Classes())
	}
}

func TestSetextHeadingSpansUnderline(t *testing.T) {
	res := Parse("Title\n=====\n")
	h := mustFirst[*ast.Heading](t, res.Tree)
	if h.Level != 1 || h.Text != "Title" {
		t.Fatalf("unexpected heading %#v", h)
	}
	if got := slice(res.Content, h); got != "Title\n=====" {
		t.Fatalf("unexpected heading range %q", got)
	}
}

func TestDelimitedInlinesSpanContent(t *testing.T) {
	res := Parse("This is **bold** and *italic*.")

	strong := mustFirst[*ast.Strong](t, res.Tree)
	if got := slice(res.Content, strong); got != "bold" {
		t.Fatalf("expected strong to span %q, got %q", "bold", got)
	}
	em := mustFirst[*ast.Emphasis](t, res.Tree)
	if got := slice(res.Content, em); got != "italic" {
		t.Fatalf("expected emphasis to span %q, got %q", "italic", got)
	}
	if _, strongEnd := strong.Range(); strongEnd > em.Start {
		t.Fatal("expected strong and emphasis not to overlap")
	}
}

func TestStrikethroughAndCodeSpan(t *testing.T) {
	res := Parse("Use `fmt` not ~~print~~.")

	code := mustFirst[*ast.Code](t, res.Tree)
	if code.Literal != "fmt" || slice(res.Content, code) != "fmt" {
		t.Fatalf("unexpected code span %#v", code)
	}
	strike := mustFirst[*ast.Strikethrough](t, res.Tree)
	if got := slice(res.Content, strike); got != "print" {
		t.Fatalf("unexpected strikethrough range %q", got)
	}
}

func TestLinkAndImage(t *testing.T) {
	res := Parse(`See [docs](https://example.com "Docs") and ![logo](logo.png).`)

	link := mustFirst[*ast.Link](t, res.Tree)
	if link.Destination != "https://example.com" || link.Title != "Docs" {
		t.Fatalf("unexpected link %#v", link)
	}
	if got := slice(res.Content, link); got != `[docs](https://example.com "Docs")` {
		t.Fatalf("unexpected link range %q", got)
	}
	if ast.PlainText(link) != "docs" {
		t.Fatalf("unexpected link text %q", ast.PlainText(link))
	}

	img := mustFirst[*ast.Image](t, res.Tree)
	if img.AltText != "logo" || img.Destination != "logo.png" {
		t.Fatalf("unexpected image %#v", img)
	}
	if got := slice(res.Content, img); got != "![logo](logo.png)" {
		t.Fatalf("unexpected image range %q", got)
	}
}

func TestAutoLinkBecomesLink(t *testing.T) {
	res := Parse("Visit <https://example.com> today")
	link := mustFirst[*ast.Link](t, res.Tree)
	if link.Destination != "https://example.com" {
		t.Fatalf("unexpected destination %q", link.Destination)
	}
	if got := slice(res.Content, link); got != "<https://example.com>" {
		t.Fatalf("unexpected autolink range %q", got)
	}
	if len(link.Children()) != 1 || ast.PlainText(link) != "https://example.com" {
		t.Fatalf("expected a single text child, got %#v", link.Children())
	}
}

func TestTableShape(t *testing.T) {
	src := "| Name | Qty |\n|:-----|----:|\n| pen  | 2   |\n"
	res := Parse(src)

	table := mustFirst[*ast.Table](t, res.Tree)
	if table.Header == nil || len(table.Header.Cells) != 2 {
		t.Fatalf("expected a 2-cell header, got %#v", table.Header)
	}
	if len(table.Rows) != 1 || len(table.Rows[0].Cells) != 2 {
		t.Fatalf("expected one body row with 2 cells, got %#v", table.Rows)
	}
	if ast.PlainText(table.Header.Cells[0]) != "Name" || ast.PlainText(table.Rows[0].Cells[1]) != "2" {
		t.Fatalf("unexpected cell text %q / %q", ast.PlainText(table.Header.Cells[0]), ast.PlainText(table.Rows[0].Cells[1]))
	}

	wantAlign := []ast.Alignment{ast.AlignLeft, ast.AlignRight}
	if len(table.Alignments) != len(wantAlign) {
		t.Fatalf("expected %d alignments, got %v", len(wantAlign), table.Alignments)
	}
	for i, want := range wantAlign {
		if table.Alignments[i] != want || table.Rows[0].Cells[i].Alignment != want {
			t.Fatalf("column %d: expected %s, got %s/%s", i, want, table.Alignments[i], table.Rows[0].Cells[i].Alignment)
		}
	}
	if got := slice(res.Content, table.Header); got != "| Name | Qty |" {
		t.Fatalf("unexpected header row range %q", got)
	}
}

func TestFencedCodeLanguageAndAnnotation(t *testing.T) {
	src := "```go {.numbered}\nfmt.Println(1)\n```\n"
	res := Parse(src)

	block := mustFirst[*ast.CodeBlock](t, res.Tree)
	if !block.Fenced || block.Language != "go" || !block.HasLanguage() {
		t.Fatalf("unexpected code block %#v", block)
	}
	if block.Literal != "fmt.Println(1)" {
		t.Fatalf("unexpected literal %q", block.Literal)
	}
	if got := strings.Join(block.Classes(), ","); got != "numbered" {
		t.Fatalf("unexpected classes %q", got)
	}
	if got := slice(res.Content, block); got != strings.TrimSuffix(src, "\n") {
		t.Fatalf("expected block to include fences, got %q", got)
	}
}

func TestFencedCodeWithoutLanguage(t *testing.T) {
	block := mustFirst[*ast.CodeBlock](t, Parse("```\nplain\n```").Tree)
	if block.HasLanguage() || block.Literal != "plain" {
		t.Fatalf("unexpected block %#v", block)
	}
}

func TestIndentedCodeAnnotation(t *testing.T) {
	block := mustFirst[*ast.CodeBlock](t, Parse("    first line\n    last {.small}\n").Tree)
	if block.Fenced {
		t.Fatal("expected indented block")
	}
	if block.Literal != "first line\nlast" {
		t.Fatalf("unexpected literal %q", block.Literal)
	}
	if got := strings.Join(block.Classes(), ","); got != "small" {
		t.Fatalf("unexpected classes %q", got)
	}
}

func TestTaskListItems(t *testing.T) {
	res := Parse("- [x] done\n- [ ] todo\n")

	list := mustFirst[*ast.BulletList](t, res.Tree)
	if list.Marker != '-' || !list.Tight {
		t.Fatalf("unexpected list %#v", list)
	}
	items := list.Children()
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	first, ok := items[0].(*ast.TaskListItem)
	if !ok || !first.Checked {
		t.Fatalf("expected checked task item, got %#v", items[0])
	}
	second, ok := items[1].(*ast.TaskListItem)
	if !ok || second.Checked {
		t.Fatalf("expected unchecked task item, got %#v", items[1])
	}
	if !strings.Contains(ast.PlainText(second), "todo") {
		t.Fatalf("unexpected item text %q", ast.PlainText(second))
	}
	if start, _ := first.Range(); start != 0 {
		t.Fatalf("expected item to start at its marker, got %d", start)
	}
}

func TestOrderedListStart(t *testing.T) {
	list := mustFirst[*ast.OrderedList](t, Parse("3. three\n4. four\n").Tree)
	if list.StartNumber != 3 || len(list.Children()) != 2 {
		t.Fatalf("unexpected list %#v", list)
	}
	if _, ok := list.Children()[0].(*ast.ListItem); !ok {
		t.Fatalf("expected plain list items, got %T", list.Children()[0])
	}
}

func TestListsNeverTakeAnnotations(t *testing.T) {
	res := Parse("- item {.x}\n")
	list := mustFirst[*ast.BulletList](t, res.Tree)
	if len(list.Classes()) != 0 {
		t.Fatalf("expected list without classes, got %v", list.Classes())
	}
	item := mustFirst[*ast.ListItem](t, res.Tree)
	if len(item.Classes()) != 0 {
		t.Fatalf("expected item without classes, got %v", item.Classes())
	}
}

func TestBlockquoteAnnotation(t *testing.T) {
	res := Parse("> quoted text {.aside}\n")

	quote := mustFirst[*ast.Blockquote](t, res.Tree)
	if got := strings.Join(quote.Classes(), ","); got != "aside" {
		t.Fatalf("expected blockquote classes, got %q", got)
	}
	para := mustFirst[*ast.Paragraph](t, quote)
	if len(para.Classes()) != 0 {
		t.Fatalf("expected classes to move to the quote, got %v", para.Classes())
	}
	if ast.PlainText(para) != "quoted text" {
		t.Fatalf("unexpected paragraph text %q", ast.PlainText(para))
	}
	if start, _ := quote.Range(); start != 0 {
		t.Fatalf("expected quote to start at the marker, got %d", start)
	}
}

func TestParagraphAnnotationDuplicatesPreserved(t *testing.T) {
	para := mustFirst[*ast.Paragraph](t, Parse("Some words {.a .b .a}").Tree)
	if got := strings.Join(para.Classes(), ","); got != "a,b,a" {
		t.Fatalf("unexpected classes %q", got)
	}
	if ast.PlainText(para) != "Some words" {
		t.Fatalf("unexpected text %q", ast.PlainText(para))
	}
}

func TestSoftBreakBecomesLineBreak(t *testing.T) {
	res := Parse("first\nsecond")
	br := mustFirst[*ast.LineBreak](t, res.Tree)
	if br.Hard {
		t.Fatal("expected soft break")
	}
	if got := slice(res.Content, br); got != "\n" {
		t.Fatalf("unexpected break range %q", got)
	}
}

func TestTextResolvesEscapesAndReferences(t *testing.T) {
	res := Parse("a \\* b &amp; &#35;1 <b>x &amp; y</b>\n")

	para := mustFirst[*ast.Paragraph](t, res.Tree)
	if got := ast.PlainText(para); !strings.HasPrefix(got, "a * b & #1 ") {
		t.Fatalf("expected resolved text, got %q", got)
	}
	first := mustFirst[*ast.Text](t, para)
	if first.Raw || !strings.HasPrefix(first.Literal, "a \\* b") {
		t.Fatalf("expected literal to keep source escapes, got %q", first.Literal)
	}
	if got := slice(res.Content, first); got != first.Literal {
		t.Fatalf("literal %q does not match its range %q", first.Literal, got)
	}

	var raw []*ast.Text
	for _, n := range ast.FindKind(para, ast.KindText) {
		if text := n.(*ast.Text); text.Raw {
			raw = append(raw, text)
		}
	}
	if len(raw) != 2 || raw[0].Value() != "<b>" || raw[1].Value() != "</b>" {
		t.Fatalf("expected inline html kept raw, got %#v", raw)
	}
}

func TestHorizontalRuleAndHTMLBlock(t *testing.T) {
	res := Parse("<div>\nhi\n</div>\n\n---\n")

	children := res.Tree.Children()
	if len(children) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(children))
	}
	opaque, ok := children[0].(*ast.Text)
	if !ok || !opaque.Raw || !strings.HasPrefix(opaque.Literal, "<div>") {
		t.Fatalf("expected opaque html text, got %#v", children[0])
	}
	if _, ok := children[1].(*ast.HorizontalRule); !ok {
		t.Fatalf("expected horizontal rule, got %T", children[1])
	}
	if got := slice(res.Content, children[1]); got != "---" {
		t.Fatalf("unexpected rule range %q", got)
	}
}

func TestFrontmatterRoundTrip(t *testing.T) {
	raw := "---\ntitle: Hello\ntags: [a, b]\ndraft: false\n---\n# Heading\n"
	res := Parse(raw)

	if got := strings.Join(res.Frontmatter.Keys(), ","); got != "title,tags,draft" {
		t.Fatalf("unexpected keys %q", got)
	}
	if res.Content != "# Heading\n" {
		t.Fatalf("unexpected content %q", res.Content)
	}
	if raw[res.Offset:] != res.Content {
		t.Fatalf("offset %d does not locate the body", res.Offset)
	}
	h := mustFirst[*ast.Heading](t, res.Tree)
	if start, _ := h.Range(); start != 0 {
		t.Fatalf("expected body-relative offsets, got %d", start)
	}
}

func TestInvalidFrontmatterIsReportedNotFatal(t *testing.T) {
	rec := logtest.New()
	p := NewParser(Options{Logger: rec})

	res := p.Parse("---\ntitle: [unclosed\n---\nbody\n")
	if res.FrontmatterErr == nil {
		t.Fatal("expected frontmatter error")
	}
	if res.Frontmatter.Len() != 0 || res.Content != "body\n" {
		t.Fatalf("expected empty mapping and body, got %v %q", res.Frontmatter.Keys(), res.Content)
	}
	if _, ok := rec.Find("markdown.frontmatter.invalid"); !ok {
		t.Fatal("expected warning to be logged")
	}
	entry, ok := rec.Find("markdown.parse.completed")
	if !ok {
		t.Fatal("expected completion entry")
	}
	if v, _ := entry.Arg("body_bytes"); v != len("body\n") {
		t.Fatalf("unexpected body_bytes %v", v)
	}
}

func TestParseIsDeterministic(t *testing.T) {
	src := "---\na: 1\n---\n# T {.x}\n\n- [ ] task\n\n| a |\n|---|\n| b |\n\n> q\n\n```sh\nls\n```\n"
	dump := func() string {
		var buf bytes.Buffer
		if err := ast.Dump(&buf, Parse(src).Tree); err != nil {
			t.Fatalf("Dump: %v", err)
		}
		return buf.String()
	}
	first := dump()
	for i := 0; i < 3; i++ {
		if got := dump(); got != first {
			t.Fatalf("parse output changed between runs\n%s\n---\n%s", first, got)
		}
	}
}

func TestRangesStayInsideContent(t *testing.T) {
	inputs := []string{
		"*unclosed **nesting* and `tick",
		"[broken](link\n\nnext",
		"- \n-\n  - nested\n",
		"```\nunclosed fence",
		"| a | b |\n|---|---|\n| only |\n",
		"<span>inline html</span> text\\\nhard",
		"***\n___\n",
		"Term  \nnext line",
		"# \n\n#",
		"> > nested\n> quote\n\n1) one\n",
		"www.example.com and https://go.dev",
	}
	for _, input := range inputs {
		res := Parse(input)
		ast.Walk(res.Tree, func(n ast.Node, entering bool) ast.WalkStatus {
			if !entering {
				return ast.WalkContinue
			}
			start, end := n.Range()
			if start < 0 || end < start || end > len(res.Content) {
				t.Fatalf("input %q: %s has range [%d,%d) outside [0,%d)", input, n.Kind(), start, end, len(res.Content))
			}
			return ast.WalkContinue
		})
	}
}

func TestSupportedExtension(t *testing.T) {
	if !SupportedExtension(" Tables ") || SupportedExtension("footnote") {
		t.Fatal("unexpected extension support")
	}
	p := NewParser(Options{Extensions: []string{"strikethrough"}})
	if len(ast.FindKind(p.Parse("| a |\n|---|\n| b |\n").Tree, ast.KindTable)) != 0 {
		t.Fatal("expected tables to be disabled")
	}
}

package render_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-mdpages/internal/lexer"
	"github.com/alnah/go-mdpages/internal/node"
	"github.com/alnah/go-mdpages/internal/render"
	"github.com/alnah/go-mdpages/internal/syntax"
)

func renderPages(t *testing.T, opts render.Options, texts ...string) []render.Page {
	t.Helper()

	reg := node.NewRegistry()
	doc := reg.Add(node.NoID, node.Record{Kind: node.KindDocument})
	var sources []node.ID
	for _, text := range texts {
		src := reg.AddSource(doc.ID, "index", text)
		lexer.Tokenize(reg, src.ID)
		sources = append(sources, src.ID)
	}
	res := syntax.Run(reg, doc.ID, sources)
	return render.Pages(reg, render.Build(reg, doc.ID, res.Merged), opts)
}

func renderHTML(t *testing.T, text string) string {
	t.Helper()

	pages := renderPages(t, render.Options{}, text)
	if len(pages) != 1 {
		t.Fatalf("got %d pages, want 1", len(pages))
	}
	return pages[0].HTML
}

// ---------------------------------------------------------------------------
// TestRender - HTML output per construct
// ---------------------------------------------------------------------------

func TestRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"paragraphs", "Hello\n\nWorld", "<p>Hello</p><p>World</p>"},
		{"soft line break", "a\nb", "<p>a b</p>"},
		{"trailing newline", "a\n", "<p>a</p>"},
		{
			name: "bold wraps italic",
			in:   "**bold *and italic* text**",
			want: "<p><strong>bold <i>and italic</i> text</strong></p>",
		},
		{
			name: "heading anchor",
			in:   "# Hello World",
			want: `<h1><a id="hello-world" href="#hello-world">Hello World</a></h1>`,
		},
		{
			name: "heading level and punctuation",
			in:   "### Hello, World!",
			want: `<h3><a id="hello-world" href="#hello-world">Hello, World!</a></h3>`,
		},
		{
			name: "heading starting with markup has no anchor",
			in:   "# **Bold** tail",
			want: "<h1><strong>Bold</strong> tail</h1>",
		},
		{"unclosed note", "(Note unclosed", "<p>(Note unclosed</p>"},
		{"note", "(Note)\nhi\n(Note)", `<div class="note"><p>hi</p></div>`},
		{"list", "* a\n* b", "<ul><li>a</li><li>b</li></ul>"},
		{"list across blank line", "* a\n\n* b", "<ul><li>a</li><li>b</li></ul>"},
		{"list broken by paragraph", "* a\ntext\n* b", "<ul><li>a</li></ul><p>text</p><ul><li>b</li></ul>"},
		{
			name: "code block",
			in:   "```go\nx := 1\n```",
			want: `<pre><code class="language-go">x := 1</code></pre>`,
		},
		{
			name: "one line code has no language",
			in:   "```hello world```",
			want: "<pre><code>hello world</code></pre>",
		},
		{
			name: "code strips one newline each side",
			in:   "```\n\nx\n\n```",
			want: "<pre><code>\nx\n</code></pre>",
		},
		{
			name: "code is escaped",
			in:   "```\n<b>&\n```",
			want: "<pre><code>&lt;b&gt;&amp;</code></pre>",
		},
		{"text is escaped", "a < b & c", "<p>a &lt; b &amp; c</p>"},
		{"link", "[site](https://x.io)", `<p><a href="https://x.io">site</a></p>`},
		{"bare link", "https://x.io/a", `<p><a href="https://x.io/a">https://x.io/a</a></p>`},
		{"dangerous link is text", "[x](javascript:void)", "<p>x</p>"},
		{"image", "![cat](cat.png)", `<p><img src="cat.png" alt="cat"></p>`},
		{"image without extension is dropped", "![root](/)", ""},
		{
			name: "youtube",
			in:   `(Youtube Link="https://youtu.be/abc")`,
			want: `<div class="video"><iframe src="https://www.youtube.com/embed/abc" allowfullscreen></iframe></div>`,
		},
		{"comment paragraph is suppressed", "<!-- c -->\n\nx", "<p>x</p>"},
		{"comment inside text", "a<!-- c -->b", "<p>ab</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tt.want, renderHTML(t, tt.in)); diff != "" {
				t.Errorf("Render(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRenderPages - Page metadata and splitting
// ---------------------------------------------------------------------------

func TestRenderPages(t *testing.T) {
	t.Parallel()

	t.Run("page split", func(t *testing.T) {
		t.Parallel()

		pages := renderPages(t, render.Options{}, "one\n(Page Path=\"p2\" Title=\"Two\")\ntwo")
		want := []render.Page{
			{Name: "index", Path: "index", HTML: "<p>one</p>"},
			{Name: "index", Path: "p2", Title: "Two", HTML: "<p>two</p>"},
		}
		if diff := cmp.Diff(want, pages); diff != "" {
			t.Errorf("pages mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("title falls back to first heading", func(t *testing.T) {
		t.Parallel()

		pages := renderPages(t, render.Options{}, "# Intro\n## Details")
		if pages[0].Title != "Intro" {
			t.Errorf("Title = %q, want Intro", pages[0].Title)
		}
		want := []render.Heading{
			{Level: 1, ID: "intro", Text: "Intro"},
			{Level: 2, ID: "details", Text: "Details"},
		}
		if diff := cmp.Diff(want, pages[0].Headings); diff != "" {
			t.Errorf("headings mismatch (-want +got):\n%s", diff)
		}
	})
}

// ---------------------------------------------------------------------------
// TestHighlight - Chroma markup for known languages
// ---------------------------------------------------------------------------

func TestHighlight(t *testing.T) {
	t.Parallel()

	t.Run("known language", func(t *testing.T) {
		t.Parallel()

		pages := renderPages(t, render.Options{Highlight: true}, "```go\nfunc main() {}\n```")
		if !strings.Contains(pages[0].HTML, `class="chroma"`) {
			t.Errorf("expected chroma markup, got %q", pages[0].HTML)
		}
	})

	t.Run("unknown language falls back", func(t *testing.T) {
		t.Parallel()

		pages := renderPages(t, render.Options{Highlight: true}, "```nolang\nx\n```")
		want := `<pre><code class="language-nolang">x</code></pre>`
		if pages[0].HTML != want {
			t.Errorf("HTML = %q, want %q", pages[0].HTML, want)
		}
	})

	t.Run("stylesheet", func(t *testing.T) {
		t.Parallel()

		var b strings.Builder
		if err := render.StyleCSS(&b, ""); err != nil {
			t.Fatalf("StyleCSS() error = %v", err)
		}
		if !strings.Contains(b.String(), ".chroma") {
			t.Errorf("stylesheet lacks .chroma rules: %q", b.String())
		}
	})
}

// ---------------------------------------------------------------------------
// TestAnchor - Heading id derivation
// ---------------------------------------------------------------------------

func TestAnchor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"Trailing ", "trailing"},
		{"Tom &amp; Jerry", "tom--jerry"},
		{"Step 2: go", "step-2-go"},
		{"snake_case-ok", "snake_case-ok"},
		{"Before <i>after</i>", "before"},
		{"<b>x</b>", ""},
		{"Ünïcode", "ünïcode"},
	}

	for _, tt := range tests {
		if got := render.Anchor(tt.in); got != tt.want {
			t.Errorf("Anchor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestTextContent - Tag stripping
// ---------------------------------------------------------------------------

func TestTextContent(t *testing.T) {
	t.Parallel()

	if got := render.TextContent("<strong>a</strong> &amp; b "); got != "a & b" {
		t.Errorf("TextContent() = %q, want %q", got, "a & b")
	}
}

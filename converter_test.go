package mdpages

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// fakePDF records every page it is asked to print.
type fakePDF struct {
	mu     sync.Mutex
	html   []string
	pages  []*PageSettings
	err    error
	closed bool
}

func (f *fakePDF) ToPDF(_ context.Context, html string, page *PageSettings) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.html = append(f.html, html)
	f.pages = append(f.pages, page)
	return []byte("%PDF-" + page.sizeOrDefault()), nil
}

func (f *fakePDF) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (p *PageSettings) sizeOrDefault() string {
	if p == nil {
		return PageSizeLetter
	}
	return p.Size
}

func newTestConverter(t *testing.T, opts ...Option) (*Converter, *fakePDF) {
	t.Helper()

	fake := &fakePDF{}
	c, err := NewConverter(append(opts, withPDFConverter(fake))...)
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c, fake
}

func sources(texts ...string) []Source {
	out := make([]Source, len(texts))
	for i, text := range texts {
		out[i] = Source{Name: "index", Text: text}
	}
	return out
}

// ---------------------------------------------------------------------------
// TestNewConverter - Option resolution
// ---------------------------------------------------------------------------

func TestNewConverter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	styleFile := filepath.Join(dir, "site.css")
	if err := os.WriteFile(styleFile, []byte("body{color:blue}"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		opts      []Option
		wantStyle string
		wantErr   error
	}{
		{name: "default style", wantStyle: "font-family"},
		{name: "style by name", opts: []Option{WithStyle("print")}, wantStyle: "Georgia"},
		{name: "style file", opts: []Option{WithStyle(styleFile)}, wantStyle: "body{color:blue}"},
		{name: "inline CSS", opts: []Option{WithStyle("h1 { color: red }")}, wantStyle: "h1 { color: red }"},
		{name: "unknown style", opts: []Option{WithStyle("nope")}, wantErr: ErrStyleNotFound},
		{name: "bad asset path", opts: []Option{WithAssetPath(filepath.Join(dir, "missing"))}, wantErr: ErrInvalidAssetPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := NewConverter(append(tt.opts, withPDFConverter(&fakePDF{}))...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewConverter() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewConverter() error = %v", err)
			}
			if !strings.Contains(c.style, tt.wantStyle) {
				t.Errorf("resolved style does not contain %q", tt.wantStyle)
			}
		})
	}
}

func TestNewConverter_AssetPathOverride(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "styles"), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "styles", "brand.css"), []byte(".brand{}"), 0o600); err != nil {
		t.Fatal(err)
	}

	c, _ := newTestConverter(t, WithAssetPath(dir), WithStyle("brand"))
	if c.style != ".brand{}" {
		t.Errorf("style = %q, want custom stylesheet", c.style)
	}
	if diff := cmp.Diff([]string{"default", "print"}, c.Styles()); diff != "" {
		t.Errorf("Styles() mismatch (-want +got):\n%s", diff)
	}
}

// ---------------------------------------------------------------------------
// TestConvert_Validation - Input checks
// ---------------------------------------------------------------------------

func TestConvert_Validation(t *testing.T) {
	t.Parallel()

	c, _ := newTestConverter(t)

	tests := []struct {
		name    string
		input   Input
		wantErr error
	}{
		{"no sources", Input{}, ErrNoPages},
		{"empty text", Input{Sources: []Source{{Name: "a"}}}, ErrEmptySource},
		{"bad graph format", Input{Sources: sources("x"), Graph: "toml"}, ErrUnknownFormat},
		{"bad page size", Input{Sources: sources("x"), PDF: true, Page: &PageSettings{Size: "a0", Orientation: "portrait", Margin: 1}}, ErrInvalidPageSize},
		{"bad orientation", Input{Sources: sources("x"), Page: &PageSettings{Size: "a4", Orientation: "diagonal", Margin: 1}}, ErrInvalidOrientation},
		{"bad margin", Input{Sources: sources("x"), Page: &PageSettings{Size: "a4", Orientation: "portrait", Margin: 9}}, ErrInvalidMargin},
		{"bad TOC depth", Input{Sources: sources("x"), TOC: &TOC{MinDepth: 4, MaxDepth: 2}}, ErrInvalidTOCDepth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.Convert(context.Background(), tt.input); !errors.Is(err, tt.wantErr) {
				t.Errorf("Convert() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConvert_CanceledContext(t *testing.T) {
	t.Parallel()

	c, _ := newTestConverter(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Convert(ctx, Input{Sources: sources("x")}); !errors.Is(err, context.Canceled) {
		t.Errorf("Convert() error = %v, want context.Canceled", err)
	}
}

// ---------------------------------------------------------------------------
// TestConvert_Fragment - Default output is the bare page fragment
// ---------------------------------------------------------------------------

func TestConvert_Fragment(t *testing.T) {
	t.Parallel()

	c, fake := newTestConverter(t)
	res, err := c.Convert(context.Background(), Input{
		Sources: sources("# Title\n\nbody\n(Page Path=\"two\")\n* item"),
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if len(res.Pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(res.Pages))
	}
	first := res.Pages[0]
	if first.Path != "index" || first.Title != "Title" {
		t.Errorf("first page = %q/%q, want index/Title", first.Path, first.Title)
	}
	if want := `<h1><a id="title" href="#title">Title</a></h1><p>body</p>`; string(first.HTML) != want {
		t.Errorf("first page HTML = %q, want %q", first.HTML, want)
	}
	if got := string(res.Pages[1].HTML); got != "<ul><li>item</li></ul>" {
		t.Errorf("second page HTML = %q", got)
	}
	if res.Graph != nil || first.PDF != nil {
		t.Error("optional outputs produced without being requested")
	}
	if len(res.Stats) != 5 {
		t.Errorf("got %d stats, want 5", len(res.Stats))
	}
	if len(fake.html) != 0 {
		t.Error("PDF converter called for fragment output")
	}
}

// ---------------------------------------------------------------------------
// TestConvert_Standalone - Full documents with style and TOC
// ---------------------------------------------------------------------------

func TestConvert_Standalone(t *testing.T) {
	t.Parallel()

	c, _ := newTestConverter(t, WithStyle("p { margin: 0 }"))
	res, err := c.Convert(context.Background(), Input{
		Sources:    sources("# Intro\n\n## Part\n\n## **Bold** lead\n\n![a](img/a.png)"),
		SourceDir:  "/docs",
		CSS:        ".extra{}",
		TOC:        &TOC{Title: "Contents"},
		Standalone: true,
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	html := string(res.Pages[0].HTML)
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>Intro</title>",
		"<style>p { margin: 0 }\n.extra{}</style></head>",
		`<nav class="toc"><h2 class="toc-title">Contents</h2>`,
		`<a href="#intro">1. Intro</a>`,
		`<a href="#part">1.1. Part</a>`,
		`src="file:///docs/img/a.png"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("standalone page missing %q:\n%s", want, html)
		}
	}
	if strings.Index(html, `<nav class="toc">`) > strings.Index(html, `<main class="page">`) {
		t.Error("TOC should come before the page body")
	}

	nav := html[strings.Index(html, `<nav class="toc">`):]
	nav = nav[:strings.Index(nav, "</nav>")]
	if strings.Contains(nav, "Bold") || strings.Contains(nav, `href="#"`) {
		t.Errorf("heading without an anchor listed in TOC:\n%s", nav)
	}
}

func TestConvert_HighlightCSS(t *testing.T) {
	t.Parallel()

	c, _ := newTestConverter(t, WithHighlighting(true), WithCodeStyle("monokai"))
	res, err := c.Convert(context.Background(), Input{
		Sources:    sources("```go\nx := 1\n```"),
		Standalone: true,
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	html := string(res.Pages[0].HTML)
	if !strings.Contains(html, ".chroma") || !strings.Contains(html, `class="chroma"`) {
		t.Errorf("highlighted page lacks chroma markup or stylesheet:\n%s", html)
	}
}

// ---------------------------------------------------------------------------
// TestConvert_PDF - PDF export through the converter seam
// ---------------------------------------------------------------------------

func TestConvert_PDF(t *testing.T) {
	t.Parallel()

	c, fake := newTestConverter(t)
	page := &PageSettings{Size: PageSizeA4, Orientation: OrientationLandscape, Margin: 1}
	res, err := c.Convert(context.Background(), Input{
		Sources: sources("one\n(Page Path=\"two\")\ntwo"),
		PDF:     true,
		Page:    page,
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if len(fake.html) != 2 {
		t.Fatalf("ToPDF called %d times, want 2", len(fake.html))
	}
	for i, pr := range res.Pages {
		if string(pr.PDF) != "%PDF-a4" {
			t.Errorf("page %d PDF = %q", i, pr.PDF)
		}
		if !strings.HasPrefix(string(pr.HTML), "<!DOCTYPE html>") {
			t.Errorf("page %d: PDF output implies standalone HTML", i)
		}
		if fake.pages[i] != page {
			t.Errorf("page %d: page settings not passed through", i)
		}
	}
}

func TestConvert_PDFError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	fake := &fakePDF{err: boom}
	c, err := NewConverter(withPDFConverter(fake))
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.Convert(context.Background(), Input{Sources: sources("x"), PDF: true})
	if !errors.Is(err, boom) || !strings.Contains(err.Error(), `page "index"`) {
		t.Errorf("Convert() error = %v, want wrapped boom naming the page", err)
	}

	if err := c.Close(); err != nil || !fake.closed {
		t.Errorf("Close() = %v, closed = %v", err, fake.closed)
	}
}

// ---------------------------------------------------------------------------
// TestConvert_Graph - Serialized graph loads back to the same pages
// ---------------------------------------------------------------------------

func TestConvert_Graph(t *testing.T) {
	t.Parallel()

	c, _ := newTestConverter(t)
	res, err := c.Convert(context.Background(), Input{
		Sources: sources("# A\n\n**b** c", "second"),
		Graph:   FormatJSON,
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	doc, err := Deserialize(res.Graph)
	if err != nil {
		t.Fatalf("Deserialize() error = %v", err)
	}
	pages, err := doc.Pages()
	if err != nil {
		t.Fatalf("Pages() error = %v", err)
	}
	if len(pages) != len(res.Pages) {
		t.Fatalf("loaded %d pages, want %d", len(pages), len(res.Pages))
	}
	for i := range pages {
		if pages[i].HTML != string(res.Pages[i].HTML) {
			t.Errorf("page %d HTML after load = %q, want %q", i, pages[i].HTML, res.Pages[i].HTML)
		}
	}
}

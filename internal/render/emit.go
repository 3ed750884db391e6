package render

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/alnah/go-mdpages/internal/node"
	"github.com/alnah/go-mdpages/internal/syntax"
)

// Page is the rendered form of one output page.
type Page struct {
	Name     string    `yaml:"name"`
	Path     string    `yaml:"path"`
	Title    string    `yaml:"title,omitempty"`
	HTML     string    `yaml:"html"`
	Headings []Heading `yaml:"headings,omitempty"`
}

// Heading is one anchored heading of a page, in document order.
type Heading struct {
	Level int    `yaml:"level"`
	ID    string `yaml:"id"` // empty when the text starts with markup
	Text  string `yaml:"text"`
}

// Options configures emission.
type Options struct {
	// Highlight enables chroma markup for code blocks with a known language.
	Highlight bool
	// Style names the chroma style used by StyleCSS. Empty selects DefaultStyle.
	Style string
}

// writer accumulates the HTML of one page.
type writer struct {
	reg      *node.Registry
	opts     Options
	sb       strings.Builder
	headings []Heading
}

func (w *writer) str(s string) { w.sb.WriteString(s) }

func (w *writer) escape(s string) { w.sb.Write(util.EscapeHTML([]byte(s))) }

// emitter writes one render kind. Kinds with full take over their children;
// the others get open, their children in order, then close.
type emitter struct {
	open, close func(w *writer, rec *node.Record)
	full        func(w *writer, rec *node.Record)
}

func tag(open, close string) emitter {
	return emitter{
		open:  func(w *writer, _ *node.Record) { w.str(open) },
		close: func(w *writer, _ *node.Record) { w.str(close) },
	}
}

var emitters map[node.Kind]emitter

func init() {
	emitters = map[node.Kind]emitter{
		node.RndPage:      {},
		node.RndParagraph: tag("<p>", "</p>"),
		node.RndList:      tag("<ul>", "</ul>"),
		node.RndItem:      tag("<li>", "</li>"),
		node.RndStrong:    tag("<strong>", "</strong>"),
		node.RndItalic:    tag("<i>", "</i>"),
		node.RndNote:      tag(`<div class="note">`, "</div>"),
		node.RndHeading:   {full: emitHeading},
		node.RndText:      {full: func(w *writer, rec *node.Record) { w.escape(rec.Text) }},
		node.RndLink:      {full: emitLink},
		node.RndImage:     {full: emitImage},
		node.RndCode:      {full: emitCode},
		node.RndVideo:     {full: emitVideo},
	}
	for _, k := range node.Kinds() {
		if k.Class() != node.ClassRender {
			continue
		}
		if _, ok := emitters[k]; !ok {
			panic(fmt.Sprintf("render: kind %s has no emitter", k))
		}
	}
}

// Render emits the render page at root.
func Render(reg *node.Registry, root node.ID, opts Options) Page {
	rec := reg.MustGet(root)
	if rec.Kind != node.RndPage {
		node.Violation("render", rec, "not a render page")
	}

	w := &writer{reg: reg, opts: opts}
	w.node(rec)

	page := Page{Name: rec.Name, HTML: w.sb.String(), Headings: w.headings}
	page.Path, _ = rec.Params.Get(syntax.ParamPath)
	page.Title, _ = rec.Params.Get(syntax.ParamTitle)
	if page.Path == "" {
		page.Path = rec.Name
	}
	if page.Title == "" && len(page.Headings) > 0 {
		page.Title = page.Headings[0].Text
	}
	return page
}

// Pages renders every page of the tree in order.
func Pages(reg *node.Registry, tree Tree, opts Options) []Page {
	pages := make([]Page, 0, len(tree.Roots))
	for _, root := range tree.Roots {
		pages = append(pages, Render(reg, root, opts))
	}
	return pages
}

func (w *writer) node(rec *node.Record) {
	e, ok := emitters[rec.Kind]
	if !ok {
		node.Violation("emit", rec, "no emitter")
	}
	if e.full != nil {
		e.full(w, rec)
		return
	}
	if e.open != nil {
		e.open(w, rec)
	}
	w.children(rec)
	if e.close != nil {
		e.close(w, rec)
	}
}

func (w *writer) children(rec *node.Record) {
	for _, id := range rec.Children {
		w.node(w.reg.MustGet(id))
	}
}

// emitHeading renders the content first so the anchor can be derived from it.
func emitHeading(w *writer, rec *node.Record) {
	inner := &writer{reg: w.reg, opts: w.opts}
	inner.children(rec)
	content := inner.sb.String()

	level := min(max(rec.Level, 1), 6)
	id := Anchor(content)
	if id == "" {
		fmt.Fprintf(&w.sb, "<h%d>%s</h%d>", level, content, level)
	} else {
		fmt.Fprintf(&w.sb, `<h%d><a id="%s" href="#%s">%s</a></h%d>`, level, id, id, content, level)
	}
	w.headings = append(w.headings, Heading{Level: level, ID: id, Text: TextContent(content)})
}

// emitLink renders a hyperlink, or only its text when the target is unsafe.
func emitLink(w *writer, rec *node.Record) {
	if html.IsDangerousURL([]byte(rec.Link)) {
		w.escape(rec.Text)
		return
	}
	w.str(`<a href="`)
	w.sb.Write(util.EscapeHTML(util.URLEscape([]byte(rec.Link), false)))
	w.str(`">`)
	w.escape(rec.Text)
	w.str("</a>")
}

// emitImage drops images whose target has no file extension.
func emitImage(w *writer, rec *node.Record) {
	if !validImage(rec.Link) {
		return
	}
	w.str(`<img src="`)
	w.sb.Write(util.EscapeHTML(util.URLEscape([]byte(rec.Link), false)))
	w.str(`" alt="`)
	w.escape(rec.Text)
	w.str(`">`)
}

// validImage reports whether link is a safe image target with a file
// extension. Targets such as "/" would emit a broken reference.
func validImage(link string) bool {
	if html.IsDangerousURL([]byte(link)) {
		return false
	}
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return len(path.Ext(u.Path)) > 1
}

func emitCode(w *writer, rec *node.Record) {
	body := trimNewlines(rec.Text)
	if w.opts.Highlight {
		if out, ok := highlight(rec.Name, body); ok {
			w.str(out)
			return
		}
	}
	if rec.Name != "" {
		w.str(`<pre><code class="language-`)
		w.escape(rec.Name)
		w.str(`">`)
	} else {
		w.str("<pre><code>")
	}
	w.escape(body)
	w.str("</code></pre>")
}

// trimNewlines strips at most one leading and one trailing newline.
func trimNewlines(s string) string {
	s = strings.TrimPrefix(s, "\n")
	return strings.TrimSuffix(s, "\n")
}

func emitVideo(w *writer, rec *node.Record) {
	src := rec.Link
	if id := videoID(rec.Link); id != "" {
		src = "https://www.youtube.com/embed/" + url.PathEscape(id)
	}
	w.str(`<div class="video"><iframe src="`)
	w.escape(src)
	w.str(`" allowfullscreen></iframe></div>`)
}

// videoID extracts the video id from youtu.be, watch and embed links.
func videoID(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch {
	case host == "youtu.be":
		return strings.Trim(u.Path, "/")
	case host == "youtube.com" || host == "m.youtube.com":
		if v := u.Query().Get("v"); v != "" {
			return v
		}
		if rest, ok := strings.CutPrefix(u.Path, "/embed/"); ok {
			return strings.Trim(rest, "/")
		}
	}
	return ""
}

package render

import (
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyle is the chroma style used when none is configured.
const DefaultStyle = "github"

// formatter emits CSS classes so one stylesheet serves every page.
var formatter = chromahtml.New(chromahtml.WithClasses(true))

// highlight renders code with chroma. It reports false for unknown languages
// or tokenizer failures so the caller can fall back to plain escaping.
func highlight(lang, code string) (string, bool) {
	if lang == "" {
		return "", false
	}
	lexer := lexers.Get(lang)
	if lexer == nil {
		return "", false
	}
	it, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return "", false
	}
	var b strings.Builder
	if err := formatter.Format(&b, styles.Fallback, it); err != nil {
		return "", false
	}
	return b.String(), true
}

// StyleCSS writes the stylesheet for highlighted code in the named style.
// Unknown names select the fallback style.
func StyleCSS(w io.Writer, name string) error {
	if name == "" {
		name = DefaultStyle
	}
	return formatter.WriteCSS(w, styles.Get(name))
}

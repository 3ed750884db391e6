package render

import (
	"html"
	"strings"
	"unicode"

	nethtml "golang.org/x/net/html"
)

// Anchor derives a heading id from its rendered content: the text before
// the first tag, unescaped and lowercased, with whitespace turned into
// hyphens, other punctuation dropped and trailing hyphens trimmed.
func Anchor(content string) string {
	if i := strings.IndexByte(content, '<'); i >= 0 {
		content = content[:i]
	}
	content = strings.ToLower(html.UnescapeString(content))

	var b strings.Builder
	for _, r := range content {
		switch {
		case unicode.IsSpace(r):
			b.WriteByte('-')
		case r == '-' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// TextContent returns the text of an HTML fragment with tags removed and
// entities decoded.
func TextContent(fragment string) string {
	z := nethtml.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	for {
		switch z.Next() {
		case nethtml.ErrorToken:
			return strings.TrimSpace(b.String())
		case nethtml.TextToken:
			b.Write(z.Text())
		}
	}
}

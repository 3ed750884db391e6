// Package lexer splits the text of one source page into a flat, gap-free
// sequence of lexical tokens.
//
// Matchers are tried in a fixed priority order at the end of the last token;
// the first that recognizes something wins. When none does, one rune is
// absorbed into a generic content token held in an in-progress slot, so runs
// of plain text become a single token without mutating appended records.
package lexer

import (
	"strings"
	"unicode/utf8"

	"github.com/alnah/go-mdpages/internal/node"
)

// matcher recognizes one token kind at text[pos:]. It returns the number of
// bytes consumed (0 for no match) and the heading level where relevant.
type matcher struct {
	kind  node.Kind
	match func(text string, pos int) (n, level int)
}

// matchers in priority order. Earlier entries shadow later ones.
var matchers = []matcher{
	{node.TokCommentOpen, literal("<!--")},
	{node.TokCommentClose, literal("-->")},
	{node.TokParagraphBreak, paragraphBreak},
	{node.TokNewline, literal("\n")},
	{node.TokSpace, spaces},
	{node.TokContent, run('#', 4)},
	{node.TokHeading, heading},
	{node.TokFence, literal("```")},
	{node.TokImage, literal("![")},
	{node.TokBullet, lineStart(literal("* "))},
	{node.TokContent, run('*', 3)},
	{node.TokBold, bold},
	{node.TokItalic, italic},
	{node.TokParenOpen, literal("(")},
	{node.TokParenClose, literal(")")},
	{node.TokBracketOpen, literal("[")},
	{node.TokBracketClose, literal("]")},
	{node.TokSingleQuote, literal("'")},
	{node.TokDoubleQuote, literal(`"`)},
	{node.TokEquals, literal("=")},
	{node.TokLinkPrefix, literal("http://")},
	{node.TokLinkPrefix, literal("https://")},
}

// Order returns the token kinds in matcher priority order, generic content last.
func Order() []node.Kind {
	out := make([]node.Kind, 0, len(matchers)+1)
	for _, m := range matchers {
		out = append(out, m.kind)
	}
	return append(out, node.TokContent)
}

// Tokenize lexes the text of source page src, appending the tokens as its
// children, and returns their ids. Termination is guaranteed: every step
// consumes at least one rune.
func Tokenize(reg *node.Registry, src node.ID) []node.ID {
	page := reg.MustGet(src)
	text := page.Text

	var (
		ids     []node.ID
		pos     int
		pending = -1 // begin of the in-progress content token
	)

	emit := func(kind node.Kind, begin, end, level int) {
		rec := reg.Add(src, node.Record{
			Kind:  kind,
			Stage: node.StageLex,
			Page:  src,
			Begin: begin,
			End:   end,
			Level: level,
		})
		ids = append(ids, rec.ID)
	}
	flush := func() {
		if pending >= 0 {
			emit(node.TokContent, pending, pos, 0)
			pending = -1
		}
	}

	for pos < len(text) {
		kind, n, level, ok := matchAt(text, pos)
		if ok && kind == node.TokContent {
			// Overlong marker runs are plain content.
			if pending < 0 {
				pending = pos
			}
			pos += n
			continue
		}
		if ok {
			flush()
			emit(kind, pos, pos+n, level)
			pos += n
			continue
		}
		if pending < 0 {
			pending = pos
		}
		_, size := utf8.DecodeRuneInString(text[pos:])
		pos += size
	}
	flush()

	if page.End != len(text) {
		node.Violation("tokenize", page, "tokens cover %d of %d bytes", page.End, len(text))
	}
	return ids
}

func matchAt(text string, pos int) (node.Kind, int, int, bool) {
	for _, m := range matchers {
		if n, level := m.match(text, pos); n > 0 {
			return m.kind, n, level, true
		}
	}
	return node.KindNone, 0, 0, false
}

func literal(lit string) func(string, int) (int, int) {
	return func(text string, pos int) (int, int) {
		if strings.HasPrefix(text[pos:], lit) {
			return len(lit), 0
		}
		return 0, 0
	}
}

// paragraphBreak matches two or more consecutive newlines.
func paragraphBreak(text string, pos int) (int, int) {
	s, n := text[pos:], 0
	for n < len(s) && s[n] == '\n' {
		n++
	}
	if n < 2 {
		return 0, 0
	}
	return n, 0
}

func spaces(text string, pos int) (int, int) {
	s, n := text[pos:], 0
	for n < len(s) && (s[n] == ' ' || s[n] == '\t') {
		n++
	}
	return n, 0
}

// run matches least or more consecutive c.
func run(c byte, least int) func(string, int) (int, int) {
	return func(text string, pos int) (int, int) {
		s, n := text[pos:], 0
		for n < len(s) && s[n] == c {
			n++
		}
		if n < least {
			return 0, 0
		}
		return n, 0
	}
}

// lineStart restricts m to positions right after a newline or at the start.
func lineStart(m func(string, int) (int, int)) func(string, int) (int, int) {
	return func(text string, pos int) (int, int) {
		if pos > 0 && text[pos-1] != '\n' {
			return 0, 0
		}
		return m(text, pos)
	}
}

// heading matches one to three '#'. Four or more is not a heading marker.
func heading(text string, pos int) (int, int) {
	s, n := text[pos:], 0
	for n < len(s) && s[n] == '#' {
		n++
	}
	if n == 0 || n > 3 {
		return 0, 0
	}
	return n, n
}

// bold matches "**" unless a third '*' follows.
func bold(text string, pos int) (int, int) {
	s := text[pos:]
	if strings.HasPrefix(s, "**") && !strings.HasPrefix(s, "***") {
		return 2, 0
	}
	return 0, 0
}

// italic matches a single '*' unless it is doubled.
func italic(text string, pos int) (int, int) {
	s := text[pos:]
	if strings.HasPrefix(s, "*") && !strings.HasPrefix(s, "**") {
		return 1, 0
	}
	return 0, 0
}

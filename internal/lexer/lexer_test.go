package lexer_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-mdpages/internal/lexer"
	"github.com/alnah/go-mdpages/internal/node"
)

type tok struct {
	Kind  node.Kind
	Text  string
	Level int
}

func lex(t *testing.T, text string) []tok {
	t.Helper()

	reg := node.NewRegistry()
	doc := reg.Add(node.NoID, node.Record{Kind: node.KindDocument})
	src := reg.AddSource(doc.ID, "index", text)

	var out []tok
	for _, id := range lexer.Tokenize(reg, src.ID) {
		rec := reg.MustGet(id)
		out = append(out, tok{Kind: rec.Kind, Text: reg.Text(id), Level: rec.Level})
	}
	reg.Verify(src.ID)
	return out
}

// ---------------------------------------------------------------------------
// TestTokenize - Token kinds and priority
// ---------------------------------------------------------------------------

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []tok
	}{
		{
			name: "empty",
			in:   "",
			want: nil,
		},
		{
			name: "plain text coalesces",
			in:   "hello",
			want: []tok{{node.TokContent, "hello", 0}},
		},
		{
			name: "newline and paragraph break",
			in:   "a\nb\n\n\nc",
			want: []tok{
				{node.TokContent, "a", 0},
				{node.TokNewline, "\n", 0},
				{node.TokContent, "b", 0},
				{node.TokParagraphBreak, "\n\n\n", 0},
				{node.TokContent, "c", 0},
			},
		},
		{
			name: "heading levels",
			in:   "## Title",
			want: []tok{
				{node.TokHeading, "##", 2},
				{node.TokSpace, " ", 0},
				{node.TokContent, "Title", 0},
			},
		},
		{
			name: "four hashes are content",
			in:   "#### x",
			want: []tok{
				{node.TokContent, "####", 0},
				{node.TokSpace, " ", 0},
				{node.TokContent, "x", 0},
			},
		},
		{
			name: "bold italic and triple star",
			in:   "**a** *b* ***",
			want: []tok{
				{node.TokBold, "**", 0},
				{node.TokContent, "a", 0},
				{node.TokBold, "**", 0},
				{node.TokSpace, " ", 0},
				{node.TokItalic, "*", 0},
				{node.TokContent, "b", 0},
				{node.TokItalic, "*", 0},
				{node.TokSpace, " ", 0},
				{node.TokContent, "***", 0},
			},
		},
		{
			name: "bullet before italic",
			in:   "* item",
			want: []tok{
				{node.TokBullet, "* ", 0},
				{node.TokContent, "item", 0},
			},
		},
		{
			name: "comment markers",
			in:   "<!--x-->",
			want: []tok{
				{node.TokCommentOpen, "<!--", 0},
				{node.TokContent, "x", 0},
				{node.TokCommentClose, "-->", 0},
			},
		},
		{
			name: "link punctuation",
			in:   `[a](http://b.c)`,
			want: []tok{
				{node.TokBracketOpen, "[", 0},
				{node.TokContent, "a", 0},
				{node.TokBracketClose, "]", 0},
				{node.TokParenOpen, "(", 0},
				{node.TokLinkPrefix, "http://", 0},
				{node.TokContent, "b.c", 0},
				{node.TokParenClose, ")", 0},
			},
		},
		{
			name: "custom block parameters",
			in:   `(Page Path="p2")`,
			want: []tok{
				{node.TokParenOpen, "(", 0},
				{node.TokContent, "Page", 0},
				{node.TokSpace, " ", 0},
				{node.TokContent, "Path", 0},
				{node.TokEquals, "=", 0},
				{node.TokDoubleQuote, `"`, 0},
				{node.TokContent, "p2", 0},
				{node.TokDoubleQuote, `"`, 0},
				{node.TokParenClose, ")", 0},
			},
		},
		{
			name: "fence and image",
			in:   "```\n![",
			want: []tok{
				{node.TokFence, "```", 0},
				{node.TokNewline, "\n", 0},
				{node.TokImage, "![", 0},
			},
		},
		{
			name: "multibyte content",
			in:   "héllo 日本",
			want: []tok{
				{node.TokContent, "héllo", 0},
				{node.TokSpace, " ", 0},
				{node.TokContent, "日本", 0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := lex(t, tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Tokenize(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestTokenizeTotal - Tokens tile arbitrary input without gaps
// ---------------------------------------------------------------------------

func TestTokenizeTotal(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"# a\n* b\n\n**c** *d*\n```go\nx\n```\n<!-- e -->",
		"(Note)(Youtube Link='https://youtu.be/x')[](",
		"\n\n\n\t \t",
		strings.Repeat("*#[]()'\"=!<->", 20),
		"\xff\xfe invalid utf8",
	}

	for _, in := range inputs {
		toks := lex(t, in)
		var b strings.Builder
		for i, tk := range toks {
			if tk.Text == "" {
				t.Errorf("token %d of %q is empty", i, in)
			}
			if i > 0 && tk.Kind == node.TokContent && toks[i-1].Kind == node.TokContent {
				t.Errorf("adjacent content tokens at %d of %q", i, in)
			}
			b.WriteString(tk.Text)
		}
		if b.String() != in {
			t.Errorf("tokens reassemble to %q, want %q", b.String(), in)
		}
	}
}

// ---------------------------------------------------------------------------
// TestOrder - Matcher priority is exposed and ends in the fallback
// ---------------------------------------------------------------------------

func TestOrder(t *testing.T) {
	t.Parallel()

	order := lexer.Order()
	if order[0] != node.TokCommentOpen {
		t.Errorf("Order()[0] = %v, want %v", order[0], node.TokCommentOpen)
	}
	if last := order[len(order)-1]; last != node.TokContent {
		t.Errorf("last kind = %v, want %v", last, node.TokContent)
	}
}

package syntax

import (
	"net/url"
	"strings"

	"github.com/alnah/go-mdpages/internal/node"
)

// Custom block names.
const (
	BlockNote    = "Note"
	BlockYoutube = "Youtube"
	BlockPage    = "Page"
)

// Page parameters carried by page breaks.
const (
	ParamPath  = "Path"
	ParamTitle = "Title"
	ParamLink  = "Link"
)

// cursor walks the tokens of one page.
type cursor struct {
	reg  *node.Registry
	toks []*node.Record
	pos  int
}

// at returns the token k positions ahead, or nil past the end.
func (c *cursor) at(k int) *node.Record {
	if i := c.pos + k; i >= 0 && i < len(c.toks) {
		return c.toks[i]
	}
	return nil
}

func (c *cursor) is(k int, kinds ...node.Kind) bool {
	t := c.at(k)
	if t == nil {
		return false
	}
	for _, kind := range kinds {
		if t.Kind == kind {
			return true
		}
	}
	return false
}

// atLineStart reports whether the current token starts a line.
func (c *cursor) atLineStart() bool {
	return c.pos == 0 || c.is(-1, node.TokNewline, node.TokParagraphBreak)
}

func (c *cursor) text(k int) string {
	return c.reg.Text(c.at(k).ID)
}

// slice returns the source text of tokens [from, to) relative to pos.
func (c *cursor) slice(from, to int) string {
	if from >= to {
		return ""
	}
	first, last := c.at(from), c.at(to-1)
	return c.reg.MustGet(first.Page).Text[first.Begin:last.End]
}

// scanUntil advances from k while tokens are not of kind stop and not in
// reject. It returns the index of the stop token, or -1.
func (c *cursor) scanUntil(k int, stop node.Kind, reject ...node.Kind) int {
	for ; c.at(k) != nil; k++ {
		if c.is(k, stop) {
			return k
		}
		if c.is(k, reject...) {
			return -1
		}
	}
	return -1
}

// recognizer tries to build one syntax node at the cursor. It returns the
// node template (span is filled by the caller) and the tokens consumed.
type recognizer struct {
	name  string
	match func(c *cursor) (node.Record, int, bool)
}

// recognizers in priority order.
var recognizers = []recognizer{
	{"comment-open", single(node.TokCommentOpen, node.SynCommentOpen)},
	{"comment-close", single(node.TokCommentClose, node.SynCommentClose)},
	{"fence", single(node.TokFence, node.SynFence)},
	{"title", recognizeTitle},
	{"bullet", recognizeBullet},
	{"image", recognizeImage},
	{"link", recognizeLink},
	{"bare-link", recognizeBareLink},
	{"custom-block", recognizeCustomBlock},
	{"bold", single(node.TokBold, node.SynBoldMarker)},
	{"italic", single(node.TokItalic, node.SynItalicMarker)},
	{"space", single(node.TokSpace, node.SynSpace)},
	{"newline", single(node.TokNewline, node.SynNewline)},
	{"paragraph-break", single(node.TokParagraphBreak, node.SynParagraphBreak)},
}

// RecognizerOrder returns the recognizer names in priority order.
func RecognizerOrder() []string {
	out := make([]string, len(recognizers))
	for i, r := range recognizers {
		out[i] = r.name
	}
	return out
}

// Recognize runs Pass 1 over the tokens of each source page.
func Recognize(reg *node.Registry, doc node.ID, sources []node.ID) Recognized {
	b := newBuilder(reg, doc, node.StageRecognize)
	out := Recognized{Tree: b.tree()}
	for _, src := range sources {
		out.Roots = append(out.Roots, b.recognizePage(out.Tree, src))
	}
	return out
}

func (b *builder) recognizePage(tree, src node.ID) node.ID {
	source := b.reg.MustGet(src)
	page := b.reg.Add(tree, node.Record{
		Kind:  node.SynPage,
		Stage: b.stage,
		Page:  src,
		Name:  source.Name,
		Ref:   src,
	})

	c := &cursor{reg: b.reg}
	for _, id := range source.Children {
		c.toks = append(c.toks, b.reg.MustGet(id))
	}

	// pending holds the span of fallback text not yet appended.
	pendingBegin, pendingEnd := -1, -1
	flush := func() {
		if pendingBegin >= 0 {
			b.leaf(page.ID, node.SynText, src, pendingBegin, pendingEnd, node.NoID)
			pendingBegin, pendingEnd = -1, -1
		}
	}

	for c.pos < len(c.toks) {
		tpl, n, ok := recognizeAt(c)
		if !ok {
			t := c.at(0)
			if pendingBegin < 0 {
				pendingBegin = t.Begin
			}
			pendingEnd = t.End
			c.pos++
			continue
		}
		flush()
		first, last := c.at(0), c.at(n-1)
		tpl.Stage = b.stage
		tpl.Page = src
		tpl.Begin = first.Begin
		tpl.End = last.End
		tpl.Ref = first.ID
		b.reg.Add(page.ID, tpl)
		c.pos += n
	}
	flush()

	if page.Begin != 0 || page.End != len(source.Text) {
		node.Violation("recognize", page, "covers [%d,%d) of %d bytes", page.Begin, page.End, len(source.Text))
	}
	return page.ID
}

func recognizeAt(c *cursor) (node.Record, int, bool) {
	for _, r := range recognizers {
		if tpl, n, ok := r.match(c); ok && n > 0 {
			return tpl, n, true
		}
	}
	return node.Record{}, 0, false
}

func single(tok, syn node.Kind) func(*cursor) (node.Record, int, bool) {
	return func(c *cursor) (node.Record, int, bool) {
		if !c.is(0, tok) {
			return node.Record{}, 0, false
		}
		return node.Record{Kind: syn}, 1, true
	}
}

// recognizeTitle matches a heading marker at line start followed by spaces.
func recognizeTitle(c *cursor) (node.Record, int, bool) {
	if !c.is(0, node.TokHeading) || !c.atLineStart() || !c.is(1, node.TokSpace) {
		return node.Record{}, 0, false
	}
	return node.Record{Kind: node.SynTitleMarker, Level: c.at(0).Level}, 2, true
}

// recognizeBullet matches "* " at line start.
func recognizeBullet(c *cursor) (node.Record, int, bool) {
	if !c.is(0, node.TokBullet) || !c.atLineStart() {
		return node.Record{}, 0, false
	}
	return node.Record{Kind: node.SynBulletMarker}, 1, true
}

var lineEnds = []node.Kind{node.TokNewline, node.TokParagraphBreak}

// target matches "(url)" starting at k and returns the url and the index
// after the closing paren.
func (c *cursor) target(k int) (string, int, bool) {
	if !c.is(k, node.TokParenOpen) {
		return "", 0, false
	}
	end := c.scanUntil(k+1, node.TokParenClose, node.TokSpace, node.TokNewline, node.TokParagraphBreak, node.TokParenOpen)
	if end <= k+1 {
		return "", 0, false
	}
	return c.slice(k+1, end), end + 1, true
}

// recognizeImage matches ![alt](url).
func recognizeImage(c *cursor) (node.Record, int, bool) {
	if !c.is(0, node.TokImage) {
		return node.Record{}, 0, false
	}
	closeAlt := c.scanUntil(1, node.TokBracketClose, lineEnds...)
	if closeAlt < 0 {
		return node.Record{}, 0, false
	}
	link, n, ok := c.target(closeAlt + 1)
	if !ok {
		return node.Record{}, 0, false
	}
	return node.Record{Kind: node.SynImage, Text: c.slice(1, closeAlt), Link: link}, n, true
}

// recognizeLink matches [text](url).
func recognizeLink(c *cursor) (node.Record, int, bool) {
	if !c.is(0, node.TokBracketOpen) {
		return node.Record{}, 0, false
	}
	closeText := c.scanUntil(1, node.TokBracketClose, append(lineEnds, node.TokBracketOpen)...)
	if closeText <= 1 {
		return node.Record{}, 0, false
	}
	link, n, ok := c.target(closeText + 1)
	if !ok {
		return node.Record{}, 0, false
	}
	return node.Record{Kind: node.SynLink, Text: c.slice(1, closeText), Link: link}, n, true
}

// recognizeBareLink matches http:// or https:// followed by a run of content.
func recognizeBareLink(c *cursor) (node.Record, int, bool) {
	if !c.is(0, node.TokLinkPrefix) {
		return node.Record{}, 0, false
	}
	n := 1
	for c.is(n, node.TokContent, node.TokEquals) {
		n++
	}
	if n == 1 {
		return node.Record{}, 0, false
	}
	link := c.slice(0, n)
	return node.Record{Kind: node.SynLink, Text: link, Link: link}, n, true
}

// recognizeCustomBlock matches (Name key="value" ...) for the known block
// names. Youtube additionally requires a valid Link parameter.
func recognizeCustomBlock(c *cursor) (node.Record, int, bool) {
	if !c.is(0, node.TokParenOpen) || !c.is(1, node.TokContent) {
		return node.Record{}, 0, false
	}
	name := c.text(1)
	var kind node.Kind
	switch name {
	case BlockNote:
		kind = node.SynNoteTag
	case BlockYoutube:
		kind = node.SynYoutube
	case BlockPage:
		kind = node.SynPageBreak
	default:
		return node.Record{}, 0, false
	}

	params, n, ok := c.params(2)
	if !ok {
		return node.Record{}, 0, false
	}
	tpl := node.Record{Kind: kind, Name: name, Params: params}

	if kind == node.SynYoutube {
		link, _ := params.Get(ParamLink)
		if !ValidLink(link) {
			return node.Record{}, 0, false
		}
		tpl.Link = link
	}
	return tpl, n, true
}

// params parses ` key="value"` pairs starting at k through the closing paren.
func (c *cursor) params(k int) (node.Params, int, bool) {
	var params node.Params
	for {
		if c.is(k, node.TokParenClose) {
			return params, k + 1, true
		}
		if !c.is(k, node.TokSpace) {
			return nil, 0, false
		}
		k++
		if c.is(k, node.TokParenClose) {
			continue
		}
		if !c.is(k, node.TokContent) || !isIdent(c.text(k)) || !c.is(k+1, node.TokEquals) ||
			!c.is(k+2, node.TokDoubleQuote, node.TokSingleQuote) {
			return nil, 0, false
		}
		key, quote := c.text(k), c.at(k+2).Kind
		end := c.scanUntil(k+3, quote, lineEnds...)
		if end < 0 {
			return nil, 0, false
		}
		params = append(params, node.Param{Key: key, Value: c.slice(k+3, end)})
		k = end + 1
	}
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' || r == '-') {
			return false
		}
	}
	return true
}

// ValidLink reports whether s is an absolute http or https URL with a host.
func ValidLink(s string) bool {
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return false
	}
	u, err := url.Parse(s)
	return err == nil && u.Host != ""
}

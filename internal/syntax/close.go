package syntax

import (
	"slices"

	"github.com/alnah/go-mdpages/internal/node"
)

// Close runs Pass 2: block constructs and marker pairs become compound
// nodes; openers without a partner become text.
func Close(reg *node.Registry, doc node.ID, in Recognized) Closed {
	b := newBuilder(reg, doc, node.StageClose)
	out := Closed{Tree: b.tree()}
	for _, root := range in.Roots {
		page := b.copyTree(out.Tree, b.get(root), func(owner node.ID, children []node.ID) {
			b.closeSeq(owner, b.records(children), false)
		})
		out.Roots = append(out.Roots, page.ID)
	}
	return out
}

func (b *builder) closeSeq(owner node.ID, recs []*node.Record, inNote bool) {
	for i := 0; i < len(recs); {
		rec := recs[i]
		rule := Lookup(rec.Kind)

		switch {
		case rule.Close == CloseBlock:
			j := -1
			if rec.Kind != node.SynNoteTag || !inNote {
				j = findBlockCloser(recs, i, rule)
			}
			if j < 0 {
				b.text(owner, rec)
				i++
				continue
			}
			b.closeBlock(owner, rule, recs[i:j+1])
			i = j + 1

		case rule.Close == ClosePair:
			j := findPairCloser(recs, i)
			if j < 0 {
				b.text(owner, rec)
				i++
				continue
			}
			c := b.compound(owner, rule.Into, rec, rec.End)
			b.closeSeq(c.ID, recs[i+1:j], inNote)
			b.leaf(c.ID, node.SynMarker, recs[j].Page, recs[j].Begin, recs[j].End, recs[j].ID)
			i = j + 1

		case rec.Kind == node.SynCommentClose,
			rec.Kind == node.SynPageBreak && inNote:
			b.text(owner, rec)
			i++

		default:
			b.derive(owner, rec)
			i++
		}
	}
}

// closeBlock builds the compound of a matched block. recs runs from the
// opener through the closer inclusive. The opener becomes the compound's
// head and the closer its last child.
func (b *builder) closeBlock(owner node.ID, rule Rule, recs []*node.Record) {
	open, closer := recs[0], recs[len(recs)-1]
	interior := recs[1 : len(recs)-1]

	headEnd := open.End
	lang := ""
	if rule.Into == node.SynCode && len(interior) > 1 &&
		interior[0].Kind == node.SynText && endsLine(interior[1].Kind) {
		// A language tag is a word alone on the opening fence line.
		lang = interior[0].Text
		headEnd = interior[0].End
		interior = interior[1:]
	}
	c := b.compound(owner, rule.Into, open, headEnd)
	c.Params = open.Params.Clone()
	if lang != "" {
		c.Name = lang
	}

	switch {
	case rule.Body != node.KindNone:
		if headEnd < closer.Begin {
			b.leaf(c.ID, rule.Body, open.Page, headEnd, closer.Begin, open.ID)
		}
	default:
		b.closeSeq(c.ID, interior, true)
	}

	b.leaf(c.ID, node.SynMarker, closer.Page, closer.Begin, closer.End, closer.ID)
}

// compound creates a node of kind whose head covers open through headEnd.
func (b *builder) compound(owner node.ID, kind node.Kind, open *node.Record, headEnd int) *node.Record {
	return b.reg.Add(owner, node.Record{
		Kind:  kind,
		Stage: b.stage,
		Page:  open.Page,
		Begin: open.Begin,
		End:   headEnd,
		Head:  headEnd - open.Begin,
		Name:  open.Name,
		Ref:   open.ID,
	})
}

// findBlockCloser returns the index of the closer matching recs[i], or -1.
// A note closer is a parameterless note tag; notes skip over comments and
// code blocks so their markers cannot close the note.
func findBlockCloser(recs []*node.Record, i int, rule Rule) int {
	note := rule.Into == node.SynNote
	for k := i + 1; k < len(recs); k++ {
		rec := recs[k]
		if rec.Kind == rule.Closer && (!note || len(rec.Params) == 0) {
			return k
		}
		if note && (rec.Kind == node.SynCommentOpen || rec.Kind == node.SynFence) {
			if end := findBlockCloser(recs, k, Lookup(rec.Kind)); end >= 0 {
				k = end
			}
		}
	}
	return -1
}

// findPairCloser returns the index of the marker closing recs[i], or -1
// when the pair would be empty or would cross a paragraph or block.
func findPairCloser(recs []*node.Record, i int) int {
	for k := i + 1; k < len(recs); k++ {
		rec := recs[k]
		switch {
		case rec.Kind == recs[i].Kind:
			if k == i+1 {
				return -1
			}
			return k
		case isPairStop(rec.Kind):
			return -1
		case rec.Kind == node.SynCommentOpen:
			if end := findBlockCloser(recs, k, Lookup(rec.Kind)); end >= 0 {
				k = end
			}
		}
	}
	return -1
}

func endsLine(kind node.Kind) bool {
	return kind == node.SynNewline || kind == node.SynParagraphBreak
}

func isPairStop(kind node.Kind) bool {
	return slices.Contains(pairStops, kind)
}

package render

import (
	"github.com/alnah/go-mdpages/internal/node"
	"github.com/alnah/go-mdpages/internal/syntax"
)

// Tree is the render tree of a document: one render page per output page.
type Tree struct {
	Tree  node.ID
	Roots []node.ID
}

type builder struct {
	reg *node.Registry
}

// Build derives the render tree from the merged syntax tree.
func Build(reg *node.Registry, doc node.ID, in syntax.Merged) Tree {
	b := &builder{reg: reg}
	out := Tree{Tree: reg.Add(doc, node.Record{Kind: node.KindTree, Stage: node.StageRender}).ID}
	for _, root := range in.Roots {
		page := b.get(root)
		p := b.add(out.Tree, node.RndPage, page)
		p.Name = page.Name
		p.Params = page.Params.Clone()
		b.blocks(p.ID, page.Children)
		out.Roots = append(out.Roots, p.ID)
	}
	return out
}

func (b *builder) get(id node.ID) *node.Record {
	rec := b.reg.MustGet(id)
	if rec.Stage != node.StageMerge {
		node.Violation("render", rec, "stage %s read by render", rec.Stage)
	}
	return rec
}

// add creates a render record of kind derived from syn.
func (b *builder) add(owner node.ID, kind node.Kind, syn *node.Record) *node.Record {
	return b.reg.Add(owner, node.Record{Kind: kind, Stage: node.StageRender, Ref: syn.ID})
}

// blocks builds the children of a page or note.
func (b *builder) blocks(owner node.ID, ids []node.ID) {
	for _, id := range ids {
		syn := b.get(id)
		switch syn.Kind {
		case node.SynParagraph:
			if !visible(b.reg, syn) {
				continue
			}
			p := b.add(owner, node.RndParagraph, syn)
			b.inlines(p.ID, syn.Children)

		case node.SynTitle:
			h := b.add(owner, node.RndHeading, syn)
			h.Level = syn.Level
			b.inlines(h.ID, syn.Children)

		case node.SynBullet:
			list := b.reg.Last(owner)
			if !list.IsValid() || b.reg.MustGet(list).Kind != node.RndList {
				list = b.add(owner, node.RndList, syn).ID
			}
			item := b.add(list, node.RndItem, syn)
			b.inlines(item.ID, syn.Children)

		case node.SynCode:
			c := b.add(owner, node.RndCode, syn)
			c.Name = syn.Name
			c.Text = codeBody(b.reg, syn)

		case node.SynNote:
			n := b.add(owner, node.RndNote, syn)
			n.Params = syn.Params.Clone()
			b.blocks(n.ID, syn.Children)

		case node.SynYoutube:
			v := b.add(owner, node.RndVideo, syn)
			v.Link = syn.Link

		case node.SynParagraphBreak, node.SynMarker, node.SynComment:
			// no output

		default:
			node.Violation("render", syn, "no block renderer for %s", syn.Kind)
		}
	}
}

// inlines builds the inline children of a paragraph, heading, item or span.
func (b *builder) inlines(owner node.ID, ids []node.ID) {
	recs := make([]*node.Record, len(ids))
	for i, id := range ids {
		recs[i] = b.get(id)
	}

	for i, syn := range recs {
		switch syn.Kind {
		case node.SynText:
			t := b.add(owner, node.RndText, syn)
			t.Text = syn.Text

		case node.SynSpace:
			t := b.add(owner, node.RndText, syn)
			t.Text = " "

		case node.SynNewline:
			// A line break inside a paragraph reads as a space, except at the edges.
			if hasContent(recs[:i]) && hasContent(recs[i+1:]) {
				t := b.add(owner, node.RndText, syn)
				t.Text = " "
			}

		case node.SynBold:
			s := b.add(owner, node.RndStrong, syn)
			b.inlines(s.ID, syn.Children)

		case node.SynItalic:
			s := b.add(owner, node.RndItalic, syn)
			b.inlines(s.ID, syn.Children)

		case node.SynLink:
			l := b.add(owner, node.RndLink, syn)
			l.Text, l.Link = syn.Text, syn.Link

		case node.SynImage:
			if !validImage(syn.Link) {
				continue
			}
			img := b.add(owner, node.RndImage, syn)
			img.Text, img.Link = syn.Text, syn.Link

		case node.SynMarker, node.SynComment:
			// no output

		default:
			node.Violation("render", syn, "no inline renderer for %s", syn.Kind)
		}
	}
}

// hasContent reports whether recs holds anything that renders.
func hasContent(recs []*node.Record) bool {
	for _, rec := range recs {
		switch rec.Kind {
		case node.SynMarker, node.SynComment, node.SynNewline:
		default:
			return true
		}
	}
	return false
}

// visible reports whether a paragraph holds anything beyond whitespace,
// comments and dropped images.
func visible(reg *node.Registry, para *node.Record) bool {
	for _, id := range para.Children {
		rec := reg.MustGet(id)
		switch rec.Kind {
		case node.SynSpace, node.SynNewline, node.SynComment, node.SynMarker:
		case node.SynImage:
			if validImage(rec.Link) {
				return true
			}
		default:
			return true
		}
	}
	return false
}

// codeBody returns the body of a code block without its fences.
func codeBody(reg *node.Registry, code *node.Record) string {
	for _, id := range code.Children {
		if rec := reg.MustGet(id); rec.Kind == node.SynCodeBody {
			return rec.Text
		}
	}
	return ""
}

package syntax

import (
	"github.com/alnah/go-mdpages/internal/node"
)

// Own runs Pass 4: every node whose parent is not a legal direct owner is
// re-parented through synthesized wrappers.
func Own(reg *node.Registry, doc node.ID, in Folded) Owned {
	b := newBuilder(reg, doc, node.StageOwner)
	out := Owned{Tree: b.tree()}
	for _, root := range in.Roots {
		page := b.get(root)
		p := b.copyTree(out.Tree, page, func(owner node.ID, children []node.ID) {
			b.ownSeq(owner, page.Kind, b.records(children))
		})
		out.Roots = append(out.Roots, p.ID)
	}
	return out
}

func (b *builder) ownSeq(owner node.ID, ownerKind node.Kind, recs []*node.Record) {
	for _, rec := range recs {
		parent := owner
		for _, kind := range OwnerChain(ownerKind, rec.Kind) {
			w := b.reg.Add(parent, node.Record{
				Kind:      kind,
				Stage:     b.stage,
				Page:      rec.Page,
				Begin:     rec.Begin,
				End:       rec.Begin,
				Ref:       rec.ID,
				Synthetic: true,
			})
			parent = w.ID
		}
		b.copyTree(parent, rec, func(o node.ID, children []node.ID) {
			b.ownSeq(o, rec.Kind, b.records(children))
		})
	}
}

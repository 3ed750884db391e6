package syntax

import (
	"github.com/alnah/go-mdpages/internal/node"
)

// Merge runs Pass 5: adjacent synthesized wrappers of the same kind become
// one wrapper holding all their children.
func Merge(reg *node.Registry, doc node.ID, in Owned) Merged {
	b := newBuilder(reg, doc, node.StageMerge)
	out := Merged{Tree: b.tree()}
	for _, root := range in.Roots {
		p := b.copyTree(out.Tree, b.get(root), func(owner node.ID, children []node.ID) {
			b.mergeSeq(owner, b.records(children))
		})
		out.Roots = append(out.Roots, p.ID)
	}
	return out
}

func (b *builder) mergeSeq(owner node.ID, recs []*node.Record) {
	for i := 0; i < len(recs); {
		rec := recs[i]
		if !rec.Synthetic {
			b.copyTree(owner, rec, func(o node.ID, children []node.ID) {
				b.mergeSeq(o, b.records(children))
			})
			i++
			continue
		}

		j := i + 1
		for j < len(recs) && recs[j].Synthetic && recs[j].Kind == rec.Kind {
			j++
		}
		var children []node.ID
		for _, r := range recs[i:j] {
			children = append(children, r.Children...)
		}
		w := b.reg.Add(owner, rec.Derive(rec.Kind, b.stage))
		b.mergeSeq(w.ID, b.records(children))
		if w.End != recs[j-1].End {
			node.Violation("merge", w, "merged wrapper ends at %d, run ends at %d", w.End, recs[j-1].End)
		}
		i = j
	}
}

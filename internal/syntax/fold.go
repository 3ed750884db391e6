package syntax

import (
	"github.com/alnah/go-mdpages/internal/node"
)

// segment is a run of top-level nodes that becomes one output page.
type segment struct {
	start, end int
	brk        *node.Record // page break opening the segment, nil for the first
}

// Fold runs Pass 3: title and bullet markers absorb the rest of their line,
// and page breaks split each page into output pages.
func Fold(reg *node.Registry, doc node.ID, in Closed) Folded {
	b := newBuilder(reg, doc, node.StageFold)
	out := Folded{Tree: b.tree()}
	for _, root := range in.Roots {
		out.Roots = append(out.Roots, b.foldPage(out.Tree, b.get(root))...)
	}
	return out
}

func (b *builder) foldPage(tree node.ID, page *node.Record) []node.ID {
	recs := b.records(page.Children)
	segs := split(recs)

	roots := make([]node.ID, 0, len(segs))
	for _, seg := range segs {
		begin := page.Begin
		if seg.start < len(recs) {
			begin = recs[seg.start].Begin
		} else if len(recs) > 0 {
			begin = recs[len(recs)-1].End
		}
		p := b.reg.Add(tree, node.Record{
			Kind:   node.SynPage,
			Stage:  b.stage,
			Page:   page.Page,
			Begin:  begin,
			End:    begin,
			Name:   page.Name,
			Params: pageParams(page.Name, seg.brk),
			Ref:    page.ID,
		})
		b.foldSeq(p.ID, recs[seg.start:seg.end], true)
		roots = append(roots, p.ID)
	}
	return roots
}

// split cuts recs at every top-level page break. A leading segment holding
// nothing visible is merged into the page that follows it.
func split(recs []*node.Record) []segment {
	segs := []segment{{start: 0}}
	for i, rec := range recs {
		if rec.Kind == node.SynPageBreak {
			segs[len(segs)-1].end = i
			segs = append(segs, segment{start: i, brk: rec})
		}
	}
	segs[len(segs)-1].end = len(recs)

	if len(segs) > 1 && allBlank(recs[segs[0].start:segs[0].end]) {
		segs[1].start = segs[0].start
		segs = segs[1:]
	}
	return segs
}

func allBlank(recs []*node.Record) bool {
	for _, rec := range recs {
		if !isBlank(rec.Kind) {
			return false
		}
	}
	return true
}

// pageParams returns the Path and Title of a page. Pages opened by a break
// without parameters carry the source defaults.
func pageParams(name string, brk *node.Record) node.Params {
	path, title := name, ""
	if brk != nil {
		if v, ok := brk.Params.Get(ParamPath); ok {
			path = v
		}
		if v, ok := brk.Params.Get(ParamTitle); ok {
			title = v
		}
	}
	return node.Params{{Key: ParamPath, Value: path}, {Key: ParamTitle, Value: title}}
}

// foldSeq folds recs under owner. Title and bullet markers only open
// wrappers at block level; elsewhere they are plain text.
func (b *builder) foldSeq(owner node.ID, recs []*node.Record, block bool) {
	for i := 0; i < len(recs); {
		rec := recs[i]
		rule := Lookup(rec.Kind)

		switch {
		case rec.Kind == node.SynPageBreak:
			b.leaf(owner, node.SynMarker, rec.Page, rec.Begin, rec.End, rec.ID)
			i++

		case len(rule.Absorbs) > 0 && !block:
			b.text(owner, rec)
			i++

		case len(rule.Absorbs) > 0:
			w := b.reg.Add(owner, node.Record{
				Kind:  rule.Into,
				Stage: b.stage,
				Page:  rec.Page,
				Begin: rec.Begin,
				End:   rec.Begin,
				Level: rec.Level,
				Ref:   rec.ID,
			})
			b.leaf(w.ID, node.SynMarker, rec.Page, rec.Begin, rec.End, rec.ID)
			i++
			for i < len(recs) && rule.absorbs(recs[i].Kind) {
				kind := recs[i].Kind
				b.foldNode(w.ID, recs[i])
				i++
				if kind == rule.Until {
					break
				}
			}

		default:
			b.foldNode(owner, rec)
			i++
		}
	}
}

func (b *builder) foldNode(owner node.ID, rec *node.Record) {
	b.copyTree(owner, rec, func(o node.ID, children []node.ID) {
		b.foldSeq(o, b.records(children), rec.Kind == node.SynNote)
	})
}

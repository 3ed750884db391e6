package syntax

import (
	"github.com/alnah/go-mdpages/internal/node"
)

// Recognized is the Pass 1 output: one flat page per source page.
type Recognized struct {
	Tree  node.ID
	Roots []node.ID
}

// Closed is the Pass 2 output: matched pairs are compound nodes.
type Closed struct {
	Tree  node.ID
	Roots []node.ID
}

// Folded is the Pass 3 output: nested titles and bullets, split pages.
type Folded struct {
	Tree  node.ID
	Roots []node.ID
}

// Owned is the Pass 4 output: every node sits under a legal owner.
type Owned struct {
	Tree  node.ID
	Roots []node.ID
}

// Merged is the Pass 5 output and the final syntax tree.
type Merged struct {
	Tree  node.ID
	Roots []node.ID
}

// builder holds the state shared by all passes of one document.
type builder struct {
	reg   *node.Registry
	doc   node.ID
	stage node.Stage
}

func newBuilder(reg *node.Registry, doc node.ID, stage node.Stage) *builder {
	return &builder{reg: reg, doc: doc, stage: stage}
}

// tree creates the root record of this stage's tree.
func (b *builder) tree() node.ID {
	return b.reg.Add(b.doc, node.Record{Kind: node.KindTree, Stage: b.stage}).ID
}

func (b *builder) get(id node.ID) *node.Record {
	rec := b.reg.MustGet(id)
	if rec.Stage != b.stage-1 && rec.Kind.Class() == node.ClassSyntax {
		node.Violation("read", rec, "stage %s read from %s", rec.Stage, b.stage)
	}
	return rec
}

// derive copies from under owner with the same kind.
func (b *builder) derive(owner node.ID, from *node.Record) *node.Record {
	return b.reg.Add(owner, from.Derive(from.Kind, b.stage))
}

// copyTree derives from and its whole subtree, calling into for the children
// of containers.
func (b *builder) copyTree(owner node.ID, from *node.Record, into func(owner node.ID, children []node.ID)) *node.Record {
	rec := b.derive(owner, from)
	if len(from.Children) > 0 {
		into(rec.ID, from.Children)
		b.expectSpan(rec, from)
	}
	return rec
}

// add creates a record of kind starting at begin on page.
func (b *builder) add(owner node.ID, kind node.Kind, page node.ID, begin int, ref node.ID) *node.Record {
	return b.reg.Add(owner, node.Record{Kind: kind, Stage: b.stage, Page: page, Begin: begin, End: begin, Ref: ref})
}

// leaf creates a childless record covering [begin, end).
func (b *builder) leaf(owner node.ID, kind node.Kind, page node.ID, begin, end int, ref node.ID) *node.Record {
	rec := node.Record{Kind: kind, Stage: b.stage, Page: page, Begin: begin, End: end, Ref: ref}
	if kind == node.SynText || kind == node.SynCodeBody || kind == node.SynCommentBody {
		rec.Text = b.sourceText(page, begin, end)
	}
	return b.reg.Add(owner, rec)
}

// text creates a plain text leaf covering from, used when a construct does
// not complete.
func (b *builder) text(owner node.ID, from *node.Record) *node.Record {
	return b.leaf(owner, node.SynText, from.Page, from.Begin, from.End, from.ID)
}

func (b *builder) sourceText(page node.ID, begin, end int) string {
	return b.reg.MustGet(page).Text[begin:end]
}

// expectSpan checks a rebuilt container ended where its origin did.
func (b *builder) expectSpan(rec, from *node.Record) {
	if rec.Begin != from.Begin || rec.End != from.End {
		node.Violation("span", rec, "rebuilt as [%d,%d), origin %d was [%d,%d)", rec.Begin, rec.End, from.ID, from.Begin, from.End)
	}
}

// records resolves ids of the previous stage.
func (b *builder) records(ids []node.ID) []*node.Record {
	out := make([]*node.Record, len(ids))
	for i, id := range ids {
		out[i] = b.get(id)
	}
	return out
}

package node

import "strings"

// Registry owns every record of one document. It is not safe for concurrent
// use; separate documents use separate registries.
type Registry struct {
	records []*Record // records[0] is the NoID sentinel
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{records: []*Record{nil}}
}

// Len returns the number of records.
func (r *Registry) Len() int {
	return len(r.records) - 1
}

// Get returns the record for id, or nil if id is unknown.
func (r *Registry) Get(id ID) *Record {
	if !id.IsValid() || int(id) >= len(r.records) {
		return nil
	}
	return r.records[id]
}

// MustGet returns the record for id and treats an unknown id as an invariant
// violation.
func (r *Registry) MustGet(id ID) *Record {
	rec := r.Get(id)
	if rec == nil {
		Violation("get", nil, "unknown id %d", id)
	}
	return rec
}

// Children returns the child ids of id in document order.
func (r *Registry) Children(id ID) []ID {
	return r.MustGet(id).Children
}

// Prev returns the previous sibling of id, or NoID for first children and roots.
func (r *Registry) Prev(id ID) ID {
	rec := r.MustGet(id)
	if !rec.Owner.IsValid() || rec.Index == 0 {
		return NoID
	}
	return r.MustGet(rec.Owner).Children[rec.Index-1]
}

// Next returns the next sibling of id, or NoID for last children and roots.
func (r *Registry) Next(id ID) ID {
	rec := r.MustGet(id)
	if !rec.Owner.IsValid() {
		return NoID
	}
	siblings := r.MustGet(rec.Owner).Children
	if rec.Index+1 >= len(siblings) {
		return NoID
	}
	return siblings[rec.Index+1]
}

// Last returns the last child of id, or NoID if it has none.
func (r *Registry) Last(id ID) ID {
	children := r.MustGet(id).Children
	if len(children) == 0 {
		return NoID
	}
	return children[len(children)-1]
}

// Text returns the slice of source text covered by a spanned record.
func (r *Registry) Text(id ID) string {
	rec := r.MustGet(id)
	if !rec.Kind.Spanned() {
		return ""
	}
	src := r.MustGet(rec.Page)
	if rec.Begin < 0 || rec.End > len(src.Text) || rec.Begin > rec.End {
		Violation("text", rec, "span [%d,%d) outside source of length %d", rec.Begin, rec.End, len(src.Text))
	}
	return src.Text[rec.Begin:rec.End]
}

// Add stores a copy of rec under owner and returns the stored record.
//
// When both owner and rec are spanned, rec must begin exactly where the owner
// currently ends (its previous sibling's end, or the owner's begin for a first
// child) and belong to the same source page. The owner and its spanned
// ancestors then grow to cover rec.
func (r *Registry) Add(owner ID, rec Record) *Record {
	rec.ID = ID(len(r.records))
	rec.Owner = NoID
	rec.Index = 0
	rec.Children = nil
	n := &rec

	if n.End < n.Begin {
		Violation("add", n, "inverted span [%d,%d)", n.Begin, n.End)
	}
	if n.Head < 0 || n.Inner() > n.End {
		Violation("add", n, "head %d outside span [%d,%d)", n.Head, n.Begin, n.End)
	}

	if owner.IsValid() {
		o := r.MustGet(owner)
		if o.Kind.Spanned() && n.Kind.Spanned() {
			if n.Page != o.Page {
				Violation("add", n, "page %d differs from owner %d page %d", n.Page, o.ID, o.Page)
			}
			if n.Begin != o.End {
				Violation("add", n, "begins at %d but previous sibling ends at %d", n.Begin, o.End)
			}
		}
		n.Owner = owner
		n.Index = len(o.Children)
		o.Children = append(o.Children, n.ID)
	}

	r.records = append(r.records, n)

	if n.Owner.IsValid() && n.Kind.Spanned() {
		r.grow(n.Owner, n.End)
	}
	return n
}

// AddSource stores a source page under doc. Its span starts empty and grows
// as tokens are added; Page points at the record itself.
func (r *Registry) AddSource(doc ID, name, text string) *Record {
	src := r.Add(doc, Record{Kind: KindSource, Stage: StageSource, Name: name, Text: text})
	src.Page = src.ID
	return src
}

// grow extends the End of id and its spanned ancestors to end. Within a
// spanned owner only the last node may grow, or it would overlap its successor.
func (r *Registry) grow(id ID, end int) {
	for cur := id; cur.IsValid(); {
		rec := r.MustGet(cur)
		if !rec.Kind.Spanned() || end <= rec.End {
			return
		}
		if rec.Owner.IsValid() {
			o := r.MustGet(rec.Owner)
			if o.Kind.Spanned() && o.Children[len(o.Children)-1] != rec.ID {
				Violation("grow", rec, "only the last node of a list may grow")
			}
		}
		rec.End = end
		cur = rec.Owner
	}
}

// Verify checks the subtree at root: every child points back at its owner at
// its position, and spanned children tile their owner after its head.
func (r *Registry) Verify(root ID) {
	rec := r.MustGet(root)
	cursor := rec.Inner()
	for i, cid := range rec.Children {
		c := r.MustGet(cid)
		if c.Owner != root || c.Index != i {
			Violation("verify", c, "owner/index (%d,%d) but listed under %d at %d", c.Owner, c.Index, root, i)
		}
		if rec.Kind.Spanned() && c.Kind.Spanned() {
			if c.Begin != cursor {
				Violation("verify", c, "begins at %d, expected %d", c.Begin, cursor)
			}
			cursor = c.End
		}
		r.Verify(cid)
	}
	if rec.Kind.Spanned() && len(rec.Children) > 0 && cursor != rec.End {
		Violation("verify", rec, "children end at %d, node ends at %d", cursor, rec.End)
	}
}

// Walk visits the subtree at root depth-first in document order. Returning
// false from fn skips the node's children.
func (r *Registry) Walk(root ID, fn func(rec *Record, depth int) bool) {
	r.walk(root, 0, fn)
}

func (r *Registry) walk(id ID, depth int, fn func(*Record, int) bool) {
	rec := r.MustGet(id)
	if !fn(rec, depth) {
		return
	}
	for _, c := range rec.Children {
		r.walk(c, depth+1, fn)
	}
}

// Count returns the number of records in the subtree at root, root included.
func (r *Registry) Count(root ID) int {
	n := 0
	r.Walk(root, func(*Record, int) bool {
		n++
		return true
	})
	return n
}

// Collect returns the concatenated source text of the spanned leaves and
// compound heads under root.
func (r *Registry) Collect(root ID) string {
	var b strings.Builder
	r.Walk(root, func(rec *Record, _ int) bool {
		switch {
		case !rec.Kind.Spanned():
		case len(rec.Children) == 0:
			b.WriteString(r.Text(rec.ID))
		case rec.Head > 0:
			b.WriteString(r.MustGet(rec.Page).Text[rec.Begin:rec.Inner()])
		}
		return true
	})
	return b.String()
}

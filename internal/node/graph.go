package node

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-mdpages/internal/yamlutil"
)

// GraphVersion is the current flat-table layout version.
const GraphVersion = 1

// Graph is the serialized form of a registry: a flat record table in id
// order. Child order is persisted; owner and index are not.
type Graph struct {
	Version int       `yaml:"version"`
	Root    ID        `yaml:"root"`
	Records []*Record `yaml:"records"`
}

// Format selects the graph encoding.
type Format string

// Supported graph encodings.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ErrUnknownFormat indicates an unsupported graph encoding name.
var ErrUnknownFormat = errors.New("unknown graph format")

// ParseFormat resolves a format name (case-insensitive).
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(name)) {
	case FormatYAML, "yml":
		return FormatYAML, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q (must be yaml or json)", ErrUnknownFormat, name)
}

// Graph snapshots every record of the registry.
func (r *Registry) Graph(root ID) *Graph {
	g := &Graph{Version: GraphVersion, Root: root, Records: make([]*Record, 0, r.Len())}
	for _, rec := range r.records[1:] {
		cp := *rec
		cp.Children = append([]ID(nil), rec.Children...)
		cp.Params = rec.Params.Clone()
		g.Records = append(g.Records, &cp)
	}
	return g
}

// Encode serializes a graph.
func Encode(g *Graph, f Format) ([]byte, error) {
	switch f {
	case FormatYAML, "":
		return yamlutil.Marshal(g)
	case FormatJSON:
		return yamlutil.MarshalJSON(g)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// Decode parses a graph encoded as YAML or JSON. Unknown fields are rejected.
func Decode(data []byte) (*Graph, error) {
	var g Graph
	if err := yamlutil.UnmarshalStrict(data, &g); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptGraph, err)
	}
	return &g, nil
}

// Load rebuilds a registry from a graph, restoring owner and index from the
// child lists and checking that the table forms one well-formed tree.
func Load(g *Graph) (reg *Registry, err error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil graph", ErrCorruptGraph)
	}
	if g.Version != GraphVersion {
		return nil, fmt.Errorf("%w: version %d (want %d)", ErrCorruptGraph, g.Version, GraphVersion)
	}

	reg = &Registry{records: make([]*Record, 1, len(g.Records)+1)}
	for i, rec := range g.Records {
		if rec == nil {
			return nil, fmt.Errorf("%w: empty record at position %d", ErrCorruptGraph, i)
		}
		if rec.ID != ID(i+1) {
			return nil, fmt.Errorf("%w: record id %d at position %d", ErrCorruptGraph, rec.ID, i)
		}
		if !rec.Kind.Valid() {
			return nil, fmt.Errorf("%w: record %d has no kind", ErrCorruptGraph, rec.ID)
		}
		cp := *rec
		cp.Children = append([]ID(nil), rec.Children...)
		cp.Owner = NoID
		cp.Index = 0
		reg.records = append(reg.records, &cp)
	}

	root := reg.Get(g.Root)
	if root == nil || root.Kind != KindDocument {
		return nil, fmt.Errorf("%w: root %d is not a document record", ErrCorruptGraph, g.Root)
	}

	for _, rec := range reg.records[1:] {
		for i, cid := range rec.Children {
			child := reg.Get(cid)
			if child == nil {
				return nil, fmt.Errorf("%w: record %d lists unknown child %d", ErrCorruptGraph, rec.ID, cid)
			}
			if child.Owner.IsValid() || cid == g.Root {
				return nil, fmt.Errorf("%w: record %d has more than one owner", ErrCorruptGraph, cid)
			}
			child.Owner = rec.ID
			child.Index = i
		}
	}

	if err := reg.checkReachable(g.Root); err != nil {
		return nil, err
	}
	if err := reg.checkSpans(); err != nil {
		return nil, err
	}
	if err := reg.checkKinds(g.Root); err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(*InvariantError)
			if !ok {
				panic(r)
			}
			reg, err = nil, fmt.Errorf("%w: %v", ErrCorruptGraph, ie)
		}
	}()
	reg.Verify(g.Root)

	return reg, nil
}

// checkReachable rejects orphans and cycles detached from the root.
func (r *Registry) checkReachable(root ID) error {
	seen := make([]bool, len(r.records))
	stack := []ID{root}
	visited := 0
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[id] {
			return fmt.Errorf("%w: record %d reached twice", ErrCorruptGraph, id)
		}
		seen[id] = true
		visited++
		stack = append(stack, r.records[id].Children...)
	}
	if visited != r.Len() {
		return fmt.Errorf("%w: %d of %d records unreachable from root", ErrCorruptGraph, r.Len()-visited, r.Len())
	}
	return nil
}

// checkKinds checks that each record sits in the tree its kind belongs to:
// tokens directly under sources, syntax and render records under a tree of
// their own stage with a page at each root and nowhere else.
func (r *Registry) checkKinds(root ID) error {
	for _, id := range r.records[root].Children {
		rec := r.records[id]
		switch rec.Kind {
		case KindSource:
			for _, cid := range rec.Children {
				tok := r.records[cid]
				if tok.Kind.Class() != ClassToken || tok.Stage != StageLex || len(tok.Children) > 0 {
					return fmt.Errorf("%w: record %d (%s, %s) under source %d", ErrCorruptGraph, cid, tok.Kind, tok.Stage, id)
				}
			}
		case KindTree:
			if err := r.checkTree(rec); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: record %d (%s) under the document", ErrCorruptGraph, id, rec.Kind)
		}
	}
	return nil
}

func (r *Registry) checkTree(tree *Record) error {
	class, page := ClassSyntax, SynPage
	switch {
	case tree.Stage == StageRender:
		class, page = ClassRender, RndPage
	case tree.Stage < StageRecognize || tree.Stage >= stageCount:
		return fmt.Errorf("%w: tree %d has stage %s", ErrCorruptGraph, tree.ID, tree.Stage)
	}

	var err error
	for _, id := range tree.Children {
		r.Walk(id, func(rec *Record, depth int) bool {
			switch {
			case err != nil:
			case rec.Kind.Class() != class:
				err = fmt.Errorf("%w: record %d (%s) in %s tree", ErrCorruptGraph, rec.ID, rec.Kind, tree.Stage)
			case rec.Stage != tree.Stage:
				err = fmt.Errorf("%w: record %d of stage %s in %s tree", ErrCorruptGraph, rec.ID, rec.Stage, tree.Stage)
			case (depth == 0) != (rec.Kind == page):
				err = fmt.Errorf("%w: record %d (%s) at depth %d of %s tree", ErrCorruptGraph, rec.ID, rec.Kind, depth, tree.Stage)
			}
			return err == nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// checkSpans validates page references and span bounds before Verify walks them.
func (r *Registry) checkSpans() error {
	for _, rec := range r.records[1:] {
		if !rec.Kind.Spanned() {
			continue
		}
		src := r.Get(rec.Page)
		if src == nil || src.Kind != KindSource {
			return fmt.Errorf("%w: record %d references page %d which is not a source", ErrCorruptGraph, rec.ID, rec.Page)
		}
		if rec.Begin < 0 || rec.Begin > rec.End || rec.End > len(src.Text) {
			return fmt.Errorf("%w: record %d span [%d,%d) outside source of length %d",
				ErrCorruptGraph, rec.ID, rec.Begin, rec.End, len(src.Text))
		}
		if rec.Head < 0 || rec.Inner() > rec.End {
			return fmt.Errorf("%w: record %d head %d outside span [%d,%d)", ErrCorruptGraph, rec.ID, rec.Head, rec.Begin, rec.End)
		}
	}
	return nil
}

package mdpages

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alnah/go-mdpages/internal/lexer"
	"github.com/alnah/go-mdpages/internal/node"
	"github.com/alnah/go-mdpages/internal/render"
	"github.com/alnah/go-mdpages/internal/syntax"
)

// Document holds the source pages of one document and, once parsed, every
// tree the pipeline produced. A Document is not safe for concurrent use.
type Document struct {
	cfg     settings
	reg     *node.Registry
	root    node.ID
	sources []node.ID
	trees   map[node.Stage]node.ID
	pages   render.Tree
	stats   []StageStats
	parsed  bool
	err     error
}

// NewDocument creates an empty document.
func NewDocument(opts ...Option) *Document {
	reg := node.NewRegistry()
	root := reg.Add(node.NoID, node.Record{Kind: node.KindDocument, Stage: node.StageSource})
	return &Document{
		cfg:   newSettings(opts),
		reg:   reg,
		root:  root.ID,
		trees: make(map[node.Stage]node.ID),
	}
}

// AddPage appends a source page. Line endings are normalized to "\n" and
// invalid UTF-8 is replaced with U+FFFD. An empty name defaults to "page<N>".
func (d *Document) AddPage(name, text string) error {
	if d.parsed {
		return ErrParsed
	}
	if name == "" {
		name = "page" + strconv.Itoa(len(d.sources)+1)
	}
	text = strings.ToValidUTF8(strings.ReplaceAll(text, "\r\n", "\n"), "\uFFFD")
	src := d.reg.AddSource(d.root, name, text)
	d.sources = append(d.sources, src.ID)
	return nil
}

// Parse runs the lexer, the five syntax passes and the render-tree build.
// A failure is an internal invariant violation; the document is unusable
// afterwards and every later call returns the same error.
func (d *Document) Parse() (err error) {
	if d.err != nil {
		return d.err
	}
	if d.parsed {
		return ErrParsed
	}
	if len(d.sources) == 0 {
		return ErrNoPages
	}
	defer func() {
		if err != nil {
			d.err = err
		}
	}()
	defer node.Recover(&err)

	for _, src := range d.sources {
		toks := lexer.Tokenize(d.reg, src)
		d.cfg.logger.Debug("tokenized", slog.String("page", d.reg.MustGet(src).Name), slog.Int("tokens", len(toks)))
	}

	res := syntax.Run(d.reg, d.root, d.sources)
	d.trees[node.StageRecognize] = res.Recognized.Tree
	d.trees[node.StageClose] = res.Closed.Tree
	d.trees[node.StageFold] = res.Folded.Tree
	d.trees[node.StageOwner] = res.Owned.Tree
	d.trees[node.StageMerge] = res.Merged.Tree
	d.stats = res.Stats
	for _, st := range res.Stats {
		d.cfg.logger.Debug("pass", slog.String("stage", st.Stage.String()), slog.Int("roots", st.Roots), slog.Int("nodes", st.Nodes))
	}

	d.pages = render.Build(d.reg, d.root, res.Merged)
	d.trees[node.StageRender] = d.pages.Tree
	d.cfg.logger.Debug("render tree", slog.Int("pages", len(d.pages.Roots)), slog.Int("records", d.reg.Len()))

	d.parsed = true
	return nil
}

func (d *Document) ready() error {
	if d.err != nil {
		return d.err
	}
	if !d.parsed {
		return ErrNotParsed
	}
	return nil
}

// Pages renders every output page in order.
func (d *Document) Pages() (pages []Page, err error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	defer node.Recover(&err)
	return render.Pages(d.reg, d.pages, d.cfg.render), nil
}

// Stats returns the record counts of each syntax pass.
func (d *Document) Stats() []StageStats {
	return append([]StageStats(nil), d.stats...)
}

// Serialize encodes the whole node graph as a flat record table.
func (d *Document) Serialize(f Format) ([]byte, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	return node.Encode(d.reg.Graph(d.root), f)
}

// Deserialize rebuilds a parsed document from a serialized graph. Errors
// wrap ErrCorruptGraph.
func Deserialize(data []byte, opts ...Option) (*Document, error) {
	g, err := node.Decode(data)
	if err != nil {
		return nil, err
	}
	reg, err := node.Load(g)
	if err != nil {
		return nil, err
	}

	d := &Document{
		cfg:    newSettings(opts),
		reg:    reg,
		root:   g.Root,
		trees:  make(map[node.Stage]node.ID),
		parsed: true,
	}
	for _, id := range reg.MustGet(g.Root).Children {
		rec := reg.MustGet(id)
		switch rec.Kind {
		case node.KindSource:
			d.sources = append(d.sources, id)
		case node.KindTree:
			if _, dup := d.trees[rec.Stage]; dup {
				return nil, fmt.Errorf("%w: two %s trees", ErrCorruptGraph, rec.Stage)
			}
			d.trees[rec.Stage] = id
		}
	}

	tree, ok := d.trees[node.StageRender]
	if !ok {
		return nil, fmt.Errorf("%w: no render tree", ErrCorruptGraph)
	}
	d.pages = render.Tree{Tree: tree, Roots: reg.MustGet(tree).Children}

	for _, st := range node.Stages() {
		tree, ok := d.trees[st]
		if !ok || st == node.StageRender {
			continue
		}
		stat := StageStats{Stage: st, Roots: len(reg.MustGet(tree).Children)}
		for _, root := range reg.MustGet(tree).Children {
			stat.Nodes += reg.Count(root)
		}
		d.stats = append(d.stats, stat)
	}

	d.cfg.logger.Debug("graph loaded", slog.Int("records", reg.Len()), slog.Int("pages", len(d.pages.Roots)))
	return d, nil
}

// Dump writes an indented listing of the tree produced by stage. The source
// stage lists pages only; the lex stage lists pages with their tokens.
func (d *Document) Dump(w io.Writer, stage Stage) error {
	if stage > node.StageLex {
		if err := d.ready(); err != nil {
			return err
		}
	}

	bw := bufio.NewWriter(w)
	switch stage {
	case node.StageSource, node.StageLex:
		for _, src := range d.sources {
			d.reg.Walk(src, func(rec *node.Record, depth int) bool {
				d.dumpRecord(bw, rec, depth)
				return stage == node.StageLex
			})
		}
	default:
		tree, ok := d.trees[stage]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownStage, stage)
		}
		for _, root := range d.reg.MustGet(tree).Children {
			d.reg.Walk(root, func(rec *node.Record, depth int) bool {
				d.dumpRecord(bw, rec, depth)
				return true
			})
		}
	}
	return bw.Flush()
}

func (d *Document) dumpRecord(w *bufio.Writer, rec *node.Record, depth int) {
	w.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(w, "%s#%d", rec.Kind, rec.ID)
	if rec.Kind.Spanned() {
		fmt.Fprintf(w, " [%d,%d)", rec.Begin, rec.End)
	}
	if rec.Head > 0 {
		fmt.Fprintf(w, " head=%q", d.reg.MustGet(rec.Page).Text[rec.Begin:rec.Inner()])
	}
	if rec.Name != "" {
		fmt.Fprintf(w, " name=%q", rec.Name)
	}
	if rec.Level != 0 {
		fmt.Fprintf(w, " level=%d", rec.Level)
	}
	if rec.Link != "" {
		fmt.Fprintf(w, " link=%q", rec.Link)
	}
	for _, p := range rec.Params {
		fmt.Fprintf(w, " %s=%q", p.Key, p.Value)
	}
	if rec.Synthetic {
		w.WriteString(" synthetic")
	}
	switch {
	case rec.Kind == node.KindSource:
	case rec.Text != "":
		fmt.Fprintf(w, " %q", rec.Text)
	case rec.Kind.Spanned() && len(rec.Children) == 0:
		fmt.Fprintf(w, " %q", d.reg.Text(rec.ID))
	}
	w.WriteByte('\n')
}

package syntax

import (
	"github.com/alnah/go-mdpages/internal/node"
)

// StageStats counts the output of one pass.
type StageStats struct {
	Stage node.Stage `yaml:"stage"`
	Roots int        `yaml:"roots"`
	Nodes int        `yaml:"nodes"`
}

// Result holds every pass output of one run.
type Result struct {
	Recognized Recognized
	Closed     Closed
	Folded     Folded
	Owned      Owned
	Merged     Merged
	Stats      []StageStats
}

// Run executes the five passes over the lexed sources of doc. Each pass is
// checked before the next one starts; a failed check panics with a
// *node.InvariantError.
func Run(reg *node.Registry, doc node.ID, sources []node.ID) Result {
	var res Result

	res.Recognized = Recognize(reg, doc, sources)
	res.record(reg, node.StageRecognize, sources, res.Recognized.Roots)

	res.Closed = Close(reg, doc, res.Recognized)
	res.record(reg, node.StageClose, sources, res.Closed.Roots)

	res.Folded = Fold(reg, doc, res.Closed)
	res.record(reg, node.StageFold, sources, res.Folded.Roots)

	res.Owned = Own(reg, doc, res.Folded)
	res.record(reg, node.StageOwner, sources, res.Owned.Roots)

	res.Merged = Merge(reg, doc, res.Owned)
	res.record(reg, node.StageMerge, sources, res.Merged.Roots)

	return res
}

func (res *Result) record(reg *node.Registry, stage node.Stage, sources, roots []node.ID) {
	Check(reg, stage, sources, roots)
	st := StageStats{Stage: stage, Roots: len(roots)}
	for _, root := range roots {
		st.Nodes += reg.Count(root)
	}
	res.Stats = append(res.Stats, st)
}

// Check verifies every root of a pass and that, for each source, the page
// roots derived from it tile its whole text in order.
func Check(reg *node.Registry, stage node.Stage, sources, roots []node.ID) {
	for _, root := range roots {
		reg.Verify(root)
	}

	next := 0
	for _, src := range sources {
		source := reg.MustGet(src)
		pos := 0
		for next < len(roots) && reg.MustGet(roots[next]).Page == src {
			root := reg.MustGet(roots[next])
			if root.Stage != stage {
				node.Violation("check", root, "root of stage %s in %s output", root.Stage, stage)
			}
			if root.Begin != pos {
				node.Violation("check", root, "page starts at %d, expected %d", root.Begin, pos)
			}
			pos = root.End
			next++
		}
		if pos != len(source.Text) {
			node.Violation("check", source, "%s pages cover %d of %d bytes", stage, pos, len(source.Text))
		}
	}
	if next != len(roots) {
		node.Violation("check", reg.Get(roots[next]), "root does not belong to any source in order")
	}
}

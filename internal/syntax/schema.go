package syntax

import (
	"fmt"
	"slices"

	"github.com/alnah/go-mdpages/internal/node"
)

// CloseRule says how Pass 2 completes an opening node.
type CloseRule uint8

const (
	// CloseNone nodes are complete as recognized.
	CloseNone CloseRule = iota
	// CloseBlock nodes run until an explicit closer kind (comment, fence, note).
	CloseBlock
	// ClosePair nodes are closed by the next identical marker (bold, italic).
	ClosePair
)

// Rule is the owner schema entry of one syntax kind.
type Rule struct {
	// Owners lists the kinds that may own this kind directly. The first entry
	// is the wrapper synthesized when the actual parent is not listed.
	Owners []node.Kind
	// Ancestors lists kinds that may contain this kind at some depth through
	// synthesized wrappers.
	Ancestors []node.Kind
	Close  CloseRule
	Closer node.Kind // CloseBlock: kind that ends the block
	Into   node.Kind // compound built by Pass 2 or wrapper built by Pass 3
	Body   node.Kind // CloseBlock: opaque leaf holding the interior, if any

	// Absorbs lists the follower kinds Pass 3 folds into Into. Until ends the
	// fold after being absorbed itself.
	Absorbs []node.Kind
	Until   node.Kind
}

var (
	blockOwners  = []node.Kind{node.SynPage, node.SynNote}
	inlineOwners = []node.Kind{node.SynParagraph, node.SynTitle, node.SynBullet, node.SynBold, node.SynItalic}
	inlineKinds  = []node.Kind{
		node.SynText, node.SynSpace, node.SynLink, node.SynImage,
		node.SynBold, node.SynItalic, node.SynComment, node.SynNewline,
	}
	inline = Rule{Owners: inlineOwners, Ancestors: blockOwners}
	// pass1Only kinds are consumed by Pass 2 or Pass 3 and never need owners.
	pass1Only = Rule{}
)

// schema maps every syntax kind to its rule. init verifies it is exhaustive.
var schema = map[node.Kind]Rule{
	node.SynPage:           {},
	node.SynText:           inline,
	node.SynSpace:          inline,
	node.SynNewline:        inline,
	node.SynLink:           inline,
	node.SynImage:          inline,
	node.SynParagraphBreak: {Owners: blockOwners},
	node.SynMarker: {Owners: []node.Kind{
		node.SynPage, node.SynTitle, node.SynBullet, node.SynBold, node.SynItalic,
		node.SynComment, node.SynCode, node.SynNote,
	}},

	node.SynCommentOpen:  {Close: CloseBlock, Closer: node.SynCommentClose, Into: node.SynComment, Body: node.SynCommentBody},
	node.SynCommentClose: pass1Only,
	node.SynFence:        {Close: CloseBlock, Closer: node.SynFence, Into: node.SynCode, Body: node.SynCodeBody},
	node.SynNoteTag:      {Close: CloseBlock, Closer: node.SynNoteTag, Into: node.SynNote},
	node.SynBoldMarker:   {Close: ClosePair, Into: node.SynBold},
	node.SynItalicMarker: {Close: ClosePair, Into: node.SynItalic},
	node.SynTitleMarker:  {Into: node.SynTitle, Absorbs: inlineKinds, Until: node.SynNewline},
	node.SynBulletMarker: {Into: node.SynBullet, Absorbs: inlineKinds, Until: node.SynNewline},
	node.SynPageBreak:    pass1Only,
	node.SynYoutube:      {Owners: blockOwners},
	node.SynComment:      inline,
	node.SynCommentBody:  {Owners: []node.Kind{node.SynComment}},
	node.SynCode:         {Owners: blockOwners},
	node.SynCodeBody:     {Owners: []node.Kind{node.SynCode}},
	node.SynBold:         inline,
	node.SynItalic:       inline,
	node.SynNote:         {Owners: []node.Kind{node.SynPage}},
	node.SynTitle:        {Owners: blockOwners},
	node.SynBullet:       {Owners: blockOwners},
	node.SynParagraph:    {Owners: blockOwners},
}

// pairStops end the search for a bold or italic closer: a pair never spans
// a paragraph or a block construct.
var pairStops = []node.Kind{
	node.SynParagraphBreak, node.SynFence, node.SynNoteTag, node.SynYoutube, node.SynPageBreak,
}

// blank kinds carry no visible content.
var blank = []node.Kind{node.SynSpace, node.SynNewline, node.SynParagraphBreak, node.SynComment}

func init() {
	for _, k := range node.Kinds() {
		if k.Class() != node.ClassSyntax {
			continue
		}
		if _, ok := schema[k]; !ok {
			panic(fmt.Sprintf("syntax: kind %s has no schema rule", k))
		}
	}
}

// Lookup returns the rule for kind. A kind without a rule is an invariant
// violation.
func Lookup(kind node.Kind) Rule {
	rule, ok := schema[kind]
	if !ok {
		node.Violation("schema", nil, "kind %s has no schema rule", kind)
	}
	return rule
}

// CanOwn reports whether parent may own child directly.
func CanOwn(parent, child node.Kind) bool {
	return slices.Contains(Lookup(child).Owners, parent)
}

// CanContain reports whether parent may hold child at any depth.
func CanContain(parent, child node.Kind) bool {
	return CanOwn(parent, child) || slices.Contains(Lookup(child).Ancestors, parent)
}

// OwnerChain returns the wrapper kinds, outermost first, that must be
// synthesized to place child under parent. It is empty when parent can own
// child directly.
func OwnerChain(parent, child node.Kind) []node.Kind {
	if CanOwn(parent, child) {
		return nil
	}
	if !CanContain(parent, child) {
		node.Violation("owner", nil, "%s cannot be placed under %s", child, parent)
	}
	for _, wrapper := range Lookup(child).Owners {
		if CanOwn(parent, wrapper) {
			return []node.Kind{wrapper}
		}
		if CanContain(parent, wrapper) {
			return append(OwnerChain(parent, wrapper), wrapper)
		}
	}
	node.Violation("owner", nil, "no wrapper places %s under %s", child, parent)
	return nil
}

func (r Rule) absorbs(kind node.Kind) bool {
	return slices.Contains(r.Absorbs, kind)
}

func isBlank(kind node.Kind) bool {
	return slices.Contains(blank, kind)
}

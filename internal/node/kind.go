package node

import "fmt"

// Kind tags which logical node type a Record represents.
type Kind uint8

// Structural kinds.
const (
	KindNone Kind = iota
	KindDocument
	KindSource
	KindTree
)

// Lexical token kinds.
const (
	TokNewline Kind = iota + KindTree + 1
	TokParagraphBreak
	TokSpace
	TokCommentOpen
	TokCommentClose
	TokHeading
	TokFence
	TokImage
	TokBullet
	TokBold
	TokItalic
	TokParenOpen
	TokParenClose
	TokBracketOpen
	TokBracketClose
	TokSingleQuote
	TokDoubleQuote
	TokEquals
	TokLinkPrefix
	TokContent
)

// Syntax kinds.
const (
	SynPage Kind = iota + TokContent + 1
	SynText
	SynSpace
	SynNewline
	SynParagraphBreak
	SynMarker
	SynCommentOpen
	SynCommentClose
	SynFence
	SynTitleMarker
	SynBulletMarker
	SynBoldMarker
	SynItalicMarker
	SynNoteTag
	SynPageBreak
	SynYoutube
	SynLink
	SynImage
	SynComment
	SynCommentBody
	SynCode
	SynCodeBody
	SynBold
	SynItalic
	SynNote
	SynTitle
	SynBullet
	SynParagraph
)

// Render kinds.
const (
	RndPage Kind = iota + SynParagraph + 1
	RndParagraph
	RndHeading
	RndList
	RndItem
	RndText
	RndStrong
	RndItalic
	RndLink
	RndImage
	RndCode
	RndNote
	RndVideo

	kindCount
)

// Class groups kinds by the tree they belong to.
type Class uint8

const (
	ClassStructure Class = iota
	ClassToken
	ClassSyntax
	ClassRender
)

var kindNames = [kindCount]string{
	KindNone:     "none",
	KindDocument: "document",
	KindSource:   "source",
	KindTree:     "tree",

	TokNewline:        "tok.newline",
	TokParagraphBreak: "tok.paragraph-break",
	TokSpace:          "tok.space",
	TokCommentOpen:    "tok.comment-open",
	TokCommentClose:   "tok.comment-close",
	TokHeading:        "tok.heading",
	TokFence:          "tok.fence",
	TokImage:          "tok.image",
	TokBullet:         "tok.bullet",
	TokBold:           "tok.bold",
	TokItalic:         "tok.italic",
	TokParenOpen:      "tok.paren-open",
	TokParenClose:     "tok.paren-close",
	TokBracketOpen:    "tok.bracket-open",
	TokBracketClose:   "tok.bracket-close",
	TokSingleQuote:    "tok.single-quote",
	TokDoubleQuote:    "tok.double-quote",
	TokEquals:         "tok.equals",
	TokLinkPrefix:     "tok.link-prefix",
	TokContent:        "tok.content",

	SynPage:           "syn.page",
	SynText:           "syn.text",
	SynSpace:          "syn.space",
	SynNewline:        "syn.newline",
	SynParagraphBreak: "syn.paragraph-break",
	SynMarker:         "syn.marker",
	SynCommentOpen:    "syn.comment-open",
	SynCommentClose:   "syn.comment-close",
	SynFence:          "syn.fence",
	SynTitleMarker:    "syn.title-marker",
	SynBulletMarker:   "syn.bullet-marker",
	SynBoldMarker:     "syn.bold-marker",
	SynItalicMarker:   "syn.italic-marker",
	SynNoteTag:        "syn.note-tag",
	SynPageBreak:      "syn.page-break",
	SynYoutube:        "syn.youtube",
	SynLink:           "syn.link",
	SynImage:          "syn.image",
	SynComment:        "syn.comment",
	SynCommentBody:    "syn.comment-body",
	SynCode:           "syn.code",
	SynCodeBody:       "syn.code-body",
	SynBold:           "syn.bold",
	SynItalic:         "syn.italic",
	SynNote:           "syn.note",
	SynTitle:          "syn.title",
	SynBullet:         "syn.bullet",
	SynParagraph:      "syn.paragraph",

	RndPage:      "rnd.page",
	RndParagraph: "rnd.paragraph",
	RndHeading:   "rnd.heading",
	RndList:      "rnd.list",
	RndItem:      "rnd.item",
	RndText:      "rnd.text",
	RndStrong:    "rnd.strong",
	RndItalic:    "rnd.italic",
	RndLink:      "rnd.link",
	RndImage:     "rnd.image",
	RndCode:      "rnd.code",
	RndNote:      "rnd.note",
	RndVideo:     "rnd.video",
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		if name == "" {
			panic(fmt.Sprintf("node: kind %d has no name", k))
		}
		m[name] = Kind(k)
	}
	return m
}()

// Kinds returns every valid kind (KindNone excluded) in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount-1)
	for k := KindNone + 1; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// ParseKind resolves a kind from its String form.
func ParseKind(name string) (Kind, bool) {
	k, ok := kindsByName[name]
	if !ok || k == KindNone {
		return KindNone, false
	}
	return k, true
}

// Valid reports whether k is a declared kind other than KindNone.
func (k Kind) Valid() bool {
	return k > KindNone && k < kindCount
}

func (k Kind) String() string {
	if k >= kindCount {
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
	return kindNames[k]
}

// Class returns the tree a kind belongs to.
func (k Kind) Class() Class {
	switch {
	case k >= TokNewline && k <= TokContent:
		return ClassToken
	case k >= SynPage && k <= SynParagraph:
		return ClassSyntax
	case k >= RndPage && k < kindCount:
		return ClassRender
	default:
		return ClassStructure
	}
}

// Spanned reports whether records of this kind carry a [Begin, End) span
// over their source page text.
func (k Kind) Spanned() bool {
	switch k.Class() {
	case ClassToken, ClassSyntax:
		return true
	}
	return k == KindSource
}

// MarshalYAML encodes the kind by name.
func (k Kind) MarshalYAML() (any, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: invalid kind %d", ErrCorruptGraph, uint8(k))
	}
	return k.String(), nil
}

// UnmarshalYAML decodes a kind name.
func (k *Kind) UnmarshalYAML(unmarshal func(any) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	parsed, ok := ParseKind(name)
	if !ok {
		return fmt.Errorf("%w: unknown kind %q", ErrCorruptGraph, name)
	}
	*k = parsed
	return nil
}

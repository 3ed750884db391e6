package mdpages

import (
	"fmt"
	"strings"

	"github.com/alnah/go-mdpages/internal/node"
	"github.com/alnah/go-mdpages/internal/render"
	"github.com/alnah/go-mdpages/internal/syntax"
)

// Page is one rendered output page.
type Page = render.Page

// Heading is a heading found while rendering a page.
type Heading = render.Heading

// Stage names a processing step; Dump prints the tree a stage produced.
type Stage = node.Stage

// StageStats counts the records one syntax pass produced.
type StageStats = syntax.StageStats

// Format selects the graph encoding used by Serialize.
type Format = node.Format

// Graph encodings.
const (
	FormatYAML = node.FormatYAML
	FormatJSON = node.FormatJSON
)

// Processing stages in pipeline order.
const (
	StageSource    = node.StageSource
	StageLex       = node.StageLex
	StageRecognize = node.StageRecognize
	StageClose     = node.StageClose
	StageFold      = node.StageFold
	StageOwner     = node.StageOwner
	StageMerge     = node.StageMerge
	StageRender    = node.StageRender
)

// ParseFormat resolves a graph format name such as "yaml" or "json".
func ParseFormat(name string) (Format, error) {
	return node.ParseFormat(name)
}

// ParseStage resolves a stage name such as "fold" or "render".
func ParseStage(name string) (Stage, error) {
	st, ok := node.ParseStage(strings.ToLower(name))
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownStage, name)
	}
	return st, nil
}

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeLetter,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}
	switch strings.ToLower(p.Size) {
	case PageSizeLetter, PageSizeA4, PageSizeLegal:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}
	switch strings.ToLower(p.Orientation) {
	case OrientationPortrait, OrientationLandscape:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}
	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}
	return nil
}

// TOC configures the table of contents of standalone pages.
type TOC struct {
	Title    string
	MinDepth int // 1-6, 0 = 1
	MaxDepth int // 1-6, 0 = 3
}

// Default TOC depths.
const (
	DefaultTOCMinDepth = 1
	DefaultTOCMaxDepth = 3
)

// Validate checks the depth bounds. Returns nil if t is nil.
func (t *TOC) Validate() error {
	if t == nil {
		return nil
	}
	if t.MinDepth < 0 || t.MinDepth > 6 {
		return fmt.Errorf("%w: min depth %d (must be 1-6)", ErrInvalidTOCDepth, t.MinDepth)
	}
	if t.MaxDepth < 0 || t.MaxDepth > 6 {
		return fmt.Errorf("%w: max depth %d (must be 1-6)", ErrInvalidTOCDepth, t.MaxDepth)
	}
	if t.MinDepth > 0 && t.MaxDepth > 0 && t.MinDepth > t.MaxDepth {
		return fmt.Errorf("%w: min depth %d exceeds max depth %d", ErrInvalidTOCDepth, t.MinDepth, t.MaxDepth)
	}
	return nil
}

// depths returns the effective bounds with defaults applied.
func (t *TOC) depths() (minDepth, maxDepth int) {
	minDepth, maxDepth = t.MinDepth, t.MaxDepth
	if minDepth == 0 {
		minDepth = DefaultTOCMinDepth
	}
	if maxDepth == 0 {
		maxDepth = DefaultTOCMaxDepth
	}
	return minDepth, maxDepth
}

// Source is one page of raw markup.
type Source struct {
	Name string // page name; also the default output path
	Text string
}

// Input contains conversion parameters.
type Input struct {
	Sources    []Source      // required, at least one
	SourceDir  string        // rewrite relative img/a paths against this directory (optional)
	CSS        string        // extra CSS appended after the style (optional)
	TOC        *TOC          // table of contents (optional, standalone only)
	Standalone bool          // wrap each page in a full HTML document
	Graph      Format        // serialize the node graph ("" = skip)
	PDF        bool          // export every page to PDF (implies Standalone)
	Page       *PageSettings // PDF page settings (optional, nil = defaults)
}

// PageResult is one converted output page.
type PageResult struct {
	Name     string
	Path     string
	Title    string
	Headings []Heading
	HTML     []byte
	PDF      []byte
}

// ConvertResult holds every output of one conversion.
type ConvertResult struct {
	Pages []PageResult
	Graph []byte
	Stats []StageStats
}

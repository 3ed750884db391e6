package mdpages

import (
	"errors"

	"github.com/alnah/go-mdpages/internal/assets"
	"github.com/alnah/go-mdpages/internal/node"
)

// Sentinel errors for library operations.
var (
	ErrNoPages       = errors.New("document has no source pages")
	ErrEmptySource   = errors.New("source text cannot be empty")
	ErrParsed        = errors.New("document already parsed")
	ErrNotParsed     = errors.New("document not parsed")
	ErrUnknownStage  = errors.New("unknown stage")
	ErrHTMLTransform = errors.New("HTML transform failed")
	ErrPoolClosed    = errors.New("converter pool closed")

	// ErrInternalInvariant wraps every pipeline contract violation. The
	// document that produced it must be discarded.
	ErrInternalInvariant = node.ErrInvariant

	// ErrCorruptGraph reports a serialized graph that cannot be rebuilt.
	ErrCorruptGraph = node.ErrCorruptGraph

	// ErrUnknownFormat reports an unsupported graph encoding.
	ErrUnknownFormat = node.ErrUnknownFormat

	// PDF export errors.
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// TOC validation errors.
	ErrInvalidTOCDepth = errors.New("invalid TOC depth")

	// Asset loading errors.
	ErrStyleNotFound    = assets.ErrStyleNotFound
	ErrInvalidAssetPath = errors.New("invalid asset path")
)

package assets

import "errors"

// Sentinel errors for asset operations.
var (
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetName = errors.New("invalid asset name")
	ErrInvalidBasePath  = errors.New("invalid base path")
	ErrAssetRead        = errors.New("failed to read asset")
	ErrPathTraversal    = errors.New("path traversal detected")
)

// Package fileutil provides file and path helpers shared by the library and
// the CLI.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
)

// Permissions of created outputs.
const (
	DirPermissions  = 0o750
	FilePermissions = 0o644
)

// WriteTempFile creates a temporary file holding content. The caller must
// run cleanup once the file is no longer needed.
func WriteTempFile(content, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	f, err := os.CreateTemp("", "mdpages-*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}
	path = f.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", err)
	}
	return path, cleanup, nil
}

// ValidateExtension checks that the extension is safe for use in temp file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// WriteFile writes data to path, creating missing parent directories.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), DirPermissions); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	// #nosec G306 -- rendered pages are meant to be readable
	if err := os.WriteFile(path, data, FilePermissions); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReplaceExt swaps the extension of path for ext (with its dot).
func ReplaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath reports whether s looks like a path rather than a name: it
// contains a path separator.
//
//	"print"           -> false
//	"./custom.css"    -> true
//	"C:\styles\a.css" -> true
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsCSS reports whether s looks like literal CSS rather than a name or path.
func IsCSS(s string) bool {
	return strings.Contains(s, "{")
}

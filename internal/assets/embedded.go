package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strings"
)

//go:embed styles/*.css templates/*.html
var embedded embed.FS

// EmbeddedLoader loads the built-in assets.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStyle implements AssetLoader.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	return e.read("styles", name, ".css", ErrStyleNotFound)
}

// LoadTemplate implements AssetLoader.
func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	return e.read("templates", name, ".html", ErrTemplateNotFound)
}

func (e *EmbeddedLoader) read(dir, name, ext string, notFound error) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	content, err := embedded.ReadFile(dir + "/" + name + ext)
	if err != nil {
		return "", fmt.Errorf("%w: %q", notFound, name)
	}
	return string(content), nil
}

// Styles returns the built-in style names, sorted.
func (e *EmbeddedLoader) Styles() []string {
	entries, err := fs.ReadDir(embedded, "styles")
	if err != nil {
		return nil
	}
	var names []string
	for _, entry := range entries {
		if name, ok := strings.CutSuffix(entry.Name(), ".css"); ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

var (
	_ AssetLoader = (*EmbeddedLoader)(nil)
	_ StyleLister = (*EmbeddedLoader)(nil)
)

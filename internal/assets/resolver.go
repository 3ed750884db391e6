package assets

import (
	"errors"
)

// AssetResolver tries a custom directory first and falls back to the
// embedded assets when an asset is not found there.
type AssetResolver struct {
	custom   AssetLoader // nil without a custom path
	embedded *EmbeddedLoader
}

// NewAssetResolver creates a resolver. An empty customBasePath uses the
// embedded assets only.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	r := &AssetResolver{embedded: NewEmbeddedLoader()}
	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		r.custom = fsLoader
	}
	return r, nil
}

// LoadStyle implements AssetLoader.
func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return r.load(func(l AssetLoader) (string, error) { return l.LoadStyle(name) })
}

// LoadTemplate implements AssetLoader.
func (r *AssetResolver) LoadTemplate(name string) (string, error) {
	return r.load(func(l AssetLoader) (string, error) { return l.LoadTemplate(name) })
}

// load only falls back on not-found errors; validation and I/O errors from
// the custom loader are returned as is.
func (r *AssetResolver) load(fn func(AssetLoader) (string, error)) (string, error) {
	if r.custom == nil {
		return fn(r.embedded)
	}
	content, err := fn(r.custom)
	if err == nil || !isNotFoundError(err) {
		return content, err
	}
	return fn(r.embedded)
}

func isNotFoundError(err error) bool {
	return errors.Is(err, ErrStyleNotFound) || errors.Is(err, ErrTemplateNotFound)
}

// Styles returns the built-in style names.
func (r *AssetResolver) Styles() []string {
	return r.embedded.Styles()
}

// HasCustomLoader reports whether a custom directory is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

var (
	_ AssetLoader = (*AssetResolver)(nil)
	_ StyleLister = (*AssetResolver)(nil)
)

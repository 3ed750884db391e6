package assets

// AssetLoader loads stylesheets and page templates by name.
type AssetLoader interface {
	// LoadStyle returns the CSS of a style (name without .css).
	LoadStyle(name string) (string, error)

	// LoadTemplate returns a page template (name without .html).
	LoadTemplate(name string) (string, error)
}

// StyleLister is implemented by loaders that can enumerate their styles.
type StyleLister interface {
	Styles() []string
}

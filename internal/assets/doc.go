// Package assets provides the stylesheets and the page template of
// standalone HTML output.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in assets compiled in with go:embed
//	    ├── FilesystemLoader  - assets from a custom directory on disk
//	    └── AssetResolver     - custom first, embedded as fallback
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css
//	└── templates/
//	    └── {name}.html
//
// Asset names are validated against path traversal; FilesystemLoader also
// resolves symlinks and checks every path stays under basePath.
package assets

// Built-in asset names.
const (
	DefaultStyleName    = "default"
	DefaultTemplateName = "page"
)

// defaultLoader serves the package-level helpers.
var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a built-in stylesheet by name.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadTemplate loads a built-in page template by name.
func LoadTemplate(name string) (string, error) {
	return defaultLoader.LoadTemplate(name)
}

// Package config loads the YAML configuration of the mdpages CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mdpages/internal/fileutil"
	"github.com/alnah/go-mdpages/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength        = 4096
	MaxStyleLength       = 4096 // name, path or inline CSS
	MaxCodeStyleLength   = 50   // chroma style name
	MaxTOCTitleLength    = 100
	MaxPageSizeLength    = 10 // "letter", "a4", "legal"
	MaxOrientationLength = 10 // "portrait", "landscape"
)

// Config holds the CLI settings. Flags override every field.
type Config struct {
	Input  InputConfig  `yaml:"input"`
	Output OutputConfig `yaml:"output"`
	Render RenderConfig `yaml:"render"`
	HTML   HTMLConfig   `yaml:"html"`
	Graph  GraphConfig  `yaml:"graph"`
	PDF    PDFConfig    `yaml:"pdf"`
	Assets AssetsConfig `yaml:"assets"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // empty = must specify
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // empty = next to the source
}

// RenderConfig controls the renderer.
type RenderConfig struct {
	Highlight bool   `yaml:"highlight"`
	CodeStyle string `yaml:"codeStyle"` // chroma style, empty = "github"
}

// HTMLConfig controls standalone pages.
type HTMLConfig struct {
	Standalone bool      `yaml:"standalone"`
	Style      string    `yaml:"style"` // asset name, path or CSS
	TOC        TOCConfig `yaml:"toc"`
}

// TOCConfig defines table of contents options.
type TOCConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Title    string `yaml:"title"`
	MinDepth int    `yaml:"minDepth"` // 1-6, default 1
	MaxDepth int    `yaml:"maxDepth"` // 1-6, default 3
}

// GraphConfig enables graph output next to the pages.
type GraphConfig struct {
	Format string `yaml:"format"` // "yaml", "json", empty = off
}

// PDFConfig defines PDF export options.
type PDFConfig struct {
	Enabled bool          `yaml:"enabled"`
	Timeout time.Duration `yaml:"timeout"` // 0 = library default
	Page    PageConfig    `yaml:"page"`
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size        string  `yaml:"size"`        // default "letter"
	Orientation string  `yaml:"orientation"` // default "portrait"
	Margin      float64 `yaml:"margin"`      // inches, default 0.5
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // empty = embedded assets
}

// Validate checks field lengths and enumerations. Page values themselves are
// checked again by the library when a PDF is produced.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"input.defaultDir", c.Input.DefaultDir, MaxPathLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"render.codeStyle", c.Render.CodeStyle, MaxCodeStyleLength},
		{"html.style", c.HTML.Style, MaxStyleLength},
		{"html.toc.title", c.HTML.TOC.Title, MaxTOCTitleLength},
		{"pdf.page.size", c.PDF.Page.Size, MaxPageSizeLength},
		{"pdf.page.orientation", c.PDF.Page.Orientation, MaxOrientationLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	switch strings.ToLower(c.Graph.Format) {
	case "", "yaml", "json":
	default:
		return fmt.Errorf("%w: graph.format %q (must be yaml or json)", ErrInvalidValue, c.Graph.Format)
	}

	toc := c.HTML.TOC
	if toc.MinDepth < 0 || toc.MinDepth > 6 {
		return fmt.Errorf("%w: html.toc.minDepth must be between 1 and 6, got %d", ErrInvalidValue, toc.MinDepth)
	}
	if toc.MaxDepth < 0 || toc.MaxDepth > 6 {
		return fmt.Errorf("%w: html.toc.maxDepth must be between 1 and 6, got %d", ErrInvalidValue, toc.MaxDepth)
	}
	if toc.MinDepth > 0 && toc.MaxDepth > 0 && toc.MinDepth > toc.MaxDepth {
		return fmt.Errorf("%w: html.toc.minDepth %d exceeds maxDepth %d", ErrInvalidValue, toc.MinDepth, toc.MaxDepth)
	}

	if c.PDF.Timeout < 0 {
		return fmt.Errorf("%w: pdf.timeout must be positive, got %s", ErrInvalidValue, c.PDF.Timeout)
	}
	if c.PDF.Page.Margin < 0 {
		return fmt.Errorf("%w: pdf.page.margin must be positive, got %.2f", ErrInvalidValue, c.PDF.Page.Margin)
	}
	return nil
}

func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a configuration with every optional output off.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name. A name is
// searched in the current directory, then in the user config directory.
// A missing file is an error: there is no silent fallback.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SearchPaths lists the files LoadConfig tries for name, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(dir, "go-mdpages", name+ext))
		}
	}
	return paths
}

func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}

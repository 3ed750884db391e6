package mdpages

import (
	"io"
	"log/slog"
	"time"

	"github.com/alnah/go-mdpages/internal/render"
)

// Option configures a Document or a Converter.
type Option func(*settings)

// settings holds the configuration shared by Document and Converter.
type settings struct {
	logger     *slog.Logger
	render     render.Options
	timeout    time.Duration
	assetPath  string
	styleInput string
	pdf        pdfConverter
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

func newSettings(opts []Option) settings {
	s := settings{
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		render:  render.Options{Style: render.DefaultStyle},
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithLogger sets the logger used for per-stage debug output.
// A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithHighlighting enables syntax highlighting of code blocks.
func WithHighlighting(enabled bool) Option {
	return func(s *settings) {
		s.render.Highlight = enabled
	}
}

// WithCodeStyle selects the highlighting color scheme by name.
// Unknown names fall back to the default scheme.
func WithCodeStyle(name string) Option {
	return func(s *settings) {
		if name != "" {
			s.render.Style = name
		}
	}
}

// WithTimeout sets the PDF page load timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mdpages: WithTimeout duration must be positive")
	}
	return func(s *settings) {
		s.timeout = d
	}
}

// WithAssetPath loads styles and templates from dir, falling back to the
// embedded assets for anything missing there.
func WithAssetPath(dir string) Option {
	return func(s *settings) {
		s.assetPath = dir
	}
}

// WithStyle sets the stylesheet of standalone pages: a style name, a file
// path, or literal CSS.
func WithStyle(nameOrPath string) Option {
	return func(s *settings) {
		s.styleInput = nameOrPath
	}
}

// withPDFConverter replaces the browser backend (tests).
func withPDFConverter(p pdfConverter) Option {
	return func(s *settings) {
		s.pdf = p
	}
}

// withRender copies renderer settings from a Converter into its documents.
func withRender(r render.Options) Option {
	return func(s *settings) {
		s.render = r
	}
}

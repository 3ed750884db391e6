package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
)

// ErrStandaloneRender reports a page template that failed to execute.
var ErrStandaloneRender = errors.New("page template rendering failed")

// PageData is what the page template sees.
type PageData struct {
	Title string
	Path  string
	Body  template.HTML
}

// Wrapper turns a rendered page fragment into a full HTML document.
type Wrapper interface {
	Wrap(ctx context.Context, data PageData) (string, error)
}

// Standalone wraps fragments with a parsed page template.
type Standalone struct {
	tmpl *template.Template
}

var _ Wrapper = (*Standalone)(nil)

// NewStandalone parses the page template.
func NewStandalone(tmplContent string) (*Standalone, error) {
	tmpl, err := template.New("page").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}
	return &Standalone{tmpl: tmpl}, nil
}

// Wrap executes the template. Body is inserted verbatim: it is renderer
// output, already escaped.
func (s *Standalone) Wrap(ctx context.Context, data PageData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStandaloneRender, err)
	}
	return buf.String(), nil
}

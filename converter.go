package mdpages

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"strings"

	"github.com/alnah/go-mdpages/internal/assets"
	"github.com/alnah/go-mdpages/internal/fileutil"
	"github.com/alnah/go-mdpages/internal/pipeline"
	"github.com/alnah/go-mdpages/internal/render"
)

var (
	_ pipeline.CSSInjector = (*pipeline.CSSInjection)(nil)
	_ pipeline.TOCInjector = (*pipeline.TOCInjection)(nil)
	_ pipeline.Wrapper     = (*pipeline.Standalone)(nil)
)

// Converter runs whole conversions: parse, render, and the optional
// standalone, graph and PDF outputs. Create with NewConverter and Close
// when done. A Converter is safe for sequential use only; use a
// ConverterPool for parallel work.
type Converter struct {
	cfg         settings
	loader      assets.AssetLoader
	style       string
	codeCSS     string
	wrapper     pipeline.Wrapper
	cssInjector pipeline.CSSInjector
	tocInjector pipeline.TOCInjector
	pdf         pdfConverter
}

// NewConverter creates a Converter. It fails if the asset path, the style
// or the page template cannot be loaded.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg:         newSettings(opts),
		loader:      assets.NewEmbeddedLoader(),
		cssInjector: &pipeline.CSSInjection{},
		tocInjector: pipeline.NewTOCInjection(),
	}

	if c.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		c.loader = resolver
	}

	if err := c.resolveStyle(); err != nil {
		return nil, err
	}

	if c.cfg.render.Highlight {
		var sb strings.Builder
		if err := render.StyleCSS(&sb, c.cfg.render.Style); err != nil {
			return nil, fmt.Errorf("building code style: %w", err)
		}
		c.codeCSS = sb.String()
	}

	tmpl, err := c.loader.LoadTemplate(assets.DefaultTemplateName)
	if err != nil {
		return nil, fmt.Errorf("loading page template: %w", err)
	}
	if c.wrapper, err = pipeline.NewStandalone(tmpl); err != nil {
		return nil, fmt.Errorf("initializing page template: %w", err)
	}

	c.pdf = c.cfg.pdf
	if c.pdf == nil {
		c.pdf = newRodConverter(c.cfg.timeout)
	}
	return c, nil
}

// resolveStyle turns the style option (path, literal CSS or asset name)
// into CSS. No option selects the default stylesheet.
func (c *Converter) resolveStyle() error {
	input := c.cfg.styleInput
	switch {
	case input == "":
		input = assets.DefaultStyleName
	case fileutil.IsFilePath(input):
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("loading style file %q: %w", input, err)
		}
		c.style = string(content)
		return nil
	case fileutil.IsCSS(input):
		c.style = input
		return nil
	}

	css, err := c.loader.LoadStyle(input)
	if err != nil {
		return fmt.Errorf("loading style %q: %w", input, err)
	}
	c.style = css
	return nil
}

// Styles lists the style names the converter can load.
func (c *Converter) Styles() []string {
	if l, ok := c.loader.(assets.StyleLister); ok {
		return l.Styles()
	}
	return nil
}

// Convert parses the sources as one document and builds every requested
// output. Internal panics are returned as errors.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := validateInput(input); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := NewDocument(WithLogger(c.cfg.logger), withRender(c.cfg.render))
	for _, src := range input.Sources {
		if err := doc.AddPage(src.Name, src.Text); err != nil {
			return nil, err
		}
	}
	if err := doc.Parse(); err != nil {
		return nil, err
	}
	pages, err := doc.Pages()
	if err != nil {
		return nil, err
	}

	res := &ConvertResult{Pages: make([]PageResult, 0, len(pages)), Stats: doc.Stats()}
	for _, page := range pages {
		pr, err := c.convertPage(ctx, page, input)
		if err != nil {
			return nil, fmt.Errorf("page %q: %w", page.Path, err)
		}
		res.Pages = append(res.Pages, pr)
	}

	if input.Graph != "" {
		if res.Graph, err = doc.Serialize(input.Graph); err != nil {
			return nil, fmt.Errorf("serializing graph: %w", err)
		}
	}
	return res, nil
}

func (c *Converter) convertPage(ctx context.Context, page Page, input Input) (PageResult, error) {
	pr := PageResult{Name: page.Name, Path: page.Path, Title: page.Title, Headings: page.Headings}
	if !input.Standalone && !input.PDF {
		pr.HTML = []byte(page.HTML)
		return pr, nil
	}

	html, err := c.standalone(ctx, page, input)
	if err != nil {
		return PageResult{}, err
	}
	pr.HTML = []byte(html)

	if input.PDF {
		c.cfg.logger.Debug("exporting PDF", slog.String("page", page.Path))
		if pr.PDF, err = c.pdf.ToPDF(ctx, html, input.Page); err != nil {
			return PageResult{}, fmt.Errorf("converting to PDF: %w", err)
		}
	}
	return pr, nil
}

// standalone wraps a page fragment into a full document: relative paths
// rewritten, page template, stylesheet, then the table of contents.
func (c *Converter) standalone(ctx context.Context, page Page, input Input) (string, error) {
	body := page.HTML
	if input.SourceDir != "" {
		var err error
		if body, err = pipeline.RewriteRelativePaths(body, input.SourceDir); err != nil {
			return "", fmt.Errorf("%w: rewriting relative paths: %v", ErrHTMLTransform, err)
		}
	}

	title := page.Title
	if title == "" {
		title = page.Name
	}
	html, err := c.wrapper.Wrap(ctx, pipeline.PageData{
		Title: title,
		Path:  page.Path,
		Body:  template.HTML(body), // #nosec G203 -- renderer output is escaped
	})
	if err != nil {
		return "", err
	}

	css := c.style
	if c.codeCSS != "" {
		css += "\n" + c.codeCSS
	}
	if input.CSS != "" {
		css += "\n" + input.CSS
	}
	html = c.cssInjector.InjectCSS(ctx, html, css)
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if input.TOC != nil {
		minDepth, maxDepth := input.TOC.depths()
		entries := make([]pipeline.TOCEntry, len(page.Headings))
		for i, h := range page.Headings {
			entries[i] = pipeline.TOCEntry(h)
		}
		html, err = c.tocInjector.InjectTOC(ctx, html, entries, &pipeline.TOCData{
			Title:    input.TOC.Title,
			MinDepth: minDepth,
			MaxDepth: maxDepth,
		})
		if err != nil {
			return "", fmt.Errorf("injecting TOC: %w", err)
		}
	}
	return html, nil
}

// Close releases the browser, if one was started.
func (c *Converter) Close() error {
	if c.pdf != nil {
		return c.pdf.Close()
	}
	return nil
}

// validateInput is the trust boundary for library callers building Input by
// hand; CLI input was already checked by config validation.
func validateInput(input Input) error {
	if len(input.Sources) == 0 {
		return ErrNoPages
	}
	for i, src := range input.Sources {
		if src.Text == "" {
			return fmt.Errorf("%w: source %d (%q)", ErrEmptySource, i+1, src.Name)
		}
	}
	if input.Graph != "" {
		if _, err := ParseFormat(string(input.Graph)); err != nil {
			return err
		}
	}
	if err := input.Page.Validate(); err != nil {
		return err
	}
	return input.TOC.Validate()
}

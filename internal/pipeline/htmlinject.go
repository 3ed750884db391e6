package pipeline

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"
)

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block before </head>, else after <body>, else
// in front of the content.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" || ctx.Err() != nil {
		return htmlContent
	}

	block := "<style>" + sanitizeCSS(cssContent) + "</style>"
	if idx := strings.Index(strings.ToLower(htmlContent), "</head>"); idx != -1 {
		return htmlContent[:idx] + block + htmlContent[idx:]
	}
	if pos := afterBodyTag(htmlContent); pos != -1 {
		return htmlContent[:pos] + block + htmlContent[pos:]
	}
	return block + htmlContent
}

// sanitizeCSS keeps the stylesheet from closing its <style> element early.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// afterBodyTag returns the offset just past the opening <body ...> tag, or -1.
func afterBodyTag(htmlContent string) int {
	idx := strings.Index(strings.ToLower(htmlContent), "<body")
	if idx == -1 {
		return -1
	}
	end := strings.IndexByte(htmlContent[idx:], '>')
	if end == -1 {
		return -1
	}
	return idx + end + 1
}

// TOCEntry is one heading offered to the table of contents.
type TOCEntry struct {
	Level int    // 1-6
	ID    string // anchor id, empty when the heading has no anchor
	Text  string // plain text
}

// TOCData holds TOC configuration for injection.
type TOCData struct {
	Title    string
	MinDepth int
	MaxDepth int
}

// TOCInjector defines the contract for TOC injection into HTML.
type TOCInjector interface {
	InjectTOC(ctx context.Context, htmlContent string, entries []TOCEntry, data *TOCData) (string, error)
}

// TOCInjection implements TOCInjector.
type TOCInjection struct{}

// NewTOCInjection creates a new TOC injector.
func NewTOCInjection() *TOCInjection {
	return &TOCInjection{}
}

// InjectTOC writes a numbered TOC right after <body>. Entries outside the
// depth range or without an anchor are skipped; with no entry left, or a nil
// data, the content is returned unchanged.
func (t *TOCInjection) InjectTOC(ctx context.Context, htmlContent string, entries []TOCEntry, data *TOCData) (string, error) {
	if data == nil {
		return htmlContent, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	toc := generateNumberedTOC(selectEntries(entries, data.MinDepth, data.MaxDepth), data.Title)
	if toc == "" {
		return htmlContent, nil
	}
	if pos := afterBodyTag(htmlContent); pos != -1 {
		return htmlContent[:pos] + toc + htmlContent[pos:], nil
	}
	return toc + htmlContent, nil
}

func selectEntries(entries []TOCEntry, minDepth, maxDepth int) []TOCEntry {
	var out []TOCEntry
	for _, e := range entries {
		if e.ID == "" || e.Level < minDepth || e.Level > maxDepth {
			continue
		}
		out = append(out, e)
	}
	return out
}

// numberingState tracks hierarchical numbering for TOC entries. The first
// heading seen defines depth 1 and skipped levels collapse to one step.
type numberingState struct {
	counters     [6]int
	minLevelSeen int
	lastLevel    int
}

// next returns the number string and the effective depth of a heading.
func (n *numberingState) next(level int) (num string, depth int) {
	if n.minLevelSeen == 0 {
		n.minLevelSeen = level
	}
	depth = max(level-n.minLevelSeen+1, 1)
	if n.lastLevel > 0 && depth > n.lastLevel+1 {
		depth = n.lastLevel + 1
	}

	for i := depth; i < len(n.counters); i++ {
		n.counters[i] = 0
	}
	n.counters[depth-1]++
	n.lastLevel = depth

	parts := make([]string, depth)
	for i := range depth {
		parts[i] = strconv.Itoa(n.counters[i])
	}
	return strings.Join(parts, ".") + ".", depth
}

// generateNumberedTOC renders entries as nested <div> items indented 1.5em
// per depth.
func generateNumberedTOC(entries []TOCEntry, title string) string {
	if len(entries) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(`<nav class="toc">`)
	if title != "" {
		b.WriteString(`<h2 class="toc-title">` + html.EscapeString(title) + `</h2>`)
	}
	b.WriteString(`<div class="toc-list">`)

	var numbering numberingState
	for _, e := range entries {
		num, depth := numbering.next(e.Level)
		b.WriteString(`<div class="toc-item"`)
		if depth > 1 {
			fmt.Fprintf(&b, ` style="padding-left:%.1fem"`, float64(depth-1)*1.5)
		}
		fmt.Fprintf(&b, `><a href="#%s">%s %s</a></div>`, html.EscapeString(e.ID), num, html.EscapeString(e.Text))
	}

	b.WriteString(`</div></nav>`)
	return b.String()
}

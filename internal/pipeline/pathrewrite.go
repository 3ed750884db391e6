package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// rewrittenAttrs lists the attributes holding local file references: image
// sources and link targets. Video embeds always point at remote players.
var rewrittenAttrs = map[atom.Atom]string{
	atom.Img: "src",
	atom.A:   "href",
}

// RewriteRelativePaths turns relative img/a references into absolute file://
// URLs so a page printed from a temp file still finds its assets. URLs,
// anchors, absolute paths and paths escaping sourceDir are left untouched.
// An empty sourceDir returns the content unchanged.
func RewriteRelativePaths(htmlContent, sourceDir string) (string, error) {
	if sourceDir == "" {
		return htmlContent, nil
	}
	base, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}

	root, fragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}
	for n := range root.Descendants() {
		if n.Type != html.ElementNode {
			continue
		}
		if key, ok := rewrittenAttrs[n.DataAtom]; ok {
			rewriteAttr(n, key, base)
		}
	}
	return renderHTML(root, fragment)
}

// parseHTML parses a full document, or a fragment in body context. Fragment
// nodes are collected under a bare document node.
func parseHTML(content string) (root *html.Node, fragment bool, err error) {
	head := strings.ToLower(strings.TrimSpace(content))
	if strings.HasPrefix(head, "<!doctype") || strings.HasPrefix(head, "<html") {
		root, err = html.Parse(strings.NewReader(content))
		return root, false, err
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, true, err
	}
	root = &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root, true, nil
}

func renderHTML(root *html.Node, fragment bool) (string, error) {
	var b strings.Builder
	if !fragment {
		err := html.Render(&b, root)
		return b.String(), err
	}
	for c := range root.ChildNodes() {
		if err := html.Render(&b, c); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func rewriteAttr(n *html.Node, key, base string) {
	for i, attr := range n.Attr {
		if attr.Key != key || !isRelativePath(attr.Val) {
			continue
		}
		abs := filepath.Join(base, attr.Val)
		if !isPathUnderDir(abs, base) {
			continue
		}
		n.Attr[i].Val = pathToFileURL(abs)
	}
}

// isRelativePath reports whether path is a local relative reference.
func isRelativePath(path string) bool {
	if path == "" || strings.HasPrefix(path, "#") || strings.HasPrefix(path, "//") {
		return false
	}
	if u, err := url.Parse(path); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		return false
	}
	return !filepath.IsAbs(path)
}

// isPathUnderDir reports whether path stays inside dir after cleaning.
func isPathUnderDir(path, dir string) bool {
	sep := string(filepath.Separator)
	cleanDir := filepath.Clean(dir)
	if !strings.HasSuffix(cleanDir, sep) {
		cleanDir += sep
	}
	return strings.HasPrefix(filepath.Clean(path)+sep, cleanDir)
}

// pathToFileURL converts an absolute path to a file:// URL.
func pathToFileURL(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

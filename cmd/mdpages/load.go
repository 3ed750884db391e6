package main

import (
	"fmt"
	"path/filepath"

	mdpages "github.com/alnah/go-mdpages"
)

// runLoad implements "mdpages load": the pages of a serialized graph are
// rendered again without the source files.
func runLoad(args []string, env *Environment) error {
	f, positional, err := parseLoadFlags(args)
	if err != nil {
		return usageError(err)
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: load takes exactly one graph file", ErrUsage)
	}
	path := positional[0]
	if !isGraphFile(path) {
		return fmt.Errorf("%w: %q is not a .yaml, .yml or .json graph", ErrUsage, path)
	}

	doc, err := openDocument(path, mdpages.WithLogger(newLogger(env.Stderr, f.common)))
	if err != nil {
		return err
	}
	pages, err := doc.Pages()
	if err != nil {
		return err
	}

	if f.list {
		for _, p := range pages {
			fmt.Fprintf(env.Stdout, "%s\t%s\t%s\n", p.Path, p.Name, p.Title)
		}
		return nil
	}

	outDir := f.output
	if outDir == "" {
		outDir = filepath.Dir(path)
	}
	results := make([]mdpages.PageResult, len(pages))
	for i, p := range pages {
		results[i] = mdpages.PageResult{Name: p.Name, Path: p.Path, Title: p.Title, HTML: []byte(p.HTML)}
	}
	written, err := writePages(outDir, results, false)
	if !f.common.quiet {
		for _, out := range written {
			fmt.Fprintf(env.Stdout, "Created %s\n", out)
		}
	}
	return err
}

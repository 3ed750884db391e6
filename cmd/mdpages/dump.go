package main

import (
	"fmt"
	"os"
	"path/filepath"

	mdpages "github.com/alnah/go-mdpages"
)

// runDump implements "mdpages dump".
func runDump(args []string, env *Environment) error {
	f, positional, err := parseDumpFlags(args)
	if err != nil {
		return usageError(err)
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: dump takes exactly one file", ErrUsage)
	}

	stage, err := mdpages.ParseStage(f.stage)
	if err != nil {
		return err
	}

	logger := newLogger(env.Stderr, f.common)
	doc, err := openDocument(positional[0], mdpages.WithLogger(logger))
	if err != nil {
		return err
	}

	if f.stats {
		for _, st := range doc.Stats() {
			fmt.Fprintf(env.Stdout, "%-10s roots=%d nodes=%d\n", st.Stage, st.Roots, st.Nodes)
		}
		return nil
	}
	return doc.Dump(env.Stdout, stage)
}

// openDocument reads a serialized graph, or parses a markup file as a
// single page named after the file.
func openDocument(path string, opts ...mdpages.Option) (*mdpages.Document, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
	}

	if isGraphFile(path) {
		return mdpages.Deserialize(data, opts...)
	}

	doc := mdpages.NewDocument(opts...)
	if err := doc.AddPage(trimExt(filepath.Base(path)), string(data)); err != nil {
		return nil, err
	}
	if err := doc.Parse(); err != nil {
		return nil, err
	}
	return doc, nil
}

func isGraphFile(path string) bool {
	switch filepath.Ext(path) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

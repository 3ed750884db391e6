package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// htmlFlags controls standalone output.
type htmlFlags struct {
	standalone bool
	style      string
	css        string
	assetPath  string
}

// tocFlags holds table of contents flags.
type tocFlags struct {
	enabled  bool
	title    string
	minDepth int
	maxDepth int
}

// pageFlags holds PDF page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
}

// highlightFlags controls code highlighting.
type highlightFlags struct {
	enabled bool
	style   string
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common    commonFlags
	output    string
	workers   int
	timeout   string
	combine   bool
	graph     string
	pdf       bool
	html      htmlFlags
	toc       tocFlags
	page      pageFlags
	highlight highlightFlags
}

// dumpFlags holds flags for the dump command.
type dumpFlags struct {
	common commonFlags
	stage  string
	stats  bool
}

// loadFlags holds flags for the load command.
type loadFlags struct {
	common commonFlags
	output string
	list   bool
}

func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only print errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "print timings and debug logs")
}

func addHTMLFlags(fs *flag.FlagSet, f *htmlFlags) {
	fs.BoolVarP(&f.standalone, "standalone", "s", false, "write full HTML documents")
	fs.StringVar(&f.style, "style", "", "style name, CSS file path, or inline CSS")
	fs.StringVar(&f.css, "css", "", "extra CSS file appended after the style")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory overriding embedded styles and templates")
}

func addTOCFlags(fs *flag.FlagSet, f *tocFlags) {
	fs.BoolVar(&f.enabled, "toc", false, "add a table of contents to standalone pages")
	fs.StringVar(&f.title, "toc-title", "", "table of contents heading")
	fs.IntVar(&f.minDepth, "toc-min-depth", 0, "lowest heading level listed (1-6)")
	fs.IntVar(&f.maxDepth, "toc-max-depth", 0, "deepest heading level listed (1-6)")
}

func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "PDF page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "PDF orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "PDF margin in inches (0.25-3.0)")
}

func addHighlightFlags(fs *flag.FlagSet, f *highlightFlags) {
	fs.BoolVar(&f.enabled, "highlight", false, "highlight code blocks")
	fs.StringVar(&f.style, "code-style", "", "highlighting color scheme (default github)")
}

func parseRenderFlags(args []string) (*renderFlags, []string, error) {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	f := &renderFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF page load timeout (e.g. 30s, 2m)")
	fs.BoolVar(&f.combine, "combine", false, "render all inputs as one document")
	fs.StringVarP(&f.graph, "graph", "g", "", "also write the node graph: yaml or json")
	fs.BoolVar(&f.pdf, "pdf", false, "also export every page to PDF")

	addCommonFlags(fs, &f.common)
	addHTMLFlags(fs, &f.html)
	addTOCFlags(fs, &f.toc)
	addPageFlags(fs, &f.page)
	addHighlightFlags(fs, &f.highlight)

	fs.Usage = func() { printRenderUsage(os.Stderr) }
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

func parseDumpFlags(args []string) (*dumpFlags, []string, error) {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	f := &dumpFlags{}

	fs.StringVar(&f.stage, "stage", "merge", "stage to print")
	fs.BoolVar(&f.stats, "stats", false, "print record counts per pass instead")
	addCommonFlags(fs, &f.common)

	fs.Usage = func() { printDumpUsage(os.Stderr) }
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

func parseLoadFlags(args []string) (*loadFlags, []string, error) {
	fs := flag.NewFlagSet("load", flag.ContinueOnError)
	f := &loadFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output directory (default: next to the graph)")
	fs.BoolVar(&f.list, "list", false, "list pages instead of writing them")
	addCommonFlags(fs, &f.common)

	fs.Usage = func() { printLoadUsage(os.Stderr) }
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

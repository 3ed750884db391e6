package main

import (
	"fmt"
	"io"
	"strings"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpages <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Render markup files to HTML pages")
	fmt.Fprintln(w, "  dump       Print the tree a pipeline stage produced")
	fmt.Fprintln(w, "  load       Render pages from a serialized graph")
	fmt.Fprintln(w, "  doctor     Check the engine and PDF prerequisites")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mdpages help <command>' for details on a specific command.")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpages render <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render markup files to HTML. A line (Page Path=\"x\" Title=\"Y\") starts a new")
	fmt.Fprintln(w, "output page; each page is written to <output>/<Path>.html.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    .md file or directory (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: next to the source)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --combine             Render a directory as one document")
	fmt.Fprintln(w, "  -g, --graph <format>      Also write the node graph: yaml, json")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "HTML:")
	fmt.Fprintln(w, "  -s, --standalone          Write full HTML documents")
	fmt.Fprintln(w, "      --style <s>           Style name, CSS file, or inline CSS")
	fmt.Fprintln(w, "      --css <path>          Extra CSS file appended after the style")
	fmt.Fprintln(w, "      --asset-path <dir>    Override embedded styles and templates")
	fmt.Fprintln(w, "      --highlight           Highlight code blocks")
	fmt.Fprintln(w, "      --code-style <s>      Highlighting color scheme (default github)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Table of Contents (implies --standalone):")
	fmt.Fprintln(w, "      --toc                 Add a table of contents")
	fmt.Fprintln(w, "      --toc-title <s>       TOC heading text")
	fmt.Fprintln(w, "      --toc-min-depth <n>   Lowest heading level (1-6)")
	fmt.Fprintln(w, "      --toc-max-depth <n>   Deepest heading level (1-6)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "PDF (implies --standalone):")
	fmt.Fprintln(w, "      --pdf                 Also export every page to PDF")
	fmt.Fprintln(w, "  -t, --timeout <d>         Page load timeout (e.g. 30s, 2m)")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: letter, a4, legal")
	fmt.Fprintln(w, "      --orientation <s>     Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <f>          Margin in inches (0.25-3.0)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show timings and per-pass debug logs")
}

// printDumpUsage prints usage for the dump command.
func printDumpUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpages dump <file|graph> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the tree a stage produced. A .yaml, .yml or .json argument is read")
	fmt.Fprintln(w, "as a serialized graph; anything else is parsed as markup.")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "      --stage <s>           Stage: %s (default merge)\n", strings.Join(stageNames(), ", "))
	fmt.Fprintln(w, "      --stats               Print record counts per pass")
	fmt.Fprintln(w, "  -v, --verbose             Show per-pass debug logs")
}

// printLoadUsage prints usage for the load command.
func printLoadUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpages load <graph> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rebuild a document from a serialized graph and write its page fragments.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: next to the graph)")
	fmt.Fprintln(w, "      --list                List pages instead of writing them")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "dump":
		printDumpUsage(env.Stdout)
	case "load":
		printLoadUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: mdpages doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check the pipeline, Chrome and the environment.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mdpages version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mdpages help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}

// Package mdpages converts a lightweight markup into HTML pages.
//
// # Quick Start
//
// Build a document, parse it, and render its pages:
//
//	doc := mdpages.NewDocument()
//	doc.AddPage("index", "# Hello\n\nSome **bold** text.")
//	if err := doc.Parse(); err != nil {
//	    log.Fatal(err)
//	}
//	pages, err := doc.Pages()
//
// A line such as (Page Path="intro" Title="Intro") starts a new output page; each
// Page carries its Path and Title. Converter wraps the same steps and adds
// standalone documents, tables of contents, serialized graphs and PDF export:
//
//	conv, err := mdpages.NewConverter(mdpages.WithHighlighting(true))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	res, err := conv.Convert(ctx, mdpages.Input{
//	    Sources:    []mdpages.Source{{Name: "index", Text: text}},
//	    Standalone: true,
//	    TOC:        &mdpages.TOC{Title: "Contents"},
//	})
//
// # Pipeline
//
// Every step appends records to one registry and never mutates the output of
// an earlier step:
//
//  1. Lexing: each source page becomes a flat token run.
//  2. Recognize: tokens are matched into syntax nodes.
//  3. Close: paired delimiters become containers.
//  4. Fold: inline runs are folded into paragraphs and blocks.
//  5. Owner: nodes move under the owners they may live in.
//  6. Merge: adjacent compatible nodes merge; notes attach parameters.
//  7. Render: the merged tree maps to render nodes and then to HTML.
//
// Document.Dump prints the tree of any stage, and Serialize writes the whole
// graph as YAML or JSON for Deserialize to load back.
//
// # Errors
//
// A Parse failure is an internal invariant violation and wraps
// ErrInternalInvariant; the document must be discarded. Graph loading fails
// with ErrCorruptGraph. Validation errors such as ErrInvalidPageSize or
// ErrInvalidTOCDepth can be checked with errors.Is.
//
// # PDF
//
// PDF export prints standalone pages with headless Chrome through go-rod.
// Set ROD_BROWSER_BIN to use a specific browser and ROD_NO_SANDBOX=1 in
// containers. Use ConverterPool to convert in parallel, one browser per
// converter.
package mdpages

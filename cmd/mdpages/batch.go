package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	mdpages "github.com/alnah/go-mdpages"
	"github.com/alnah/go-mdpages/internal/fileutil"
)

// Sentinel errors for batch operations.
var (
	ErrNoInput       = errors.New("no input specified")
	ErrReadInput     = errors.New("failed to read input file")
	ErrWriteOutput   = errors.New("failed to write output file")
	ErrConverterInit = errors.New("failed to initialize converter")
)

// renderParams is the per-batch part of mdpages.Input.
type renderParams struct {
	css        string
	toc        *mdpages.TOC
	standalone bool
	graph      mdpages.Format
	pdf        bool
	page       *mdpages.PageSettings
}

// RenderResult holds the outcome of one job.
type RenderResult struct {
	InputPath string
	Outputs   []string
	Err       error
	Duration  time.Duration
}

// renderBatch runs jobs concurrently, one converter per worker.
func renderBatch(ctx context.Context, pool Pool, jobs []renderJob, params *renderParams) []RenderResult {
	if len(jobs) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(jobs))
	results := make([]RenderResult, len(jobs))
	queue := make(chan int, len(jobs))
	for i := range jobs {
		queue <- i
	}
	close(queue)

	var wg sync.WaitGroup
	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conv, err := pool.Acquire()
			if err != nil {
				for idx := range queue {
					results[idx] = RenderResult{
						InputPath: jobLabel(jobs[idx]),
						Err:       fmt.Errorf("%w: %w", ErrConverterInit, err),
					}
				}
				return
			}
			defer pool.Release(conv)

			for idx := range queue {
				if ctx.Err() != nil {
					results[idx] = RenderResult{InputPath: jobLabel(jobs[idx]), Err: ctx.Err()}
					continue
				}
				results[idx] = renderJobFiles(ctx, conv, jobs[idx], params)
			}
		}()
	}

	wg.Wait()
	return results
}

// jobLabel names a job in output: the file, or the source directory for a
// combined job.
func jobLabel(job renderJob) string {
	if len(job.Files) == 1 {
		return job.Files[0]
	}
	return job.SourceDir
}

// renderJobFiles reads one job's sources, converts them and writes every page.
func renderJobFiles(ctx context.Context, conv CLIConverter, job renderJob, params *renderParams) RenderResult {
	start := time.Now()
	result := RenderResult{InputPath: jobLabel(job)}
	fail := func(err error) RenderResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	sources := make([]mdpages.Source, 0, len(job.Files))
	for _, path := range job.Files {
		content, err := os.ReadFile(path) // #nosec G304 -- discovered path
		if err != nil {
			return fail(fmt.Errorf("%w: %v", ErrReadInput, err))
		}
		sources = append(sources, mdpages.Source{Name: sourceName(job, path), Text: string(content)})
	}

	res, err := conv.Convert(ctx, mdpages.Input{
		Sources:    sources,
		SourceDir:  job.SourceDir,
		CSS:        params.css,
		TOC:        params.toc,
		Standalone: params.standalone,
		Graph:      params.graph,
		PDF:        params.pdf,
		Page:       params.page,
	})
	if err != nil {
		return fail(err)
	}

	outputs, err := writePages(job.OutputDir, res.Pages, params.pdf)
	result.Outputs = outputs
	if err != nil {
		return fail(err)
	}

	if params.graph != "" {
		path := filepath.Join(job.OutputDir, job.Name+".graph."+string(params.graph))
		if err := fileutil.WriteFile(path, res.Graph); err != nil {
			return fail(fmt.Errorf("%w: %v", ErrWriteOutput, err))
		}
		result.Outputs = append(result.Outputs, path)
	}

	result.Duration = time.Since(start)
	return result
}

// sourceName is the page name of a file: its path below the job's source
// directory without extension, in slash form.
func sourceName(job renderJob, path string) string {
	rel, err := filepath.Rel(job.SourceDir, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	return filepath.ToSlash(trimExt(rel))
}

// writePages writes each page as <dir>/<Path>.html, plus .pdf when exported.
// It returns the paths written before any failure.
func writePages(dir string, pages []mdpages.PageResult, withPDF bool) ([]string, error) {
	paths := make([]string, len(pages))
	for i, p := range pages {
		paths[i] = p.Path
	}
	paths = uniquePaths(paths)

	var written []string
	for i, p := range pages {
		htmlPath, err := pageOutputPath(dir, paths[i], ".html")
		if err != nil {
			return written, err
		}
		if err := fileutil.WriteFile(htmlPath, p.HTML); err != nil {
			return written, fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		written = append(written, htmlPath)

		if withPDF {
			pdfPath := fileutil.ReplaceExt(htmlPath, ".pdf")
			if err := fileutil.WriteFile(pdfPath, p.PDF); err != nil {
				return written, fmt.Errorf("%w: %v", ErrWriteOutput, err)
			}
			written = append(written, pdfPath)
		}
	}
	return written, nil
}

// ResultSummary holds the count of succeeded and failed jobs.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

func countResults(results []RenderResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults writes one line per output and a summary for batches. It
// returns the number of failed jobs.
func printResults(results []RenderResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}
		if quiet {
			continue
		}
		for _, out := range r.Outputs {
			if verbose {
				fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, out, r.Duration.Round(time.Millisecond))
			} else {
				fmt.Fprintf(env.Stdout, "Created %s\n", out)
			}
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}
	return summary.Failed
}

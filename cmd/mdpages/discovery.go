package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	mdpages "github.com/alnah/go-mdpages"
)

// Sentinel errors for input discovery.
var (
	ErrInvalidExtension   = errors.New("file must have .md or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// renderJob is one Document to build: a single file, or every file of a
// directory with --combine.
type renderJob struct {
	Name      string   // base name of the graph file
	Files     []string // source files in page order
	SourceDir string   // relative img and link paths resolve here
	OutputDir string
}

// discoverJobs finds every markup file under inputPath. Output directories
// mirror the input tree below outputDir; an empty outputDir writes next to
// the sources.
func discoverJobs(inputPath, outputDir string, combine bool) ([]renderJob, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateSourceExtension(inputPath); err != nil {
			return nil, err
		}
		dir := filepath.Dir(inputPath)
		out := outputDir
		if out == "" {
			out = dir
		}
		return []renderJob{{
			Name:      trimExt(filepath.Base(inputPath)),
			Files:     []string{inputPath},
			SourceDir: dir,
			OutputDir: out,
		}}, nil
	}

	files, err := walkSources(inputPath)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}

	if combine {
		out := outputDir
		if out == "" {
			out = inputPath
		}
		return []renderJob{{
			Name:      filepath.Base(filepath.Clean(inputPath)),
			Files:     files,
			SourceDir: inputPath,
			OutputDir: out,
		}}, nil
	}

	jobs := make([]renderJob, 0, len(files))
	for _, path := range files {
		dir := filepath.Dir(path)
		jobs = append(jobs, renderJob{
			Name:      trimExt(filepath.Base(path)),
			Files:     []string{path},
			SourceDir: dir,
			OutputDir: resolveOutputDir(dir, outputDir, inputPath),
		})
	}
	return jobs, nil
}

// walkSources lists markup files in lexical order.
func walkSources(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !isSourceFile(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

// resolveOutputDir maps a source directory into outputDir.
func resolveOutputDir(sourceDir, outputDir, baseInputDir string) string {
	if outputDir == "" {
		return sourceDir
	}
	rel, err := filepath.Rel(baseInputDir, sourceDir)
	if err != nil {
		return outputDir
	}
	return filepath.Join(outputDir, rel)
}

func isSourceFile(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".md" || ext == ".markdown"
}

// validateSourceExtension checks that the file has a .md or .markdown extension.
func validateSourceExtension(path string) error {
	if !isSourceFile(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// validateWorkers checks that the worker count is within bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > mdpages.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, mdpages.MaxPoolSize)
	}
	return nil
}

func trimExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// pageOutputPath joins a page Path under dir. Absolute paths and paths
// leaving dir are rejected.
func pageOutputPath(dir, pagePath, ext string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(pagePath))
	if clean == "." || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: page path %q escapes the output directory", ErrWriteOutput, pagePath)
	}
	return filepath.Join(dir, clean+ext), nil
}

// uniquePaths appends -2, -3 to repeated page paths.
func uniquePaths(paths []string) []string {
	seen := make(map[string]int, len(paths))
	out := make([]string, len(paths))
	for i, p := range paths {
		seen[p]++
		if n := seen[p]; n > 1 {
			candidate := fmt.Sprintf("%s-%d", p, n)
			for seen[candidate] > 0 {
				n++
				candidate = fmt.Sprintf("%s-%d", p, n)
			}
			seen[p] = n
			seen[candidate] = 1
			p = candidate
		}
		out[i] = p
	}
	return out
}

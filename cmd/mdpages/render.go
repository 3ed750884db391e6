package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	mdpages "github.com/alnah/go-mdpages"
	"github.com/alnah/go-mdpages/internal/config"
	"github.com/alnah/go-mdpages/internal/fileutil"
	"github.com/alnah/go-mdpages/internal/hints"
)

// Sentinel errors for command-line usage.
var (
	ErrUsage          = errors.New("invalid usage")
	ErrInvalidTimeout = errors.New("invalid timeout")
	ErrReadCSS        = errors.New("failed to read CSS file")
)

// runRender implements "mdpages render".
func runRender(ctx context.Context, args []string, env *Environment) error {
	f, positional, err := parseRenderFlags(args)
	if err != nil {
		return usageError(err)
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: render takes one file or directory, got %d", ErrUsage, len(positional))
	}

	logger := newLogger(env.Stderr, f.common)
	warnUnknownEnvVars(env.Stderr)
	envCfg := loadEnvConfig()

	cfg, err := resolveConfig(f.common.config, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(f, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	workers := f.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	if err := validateWorkers(workers); err != nil {
		return err
	}
	timeout, err := resolveTimeout(f.timeout, cfg)
	if err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positional, cfg)
	if err != nil {
		return err
	}
	jobs, err := discoverJobs(inputPath, cfg.Output.DefaultDir, f.combine)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(jobs) == 0 {
		return fmt.Errorf("%w: no .md or .markdown files in %s", ErrNoInput, inputPath)
	}

	params, err := buildRenderParams(f, cfg)
	if err != nil {
		return err
	}

	size := min(mdpages.ResolvePoolSize(workers), len(jobs))
	logger.Debug("rendering", slog.String("input", inputPath), slog.Int("jobs", len(jobs)), slog.Int("workers", size))
	pool := mdpages.NewConverterPool(size, buildOptions(cfg, timeout, logger)...)
	defer func() {
		if err := pool.Close(); err != nil {
			logger.Warn("closing converters", slog.Any("error", err))
		}
	}()

	results := renderBatch(ctx, converterPool{pool}, jobs, params)
	if failed := printResults(results, f.common.quiet, f.common.verbose, env); failed > 0 {
		return fmt.Errorf("%d of %d job(s) failed: %w", failed, len(results), firstError(results))
	}
	return nil
}

// usageError keeps flag.ErrHelp recognizable and marks the rest as usage
// errors.
func usageError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}

// firstError returns the first failure, so the exit code reflects its kind.
func firstError(results []RenderResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

// resolveConfig loads the config named by the flag, then MDPAGES_CONFIG.
// Neither set means defaults.
func resolveConfig(flagConfig string, env *envConfig) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = env.ConfigPath
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags copies set flags over config values.
func mergeFlags(f *renderFlags, cfg *config.Config) {
	if f.output != "" {
		cfg.Output.DefaultDir = f.output
	}
	if f.graph != "" {
		cfg.Graph.Format = f.graph
	}
	if f.pdf {
		cfg.PDF.Enabled = true
	}

	if f.highlight.enabled {
		cfg.Render.Highlight = true
	}
	if f.highlight.style != "" {
		cfg.Render.CodeStyle = f.highlight.style
	}

	if f.html.standalone {
		cfg.HTML.Standalone = true
	}
	if f.html.style != "" {
		cfg.HTML.Style = f.html.style
	}
	if f.html.assetPath != "" {
		cfg.Assets.BasePath = f.html.assetPath
	}

	if f.toc.enabled {
		cfg.HTML.TOC.Enabled = true
	}
	if f.toc.title != "" {
		cfg.HTML.TOC.Title = f.toc.title
	}
	if f.toc.minDepth != 0 {
		cfg.HTML.TOC.MinDepth = f.toc.minDepth
	}
	if f.toc.maxDepth != 0 {
		cfg.HTML.TOC.MaxDepth = f.toc.maxDepth
	}

	if f.page.size != "" {
		cfg.PDF.Page.Size = f.page.size
	}
	if f.page.orientation != "" {
		cfg.PDF.Page.Orientation = f.page.orientation
	}
	if f.page.margin != 0 {
		cfg.PDF.Page.Margin = f.page.margin
	}
}

// resolveTimeout parses the flag value, falling back to the config.
// Zero means the library default.
func resolveTimeout(flagTimeout string, cfg *config.Config) (time.Duration, error) {
	if flagTimeout == "" {
		return cfg.PDF.Timeout, nil
	}
	d, err := time.ParseDuration(flagTimeout)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidTimeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: must be positive, got %s", ErrInvalidTimeout, d)
	}
	return d, nil
}

// resolveInputPath takes the positional argument, then the config default.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// buildOptions maps config to converter options.
func buildOptions(cfg *config.Config, timeout time.Duration, logger *slog.Logger) []mdpages.Option {
	opts := []mdpages.Option{
		mdpages.WithLogger(logger),
		mdpages.WithHighlighting(cfg.Render.Highlight),
		mdpages.WithCodeStyle(cfg.Render.CodeStyle),
		mdpages.WithStyle(cfg.HTML.Style),
		mdpages.WithAssetPath(cfg.Assets.BasePath),
	}
	if timeout > 0 {
		opts = append(opts, mdpages.WithTimeout(timeout))
	}
	return opts
}

// buildRenderParams collects the per-job conversion input.
func buildRenderParams(f *renderFlags, cfg *config.Config) (*renderParams, error) {
	p := &renderParams{
		standalone: cfg.HTML.Standalone || cfg.HTML.TOC.Enabled,
		pdf:        cfg.PDF.Enabled,
	}

	if cfg.Graph.Format != "" {
		format, err := mdpages.ParseFormat(cfg.Graph.Format)
		if err != nil {
			return nil, err
		}
		p.graph = format
	}

	if f.html.css != "" {
		content, err := os.ReadFile(f.html.css) // #nosec G304 -- user-provided path
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadCSS, err)
		}
		p.css = string(content)
	}

	if cfg.HTML.TOC.Enabled {
		p.toc = &mdpages.TOC{
			Title:    cfg.HTML.TOC.Title,
			MinDepth: cfg.HTML.TOC.MinDepth,
			MaxDepth: cfg.HTML.TOC.MaxDepth,
		}
		if err := p.toc.Validate(); err != nil {
			return nil, err
		}
	}

	if p.pdf {
		page, err := buildPageSettings(cfg)
		if err != nil {
			return nil, err
		}
		p.page = page
	}
	return p, nil
}

// buildPageSettings fills unset page values with defaults. No page config
// means nil, so the library defaults apply.
func buildPageSettings(cfg *config.Config) (*mdpages.PageSettings, error) {
	pc := cfg.PDF.Page
	if pc.Size == "" && pc.Orientation == "" && pc.Margin == 0 {
		return nil, nil
	}

	ps := mdpages.DefaultPageSettings()
	if pc.Size != "" {
		ps.Size = pc.Size
	}
	if pc.Orientation != "" {
		ps.Orientation = pc.Orientation
	}
	if pc.Margin != 0 {
		ps.Margin = pc.Margin
	}
	if err := ps.Validate(); err != nil {
		return nil, err
	}
	return ps, nil
}

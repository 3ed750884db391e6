package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-mdpages/internal/config"
)

// envConfig holds configuration from environment variables, for CI runs
// without a config file.
type envConfig struct {
	ConfigPath string        // MDPAGES_CONFIG: config file name or path
	Style      string        // MDPAGES_STYLE: style name, path or CSS
	Timeout    time.Duration // MDPAGES_TIMEOUT: PDF page load timeout

	InputDir  string // MDPAGES_INPUT_DIR: default input directory
	OutputDir string // MDPAGES_OUTPUT_DIR: default output directory

	PageSize  string // MDPAGES_PAGE_SIZE: a4, letter, legal
	CodeStyle string // MDPAGES_CODE_STYLE: highlighting scheme
	Graph     string // MDPAGES_GRAPH: yaml, json
	Workers   int    // MDPAGES_WORKERS: parallel workers
}

// knownEnvVars lists valid MDPAGES_* variables.
var knownEnvVars = map[string]bool{
	"MDPAGES_CONFIG":     true,
	"MDPAGES_STYLE":      true,
	"MDPAGES_TIMEOUT":    true,
	"MDPAGES_INPUT_DIR":  true,
	"MDPAGES_OUTPUT_DIR": true,
	"MDPAGES_PAGE_SIZE":  true,
	"MDPAGES_CODE_STYLE": true,
	"MDPAGES_GRAPH":      true,
	"MDPAGES_WORKERS":    true,
	"MDPAGES_CONTAINER":  true,
}

// loadEnvConfig reads every recognized MDPAGES_* value. Malformed numbers
// and durations are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("MDPAGES_CONFIG"),
		Style:      os.Getenv("MDPAGES_STYLE"),
		InputDir:   os.Getenv("MDPAGES_INPUT_DIR"),
		OutputDir:  os.Getenv("MDPAGES_OUTPUT_DIR"),
		PageSize:   os.Getenv("MDPAGES_PAGE_SIZE"),
		CodeStyle:  os.Getenv("MDPAGES_CODE_STYLE"),
		Graph:      os.Getenv("MDPAGES_GRAPH"),
	}

	if timeout := os.Getenv("MDPAGES_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if workers := os.Getenv("MDPAGES_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}
	return cfg
}

// warnUnknownEnvVars reports MDPAGES_* variables that are not recognized.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, "MDPAGES_") {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig fills config fields that are still empty.
// Precedence: flags > env > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Style != "" && cfg.HTML.Style == "" {
		cfg.HTML.Style = env.Style
	}
	if env.Timeout > 0 && cfg.PDF.Timeout == 0 {
		cfg.PDF.Timeout = env.Timeout
	}
	if env.InputDir != "" && cfg.Input.DefaultDir == "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.PageSize != "" && cfg.PDF.Page.Size == "" {
		cfg.PDF.Page.Size = env.PageSize
	}
	if env.CodeStyle != "" && cfg.Render.CodeStyle == "" {
		cfg.Render.CodeStyle = env.CodeStyle
	}
	if env.Graph != "" && cfg.Graph.Format == "" {
		cfg.Graph.Format = env.Graph
	}
}

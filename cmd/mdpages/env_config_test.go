package main

// Notes:
// - loadEnvConfig: every MDPAGES_* variable; malformed numbers and durations
//   are ignored rather than reported.
// - applyEnvConfig: env fills empty config fields only.
// - Tests use t.Setenv, which rules out t.Parallel.

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-mdpages/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Run("all variables", func(t *testing.T) {
		t.Setenv("MDPAGES_CONFIG", "/etc/mdpages.yaml")
		t.Setenv("MDPAGES_STYLE", "print")
		t.Setenv("MDPAGES_TIMEOUT", "2m")
		t.Setenv("MDPAGES_INPUT_DIR", "/in")
		t.Setenv("MDPAGES_OUTPUT_DIR", "/out")
		t.Setenv("MDPAGES_PAGE_SIZE", "a4")
		t.Setenv("MDPAGES_CODE_STYLE", "monokai")
		t.Setenv("MDPAGES_GRAPH", "json")
		t.Setenv("MDPAGES_WORKERS", "3")

		got := loadEnvConfig()
		want := envConfig{
			ConfigPath: "/etc/mdpages.yaml",
			Style:      "print",
			Timeout:    2 * time.Minute,
			InputDir:   "/in",
			OutputDir:  "/out",
			PageSize:   "a4",
			CodeStyle:  "monokai",
			Graph:      "json",
			Workers:    3,
		}
		if *got != want {
			t.Errorf("loadEnvConfig() = %+v, want %+v", *got, want)
		}
	})

	t.Run("malformed values ignored", func(t *testing.T) {
		t.Setenv("MDPAGES_TIMEOUT", "soon")
		t.Setenv("MDPAGES_WORKERS", "-2")

		got := loadEnvConfig()
		if got.Timeout != 0 {
			t.Errorf("Timeout = %v, want 0", got.Timeout)
		}
		if got.Workers != 0 {
			t.Errorf("Workers = %d, want 0", got.Workers)
		}
	})
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Setenv("MDPAGES_STYEL", "x")
	t.Setenv("MDPAGES_STYLE", "default")

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf)

	out := buf.String()
	if !strings.Contains(out, "MDPAGES_STYEL") {
		t.Errorf("expected warning for MDPAGES_STYEL, got %q", out)
	}
	if strings.Contains(out, "MDPAGES_STYLE ") {
		t.Errorf("known variable reported: %q", out)
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Env fills gaps, never overrides
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	env := &envConfig{
		Style:     "print",
		Timeout:   time.Minute,
		InputDir:  "/in",
		OutputDir: "/out",
		PageSize:  "a4",
		CodeStyle: "monokai",
		Graph:     "json",
	}

	t.Run("fills empty config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		applyEnvConfig(env, cfg)

		if cfg.HTML.Style != "print" || cfg.PDF.Timeout != time.Minute ||
			cfg.Input.DefaultDir != "/in" || cfg.Output.DefaultDir != "/out" ||
			cfg.PDF.Page.Size != "a4" || cfg.Render.CodeStyle != "monokai" ||
			cfg.Graph.Format != "json" {
			t.Errorf("applyEnvConfig() left gaps: %+v", cfg)
		}
	})

	t.Run("keeps config values", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.HTML.Style = "default"
		cfg.Graph.Format = "yaml"
		applyEnvConfig(env, cfg)

		if cfg.HTML.Style != "default" {
			t.Errorf("Style = %q, want default", cfg.HTML.Style)
		}
		if cfg.Graph.Format != "yaml" {
			t.Errorf("Graph.Format = %q, want yaml", cfg.Graph.Format)
		}
	})
}

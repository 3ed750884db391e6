// Package hints appends actionable advice to CLI error messages. Every hint
// has the form "\n  hint: <text>".
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-mdpages/internal/fileutil"
)

// IsInContainer reports whether the process runs inside Docker.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect suggests the rod environment variables that usually fix
// a browser that will not start.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}
	return formatHints(hints)
}

// ForTimeout suggests raising the PDF timeout.
func ForTimeout() string {
	return format("for large pages, use --timeout flag")
}

// ForConfigNotFound suggests --config, or the user config path if it was
// among the searched ones.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-mdpages") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound lists the styles that do exist.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForUnknownStage lists the stage names accepted by --stage.
func ForUnknownStage(stages []string) string {
	if len(stages) == 0 {
		return ""
	}
	return format("stages: " + strings.Join(stages, ", "))
}

// ForCorruptGraph points at the usual cause of a graph that will not load.
func ForCorruptGraph() string {
	return format("graphs are only readable by the version that wrote them; re-run with --graph")
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}

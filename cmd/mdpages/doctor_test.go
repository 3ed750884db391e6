package main

// Notes:
// - Black-box through runDoctorCmd; Chrome detection depends on the host, so
//   only the shape of the report is asserted.
// - isContainer reads environment variables and cannot run in parallel.

import (
	"bytes"
	"runtime"
	"strings"
	"testing"

	"github.com/alnah/go-mdpages/internal/yamlutil"
)

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_JSONOutput - Machine-readable report
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_JSONOutput(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	code := runDoctorCmd([]string{"--json"}, &Environment{Stdout: &stdout, Stderr: &stderr})

	var result doctorResult
	if err := yamlutil.Unmarshal(stdout.Bytes(), &result); err != nil {
		t.Fatalf("invalid report: %v\n%s", err, stdout.String())
	}
	if result.Env.OS != runtime.GOOS || result.Env.Arch != runtime.GOARCH {
		t.Errorf("platform = %s/%s", result.Env.OS, result.Env.Arch)
	}
	if !result.Engine.Pipeline {
		t.Errorf("pipeline self-test failed: %v", result.Errors)
	}
	if len(result.Engine.Styles) == 0 {
		t.Error("no embedded styles reported")
	}

	switch result.Status {
	case statusReady, statusWarnings:
		if code != ExitSuccess {
			t.Errorf("exit = %d for status %s", code, result.Status)
		}
	case statusErrors:
		if code != ExitGeneral {
			t.Errorf("exit = %d for status errors", code)
		}
	default:
		t.Errorf("unknown status %q", result.Status)
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_TextOutput - Human-readable report
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_TextOutput(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	runDoctorCmd(nil, &Environment{Stdout: &stdout, Stderr: &bytes.Buffer{}})

	out := stdout.String()
	for _, section := range []string{"mdpages doctor", "Engine", "Chrome/Chromium", "Environment", "System", "Status:"} {
		if !strings.Contains(out, section) {
			t.Errorf("report missing %q:\n%s", section, out)
		}
	}
}

func TestRunDoctorCmd_UnknownFlag(t *testing.T) {
	t.Parallel()

	code := runDoctorCmd([]string{"--yaml"}, &Environment{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})
	if code != ExitUsage {
		t.Errorf("exit = %d, want %d", code, ExitUsage)
	}
}

// ---------------------------------------------------------------------------
// TestIsContainer - Container signals
// ---------------------------------------------------------------------------

func TestIsContainer(t *testing.T) {
	t.Setenv("MDPAGES_CONTAINER", "1")

	got, hint := isContainer()
	if !got || hint != "MDPAGES_CONTAINER=1" {
		t.Errorf("isContainer() = %v, %q", got, hint)
	}
}

// ---------------------------------------------------------------------------
// TestFinalStatus - Status precedence
// ---------------------------------------------------------------------------

func TestFinalStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		r    doctorResult
		want string
	}{
		{"clean", doctorResult{}, statusReady},
		{"warnings", doctorResult{Warnings: []string{"w"}}, statusWarnings},
		{"errors win", doctorResult{Warnings: []string{"w"}, Errors: []string{"e"}}, statusErrors},
	}
	for _, tt := range tests {
		if got := finalStatus(&tt.r); got != tt.want {
			t.Errorf("%s: finalStatus() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

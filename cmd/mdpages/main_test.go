package main

// Notes:
// - runMain: dispatch and exit codes for the commands that need no files.
//   Commands touching files are covered in render_test.go.
// - converterPool: the adapter panics on converters it did not hand out.

import (
	"context"
	"strings"
	"testing"

	mdpages "github.com/alnah/go-mdpages"
)

// ---------------------------------------------------------------------------
// TestRunMain - Command dispatch
// ---------------------------------------------------------------------------

func TestRunMain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"no args", nil, ExitUsage, "", "Usage: mdpages"},
		{"version", []string{"version"}, ExitSuccess, "mdpages dev", ""},
		{"version flag", []string{"--version"}, ExitSuccess, "mdpages dev", ""},
		{"help", []string{"help"}, ExitSuccess, "Commands:", ""},
		{"help render", []string{"help", "render"}, ExitSuccess, "--standalone", ""},
		{"help dump", []string{"help", "dump"}, ExitSuccess, "recognize", ""},
		{"help load", []string{"help", "load"}, ExitSuccess, "--list", ""},
		{"help unknown", []string{"help", "nope"}, ExitSuccess, "", "Unknown command: nope"},
		{"render help flag", []string{"render", "--help"}, ExitSuccess, "", ""},
		{"unknown command", []string{"convert"}, ExitUsage, "", "Unknown command: convert"},
		{"dump without file", []string{"dump"}, ExitUsage, "", "exactly one file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			code, stdout, stderr := run(t, tt.args...)
			if code != tt.wantCode {
				t.Errorf("exit = %d, want %d (stderr %q)", code, tt.wantCode, stderr)
			}
			if !strings.Contains(stdout, tt.wantStdout) {
				t.Errorf("stdout = %q, want it to contain %q", stdout, tt.wantStdout)
			}
			if !strings.Contains(stderr, tt.wantStderr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr, tt.wantStderr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestConverterPool - Adapter over mdpages.ConverterPool
// ---------------------------------------------------------------------------

type otherConverter struct{}

func (otherConverter) Convert(context.Context, mdpages.Input) (*mdpages.ConvertResult, error) {
	return &mdpages.ConvertResult{}, nil
}

func TestConverterPool(t *testing.T) {
	t.Parallel()

	pool := converterPool{mdpages.NewConverterPool(1)}
	defer pool.Close()

	if pool.Size() != 1 {
		t.Errorf("Size() = %d, want 1", pool.Size())
	}
	conv, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	pool.Release(conv)

	defer func() {
		r := recover()
		msg, _ := r.(string)
		if !strings.Contains(msg, "unexpected type") {
			t.Errorf("recover() = %v, want unexpected type panic", r)
		}
	}()
	pool.Release(otherConverter{})
}

package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
	flag "github.com/spf13/pflag"

	mdpages "github.com/alnah/go-mdpages"
	"github.com/alnah/go-mdpages/internal/assets"
	"github.com/alnah/go-mdpages/internal/yamlutil"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `yaml:"status"`
	Engine   engineInfo `yaml:"engine"`
	Chrome   chromeInfo `yaml:"chrome"`
	Env      envInfo    `yaml:"environment"`
	System   systemInfo `yaml:"system"`
	Warnings []string   `yaml:"warnings,omitempty"`
	Errors   []string   `yaml:"errors,omitempty"`
}

// engineInfo reports the self-test of the markup pipeline.
type engineInfo struct {
	Pipeline bool     `yaml:"pipeline"`
	Styles   []string `yaml:"styles"`
}

// chromeInfo holds Chrome/Chromium detection results. Only PDF export
// needs a browser.
type chromeInfo struct {
	Found   bool   `yaml:"found"`
	Path    string `yaml:"path,omitempty"`
	Version string `yaml:"version,omitempty"`
	Sandbox bool   `yaml:"sandbox"`
}

type envInfo struct {
	OS            string `yaml:"os"`
	Arch          string `yaml:"arch"`
	Container     bool   `yaml:"container"`
	ContainerHint string `yaml:"container_hint,omitempty"`
	CI            bool   `yaml:"ci"`
	NoSandbox     string `yaml:"rod_no_sandbox"`
	BrowserBin    string `yaml:"rod_browser_bin"`
}

type systemInfo struct {
	TempWritable bool `yaml:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code:
// 0 when ready (warnings included), 1 on errors.
func runDoctorCmd(args []string, env *Environment) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	jsonOutput := fs.Bool("json", false, "print results as JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return ExitSuccess
		}
		return ExitUsage
	}

	result := runDoctor()

	if *jsonOutput {
		out, err := yamlutil.MarshalJSON(result)
		if err != nil {
			fmt.Fprintf(env.Stderr, "error: %v\n", err)
			return ExitGeneral
		}
		env.Stdout.Write(out)
		if len(out) > 0 && out[len(out)-1] != '\n' {
			io.WriteString(env.Stdout, "\n")
		}
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor() *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
	}

	checkEngine(result)
	checkChrome(result)
	checkEnvironment(result)
	checkSystem(result)
	result.Status = finalStatus(result)
	return result
}

func finalStatus(r *doctorResult) string {
	switch {
	case len(r.Errors) > 0:
		return statusErrors
	case len(r.Warnings) > 0:
		return statusWarnings
	}
	return statusReady
}

// checkEngine parses a probe document and lists embedded styles.
func checkEngine(result *doctorResult) {
	result.Engine.Styles = assets.NewEmbeddedLoader().Styles()

	doc := mdpages.NewDocument()
	if err := doc.AddPage("probe", "# Probe\n\ntext\n"); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Pipeline self-test failed: %v", err))
		return
	}
	if err := doc.Parse(); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Pipeline self-test failed: %v", err))
		return
	}
	pages, err := doc.Pages()
	if err != nil || len(pages) != 1 || !strings.Contains(pages[0].HTML, "Probe") {
		result.Errors = append(result.Errors, "Pipeline self-test produced unexpected output")
		return
	}
	result.Engine.Pipeline = true
}

// checkChrome detects Chrome/Chromium. A missing browser only disables
// PDF export, so it is a warning.
func checkChrome(result *doctorResult) {
	chromePath := result.Env.BrowserBin
	if chromePath == "" {
		var found bool
		chromePath, found = launcher.LookPath()
		if !found {
			result.Warnings = append(result.Warnings,
				"Chrome/Chromium not found; --pdf will download Chromium or set ROD_BROWSER_BIN")
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	out, err := exec.Command(chromePath, "--version").Output() // #nosec G204 -- browser path from env or rod lookup
	if err == nil {
		result.Chrome.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Could not get Chrome version: %v", err))
	}
	result.Chrome.Sandbox = result.Env.NoSandbox != "1"
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer returns whether a container signal was found, and which.
func isContainer() (bool, string) {
	if os.Getenv("MDPAGES_CONTAINER") == "1" {
		return true, "MDPAGES_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory used for PDF export is writable.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "mdpages-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Temp directory not writable: %s", tmpDir))
		return
	}
	_ = os.Remove(testFile)
	result.System.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "mdpages doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Engine")
	if r.Engine.Pipeline {
		fmt.Fprintln(w, "  [OK] Pipeline: self-test passed")
	} else {
		fmt.Fprintln(w, "  [ERROR] Pipeline: self-test failed")
	}
	fmt.Fprintf(w, "  [OK] Styles: %s\n", strings.Join(r.Engine.Styles, ", "))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium (PDF export)")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	} else {
		fmt.Fprintln(w, "  [WARN] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}
	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to render")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

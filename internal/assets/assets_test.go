package assets

// Notes:
// - ErrAssetRead (permission errors) is not exercised: running as root in CI
//   makes unreadable files readable.

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// writeAsset creates dir/sub/name with content under a temp base.
func writeAsset(t *testing.T, base, sub, name, content string) {
	t.Helper()

	dir := filepath.Join(base, sub)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestEmbeddedLoader
// ---------------------------------------------------------------------------

func TestEmbeddedLoader(t *testing.T) {
	t.Parallel()

	l := NewEmbeddedLoader()

	tests := []struct {
		name     string
		load     func(string) (string, error)
		asset    string
		contains string
		wantErr  error
	}{
		{"default style", l.LoadStyle, DefaultStyleName, ".note", nil},
		{"print style", l.LoadStyle, "print", "page-break", nil},
		{"page template", l.LoadTemplate, DefaultTemplateName, "{{.Body}}", nil},
		{"missing style", l.LoadStyle, "nope", "", ErrStyleNotFound},
		{"missing template", l.LoadTemplate, "nope", "", ErrTemplateNotFound},
		{"traversal", l.LoadStyle, "../default", "", ErrInvalidAssetName},
		{"empty", l.LoadTemplate, "", "", ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tt.load(tt.asset)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("load(%q) error = %v, want %v", tt.asset, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("load(%q) error = %v", tt.asset, err)
			}
			if !strings.Contains(got, tt.contains) {
				t.Errorf("load(%q) missing %q", tt.asset, tt.contains)
			}
		})
	}
}

func TestEmbeddedLoader_Styles(t *testing.T) {
	t.Parallel()

	if diff := cmp.Diff([]string{"default", "print"}, NewEmbeddedLoader().Styles()); diff != "" {
		t.Errorf("Styles() mismatch (-want +got):\n%s", diff)
	}
}

func TestPackageHelpers(t *testing.T) {
	t.Parallel()

	if _, err := LoadStyle(DefaultStyleName); err != nil {
		t.Errorf("LoadStyle() error = %v", err)
	}
	if _, err := LoadTemplate(DefaultTemplateName); err != nil {
		t.Errorf("LoadTemplate() error = %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestFilesystemLoader
// ---------------------------------------------------------------------------

func TestNewFilesystemLoader(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"valid directory", t.TempDir(), false},
		{"empty path", "", true},
		{"missing directory", filepath.Join(t.TempDir(), "missing"), true},
		{"file, not directory", file, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewFilesystemLoader(tt.path)
			if tt.wantErr && !errors.Is(err, ErrInvalidBasePath) {
				t.Errorf("NewFilesystemLoader(%q) error = %v, want ErrInvalidBasePath", tt.path, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("NewFilesystemLoader(%q) error = %v", tt.path, err)
			}
		})
	}
}

func TestFilesystemLoader_Load(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	writeAsset(t, base, "styles", "custom.css", "body{color:red}")
	writeAsset(t, base, "templates", "page.html", "<main>{{.Body}}</main>")

	l, err := NewFilesystemLoader(base)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}

	if got, err := l.LoadStyle("custom"); err != nil || got != "body{color:red}" {
		t.Errorf("LoadStyle(custom) = %q, %v", got, err)
	}
	if got, err := l.LoadTemplate("page"); err != nil || got != "<main>{{.Body}}</main>" {
		t.Errorf("LoadTemplate(page) = %q, %v", got, err)
	}
	if _, err := l.LoadStyle("missing"); !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("LoadStyle(missing) error = %v, want ErrStyleNotFound", err)
	}
	if _, err := l.LoadTemplate("a.b"); !errors.Is(err, ErrInvalidAssetName) {
		t.Errorf("LoadTemplate(a.b) error = %v, want ErrInvalidAssetName", err)
	}
}

func TestFilesystemLoader_SymlinkEscape(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}

	outside := t.TempDir()
	writeAsset(t, outside, "", "secret.css", "secret")

	base := t.TempDir()
	if err := os.MkdirAll(filepath.Join(base, "styles"), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(outside, "secret.css"), filepath.Join(base, "styles", "evil.css")); err != nil {
		t.Fatal(err)
	}

	l, err := NewFilesystemLoader(base)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}
	if _, err := l.LoadStyle("evil"); !errors.Is(err, ErrPathTraversal) {
		t.Errorf("LoadStyle(evil) error = %v, want ErrPathTraversal", err)
	}
}

// ---------------------------------------------------------------------------
// TestAssetResolver
// ---------------------------------------------------------------------------

func TestAssetResolver(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	writeAsset(t, base, "styles", "default.css", "override")

	r, err := NewAssetResolver(base)
	if err != nil {
		t.Fatalf("NewAssetResolver() error = %v", err)
	}
	if !r.HasCustomLoader() {
		t.Error("HasCustomLoader() = false, want true")
	}

	if got, _ := r.LoadStyle("default"); got != "override" {
		t.Errorf("LoadStyle(default) = %q, want custom override", got)
	}
	if got, err := r.LoadStyle("print"); err != nil || !strings.Contains(got, "page-break") {
		t.Errorf("LoadStyle(print) should fall back to embedded, got %q, %v", got, err)
	}
	if got, err := r.LoadTemplate("page"); err != nil || !strings.Contains(got, "{{.Body}}") {
		t.Errorf("LoadTemplate(page) should fall back to embedded, got %q, %v", got, err)
	}
	if _, err := r.LoadStyle("../x"); !errors.Is(err, ErrInvalidAssetName) {
		t.Errorf("LoadStyle(../x) error = %v, want ErrInvalidAssetName (no fallback)", err)
	}
	if _, err := r.LoadStyle("missing"); !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("LoadStyle(missing) error = %v, want ErrStyleNotFound", err)
	}
}

func TestNewAssetResolver(t *testing.T) {
	t.Parallel()

	r, err := NewAssetResolver("")
	if err != nil {
		t.Fatalf("NewAssetResolver(\"\") error = %v", err)
	}
	if r.HasCustomLoader() {
		t.Error("HasCustomLoader() = true for empty path")
	}
	if len(r.Styles()) == 0 {
		t.Error("Styles() is empty")
	}

	if _, err := NewAssetResolver(filepath.Join(t.TempDir(), "missing")); !errors.Is(err, ErrInvalidBasePath) {
		t.Errorf("NewAssetResolver(missing) error = %v, want ErrInvalidBasePath", err)
	}
}

// ---------------------------------------------------------------------------
// TestValidateAssetName
// ---------------------------------------------------------------------------

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"default", "my-style", "style_2"} {
		if err := ValidateAssetName(name); err != nil {
			t.Errorf("ValidateAssetName(%q) error = %v", name, err)
		}
	}
	for _, name := range []string{"", "a/b", `a\b`, "a.css", ".."} {
		if err := ValidateAssetName(name); !errors.Is(err, ErrInvalidAssetName) {
			t.Errorf("ValidateAssetName(%q) error = %v, want ErrInvalidAssetName", name, err)
		}
	}
}

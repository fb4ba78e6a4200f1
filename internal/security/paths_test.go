package security

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWithinDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	safeDir := filepath.Join(tmpDir, "safe")
	unsafeDir := filepath.Join(tmpDir, "unsafe")
	for _, d := range []string{safeDir, unsafeDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatalf("MkdirAll(%s): %v", d, err)
		}
	}
	if err := os.Symlink(unsafeDir, filepath.Join(safeDir, "link")); err != nil {
		t.Fatalf("Symlink: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"file in dir", filepath.Join(safeDir, "plot.png"), false},
		{"nested new dir", filepath.Join(safeDir, "a", "b", "plot.png"), false},
		{"dir itself", safeDir, false},
		{"dotdot escape", filepath.Join(safeDir, "..", "unsafe", "x.png"), true},
		{"sibling", filepath.Join(unsafeDir, "x.png"), true},
		{"symlinked parent", filepath.Join(safeDir, "link", "x.png"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WithinDirectory(tt.path, safeDir)
			if (err != nil) != tt.wantErr {
				t.Errorf("WithinDirectory(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	if err := ValidateOutputPath(filepath.Join(t.TempDir(), "out")); err != nil {
		t.Errorf("temp dir rejected: %v", err)
	}
	if err := ValidateOutputPath("plots"); err != nil {
		t.Errorf("relative path rejected: %v", err)
	}
	if err := ValidateOutputPath("/etc/pitchview"); err == nil {
		t.Error("expected /etc to be rejected")
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"Shohei Ohtani vs Aaron Judge": "Shohei_Ohtani_vs_Aaron_Judge",
		"../../etc/passwd":             "etc_passwd",
		"Ronald Acuña Jr.":             "Ronald_Acu_a_Jr",
		"":                             "unknown",
		"///":                          "unknown",
		"pitch-0.json":                 "pitch-0.json",
	}
	for in, want := range tests {
		if got := SanitizeFilename(in); got != want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
	if got := SanitizeFilename(strings.Repeat("a", 300)); len(got) > 128 {
		t.Errorf("len = %d, want <= 128", len(got))
	}
}

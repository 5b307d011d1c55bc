package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	// Check extension defaults
	if len(cfg.Extensions.Styles) != 3 {
		t.Errorf("Extensions.Styles = %v, want 3 entries", cfg.Extensions.Styles)
	}
	if len(cfg.Extensions.Code) != 3 {
		t.Errorf("Extensions.Code = %v, want 3 entries", cfg.Extensions.Code)
	}

	// Check exclude defaults
	if !cfg.Exclude.Gitignore {
		t.Error("Exclude.Gitignore should be true by default")
	}
	wantDirs := map[string]bool{"node_modules": true, ".output": true, ".nuxt": true}
	for _, d := range cfg.Exclude.Dirs {
		delete(wantDirs, d)
	}
	if len(wantDirs) != 0 {
		t.Errorf("Exclude.Dirs missing defaults: %v", wantDirs)
	}

	// Check audit defaults
	if !cfg.Audit.Enabled {
		t.Error("Audit.Enabled should be true by default")
	}
	if cfg.Audit.TimeoutSeconds != 120 {
		t.Errorf("Audit.TimeoutSeconds = %d, want 120", cfg.Audit.TimeoutSeconds)
	}

	// Check output defaults
	if cfg.Output.Format != "text" {
		t.Errorf("Output.Format = %s, want text", cfg.Output.Format)
	}
	if !cfg.Output.Color {
		t.Error("Output.Color should be true by default")
	}
}

func TestLoadTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "vuesweep.toml")

	content := `
[extensions]
code = [".vue", ".jsx"]

[exclude]
dirs = ["node_modules", "coverage"]
gitignore = false

[audit]
enabled = false

[output]
format = "json"
csv_path = "out/report.csv"
`

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if len(cfg.Extensions.Code) != 2 || cfg.Extensions.Code[1] != ".jsx" {
		t.Errorf("Extensions.Code = %v, want [.vue .jsx]", cfg.Extensions.Code)
	}
	// Unset keys keep their defaults
	if len(cfg.Extensions.Styles) != 3 {
		t.Errorf("Extensions.Styles = %v, want defaults", cfg.Extensions.Styles)
	}
	if cfg.Exclude.Gitignore {
		t.Error("Exclude.Gitignore should be false")
	}
	if cfg.Audit.Enabled {
		t.Error("Audit.Enabled should be false")
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Output.Format = %s, want json", cfg.Output.Format)
	}
	if cfg.Output.CSVPath != "out/report.csv" {
		t.Errorf("Output.CSVPath = %s, want out/report.csv", cfg.Output.CSVPath)
	}
}

func TestLoadYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "vuesweep.yaml")

	content := `
output:
  format: markdown
  verbose: true
`

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Output.Format != "markdown" {
		t.Errorf("Output.Format = %s, want markdown", cfg.Output.Format)
	}
	if !cfg.Output.Verbose {
		t.Error("Output.Verbose should be true")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Load() should fail for a missing file")
	}
}

func TestShouldExclude(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		path string
		want bool
	}{
		{"node_modules/lodash/index.js", true},
		{"src/node_modules/pkg/index.js", true},
		{".nuxt/dist/client.js", true},
		{"components/Header.vue", false},
		{"assets/css/main.css", false},
		{"my_node_modules/index.js", false}, // segment match, not substring
	}

	for _, tt := range tests {
		if got := cfg.ShouldExclude(tt.path); got != tt.want {
			t.Errorf("ShouldExclude(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestIsVendored(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		path string
		want bool
	}{
		{"public/cloudflare/js/jquery.min.js", true},
		{"assets/vendor/lib.min.js", true},
		{"components/Header.vue", false},
		{"pages/index.js", false},
	}

	for _, tt := range tests {
		if got := cfg.IsVendored(tt.path); got != tt.want {
			t.Errorf("IsVendored(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for vuesweep.
type Config struct {
	// Which files each pass reads
	Extensions ExtensionsConfig `koanf:"extensions"`

	// File exclusion patterns
	Exclude ExcludeConfig `koanf:"exclude"`

	// Vendored paths the pattern scanner skips
	Vendored []string `koanf:"vendored"`

	// Dependency audit settings
	Audit AuditConfig `koanf:"audit"`

	// Output settings
	Output OutputConfig `koanf:"output"`
}

// ExtensionsConfig maps file roles to extensions.
type ExtensionsConfig struct {
	Styles []string `koanf:"styles"`
	Code   []string `koanf:"code"`
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Dirs      []string `koanf:"dirs"`
	Patterns  []string `koanf:"patterns"`
	Gitignore bool     `koanf:"gitignore"`
}

// AuditConfig controls the package manager audit.
type AuditConfig struct {
	Enabled        bool `koanf:"enabled"`
	TimeoutSeconds int  `koanf:"timeout_seconds"`
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format"` // text, json, markdown, toon
	Color   bool   `koanf:"color"`
	Verbose bool   `koanf:"verbose"`
	CSVPath string `koanf:"csv_path"`
}

// DefaultConfig returns a config with sensible defaults for Nuxt-style trees.
func DefaultConfig() *Config {
	return &Config{
		Extensions: ExtensionsConfig{
			Styles: []string{".css", ".scss", ".sass"},
			Code:   []string{".vue", ".js", ".ts"},
		},
		Exclude: ExcludeConfig{
			Dirs: []string{
				"node_modules",
				".output",
				".nuxt",
				"dist",
				"build",
				".git",
			},
			Gitignore: true,
		},
		Vendored: []string{
			"public/cloudflare/js/jquery.min.js",
			"**/*.min.js",
		},
		Audit: AuditConfig{
			Enabled:        true,
			TimeoutSeconds: 120,
		},
		Output: OutputConfig{
			Format:  "text",
			Color:   true,
			Verbose: false,
		},
	}
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	// Determine parser based on extension
	var parser koanf.Parser
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault tries to load config from standard locations or returns defaults.
func LoadOrDefault() *Config {
	configNames := []string{
		"vuesweep.toml",
		"vuesweep.yaml",
		"vuesweep.yml",
		"vuesweep.json",
		".vuesweep.toml",
		".vuesweep.yaml",
		".vuesweep.yml",
		".vuesweep.json",
	}

	for _, name := range configNames {
		if _, err := os.Stat(name); err == nil {
			cfg, err := Load(name)
			if err == nil {
				return cfg
			}
		}
	}

	return DefaultConfig()
}

// ShouldExclude checks if a slash-separated relative path should be excluded
// from analysis. Directory names match any path segment.
func (c *Config) ShouldExclude(path string) bool {
	for _, seg := range strings.Split(path, "/") {
		for _, dir := range c.Exclude.Dirs {
			if seg == dir {
				return true
			}
		}
	}

	base := filepath.Base(path)
	for _, pattern := range c.Exclude.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	return false
}

// IsVendored checks a slash-separated relative path against the vendored
// allow-list. Entries are doublestar globs; a bare path matches exactly or as
// a directory prefix.
func (c *Config) IsVendored(path string) bool {
	for _, entry := range c.Vendored {
		if path == entry || strings.HasPrefix(path, strings.TrimSuffix(entry, "/")+"/") {
			return true
		}
		if matched, err := doublestar.Match(entry, path); err == nil && matched {
			return true
		}
	}
	return false
}

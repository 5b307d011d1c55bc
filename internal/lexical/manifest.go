package lexical

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Manifest is the subset of package.json the package pass reads.
type Manifest struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// DeclaredPackages reads package.json at the project root and returns the
// sorted union of dependencies and devDependencies. A missing manifest
// surfaces as an error wrapping os.ErrNotExist so callers can degrade to a
// warning instead of failing the run.
func DeclaredPackages(root string) ([]string, error) {
	path := filepath.Join(root, "package.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	seen := make(map[string]struct{}, len(m.Dependencies)+len(m.DevDependencies))
	for name := range m.Dependencies {
		seen[name] = struct{}{}
	}
	for name := range m.DevDependencies {
		seen[name] = struct{}{}
	}

	pkgs := make([]string, 0, len(seen))
	for name := range seen {
		pkgs = append(pkgs, name)
	}
	sort.Strings(pkgs)
	return pkgs, nil
}

// Package project reads and edits files belonging to the surrounding
// project: the dependency manifest, AGENTS.md, and .gitignore.
package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// InstalledVersion reports the version of a dependency as installed in
// projectDir, or "" when it cannot be determined. The installed copy under
// node_modules is preferred; the manifest's declared range (with any range
// sigils trimmed) is the fallback.
func InstalledVersion(projectDir, name string) string {
	if v := nodeModulesVersion(projectDir, name); v != "" {
		return v
	}
	return manifestVersion(projectDir, name)
}

func nodeModulesVersion(projectDir, name string) string {
	path := filepath.Join(projectDir, "node_modules", filepath.FromSlash(name), "package.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	var pkg struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return ""
	}
	return pkg.Version
}

func manifestVersion(projectDir, name string) string {
	data, err := os.ReadFile(filepath.Join(projectDir, "package.json"))
	if err != nil {
		return ""
	}

	var pkg struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return ""
	}

	rng := pkg.Dependencies[name]
	if rng == "" {
		rng = pkg.DevDependencies[name]
	}
	return trimRangeSigils(rng)
}

// trimRangeSigils strips leading semver range operators (^1.2.3, ~1.2.3,
// >=1.2.3) so the remainder can be used as a concrete version. Ranges that
// are not a plain pinned version (e.g. "1.x", "*") are returned as-is and
// left for the registry to reject or resolve.
func trimRangeSigils(rng string) string {
	return strings.TrimLeft(strings.TrimSpace(rng), "^~=<> ")
}

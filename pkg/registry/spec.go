package registry

import "strings"

// PackageSpec is a parsed user-provided package reference.
// Version is empty when the user did not pin one; the orchestrator then
// falls back to the installed version or the registry's latest tag.
type PackageSpec struct {
	Name    string
	Version string
}

// ParseSpec splits a reference like "name", "name@1.2.3", "@scope/name",
// or "@scope/name@1.2.3" into name and version. The split happens on the
// last "@" that is not the leading scope character. Parsing never fails:
// anything that does not look like name@version is treated as a bare name.
func ParseSpec(raw string) PackageSpec {
	raw = strings.TrimSpace(raw)

	// idx == 0 means a scoped package with no version tag
	// (e.g. @modelcontextprotocol/inspector).
	if idx := strings.LastIndex(raw, "@"); idx > 0 {
		return PackageSpec{
			Name:    raw[:idx],
			Version: raw[idx+1:],
		}
	}

	return PackageSpec{Name: raw}
}

// String renders the spec back into its name[@version] form.
func (s PackageSpec) String() string {
	if s.Version == "" {
		return s.Name
	}
	return s.Name + "@" + s.Version
}

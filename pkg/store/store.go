package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	dirPerm = 0o755

	// DefaultRoot is the store directory created inside the project,
	// one subdirectory per fetched package.
	DefaultRoot = ".srcfetch"

	// stagingDir holds in-progress fetches until they are swapped into
	// place, so a failed fetch never disturbs a previously fetched copy.
	stagingDir = ".staging"
)

type Store interface {
	// Root returns the store's root directory.
	Root() string
	// Path returns the absolute filesystem path for the given segments
	// joined under the store root. Does not create or verify the path.
	// Use this to get a path for external tools (e.g., git clone target).
	Path(segments ...string) string
	// Exists reports whether the path at the given segments exists.
	Exists(segments ...string) (bool, error)
	// EnsureDir creates the directory at segments (starting at store root),
	// including parents.
	EnsureDir(segments ...string)
	// Remove deletes the entire tree at segments.
	Remove(segments ...string)
	// WriteFile writes data to the file at segments.
	// Parent directories must already exist.
	WriteFile(data []byte, perm os.FileMode, segments ...string) error
	// ReadFile reads the file at segments.
	ReadFile(segments ...string) ([]byte, error)

	// PackageDir returns the directory for a package, splitting scoped
	// names into nested segments ("@scope/name" -> "@scope/name/").
	PackageDir(name string) string
	// PackageExists reports whether the store holds a directory for name.
	PackageExists(name string) bool
	// StagingDir returns a per-package scratch directory for an
	// in-progress fetch. The caller owns its lifecycle.
	StagingDir(name string) string
	// Promote replaces the package's directory with the staged tree.
	// Any previous content for the package is removed first.
	Promote(name string) error
	// RemovePackage deletes the package's directory tree.
	RemovePackage(name string)

	// ReadMetadata returns the package's recorded metadata, or nil when
	// the package is absent or its metadata file is missing or corrupt.
	// It never fails.
	ReadMetadata(name string) *PackageMetadata
	// WriteMetadata records metadata inside dir (normally a staging
	// directory, so the record lands atomically with the content).
	WriteMetadata(dir string, meta *PackageMetadata) error
	// List scans the store and returns metadata for every fetched
	// package, sorted by name.
	List() SourceIndex
}

func New(root string) Store {
	return &store{root: root}
}

// ForProject returns the store rooted at projectDir/.srcfetch.
func ForProject(projectDir string) Store {
	return &store{root: filepath.Join(projectDir, DefaultRoot)}
}

type store struct {
	root string
}

var _ Store = &store{}

func (s *store) Root() string {
	return s.root
}

func (s *store) Path(segments ...string) string {
	return filepath.Join(append([]string{s.root}, segments...)...)
}

func (s *store) Exists(segments ...string) (bool, error) {
	_, err := os.Stat(s.Path(segments...))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (s *store) EnsureDir(segments ...string) {
	os.MkdirAll(s.Path(segments...), dirPerm)
}

func (s *store) Remove(segments ...string) {
	os.RemoveAll(s.Path(segments...))
}

func (s *store) WriteFile(data []byte, perm os.FileMode, segments ...string) error {
	return os.WriteFile(s.Path(segments...), data, perm)
}

func (s *store) ReadFile(segments ...string) ([]byte, error) {
	return os.ReadFile(s.Path(segments...))
}

func (s *store) PackageDir(name string) string {
	return s.Path(packageSegments(name)...)
}

func (s *store) PackageExists(name string) bool {
	ok, err := s.Exists(packageSegments(name)...)
	return err == nil && ok
}

func (s *store) StagingDir(name string) string {
	// Flatten scoped names so staging stays one level deep.
	flat := strings.ReplaceAll(strings.TrimPrefix(name, "@"), "/", "__")
	return s.Path(stagingDir, flat)
}

func (s *store) Promote(name string) error {
	segs := packageSegments(name)

	// The parent must exist before the rename for scoped packages.
	if len(segs) > 1 {
		s.EnsureDir(segs[:len(segs)-1]...)
	} else {
		s.EnsureDir()
	}

	dest := s.Path(segs...)
	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf("removing previous copy of %s: %w", name, err)
	}
	if err := os.Rename(s.StagingDir(name), dest); err != nil {
		return fmt.Errorf("promoting staged fetch of %s: %w", name, err)
	}
	return nil
}

func (s *store) RemovePackage(name string) {
	s.Remove(packageSegments(name)...)

	// Drop an emptied scope directory so the store does not accumulate
	// hollow @scope/ entries.
	segs := packageSegments(name)
	if len(segs) > 1 {
		scope := s.Path(segs[:len(segs)-1]...)
		if entries, err := os.ReadDir(scope); err == nil && len(entries) == 0 {
			os.Remove(scope)
		}
	}
}

// packageSegments maps a package name to store path segments.
// Scoped packages nest under their scope directory.
func packageSegments(name string) []string {
	return strings.Split(name, "/")
}

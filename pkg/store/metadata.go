package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	// MetadataFileName is the per-package record written into each
	// package's store directory after a successful fetch.
	MetadataFileName = "source.toml"

	metadataPerm = 0o644
)

// PackageMetadata records the last successfully fetched revision of a
// package. It is written only after a fetch fully succeeds, so a present
// file never describes a partial state.
type PackageMetadata struct {
	Name          string    `toml:"name"`
	Version       string    `toml:"version"`
	RepoDirectory string    `toml:"repoDirectory,omitempty"`
	FetchedAt     time.Time `toml:"fetchedAt"`
}

// SourceIndex is the aggregate view of everything currently in the store,
// derived by scanning; the per-package metadata files are the source of
// truth.
type SourceIndex []PackageMetadata

// SourceDir returns the directory holding the package's effective source:
// the package dir itself, or the monorepo subdirectory within it.
func (m *PackageMetadata) SourceDir(packageDir string) string {
	if m.RepoDirectory == "" {
		return packageDir
	}
	return filepath.Join(packageDir, filepath.FromSlash(m.RepoDirectory))
}

func (s *store) ReadMetadata(name string) *PackageMetadata {
	data, err := os.ReadFile(filepath.Join(s.PackageDir(name), MetadataFileName))
	if err != nil {
		return nil
	}

	meta := &PackageMetadata{}
	if err := toml.Unmarshal(data, meta); err != nil {
		// Corrupt metadata is treated the same as no metadata; the next
		// fetch rewrites it.
		return nil
	}
	if meta.Name == "" || meta.Version == "" {
		return nil
	}
	return meta
}

func (s *store) WriteMetadata(dir string, meta *PackageMetadata) error {
	data, err := toml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshaling metadata for %s: %w", meta.Name, err)
	}
	return os.WriteFile(filepath.Join(dir, MetadataFileName), data, metadataPerm)
}

func (s *store) List() SourceIndex {
	var index SourceIndex
	for _, name := range s.scanPackageNames() {
		if meta := s.ReadMetadata(name); meta != nil {
			index = append(index, *meta)
		}
	}
	sort.Slice(index, func(i, j int) bool {
		return index[i].Name < index[j].Name
	})
	return index
}

// scanPackageNames lists candidate package names by directory layout:
// top-level directories are packages, except scope directories (@scope/)
// whose children are the packages.
func (s *store) scanPackageNames() []string {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if strings.HasPrefix(e.Name(), "@") {
			scoped, err := os.ReadDir(filepath.Join(s.root, e.Name()))
			if err != nil {
				continue
			}
			for _, se := range scoped {
				if se.IsDir() {
					names = append(names, e.Name()+"/"+se.Name())
				}
			}
			continue
		}
		names = append(names, e.Name())
	}
	return names
}

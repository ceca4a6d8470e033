package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeMeta(t *testing.T, s Store, meta *PackageMetadata) {
	t.Helper()
	dir := s.PackageDir(meta.Name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("creating %s: %v", dir, err)
	}
	if err := s.WriteMetadata(dir, meta); err != nil {
		t.Fatalf("WriteMetadata(%q) error = %v", meta.Name, err)
	}
}

func TestMetadataRoundTrip(t *testing.T) {
	s := New(t.TempDir())

	want := &PackageMetadata{
		Name:          "@babel/core",
		Version:       "7.26.0",
		RepoDirectory: "packages/babel-core",
		FetchedAt:     time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	writeMeta(t, s, want)

	got := s.ReadMetadata("@babel/core")
	if got == nil {
		t.Fatal("ReadMetadata() = nil, want metadata")
	}
	if got.Name != want.Name || got.Version != want.Version || got.RepoDirectory != want.RepoDirectory {
		t.Errorf("ReadMetadata() = %+v, want %+v", got, want)
	}
	if !got.FetchedAt.Equal(want.FetchedAt) {
		t.Errorf("FetchedAt = %v, want %v", got.FetchedAt, want.FetchedAt)
	}
}

func TestReadMetadataTolerant(t *testing.T) {
	tests := map[string]struct {
		setup func(t *testing.T, root string)
	}{
		"package absent": {
			setup: func(t *testing.T, root string) {},
		},
		"metadata file missing": {
			setup: func(t *testing.T, root string) {
				os.MkdirAll(filepath.Join(root, "lodash"), 0o755)
			},
		},
		"metadata file corrupt": {
			setup: func(t *testing.T, root string) {
				os.MkdirAll(filepath.Join(root, "lodash"), 0o755)
				os.WriteFile(filepath.Join(root, "lodash", MetadataFileName), []byte("{{{not toml"), 0o644)
			},
		},
		"metadata file empty": {
			setup: func(t *testing.T, root string) {
				os.MkdirAll(filepath.Join(root, "lodash"), 0o755)
				os.WriteFile(filepath.Join(root, "lodash", MetadataFileName), nil, 0o644)
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			root := t.TempDir()
			tc.setup(t, root)
			if got := New(root).ReadMetadata("lodash"); got != nil {
				t.Errorf("ReadMetadata() = %+v, want nil", got)
			}
		})
	}
}

func TestList(t *testing.T) {
	s := New(t.TempDir())
	now := time.Now().UTC()

	writeMeta(t, s, &PackageMetadata{Name: "lodash", Version: "4.17.21", FetchedAt: now})
	writeMeta(t, s, &PackageMetadata{Name: "@babel/core", Version: "7.26.0", RepoDirectory: "packages/babel-core", FetchedAt: now})
	writeMeta(t, s, &PackageMetadata{Name: "express", Version: "4.19.2", FetchedAt: now})

	// Directories without readable metadata are skipped.
	os.MkdirAll(filepath.Join(s.Root(), "broken"), 0o755)

	index := s.List()
	wantOrder := []string{"@babel/core", "express", "lodash"}
	if len(index) != len(wantOrder) {
		t.Fatalf("List() returned %d entries, want %d", len(index), len(wantOrder))
	}
	for i, want := range wantOrder {
		if index[i].Name != want {
			t.Errorf("List()[%d].Name = %q, want %q", i, index[i].Name, want)
		}
	}
}

func TestListEmptyStore(t *testing.T) {
	if index := New(filepath.Join(t.TempDir(), "nonexistent")).List(); len(index) != 0 {
		t.Errorf("List() = %v, want empty", index)
	}
}

func TestSourceDir(t *testing.T) {
	tests := map[string]struct {
		meta PackageMetadata
		want string
	}{
		"standalone package": {
			meta: PackageMetadata{Name: "lodash", Version: "4.17.21"},
			want: filepath.Join("pkgdir"),
		},
		"monorepo package": {
			meta: PackageMetadata{Name: "@babel/core", Version: "7.26.0", RepoDirectory: "packages/babel-core"},
			want: filepath.Join("pkgdir", "packages", "babel-core"),
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tc.meta.SourceDir("pkgdir"); got != tc.want {
				t.Errorf("SourceDir() = %q, want %q", got, tc.want)
			}
		})
	}
}

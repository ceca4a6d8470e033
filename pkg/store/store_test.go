package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPath(t *testing.T) {
	root := filepath.Join("tmp", "store-root")

	tests := map[string]struct {
		segments []string
		want     string
	}{
		"no segments": {
			segments: nil,
			want:     root,
		},
		"single segment": {
			segments: []string{"foo"},
			want:     filepath.Join(root, "foo"),
		},
		"multiple segments": {
			segments: []string{"foo", "bar", "baz"},
			want:     filepath.Join(root, "foo", "bar", "baz"),
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			s := New(root)
			got := s.Path(tc.segments...)
			if got != tc.want {
				t.Errorf("Path(%v) = %q, want %q", tc.segments, got, tc.want)
			}
		})
	}
}

func TestPackageDir(t *testing.T) {
	root := filepath.Join("tmp", "store-root")

	tests := map[string]struct {
		pkg  string
		want string
	}{
		"plain package": {
			pkg:  "lodash",
			want: filepath.Join(root, "lodash"),
		},
		"scoped package nests under scope": {
			pkg:  "@babel/core",
			want: filepath.Join(root, "@babel", "core"),
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			s := New(root)
			if got := s.PackageDir(tc.pkg); got != tc.want {
				t.Errorf("PackageDir(%q) = %q, want %q", tc.pkg, got, tc.want)
			}
		})
	}
}

func TestPackageExists(t *testing.T) {
	root := t.TempDir()
	s := New(root)

	os.MkdirAll(filepath.Join(root, "lodash"), 0o755)
	os.MkdirAll(filepath.Join(root, "@babel", "core"), 0o755)

	tests := map[string]struct {
		pkg  string
		want bool
	}{
		"existing plain package":  {pkg: "lodash", want: true},
		"existing scoped package": {pkg: "@babel/core", want: true},
		"missing package":         {pkg: "express", want: false},
		"missing scoped package":  {pkg: "@babel/parser", want: false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := s.PackageExists(tc.pkg); got != tc.want {
				t.Errorf("PackageExists(%q) = %v, want %v", tc.pkg, got, tc.want)
			}
		})
	}
}

func TestPromote(t *testing.T) {
	tests := map[string]struct {
		pkg string
	}{
		"plain package":  {pkg: "lodash"},
		"scoped package": {pkg: "@babel/core"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			root := t.TempDir()
			s := New(root)

			staging := s.StagingDir(tc.pkg)
			os.MkdirAll(staging, 0o755)
			os.WriteFile(filepath.Join(staging, "index.js"), []byte("new"), 0o644)

			// Pre-existing content must be replaced, not merged.
			old := s.PackageDir(tc.pkg)
			os.MkdirAll(old, 0o755)
			os.WriteFile(filepath.Join(old, "stale.js"), []byte("old"), 0o644)

			if err := s.Promote(tc.pkg); err != nil {
				t.Fatalf("Promote(%q) error = %v", tc.pkg, err)
			}

			if _, err := os.Stat(filepath.Join(s.PackageDir(tc.pkg), "index.js")); err != nil {
				t.Errorf("promoted content missing: %v", err)
			}
			if _, err := os.Stat(filepath.Join(s.PackageDir(tc.pkg), "stale.js")); !os.IsNotExist(err) {
				t.Errorf("stale content survived promotion")
			}
			if _, err := os.Stat(staging); !os.IsNotExist(err) {
				t.Errorf("staging directory survived promotion")
			}
		})
	}
}

func TestRemovePackage(t *testing.T) {
	root := t.TempDir()
	s := New(root)

	os.MkdirAll(filepath.Join(root, "@babel", "core"), 0o755)
	s.RemovePackage("@babel/core")

	if _, err := os.Stat(filepath.Join(root, "@babel", "core")); !os.IsNotExist(err) {
		t.Errorf("package directory survived removal")
	}
	if _, err := os.Stat(filepath.Join(root, "@babel")); !os.IsNotExist(err) {
		t.Errorf("emptied scope directory survived removal")
	}
}

func TestRemovePackageKeepsPopulatedScope(t *testing.T) {
	root := t.TempDir()
	s := New(root)

	os.MkdirAll(filepath.Join(root, "@babel", "core"), 0o755)
	os.MkdirAll(filepath.Join(root, "@babel", "parser"), 0o755)
	s.RemovePackage("@babel/core")

	if _, err := os.Stat(filepath.Join(root, "@babel", "parser")); err != nil {
		t.Errorf("sibling package removed: %v", err)
	}
}

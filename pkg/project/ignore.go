package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/srcfetch/srcfetch/pkg/store"
)

// EnsureIgnored makes sure the store root is listed in the project's
// .gitignore, appending it when absent. Returns true when an entry was
// added.
func EnsureIgnored(projectDir string) (bool, error) {
	entry := store.DefaultRoot + "/"
	path := filepath.Join(projectDir, ".gitignore")

	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}

	for _, line := range strings.Split(string(existing), "\n") {
		line = strings.TrimSpace(line)
		if line == entry || line == store.DefaultRoot {
			return false, nil
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return false, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	// Start on a fresh line if the file does not end with one.
	if len(existing) > 0 && existing[len(existing)-1] != '\n' {
		if _, err := f.WriteString("\n"); err != nil {
			return false, err
		}
	}

	if _, err := f.WriteString(entry + "\n"); err != nil {
		return false, err
	}
	return true, nil
}

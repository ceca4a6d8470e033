package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/srcfetch/srcfetch/pkg/store"
)

const agentsFile = "AGENTS.md"

// Managed-block markers. Everything between them is owned by srcfetch and
// rewritten wholesale; the rest of AGENTS.md is never touched.
const (
	blockStart = "<!-- srcfetch:start -->"
	blockEnd   = "<!-- srcfetch:end -->"
)

// UpdateAgentsDoc rewrites the managed srcfetch block in the project's
// AGENTS.md so it lists every fetched source. The file is created when
// missing; with an empty index the managed block is removed.
func UpdateAgentsDoc(projectDir string, index store.SourceIndex) error {
	path := filepath.Join(projectDir, agentsFile)

	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	updated := replaceManagedBlock(string(existing), renderBlock(index))
	if updated == string(existing) {
		return nil
	}

	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func renderBlock(index store.SourceIndex) string {
	if len(index) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(blockStart + "\n")
	b.WriteString("## Fetched package sources\n\n")
	b.WriteString(fmt.Sprintf("Upstream sources for project dependencies, cached under `%s/`:\n\n", store.DefaultRoot))
	for _, meta := range index {
		b.WriteString(fmt.Sprintf("- `%s@%s` — `%s/%s`", meta.Name, meta.Version, store.DefaultRoot, meta.Name))
		if meta.RepoDirectory != "" {
			b.WriteString(fmt.Sprintf(" (monorepo, source under `%s`)", meta.RepoDirectory))
		}
		b.WriteString("\n")
	}
	b.WriteString(blockEnd + "\n")
	return b.String()
}

// replaceManagedBlock swaps the content between the markers for block,
// appending a new block (or dropping an emptied one) when needed.
func replaceManagedBlock(doc, block string) string {
	start := strings.Index(doc, blockStart)
	end := strings.Index(doc, blockEnd)

	if start >= 0 && end > start {
		after := doc[end+len(blockEnd):]
		after = strings.TrimPrefix(after, "\n")
		before := doc[:start]
		if block == "" {
			return strings.TrimRight(before, "\n") + ensureLeadingContent(after)
		}
		return before + block + after
	}

	if block == "" {
		return doc
	}
	if doc == "" {
		return block
	}
	if !strings.HasSuffix(doc, "\n") {
		doc += "\n"
	}
	return doc + "\n" + block
}

func ensureLeadingContent(after string) string {
	if strings.TrimSpace(after) == "" {
		return "\n"
	}
	return "\n\n" + strings.TrimLeft(after, "\n")
}

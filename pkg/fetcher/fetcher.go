// Package fetcher materializes a resolved package's source tree into the
// store by shallow-cloning its git repository.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/srcfetch/srcfetch/pkg/registry"
	"github.com/srcfetch/srcfetch/pkg/store"
)

// Outcome distinguishes how a checkout was obtained.
type Outcome int

const (
	// OutcomeExactRef means the candidate tag existed and was checked out.
	OutcomeExactRef Outcome = iota
	// OutcomeDefaultBranch means the candidate tag was missing and the
	// repository's default branch was fetched instead.
	OutcomeDefaultBranch
)

// Checkout is a successful fetch. Warning is non-empty when the checkout
// recovered via the default-branch fallback.
type Checkout struct {
	Path     string
	Outcome  Outcome
	Warning  string
	Metadata *store.PackageMetadata
}

// TransportError reports an unrecoverable git failure: the repository is
// unreachable, missing, or the clone itself failed. A missing reference is
// not a TransportError; that case recovers via fallback.
type TransportError struct {
	Repo string
	Op   string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Repo, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Fetcher clones resolved packages into the store. It shells out to git,
// which must be on PATH.
type Fetcher struct {
	Store store.Store
}

// Fetch shallow-clones resolved.GitTag (or the default branch when the tag
// does not exist in the remote) into a staging directory, records the
// package metadata, and atomically promotes the staged tree over any
// previous copy. On failure the staging directory is discarded and prior
// store content for the package is left untouched.
func (f *Fetcher) Fetch(ctx context.Context, resolved *registry.ResolvedPackage) (*Checkout, error) {
	staging := f.Store.StagingDir(resolved.Name)
	os.RemoveAll(staging)
	if err := os.MkdirAll(filepath.Dir(staging), 0o755); err != nil {
		return nil, fmt.Errorf("creating staging area: %w", err)
	}
	defer os.RemoveAll(staging)

	refExists, err := f.refExists(ctx, resolved.RepoURL, resolved.GitTag)
	if err != nil {
		return nil, &TransportError{Repo: resolved.RepoURL, Op: "probing", Err: err}
	}

	var warning string
	if refExists {
		err = f.cloneRef(ctx, resolved.RepoURL, resolved.GitTag, staging)
	} else {
		warning = fmt.Sprintf("tag %q not found in %s; fetched the default branch instead", resolved.GitTag, resolved.RepoURL)
		err = f.cloneDefault(ctx, resolved.RepoURL, staging)
	}
	if err != nil {
		return nil, &TransportError{Repo: resolved.RepoURL, Op: "cloning", Err: err}
	}

	// The store keeps sources, not repositories.
	os.RemoveAll(filepath.Join(staging, ".git"))

	if resolved.RepoDirectory != "" {
		sub := filepath.Join(staging, filepath.FromSlash(resolved.RepoDirectory))
		if _, statErr := os.Stat(sub); statErr != nil {
			return nil, fmt.Errorf("repository directory %q not present in clone of %s", resolved.RepoDirectory, resolved.RepoURL)
		}
	}

	meta := &store.PackageMetadata{
		Name:          resolved.Name,
		Version:       resolved.Version,
		RepoDirectory: resolved.RepoDirectory,
		FetchedAt:     time.Now().UTC(),
	}
	if err := f.Store.WriteMetadata(staging, meta); err != nil {
		return nil, err
	}

	if err := f.Store.Promote(resolved.Name); err != nil {
		return nil, err
	}

	outcome := OutcomeExactRef
	if warning != "" {
		outcome = OutcomeDefaultBranch
	}

	return &Checkout{
		Path:     meta.SourceDir(f.Store.PackageDir(resolved.Name)),
		Outcome:  outcome,
		Warning:  warning,
		Metadata: meta,
	}, nil
}

// refExists probes the remote for the ref. An empty ls-remote result with a
// zero exit status means the ref is missing; a nonzero exit means the
// repository itself is unreachable or does not exist.
func (f *Fetcher) refExists(ctx context.Context, repoURL, ref string) (bool, error) {
	cmd := exec.CommandContext(ctx, "git", "ls-remote", repoURL, ref, ref+"^{}")
	out, err := cmd.Output()
	if err != nil {
		return false, execError(err)
	}
	return len(strings.TrimSpace(string(out))) > 0, nil
}

func (f *Fetcher) cloneRef(ctx context.Context, repoURL, ref, dest string) error {
	cmd := exec.CommandContext(ctx, "git", "clone", "--depth", "1", "--branch", ref, repoURL, dest)
	if _, err := cmd.Output(); err != nil {
		return execError(err)
	}
	return nil
}

func (f *Fetcher) cloneDefault(ctx context.Context, repoURL, dest string) error {
	cmd := exec.CommandContext(ctx, "git", "clone", "--depth", "1", repoURL, dest)
	if _, err := cmd.Output(); err != nil {
		return execError(err)
	}
	return nil
}

// execError surfaces the command's stderr, which is where git puts the
// useful part of a failure.
func execError(err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
	}
	return err
}

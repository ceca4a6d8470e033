// Package orchestrator drives the per-package fetch workflow and
// aggregates results across a batch.
package orchestrator

import (
	"context"
	"fmt"
	"io"

	"github.com/srcfetch/srcfetch/pkg/fetcher"
	"github.com/srcfetch/srcfetch/pkg/registry"
	"github.com/srcfetch/srcfetch/pkg/store"
)

// Resolver maps a package name and optional version to repository info.
type Resolver interface {
	Resolve(ctx context.Context, name, version string) (*registry.ResolvedPackage, error)
}

// Fetcher materializes a resolved package into the store.
type Fetcher interface {
	Fetch(ctx context.Context, resolved *registry.ResolvedPackage) (*fetcher.Checkout, error)
}

// VersionDetector reports the project's installed version of a package,
// or "" when unknown.
type VersionDetector func(name string) string

// FetchResult is the outcome for one requested package. Error may be
// non-empty while Success is true: a non-fatal warning, e.g. the candidate
// tag was missing and the default branch was fetched instead.
type FetchResult struct {
	Package string
	Version string
	Path    string
	Error   string
	Success bool
}

// Orchestrator processes a batch of package specs strictly in order, one
// package fully completing before the next begins. Failures are converted
// into results; nothing escapes the batch boundary.
type Orchestrator struct {
	Store    store.Store
	Resolver Resolver
	Fetcher  Fetcher

	// Detect supplies installed versions for specs without one. Optional.
	Detect VersionDetector
	// UpdateDocs receives the rebuilt source index after the batch.
	// Optional; gated on the file-edit permission by the caller.
	UpdateDocs func(store.SourceIndex) error
	// Out receives per-package progress lines. Optional.
	Out io.Writer
}

// FetchAll runs the batch and returns exactly one result per spec, in input
// order. Cancellation is checked between packages; once the context is done
// the remaining specs are reported as failed without being attempted.
func (o *Orchestrator) FetchAll(ctx context.Context, specs []string) []FetchResult {
	results := make([]FetchResult, 0, len(specs))
	for _, raw := range specs {
		if err := ctx.Err(); err != nil {
			results = append(results, FetchResult{
				Package: registry.ParseSpec(raw).Name,
				Error:   fmt.Sprintf("not attempted: %v", err),
			})
			continue
		}
		results = append(results, o.fetchOne(ctx, raw))
	}

	if o.UpdateDocs != nil {
		if err := o.UpdateDocs(o.Store.List()); err != nil {
			fmt.Fprintf(o.out(), "Warning: updating docs: %v\n", err)
		}
	}

	return results
}

func (o *Orchestrator) fetchOne(ctx context.Context, raw string) FetchResult {
	spec := registry.ParseSpec(raw)

	version := spec.Version
	if version == "" && o.Detect != nil {
		version = o.Detect(spec.Name)
	}

	// Short-circuit: a stored copy at the wanted version needs no network.
	if version != "" {
		if res, ok := o.storedResult(spec.Name, version); ok {
			return res
		}
	}

	fmt.Fprintf(o.out(), "Fetching %s...\n", spec.Name)

	resolved, err := o.Resolver.Resolve(ctx, spec.Name, version)
	if err != nil {
		return FetchResult{Package: spec.Name, Version: version, Error: err.Error()}
	}

	// The registry may have resolved "latest" to a version we already hold.
	if res, ok := o.storedResult(spec.Name, resolved.Version); ok {
		return res
	}

	checkout, err := o.Fetcher.Fetch(ctx, resolved)
	if err != nil {
		return FetchResult{Package: spec.Name, Version: resolved.Version, Error: err.Error()}
	}

	return FetchResult{
		Package: spec.Name,
		Version: resolved.Version,
		Path:    checkout.Path,
		Error:   checkout.Warning,
		Success: true,
	}
}

// storedResult returns a success result reusing stored metadata when the
// store already holds name at version.
func (o *Orchestrator) storedResult(name, version string) (FetchResult, bool) {
	meta := o.Store.ReadMetadata(name)
	if meta == nil || meta.Version != version {
		return FetchResult{}, false
	}
	return FetchResult{
		Package: name,
		Version: meta.Version,
		Path:    meta.SourceDir(o.Store.PackageDir(name)),
		Success: true,
	}, true
}

func (o *Orchestrator) out() io.Writer {
	if o.Out != nil {
		return o.Out
	}
	return io.Discard
}

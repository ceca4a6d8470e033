package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/srcfetch/srcfetch/pkg/fetcher"
	"github.com/srcfetch/srcfetch/pkg/orchestrator"
	"github.com/srcfetch/srcfetch/pkg/project"
	"github.com/srcfetch/srcfetch/pkg/registry"
	"github.com/srcfetch/srcfetch/pkg/store"
)

func newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <package>[@version]...",
		Short: "Fetch upstream sources into the project store",
		Long: `Resolves each package against the registry, checks out the revision
matching its version, and caches the source under .srcfetch/<package>.

Without an explicit @version the installed version is detected from the
project; failing that, the registry's latest release is used.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runFetch,
	}
}

func runFetch(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	allowEdits, err := resolveEditConsent()
	if err != nil {
		return err
	}

	s := store.ForProject(wd)

	orch := &orchestrator.Orchestrator{
		Store:    s,
		Resolver: registry.NewClient(DevCfg.Registry),
		Fetcher:  &fetcher.Fetcher{Store: s},
		Detect: func(name string) string {
			return project.InstalledVersion(wd, name)
		},
		Out: cmd.OutOrStdout(),
	}

	if allowEdits {
		orch.UpdateDocs = func(index store.SourceIndex) error {
			if _, err := project.EnsureIgnored(wd); err != nil {
				return err
			}
			return project.UpdateAgentsDoc(wd, index)
		}
	}

	results := orch.FetchAll(cmd.Context(), args)
	orchestrator.Report(cmd.OutOrStdout(), results)

	var failed int
	for _, r := range results {
		if !r.Success {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d package(s) failed", failed, len(results))
	}
	return nil
}

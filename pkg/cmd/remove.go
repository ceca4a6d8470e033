package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/srcfetch/srcfetch/pkg/project"
	"github.com/srcfetch/srcfetch/pkg/registry"
	"github.com/srcfetch/srcfetch/pkg/store"
)

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <package>",
		Short: "Remove a fetched source from the store",
		Args:  cobra.ExactArgs(1),
		RunE:  runRemove,
	}
}

func runRemove(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	name := registry.ParseSpec(args[0]).Name
	s := store.ForProject(wd)

	if !s.PackageExists(name) {
		return fmt.Errorf("no fetched source for %q", name)
	}

	s.RemovePackage(name)

	allowEdits, err := resolveEditConsent()
	if err != nil {
		return err
	}
	if allowEdits {
		if err := project.UpdateAgentsDoc(wd, s.List()); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", name)
	return nil
}

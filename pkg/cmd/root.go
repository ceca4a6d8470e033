package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/srcfetch/srcfetch/pkg/config"
)

var (
	flagEditFiles   bool
	flagNoEditFiles bool
	flagRegistry    string

	// DevCfg holds the resolved developer configuration, available to all
	// subcommands after PersistentPreRunE completes.
	DevCfg *config.DevConfig
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "srcfetch",
		Short: "Fetch upstream sources of project dependencies",
		Long:  "srcfetch resolves a package's upstream repository, checks out the revision matching its version, and caches the source tree under .srcfetch/.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flagEditFiles && flagNoEditFiles {
				return fmt.Errorf("--edit-files and --no-edit-files are mutually exclusive")
			}

			var editFiles *bool
			if cmd.Flags().Changed("edit-files") {
				v := true
				editFiles = &v
			}
			if cmd.Flags().Changed("no-edit-files") {
				v := false
				editFiles = &v
			}

			cfg, err := config.LoadDevConfig(editFiles, flagRegistry)
			if err != nil {
				return err
			}
			DevCfg = cfg
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVar(&flagEditFiles, "edit-files", false, "allow updating AGENTS.md and .gitignore")
	root.PersistentFlags().BoolVar(&flagNoEditFiles, "no-edit-files", false, "never update AGENTS.md or .gitignore")
	root.PersistentFlags().StringVar(&flagRegistry, "registry", "", "package registry base URL (default: registry.npmjs.org)")

	root.AddCommand(newFetchCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newRemoveCmd())

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

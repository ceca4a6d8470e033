package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/srcfetch/srcfetch/pkg/store"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List fetched package sources",
		RunE:  runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	index := store.ForProject(wd).List()
	if len(index) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No sources fetched yet")
		return nil
	}

	bold := color.New(color.Bold)
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\n", bold.Sprint("PACKAGE"), bold.Sprint("VERSION"), bold.Sprint("FETCHED"))
	for _, meta := range index {
		fmt.Fprintf(w, "%s\t%s\t%s\n", meta.Name, meta.Version, meta.FetchedAt.Local().Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

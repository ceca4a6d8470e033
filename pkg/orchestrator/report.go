package orchestrator

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	warnMark = color.New(color.FgYellow).Sprint("!")
	failMark = color.New(color.FgRed).Sprint("✗")
)

// Report prints one line per result in batch order, then a summary count.
func Report(w io.Writer, results []FetchResult) {
	var succeeded, failed int
	for _, r := range results {
		switch {
		case r.Success && r.Error != "":
			succeeded++
			fmt.Fprintf(w, "%s %s@%s -> %s (%s)\n", warnMark, r.Package, r.Version, r.Path, r.Error)
		case r.Success:
			succeeded++
			fmt.Fprintf(w, "%s %s@%s -> %s\n", okMark, r.Package, r.Version, r.Path)
		default:
			failed++
			fmt.Fprintf(w, "%s %s: %s\n", failMark, r.Package, r.Error)
		}
	}

	fmt.Fprintf(w, "\n%d fetched, %d failed\n", succeeded, failed)
}

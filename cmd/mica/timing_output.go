package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"mica/internal/observ"
)

// wantTimings reports whether the user asked for phase timings.
func wantTimings(cmd *cobra.Command) bool {
	on, err := cmd.Root().PersistentFlags().GetBool("timings")
	return err == nil && on
}

// printTimings writes the phase summary to out. The CLI points it at
// stderr so timings never mix with program output.
func printTimings(out io.Writer, tm *observ.Timer) {
	if tm == nil {
		return
	}
	fmt.Fprint(out, tm.Summary())
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mica/internal/prof"
)

// setupProfiling reads the persistent profiling flags and starts the
// requested profilers. The returned stop function is safe to call more
// than once and reports flush failures on stderr.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	root := cmd.Root()
	cpuPath, err := root.PersistentFlags().GetString("cpu-profile")
	if err != nil {
		return nil, err
	}
	tracePath, err := root.PersistentFlags().GetString("runtime-trace")
	if err != nil {
		return nil, err
	}
	heapPath, err := root.PersistentFlags().GetString("mem-profile")
	if err != nil {
		return nil, err
	}

	session, err := prof.Start(cpuPath, tracePath, heapPath)
	if err != nil {
		return nil, fmt.Errorf("failed to start profiling: %w", err)
	}
	stop := func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to finish profiling: %v\n", err)
		}
	}
	return stop, nil
}

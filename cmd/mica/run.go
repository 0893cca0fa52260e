package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mica/internal/driver"
	"mica/internal/observ"
	"mica/internal/rv32"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] [file.mc]",
	Short: "Compile and execute a mica program",
	Long: "Compile a source file, assemble it, and run it on the built-in RV32\n" +
		"machine. The process exits with the program's return value.",
	Args: cobra.MaximumNArgs(1),
	RunE: runExecution,
}

func init() {
	runCmd.Flags().Bool("no-cache", false, "ignore previously cached artifacts")
	runCmd.Flags().Int("max-steps", 0, "instruction budget before giving up (0 = default)")
}

func runExecution(cmd *cobra.Command, args []string) error {
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return err
	}
	maxSteps, err := cmd.Flags().GetInt("max-steps")
	if err != nil {
		return err
	}
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	tgt, err := resolveBuildTarget(args)
	if err != nil {
		return err
	}
	if tgt.dir {
		return fmt.Errorf("run needs a single source file, not a directory")
	}
	cache, err := openCacheUnless(noCache)
	if err != nil {
		return err
	}

	tm := observ.NewTimer()
	phase := tm.Begin("compile")
	art, err := driver.CompileFile(tgt.path, cache)
	if err != nil {
		return reportCompileError(err)
	}
	note := ""
	if art.Cached {
		note = "cached"
	}
	tm.End(phase, note)

	phase = tm.Begin("assemble")
	img, err := rv32.Assemble(art.Assembly)
	if err != nil {
		return fmt.Errorf("%s: %w", tgt.path, err)
	}
	tm.End(phase, "")

	machine := rv32.NewMachine(img)
	if maxSteps > 0 {
		machine.MaxSteps = maxSteps
	}
	phase = tm.Begin("execute")
	result, err := machine.Run("main")
	if err != nil {
		return err
	}
	tm.End(phase, fmt.Sprintf("%d instructions", machine.Steps))

	if wantTimings(cmd) {
		printTimings(os.Stderr, tm)
	}
	if !isQuiet(cmd) {
		fmt.Fprintf(cmd.OutOrStdout(), "main returned %d\n", result)
	}
	// os.Exit skips deferred calls, so flush profiles by hand.
	stopProfiling()
	// Shells only see the low byte of an exit status.
	os.Exit(int(uint32(result)) & 0xff)
	return nil
}

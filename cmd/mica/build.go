package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"mica/internal/diag"
	"mica/internal/driver"
	"mica/internal/observ"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [path]",
	Short: "Compile mica sources to RV32 assembly",
	Long: "Compile a source file, or every .mc file under a directory, to .s\n" +
		"assembly. With no path the entry point comes from mica.toml.",
	Args: cobra.MaximumNArgs(1),
	RunE: buildExecution,
}

func init() {
	buildCmd.Flags().StringP("output", "o", "", "output path for a single-file build")
	buildCmd.Flags().Int("jobs", 0, "concurrent compilations (0 = one per CPU)")
	buildCmd.Flags().Bool("no-cache", false, "ignore previously cached artifacts")
	buildCmd.Flags().String("ui", "auto", "progress view for directory builds (auto|on|off)")
}

func buildExecution(cmd *cobra.Command, args []string) error {
	out, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	uiModeValue, err := readUIMode(uiValue)
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
	cache, err := openCacheUnless(noCache)
	if err != nil {
		return err
	}

	if tgt.dir {
		if out != "" {
			return fmt.Errorf("-o applies to single-file builds, not directories")
		}
		return buildDirectory(cmd, tgt.path, driver.BuildOptions{Jobs: jobs, Cache: cache}, uiModeValue)
	}
	return buildFile(cmd, tgt, out, cache)
}

func buildFile(cmd *cobra.Command, tgt buildTarget, out string, cache *driver.Cache) error {
	tm := observ.NewTimer()
	phase := tm.Begin("compile")
	art, err := driver.CompileFile(tgt.path, cache)
	if err != nil {
		return reportCompileError(err)
	}
	cacheNote := ""
	if art.Cached {
		cacheNote = "cached"
	}
	tm.End(phase, cacheNote)

	phase = tm.Begin("write")
	dest := outputPath(out, tgt)
	if err := os.WriteFile(dest, []byte(art.Assembly), 0o644); err != nil {
		return err
	}
	tm.End(phase, dest)

	if wantTimings(cmd) {
		printTimings(os.Stderr, tm)
	}
	if !isQuiet(cmd) {
		note := ""
		if art.Cached {
			note = " (cached)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "built %s%s\n", dest, note)
	}
	return nil
}

func buildDirectory(cmd *cobra.Command, dir string, opts driver.BuildOptions, mode uiMode) error {
	files, err := driver.ListFiles(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .mc files under %s", dir)
	}

	tm := observ.NewTimer()
	phase := tm.Begin("compile")
	var results []driver.FileResult
	if shouldUseTUI(mode) {
		results, err = buildDirWithUI(cmd.Context(), "mica build", dir, files, opts)
	} else {
		results, err = driver.BuildDir(cmd.Context(), dir, opts)
	}
	if err != nil {
		return err
	}
	tm.End(phase, fmt.Sprintf("%d file(s)", len(files)))

	phase = tm.Begin("write")
	var built, cached, failed int
	for _, res := range results {
		if res.Err != nil {
			failed++
			if e, ok := diag.As(res.Err); ok {
				diag.Render(os.Stderr, e)
			} else {
				fmt.Fprintln(os.Stderr, res.Err)
			}
			continue
		}
		dest := strings.TrimSuffix(res.Path, ".mc") + ".s"
		if err := os.WriteFile(dest, []byte(res.Artifact.Assembly), 0o644); err != nil {
			return err
		}
		built++
		if res.Artifact.Cached {
			cached++
		}
	}
	tm.End(phase, "")

	if wantTimings(cmd) {
		printTimings(os.Stderr, tm)
	}
	if !isQuiet(cmd) {
		fmt.Fprintf(cmd.OutOrStdout(), "built %d of %d file(s), %d from cache\n", built, len(results), cached)
	}
	if failed > 0 {
		return fmt.Errorf("build failed for %d file(s)", failed)
	}
	return nil
}

// reportCompileError renders rich diagnostics for compiler errors and
// passes everything else through.
func reportCompileError(err error) error {
	if e, ok := diag.As(err); ok {
		diag.Render(os.Stderr, e)
		return fmt.Errorf("compilation failed")
	}
	return err
}

func openCacheUnless(disabled bool) (*driver.Cache, error) {
	if disabled {
		return nil, nil
	}
	return driver.OpenCache("mica")
}

func isQuiet(cmd *cobra.Command) bool {
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	return err == nil && quiet
}

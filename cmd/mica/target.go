package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mica/internal/project"
)

// buildTarget is what a build or run command operates on.
type buildTarget struct {
	path   string // source file, or directory for batch builds
	dir    bool
	output string // manifest output path, "" when not manifest-driven
}

// resolveBuildTarget picks the target: an explicit path argument, or
// the entry point named by the nearest mica.toml when the argument is
// missing or ".".
func resolveBuildTarget(args []string) (buildTarget, error) {
	if len(args) > 0 && args[0] != "" && filepath.Clean(args[0]) != "." {
		info, err := os.Stat(args[0])
		if err != nil {
			return buildTarget{}, err
		}
		return buildTarget{path: args[0], dir: info.IsDir()}, nil
	}

	manifestPath, ok, err := project.Find(".")
	if err != nil {
		return buildTarget{}, err
	}
	if !ok {
		return buildTarget{}, fmt.Errorf("no %s found; pass a file or directory, or run 'mica init'", project.ManifestName)
	}
	man, err := project.Load(manifestPath)
	if err != nil {
		return buildTarget{}, err
	}
	root := filepath.Dir(manifestPath)
	return buildTarget{
		path:   filepath.Join(root, man.Package.Main),
		output: filepath.Join(root, man.Package.Output),
	}, nil
}

// outputPath derives where a single-file build lands: -o wins, then the
// manifest output, then the source path with .mc swapped for .s.
func outputPath(flagOut string, tgt buildTarget) string {
	if flagOut != "" {
		return flagOut
	}
	if tgt.output != "" {
		return tgt.output
	}
	return strings.TrimSuffix(tgt.path, ".mc") + ".s"
}

package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/spf13/cobra"

	"mica/internal/driver"
	"mica/internal/project"
	"mica/internal/rv32"
)

func quietInitCmd() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetOut(io.Discard)
	return cmd
}

func TestInitScaffoldsRunnableProject(t *testing.T) {
	t.Chdir(t.TempDir())

	be.Err(t, runInit(quietInitCmd(), []string{"demo"}), nil)

	man, err := project.Load(filepath.Join("demo", project.ManifestName))
	be.Err(t, err, nil)
	be.Equal(t, man.Package.Name, "demo")
	be.Equal(t, man.Package.Main, "main.mc")
	be.Equal(t, man.Package.Output, "demo.s")

	// The scaffold must compile and run as-is.
	art, err := driver.CompileFile(filepath.Join("demo", "main.mc"), nil)
	be.Err(t, err, nil)
	got, err := rv32.Execute(art.Assembly, "main")
	be.Err(t, err, nil)
	be.Equal(t, got, int32(55)) // fib(10)
}

func TestInitRefusesReinit(t *testing.T) {
	t.Chdir(t.TempDir())

	be.Err(t, runInit(quietInitCmd(), []string{"demo"}), nil)
	err := runInit(quietInitCmd(), []string{"demo"})
	be.Err(t, err)
	be.True(t, strings.Contains(err.Error(), "already initialized"))
}

func TestInitKeepsExistingMain(t *testing.T) {
	t.Chdir(t.TempDir())

	be.Err(t, runInit(quietInitCmd(), []string{"demo"}), nil)
	// Wipe the manifest but keep main.mc, then re-init.
	be.Err(t, os.Remove(filepath.Join("demo", project.ManifestName)), nil)
	be.Err(t, runInit(quietInitCmd(), []string{"demo"}), nil)
}

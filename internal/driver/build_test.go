package driver

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"mica/internal/diag"
)

func TestBuildDirCompilesAll(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "a.mc", "int main() { return 1; }")
	writeSource(t, dir, "b.mc", "int main() { return 2; }")
	writeSource(t, dir, "c.mc", "int main() { return 3; }")

	results, err := BuildDir(context.Background(), dir, BuildOptions{Jobs: 2})
	be.Err(t, err, nil)
	be.Equal(t, len(results), 3)
	for i, name := range []string{"a.mc", "b.mc", "c.mc"} {
		be.Equal(t, results[i].Path, filepath.Join(dir, name))
		be.Err(t, results[i].Err, nil)
		be.True(t, results[i].Artifact != nil)
	}
	be.True(t, strings.Contains(results[1].Artifact.Assembly, "li t0, 2"))
}

func TestBuildDirReportsPerFileErrors(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "bad.mc", "int main() { return nope; }")
	writeSource(t, dir, "good.mc", "int main() { return 0; }")

	results, err := BuildDir(context.Background(), dir, BuildOptions{})
	be.Err(t, err, nil)
	be.Equal(t, len(results), 2)

	e, ok := diag.As(results[0].Err)
	be.True(t, ok)
	be.Equal(t, e.Code, diag.UndefinedSymbol)
	be.True(t, results[0].Artifact == nil)

	be.Err(t, results[1].Err, nil)
	be.True(t, results[1].Artifact != nil)
}

func TestBuildDirStreamsEvents(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "a.mc", "int main() { return 1; }")
	writeSource(t, dir, "b.mc", "int main() { return 2; }")

	events := make(chan Event, 8)
	_, err := BuildDir(context.Background(), dir, BuildOptions{Events: events})
	be.Err(t, err, nil)

	var started, finished int
	for ev := range events {
		be.True(t, strings.HasSuffix(ev.Path, ".mc"))
		if ev.Done {
			finished++
			be.Err(t, ev.Err, nil)
		} else {
			started++
		}
	}
	be.Equal(t, started, 2)
	be.Equal(t, finished, 2)
}

func TestBuildDirUsesCacheAcrossRuns(t *testing.T) {
	cache := testCache(t)
	dir := t.TempDir()
	writeSource(t, dir, "a.mc", "int main() { return 1; }")
	writeSource(t, dir, "b.mc", "int main() { return 2; }")

	first, err := BuildDir(context.Background(), dir, BuildOptions{Cache: cache})
	be.Err(t, err, nil)
	for _, r := range first {
		be.True(t, !r.Artifact.Cached)
	}

	second, err := BuildDir(context.Background(), dir, BuildOptions{Cache: cache})
	be.Err(t, err, nil)
	for i, r := range second {
		be.True(t, r.Artifact.Cached)
		be.Equal(t, r.Artifact.Assembly, first[i].Artifact.Assembly)
	}
}

func TestBuildDirEmptyDir(t *testing.T) {
	events := make(chan Event, 1)
	results, err := BuildDir(context.Background(), t.TempDir(), BuildOptions{Events: events})
	be.Err(t, err, nil)
	be.Equal(t, len(results), 0)

	// The stream is closed even when there was nothing to build.
	_, open := <-events
	be.True(t, !open)
}

func TestBuildDirCanceledContext(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "a.mc", "int main() { return 1; }")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := BuildDir(ctx, dir, BuildOptions{})
	be.True(t, errors.Is(err, context.Canceled))
}

func TestBuildDirMissingDir(t *testing.T) {
	results, err := BuildDir(context.Background(), filepath.Join(t.TempDir(), "absent"), BuildOptions{})
	be.True(t, err != nil)
	be.Equal(t, len(results), 0)
}

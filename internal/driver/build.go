package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Event reports batch progress: one event when a file starts compiling
// and one when it finishes.
type Event struct {
	Path   string
	Done   bool
	Cached bool
	Err    error
}

// FileResult is the outcome for one file of a batch.
type FileResult struct {
	Path     string
	Artifact *Artifact
	Err      error
}

// BuildOptions configure BuildDir.
type BuildOptions struct {
	Jobs   int          // concurrent compilations; <=0 means GOMAXPROCS
	Cache  *Cache       // nil disables caching
	Events chan<- Event // progress stream; closed by BuildDir; nil disables
}

// ListFiles returns every *.mc under dir, sorted for deterministic order.
func ListFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".mc") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// BuildDir compiles every *.mc file under dir in parallel. Per-file
// failures land in the results; the returned error reports only
// infrastructure trouble (unreadable directory, canceled context).
func BuildDir(ctx context.Context, dir string, opts BuildOptions) ([]FileResult, error) {
	if opts.Events != nil {
		defer close(opts.Events)
	}

	files, err := ListFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Every goroutine owns its own slot, so no mutex around results.
	results := make([]FileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			send(gctx, opts.Events, Event{Path: path})
			art, err := CompileFile(path, opts.Cache)
			results[i] = FileResult{Path: path, Artifact: art, Err: err}
			send(gctx, opts.Events, Event{
				Path:   path,
				Done:   true,
				Cached: art != nil && art.Cached,
				Err:    err,
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func send(ctx context.Context, ch chan<- Event, ev Event) {
	if ch == nil {
		return
	}
	select {
	case ch <- ev:
	case <-ctx.Done():
	}
}

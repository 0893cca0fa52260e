// Package driver runs the compilation pipeline: lexing and parsing into
// a syntax tree, then the single pass that checks and emits. It also owns
// the on-disk artifact cache and the parallel directory build the CLI
// builds on.
package driver

import (
	"mica/internal/parser"
	"mica/internal/project"
	"mica/internal/sema"
	"mica/internal/source"
)

// Artifact is the result of compiling one source file.
type Artifact struct {
	Path     string
	Assembly string
	Hash     project.Digest
	Cached   bool
}

// Compile runs the full pipeline over one file.
func Compile(file *source.File) (*Artifact, error) {
	prog, err := parser.Parse(file)
	if err != nil {
		return nil, err
	}
	res, err := sema.Compile(file, prog)
	if err != nil {
		return nil, err
	}
	return &Artifact{
		Path:     file.Path,
		Assembly: res.Assembly,
		Hash:     project.Digest(file.Hash),
	}, nil
}

// CompileFile loads and compiles path. With a non-nil cache, a file whose
// content hash is already stored skips compilation entirely, and fresh
// results are stored for the next run.
func CompileFile(path string, cache *Cache) (*Artifact, error) {
	file, err := source.Load(path)
	if err != nil {
		return nil, err
	}
	contentHash := project.Digest(file.Hash)
	key := cacheKey(contentHash)

	var payload Payload
	if hit, err := cache.Get(key, &payload); err == nil && hit && payload.Schema == cacheSchema {
		return &Artifact{
			Path:     path,
			Assembly: payload.Assembly,
			Hash:     contentHash,
			Cached:   true,
		}, nil
	}

	art, err := Compile(file)
	if err != nil {
		return nil, err
	}
	// A failed cache write never fails the build.
	_ = cache.Put(key, &Payload{Schema: cacheSchema, Path: path, Assembly: art.Assembly})
	return art, nil
}

// Package fuzztests houses Go fuzz harnesses that exercise the front
// half of the pipeline (source -> lexer -> parser -> sema). The goal
// is robustness: no panics, no hangs, and intact span bookkeeping on
// arbitrary input.
package fuzztests

// Package testkit holds structural invariant checks shared by parser
// tests and fuzz harnesses.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"mica/internal/ast"
	"mica/internal/source"
)

// CheckSpanInvariants runs span sanity checks over a parsed program:
//  1. every item span is non-empty and inside the file's bounds
//  2. items come in source order and do not overlap
//  3. name spans, initializers and function bodies nest inside their
//     item's span
func CheckSpanInvariants(file *source.File, prog *ast.Program) error {
	if file == nil || prog == nil {
		return fmt.Errorf("nil file or program")
	}
	size, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		return fmt.Errorf("content size overflow: %w", err)
	}

	var prev source.Span
	for i, item := range prog.Items {
		sp := item.Pos()
		if sp.Empty() {
			return fmt.Errorf("item %d has an empty span %v", i, sp)
		}
		if sp.End > size {
			return fmt.Errorf("item %d span %v ends beyond the file (%d bytes)", i, sp, size)
		}
		if i > 0 && sp.Start < prev.End {
			return fmt.Errorf("item %d span %v overlaps the previous item %v", i, sp, prev)
		}
		if err := checkNesting(item, sp); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		prev = sp
	}
	return nil
}

func checkNesting(item ast.Item, outer source.Span) error {
	switch it := item.(type) {
	case *ast.FuncDecl:
		if err := within(it.NameSpan, outer, "function name"); err != nil {
			return err
		}
		if it.Body != nil {
			return within(it.Body.Span, outer, "function body")
		}
	case *ast.VarDecl:
		if err := within(it.NameSpan, outer, "variable name"); err != nil {
			return err
		}
		if it.Init != nil {
			return within(it.Init.Pos(), outer, "initializer")
		}
	}
	return nil
}

func within(inner, outer source.Span, what string) error {
	if inner.Empty() {
		return fmt.Errorf("%s span %v is empty", what, inner)
	}
	if inner.Start < outer.Start || inner.End > outer.End {
		return fmt.Errorf("%s span %v escapes %v", what, inner, outer)
	}
	return nil
}

// Package sema implements the semantic pass: a single depth-first walk
// over the syntax tree that type-checks and emits RV32 assembly at the
// same time. There is no intermediate representation. The one place
// the pass revisits already-emitted text is the frame-reservation
// instruction in each function prologue, whose size is only known
// after the body has been walked.
//
// Generated code follows an operand-stack protocol: the code for any
// expression leaves exactly one word on top of the runtime stack (an
// address for an lvalue, a value for an rvalue) and consumes exactly
// the words its sub-expressions produced.
package sema

import (
	"mica/internal/ast"
	"mica/internal/diag"
	"mica/internal/source"
	"mica/internal/symbols"
	"mica/internal/types"
)

// Result holds the artifacts of a successful compilation.
type Result struct {
	Assembly string
	Table    *symbols.Table
}

// Compile checks prog and generates assembly for it. The first
// semantic violation aborts the compilation; there is no recovery.
func Compile(file *source.File, prog *ast.Program) (*Result, error) {
	c := &checker{
		file: file,
		tab:  symbols.NewTable(),
		emit: &emitter{},
		lab:  &labels{},
	}
	if err := c.program(prog); err != nil {
		return nil, err
	}
	return &Result{Assembly: c.emit.String(), Table: c.tab}, nil
}

// checker owns all the mutable state of one traversal. Nothing is
// shared between compilations, so concurrent Compile calls need no
// locking.
type checker struct {
	file    *source.File
	tab     *symbols.Table
	emit    *emitter
	lab     *labels
	fn      *symbols.Function // function whose body is being walked
	hasMain bool
}

func (c *checker) errf(span source.Span, code diag.Code, format string, args ...any) *diag.Error {
	return diag.Errorf(c.file, span, code, format, args...)
}

// fault attaches a source position to a symbol-table rejection.
func (c *checker) fault(span source.Span, flt *symbols.Fault) *diag.Error {
	return diag.Errorf(c.file, span, flt.Code, "%s", flt.Msg)
}

// rvalue turns the address on top of the stack into the value it
// names. RValues pass through untouched; so do arrays, whose value is
// their base address.
func (c *checker) rvalue(t types.Type) types.Type {
	if t.Cat() != types.LValue {
		return t
	}
	e := c.emit
	e.pop("t0")
	e.comment("cast lvalue to rvalue")
	e.instr("lw t0, 0(t0)")
	e.push("t0")
	return t.WithCat(types.RValue)
}

// wantInt reduces t to an rvalue and requires it to be a plain int.
// The code distinguishes operator sites from condition sites.
func (c *checker) wantInt(t types.Type, span source.Span, code diag.Code) *diag.Error {
	t = c.rvalue(t)
	if _, ok := t.(types.Int); !ok {
		return c.errf(span, code, "expected int, found %s", t)
	}
	return nil
}

// specType converts a spelled-out type to its semantic form.
func specType(ts ast.TypeSpec) types.Type {
	if ts.Stars == 0 {
		return types.Int{}
	}
	return types.Pointer{Depth: ts.Stars}
}

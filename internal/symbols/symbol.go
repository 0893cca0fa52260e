// Package symbols holds the compile-time name tables: the lexical scope
// stack, the global-variable table, and the function table.
//
// The table knows the rules but not the source positions; rejected
// operations come back as a Fault (code + message) that the caller
// turns into a positioned error.
package symbols

import (
	"fmt"

	"mica/internal/diag"
	"mica/internal/types"
)

// Symbol is a named storage location.
//
// Locals and register-spilled parameters live at negative offsets from
// fp; stack-passed parameters at positive ones. Globals are addressed
// by name instead, so their Offset is zero.
type Symbol struct {
	Name   string
	Type   types.Type
	Offset int32
	Global bool
}

// Global is a module-level variable. Repeated declarations are legal
// while the types agree; at most one may carry an initializer.
type Global struct {
	Sym         Symbol
	Initialized bool
}

// Function records a function's signature and whether a body has been
// seen yet.
type Function struct {
	Name    string
	Sig     types.Func
	Defined bool
}

// Fault is a rejected table operation.
type Fault struct {
	Code diag.Code
	Msg  string
}

func (f *Fault) Error() string { return f.Msg }

func faultf(code diag.Code, format string, args ...any) *Fault {
	return &Fault{Code: code, Msg: fmt.Sprintf(format, args...)}
}

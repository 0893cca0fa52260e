package symbols

import (
	"fortio.org/safecast"

	"mica/internal/diag"
	"mica/internal/types"
)

type scope map[string]*Symbol

// Table is the per-compilation symbol state. Scopes stack up during the
// traversal; globals and functions accumulate for the whole program.
type Table struct {
	scopes      []scope
	globals     map[string]*Global
	globalOrder []string
	funcs       map[string]*Function
	frameWords  int
}

func NewTable() *Table {
	return &Table{
		globals: make(map[string]*Global),
		funcs:   make(map[string]*Function),
	}
}

// EnterScope pushes a fresh innermost scope.
func (t *Table) EnterScope() {
	t.scopes = append(t.scopes, make(scope))
}

// ExitScope pops the innermost scope; its symbols die with it.
func (t *Table) ExitScope() {
	t.scopes = t.scopes[:len(t.scopes)-1]
}

// Depth returns the number of open scopes.
func (t *Table) Depth() int { return len(t.scopes) }

// ResetFrame starts a new function frame: the word counter drops to
// zero. Scope handling is separate; callers push the function scope
// themselves.
func (t *Table) ResetFrame() { t.frameWords = 0 }

// FrameWords returns the words allocated in the current frame so far.
// The function prologue reserves exactly this much, times the word
// size, after the body has been visited.
func (t *Table) FrameWords() int { return t.frameWords }

// alloc reserves n contiguous words and returns the byte offset of the
// lowest-addressed one, relative to fp.
func (t *Table) alloc(n int) (int32, *Fault) {
	t.frameWords += n
	bytes, err := safecast.Conv[int32](t.frameWords * types.WordSize)
	if err != nil {
		return 0, faultf(diag.InvalidArrayDimension, "stack frame exceeds the addressable range")
	}
	return -bytes, nil
}

// DeclareLocal binds name in the innermost scope and reserves frame
// space for it. Shadowing an outer scope is legal; re-declaring within
// the same scope is not.
func (t *Table) DeclareLocal(name string, typ types.Type) (*Symbol, *Fault) {
	inner := t.scopes[len(t.scopes)-1]
	if _, ok := inner[name]; ok {
		return nil, faultf(diag.RedeclaredSymbol, "'%s' is already declared in this scope", name)
	}
	off, flt := t.alloc(typ.Size() / types.WordSize)
	if flt != nil {
		return nil, flt
	}
	sym := &Symbol{Name: name, Type: typ, Offset: off}
	inner[name] = sym
	return sym, nil
}

// Bind binds name at a fixed frame offset without reserving space.
// Stack-passed parameters use it: the caller already owns their words.
func (t *Table) Bind(name string, typ types.Type, offset int32) (*Symbol, *Fault) {
	inner := t.scopes[len(t.scopes)-1]
	if _, ok := inner[name]; ok {
		return nil, faultf(diag.RedeclaredSymbol, "'%s' is already declared in this scope", name)
	}
	sym := &Symbol{Name: name, Type: typ, Offset: offset}
	inner[name] = sym
	return sym, nil
}

// Lookup resolves name against the scope stack innermost-first, then
// the globals.
func (t *Table) Lookup(name string) (*Symbol, *Fault) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if sym, ok := t.scopes[i][name]; ok {
			return sym, nil
		}
	}
	if g, ok := t.globals[name]; ok {
		return &g.Sym, nil
	}
	return nil, faultf(diag.UndefinedSymbol, "'%s' is not declared", name)
}

// DeclareGlobal records a module-level variable. Declaring the same
// name again is fine as long as the type is identical.
func (t *Table) DeclareGlobal(name string, typ types.Type) (*Global, *Fault) {
	if _, ok := t.funcs[name]; ok {
		return nil, faultf(diag.NameCollision, "'%s' is already a function", name)
	}
	if g, ok := t.globals[name]; ok {
		if !types.Equal(g.Sym.Type, typ) {
			return nil, faultf(diag.ConflictingDeclaration,
				"'%s' was declared as %s, redeclared as %s", name, g.Sym.Type, typ)
		}
		return g, nil
	}
	g := &Global{Sym: Symbol{Name: name, Type: typ, Global: true}}
	t.globals[name] = g
	t.globalOrder = append(t.globalOrder, name)
	return g, nil
}

// InitializeGlobal is DeclareGlobal plus the one-time initialization
// mark.
func (t *Table) InitializeGlobal(name string, typ types.Type) (*Global, *Fault) {
	g, flt := t.DeclareGlobal(name, typ)
	if flt != nil {
		return nil, flt
	}
	if g.Initialized {
		return nil, faultf(diag.DuplicateInitialization, "'%s' is initialized more than once", name)
	}
	g.Initialized = true
	return g, nil
}

// Globals returns every declared global in declaration order.
func (t *Table) Globals() []*Global {
	out := make([]*Global, len(t.globalOrder))
	for i, name := range t.globalOrder {
		out[i] = t.globals[name]
	}
	return out
}

// DeclareFunction records a prototype. Every declaration of a name must
// carry the same signature.
func (t *Table) DeclareFunction(name string, sig types.Func) (*Function, *Fault) {
	if _, ok := t.globals[name]; ok {
		return nil, faultf(diag.NameCollision, "'%s' is already a variable", name)
	}
	if f, ok := t.funcs[name]; ok {
		if !types.Equal(f.Sig, sig) {
			return nil, faultf(diag.SignatureMismatch,
				"'%s' was declared as %s, redeclared as %s", name, f.Sig, sig)
		}
		return f, nil
	}
	f := &Function{Name: name, Sig: sig}
	t.funcs[name] = f
	return f, nil
}

// DefineFunction records a function body: at most one per name, and the
// signature must agree with any earlier declaration.
func (t *Table) DefineFunction(name string, sig types.Func) (*Function, *Fault) {
	if _, ok := t.globals[name]; ok {
		return nil, faultf(diag.NameCollision, "'%s' is already a variable", name)
	}
	if f, ok := t.funcs[name]; ok {
		if f.Defined {
			return nil, faultf(diag.ConflictingDeclaration, "'%s' is defined more than once", name)
		}
		if !types.Equal(f.Sig, sig) {
			return nil, faultf(diag.SignatureMismatch,
				"'%s' was declared as %s, defined as %s", name, f.Sig, sig)
		}
		f.Defined = true
		return f, nil
	}
	f := &Function{Name: name, Sig: sig, Defined: true}
	t.funcs[name] = f
	return f, nil
}

// Func looks up a function by name.
func (t *Table) Func(name string) (*Function, bool) {
	f, ok := t.funcs[name]
	return f, ok
}

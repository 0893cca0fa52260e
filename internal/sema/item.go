package sema

import (
	"strconv"

	"mica/internal/ast"
	"mica/internal/diag"
	"mica/internal/source"
	"mica/internal/types"
)

func (c *checker) program(prog *ast.Program) *diag.Error {
	for _, it := range prog.Items {
		var err *diag.Error
		switch d := it.(type) {
		case *ast.FuncDecl:
			if d.Body == nil {
				err = c.declareFunc(d)
			} else {
				err = c.defineFunc(d)
			}
		case *ast.VarDecl:
			err = c.globalVar(d)
		}
		if err != nil {
			return err
		}
	}

	// Globals that never saw an initializer get zero-filled storage,
	// in declaration order.
	for _, g := range c.tab.Globals() {
		if !g.Initialized {
			c.emit.instr(".comm %s, %d, 4", g.Sym.Name, g.Sym.Type.Size())
		}
	}

	if !c.hasMain {
		return c.errf(source.Span{}, diag.MissingEntryPoint, "no definition of 'main'")
	}
	return nil
}

// signature builds the semantic signature of a declaration.
func (c *checker) signature(d *ast.FuncDecl) types.Func {
	params := make([]types.Type, len(d.Params))
	for i, p := range d.Params {
		params[i] = specType(p.Type)
	}
	return types.Func{Return: specType(d.Ret), Params: params}
}

func (c *checker) declareFunc(d *ast.FuncDecl) *diag.Error {
	if _, flt := c.tab.DeclareFunction(d.Name, c.signature(d)); flt != nil {
		return c.fault(d.NameSpan, flt)
	}
	return nil
}

// defineFunc compiles one function body. The frame size is only known
// after the body has been walked, so the reservation instruction is
// spliced back into the prologue at a recorded mark.
func (c *checker) defineFunc(d *ast.FuncDecl) *diag.Error {
	sig := c.signature(d)
	fn, flt := c.tab.DefineFunction(d.Name, sig)
	if flt != nil {
		return c.fault(d.NameSpan, flt)
	}
	if d.Name == "main" {
		c.hasMain = true
	}
	c.fn = fn

	e := c.emit
	e.instr(".text")
	e.instr(".global %s", d.Name)
	e.label("%s", d.Name)
	e.comment("prologue")
	e.push("ra")
	e.push("fp")
	e.instr("mv fp, sp")
	mark := e.mark()

	c.tab.ResetFrame()
	c.tab.EnterScope()

	// Parameters follow the riscv gcc convention: the first eight
	// arrive in a0-a7 and are spilled into the frame, the rest sit on
	// the caller's stack above the saved ra/fp pair.
	for i, p := range d.Params {
		typ := sig.Params[i].WithCat(types.LValue)
		if i < 8 {
			sym, flt := c.tab.DeclareLocal(p.Name, typ)
			if flt != nil {
				return c.fault(p.NameSpan, flt)
			}
			e.instr("sw a%d, %d(fp)", i, sym.Offset)
		} else {
			if _, flt := c.tab.Bind(p.Name, typ, int32(4*(i-6))); flt != nil {
				return c.fault(p.NameSpan, flt)
			}
		}
	}

	for _, s := range d.Body.Stmts {
		if err := c.stmt(s); err != nil {
			return err
		}
	}
	c.tab.ExitScope()

	// Functions that run off the end return 0.
	e.comment("return 0 as default")
	e.instr("li t1, 0")
	e.instr("addi sp, sp, -4")
	e.instr("sw t1, 0(sp)")

	e.insertInstrAt(mark, "addi sp, sp, %d", -types.WordSize*c.tab.FrameWords())

	e.comment("epilogue")
	e.label(".exit.%s", d.Name)
	e.instr("lw a0, 0(sp)")
	e.instr("mv sp, fp")
	e.pop("fp")
	e.pop("ra")
	e.instr("ret")
	e.blank()
	return nil
}

func (c *checker) globalVar(d *ast.VarDecl) *diag.Error {
	if d.IsArray() {
		typ, err := c.arrayType(d)
		if err != nil {
			return err
		}
		if _, flt := c.tab.DeclareGlobal(d.Name, typ); flt != nil {
			return c.fault(d.NameSpan, flt)
		}
		return nil
	}

	typ := specType(d.Type).WithCat(types.LValue)
	if d.Init == nil {
		if _, flt := c.tab.DeclareGlobal(d.Name, typ); flt != nil {
			return c.fault(d.NameSpan, flt)
		}
		return nil
	}

	if _, flt := c.tab.InitializeGlobal(d.Name, typ); flt != nil {
		return c.fault(d.NameSpan, flt)
	}
	lit := d.Init.(*ast.NumberLit) // the parser allows nothing else here
	e := c.emit
	e.instr(".data")
	e.instr(".align 4")
	e.label("%s", d.Name)
	e.instr(".word %s", lit.Text)
	return nil
}

// arrayType builds the array type of a declarator, innermost dimension
// deepest, and validates every dimension.
func (c *checker) arrayType(d *ast.VarDecl) (types.Type, *diag.Error) {
	typ := specType(d.Type).WithCat(types.LValue)
	for i := len(d.Dims) - 1; i >= 0; i-- {
		dim := d.Dims[i]
		n, err := strconv.ParseInt(dim.Text, 10, 32)
		if err != nil {
			return nil, c.errf(dim.Span, diag.InvalidArrayDimension,
				"array dimension %s is out of range", dim.Text)
		}
		if n == 0 {
			return nil, c.errf(dim.Span, diag.InvalidArrayDimension,
				"array dimension cannot be zero")
		}
		typ = types.Array{Elem: typ, Count: int(n)}
	}
	return typ, nil
}

package sema

import (
	"fmt"

	"mica/internal/ast"
	"mica/internal/diag"
	"mica/internal/types"
)

func (c *checker) stmt(s ast.Stmt) *diag.Error {
	switch st := s.(type) {
	case *ast.VarDecl:
		return c.localVar(st)
	case *ast.ExprStmt:
		return c.exprStmt(st)
	case *ast.ReturnStmt:
		return c.returnStmt(st)
	case *ast.IfStmt:
		return c.ifStmt(st)
	case *ast.BlockStmt:
		return c.blockStmt(st)
	case *ast.WhileStmt:
		return c.whileStmt(st)
	case *ast.DoWhileStmt:
		return c.doWhileStmt(st)
	case *ast.ForStmt:
		return c.forStmt(st)
	case *ast.BreakStmt:
		n, ok := c.lab.current()
		if !ok {
			return c.errf(st.Span, diag.BreakOutsideLoop, "'break' outside of a loop")
		}
		c.emit.instr("j .afterLoop%d", n)
		return nil
	case *ast.ContinueStmt:
		n, ok := c.lab.current()
		if !ok {
			return c.errf(st.Span, diag.ContinueOutsideLoop, "'continue' outside of a loop")
		}
		c.emit.instr("j .continueLoop%d", n)
		return nil
	}
	panic(fmt.Sprintf("sema: unhandled statement %T", s))
}

func (c *checker) localVar(d *ast.VarDecl) *diag.Error {
	if d.IsArray() {
		typ, err := c.arrayType(d)
		if err != nil {
			return err
		}
		// The variable binds to the lowest address of the reserved
		// block; elements grow upward from there.
		if _, flt := c.tab.DeclareLocal(d.Name, typ); flt != nil {
			return c.fault(d.NameSpan, flt)
		}
		return nil
	}

	typ := specType(d.Type).WithCat(types.LValue)
	sym, flt := c.tab.DeclareLocal(d.Name, typ)
	if flt != nil {
		return c.fault(d.NameSpan, flt)
	}
	if d.Init == nil {
		return nil
	}
	it, err := c.expr(d.Init)
	if err != nil {
		return err
	}
	it = c.rvalue(it)
	if !types.Equal(it, typ) {
		return c.errf(d.Init.Pos(), diag.TypeMismatch,
			"cannot initialize %s with a value of type %s", typ, it)
	}
	c.emit.pop("t0")
	c.emit.comment("initialize local variable")
	c.emit.instr("sw t0, %d(fp)", sym.Offset)
	return nil
}

func (c *checker) exprStmt(st *ast.ExprStmt) *diag.Error {
	if st.X == nil {
		return nil
	}
	if _, err := c.expr(st.X); err != nil {
		return err
	}
	// The value is never used again.
	c.emit.pop("t0")
	return nil
}

func (c *checker) returnStmt(st *ast.ReturnStmt) *diag.Error {
	rt, err := c.expr(st.X)
	if err != nil {
		return err
	}
	rt = c.rvalue(rt)
	if !types.Equal(rt, c.fn.Sig.Return) {
		return c.errf(st.X.Pos(), diag.ReturnTypeMismatch,
			"cannot return %s from a function returning %s", rt, c.fn.Sig.Return)
	}
	c.emit.instr("j .exit.%s", c.fn.Name)
	// The epilogue consumes the stacked return value.
	c.emit.depth--
	return nil
}

func (c *checker) ifStmt(st *ast.IfStmt) *diag.Error {
	n := c.lab.nextCond()
	// '#if' reads as a preprocessor directive, hence the doubled hash.
	c.emit.comment("# if")

	ct, err := c.expr(st.Cond)
	if err != nil {
		return err
	}
	if err := c.wantInt(ct, st.Cond.Pos(), diag.TypeMismatch); err != nil {
		return err
	}
	c.emit.pop("t0")
	c.emit.instr("beqz t0, .else%d", n)

	if err := c.stmt(st.Then); err != nil {
		return err
	}
	c.emit.instr("j .afterCond%d", n)
	c.emit.label(".else%d", n)
	if st.Else != nil {
		if err := c.stmt(st.Else); err != nil {
			return err
		}
	}
	c.emit.label(".afterCond%d", n)
	return nil
}

func (c *checker) blockStmt(st *ast.BlockStmt) *diag.Error {
	c.tab.EnterScope()
	for _, s := range st.Stmts {
		if err := c.stmt(s); err != nil {
			return err
		}
	}
	c.tab.ExitScope()
	return nil
}

func (c *checker) whileStmt(st *ast.WhileStmt) *diag.Error {
	n := c.lab.nextLoop()
	e := c.emit
	e.comment("while")
	e.label(".beforeLoop%d", n)
	// continue re-tests the condition, so both labels share a target.
	e.label(".continueLoop%d", n)

	ct, err := c.expr(st.Cond)
	if err != nil {
		return err
	}
	if err := c.wantInt(ct, st.Cond.Pos(), diag.TypeMismatch); err != nil {
		return err
	}
	e.pop("t0")
	e.instr("beqz t0, .afterLoop%d", n)

	c.lab.enterLoop(n)
	err = c.stmt(st.Body)
	c.lab.exitLoop()
	if err != nil {
		return err
	}

	e.instr("j .beforeLoop%d", n)
	e.label(".afterLoop%d", n)
	return nil
}

func (c *checker) doWhileStmt(st *ast.DoWhileStmt) *diag.Error {
	n := c.lab.nextLoop()
	e := c.emit
	e.comment("do-while")
	e.label(".beforeLoop%d", n)

	c.lab.enterLoop(n)
	err := c.stmt(st.Body)
	c.lab.exitLoop()
	if err != nil {
		return err
	}

	e.label(".continueLoop%d", n)
	ct, err := c.expr(st.Cond)
	if err != nil {
		return err
	}
	if err := c.wantInt(ct, st.Cond.Pos(), diag.TypeMismatch); err != nil {
		return err
	}
	e.pop("t0")
	e.instr("bnez t0, .beforeLoop%d", n)
	e.label(".afterLoop%d", n)
	return nil
}

// forStmt wraps the whole statement in one scope for the init clause
// and the body in a second, so a body declaration may shadow the init
// variable.
func (c *checker) forStmt(st *ast.ForStmt) *diag.Error {
	n := c.lab.nextLoop()
	e := c.emit
	e.comment("for")
	c.tab.EnterScope()

	switch init := st.Init.(type) {
	case *ast.VarDecl:
		if err := c.localVar(init); err != nil {
			return err
		}
	case *ast.ExprStmt:
		if _, err := c.expr(init.X); err != nil {
			return err
		}
		e.drop()
	}

	e.label(".beforeLoop%d", n)
	if st.Cond != nil {
		ct, err := c.expr(st.Cond)
		if err != nil {
			return err
		}
		if err := c.wantInt(ct, st.Cond.Pos(), diag.TypeMismatch); err != nil {
			return err
		}
		e.drain("t1")
		e.instr("beqz t1, .afterLoop%d", n)
	}

	c.lab.enterLoop(n)
	c.tab.EnterScope()
	err := c.stmt(st.Body)
	c.tab.ExitScope()
	c.lab.exitLoop()
	if err != nil {
		return err
	}

	e.label(".continueLoop%d", n)
	if st.Post != nil {
		if _, err := c.expr(st.Post); err != nil {
			return err
		}
		e.drop()
	}
	c.tab.ExitScope()

	e.instr("j .beforeLoop%d", n)
	e.label(".afterLoop%d", n)
	return nil
}

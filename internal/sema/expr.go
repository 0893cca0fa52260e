package sema

import (
	"fmt"

	"mica/internal/ast"
	"mica/internal/diag"
	"mica/internal/token"
	"mica/internal/types"
)

// maxIntDigits is the decimal spelling of the largest representable
// literal.
const maxIntDigits = "2147483647"

// digitsLess compares two decimal digit strings numerically: first by
// length, then lexicographically. Working on the text keeps the
// overflow check itself from overflowing.
func digitsLess(s, t string) bool {
	if len(s) != len(t) {
		return len(s) < len(t)
	}
	return s < t
}

func (c *checker) expr(x ast.Expr) (types.Type, *diag.Error) {
	switch ex := x.(type) {
	case *ast.NumberLit:
		return c.numberExpr(ex)
	case *ast.Ident:
		return c.identExpr(ex)
	case *ast.ParenExpr:
		return c.expr(ex.X)
	case *ast.UnaryExpr:
		return c.unaryExpr(ex)
	case *ast.CastExpr:
		return c.castExpr(ex)
	case *ast.BinaryExpr:
		return c.binaryExpr(ex)
	case *ast.AssignExpr:
		return c.assignExpr(ex)
	case *ast.CondExpr:
		return c.condExpr(ex)
	case *ast.CallExpr:
		return c.callExpr(ex)
	case *ast.IndexExpr:
		return c.indexExpr(ex)
	}
	panic(fmt.Sprintf("sema: unhandled expression %T", x))
}

func (c *checker) numberExpr(x *ast.NumberLit) (types.Type, *diag.Error) {
	if digitsLess(maxIntDigits, x.Text) {
		return nil, c.errf(x.Span, diag.LiteralOverflow,
			"literal %s does not fit in an int", x.Text)
	}
	e := c.emit
	e.comment("number %s", x.Text)
	e.instr("li t0, %s", x.Text)
	e.push("t0")
	return types.Int{}, nil
}

func (c *checker) identExpr(x *ast.Ident) (types.Type, *diag.Error) {
	sym, flt := c.tab.Lookup(x.Name)
	if flt != nil {
		return nil, c.fault(x.Span, flt)
	}
	e := c.emit
	if sym.Global {
		// A full 32-bit address does not fit one instruction.
		e.comment("read global variable %s (as lvalue)", x.Name)
		e.instr("lui t0, %%hi(%s)", x.Name)
		e.instr("addi t0, t0, %%lo(%s)", x.Name)
	} else {
		e.comment("read variable %s (as lvalue)", x.Name)
		e.instr("addi t0, fp, %d", sym.Offset)
	}
	e.push("t0")
	return sym.Type, nil
}

func (c *checker) unaryExpr(x *ast.UnaryExpr) (types.Type, *diag.Error) {
	t, err := c.expr(x.X)
	if err != nil {
		return nil, err
	}
	e := c.emit
	switch x.Op {
	case token.Star:
		t = c.rvalue(t)
		if _, ok := t.(types.Pointer); !ok {
			return nil, c.errf(x.Span, diag.DereferenceOfNonPointer,
				"cannot dereference a value of type %s", t)
		}
		// The pointer value on the stack is now an address: no code.
		return types.Deref(t), nil
	case token.Amp:
		if t.Cat() != types.LValue {
			return nil, c.errf(x.Span, diag.AddressOfRValue,
				"cannot take the address of a value of type %s", t)
		}
		// The address is already on the stack: no code.
		return types.Ref(t), nil
	case token.Minus, token.Bang, token.Tilde:
		if err := c.wantInt(t, x.X.Pos(), diag.InvalidOperandTypes); err != nil {
			return nil, err
		}
		e.pop("t0")
		switch x.Op {
		case token.Minus:
			e.comment("- int")
			e.instr("neg t0, t0")
		case token.Bang:
			e.comment("! int")
			e.instr("seqz t0, t0")
		default:
			e.comment("~ int")
			e.instr("not t0, t0")
		}
		e.push("t0")
		return types.Int{}, nil
	}
	panic(fmt.Sprintf("sema: unhandled unary operator %s", x.Op))
}

// castExpr re-shapes the operand without emitting anything. The value
// category survives the cast, so a cast of an lvalue stays assignable.
func (c *checker) castExpr(x *ast.CastExpr) (types.Type, *diag.Error) {
	st, err := c.expr(x.X)
	if err != nil {
		return nil, err
	}
	return specType(x.To).WithCat(st.Cat()), nil
}

func (c *checker) binaryExpr(x *ast.BinaryExpr) (types.Type, *diag.Error) {
	switch x.Op {
	case token.AndAnd, token.OrOr:
		return c.logicalExpr(x)
	case token.EqEq, token.BangEq:
		return c.equalityExpr(x)
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		return c.relationalExpr(x)
	case token.Plus, token.Minus:
		return c.additiveExpr(x)
	case token.Star, token.Slash, token.Percent:
		return c.multiplicativeExpr(x)
	}
	panic(fmt.Sprintf("sema: unhandled binary operator %s", x.Op))
}

// logicalExpr deliberately evaluates both operands: && and || do not
// short-circuit, side effects of the right operand always run.
func (c *checker) logicalExpr(x *ast.BinaryExpr) (types.Type, *diag.Error) {
	lt, err := c.expr(x.X)
	if err != nil {
		return nil, err
	}
	if err := c.wantInt(lt, x.X.Pos(), diag.InvalidOperandTypes); err != nil {
		return nil, err
	}
	rt, err := c.expr(x.Y)
	if err != nil {
		return nil, err
	}
	if err := c.wantInt(rt, x.Y.Pos(), diag.InvalidOperandTypes); err != nil {
		return nil, err
	}

	e := c.emit
	e.pop("t1")
	e.pop("t0")
	e.instr("snez t0, t0")
	e.instr("snez t1, t1")
	if x.Op == token.AndAnd {
		e.instr("and t0, t0, t1")
	} else {
		e.instr("or t0, t0, t1")
	}
	e.push("t0")
	return types.Int{}, nil
}

func (c *checker) equalityExpr(x *ast.BinaryExpr) (types.Type, *diag.Error) {
	lt, err := c.expr(x.X)
	if err != nil {
		return nil, err
	}
	lt = c.rvalue(lt)
	rt, err := c.expr(x.Y)
	if err != nil {
		return nil, err
	}
	rt = c.rvalue(rt)

	if !types.Equal(lt, rt) {
		return nil, c.errf(x.Span, diag.InvalidOperandTypes,
			"operands of %s must have the same type, found %s and %s", x.Op, lt, rt)
	}
	if _, ok := lt.(types.Array); ok {
		return nil, c.errf(x.Span, diag.InvalidOperandTypes,
			"an array cannot be compared")
	}

	e := c.emit
	e.pop("t1")
	e.pop("t0")
	if x.Op == token.EqEq {
		e.comment("eq")
		e.instr("sub t0, t0, t1")
		e.instr("seqz t0, t0")
	} else {
		e.comment("ne")
		e.instr("sub t0, t0, t1")
		e.instr("snez t0, t0")
	}
	e.push("t0")
	return types.Int{}, nil
}

func (c *checker) relationalExpr(x *ast.BinaryExpr) (types.Type, *diag.Error) {
	lt, err := c.expr(x.X)
	if err != nil {
		return nil, err
	}
	if err := c.wantInt(lt, x.X.Pos(), diag.InvalidOperandTypes); err != nil {
		return nil, err
	}
	rt, err := c.expr(x.Y)
	if err != nil {
		return nil, err
	}
	if err := c.wantInt(rt, x.Y.Pos(), diag.InvalidOperandTypes); err != nil {
		return nil, err
	}

	e := c.emit
	e.pop("t1")
	e.pop("t0")
	switch x.Op {
	case token.Lt:
		e.comment("<")
		e.instr("slt t0, t0, t1")
	case token.LtEq:
		e.comment("<=")
		e.instr("sgt t0, t0, t1")
		e.instr("xori t0, t0, 1")
	case token.Gt:
		e.comment(">")
		e.instr("sgt t0, t0, t1")
	default:
		e.comment(">=")
		e.instr("slt t0, t0, t1")
		e.instr("xori t0, t0, 1")
	}
	e.push("t0")
	return types.Int{}, nil
}

// additiveExpr handles + and -, including pointer arithmetic: the int
// side of pointer+int scales by the word size, and pointer-pointer
// divides back down to an element count.
func (c *checker) additiveExpr(x *ast.BinaryExpr) (types.Type, *diag.Error) {
	lt, err := c.expr(x.X)
	if err != nil {
		return nil, err
	}
	lt = c.rvalue(lt)
	rt, err := c.expr(x.Y)
	if err != nil {
		return nil, err
	}
	rt = c.rvalue(rt)

	e := c.emit
	e.pop("t1")
	e.pop("t0")

	_, lint := lt.(types.Int)
	_, rint := rt.(types.Int)
	_, lptr := lt.(types.Pointer)
	_, rptr := rt.(types.Pointer)

	if x.Op == token.Plus {
		switch {
		case lint && rint:
			e.comment("int + int")
			e.instr("add t0, t0, t1")
			e.push("t0")
			return types.Int{}, nil
		case lptr && rint:
			e.comment("pointer + int")
			e.instr("slli t1, t1, 2")
			e.instr("add t0, t0, t1")
			e.push("t0")
			return lt, nil
		case lint && rptr:
			e.comment("int + pointer")
			e.instr("slli t0, t0, 2")
			e.instr("add t0, t0, t1")
			e.push("t0")
			return rt, nil
		}
		return nil, c.errf(x.Span, diag.InvalidOperandTypes,
			"invalid operands to '+': %s and %s", lt, rt)
	}

	switch {
	case lint && rint:
		e.comment("int - int")
		e.instr("sub t0, t0, t1")
		e.push("t0")
		return types.Int{}, nil
	case lptr && rint:
		e.comment("pointer - int")
		e.instr("slli t1, t1, 2")
		e.instr("sub t0, t0, t1")
		e.push("t0")
		return lt, nil
	case lptr && types.Equal(lt, rt):
		e.comment("pointer - pointer")
		e.instr("sub t0, t0, t1")
		e.instr("srai t0, t0, 2")
		e.push("t0")
		return types.Int{}, nil
	}
	return nil, c.errf(x.Span, diag.InvalidOperandTypes,
		"invalid operands to '-': %s and %s", lt, rt)
}

func (c *checker) multiplicativeExpr(x *ast.BinaryExpr) (types.Type, *diag.Error) {
	lt, err := c.expr(x.X)
	if err != nil {
		return nil, err
	}
	if err := c.wantInt(lt, x.X.Pos(), diag.InvalidOperandTypes); err != nil {
		return nil, err
	}
	rt, err := c.expr(x.Y)
	if err != nil {
		return nil, err
	}
	if err := c.wantInt(rt, x.Y.Pos(), diag.InvalidOperandTypes); err != nil {
		return nil, err
	}

	var op string
	switch x.Op {
	case token.Star:
		op = "mul"
	case token.Slash:
		op = "div"
	default:
		op = "rem"
	}
	e := c.emit
	e.pop("t1")
	e.pop("t0")
	e.comment("%s", op)
	e.instr("%s t0, t0, t1", op)
	e.push("t0")
	return types.Int{}, nil
}

// assignExpr stores the right side into the location named by the
// left. Its result is the location itself, so chains like a = b = c
// bind right to left and each link sees an lvalue.
func (c *checker) assignExpr(x *ast.AssignExpr) (types.Type, *diag.Error) {
	lt, err := c.expr(x.LHS)
	if err != nil {
		return nil, err
	}
	if lt.Cat() != types.LValue {
		return nil, c.errf(x.LHS.Pos(), diag.LvalueRequired,
			"assignment target is not an lvalue")
	}
	rt, err := c.expr(x.RHS)
	if err != nil {
		return nil, err
	}
	rt = c.rvalue(rt)
	if !types.Equal(rt, lt) {
		return nil, c.errf(x.Span, diag.TypeMismatch,
			"cannot assign %s to %s", rt, lt)
	}

	e := c.emit
	e.pop("t1")
	e.pop("t0")
	e.comment("assign")
	e.instr("sw t1, 0(t0)")
	e.push("t0")
	return lt, nil
}

func (c *checker) condExpr(x *ast.CondExpr) (types.Type, *diag.Error) {
	n := c.lab.nextCond()
	e := c.emit
	e.comment("ternary conditional")

	ct, err := c.expr(x.Cond)
	if err != nil {
		return nil, err
	}
	if err := c.wantInt(ct, x.Cond.Pos(), diag.TypeMismatch); err != nil {
		return nil, err
	}
	e.pop("t0")
	e.instr("beqz t0, .else%d", n)

	base := e.depth
	tt, err := c.expr(x.Then)
	if err != nil {
		return nil, err
	}
	tt = c.rvalue(tt)
	e.instr("j .afterCond%d", n)
	e.label(".else%d", n)

	// Only one arm runs; both leave a single word.
	e.depth = base
	et, err := c.expr(x.Else)
	if err != nil {
		return nil, err
	}
	et = c.rvalue(et)
	e.label(".afterCond%d", n)

	if !types.Equal(tt, et) {
		return nil, c.errf(x.Span, diag.BranchTypeMismatch,
			"ternary branches have different types: %s and %s", tt, et)
	}
	return tt, nil
}

func (c *checker) callExpr(x *ast.CallExpr) (types.Type, *diag.Error) {
	fn, ok := c.tab.Func(x.Name)
	if !ok {
		return nil, c.errf(x.NameSpan, diag.UndefinedSymbol,
			"function '%s' is not declared", x.Name)
	}
	if len(x.Args) != len(fn.Sig.Params) {
		return nil, c.errf(x.Span, diag.ArityMismatch,
			"'%s' takes %d argument(s), %d given", x.Name, len(fn.Sig.Params), len(x.Args))
	}

	// riscv gcc convention: evaluate right to left so that on-stack
	// arguments end up with the ninth shallowest; the first eight are
	// popped into a0-a7 as they complete.
	e := c.emit
	e.comment("prepare arguments")
	for i := len(x.Args) - 1; i >= 0; i-- {
		at, err := c.expr(x.Args[i])
		if err != nil {
			return nil, err
		}
		at = c.rvalue(at)
		if !types.Equal(at, fn.Sig.Params[i]) {
			return nil, c.errf(x.Args[i].Pos(), diag.ArgumentTypeMismatch,
				"argument %d of '%s' wants %s, got %s", i+1, x.Name, fn.Sig.Params[i], at)
		}
		if i < 8 {
			e.pop(fmt.Sprintf("a%d", i))
		}
	}

	e.instr("call %s", x.Name)

	// The caller releases the stack-passed arguments.
	if n := len(x.Args) - 8; n > 0 {
		e.instr("addi sp, sp, %d", 4*n)
		e.depth -= n
	}

	e.push("a0")
	return fn.Sig.Return, nil
}

func (c *checker) indexExpr(x *ast.IndexExpr) (types.Type, *diag.Error) {
	bt, err := c.expr(x.Base)
	if err != nil {
		return nil, err
	}
	bt = c.rvalue(bt)
	it, err := c.expr(x.Index)
	if err != nil {
		return nil, err
	}
	if err := c.wantInt(it, x.Index.Pos(), diag.TypeMismatch); err != nil {
		return nil, err
	}

	e := c.emit
	e.pop("t1")
	e.pop("t0")
	switch base := bt.(type) {
	case types.Pointer:
		e.comment("subscript applied to a pointer")
		e.instr("slli t1, t1, 2")
		e.instr("add t0, t0, t1")
		e.push("t0")
		return types.Deref(base), nil
	case types.Array:
		// Elements may span several words for nested arrays, so the
		// index scales by the element size, not the word size.
		e.comment("subscript applied to an array")
		e.instr("li t2, %d", base.Elem.Size())
		e.instr("mul t1, t1, t2")
		e.instr("add t0, t0, t1")
		e.push("t0")
		return base.Elem, nil
	}
	return nil, c.errf(x.Span, diag.SubscriptOfNonIndexable,
		"cannot subscript a value of type %s", bt)
}

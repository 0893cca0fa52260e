package parser

import (
	"testing"

	"github.com/nalgeon/be"

	"mica/internal/ast"
	"mica/internal/diag"
	"mica/internal/lexer"
	"mica/internal/source"
	"mica/internal/token"
)

func parseString(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := Parse(source.NewVirtualFile("t.mc", []byte(src)))
	be.Err(t, err, nil)
	return prog
}

func parseExprString(t *testing.T, src string) ast.Expr {
	t.Helper()
	file := source.NewVirtualFile("t.mc", []byte(src))
	toks, err := lexer.Tokenize(file)
	be.Err(t, err, nil)
	p := &Parser{file: file, toks: toks}
	x, perr := p.parseExpr()
	if perr != nil {
		t.Fatalf("parse %q: %v", src, perr)
	}
	return x
}

func parseErr(t *testing.T, src string) *diag.Error {
	t.Helper()
	_, err := Parse(source.NewVirtualFile("t.mc", []byte(src)))
	if err == nil {
		t.Fatalf("parse %q: expected error", src)
	}
	e, ok := diag.As(err)
	be.True(t, ok)
	return e
}

func TestFunctionDefAndDecl(t *testing.T) {
	prog := parseString(t, "int f(int x, int *p);\nint f(int x, int *p) { return x; }")
	be.Equal(t, len(prog.Items), 2)

	decl := prog.Items[0].(*ast.FuncDecl)
	be.True(t, decl.Body == nil)
	be.Equal(t, decl.Name, "f")
	be.Equal(t, len(decl.Params), 2)
	be.Equal(t, decl.Params[0].Name, "x")
	be.Equal(t, decl.Params[1].Type.Stars, 1)

	def := prog.Items[1].(*ast.FuncDecl)
	be.True(t, def.Body != nil)
	be.Equal(t, len(def.Body.Stmts), 1)
}

func TestGlobals(t *testing.T) {
	prog := parseString(t, "int g;\nint h = 12;\nint **pp;\nint mat[2][3];")

	g := prog.Items[0].(*ast.VarDecl)
	be.True(t, g.Init == nil)
	be.True(t, !g.IsArray())

	h := prog.Items[1].(*ast.VarDecl)
	be.Equal(t, h.Init.(*ast.NumberLit).Text, "12")

	pp := prog.Items[2].(*ast.VarDecl)
	be.Equal(t, pp.Type.Stars, 2)

	mat := prog.Items[3].(*ast.VarDecl)
	be.Equal(t, len(mat.Dims), 2)
	be.Equal(t, mat.Dims[0].Text, "2")
	be.Equal(t, mat.Dims[1].Text, "3")
}

func TestGlobalInitMustBeLiteral(t *testing.T) {
	e := parseErr(t, "int g = 1 + 2;")
	be.Equal(t, e.Code, diag.SynUnexpectedToken)
}

func TestPrecedence(t *testing.T) {
	// 1 + 2 * 3 parses as 1 + (2 * 3).
	x := parseExprString(t, "1 + 2 * 3").(*ast.BinaryExpr)
	be.Equal(t, x.Op, token.Plus)
	be.Equal(t, x.Y.(*ast.BinaryExpr).Op, token.Star)

	// a < b == c < d parses as (a < b) == (c < d).
	eq := parseExprString(t, "a < b == c < d").(*ast.BinaryExpr)
	be.Equal(t, eq.Op, token.EqEq)
	be.Equal(t, eq.X.(*ast.BinaryExpr).Op, token.Lt)
	be.Equal(t, eq.Y.(*ast.BinaryExpr).Op, token.Lt)

	// a || b && c parses as a || (b && c).
	or := parseExprString(t, "a || b && c").(*ast.BinaryExpr)
	be.Equal(t, or.Op, token.OrOr)
	be.Equal(t, or.Y.(*ast.BinaryExpr).Op, token.AndAnd)

	// Left associativity: a - b - c is (a - b) - c.
	sub := parseExprString(t, "a - b - c").(*ast.BinaryExpr)
	be.Equal(t, sub.X.(*ast.BinaryExpr).Op, token.Minus)
}

func TestAssignChainsRight(t *testing.T) {
	x := parseExprString(t, "a = b = 1").(*ast.AssignExpr)
	be.Equal(t, x.LHS.(*ast.Ident).Name, "a")
	be.Equal(t, x.RHS.(*ast.AssignExpr).LHS.(*ast.Ident).Name, "b")
}

func TestAssignTargets(t *testing.T) {
	// Unary-shaped targets parse, even silly ones; sema sorts them out.
	_ = parseExprString(t, "*p = 1").(*ast.AssignExpr)
	_ = parseExprString(t, "a[0] = 1").(*ast.AssignExpr)
	_ = parseExprString(t, "(a) = 1").(*ast.AssignExpr)
	_ = parseExprString(t, "5 = 1").(*ast.AssignExpr)

	// A binary left side is a syntax error.
	e := parseErr(t, "int f() { a + b = c; }")
	be.Equal(t, e.Code, diag.SynInvalidAssignTarget)
}

func TestTernary(t *testing.T) {
	x := parseExprString(t, "a ? b : c ? d : e").(*ast.CondExpr)
	be.Equal(t, x.Cond.(*ast.Ident).Name, "a")
	// Right-assoc: else arm is the nested ternary.
	nested := x.Else.(*ast.CondExpr)
	be.Equal(t, nested.Cond.(*ast.Ident).Name, "c")
}

func TestCastVersusParen(t *testing.T) {
	cast := parseExprString(t, "(int**)pp").(*ast.CastExpr)
	be.Equal(t, cast.To.Stars, 2)

	paren := parseExprString(t, "(pp)").(*ast.ParenExpr)
	be.Equal(t, paren.X.(*ast.Ident).Name, "pp")

	// Casts bind to the following unary expression.
	deref := parseExprString(t, "(int)*p").(*ast.CastExpr)
	be.Equal(t, deref.X.(*ast.UnaryExpr).Op, token.Star)
}

func TestCallsAndSubscripts(t *testing.T) {
	call := parseExprString(t, "f(1, x, g())").(*ast.CallExpr)
	be.Equal(t, call.Name, "f")
	be.Equal(t, len(call.Args), 3)
	be.Equal(t, call.Args[2].(*ast.CallExpr).Name, "g")

	idx := parseExprString(t, "m[1][2]").(*ast.IndexExpr)
	be.Equal(t, idx.Index.(*ast.NumberLit).Text, "2")
	be.Equal(t, idx.Base.(*ast.IndexExpr).Index.(*ast.NumberLit).Text, "1")

	mix := parseExprString(t, "f(1)[2]").(*ast.IndexExpr)
	be.Equal(t, mix.Base.(*ast.CallExpr).Name, "f")
}

func TestUnaryNesting(t *testing.T) {
	x := parseExprString(t, "-!~*&p")
	ops := []token.Kind{token.Minus, token.Bang, token.Tilde, token.Star, token.Amp}
	for _, op := range ops {
		u := x.(*ast.UnaryExpr)
		be.Equal(t, u.Op, op)
		x = u.X
	}
	be.Equal(t, x.(*ast.Ident).Name, "p")
}

func TestIfElseAssociation(t *testing.T) {
	prog := parseString(t, "int f() { if (a) if (b) return 1; else return 2; return 3; }")
	body := prog.Items[0].(*ast.FuncDecl).Body
	outer := body.Stmts[0].(*ast.IfStmt)
	be.True(t, outer.Else == nil)
	inner := outer.Then.(*ast.IfStmt)
	be.True(t, inner.Else != nil)
}

func TestForHeaders(t *testing.T) {
	prog := parseString(t, `
int f() {
    for (int i = 0; i < 10; i = i + 1) ;
    for (i = 0; ; ) ;
    for (;;) break;
    for (; x < 3; x = x + 1) { }
    return 0;
}`)
	body := prog.Items[0].(*ast.FuncDecl).Body

	full := body.Stmts[0].(*ast.ForStmt)
	be.True(t, full.Init.(*ast.VarDecl) != nil)
	be.True(t, full.Cond != nil)
	be.True(t, full.Post != nil)

	exprInit := body.Stmts[1].(*ast.ForStmt)
	be.True(t, exprInit.Init.(*ast.ExprStmt).X != nil)
	be.True(t, exprInit.Cond == nil)
	be.True(t, exprInit.Post == nil)

	empty := body.Stmts[2].(*ast.ForStmt)
	be.True(t, empty.Init == nil)
	be.True(t, empty.Body.(*ast.BreakStmt) != nil)

	condOnly := body.Stmts[3].(*ast.ForStmt)
	be.True(t, condOnly.Init == nil)
	be.True(t, condOnly.Cond != nil)
}

func TestDoWhile(t *testing.T) {
	prog := parseString(t, "int f() { do x = x - 1; while (x); return x; }")
	body := prog.Items[0].(*ast.FuncDecl).Body
	dw := body.Stmts[0].(*ast.DoWhileStmt)
	be.True(t, dw.Cond.(*ast.Ident) != nil)
}

func TestEmptyStatement(t *testing.T) {
	prog := parseString(t, "int f() { ;; return 0; }")
	body := prog.Items[0].(*ast.FuncDecl).Body
	be.Equal(t, len(body.Stmts), 3)
	be.True(t, body.Stmts[0].(*ast.ExprStmt).X == nil)
}

func TestArrayWithInitializerRejected(t *testing.T) {
	e := parseErr(t, "int f() { int a[2] = 5; return 0; }")
	be.Equal(t, e.Code, diag.SynUnexpectedToken)
}

func TestMissingSemicolon(t *testing.T) {
	e := parseErr(t, "int f() { return 0 }")
	be.Equal(t, e.Code, diag.SynUnexpectedToken)
}

func TestDanglingOperatorNeedsExpression(t *testing.T) {
	e := parseErr(t, "int f() { return 1 + ; }")
	be.Equal(t, e.Code, diag.SynExpectExpression)

	e = parseErr(t, "int f() { return ; }")
	be.Equal(t, e.Code, diag.SynExpectExpression)
}

func TestUnclosedBlockAtEOF(t *testing.T) {
	e := parseErr(t, "int f() { return 0;")
	be.Equal(t, e.Code, diag.SynUnexpectedToken)
}

func TestSpansCoverConstructs(t *testing.T) {
	src := "int main() { return 1 + 2; }"
	prog := parseString(t, src)
	fn := prog.Items[0].(*ast.FuncDecl)
	be.Equal(t, fn.Span.Start, uint32(0))
	be.Equal(t, fn.Span.End, uint32(len(src)))

	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	be.Equal(t, src[ret.X.Pos().Start:ret.X.Pos().End], "1 + 2")
}

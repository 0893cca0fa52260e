package sema

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"mica/internal/diag"
	"mica/internal/parser"
	"mica/internal/source"
	"mica/internal/symbols"
)

func compileString(t *testing.T, src string) string {
	t.Helper()
	file := source.NewVirtualFile("t.mc", []byte(src))
	prog, err := parser.Parse(file)
	be.Err(t, err, nil)
	res, cerr := Compile(file, prog)
	if cerr != nil {
		t.Fatalf("compile %q: %v", src, cerr)
	}
	return res.Assembly
}

func compileErr(t *testing.T, src string) *diag.Error {
	t.Helper()
	file := source.NewVirtualFile("t.mc", []byte(src))
	prog, err := parser.Parse(file)
	be.Err(t, err, nil)
	_, cerr := Compile(file, prog)
	if cerr == nil {
		t.Fatalf("compile %q: expected a semantic error", src)
	}
	e, ok := diag.As(cerr)
	be.True(t, ok)
	return e
}

// wantAsm checks that the generated assembly contains chunk verbatim.
func wantAsm(t *testing.T, asm, chunk string) {
	t.Helper()
	if !strings.Contains(asm, chunk) {
		t.Errorf("expected assembly to contain %q, but it does not.\nAssembly:\n%s", chunk, asm)
	}
}

func TestSemanticErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want diag.Code
	}{
		{"undefined variable", "int main() { return x; }", diag.UndefinedSymbol},
		{"undeclared function", "int main() { return g(); }", diag.UndefinedSymbol},
		{"same scope redeclaration", "int main() { int x; int x; return 0; }", diag.RedeclaredSymbol},
		{"duplicate parameter", "int f(int a, int a) { return 0; } int main() { return 0; }", diag.RedeclaredSymbol},
		{"function after global", "int g; int g() { return 0; } int main() { return 0; }", diag.NameCollision},
		{"global after function", "int f() { return 0; } int f; int main() { return 0; }", diag.NameCollision},
		{"global type conflict", "int g; int *g; int main() { return 0; }", diag.ConflictingDeclaration},
		{"second definition", "int f() { return 0; } int f() { return 1; } int main() { return 0; }", diag.ConflictingDeclaration},
		{"declaration signature conflict", "int f(); int f(int x); int main() { return 0; }", diag.SignatureMismatch},
		{"definition signature conflict", "int f(int x); int f() { return 0; } int main() { return 0; }", diag.SignatureMismatch},
		{"double initialization", "int g = 1; int g = 2; int main() { return 0; }", diag.DuplicateInitialization},
		{"literal overflow", "int main() { return 2147483648; }", diag.LiteralOverflow},
		{"padded literal overflow", "int main() { return 00000000001; }", diag.LiteralOverflow},
		{"assign to constant", "int main() { 5 = 1; return 0; }", diag.LvalueRequired},
		{"assign to address", "int main() { int x; &x = 0; return 0; }", diag.LvalueRequired},
		{"assign to array", "int main() { int a[2]; a = 0; return 0; }", diag.LvalueRequired},
		{"address of constant", "int main() { return *&5; }", diag.AddressOfRValue},
		{"deref of int", "int main() { int x; return *x; }", diag.DereferenceOfNonPointer},
		{"subscript of int", "int main() { int x; return x[0]; }", diag.SubscriptOfNonIndexable},
		{"break at top level", "int main() { break; return 0; }", diag.BreakOutsideLoop},
		{"continue at top level", "int main() { continue; return 0; }", diag.ContinueOutsideLoop},
		{"zero dimension", "int main() { int a[0]; return 0; }", diag.InvalidArrayDimension},
		{"huge dimension", "int main() { int a[9999999999]; return 0; }", diag.InvalidArrayDimension},
		{"zero global dimension", "int a[3][0]; int main() { return 0; }", diag.InvalidArrayDimension},
		{"arity", "int f(int x) { return x; } int main() { return f(); }", diag.ArityMismatch},
		{"argument type", "int f(int *p) { return 0; } int main() { return f(1); }", diag.ArgumentTypeMismatch},
		{"return type", "int main() { int *p; return p; }", diag.ReturnTypeMismatch},
		{"assign type", "int main() { int x; int *p; x = p; return 0; }", diag.TypeMismatch},
		{"init type", "int main() { int *p; int q = p; return 0; }", diag.TypeMismatch},
		{"pointer condition", "int main() { int *p; if (p) return 1; return 0; }", diag.TypeMismatch},
		{"pointer plus pointer", "int main() { int *p; int *q; p = p + q; return 0; }", diag.InvalidOperandTypes},
		{"pointer times int", "int main() { int *p; p = p * 2; return 0; }", diag.InvalidOperandTypes},
		{"mixed equality", "int main() { int x; int *p; return p == x; }", diag.InvalidOperandTypes},
		{"array equality", "int main() { int a[2]; int b[2]; return a == b; }", diag.InvalidOperandTypes},
		{"pointer relational", "int main() { int *p; int *q; return p < q; }", diag.InvalidOperandTypes},
		{"branch types differ", "int main() { return 1 ? 2 : (int*)0; }", diag.BranchTypeMismatch},
		{"no main", "int f() { return 0; }", diag.MissingEntryPoint},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := compileErr(t, tt.src)
			if e.Code != tt.want {
				t.Fatalf("got %s, want %s (message: %s)", e.Code, tt.want, e.Msg)
			}
		})
	}
}

func TestErrorsCarryPositions(t *testing.T) {
	e := compileErr(t, "int main() {\n    return x;\n}")
	be.Equal(t, e.Code, diag.UndefinedSymbol)
	be.Equal(t, e.Position(), source.LineCol{Line: 2, Col: 12})
}

func TestLiteralBoundary(t *testing.T) {
	compileString(t, "int main() { return 2147483647; }")
	e := compileErr(t, "int main() { return 2147483648; }")
	be.Equal(t, e.Code, diag.LiteralOverflow)
}

func TestDigitsLess(t *testing.T) {
	be.True(t, digitsLess("9", "10"))
	be.True(t, digitsLess("2147483647", "2147483648"))
	be.True(t, !digitsLess("2147483647", "2147483647"))
	be.True(t, !digitsLess("2147483647", "0"))
	// Longer strings compare greater even when zero padded.
	be.True(t, digitsLess("2147483647", "00000000001"))
}

func TestRepeatedDeclarationsAreLegal(t *testing.T) {
	compileString(t, "int f(int x); int f(int x); int f(int x) { return x; } int f(int x); int main() { return f(1); }")
	compileString(t, "int g; int g; int g = 1; int main() { return g; }")
}

func TestShadowingIsLegal(t *testing.T) {
	asm := compileString(t, "int main() { int x; x = 1; { int x; x = 2; } return x; }")
	wantAsm(t, asm, "addi t0, fp, -4")
	wantAsm(t, asm, "addi t0, fp, -8")
}

func TestSelfReferentialInitializer(t *testing.T) {
	// The name is in scope before its initializer runs.
	compileString(t, "int main() { int x = x; return 0; }")
}

func TestCastKeepsCategory(t *testing.T) {
	// A cast of an lvalue stays assignable.
	compileString(t, "int main() { int x; (int)x = 3; return x; }")
	compileString(t, "int main() { int *p; (int**)p = (int**)0; return 0; }")
	// A cast of an rvalue stays an rvalue.
	e := compileErr(t, "int main() { (int)5 = 3; return 0; }")
	be.Equal(t, e.Code, diag.LvalueRequired)
}

func TestPointerEquality(t *testing.T) {
	compileString(t, "int f(int *p, int *q) { return p == q; } int main() { return 0; }")
	compileString(t, "int f(int **p, int **q) { return p != q; } int main() { return 0; }")
	e := compileErr(t, "int f(int *p, int **q) { return p == q; } int main() { return 0; }")
	be.Equal(t, e.Code, diag.InvalidOperandTypes)
}

func TestMainSignatureIsNotSpecial(t *testing.T) {
	// Any signature named main satisfies the entry point check.
	compileString(t, "int main(int argc) { return argc; }")
}

func TestGlobalInitializerSkipsOverflowCheck(t *testing.T) {
	// Global initializers copy the literal into .word without the
	// expression-literal range check.
	asm := compileString(t, "int g = 99999999999; int main() { return 0; }")
	wantAsm(t, asm, ".word 99999999999")
}

func TestForInitScopes(t *testing.T) {
	// The body scope nests inside the init scope.
	compileString(t, "int main() { for (int i = 0; i < 3; i = i + 1) { int i; i = 9; } return 0; }")
	// The init variable dies with the loop.
	e := compileErr(t, "int main() { for (int i = 0; i < 3; i = i + 1) ; return i; }")
	be.Equal(t, e.Code, diag.UndefinedSymbol)
}

func TestStackDepthBalanced(t *testing.T) {
	src := `
int g = 1;
int h;
int add(int a, int b) { return a + b; }
int main() {
    int x;
    int a[2][3];
    for (x = 0; x < 4; x = x + 1) {
        if (x % 2 == 0)
            a[0][x % 3] = add(x, g);
        else
            continue;
    }
    while (h < 3) { h = h + 1; }
    do { h = h - 1; } while (h > 0 && x < 9);
    return h ? *&x : a[0][0] - g;
}
`
	file := source.NewVirtualFile("t.mc", []byte(src))
	prog, err := parser.Parse(file)
	be.Err(t, err, nil)

	c := &checker{file: file, tab: symbols.NewTable(), emit: &emitter{}, lab: &labels{}}
	be.True(t, c.program(prog) == nil)
	be.Equal(t, c.emit.depth, 0)
}

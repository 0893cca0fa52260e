package ast

import (
	"mica/internal/source"
)

// FuncDecl is a function declaration or definition.
//
//	int f(int x, int *p);      Body == nil
//	int f(int x, int *p) {…}   Body != nil
type FuncDecl struct {
	Ret      TypeSpec
	Name     string
	NameSpan source.Span
	Params   []Param
	Body     *BlockStmt
	Span     source.Span
}

// Param is one function parameter.
type Param struct {
	Type     TypeSpec
	Name     string
	NameSpan source.Span
}

// Dim is one array dimension. The raw digit text is kept; the semantic
// pass converts and validates it.
type Dim struct {
	Text string
	Span source.Span
}

// VarDecl declares a scalar or array variable. It appears both at top
// level (global) and as a block item (local). Globals allow only a
// literal initializer; the parser enforces that.
type VarDecl struct {
	Type     TypeSpec
	Name     string
	NameSpan source.Span
	Dims     []Dim // non-empty for arrays; outermost dimension first
	Init     Expr  // nil when absent; never set for arrays
	Span     source.Span
}

func (*FuncDecl) itemNode() {}
func (*VarDecl) itemNode()  {}
func (*VarDecl) stmtNode()  {}

func (d *FuncDecl) Pos() source.Span { return d.Span }
func (d *VarDecl) Pos() source.Span  { return d.Span }

// IsArray reports whether the declarator has array dimensions.
func (d *VarDecl) IsArray() bool { return len(d.Dims) > 0 }

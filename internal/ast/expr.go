package ast

import (
	"mica/internal/source"
	"mica/internal/token"
)

// NumberLit is a decimal integer literal. Text is the raw digit string,
// leading zeros and all; both the overflow check and the emitted 'li'
// operand use it verbatim.
type NumberLit struct {
	Text string
	Span source.Span
}

// Ident is a use of a named variable.
type Ident struct {
	Name string
	Span source.Span
}

// ParenExpr is a parenthesized expression. It stays in the tree so that
// assignment-target checks see the parenthesized form.
type ParenExpr struct {
	X    Expr
	Span source.Span
}

// UnaryExpr is Op X for Op in - ! ~ * &.
type UnaryExpr struct {
	Op   token.Kind
	X    Expr
	Span source.Span
}

// CastExpr is (type)X. Casts never emit code; they re-shape the operand.
type CastExpr struct {
	To   TypeSpec
	X    Expr
	Span source.Span
}

// BinaryExpr is X Op Y for the arithmetic, relational, equality, and
// logical operators. Note that && and || are ordinary binary operators
// here: both sides always evaluate.
type BinaryExpr struct {
	Op   token.Kind
	X    Expr
	Y    Expr
	Span source.Span
}

// AssignExpr is LHS = RHS. Its result is the location of LHS, so
// assignments chain right to left.
type AssignExpr struct {
	LHS  Expr
	RHS  Expr
	Span source.Span
}

// CondExpr is the ternary Cond ? Then : Else.
type CondExpr struct {
	Cond Expr
	Then Expr
	Else Expr
	Span source.Span
}

// CallExpr is Name(Args...). Functions are called by name; there are no
// function values.
type CallExpr struct {
	Name     string
	NameSpan source.Span
	Args     []Expr
	Span     source.Span
}

// IndexExpr is Base[Index].
type IndexExpr struct {
	Base  Expr
	Index Expr
	Span  source.Span
}

func (*NumberLit) exprNode()  {}
func (*Ident) exprNode()      {}
func (*ParenExpr) exprNode()  {}
func (*UnaryExpr) exprNode()  {}
func (*CastExpr) exprNode()   {}
func (*BinaryExpr) exprNode() {}
func (*AssignExpr) exprNode() {}
func (*CondExpr) exprNode()   {}
func (*CallExpr) exprNode()   {}
func (*IndexExpr) exprNode()  {}

func (e *NumberLit) Pos() source.Span  { return e.Span }
func (e *Ident) Pos() source.Span      { return e.Span }
func (e *ParenExpr) Pos() source.Span  { return e.Span }
func (e *UnaryExpr) Pos() source.Span  { return e.Span }
func (e *CastExpr) Pos() source.Span   { return e.Span }
func (e *BinaryExpr) Pos() source.Span { return e.Span }
func (e *AssignExpr) Pos() source.Span { return e.Span }
func (e *CondExpr) Pos() source.Span   { return e.Span }
func (e *CallExpr) Pos() source.Span   { return e.Span }
func (e *IndexExpr) Pos() source.Span  { return e.Span }

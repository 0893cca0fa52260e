package ast

import (
	"mica/internal/source"
)

// ExprStmt is an expression used for effect, or the empty statement
// when X is nil.
type ExprStmt struct {
	X    Expr
	Span source.Span
}

// ReturnStmt is 'return X;'. The expression is mandatory.
type ReturnStmt struct {
	X    Expr
	Span source.Span
}

// IfStmt is 'if (Cond) Then' with an optional 'else Else'.
type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt // nil when absent
	Span source.Span
}

// BlockStmt is '{ ... }'. Local declarations are statements, so block
// items are just Stmts.
type BlockStmt struct {
	Stmts []Stmt
	Span  source.Span
}

// WhileStmt is 'while (Cond) Body'.
type WhileStmt struct {
	Cond Expr
	Body Stmt
	Span source.Span
}

// DoWhileStmt is 'do Body while (Cond);'.
type DoWhileStmt struct {
	Body Stmt
	Cond Expr
	Span source.Span
}

// ForStmt is 'for (Init Cond; Post) Body'. Init is a *VarDecl, an
// *ExprStmt, or nil; Cond and Post may each be nil. The init clause
// opens a scope that the body nests inside.
type ForStmt struct {
	Init Stmt
	Cond Expr
	Post Expr
	Body Stmt
	Span source.Span
}

// BreakStmt is 'break;'.
type BreakStmt struct {
	Span source.Span
}

// ContinueStmt is 'continue;'.
type ContinueStmt struct {
	Span source.Span
}

func (*ExprStmt) stmtNode()     {}
func (*ReturnStmt) stmtNode()   {}
func (*IfStmt) stmtNode()       {}
func (*BlockStmt) stmtNode()    {}
func (*WhileStmt) stmtNode()    {}
func (*DoWhileStmt) stmtNode()  {}
func (*ForStmt) stmtNode()      {}
func (*BreakStmt) stmtNode()    {}
func (*ContinueStmt) stmtNode() {}

func (s *ExprStmt) Pos() source.Span     { return s.Span }
func (s *ReturnStmt) Pos() source.Span   { return s.Span }
func (s *IfStmt) Pos() source.Span       { return s.Span }
func (s *BlockStmt) Pos() source.Span    { return s.Span }
func (s *WhileStmt) Pos() source.Span    { return s.Span }
func (s *DoWhileStmt) Pos() source.Span  { return s.Span }
func (s *ForStmt) Pos() source.Span      { return s.Span }
func (s *BreakStmt) Pos() source.Span    { return s.Span }
func (s *ContinueStmt) Pos() source.Span { return s.Span }

// Package ast defines the syntax tree for Mica programs.
//
// The node set is closed: Expr, Stmt, and Item are sealed by unexported
// marker methods, and consumers dispatch with exhaustive type switches.
// Every node keeps the source span it was parsed from.
package ast

import (
	"mica/internal/source"
)

// Node is implemented by every syntax-tree node.
type Node interface {
	Pos() source.Span
}

// Expr is implemented by every node that produces a value.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Item is implemented by every top-level declaration.
type Item interface {
	Node
	itemNode()
}

// Program is a whole translation unit in source order.
type Program struct {
	Items []Item
}

// TypeSpec is a spelled-out type: 'int' followed by zero or more '*'.
// Array dimensions live on the declarator (VarDecl.Dims), as in C.
type TypeSpec struct {
	Stars int
	Span  source.Span
}

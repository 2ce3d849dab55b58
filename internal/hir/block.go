package hir

import (
	"mirror/internal/source"
)

// Block is a sequence of statements with an optional tail expression.
type Block struct {
	ID    NodeID
	Stmts []*Stmt
	Tail  *Expr // nil when the block evaluates to unit
	Span  source.Span
}

// StmtKind enumerates statement kinds.
type StmtKind uint8

const (
	StmtLet StmtKind = iota
	StmtExpr
)

// Stmt is a statement inside a block.
type Stmt struct {
	ID   NodeID
	Kind StmtKind
	Span source.Span

	Pattern *Pattern // StmtLet
	Init    *Expr    // StmtLet (may be nil) or StmtExpr
}

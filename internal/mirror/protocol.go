package mirror

import (
	"mirror/internal/hir"
)

// Mirror is implemented by typed-tree nodes that know how to lower
// themselves into a mirror-tree node of type O.
type Mirror[O any] interface {
	MakeMirror(cx *Cx) (O, error)
}

// Convert lowers m with cx.
func Convert[O any](cx *Cx, m Mirror[O]) (O, error) {
	return m.MakeMirror(cx)
}

// ExprRef lowers a typed expression.
type ExprRef struct{ Expr *hir.Expr }

// BlockRef lowers a typed block.
type BlockRef struct{ Block *hir.Block }

// PatternRef lowers a typed pattern.
type PatternRef struct{ Pattern *hir.Pattern }

// StmtRef lowers a typed statement.
type StmtRef struct{ Stmt *hir.Stmt }

func (r ExprRef) MakeMirror(cx *Cx) (*Expr, error)       { return cx.lowerExpr(r.Expr) }
func (r BlockRef) MakeMirror(cx *Cx) (*Block, error)     { return cx.lowerBlock(r.Block) }
func (r PatternRef) MakeMirror(cx *Cx) (*Pattern, error) { return cx.lowerPattern(r.Pattern) }
func (r StmtRef) MakeMirror(cx *Cx) (*Stmt, error)       { return cx.lowerStmt(r.Stmt) }

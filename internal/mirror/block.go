package mirror

import (
	"mirror/internal/hir"
)

func (cx *Cx) lowerBlock(b *hir.Block) (*Block, error) {
	if b == nil {
		return nil, Bug("lower_block", "nil block")
	}
	out := &Block{Span: b.Span, Stmts: make([]*Stmt, 0, len(b.Stmts))}
	var bound []*hir.Pattern
	for _, st := range b.Stmts {
		s, err := Convert[*Stmt](cx, StmtRef{Stmt: st})
		if err != nil {
			return nil, err
		}
		out.Stmts = append(out.Stmts, s)
		if st.Kind == hir.StmtLet {
			bound = append(bound, st.Pattern.Bindings()...)
		}
	}
	if b.Tail != nil {
		tail, err := Convert[*Expr](cx, ExprRef{Expr: b.Tail})
		if err != nil {
			return nil, err
		}
		out.Tail = tail
	}
	drops, err := cx.scheduleDrops(bound)
	if err != nil {
		return nil, err
	}
	out.Drops = drops
	return out, nil
}

func (cx *Cx) lowerStmt(st *hir.Stmt) (*Stmt, error) {
	if st == nil {
		return nil, Bug("lower_stmt", "nil statement")
	}
	out := &Stmt{Kind: StmtExpr, Span: st.Span}
	switch st.Kind {
	case hir.StmtLet:
		out.Kind = StmtLet
		pat, err := Convert[*Pattern](cx, PatternRef{Pattern: st.Pattern})
		if err != nil {
			return nil, err
		}
		out.Pattern = pat
		if st.Init == nil {
			return out, nil
		}
	case hir.StmtExpr:
		if st.Init == nil {
			return nil, Bug("lower_stmt", "expression statement without expression")
		}
	default:
		return nil, Bug("lower_stmt", "unknown statement kind %d", st.Kind)
	}
	init, err := Convert[*Expr](cx, ExprRef{Expr: st.Init})
	if err != nil {
		return nil, err
	}
	out.Init = init
	return out, nil
}

// scheduleDrops returns drops for the bindings that need drop glue, last
// bound first.
func (cx *Cx) scheduleDrops(bindings []*hir.Pattern) ([]Drop, error) {
	var drops []Drop
	for i := len(bindings) - 1; i >= 0; i-- {
		b := bindings[i]
		need, err := cx.NeedsDrop(b.Type)
		if err != nil {
			return nil, err
		}
		if need {
			drops = append(drops, Drop{Local: b.Local, Name: b.Name, Type: b.Type})
		}
	}
	return drops, nil
}

// Package testkit checks structural invariants of lowered bodies. Tests
// run it over every body they produce.
package testkit

import (
	"fmt"

	"mirror/internal/hir"
	"mirror/internal/mirror"
	"mirror/internal/types"
)

// CheckBody verifies a lowered body:
//  1. every expression and pattern has a type and a payload
//  2. overflow assertions only appear in checked units
//  3. every variable is bound by a parameter, a let or a match arm before use
//  4. drops name locals bound in the scope that drops them
//  5. calls target a literal
func CheckBody(b *mirror.Body) error {
	if b == nil {
		return fmt.Errorf("nil body")
	}
	c := &checker{body: b, bound: make(map[hir.LocalID]bool)}
	params := make(map[hir.LocalID]bool, len(b.Params))
	for _, p := range b.Params {
		if p.Type == types.NoTypeID {
			return fmt.Errorf("%s: parameter %s has no type", b.Name, p.Name)
		}
		c.bound[p.Local] = true
		params[p.Local] = true
	}
	for _, d := range b.Drops {
		if !params[d.Local] {
			return fmt.Errorf("%s: body drops %s which is not a parameter", b.Name, d.Name)
		}
	}
	if b.Value == nil {
		return fmt.Errorf("%s: body has no value", b.Name)
	}
	return c.expr(b.Value)
}

type checker struct {
	body  *mirror.Body
	bound map[hir.LocalID]bool
}

func (c *checker) errorf(format string, args ...any) error {
	return fmt.Errorf("%s: %s", c.body.Name, fmt.Sprintf(format, args...))
}

func (c *checker) expr(e *mirror.Expr) error {
	if e == nil {
		return c.errorf("nil expression")
	}
	if e.Type == types.NoTypeID {
		return c.errorf("%s expression has no type", e.Kind)
	}
	if e.Data == nil {
		return c.errorf("%s expression has no payload", e.Kind)
	}
	switch d := e.Data.(type) {
	case mirror.LiteralExpr, mirror.StaticExpr:
		return nil
	case mirror.VarExpr:
		if !c.bound[d.Local] {
			return c.errorf("variable %s used before it is bound", d.Name)
		}
		return nil
	case mirror.UnaryExpr:
		if d.Checked && !c.body.CheckOverflow {
			return c.errorf("checked negation in an unchecked unit")
		}
		return c.expr(d.Arg)
	case mirror.BinaryExpr:
		if d.Checked && !c.body.CheckOverflow {
			return c.errorf("checked %s in an unchecked unit", d.Op)
		}
		return c.exprs(d.LHS, d.RHS)
	case mirror.LogicalExpr:
		return c.exprs(d.LHS, d.RHS)
	case mirror.CallExpr:
		if d.Fn == nil {
			return c.errorf("call without a callee")
		}
		if _, ok := d.Fn.Data.(mirror.LiteralExpr); !ok {
			return c.errorf("call target is %s, not a literal", d.Fn.Kind)
		}
		return c.exprs(append([]*mirror.Expr{d.Fn}, d.Args...)...)
	case mirror.AdtExpr:
		for _, f := range d.Fields {
			if err := c.expr(f.Value); err != nil {
				return err
			}
		}
		return nil
	case mirror.FieldAccessExpr:
		return c.expr(d.Base)
	case mirror.TupleExpr:
		return c.exprs(d.Fields...)
	case mirror.IfExpr:
		if err := c.exprs(d.Cond, d.Then); err != nil {
			return err
		}
		if d.Else != nil {
			return c.expr(d.Else)
		}
		return nil
	case mirror.BlockExpr:
		return c.block(d.Block)
	case mirror.MatchExpr:
		if err := c.expr(d.Scrutinee); err != nil {
			return err
		}
		for _, arm := range d.Arms {
			if err := c.pattern(arm.Pattern, nil); err != nil {
				return err
			}
			if err := c.expr(arm.Body); err != nil {
				return err
			}
		}
		return nil
	default:
		return c.errorf("unknown payload %T", e.Data)
	}
}

func (c *checker) exprs(list ...*mirror.Expr) error {
	for _, e := range list {
		if err := c.expr(e); err != nil {
			return err
		}
	}
	return nil
}

func (c *checker) block(b *mirror.Block) error {
	if b == nil {
		return c.errorf("nil block")
	}
	local := make(map[hir.LocalID]bool)
	for _, st := range b.Stmts {
		switch st.Kind {
		case mirror.StmtLet:
			if st.Init != nil {
				if err := c.expr(st.Init); err != nil {
					return err
				}
			}
			if err := c.pattern(st.Pattern, local); err != nil {
				return err
			}
		case mirror.StmtExpr:
			if err := c.expr(st.Init); err != nil {
				return err
			}
		}
	}
	if b.Tail != nil {
		if err := c.expr(b.Tail); err != nil {
			return err
		}
	}
	for _, d := range b.Drops {
		if !local[d.Local] {
			return c.errorf("block drops %s which it does not bind", d.Name)
		}
	}
	return nil
}

// pattern binds the pattern's locals, also recording them in scope when
// non-nil.
func (c *checker) pattern(p *mirror.Pattern, scope map[hir.LocalID]bool) error {
	if p == nil {
		return c.errorf("nil pattern")
	}
	if p.Type == types.NoTypeID {
		return c.errorf("%s pattern has no type", p.Kind)
	}
	switch p.Kind {
	case mirror.PatBinding:
		c.bound[p.Local] = true
		if scope != nil {
			scope[p.Local] = true
		}
	case mirror.PatConstant:
		if p.Value == nil {
			return c.errorf("constant pattern without a value")
		}
	case mirror.PatVariant:
		if p.Adt == nil {
			return c.errorf("variant pattern without an ADT")
		}
	}
	for _, f := range p.Fields {
		if err := c.pattern(f.Pattern, scope); err != nil {
			return err
		}
	}
	return nil
}

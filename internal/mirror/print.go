package mirror

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes a human-readable representation of a lowered body.
func Dump(w io.Writer, b *Body, tcx TypeContext) error {
	if w == nil || b == nil {
		return nil
	}
	p := &printer{tcx: tcx}
	p.body(b)
	_, err := io.WriteString(w, p.sb.String())
	return err
}

// DumpString is Dump into a string.
func DumpString(b *Body, tcx TypeContext) string {
	var sb strings.Builder
	if err := Dump(&sb, b, tcx); err != nil {
		return ""
	}
	return sb.String()
}

type printer struct {
	tcx TypeContext
	sb  strings.Builder
}

func (p *printer) line(depth int, format string, args ...any) {
	p.sb.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(&p.sb, format, args...)
	p.sb.WriteByte('\n')
}

func (p *printer) body(b *Body) {
	params := make([]string, len(b.Params))
	for i, prm := range b.Params {
		params[i] = fmt.Sprintf("%s: %s", prm.Name, p.tcx.TypeLabel(prm.Type))
	}
	p.line(0, "%s %s(%s) -> %s [%s check_overflow=%t]",
		b.Source.Kind, b.Name, strings.Join(params, ", "), p.tcx.TypeLabel(b.Result), b.Constness, b.CheckOverflow)
	p.expr(1, b.Value)
	p.drops(1, b.Drops)
}

func (p *printer) drops(depth int, drops []Drop) {
	for _, d := range drops {
		p.line(depth, "drop %s: %s", d.Name, p.tcx.TypeLabel(d.Type))
	}
}

func (p *printer) literal(lit Literal) string {
	switch l := lit.(type) {
	case LiteralValue:
		return l.Value.Format(p.tcx.Strings())
	case LiteralItem:
		var sb strings.Builder
		sb.WriteString(p.tcx.SymbolName(l.Def))
		if !l.Substs.Empty() {
			sb.WriteString("::<")
			parts := make([]string, 0, len(l.Substs.Types)+1)
			if l.Substs.Self != 0 {
				parts = append(parts, "Self="+p.tcx.TypeLabel(l.Substs.Self))
			}
			for _, t := range l.Substs.Types {
				parts = append(parts, p.tcx.TypeLabel(t))
			}
			sb.WriteString(strings.Join(parts, ", "))
			sb.WriteString(">")
		}
		return sb.String()
	default:
		return "<?>"
	}
}

func (p *printer) expr(depth int, e *Expr) {
	if e == nil {
		p.line(depth, "<nil>")
		return
	}
	ty := p.tcx.TypeLabel(e.Type)
	switch d := e.Data.(type) {
	case LiteralExpr:
		p.line(depth, "const %s : %s", p.literal(d.Literal), ty)
	case VarExpr:
		p.line(depth, "var %s : %s", d.Name, ty)
	case StaticExpr:
		p.line(depth, "static %s : %s", p.tcx.SymbolName(d.Def), ty)
	case UnaryExpr:
		p.line(depth, "unary %s%s : %s", d.Op, checkedSuffix(d.Checked, false), ty)
		p.expr(depth+1, d.Arg)
	case BinaryExpr:
		p.line(depth, "binary %s%s : %s", d.Op, checkedSuffix(d.Checked, d.AssertNonZero), ty)
		p.expr(depth+1, d.LHS)
		p.expr(depth+1, d.RHS)
	case LogicalExpr:
		p.line(depth, "logical %s : %s", d.Op, ty)
		p.expr(depth+1, d.LHS)
		p.expr(depth+1, d.RHS)
	case CallExpr:
		kind := "call"
		if d.Overloaded {
			kind = "call overloaded"
		}
		p.line(depth, "%s : %s", kind, ty)
		p.expr(depth+1, d.Fn)
		for _, a := range d.Args {
			p.expr(depth+1, a)
		}
	case AdtExpr:
		name, _ := p.tcx.Strings().Lookup(d.Adt.Variants[d.Variant].Name)
		p.line(depth, "adt %s variant=%d(%s) : %s", p.adtName(d), d.Variant, name, ty)
		for _, f := range d.Fields {
			p.line(depth+1, ".%d =", f.Field)
			p.expr(depth+2, f.Value)
		}
	case FieldAccessExpr:
		p.line(depth, "field .%d : %s", d.Field, ty)
		p.expr(depth+1, d.Base)
	case TupleExpr:
		p.line(depth, "tuple(%d) : %s", len(d.Fields), ty)
		for _, f := range d.Fields {
			p.expr(depth+1, f)
		}
	case IfExpr:
		p.line(depth, "if : %s", ty)
		p.expr(depth+1, d.Cond)
		p.expr(depth+1, d.Then)
		if d.Else != nil {
			p.expr(depth+1, d.Else)
		}
	case BlockExpr:
		p.block(depth, d.Block, ty)
	case MatchExpr:
		p.line(depth, "match : %s", ty)
		p.expr(depth+1, d.Scrutinee)
		for _, arm := range d.Arms {
			p.line(depth+1, "arm %s", p.pattern(arm.Pattern))
			p.expr(depth+2, arm.Body)
		}
	default:
		p.line(depth, "%s : %s", e.Kind, ty)
	}
}

func (p *printer) adtName(d AdtExpr) string {
	name, _ := p.tcx.Strings().Lookup(d.Adt.Name)
	return name
}

func (p *printer) block(depth int, b *Block, ty string) {
	p.line(depth, "block : %s", ty)
	for _, st := range b.Stmts {
		switch st.Kind {
		case StmtLet:
			p.line(depth+1, "let %s", p.pattern(st.Pattern))
			if st.Init != nil {
				p.expr(depth+2, st.Init)
			}
		default:
			p.line(depth+1, "stmt")
			p.expr(depth+2, st.Init)
		}
	}
	if b.Tail != nil {
		p.expr(depth+1, b.Tail)
	}
	p.drops(depth+1, b.Drops)
}

func (p *printer) pattern(pat *Pattern) string {
	if pat == nil {
		return "_"
	}
	switch pat.Kind {
	case PatWild:
		return "_"
	case PatBinding:
		return pat.Name
	case PatConstant:
		return p.literal(pat.Value)
	case PatLeaf, PatVariant:
		parts := make([]string, len(pat.Fields))
		for i, f := range pat.Fields {
			parts[i] = p.pattern(f.Pattern)
		}
		head := ""
		if pat.Adt != nil {
			v := 0
			if pat.Kind == PatVariant {
				v = pat.Variant
			}
			head, _ = p.tcx.Strings().Lookup(pat.Adt.Variants[v].Name)
		}
		return fmt.Sprintf("%s(%s)", head, strings.Join(parts, ", "))
	default:
		return "?"
	}
}

func checkedSuffix(checked, nonZero bool) string {
	switch {
	case checked:
		return " checked"
	case nonZero:
		return " assert-nonzero"
	default:
		return ""
	}
}

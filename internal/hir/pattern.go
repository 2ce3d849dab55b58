package hir

import (
	"mirror/internal/source"
	"mirror/internal/types"
)

// PatternKind enumerates pattern kinds.
type PatternKind uint8

const (
	PatWild PatternKind = iota
	PatBinding
	PatLiteral
	PatTuple
	PatVariant
)

func (k PatternKind) String() string {
	switch k {
	case PatWild:
		return "Wild"
	case PatBinding:
		return "Binding"
	case PatLiteral:
		return "Literal"
	case PatTuple:
		return "Tuple"
	case PatVariant:
		return "Variant"
	default:
		return "Unknown"
	}
}

// Pattern is a typed pattern.
type Pattern struct {
	ID   NodeID
	Kind PatternKind
	Type types.TypeID
	Span source.Span

	Local LocalID // PatBinding
	Name  string  // PatBinding
	Lit   *Expr   // PatLiteral: an ExprLiteral (optionally negated)

	Variant int        // PatVariant
	Subpats []*Pattern // PatTuple, PatVariant: one per field, in order
}

// Bindings returns the binding patterns inside p in source order.
func (p *Pattern) Bindings() []*Pattern {
	if p == nil {
		return nil
	}
	var out []*Pattern
	var walk func(*Pattern)
	walk = func(p *Pattern) {
		if p == nil {
			return
		}
		if p.Kind == PatBinding {
			out = append(out, p)
		}
		for _, sp := range p.Subpats {
			walk(sp)
		}
	}
	walk(p)
	return out
}

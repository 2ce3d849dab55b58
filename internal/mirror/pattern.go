package mirror

import (
	"mirror/internal/hir"
)

func (cx *Cx) lowerPattern(p *hir.Pattern) (*Pattern, error) {
	if p == nil {
		return nil, Bug("lower_pattern", "nil pattern")
	}
	out := &Pattern{Type: p.Type, Span: p.Span}

	switch p.Kind {
	case hir.PatWild:
		out.Kind = PatWild

	case hir.PatBinding:
		out.Kind = PatBinding
		out.Local = p.Local
		out.Name = p.Name

	case hir.PatLiteral:
		if p.Lit == nil {
			return nil, Bug("lower_pattern", "literal pattern without a value")
		}
		lit, err := cx.ConstEvalLiteral(p.Lit)
		if err != nil {
			return nil, err
		}
		out.Kind = PatConstant
		out.Value = lit

	case hir.PatTuple:
		elems, ok := cx.tcx.TupleElems(p.Type)
		if !ok {
			return nil, Bug("lower_pattern", "tuple pattern against %s", cx.tcx.TypeLabel(p.Type))
		}
		if len(elems) != len(p.Subpats) {
			return nil, Bug("lower_pattern", "tuple pattern has %d elements, type has %d", len(p.Subpats), len(elems))
		}
		fields := make([]Field, len(elems))
		for i := range fields {
			fields[i] = Field(i)
		}
		out.Kind = PatLeaf
		sub, err := cx.lowerSubpatterns(fields, p.Subpats)
		if err != nil {
			return nil, err
		}
		out.Fields = sub

	case hir.PatVariant:
		adt, _, ok := cx.tcx.AdtOf(p.Type)
		if !ok {
			return nil, Bug("lower_pattern", "variant pattern against %s", cx.tcx.TypeLabel(p.Type))
		}
		if p.Variant < 0 || p.Variant >= cx.NumVariants(adt) {
			return nil, Bug("lower_pattern", "variant %d out of range for %s", p.Variant, cx.tcx.TypeLabel(p.Type))
		}
		fields := cx.AllFields(adt, p.Variant)
		if len(fields) != len(p.Subpats) {
			return nil, Bug("lower_pattern", "variant pattern has %d fields, variant has %d", len(p.Subpats), len(fields))
		}
		sub, err := cx.lowerSubpatterns(fields, p.Subpats)
		if err != nil {
			return nil, err
		}
		out.Adt = adt
		out.Fields = sub
		// A single-variant ADT cannot fail to match its variant.
		if cx.NumVariants(adt) == 1 {
			out.Kind = PatLeaf
		} else {
			out.Kind = PatVariant
			out.Variant = p.Variant
		}

	default:
		return nil, Bug("lower_pattern", "unknown pattern kind %s", p.Kind)
	}
	return out, nil
}

func (cx *Cx) lowerSubpatterns(fields []Field, subpats []*hir.Pattern) ([]FieldPattern, error) {
	out := make([]FieldPattern, 0, len(fields))
	for i, f := range fields {
		sp, err := Convert[*Pattern](cx, PatternRef{Pattern: subpats[i]})
		if err != nil {
			return nil, err
		}
		out = append(out, FieldPattern{Field: f, Pattern: sp})
	}
	return out, nil
}

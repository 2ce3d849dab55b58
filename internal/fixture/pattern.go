package fixture

import (
	"fmt"

	"mirror/internal/hir"
	"mirror/internal/types"
)

// pattern builds a pattern against the type of the value it matches.
//
//	"_"                                 wildcard
//	"x" or {bind = "x"}                 binding
//	3, true, {int = -1}                 literal
//	{tuple = [...]}                     tuple
//	{variant = "Some", fields = [...]}  enum variant or struct
func (fb *fnBuilder) pattern(v any, ty types.TypeID) (*hir.Pattern, error) {
	pat := &hir.Pattern{ID: fb.b.node(), Type: ty}
	switch v := v.(type) {
	case nil:
		return nil, fmt.Errorf("missing pattern")
	case string:
		if v == "_" {
			pat.Kind = hir.PatWild
			return pat, nil
		}
		return fb.binding(pat, v), nil
	case bool, int64:
		lit, err := fb.expr(v, ty)
		if err != nil {
			return nil, err
		}
		pat.Kind, pat.Lit = hir.PatLiteral, lit
		return pat, nil
	case map[string]any:
		switch {
		case has(v, "bind"):
			name, _ := v["bind"].(string)
			return fb.binding(pat, name), nil
		case has(v, "int"):
			lit, err := fb.expr(v["int"], ty)
			if err != nil {
				return nil, err
			}
			pat.Kind, pat.Lit = hir.PatLiteral, lit
			return pat, nil
		case has(v, "tuple"):
			return fb.tuplePattern(pat, v)
		case has(v, "variant"):
			return fb.variantPattern(pat, v)
		}
		return nil, fmt.Errorf("unrecognized pattern table")
	default:
		return nil, fmt.Errorf("unsupported pattern %v (%T)", v, v)
	}
}

func (fb *fnBuilder) binding(pat *hir.Pattern, name string) *hir.Pattern {
	pat.Kind = hir.PatBinding
	pat.Name = name
	pat.Local = fb.bind(name, pat.Type)
	return pat
}

func (fb *fnBuilder) tuplePattern(pat *hir.Pattern, t map[string]any) (*hir.Pattern, error) {
	info, ok := fb.b.types.TupleInfo(pat.Type)
	if !ok {
		return nil, fmt.Errorf("tuple pattern against %s", fb.label(pat.Type))
	}
	subs, err := list(t, "tuple")
	if err != nil {
		return nil, err
	}
	if len(subs) != len(info.Elems) {
		return nil, fmt.Errorf("tuple pattern has %d elements, %s has %d", len(subs), fb.label(pat.Type), len(info.Elems))
	}
	pat.Kind = hir.PatTuple
	for i, s := range subs {
		sp, err := fb.pattern(s, info.Elems[i])
		if err != nil {
			return nil, err
		}
		pat.Subpats = append(pat.Subpats, sp)
	}
	return pat, nil
}

func (fb *fnBuilder) variantPattern(pat *hir.Pattern, t map[string]any) (*hir.Pattern, error) {
	def, _, ok := fb.b.types.AdtOf(pat.Type)
	if !ok {
		return nil, fmt.Errorf("variant pattern against %s", fb.label(pat.Type))
	}
	name, _ := t["variant"].(string)
	pat.Variant = -1
	for i, v := range def.Variants {
		if fb.b.strings.MustLookup(v.Name) == name {
			pat.Variant = i
			break
		}
	}
	if pat.Variant < 0 {
		return nil, fmt.Errorf("%s has no variant %q", fb.label(pat.Type), name)
	}
	subs, err := list(t, "fields")
	if err != nil {
		return nil, err
	}
	if n := len(def.Variants[pat.Variant].Fields); len(subs) != n {
		return nil, fmt.Errorf("variant %q has %d fields, pattern has %d", name, n, len(subs))
	}
	pat.Kind = hir.PatVariant
	for i, s := range subs {
		fty, _ := fb.b.types.FieldType(pat.Type, pat.Variant, i)
		sp, err := fb.pattern(s, fty)
		if err != nil {
			return nil, err
		}
		pat.Subpats = append(pat.Subpats, sp)
	}
	return pat, nil
}

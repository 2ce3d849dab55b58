package types

import (
	"fmt"
	"strconv"
	"strings"

	"mirror/internal/source"
)

// Strings resolves interned names for labels. *source.Interner satisfies it.
type Strings interface {
	Lookup(id source.StringID) (string, bool)
}

// Label returns a user-friendly label for a TypeID. Nominal types are
// printed by number; use LabelWithNames for readable names.
func Label(typesIn *Interner, id TypeID) string {
	return labelDepth(typesIn, nil, id, 0)
}

// LabelWithNames is Label with ADT and parameter names resolved.
func LabelWithNames(typesIn *Interner, names Strings, id TypeID) string {
	return labelDepth(typesIn, names, id, 0)
}

func labelDepth(typesIn *Interner, names Strings, id TypeID, depth int) string {
	if id == NoTypeID || typesIn == nil {
		return "?"
	}
	if depth > 6 {
		return "..."
	}
	tt, ok := typesIn.Lookup(id)
	if !ok {
		return "?"
	}
	switch tt.Kind {
	case KindBool:
		return "bool"
	case KindString:
		return "str"
	case KindInt:
		return formatIntType(tt.Width, true)
	case KindUint:
		return formatIntType(tt.Width, false)
	case KindFloat:
		return "f" + strconv.Itoa(int(tt.Width))
	case KindReference:
		if tt.Mutable {
			return "&mut " + labelDepth(typesIn, names, tt.Elem, depth+1)
		}
		return "&" + labelDepth(typesIn, names, tt.Elem, depth+1)
	case KindArray:
		return fmt.Sprintf("[%s; %d]", labelDepth(typesIn, names, tt.Elem, depth+1), tt.Count)
	case KindTuple:
		info, ok := typesIn.TupleInfo(id)
		if !ok || len(info.Elems) == 0 {
			return "()"
		}
		return "(" + labelList(typesIn, names, info.Elems, depth) + ")"
	case KindFn:
		info, ok := typesIn.FnInfo(id)
		if !ok {
			return "fn(?)"
		}
		return "fn(" + labelList(typesIn, names, info.Params, depth) + ") -> " + labelDepth(typesIn, names, info.Result, depth+1)
	case KindAdt:
		def, args, ok := typesIn.AdtOf(id)
		if !ok {
			return "adt?"
		}
		name := nameOf(names, def.Name, fmt.Sprintf("adt#%d", def.ID))
		if len(args) == 0 {
			return name
		}
		return name + "<" + labelList(typesIn, names, args, depth) + ">"
	case KindParam:
		info, ok := typesIn.TypeParamInfo(id)
		if !ok {
			return "param?"
		}
		if info.IsSelf {
			return "Self"
		}
		return nameOf(names, info.Name, fmt.Sprintf("P%d", info.Index))
	case KindInfer:
		return fmt.Sprintf("?%d", tt.Count)
	}
	return tt.Kind.String()
}

func labelList(typesIn *Interner, names Strings, ids []TypeID, depth int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = labelDepth(typesIn, names, id, depth+1)
	}
	return strings.Join(parts, ", ")
}

func nameOf(names Strings, id source.StringID, fallback string) string {
	if names == nil {
		return fallback
	}
	if s, ok := names.Lookup(id); ok && s != "" {
		return s
	}
	return fallback
}

func formatIntType(w Width, signed bool) string {
	prefix := "u"
	if signed {
		prefix = "i"
	}
	if w == WidthAny {
		return prefix + "size"
	}
	return prefix + strconv.Itoa(int(w))
}

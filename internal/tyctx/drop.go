package tyctx

import (
	"mirror/internal/types"
)

// needsDrop decides drop necessity structurally. Primitives, strings,
// references and function types never need drop. Aggregates need it when
// any component does; an ADT also needs it when it has a destructor.
// Parameters need it unless bounded by the copy marker. in must be locked
// for writing by the caller.
func needsDrop(in *types.Interner, id types.TypeID, copyParams, visiting map[types.TypeID]bool) bool {
	t, ok := in.Lookup(id)
	if !ok {
		return false
	}
	switch t.Kind {
	case types.KindArray:
		return t.Count > 0 && needsDrop(in, t.Elem, copyParams, visiting)
	case types.KindTuple:
		info, ok := in.TupleInfo(id)
		if !ok {
			return false
		}
		for _, elem := range info.Elems {
			if needsDrop(in, elem, copyParams, visiting) {
				return true
			}
		}
		return false
	case types.KindParam:
		return !copyParams[id]
	case types.KindAdt:
		def, _, ok := in.AdtOf(id)
		if !ok {
			return false
		}
		if def.HasDrop {
			return true
		}
		// A recursive ADT needs drop only if some non-recursive part does.
		if visiting[id] {
			return false
		}
		visiting[id] = true
		defer delete(visiting, id)
		for vi, v := range def.Variants {
			for fi := range v.Fields {
				fty, ok := in.FieldType(id, vi, fi)
				if ok && needsDrop(in, fty, copyParams, visiting) {
					return true
				}
			}
		}
		return false
	default:
		return false
	}
}

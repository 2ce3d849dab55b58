package types

// Walk visits id and every type nested inside it, depth first. Returning
// false from visit stops the walk. ADT fields are not visited; only the
// type arguments of an instance are.
func (in *Interner) Walk(id TypeID, visit func(TypeID, Type) bool) bool {
	tt, ok := in.Lookup(id)
	if !ok {
		return true
	}
	if !visit(id, tt) {
		return false
	}
	switch tt.Kind {
	case KindReference, KindArray:
		return in.Walk(tt.Elem, visit)
	case KindTuple:
		if info, ok := in.TupleInfo(id); ok {
			for _, e := range info.Elems {
				if !in.Walk(e, visit) {
					return false
				}
			}
		}
	case KindFn:
		if info, ok := in.FnInfo(id); ok {
			for _, p := range info.Params {
				if !in.Walk(p, visit) {
					return false
				}
			}
			return in.Walk(info.Result, visit)
		}
	case KindAdt:
		if _, args, ok := in.AdtOf(id); ok {
			for _, a := range args {
				if !in.Walk(a, visit) {
					return false
				}
			}
		}
	}
	return true
}

// HasInfer reports whether id mentions an inference variable anywhere.
func (in *Interner) HasInfer(id TypeID) bool {
	found := false
	in.Walk(id, func(_ TypeID, tt Type) bool {
		if tt.Kind == KindInfer {
			found = true
			return false
		}
		return true
	})
	return found
}

// HasParams reports whether id mentions a generic parameter.
func (in *Interner) HasParams(id TypeID) bool {
	found := false
	in.Walk(id, func(_ TypeID, tt Type) bool {
		if tt.Kind == KindParam {
			found = true
			return false
		}
		return true
	})
	return found
}

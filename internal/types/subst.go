package types

import (
	"fmt"
	"strings"
)

// Substs is a substitution list: type arguments for the generic parameters
// of a definition, in declaration order, plus the Self type of a trait.
// Length and order are not validated here; the producer of the list is
// responsible for matching the generic parameter list.
type Substs struct {
	Types []TypeID
	Self  TypeID
}

// NewTraitSubsts builds the substitution used to instantiate a trait item.
func NewTraitSubsts(params []TypeID, self TypeID) *Substs {
	return &Substs{Types: cloneTypeArgs(params), Self: self}
}

// Empty reports a substitution that changes nothing.
func (s *Substs) Empty() bool {
	return s == nil || (len(s.Types) == 0 && s.Self == NoTypeID)
}

// Label renders the substitution as `[Self=T; A, B]`.
func (s *Substs) Label(in *Interner) string {
	if s == nil {
		return "[]"
	}
	var sb strings.Builder
	sb.WriteString("[")
	if s.Self != NoTypeID {
		fmt.Fprintf(&sb, "Self=%s", Label(in, s.Self))
		if len(s.Types) > 0 {
			sb.WriteString("; ")
		}
	}
	for i, t := range s.Types {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(Label(in, t))
	}
	sb.WriteString("]")
	return sb.String()
}

// Subst applies s to id, interning any new types it produces.
func (in *Interner) Subst(id TypeID, s *Substs) TypeID {
	if s.Empty() || id == NoTypeID {
		return id
	}
	tt, ok := in.Lookup(id)
	if !ok {
		return id
	}

	switch tt.Kind {
	case KindParam:
		info, ok := in.TypeParamInfo(id)
		if !ok {
			return id
		}
		if info.IsSelf {
			if s.Self != NoTypeID {
				return s.Self
			}
			return id
		}
		idx := int(info.Index)
		if idx >= len(s.Types) || s.Types[idx] == NoTypeID {
			return id
		}
		return s.Types[idx]

	case KindReference, KindArray:
		elem := in.Subst(tt.Elem, s)
		if elem == tt.Elem {
			return id
		}
		clone := tt
		clone.Elem = elem
		return in.Intern(clone)

	case KindTuple:
		info, ok := in.TupleInfo(id)
		if !ok || len(info.Elems) == 0 {
			return id
		}
		elems, changed := in.substList(info.Elems, s)
		if !changed {
			return id
		}
		return in.RegisterTuple(elems)

	case KindFn:
		info, ok := in.FnInfo(id)
		if !ok {
			return id
		}
		params, changed := in.substList(info.Params, s)
		result := in.Subst(info.Result, s)
		if !changed && result == info.Result {
			return id
		}
		return in.RegisterFn(params, result)

	case KindAdt:
		def, args, ok := in.AdtOf(id)
		if !ok || len(args) == 0 {
			return id
		}
		newArgs, changed := in.substList(args, s)
		if !changed {
			return id
		}
		return in.AdtType(def.ID, newArgs)
	}
	return id
}

func (in *Interner) substList(list []TypeID, s *Substs) ([]TypeID, bool) {
	out := make([]TypeID, len(list))
	changed := false
	for i, t := range list {
		out[i] = in.Subst(t, s)
		changed = changed || out[i] != t
	}
	return out, changed
}

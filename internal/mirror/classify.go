package mirror

import (
	"mirror/internal/hir"
)

// Classify decides the constness of a compilation unit. Constants and
// statics are always const; functions and methods take their declared
// constness; closures and unresolvable nodes are not const. Promoted values
// have no constness of their own and are rejected.
func Classify(src Source, tcx TypeContext) (hir.Constness, error) {
	switch src.Kind {
	case SourceConst, SourceStatic:
		return hir.Const, nil
	case SourceFn:
		kind, ok := tcx.FnLike(src.Item)
		if !ok {
			return hir.NotConst, nil
		}
		switch fk := kind.(type) {
		case hir.FnItem:
			return fk.Constness, nil
		case hir.FnMethod:
			return fk.Constness, nil
		case hir.FnClosure:
			return hir.NotConst, nil
		default:
			return hir.NotConst, Bug("classify", "unexpected fn kind %T", kind)
		}
	case SourcePromoted:
		return hir.NotConst, Bug("classify", "promoted value %s classified directly", src)
	default:
		return hir.NotConst, Bug("classify", "unknown source kind %s", src.Kind)
	}
}

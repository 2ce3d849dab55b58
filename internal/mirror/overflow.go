package mirror

import (
	"mirror/internal/hir"
	"mirror/internal/session"
)

// OverflowChecks decides whether a unit's arithmetic is overflow-checked.
// Any one of the following is enough: the unit carries the
// inherit_overflow_checks attribute, the session forces checks (or leaves
// them to debug assertions, which are on), or the unit is const.
func OverflowChecks(attrs []hir.Attr, opts session.Options, constness hir.Constness) bool {
	inherit := hir.HasAttr(attrs, hir.AttrInheritOverflowChecks)
	sessionWide := opts.OverflowChecks()
	isConst := constness == hir.Const
	return inherit || sessionWide || isConst
}

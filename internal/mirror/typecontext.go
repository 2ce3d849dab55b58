package mirror

import (
	"mirror/internal/consteval"
	"mirror/internal/depgraph"
	"mirror/internal/hir"
	"mirror/internal/layout"
	"mirror/internal/session"
	"mirror/internal/source"
	"mirror/internal/symbols"
	"mirror/internal/types"
)

// TypeContext is the shared, already-solved view of the program that a Cx
// consults. One TypeContext value serves one unit (it carries that unit's
// parameter environment); the tables behind it are shared and must be safe
// for concurrent use by many units.
type TypeContext interface {
	Builtins() types.Builtins
	TypeOf(id types.TypeID) (types.Type, bool)
	TypeLabel(id types.TypeID) string
	TupleElems(id types.TypeID) ([]types.TypeID, bool)
	AdtOf(id types.TypeID) (*types.AdtDef, []types.TypeID, bool)
	FieldType(adt types.TypeID, variant, field int) (types.TypeID, bool)
	HasInfer(id types.TypeID) bool
	// Subst instantiates ty; it may intern new types.
	Subst(ty types.TypeID, s *types.Substs) types.TypeID

	FnLike(node hir.NodeID) (hir.FnKind, bool)
	DefOf(node hir.NodeID) (symbols.SymbolID, bool)
	Attrs(node hir.NodeID) []hir.Attr

	Symbol(def symbols.SymbolID) (symbols.Symbol, bool)
	SymbolName(def symbols.SymbolID) string
	TraitItems(trait symbols.SymbolID) []symbols.TraitItem
	Lang(item symbols.LangItem) (symbols.SymbolID, bool)
	ItemType(def symbols.SymbolID) types.TypeID

	// NeedsDrop answers under the unit's parameter environment. ty must be
	// free of inference variables.
	NeedsDrop(ty types.TypeID) bool

	ConstEval(e *hir.Expr) (consteval.Value, error)
	ConstBody(def symbols.SymbolID) (*hir.Expr, bool)

	ReadDep(node depgraph.Node)
	Target() layout.Target
	Options() session.Options
	Strings() *source.Interner
}

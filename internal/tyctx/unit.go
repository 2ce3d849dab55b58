package tyctx

import (
	"sync"

	"mirror/internal/consteval"
	"mirror/internal/depgraph"
	"mirror/internal/hir"
	"mirror/internal/layout"
	"mirror/internal/mirror"
	"mirror/internal/session"
	"mirror/internal/source"
	"mirror/internal/symbols"
	"mirror/internal/types"
)

var (
	_ mirror.TypeContext = (*Unit)(nil)
	_ consteval.Env      = (*Unit)(nil)
)

// Unit is the per-unit type context. It must not be shared between
// goroutines; the Global behind it may be.
type Unit struct {
	g          *Global
	name       string
	copyParams map[types.TypeID]bool

	evalOnce sync.Once
	eval     *consteval.Evaluator
}

// Name is the unit name recorded in the dependency log.
func (u *Unit) Name() string { return u.name }

func (u *Unit) Builtins() types.Builtins {
	u.g.mu.RLock()
	defer u.g.mu.RUnlock()
	return u.g.types.Builtins()
}

func (u *Unit) TypeOf(id types.TypeID) (types.Type, bool) {
	u.g.mu.RLock()
	defer u.g.mu.RUnlock()
	return u.g.types.Lookup(id)
}

func (u *Unit) TypeLabel(id types.TypeID) string {
	return u.g.TypeLabel(id)
}

func (u *Unit) TupleElems(id types.TypeID) ([]types.TypeID, bool) {
	u.g.mu.RLock()
	defer u.g.mu.RUnlock()
	info, ok := u.g.types.TupleInfo(id)
	if !ok {
		return nil, false
	}
	return append([]types.TypeID(nil), info.Elems...), true
}

func (u *Unit) AdtOf(id types.TypeID) (*types.AdtDef, []types.TypeID, bool) {
	u.g.mu.RLock()
	defer u.g.mu.RUnlock()
	def, args, ok := u.g.types.AdtOf(id)
	if !ok {
		return nil, nil, false
	}
	return def, append([]types.TypeID(nil), args...), true
}

func (u *Unit) FieldType(adt types.TypeID, variant, field int) (types.TypeID, bool) {
	u.g.mu.Lock()
	defer u.g.mu.Unlock()
	return u.g.types.FieldType(adt, variant, field)
}

func (u *Unit) HasInfer(id types.TypeID) bool {
	u.g.mu.RLock()
	defer u.g.mu.RUnlock()
	return u.g.types.HasInfer(id)
}

func (u *Unit) Subst(ty types.TypeID, s *types.Substs) types.TypeID {
	u.g.mu.Lock()
	defer u.g.mu.Unlock()
	return u.g.types.Subst(ty, s)
}

func (u *Unit) FnLike(node hir.NodeID) (hir.FnKind, bool) {
	return u.g.nodes.FnLike(node)
}

func (u *Unit) DefOf(node hir.NodeID) (symbols.SymbolID, bool) {
	return u.g.nodes.DefOf(node)
}

func (u *Unit) Attrs(node hir.NodeID) []hir.Attr {
	return u.g.nodes.Attrs(node)
}

func (u *Unit) Symbol(def symbols.SymbolID) (symbols.Symbol, bool) {
	sym := u.g.symbols.Get(def)
	if sym == nil {
		return symbols.Symbol{}, false
	}
	return *sym, true
}

func (u *Unit) SymbolName(def symbols.SymbolID) string {
	return u.g.symbols.Name(def)
}

func (u *Unit) TraitItems(trait symbols.SymbolID) []symbols.TraitItem {
	return u.g.symbols.TraitItems(trait)
}

func (u *Unit) Lang(item symbols.LangItem) (symbols.SymbolID, bool) {
	return u.g.symbols.Lang(item)
}

func (u *Unit) ItemType(def symbols.SymbolID) types.TypeID {
	sym := u.g.symbols.Get(def)
	if sym == nil {
		return types.NoTypeID
	}
	return sym.Type
}

// NeedsDrop reports whether ty needs drop glue under this unit's parameter
// environment.
func (u *Unit) NeedsDrop(ty types.TypeID) bool {
	// Field types of generic ADTs are substituted, which may intern.
	u.g.mu.Lock()
	defer u.g.mu.Unlock()
	return needsDrop(u.g.types, ty, u.copyParams, make(map[types.TypeID]bool))
}

func (u *Unit) evaluator() *consteval.Evaluator {
	u.evalOnce.Do(func() {
		u.eval = consteval.New(u)
	})
	return u.eval
}

func (u *Unit) ConstEval(e *hir.Expr) (consteval.Value, error) {
	return u.evaluator().Eval(e)
}

func (u *Unit) ConstBody(def symbols.SymbolID) (*hir.Expr, bool) {
	item, ok := u.g.nodes.ConstItem(def)
	if !ok || item.Const == nil || item.Const.Value == nil {
		return nil, false
	}
	return item.Const.Value, true
}

func (u *Unit) ReadDep(node depgraph.Node) {
	u.g.deps.Record(u.name, node)
}

func (u *Unit) Target() layout.Target     { return u.g.target }
func (u *Unit) Options() session.Options  { return u.g.opts }
func (u *Unit) Strings() *source.Interner { return u.g.strings }

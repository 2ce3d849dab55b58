package hir

import "mirror/internal/symbols"

// Map indexes the item-like nodes of a module by NodeID. It answers the
// questions lowering asks about the unit it is building: what kind of
// function a node is, which attributes it carries, which definition it is.
type Map struct {
	items   map[NodeID]*Item
	methods map[NodeID]*Func
	consts  map[symbols.SymbolID]*Item
}

// NewMap indexes m.
func NewMap(m *Module) *Map {
	hm := &Map{
		items:   make(map[NodeID]*Item),
		methods: make(map[NodeID]*Func),
		consts:  make(map[symbols.SymbolID]*Item),
	}
	if m == nil {
		return hm
	}
	for _, it := range m.Items {
		hm.items[it.ID] = it
		switch it.Kind {
		case ItemImpl:
			if it.Impl == nil {
				continue
			}
			for _, fn := range it.Impl.Methods {
				hm.methods[fn.ID] = fn
			}
		case ItemConst, ItemStatic:
			if it.SymbolID.IsValid() {
				hm.consts[it.SymbolID] = it
			}
		}
	}
	return hm
}

// Item returns the top-level item with the given id.
func (m *Map) Item(id NodeID) (*Item, bool) {
	it, ok := m.items[id]
	return it, ok
}

// Func returns the free function or method with the given id.
func (m *Map) Func(id NodeID) (*Func, bool) {
	if fn, ok := m.methods[id]; ok {
		return fn, true
	}
	if it, ok := m.items[id]; ok && it.Kind == ItemFn && it.Fn != nil {
		return it.Fn, true
	}
	return nil, false
}

// FnLike classifies a node as a function-like thing. Nodes that are not
// functions at all report false.
func (m *Map) FnLike(id NodeID) (FnKind, bool) {
	if fn, ok := m.methods[id]; ok {
		return FnMethod{Name: fn.Name, Owner: fn.Owner, Constness: fn.Constness}, true
	}
	it, ok := m.items[id]
	if !ok || it.Kind != ItemFn || it.Fn == nil {
		return nil, false
	}
	return FnItem{Name: it.Fn.Name, Constness: it.Fn.Constness}, true
}

// Attrs returns the attributes attached to a node.
func (m *Map) Attrs(id NodeID) []Attr {
	if fn, ok := m.methods[id]; ok {
		return fn.Attrs
	}
	if it, ok := m.items[id]; ok {
		return it.Attrs
	}
	return nil
}

// DefOf returns the definition a node declares.
func (m *Map) DefOf(id NodeID) (symbols.SymbolID, bool) {
	if fn, ok := m.methods[id]; ok {
		return fn.SymbolID, fn.SymbolID.IsValid()
	}
	if it, ok := m.items[id]; ok {
		return it.SymbolID, it.SymbolID.IsValid()
	}
	return symbols.NoSymbolID, false
}

// ConstItem returns the const or static item that defines sym.
func (m *Map) ConstItem(sym symbols.SymbolID) (*Item, bool) {
	it, ok := m.consts[sym]
	return it, ok
}

package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"mirror/internal/source"
)

// Table is the arena of definitions produced by resolution.
type Table struct {
	Strings *source.Interner
	syms    []Symbol
	lang    map[LangItem]SymbolID
}

// NewTable builds an empty table. If strings is nil, a fresh interner is
// allocated.
func NewTable(strings *source.Interner) *Table {
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Table{
		Strings: strings,
		syms:    make([]Symbol, 1, 64), // slot 0 is NoSymbolID
		lang:    make(map[LangItem]SymbolID),
	}
}

// Add appends a symbol and returns its id.
func (t *Table) Add(sym Symbol) SymbolID {
	n, err := safecast.Conv[uint32](len(t.syms))
	if err != nil {
		panic(fmt.Errorf("symbol arena overflow: %w", err))
	}
	t.syms = append(t.syms, sym)
	if sym.Kind == SymbolTrait && sym.Lang != LangNone {
		t.lang[sym.Lang] = SymbolID(n)
	}
	return SymbolID(n)
}

// Get returns the symbol for id, or nil.
func (t *Table) Get(id SymbolID) *Symbol {
	if !id.IsValid() || int(id) >= len(t.syms) {
		return nil
	}
	return &t.syms[id]
}

// Len returns the number of symbols, excluding the sentinel.
func (t *Table) Len() int {
	return len(t.syms) - 1
}

// AddTraitItem appends a member to a trait, preserving declaration order.
func (t *Table) AddTraitItem(trait SymbolID, item TraitItem) {
	sym := t.Get(trait)
	if sym == nil || sym.Kind != SymbolTrait {
		return
	}
	sym.Items = append(sym.Items, item)
}

// TraitItems returns the members of a trait in declaration order.
func (t *Table) TraitItems(trait SymbolID) []TraitItem {
	sym := t.Get(trait)
	if sym == nil || sym.Kind != SymbolTrait {
		return nil
	}
	return sym.Items
}

// Lang returns the trait registered for a lang item.
func (t *Table) Lang(item LangItem) (SymbolID, bool) {
	id, ok := t.lang[item]
	return id, ok
}

// Name resolves the symbol's name.
func (t *Table) Name(id SymbolID) string {
	sym := t.Get(id)
	if sym == nil || t.Strings == nil {
		return ""
	}
	name, _ := t.Strings.Lookup(sym.Name)
	return name
}

package symbols

import "testing"

func TestTraitItemsKeepDeclarationOrder(t *testing.T) {
	tbl := NewTable(nil)
	add := tbl.Add(Symbol{Name: tbl.Strings.Intern("Add"), Kind: SymbolTrait, Lang: LangAdd})

	names := []string{"Output", "ZERO", "add"}
	kinds := []TraitItemKind{TraitItemType, TraitItemConst, TraitItemMethod}
	for i, n := range names {
		item := tbl.Add(Symbol{Name: tbl.Strings.Intern(n), Kind: SymbolMethod, Owner: add})
		tbl.AddTraitItem(add, TraitItem{Kind: kinds[i], Name: tbl.Strings.Intern(n), Sym: item})
	}

	items := tbl.TraitItems(add)
	if len(items) != len(names) {
		t.Fatalf("expected %d items, got %d", len(names), len(items))
	}
	for i, it := range items {
		if got := tbl.Strings.MustLookup(it.Name); got != names[i] || it.Kind != kinds[i] {
			t.Errorf("item %d = %s %q, want %s %q", i, it.Kind, got, kinds[i], names[i])
		}
	}

	if id, ok := tbl.Lang(LangAdd); !ok || id != add {
		t.Fatalf("lang item add not registered")
	}
	if tbl.Name(add) != "Add" {
		t.Fatalf("Name(add) = %q", tbl.Name(add))
	}
	if tbl.Get(NoSymbolID) != nil {
		t.Fatalf("NoSymbolID must not resolve")
	}
}

func TestParseLang(t *testing.T) {
	for _, l := range []LangItem{LangAdd, LangSub, LangMul, LangDiv, LangRem, LangNeg, LangNot, LangEq, LangOrd, LangBitAnd, LangBitOr, LangBitXor} {
		got, ok := ParseLang(l.String())
		if !ok || got != l {
			t.Errorf("ParseLang(%q) = %v,%v", l.String(), got, ok)
		}
	}
	if _, ok := ParseLang("deref"); ok {
		t.Error("unknown lang item accepted")
	}
}

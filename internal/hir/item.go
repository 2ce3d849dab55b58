package hir

import (
	"mirror/internal/source"
	"mirror/internal/symbols"
	"mirror/internal/types"
)

// ItemKind enumerates top-level items.
type ItemKind uint8

const (
	ItemFn ItemKind = iota
	ItemConst
	ItemStatic
	ItemTrait
	ItemImpl
	ItemType
)

func (k ItemKind) String() string {
	switch k {
	case ItemFn:
		return "fn"
	case ItemConst:
		return "const"
	case ItemStatic:
		return "static"
	case ItemTrait:
		return "trait"
	case ItemImpl:
		return "impl"
	case ItemType:
		return "type"
	default:
		return "?"
	}
}

// ConstDecl is the body of a const or static item.
type ConstDecl struct {
	Type    types.TypeID
	Value   *Expr
	Mutable bool // static mut
}

// Impl is an impl block of a trait for a self type.
type Impl struct {
	Trait   symbols.SymbolID
	Self    types.TypeID
	Methods []*Func
}

// Item is a top-level declaration.
type Item struct {
	ID       NodeID
	Kind     ItemKind
	Name     string
	SymbolID symbols.SymbolID
	Span     source.Span
	Attrs    []Attr

	Fn    *Func      // ItemFn
	Const *ConstDecl // ItemConst, ItemStatic
	Impl  *Impl      // ItemImpl
}

// Module is a type-checked compilation input.
type Module struct {
	Name  string
	Items []*Item
}

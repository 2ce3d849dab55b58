package symbols

import (
	"mirror/internal/source"
	"mirror/internal/types"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolFunction
	SymbolMethod
	SymbolTrait
	SymbolImpl
	SymbolConst
	SymbolStatic
	SymbolType
	SymbolAssocConst
	SymbolAssocType
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolFunction:
		return "function"
	case SymbolMethod:
		return "method"
	case SymbolTrait:
		return "trait"
	case SymbolImpl:
		return "impl"
	case SymbolConst:
		return "const"
	case SymbolStatic:
		return "static"
	case SymbolType:
		return "type"
	case SymbolAssocConst:
		return "assoc const"
	case SymbolAssocType:
		return "assoc type"
	default:
		return "invalid"
	}
}

// SymbolFlags encode misc attributes for quick checks.
type SymbolFlags uint16

const (
	SymbolFlagPublic SymbolFlags = 1 << iota
	SymbolFlagConstFn
	SymbolFlagHasBody
)

// Strings returns a slice of textual flag labels.
func (f SymbolFlags) Strings() []string {
	if f == 0 {
		return nil
	}
	labels := make([]string, 0, 3)
	if f&SymbolFlagPublic != 0 {
		labels = append(labels, "public")
	}
	if f&SymbolFlagConstFn != 0 {
		labels = append(labels, "const")
	}
	if f&SymbolFlagHasBody != 0 {
		labels = append(labels, "body")
	}
	return labels
}

// TraitItemKind tags the members of a trait.
type TraitItemKind uint8

const (
	TraitItemMethod TraitItemKind = iota
	TraitItemConst
	TraitItemType
)

func (k TraitItemKind) String() string {
	switch k {
	case TraitItemMethod:
		return "method"
	case TraitItemConst:
		return "const"
	case TraitItemType:
		return "type"
	default:
		return "?"
	}
}

// TraitItem is one member of a trait, kept in declaration order.
type TraitItem struct {
	Kind TraitItemKind
	Name source.StringID
	Sym  SymbolID
}

// Symbol describes one definition.
type Symbol struct {
	Name     source.StringID
	Kind     SymbolKind
	Owner    SymbolID     // trait or impl for methods and associated items
	Type     types.TypeID // fn type for functions/methods, value type for consts/statics, the ADT for types
	Span     source.Span
	Flags    SymbolFlags
	Generics []types.TypeID // generic parameters, in order
	Items    []TraitItem    // traits only
	Lang     LangItem       // traits only
}

package mirror

import (
	"mirror/internal/consteval"
	"mirror/internal/symbols"
	"mirror/internal/types"
)

// Literal is a compile-time known operand: either a value or a reference to
// an item instantiated with a substitution list.
type Literal interface {
	literal()
}

// LiteralValue is a constant value.
type LiteralValue struct {
	Value consteval.Value
}

// LiteralItem names a definition, such as a function or a trait method,
// together with its type arguments.
type LiteralItem struct {
	Def    symbols.SymbolID
	Substs *types.Substs
}

func (LiteralValue) literal() {}
func (LiteralItem) literal()  {}

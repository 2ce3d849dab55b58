package symbols

// SymbolID identifies a definition inside the symbol table. It is the
// definition id used by lowering: literals that name a resolved function or
// method carry a SymbolID.
type SymbolID uint32

const (
	// NoSymbolID marks the absence of a symbol reference.
	NoSymbolID SymbolID = 0
)

// IsValid reports whether the symbol ID refers to an allocated symbol.
func (id SymbolID) IsValid() bool { return id != NoSymbolID }

package hir

import (
	"mirror/internal/source"
	"mirror/internal/symbols"
	"mirror/internal/types"
)

// ExprKind enumerates typed-tree expression kinds.
type ExprKind uint8

const (
	// ExprLiteral represents literals (int, bool, string, unit).
	ExprLiteral ExprKind = iota
	// ExprLocal references a local variable or parameter.
	ExprLocal
	// ExprConstRef references a named constant or static.
	ExprConstRef
	ExprUnary
	ExprBinary
	// ExprCall calls a free function by symbol.
	ExprCall
	// ExprCtor constructs a variant of an ADT.
	ExprCtor
	// ExprField reads a positional field of a tuple or struct.
	ExprField
	ExprTuple
	ExprIf
	ExprBlock
	ExprMatch
)

// String returns a human-readable name for the expression kind.
func (k ExprKind) String() string {
	switch k {
	case ExprLiteral:
		return "Literal"
	case ExprLocal:
		return "Local"
	case ExprConstRef:
		return "ConstRef"
	case ExprUnary:
		return "Unary"
	case ExprBinary:
		return "Binary"
	case ExprCall:
		return "Call"
	case ExprCtor:
		return "Ctor"
	case ExprField:
		return "Field"
	case ExprTuple:
		return "Tuple"
	case ExprIf:
		return "If"
	case ExprBlock:
		return "Block"
	case ExprMatch:
		return "Match"
	default:
		return "Unknown"
	}
}

// Expr is a typed expression.
type Expr struct {
	ID   NodeID
	Kind ExprKind
	Type types.TypeID // always filled by type checking
	Span source.Span
	Data ExprData
}

// ExprData is the kind-specific payload of an expression.
type ExprData interface {
	exprData()
}

// LiteralKind enumerates literal value kinds.
type LiteralKind uint8

const (
	LiteralInt LiteralKind = iota
	LiteralBool
	LiteralString
	LiteralUnit
)

// LiteralData holds data for ExprLiteral. Integer literals hold their
// magnitude; a negative source literal is a unary minus around it.
type LiteralData struct {
	Kind   LiteralKind
	Int    uint64
	Bool   bool
	String source.StringID
}

// LocalData holds data for ExprLocal.
type LocalData struct {
	Local LocalID
	Name  string
}

// ConstRefData holds data for ExprConstRef.
type ConstRefData struct {
	Symbol symbols.SymbolID
}

// UnaryData holds data for ExprUnary.
type UnaryData struct {
	Op      UnaryOp
	Operand *Expr
}

// BinaryData holds data for ExprBinary.
type BinaryData struct {
	Op  BinaryOp
	LHS *Expr
	RHS *Expr
}

// CallData holds data for ExprCall. TypeArgs instantiates the callee's
// generic parameters in declaration order; it is empty for non-generic
// callees.
type CallData struct {
	Callee   symbols.SymbolID
	TypeArgs []types.TypeID
	Args     []*Expr
}

// CtorData holds data for ExprCtor. Args are positional, one per field of
// the variant.
type CtorData struct {
	Variant int
	Args    []*Expr
}

// FieldData holds data for ExprField.
type FieldData struct {
	Base  *Expr
	Index int
}

// TupleData holds data for ExprTuple.
type TupleData struct {
	Elems []*Expr
}

// IfData holds data for ExprIf. Else may be nil when the if has unit type.
type IfData struct {
	Cond *Expr
	Then *Expr
	Else *Expr
}

// BlockData holds data for ExprBlock.
type BlockData struct {
	Block *Block
}

// MatchArm is one arm of a match.
type MatchArm struct {
	Pattern *Pattern
	Body    *Expr
}

// MatchData holds data for ExprMatch.
type MatchData struct {
	Scrutinee *Expr
	Arms      []MatchArm
}

func (LiteralData) exprData()  {}
func (LocalData) exprData()    {}
func (ConstRefData) exprData() {}
func (UnaryData) exprData()    {}
func (BinaryData) exprData()   {}
func (CallData) exprData()     {}
func (CtorData) exprData()     {}
func (FieldData) exprData()    {}
func (TupleData) exprData()    {}
func (IfData) exprData()       {}
func (BlockData) exprData()    {}
func (MatchData) exprData()    {}

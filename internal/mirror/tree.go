package mirror

import (
	"mirror/internal/hir"
	"mirror/internal/source"
	"mirror/internal/symbols"
	"mirror/internal/types"
)

// ExprKind enumerates mirror-tree expression kinds.
type ExprKind uint8

const (
	ExprLiteral ExprKind = iota
	ExprVar
	ExprStatic
	ExprUnary
	ExprBinary
	ExprLogical
	ExprCall
	ExprAdt
	ExprField
	ExprTuple
	ExprIf
	ExprBlock
	ExprMatch
)

func (k ExprKind) String() string {
	switch k {
	case ExprLiteral:
		return "Literal"
	case ExprVar:
		return "Var"
	case ExprStatic:
		return "Static"
	case ExprUnary:
		return "Unary"
	case ExprBinary:
		return "Binary"
	case ExprLogical:
		return "Logical"
	case ExprCall:
		return "Call"
	case ExprAdt:
		return "Adt"
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

// Expr is a mirror-tree expression. Data holds the kind-specific payload.
type Expr struct {
	Kind ExprKind
	Type types.TypeID
	Span source.Span
	Data ExprData
}

// ExprData is the payload of a mirror expression.
type ExprData interface {
	exprData()
}

type LiteralExpr struct {
	Literal Literal
}

type VarExpr struct {
	Local hir.LocalID
	Name  string
}

// StaticExpr refers to a static by place; its value is read at run time.
type StaticExpr struct {
	Def symbols.SymbolID
}

// UnaryExpr is a builtin unary operator on a primitive operand. Checked is
// set for negation of signed integers in overflow-checked units.
type UnaryExpr struct {
	Op      hir.UnaryOp
	Arg     *Expr
	Checked bool
}

// BinaryExpr is a builtin binary operator on primitive operands.
type BinaryExpr struct {
	Op  hir.BinaryOp
	LHS *Expr
	RHS *Expr
	// Checked requests an overflow assertion (+ - * in checked units).
	Checked bool
	// AssertNonZero requests a divisor-is-zero assertion (/ and %).
	AssertNonZero bool
}

// LogicalExpr is a short-circuiting && or ||.
type LogicalExpr struct {
	Op  hir.BinaryOp
	LHS *Expr
	RHS *Expr
}

// CallExpr calls Fn, which is always a literal item. Overloaded marks calls
// produced from operators on non-primitive operands.
type CallExpr struct {
	Fn         *Expr
	Args       []*Expr
	Overloaded bool
}

// FieldExpr is one initializer of an ADT constructor.
type FieldExpr struct {
	Field Field
	Value *Expr
}

type AdtExpr struct {
	Adt     *types.AdtDef
	Variant int
	Args    []types.TypeID
	Fields  []FieldExpr
}

type FieldAccessExpr struct {
	Base  *Expr
	Field Field
}

type TupleExpr struct {
	Fields []*Expr
}

type IfExpr struct {
	Cond *Expr
	Then *Expr
	Else *Expr // nil when absent
}

type BlockExpr struct {
	Block *Block
}

// Arm is one arm of a match.
type Arm struct {
	Pattern *Pattern
	Body    *Expr
}

type MatchExpr struct {
	Scrutinee *Expr
	Arms      []Arm
}

func (LiteralExpr) exprData()     {}
func (VarExpr) exprData()         {}
func (StaticExpr) exprData()      {}
func (UnaryExpr) exprData()       {}
func (BinaryExpr) exprData()      {}
func (LogicalExpr) exprData()     {}
func (CallExpr) exprData()        {}
func (AdtExpr) exprData()         {}
func (FieldAccessExpr) exprData() {}
func (TupleExpr) exprData()       {}
func (IfExpr) exprData()          {}
func (BlockExpr) exprData()       {}
func (MatchExpr) exprData()       {}

// Block is a lowered block. Drops lists the locals bound in the block that
// need drop glue, in the order they are dropped on scope exit.
type Block struct {
	Span  source.Span
	Stmts []*Stmt
	Tail  *Expr
	Drops []Drop
}

// Drop schedules drop glue for a local at scope exit.
type Drop struct {
	Local hir.LocalID
	Name  string
	Type  types.TypeID
}

type StmtKind uint8

const (
	StmtLet StmtKind = iota
	StmtExpr
)

// Stmt is a lowered statement.
type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Pattern *Pattern // StmtLet
	Init    *Expr    // StmtLet (may be nil) or StmtExpr
}

// PatternKind enumerates mirror pattern kinds.
type PatternKind uint8

const (
	PatWild PatternKind = iota
	PatBinding
	PatConstant
	// PatLeaf destructures a value with a single shape: a tuple or a
	// single-variant ADT.
	PatLeaf
	// PatVariant tests the variant of a multi-variant ADT.
	PatVariant
)

func (k PatternKind) String() string {
	switch k {
	case PatWild:
		return "Wild"
	case PatBinding:
		return "Binding"
	case PatConstant:
		return "Constant"
	case PatLeaf:
		return "Leaf"
	case PatVariant:
		return "Variant"
	default:
		return "Unknown"
	}
}

// FieldPattern matches one field of a leaf or variant pattern.
type FieldPattern struct {
	Field   Field
	Pattern *Pattern
}

// Pattern is a lowered pattern.
type Pattern struct {
	Kind PatternKind
	Type types.TypeID
	Span source.Span

	Local hir.LocalID // PatBinding
	Name  string      // PatBinding

	Value Literal // PatConstant

	Adt     *types.AdtDef // PatVariant, and PatLeaf over an ADT
	Variant int           // PatVariant
	Fields  []FieldPattern
}

package hir

import "mirror/internal/symbols"

// BinaryOp enumerates binary operators after type checking.
type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpRem
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd // short-circuit &&
	OpOr  // short-circuit ||
	OpBitAnd
	OpBitOr
	OpBitXor
)

var binaryOpNames = [...]string{
	OpAdd:    "+",
	OpSub:    "-",
	OpMul:    "*",
	OpDiv:    "/",
	OpRem:    "%",
	OpEq:     "==",
	OpNe:     "!=",
	OpLt:     "<",
	OpLe:     "<=",
	OpGt:     ">",
	OpGe:     ">=",
	OpAnd:    "&&",
	OpOr:     "||",
	OpBitAnd: "&",
	OpBitOr:  "|",
	OpBitXor: "^",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return "?"
}

// ParseBinaryOp maps an operator token to a BinaryOp.
func ParseBinaryOp(tok string) (BinaryOp, bool) {
	for i, name := range binaryOpNames {
		if name == tok {
			return BinaryOp(i), true
		}
	}
	return 0, false
}

// IsArith reports + - * / %.
func (op BinaryOp) IsArith() bool {
	return op <= OpRem
}

// IsComparison reports == != < <= > >=.
func (op BinaryOp) IsComparison() bool {
	return op >= OpEq && op <= OpGe
}

// IsLogical reports the short-circuit operators.
func (op BinaryOp) IsLogical() bool {
	return op == OpAnd || op == OpOr
}

type overload struct {
	lang   symbols.LangItem
	method string
}

var binaryOverloads = [...]overload{
	OpAdd:    {symbols.LangAdd, "add"},
	OpSub:    {symbols.LangSub, "sub"},
	OpMul:    {symbols.LangMul, "mul"},
	OpDiv:    {symbols.LangDiv, "div"},
	OpRem:    {symbols.LangRem, "rem"},
	OpEq:     {symbols.LangEq, "eq"},
	OpNe:     {symbols.LangEq, "ne"},
	OpLt:     {symbols.LangOrd, "lt"},
	OpLe:     {symbols.LangOrd, "le"},
	OpGt:     {symbols.LangOrd, "gt"},
	OpGe:     {symbols.LangOrd, "ge"},
	OpBitAnd: {symbols.LangBitAnd, "bitand"},
	OpBitOr:  {symbols.LangBitOr, "bitor"},
	OpBitXor: {symbols.LangBitXor, "bitxor"},
}

// Overload returns the lang trait and method that implement op on
// non-primitive operands. The short-circuit operators have none.
func (op BinaryOp) Overload() (symbols.LangItem, string, bool) {
	if int(op) >= len(binaryOverloads) || binaryOverloads[op].lang == symbols.LangNone {
		return symbols.LangNone, "", false
	}
	o := binaryOverloads[op]
	return o.lang, o.method, true
}

// UnaryOp enumerates unary operators.
type UnaryOp uint8

const (
	OpNeg UnaryOp = iota
	OpNot
)

func (op UnaryOp) String() string {
	if op == OpNot {
		return "!"
	}
	return "-"
}

// Overload returns the lang trait and method that implement op on a
// non-primitive operand.
func (op UnaryOp) Overload() (symbols.LangItem, string) {
	if op == OpNot {
		return symbols.LangNot, "not"
	}
	return symbols.LangNeg, "neg"
}

// ParseUnaryOp maps an operator token to a UnaryOp.
func ParseUnaryOp(tok string) (UnaryOp, bool) {
	switch tok {
	case "-":
		return OpNeg, true
	case "!":
		return OpNot, true
	}
	return 0, false
}

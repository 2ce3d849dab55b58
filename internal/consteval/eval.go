package consteval

import (
	"math/big"
	"strconv"

	"mirror/internal/diag"
	"mirror/internal/hir"
	"mirror/internal/layout"
	"mirror/internal/source"
	"mirror/internal/symbols"
	"mirror/internal/types"
)

// Env is what the evaluator needs to know about the surrounding program.
type Env interface {
	TypeOf(id types.TypeID) (types.Type, bool)
	ConstBody(def symbols.SymbolID) (*hir.Expr, bool)
	SymbolName(def symbols.SymbolID) string
	Target() layout.Target
}

type evalState uint8

const (
	stateUnvisited evalState = iota
	stateVisiting
	stateDone
)

// Evaluator folds typed constant expressions. Named constants are memoised
// per evaluator; an Evaluator is not safe for concurrent use.
type Evaluator struct {
	env    Env
	state  map[symbols.SymbolID]evalState
	values map[symbols.SymbolID]Value
}

// New returns an evaluator over env.
func New(env Env) *Evaluator {
	return &Evaluator{
		env:    env,
		state:  make(map[symbols.SymbolID]evalState),
		values: make(map[symbols.SymbolID]Value),
	}
}

// Eval evaluates e. Failures are always *Error.
func (ev *Evaluator) Eval(e *hir.Expr) (Value, error) {
	v, err := ev.eval(e, nil)
	if err != nil {
		return Value{}, err
	}
	return v, nil
}

// EvalItem evaluates the body of the named constant or static.
func (ev *Evaluator) EvalItem(def symbols.SymbolID) (Value, error) {
	v, err := ev.evalItem(def, hirSpanless)
	if err != nil {
		return Value{}, err
	}
	return v, nil
}

var hirSpanless = &hir.Expr{}

type scope map[hir.LocalID]Value

func (ev *Evaluator) evalItem(def symbols.SymbolID, at *hir.Expr) (Value, *Error) {
	switch ev.state[def] {
	case stateDone:
		return ev.values[def], nil
	case stateVisiting:
		return Value{}, errorf(diag.ConstCycle, at.Span, "cycle detected when evaluating constant `%s`", ev.env.SymbolName(def))
	}
	body, ok := ev.env.ConstBody(def)
	if !ok || body == nil {
		return Value{}, errorf(diag.ConstUnknownItem, at.Span, "`%s` has no constant value", ev.env.SymbolName(def))
	}
	ev.state[def] = stateVisiting
	v, err := ev.eval(body, nil)
	if err != nil {
		ev.state[def] = stateUnvisited
		return Value{}, err
	}
	ev.state[def] = stateDone
	ev.values[def] = v
	return v, nil
}

func (ev *Evaluator) eval(e *hir.Expr, locals scope) (Value, *Error) {
	if e == nil {
		return Value{}, errorf(diag.ConstNotConstant, source.Span{}, "missing constant expression")
	}
	switch data := e.Data.(type) {
	case hir.LiteralData:
		return ev.literal(e, data, false)
	case hir.LocalData:
		if v, ok := locals[data.Local]; ok {
			return v, nil
		}
		return Value{}, errorf(diag.ConstNotConstant, e.Span, "local `%s` is not a constant", data.Name)
	case hir.ConstRefData:
		return ev.evalItem(data.Symbol, e)
	case hir.UnaryData:
		return ev.unary(e, data, locals)
	case hir.BinaryData:
		return ev.binary(e, data, locals)
	case hir.IfData:
		cond, err := ev.eval(data.Cond, locals)
		if err != nil {
			return Value{}, err
		}
		if cond.Kind != KindBool {
			return Value{}, errorf(diag.ConstTypeMismatch, data.Cond.Span, "condition is %s, expected bool", cond.Kind)
		}
		if cond.Bool {
			return ev.eval(data.Then, locals)
		}
		if data.Else == nil {
			return UnitValue(e.Type), nil
		}
		return ev.eval(data.Else, locals)
	case hir.BlockData:
		return ev.block(e, data.Block, locals)
	case hir.CallData:
		return Value{}, errorf(diag.ConstNotConstant, e.Span, "calls in constants are not supported (calling `%s`)", ev.env.SymbolName(data.Callee))
	default:
		return Value{}, errorf(diag.ConstNotConstant, e.Span, "%s expression is not constant", e.Kind)
	}
}

func (ev *Evaluator) literal(e *hir.Expr, lit hir.LiteralData, negate bool) (Value, *Error) {
	switch lit.Kind {
	case hir.LiteralBool:
		return BoolValue(lit.Bool, e.Type), nil
	case hir.LiteralString:
		return StrValue(lit.String, e.Type), nil
	case hir.LiteralUnit:
		return UnitValue(e.Type), nil
	}
	signed, width, ok := ev.intType(e.Type)
	if !ok {
		return Value{}, errorf(diag.ConstTypeMismatch, e.Span, "integer literal has non-integer type")
	}
	n := new(big.Int).SetUint64(lit.Int)
	if negate {
		if !signed {
			return Value{}, errorf(diag.ConstTypeMismatch, e.Span, "cannot negate an unsigned integer")
		}
		n.Neg(n)
	}
	v, fits := fromBig(n, signed, width, e.Type)
	if !fits {
		return Value{}, errorf(diag.ConstOverflow, e.Span, "literal out of range for %s", intName(signed, width))
	}
	return v, nil
}

func (ev *Evaluator) unary(e *hir.Expr, data hir.UnaryData, locals scope) (Value, *Error) {
	if data.Op == hir.OpNeg && data.Operand != nil {
		// -128i8 is in range even though 128i8 is not.
		if lit, ok := data.Operand.Data.(hir.LiteralData); ok && lit.Kind == hir.LiteralInt {
			v, err := ev.literal(data.Operand, lit, true)
			if err != nil {
				err.Span = e.Span
				return Value{}, err
			}
			v.Type = e.Type
			return v, nil
		}
	}
	x, err := ev.eval(data.Operand, locals)
	if err != nil {
		return Value{}, err
	}
	switch data.Op {
	case hir.OpNot:
		switch x.Kind {
		case KindBool:
			return BoolValue(!x.Bool, e.Type), nil
		case KindInt:
			return IntValue(^x.Bits, x.Signed, x.Width, e.Type), nil
		}
	case hir.OpNeg:
		if x.Kind == KindInt {
			if !x.Signed {
				return Value{}, errorf(diag.ConstTypeMismatch, e.Span, "cannot negate an unsigned integer")
			}
			v, ok := fromBig(new(big.Int).Neg(x.Big()), true, x.Width, e.Type)
			if !ok {
				return Value{}, errorf(diag.ConstOverflow, e.Span, "attempt to negate with overflow")
			}
			return v, nil
		}
	}
	return Value{}, errorf(diag.ConstTypeMismatch, e.Span, "cannot apply `%s` to %s", data.Op, x.Kind)
}

func (ev *Evaluator) binary(e *hir.Expr, data hir.BinaryData, locals scope) (Value, *Error) {
	l, err := ev.eval(data.LHS, locals)
	if err != nil {
		return Value{}, err
	}
	if data.Op.IsLogical() {
		if l.Kind != KindBool {
			return Value{}, errorf(diag.ConstTypeMismatch, data.LHS.Span, "operand of `%s` is %s, expected bool", data.Op, l.Kind)
		}
		if (data.Op == hir.OpAnd && !l.Bool) || (data.Op == hir.OpOr && l.Bool) {
			return BoolValue(l.Bool, e.Type), nil
		}
		r, err := ev.eval(data.RHS, locals)
		if err != nil {
			return Value{}, err
		}
		if r.Kind != KindBool {
			return Value{}, errorf(diag.ConstTypeMismatch, data.RHS.Span, "operand of `%s` is %s, expected bool", data.Op, r.Kind)
		}
		return BoolValue(r.Bool, e.Type), nil
	}

	r, err := ev.eval(data.RHS, locals)
	if err != nil {
		return Value{}, err
	}
	if l.Kind != r.Kind || (l.Kind == KindInt && (l.Signed != r.Signed || l.Width != r.Width)) {
		return Value{}, errorf(diag.ConstTypeMismatch, e.Span, "mismatched operands for `%s`", data.Op)
	}

	switch l.Kind {
	case KindInt:
		return ev.intBinary(e, data.Op, l, r)
	case KindBool:
		a, b := boolBit(l.Bool), boolBit(r.Bool)
		switch data.Op {
		case hir.OpBitAnd:
			return BoolValue(l.Bool && r.Bool, e.Type), nil
		case hir.OpBitOr:
			return BoolValue(l.Bool || r.Bool, e.Type), nil
		case hir.OpBitXor:
			return BoolValue(l.Bool != r.Bool, e.Type), nil
		}
		if data.Op.IsComparison() {
			return BoolValue(compare(data.Op, big.NewInt(a).Cmp(big.NewInt(b))), e.Type), nil
		}
	case KindStr:
		switch data.Op {
		case hir.OpEq:
			return BoolValue(l.Str == r.Str, e.Type), nil
		case hir.OpNe:
			return BoolValue(l.Str != r.Str, e.Type), nil
		}
	case KindUnit:
		switch data.Op {
		case hir.OpEq, hir.OpLe, hir.OpGe:
			return BoolValue(true, e.Type), nil
		case hir.OpNe, hir.OpLt, hir.OpGt:
			return BoolValue(false, e.Type), nil
		}
	}
	return Value{}, errorf(diag.ConstTypeMismatch, e.Span, "cannot apply `%s` to %s", data.Op, l.Kind)
}

var overflowVerb = map[hir.BinaryOp]string{
	hir.OpAdd: "add",
	hir.OpSub: "subtract",
	hir.OpMul: "multiply",
	hir.OpDiv: "divide",
	hir.OpRem: "calculate the remainder",
}

func (ev *Evaluator) intBinary(e *hir.Expr, op hir.BinaryOp, l, r Value) (Value, *Error) {
	if op.IsComparison() {
		return BoolValue(compare(op, l.Big().Cmp(r.Big())), e.Type), nil
	}
	switch op {
	case hir.OpBitAnd:
		return IntValue(l.Bits&r.Bits, l.Signed, l.Width, e.Type), nil
	case hir.OpBitOr:
		return IntValue(l.Bits|r.Bits, l.Signed, l.Width, e.Type), nil
	case hir.OpBitXor:
		return IntValue(l.Bits^r.Bits, l.Signed, l.Width, e.Type), nil
	}

	a, b := l.Big(), r.Big()
	n := new(big.Int)
	switch op {
	case hir.OpAdd:
		n.Add(a, b)
	case hir.OpSub:
		n.Sub(a, b)
	case hir.OpMul:
		n.Mul(a, b)
	case hir.OpDiv, hir.OpRem:
		if b.Sign() == 0 {
			if op == hir.OpDiv {
				return Value{}, errorf(diag.ConstDivByZero, e.Span, "attempt to divide by zero")
			}
			return Value{}, errorf(diag.ConstDivByZero, e.Span, "attempt to calculate the remainder with a divisor of zero")
		}
		if op == hir.OpDiv {
			n.Quo(a, b)
		} else {
			// i8::MIN % -1 overflows just like the division does.
			q := new(big.Int).Quo(a, b)
			if _, ok := fromBig(q, l.Signed, l.Width, e.Type); !ok {
				return Value{}, errorf(diag.ConstOverflow, e.Span, "attempt to calculate the remainder with overflow")
			}
			n.Rem(a, b)
		}
	default:
		return Value{}, errorf(diag.ConstTypeMismatch, e.Span, "cannot apply `%s` to integers", op)
	}
	v, ok := fromBig(n, l.Signed, l.Width, e.Type)
	if !ok {
		return Value{}, errorf(diag.ConstOverflow, e.Span, "attempt to %s with overflow", overflowVerb[op])
	}
	return v, nil
}

func (ev *Evaluator) block(e *hir.Expr, b *hir.Block, outer scope) (Value, *Error) {
	if b == nil {
		return UnitValue(e.Type), nil
	}
	locals := make(scope, len(outer)+len(b.Stmts))
	for k, v := range outer {
		locals[k] = v
	}
	for _, st := range b.Stmts {
		if st == nil {
			continue
		}
		switch st.Kind {
		case hir.StmtLet:
			if st.Init == nil {
				return Value{}, errorf(diag.ConstNotConstant, st.Span, "uninitialized binding in constant")
			}
			v, err := ev.eval(st.Init, locals)
			if err != nil {
				return Value{}, err
			}
			if err := bind(st.Pattern, v, locals); err != nil {
				return Value{}, err
			}
		case hir.StmtExpr:
			if _, err := ev.eval(st.Init, locals); err != nil {
				return Value{}, err
			}
		}
	}
	if b.Tail == nil {
		return UnitValue(e.Type), nil
	}
	return ev.eval(b.Tail, locals)
}

func bind(p *hir.Pattern, v Value, locals scope) *Error {
	if p == nil {
		return nil
	}
	switch p.Kind {
	case hir.PatWild:
		return nil
	case hir.PatBinding:
		locals[p.Local] = v
		return nil
	default:
		return errorf(diag.ConstNotConstant, p.Span, "%s pattern is not supported in constants", p.Kind)
	}
}

func (ev *Evaluator) intType(id types.TypeID) (signed bool, width uint8, ok bool) {
	t, found := ev.env.TypeOf(id)
	if !found || !t.IsInteger() {
		return false, 0, false
	}
	w := uint8(t.Width)
	if t.Width == types.WidthAny {
		w = uint8(ev.env.Target().PtrBits())
	}
	return t.Kind == types.KindInt, w, true
}

func compare(op hir.BinaryOp, c int) bool {
	switch op {
	case hir.OpEq:
		return c == 0
	case hir.OpNe:
		return c != 0
	case hir.OpLt:
		return c < 0
	case hir.OpLe:
		return c <= 0
	case hir.OpGt:
		return c > 0
	case hir.OpGe:
		return c >= 0
	}
	return false
}

func boolBit(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func intName(signed bool, width uint8) string {
	prefix := "u"
	if signed {
		prefix = "i"
	}
	return prefix + strconv.Itoa(int(width))
}

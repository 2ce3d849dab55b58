package consteval

import (
	"errors"
	"testing"

	"mirror/internal/diag"
	"mirror/internal/hir"
	"mirror/internal/layout"
	"mirror/internal/symbols"
	"mirror/internal/types"
)

type testEnv struct {
	types  *types.Interner
	bodies map[symbols.SymbolID]*hir.Expr
	target layout.Target
}

func newTestEnv() *testEnv {
	return &testEnv{
		types:  types.NewInterner(),
		bodies: make(map[symbols.SymbolID]*hir.Expr),
		target: layout.Default(),
	}
}

func (e *testEnv) TypeOf(id types.TypeID) (types.Type, bool) { return e.types.Lookup(id) }
func (e *testEnv) ConstBody(def symbols.SymbolID) (*hir.Expr, bool) {
	b, ok := e.bodies[def]
	return b, ok
}
func (e *testEnv) SymbolName(def symbols.SymbolID) string { return "C" }
func (e *testEnv) Target() layout.Target                  { return e.target }

func intLit(ty types.TypeID, v uint64) *hir.Expr {
	return &hir.Expr{Kind: hir.ExprLiteral, Type: ty, Data: hir.LiteralData{Kind: hir.LiteralInt, Int: v}}
}

func boolLit(ty types.TypeID, b bool) *hir.Expr {
	return &hir.Expr{Kind: hir.ExprLiteral, Type: ty, Data: hir.LiteralData{Kind: hir.LiteralBool, Bool: b}}
}

func bin(op hir.BinaryOp, ty types.TypeID, l, r *hir.Expr) *hir.Expr {
	return &hir.Expr{Kind: hir.ExprBinary, Type: ty, Data: hir.BinaryData{Op: op, LHS: l, RHS: r}}
}

func neg(ty types.TypeID, x *hir.Expr) *hir.Expr {
	return &hir.Expr{Kind: hir.ExprUnary, Type: ty, Data: hir.UnaryData{Op: hir.OpNeg, Operand: x}}
}

func wantCode(t *testing.T, err error, code diag.Code) {
	t.Helper()
	var ce *Error
	if !errors.As(err, &ce) {
		t.Fatalf("expected *consteval.Error, got %v", err)
	}
	if ce.Code != code {
		t.Fatalf("expected %s, got %s (%s)", code.ID(), ce.Code.ID(), ce.Msg)
	}
}

func TestEvalArithmetic(t *testing.T) {
	env := newTestEnv()
	b := env.types.Builtins()
	ev := New(env)

	tests := []struct {
		name string
		expr *hir.Expr
		want int64
	}{
		{"add", bin(hir.OpAdd, b.U32, intLit(b.U32, 2), intLit(b.U32, 40)), 42},
		{"sub signed", bin(hir.OpSub, b.I32, intLit(b.I32, 2), intLit(b.I32, 5)), -3},
		{"mul", bin(hir.OpMul, b.U64, intLit(b.U64, 6), intLit(b.U64, 7)), 42},
		{"div truncates", bin(hir.OpDiv, b.I32, neg(b.I32, intLit(b.I32, 7)), intLit(b.I32, 2)), -3},
		{"rem sign of dividend", bin(hir.OpRem, b.I32, neg(b.I32, intLit(b.I32, 7)), intLit(b.I32, 2)), -1},
		{"min literal", neg(b.I8, intLit(b.I8, 128)), -128},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ev.Eval(tt.expr)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.Kind != KindInt || v.Int64() != tt.want {
				t.Fatalf("got %s, want %d", v, tt.want)
			}
		})
	}
}

func TestEvalErrors(t *testing.T) {
	env := newTestEnv()
	b := env.types.Builtins()
	ev := New(env)

	tests := []struct {
		name string
		expr *hir.Expr
		code diag.Code
	}{
		{"u8 overflow", bin(hir.OpAdd, b.U8, intLit(b.U8, 200), intLit(b.U8, 100)), diag.ConstOverflow},
		{"u32 underflow", bin(hir.OpSub, b.U32, intLit(b.U32, 0), intLit(b.U32, 1)), diag.ConstOverflow},
		{"literal too big", intLit(b.I8, 128), diag.ConstOverflow},
		{"div by zero", bin(hir.OpDiv, b.U32, intLit(b.U32, 1), intLit(b.U32, 0)), diag.ConstDivByZero},
		{"rem by zero", bin(hir.OpRem, b.I64, intLit(b.I64, 1), intLit(b.I64, 0)), diag.ConstDivByZero},
		{"min div -1", bin(hir.OpDiv, b.I8, neg(b.I8, intLit(b.I8, 128)), neg(b.I8, intLit(b.I8, 1))), diag.ConstOverflow},
		{"mismatch", bin(hir.OpAdd, b.U32, intLit(b.U32, 1), intLit(b.U8, 1)), diag.ConstTypeMismatch},
		{"local", &hir.Expr{Kind: hir.ExprLocal, Data: hir.LocalData{Local: 1, Name: "x"}}, diag.ConstNotConstant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ev.Eval(tt.expr)
			wantCode(t, err, tt.code)
		})
	}
}

func TestEvalUsizeFollowsTarget(t *testing.T) {
	env := newTestEnv()
	b := env.types.Builtins()
	big := bin(hir.OpMul, b.Usize, intLit(b.Usize, 1<<20), intLit(b.Usize, 1<<20))

	if _, err := New(env).Eval(big); err != nil {
		t.Fatalf("64-bit target: unexpected error %v", err)
	}
	env.target = layout.I686LinuxGNU()
	_, err := New(env).Eval(big)
	wantCode(t, err, diag.ConstOverflow)
}

func TestEvalLogicShortCircuits(t *testing.T) {
	env := newTestEnv()
	b := env.types.Builtins()
	// false && (1/0 == 0) never evaluates the division.
	div := bin(hir.OpEq, b.Bool, bin(hir.OpDiv, b.U32, intLit(b.U32, 1), intLit(b.U32, 0)), intLit(b.U32, 0))
	v, err := New(env).Eval(bin(hir.OpAnd, b.Bool, boolLit(b.Bool, false), div))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind != KindBool || v.Bool {
		t.Fatalf("expected false, got %s", v)
	}
}

func TestEvalConstRefsAndCycles(t *testing.T) {
	env := newTestEnv()
	b := env.types.Builtins()
	const a, c symbols.SymbolID = 1, 2
	ref := func(s symbols.SymbolID) *hir.Expr {
		return &hir.Expr{Kind: hir.ExprConstRef, Type: b.U32, Data: hir.ConstRefData{Symbol: s}}
	}
	env.bodies[a] = bin(hir.OpAdd, b.U32, intLit(b.U32, 1), intLit(b.U32, 2))
	env.bodies[c] = bin(hir.OpMul, b.U32, ref(a), ref(a))

	v, err := New(env).Eval(ref(c))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Uint64() != 9 {
		t.Fatalf("expected 9, got %s", v)
	}

	env.bodies[a] = ref(c)
	_, err = New(env).Eval(ref(c))
	wantCode(t, err, diag.ConstCycle)
}

func TestEvalBlockWithLet(t *testing.T) {
	env := newTestEnv()
	b := env.types.Builtins()
	x := &hir.Pattern{Kind: hir.PatBinding, Local: 7, Name: "x", Type: b.U32}
	local := &hir.Expr{Kind: hir.ExprLocal, Type: b.U32, Data: hir.LocalData{Local: 7, Name: "x"}}
	block := &hir.Expr{Kind: hir.ExprBlock, Type: b.U32, Data: hir.BlockData{Block: &hir.Block{
		Stmts: []*hir.Stmt{{Kind: hir.StmtLet, Pattern: x, Init: intLit(b.U32, 5)}},
		Tail:  bin(hir.OpAdd, b.U32, local, local),
	}}}
	v, err := New(env).Eval(block)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Uint64() != 10 {
		t.Fatalf("expected 10, got %s", v)
	}
}

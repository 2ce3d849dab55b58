package mirror_test

import (
	"errors"
	"strings"
	"testing"

	"mirror/internal/consteval"
	"mirror/internal/diag"
	"mirror/internal/hir"
	"mirror/internal/mirror"
	"mirror/internal/session"
	"mirror/internal/types"
)

func wantLines(t *testing.T, dump string, lines ...string) {
	t.Helper()
	for _, l := range lines {
		if !strings.Contains(dump, l) {
			t.Fatalf("dump missing %q:\n%s", l, dump)
		}
	}
}

func TestLowerArithmetic(t *testing.T) {
	e := loadEnv(t, session.Default())
	_, dump := e.lower(t, "add_one")
	wantLines(t, dump,
		"fn add_one(x: u32) -> u32 [not-const check_overflow=false]",
		"  binary + : u32\n",
		"    var x : u32",
		"    const 1u32 : u32",
	)

	e = loadEnv(t, session.Options{DebugAssertions: true})
	body, dump := e.lower(t, "add_one")
	if !body.CheckOverflow {
		t.Fatalf("body should record the overflow flag")
	}
	wantLines(t, dump, "binary + checked : u32")

	_, dump = e.lower(t, "div")
	wantLines(t, dump, "binary / assert-nonzero : i64")

	_, dump = e.lower(t, "negate")
	wantLines(t, dump, "unary - checked : i32")
}

func TestLowerConstUnits(t *testing.T) {
	e := loadEnv(t, session.Options{ForceOverflowChecks: session.Off})
	body, dump := e.lower(t, "LIMIT")
	if body.Constness != hir.Const || !body.CheckOverflow {
		t.Fatalf("const unit should be const and checked")
	}
	wantLines(t, dump, "const LIMIT() -> u32 [const check_overflow=true]", "binary * checked : u32")

	_, dump = e.lower(t, "MIN")
	wantLines(t, dump, "const -128i8 : i8")

	_, dump = e.lower(t, "COUNTER")
	wantLines(t, dump, "static COUNTER() -> u64 [const", "const 0u64 : u64")

	// A reference to a constant is folded to its value.
	_, dump = e.lower(t, "limit")
	wantLines(t, dump, "if : u32", "const true : bool", "const 32u32 : u32")
}

func TestLowerOverloadedOperator(t *testing.T) {
	e := loadEnv(t, session.Default())
	body, dump := e.lower(t, "sum")
	wantLines(t, dump,
		"call overloaded : Point",
		"const add::<Self=Point, Point> : fn(Point, Point) -> Point",
		"var p : Point",
		"var q : Point",
	)
	call := body.Value.Data.(mirror.CallExpr)
	item := call.Fn.Data.(mirror.LiteralExpr).Literal.(mirror.LiteralItem)
	if len(item.Substs.Types) != 1 || item.Substs.Self != body.Params[0].Type {
		t.Fatalf("unexpected substs %+v", item.Substs)
	}
}

func TestLowerOverloadedBitOperator(t *testing.T) {
	src := `
[[adt]]
name = "Flags"

[[adt.variant]]
fields = [{ name = "bits", type = "u8" }]

[[trait]]
name = "BitAnd"
lang = "bitand"
generics = ["Rhs"]

[[trait.item]]
name = "bitand"
params = ["Self", "Rhs"]
result = "Self"

[[fn]]
name = "both"
params = [{ name = "a", type = "Flags" }, { name = "b", type = "Flags" }]
result = "Flags"
body = { op = "&", lhs = "a", rhs = "b" }
`
	e := parseEnv(t, src, session.Default())
	body, dump := e.lower(t, "both")
	wantLines(t, dump,
		"call overloaded : Flags",
		"const bitand::<Self=Flags, Flags>",
	)
	if call := body.Value.Data.(mirror.CallExpr); !call.Overloaded || len(call.Args) != 2 {
		t.Fatalf("unexpected call %+v", call)
	}
}

func TestLowerMethodAndCtor(t *testing.T) {
	e := loadEnv(t, session.Default())
	impl := e.item(t, "Add for Point")
	m := impl.Impl.Methods[0]
	u := e.g.Unit("add", nil)
	cx, err := mirror.NewCx(u, mirror.FnSource(m.ID))
	if err != nil {
		t.Fatalf("NewCx: %v", err)
	}
	body, err := mirror.LowerFn(cx, m)
	if err != nil {
		t.Fatalf("LowerFn: %v", err)
	}
	wantLines(t, mirror.DumpString(body, u),
		"fn add(a: Point, b: Point) -> Point [not-const",
		"adt Point variant=0(Point) : Point",
		"    .0 =",
		"    .1 =",
		"field .1 : u32",
	)
	adt := body.Value.Data.(mirror.AdtExpr)
	if len(adt.Fields) != 2 || adt.Fields[1].Field.Index() != 1 {
		t.Fatalf("unexpected fields %+v", adt.Fields)
	}
}

func TestLowerGenericCall(t *testing.T) {
	src := `
[[fn]]
name = "id"
generics = ["T"]
params = [{ name = "v", type = "T" }]
result = "T"
body = "v"

[[fn]]
name = "f"
result = "u8"
body = { call = "id", generics = ["u8"], args = [7] }
`
	e := parseEnv(t, src, session.Default())
	body, dump := e.lower(t, "f")
	u8 := e.prog.Types.Builtins().U8
	if body.Value.Kind != mirror.ExprCall || body.Value.Type != u8 {
		t.Fatalf("call = %v : %s", body.Value.Kind, types.Label(e.prog.Types, body.Value.Type))
	}
	call := body.Value.Data.(mirror.CallExpr)
	item, ok := call.Fn.Data.(mirror.LiteralExpr).Literal.(mirror.LiteralItem)
	if !ok || len(item.Substs.Types) != 1 || item.Substs.Types[0] != u8 {
		t.Fatalf("callee literal = %+v", call.Fn.Data)
	}
	info, ok := e.prog.Types.FnInfo(call.Fn.Type)
	if !ok || len(info.Params) != 1 || info.Params[0] != u8 || info.Result != u8 {
		t.Fatalf("callee type %s is not instantiated", types.Label(e.prog.Types, call.Fn.Type))
	}
	if call.Args[0].Type != u8 {
		t.Errorf("argument type = %s, want u8", types.Label(e.prog.Types, call.Args[0].Type))
	}
	wantLines(t, dump, "id::<u8>")
}

func TestLowerBlockDrops(t *testing.T) {
	e := loadEnv(t, session.Default())
	body, dump := e.lower(t, "buf_len")
	wantLines(t, dump,
		"block : usize",
		"let b",
		"adt Buf variant=0(Buf) : Buf",
		"call : u32",
		"const add_one : fn(u32) -> u32",
		"const 3u32 : u32",
		"field .0 : usize",
		"drop b: Buf",
	)
	if len(body.Drops) != 0 {
		t.Fatalf("usize parameter should not be dropped: %+v", body.Drops)
	}
	blk := body.Value.Data.(mirror.BlockExpr).Block
	if len(blk.Drops) != 1 || blk.Drops[0].Name != "b" {
		t.Fatalf("unexpected block drops %+v", blk.Drops)
	}
}

func TestLowerParamDrops(t *testing.T) {
	e := loadEnv(t, session.Default())
	body, dump := e.lower(t, "keep")
	wantLines(t, dump, "tuple(0) : ()", "drop v: T")
	if len(body.Drops) != 1 {
		t.Fatalf("unbounded generic parameter should be dropped")
	}

	body, _ = e.lower(t, "unwrap_or")
	if len(body.Drops) != 0 {
		t.Fatalf("copy-bounded parameters should not be dropped: %+v", body.Drops)
	}
}

func TestLowerMatch(t *testing.T) {
	e := loadEnv(t, session.Default())
	body, dump := e.lower(t, "unwrap_or")
	wantLines(t, dump, "match : T", "arm Some(v)", "arm _", "var d : T")
	m := body.Value.Data.(mirror.MatchExpr)
	if p := m.Arms[0].Pattern; p.Kind != mirror.PatVariant || p.Variant != 1 || len(p.Fields) != 1 {
		t.Fatalf("unexpected pattern %+v", p)
	}

	_, dump = e.lower(t, "classify")
	wantLines(t, dump, "arm 0u8", "binary < : bool")
}

func TestLowerPatterns(t *testing.T) {
	src := `
[[adt]]
name = "P"

[[adt.variant]]
fields = [{ name = "a", type = "i8" }, { name = "b", type = "bool" }]

[[fn]]
name = "f"
params = [{ name = "p", type = "P" }, { name = "t", type = "(u8, bool)" }]
result = "i8"
body = { block = [{ let = { tuple = ["x", "_"] }, init = "t" }], tail = { match = "p", arms = [{ pat = { variant = "P", fields = [{ int = -1 }, true] }, body = 0 }, { pat = { variant = "P", fields = ["a", "_"] }, body = "a" }] } }
`
	e := parseEnv(t, src, session.Default())
	body, dump := e.lower(t, "f")
	wantLines(t, dump, "let (x, _)", "arm P(-1i8, true)", "arm P(a, _)", "var t : (u8, bool)")
	m := body.Value.Data.(mirror.BlockExpr).Block.Tail.Data.(mirror.MatchExpr)
	// A single-variant ADT matches as a leaf.
	if m.Arms[0].Pattern.Kind != mirror.PatLeaf {
		t.Fatalf("expected a leaf pattern, got %v", m.Arms[0].Pattern.Kind)
	}
	if c := m.Arms[0].Pattern.Fields[0].Pattern; c.Kind != mirror.PatConstant {
		t.Fatalf("expected a constant subpattern, got %v", c.Kind)
	}
}

func TestLowerUsizeLiteral(t *testing.T) {
	src := `
[[fn]]
name = "n"
result = "usize"
body = 4294967296
`
	e := parseEnv(t, src, session.Default())
	body, _ := e.lower(t, "n")
	cx, _ := e.cx(t, "n")
	v, ok := cx.UsizeValue(body.Value.Data.(mirror.LiteralExpr).Literal)
	if !ok || v != 1<<32 {
		t.Fatalf("usize literal = %d, %t", v, ok)
	}

	e = parseEnv(t, src, session.Options{Target: "wasm32-unknown-unknown"})
	cx, _ = e.cx(t, "n")
	_, err := mirror.LowerFn(cx, e.item(t, "n").Fn)
	var ce *consteval.Error
	if !errors.As(err, &ce) || ce.Code != diag.ConstOverflow {
		t.Fatalf("usize literal beyond a 32-bit target should be a const overflow, got %v", err)
	}
	if mirror.IsInternal(err) {
		t.Fatalf("user literal reported as an internal error: %v", err)
	}
}

func TestLowerLiteralOutOfRange(t *testing.T) {
	src := `
[[fn]]
name = "f"
result = "u8"
body = { int = 300 }
`
	e := parseEnv(t, src, session.Default())
	cx, _ := e.cx(t, "f")
	_, err := mirror.LowerFn(cx, e.item(t, "f").Fn)
	var ce *consteval.Error
	if !errors.As(err, &ce) || ce.Code != diag.ConstOverflow {
		t.Fatalf("expected a const overflow error, got %v", err)
	}
}

func TestLowerStringAndUnit(t *testing.T) {
	src := `
[[fn]]
name = "s"
result = "str"
body = { block = [{ expr = { unit = true } }], tail = { str = "hi" } }
`
	e := parseEnv(t, src, session.Default())
	_, dump := e.lower(t, "s")
	wantLines(t, dump, "stmt\n", "tuple(0) : ()", `const "hi" : str`)
}

func TestLowerFnWithoutBody(t *testing.T) {
	src := `
[[fn]]
name = "f"
result = "u8"
`
	e := parseEnv(t, src, session.Default())
	cx, _ := e.cx(t, "f")
	if _, err := mirror.LowerFn(cx, e.item(t, "f").Fn); !mirror.IsInternal(err) {
		t.Fatalf("lowering a bodiless function should be an internal error, got %v", err)
	}
}

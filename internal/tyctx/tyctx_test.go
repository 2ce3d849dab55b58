package tyctx

import (
	"sync"
	"testing"

	"mirror/internal/depgraph"
	"mirror/internal/fixture"
	"mirror/internal/hir"
	"mirror/internal/session"
	"mirror/internal/symbols"
	"mirror/internal/types"
)

func newGlobal(t *testing.T, opts session.Options) (*Global, *fixture.Program) {
	t.Helper()
	prog, err := fixture.Load("../fixture/testdata/basic.toml")
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	g, err := New(Config{Types: prog.Types, Symbols: prog.Symbols, Module: prog.Module, Options: opts})
	if err != nil {
		t.Fatalf("new global: %v", err)
	}
	return g, prog
}

func item(t *testing.T, prog *fixture.Program, name string) *hir.Item {
	t.Helper()
	for _, it := range prog.Module.Items {
		if it.Name == name {
			return it
		}
	}
	t.Fatalf("item %q not found", name)
	return nil
}

func TestNewRejectsUnknownTarget(t *testing.T) {
	prog, err := fixture.Parse("")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	_, err = New(Config{Types: prog.Types, Symbols: prog.Symbols, Options: session.Options{Target: "pdp11"}})
	if err == nil {
		t.Fatalf("expected an error for an unknown target")
	}
	if _, err := New(Config{}); err == nil {
		t.Fatalf("expected an error without tables")
	}
}

func TestNeedsDrop(t *testing.T) {
	g, prog := newGlobal(t, session.Default())
	in := prog.Types
	adt := func(name string, args ...types.TypeID) types.TypeID {
		for id := types.AdtID(1); ; id++ {
			def, ok := in.AdtDef(id)
			if !ok {
				t.Fatalf("adt %q not found", name)
			}
			if prog.Strings.MustLookup(def.Name) == name {
				return in.AdtType(id, args)
			}
		}
	}

	unwrap := item(t, prog, "unwrap_or").Fn
	copyT := unwrap.GenericParams[0].Type
	keep := item(t, prog, "keep").Fn
	plainT := keep.GenericParams[0].Type

	bt := in.Builtins()
	buf := adt("Buf")
	cases := []struct {
		name     string
		generics []hir.GenericParam
		ty       types.TypeID
		want     bool
	}{
		{"u32", nil, bt.U32, false},
		{"string", nil, bt.String, false},
		{"unit", nil, bt.Unit, false},
		{"struct with destructor", nil, buf, true},
		{"all-numeric struct", nil, adt("Point"), false},
		{"tuple containing Buf", nil, in.RegisterTuple([]types.TypeID{bt.U8, buf}), true},
		{"empty array of Buf", nil, in.Intern(types.MakeArray(buf, 0)), false},
		{"array of Buf", nil, in.Intern(types.MakeArray(buf, 2)), true},
		{"reference to Buf", nil, in.Intern(types.MakeReference(buf, false)), false},
		{"Opt<Buf>", nil, adt("Opt", buf), true},
		{"Opt<u8>", nil, adt("Opt", bt.U8), false},
		{"copy param", unwrap.GenericParams, copyT, false},
		{"Opt<copy param>", unwrap.GenericParams, adt("Opt", copyT), false},
		{"unbounded param", keep.GenericParams, plainT, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := g.Unit(tc.name, tc.generics)
			if got := u.NeedsDrop(tc.ty); got != tc.want {
				t.Fatalf("NeedsDrop(%s) = %t, want %t", g.TypeLabel(tc.ty), got, tc.want)
			}
		})
	}
}

func TestUnitQueries(t *testing.T) {
	g, prog := newGlobal(t, session.Options{DebugAssertions: true, Target: "i686-linux-gnu"})
	u := g.Unit("double", nil)

	fn := item(t, prog, "double")
	kind, ok := u.FnLike(fn.ID)
	if !ok {
		t.Fatalf("double should be function-like")
	}
	if fk, ok := kind.(hir.FnItem); !ok || fk.Constness != hir.Const {
		t.Fatalf("unexpected fn kind %#v", kind)
	}
	if _, ok := u.FnLike(item(t, prog, "LIMIT").ID); ok {
		t.Fatalf("a const is not function-like")
	}
	def, ok := u.DefOf(fn.ID)
	if !ok || u.SymbolName(def) != "double" {
		t.Fatalf("DefOf(double) = %d, %t", def, ok)
	}
	if u.Target().PtrSize != 4 {
		t.Fatalf("expected the 32-bit target, got %s", u.Target().Triple)
	}
	if !u.Options().OverflowChecks() {
		t.Fatalf("debug assertions should enable overflow checks")
	}
	if body, ok := u.ConstBody(item(t, prog, "LIMIT").SymbolID); !ok || body.Kind != hir.ExprBinary {
		t.Fatalf("LIMIT body not found")
	}
	if _, ok := u.ConstBody(def); ok {
		t.Fatalf("a function has no const body")
	}
	v, err := u.ConstEval(item(t, prog, "LIMIT").Const.Value)
	if err != nil || v.Uint64() != 32 {
		t.Fatalf("LIMIT = %v, %v", v, err)
	}
	if elems, ok := u.TupleElems(u.Builtins().Unit); !ok || len(elems) != 0 {
		t.Fatalf("unit should be the empty tuple")
	}
}

func TestReadDepRecordsUnitName(t *testing.T) {
	deps := depgraph.NewLog()
	prog, err := fixture.Parse("")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	g, err := New(Config{Types: prog.Types, Symbols: prog.Symbols, Deps: deps})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if g.Deps() != deps {
		t.Fatalf("configured log not used")
	}

	var wg sync.WaitGroup
	for i, name := range []string{"a", "b", "c"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.Unit(name, nil).ReadDep(depgraph.TypeckBody(symbols.SymbolID(i + 1)))
		}()
	}
	wg.Wait()
	if deps.Len() != 3 {
		t.Fatalf("expected 3 reads, got %d", deps.Len())
	}
	if got := deps.ReadsOf("b"); len(got) != 1 || got[0] != depgraph.TypeckBody(2) {
		t.Fatalf("ReadsOf(b) = %v", got)
	}
}

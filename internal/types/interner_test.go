package types

import (
	"testing"

	"mirror/internal/source"
)

func TestInternerBuiltins(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if b.Unit == NoTypeID || b.Bool == NoTypeID || b.Usize == NoTypeID {
		t.Fatalf("builtins not initialized")
	}
	unit, _ := in.Lookup(b.Unit)
	if unit.Kind != KindTuple {
		t.Fatalf("expected unit to be a tuple, got %v", unit.Kind)
	}
	if info, ok := in.TupleInfo(b.Unit); !ok || len(info.Elems) != 0 {
		t.Fatalf("unit must be the zero-element tuple")
	}
	usize := in.MustLookup(b.Usize)
	if usize.Kind != KindUint || usize.Width != WidthAny {
		t.Fatalf("usize descriptor = %+v", usize)
	}
}

func TestEmptyTupleIsUnit(t *testing.T) {
	in := NewInterner()
	if got := in.RegisterTuple(nil); got != in.Builtins().Unit {
		t.Fatalf("RegisterTuple(nil) = %d, want unit %d", got, in.Builtins().Unit)
	}
	if !in.IsUnit(in.RegisterTuple([]TypeID{})) {
		t.Fatalf("empty tuple must be unit")
	}
}

func TestInternerDeduplicatesDescriptors(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()

	pair1 := in.RegisterTuple([]TypeID{b.I32, b.Bool})
	pair2 := in.RegisterTuple([]TypeID{b.I32, b.Bool})
	if pair1 != pair2 {
		t.Fatalf("tuple types should be deduplicated")
	}
	fn1 := in.RegisterFn([]TypeID{b.I32}, b.Bool)
	fn2 := in.RegisterFn([]TypeID{b.I32}, b.Bool)
	if fn1 != fn2 {
		t.Fatalf("fn types should be deduplicated")
	}
	if in.Intern(MakeArray(b.U8, 4)) != in.Intern(MakeArray(b.U8, 4)) {
		t.Fatalf("array types should be deduplicated")
	}
}

func TestReferenceMutabilityAffectsIdentity(t *testing.T) {
	in := NewInterner()
	elem := in.Builtins().I32
	if in.Intern(MakeReference(elem, true)) == in.Intern(MakeReference(elem, false)) {
		t.Fatalf("mutable and immutable references must differ")
	}
}

func TestInferVariablesAreDistinct(t *testing.T) {
	in := NewInterner()
	a, b := in.NewInfer(), in.NewInfer()
	if a == b {
		t.Fatalf("inference variables must be distinct")
	}
	if !in.HasInfer(in.RegisterTuple([]TypeID{in.Builtins().I32, a})) {
		t.Fatalf("tuple containing an inference variable not detected")
	}
	if in.HasInfer(in.Builtins().I32) {
		t.Fatalf("i32 reported as containing an inference variable")
	}
}

func TestLabel(t *testing.T) {
	in := NewInterner()
	names := source.NewInterner()
	b := in.Builtins()

	opt := in.RegisterAdt(names.Intern("Opt"), AdtEnum, source.Span{})
	tParam := in.RegisterTypeParam(names.Intern("T"), 1, 0)
	in.SetAdtGenerics(opt, []TypeID{tParam})

	cases := []struct {
		id   TypeID
		want string
	}{
		{b.Unit, "()"},
		{b.Usize, "usize"},
		{b.I64, "i64"},
		{in.RegisterTuple([]TypeID{b.Bool, b.U8}), "(bool, u8)"},
		{in.RegisterFn([]TypeID{b.I32}, b.Bool), "fn(i32) -> bool"},
		{in.AdtType(opt, []TypeID{b.U32}), "Opt<u32>"},
		{tParam, "T"},
	}
	for _, tc := range cases {
		if got := LabelWithNames(in, names, tc.id); got != tc.want {
			t.Errorf("label(%d) = %q, want %q", tc.id, got, tc.want)
		}
	}
}

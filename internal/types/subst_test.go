package types

import (
	"testing"

	"mirror/internal/source"
)

func TestSubstTraitMethodSignature(t *testing.T) {
	in := NewInterner()
	names := source.NewInterner()
	b := in.Builtins()

	self := in.RegisterSelfParam(names.Intern("Self"), 1)
	rhs := in.RegisterTypeParam(names.Intern("Rhs"), 1, 0)
	sig := in.RegisterFn([]TypeID{self, rhs}, self)

	got := in.Subst(sig, NewTraitSubsts([]TypeID{b.U32}, b.I64))
	want := in.RegisterFn([]TypeID{b.I64, b.U32}, b.I64)
	if got != want {
		t.Fatalf("Subst = %s, want %s", Label(in, got), Label(in, want))
	}
}

func TestSubstLeavesUnmappedParams(t *testing.T) {
	in := NewInterner()
	names := source.NewInterner()
	b := in.Builtins()

	p0 := in.RegisterTypeParam(names.Intern("A"), 1, 0)
	p1 := in.RegisterTypeParam(names.Intern("B"), 1, 1)
	tup := in.RegisterTuple([]TypeID{p0, p1})

	got := in.Subst(tup, &Substs{Types: []TypeID{b.Bool}})
	want := in.RegisterTuple([]TypeID{b.Bool, p1})
	if got != want {
		t.Fatalf("Subst = %s, want %s", Label(in, got), Label(in, want))
	}
	if in.Subst(tup, nil) != tup {
		t.Fatalf("nil substitution must be the identity")
	}
}

func TestFieldTypeSubstitutesAdtArgs(t *testing.T) {
	in := NewInterner()
	names := source.NewInterner()
	b := in.Builtins()

	box := in.RegisterAdt(names.Intern("Wrap"), AdtStruct, source.Span{})
	tParam := in.RegisterTypeParam(names.Intern("T"), 7, 0)
	in.SetAdtGenerics(box, []TypeID{tParam})
	in.SetAdtVariants(box, []VariantDef{{
		Name: names.Intern("Wrap"),
		Fields: []FieldDef{
			{Name: names.Intern("value"), Type: tParam},
			{Name: names.Intern("len"), Type: b.Usize},
		},
	}})

	inst := in.AdtType(box, []TypeID{b.U16})
	if again := in.AdtType(box, []TypeID{b.U16}); again != inst {
		t.Fatalf("ADT instances must be deduplicated")
	}
	if ft, ok := in.FieldType(inst, 0, 0); !ok || ft != b.U16 {
		t.Fatalf("field 0 = %s, want u16", Label(in, ft))
	}
	if ft, ok := in.FieldType(inst, 0, 1); !ok || ft != b.Usize {
		t.Fatalf("field 1 = %s, want usize", Label(in, ft))
	}
	if _, ok := in.FieldType(inst, 1, 0); ok {
		t.Fatalf("variant 1 does not exist")
	}

	generic := in.AdtType(box, []TypeID{tParam})
	if got := in.Subst(generic, &Substs{Types: []TypeID{b.U16}}); got != inst {
		t.Fatalf("Subst(Wrap<T>) = %s, want Wrap<u16>", Label(in, got))
	}
}

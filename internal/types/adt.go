package types

import (
	"slices"

	"mirror/internal/source"
)

// AdtID identifies an algebraic data type definition.
type AdtID uint32

const NoAdtID AdtID = 0

// AdtKind separates product types from sum types.
type AdtKind uint8

const (
	AdtStruct AdtKind = iota
	AdtEnum
)

func (k AdtKind) String() string {
	if k == AdtEnum {
		return "enum"
	}
	return "struct"
}

// FieldDef is one field of a variant. Type is expressed in terms of the
// ADT's own generic parameters.
type FieldDef struct {
	Name source.StringID
	Type TypeID
}

// VariantDef is one variant of an ADT. Structs have exactly one.
type VariantDef struct {
	Name   source.StringID
	Fields []FieldDef
}

// AdtDef describes an algebraic data type: a mapping from a zero-based
// variant tag to an ordered field list. Tags are contiguous 0..len(Variants)
// and field indices are contiguous inside each variant.
type AdtDef struct {
	ID       AdtID
	Name     source.StringID
	Kind     AdtKind
	Decl     source.Span
	Generics []TypeID // KindParam types, in declaration order
	Variants []VariantDef
	HasDrop  bool // a user-defined destructor exists
}

// AdtInst is an ADT applied to concrete (or generic) type arguments.
type AdtInst struct {
	Def  AdtID
	Args []TypeID
}

// RegisterAdt allocates a definition slot. Variants are attached later with
// SetAdtVariants so that recursive field types can refer to the ADT.
func (in *Interner) RegisterAdt(name source.StringID, kind AdtKind, decl source.Span) AdtID {
	id := AdtID(slotOf(len(in.adts), "adt def"))
	in.adts = append(in.adts, AdtDef{ID: id, Name: name, Kind: kind, Decl: decl})
	return id
}

// SetAdtGenerics records the generic parameters of the definition.
func (in *Interner) SetAdtGenerics(id AdtID, generics []TypeID) {
	if def := in.adtDef(id); def != nil {
		def.Generics = cloneTypeArgs(generics)
	}
}

// SetAdtVariants stores the resolved variants.
func (in *Interner) SetAdtVariants(id AdtID, variants []VariantDef) {
	def := in.adtDef(id)
	if def == nil {
		return
	}
	def.Variants = make([]VariantDef, len(variants))
	for i, v := range variants {
		def.Variants[i] = VariantDef{Name: v.Name, Fields: slices.Clone(v.Fields)}
	}
}

// SetAdtDrop marks the ADT as having a user-defined destructor.
func (in *Interner) SetAdtDrop(id AdtID, hasDrop bool) {
	if def := in.adtDef(id); def != nil {
		def.HasDrop = hasDrop
	}
}

// AdtDef returns the definition for id.
func (in *Interner) AdtDef(id AdtID) (*AdtDef, bool) {
	def := in.adtDef(id)
	return def, def != nil
}

// AdtType finds or creates the instantiation of def with args.
func (in *Interner) AdtType(def AdtID, args []TypeID) TypeID {
	for id := TypeID(1); int(id) < len(in.types); id++ {
		tt := in.types[id]
		if tt.Kind != KindAdt || tt.Payload == 0 {
			continue
		}
		inst := in.adtInsts[tt.Payload]
		if inst.Def == def && slices.Equal(inst.Args, args) {
			return id
		}
	}
	in.adtInsts = append(in.adtInsts, AdtInst{Def: def, Args: cloneTypeArgs(args)})
	slot := slotOf(len(in.adtInsts)-1, "adt instance")
	return in.internRaw(Type{Kind: KindAdt, Payload: slot})
}

// AdtOf returns the definition and type arguments of an ADT type.
func (in *Interner) AdtOf(id TypeID) (*AdtDef, []TypeID, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindAdt || tt.Payload == 0 || int(tt.Payload) >= len(in.adtInsts) {
		return nil, nil, false
	}
	inst := in.adtInsts[tt.Payload]
	def := in.adtDef(inst.Def)
	if def == nil {
		return nil, nil, false
	}
	return def, inst.Args, true
}

// FieldType returns the type of a field of an ADT instance with the type
// arguments substituted in.
func (in *Interner) FieldType(adt TypeID, variant, field int) (TypeID, bool) {
	def, args, ok := in.AdtOf(adt)
	if !ok || variant < 0 || variant >= len(def.Variants) {
		return NoTypeID, false
	}
	fields := def.Variants[variant].Fields
	if field < 0 || field >= len(fields) {
		return NoTypeID, false
	}
	if len(args) == 0 {
		return fields[field].Type, true
	}
	return in.Subst(fields[field].Type, &Substs{Types: args}), true
}

func (in *Interner) adtDef(id AdtID) *AdtDef {
	if id == NoAdtID || int(id) >= len(in.adts) {
		return nil
	}
	return &in.adts[id]
}

package types

import "mirror/internal/source"

// TypeParamInfo stores metadata about a generic type parameter.
type TypeParamInfo struct {
	Name   source.StringID
	Owner  uint32 // symbol of the declaring trait, fn or ADT
	Index  uint32 // position in the owner's generic list
	IsSelf bool   // the implicit Self parameter of a trait
}

// RegisterTypeParam allocates a new generic parameter.
func (in *Interner) RegisterTypeParam(name source.StringID, owner, index uint32) TypeID {
	return in.registerParam(TypeParamInfo{Name: name, Owner: owner, Index: index})
}

// RegisterSelfParam allocates the Self parameter of a trait.
func (in *Interner) RegisterSelfParam(name source.StringID, owner uint32) TypeID {
	return in.registerParam(TypeParamInfo{Name: name, Owner: owner, IsSelf: true})
}

func (in *Interner) registerParam(info TypeParamInfo) TypeID {
	in.params = append(in.params, info)
	slot := slotOf(len(in.params)-1, "type param")
	return in.internRaw(Type{Kind: KindParam, Count: info.Owner, Payload: slot})
}

// TypeParamInfo returns metadata for the provided generic parameter.
func (in *Interner) TypeParamInfo(id TypeID) (*TypeParamInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindParam {
		return nil, false
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.params) {
		return nil, false
	}
	info := in.params[tt.Payload]
	return &info, true
}

// NewInfer allocates a fresh inference variable. Typed trees handed to
// lowering must not contain any; they exist so that callers can detect
// unresolved types.
func (in *Interner) NewInfer() TypeID {
	in.infers++
	return in.internRaw(Type{Kind: KindInfer, Count: in.infers})
}

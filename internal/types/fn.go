package types

import "strconv"

// FnInfo is the signature behind a KindFn type.
type FnInfo struct {
	Params []TypeID
	Result TypeID
}

// fnKey spells a signature as "p1,p2->r" for the signature index.
func fnKey(params []TypeID, result TypeID) string {
	b := make([]byte, 0, 8*(len(params)+1))
	for i, p := range params {
		if i > 0 {
			b = append(b, ',')
		}
		b = strconv.AppendUint(b, uint64(p), 10)
	}
	b = append(b, '-', '>')
	b = strconv.AppendUint(b, uint64(result), 10)
	return string(b)
}

// RegisterFn returns the function type with the given signature, creating
// it on first use. Equal signatures share one TypeID.
func (in *Interner) RegisterFn(params []TypeID, result TypeID) TypeID {
	key := fnKey(params, result)
	if id, ok := in.fnIndex[key]; ok {
		return id
	}
	in.fns = append(in.fns, FnInfo{Params: cloneTypeArgs(params), Result: result})
	id := in.internRaw(Type{Kind: KindFn, Payload: slotOf(len(in.fns)-1, "fn info")})
	in.fnIndex[key] = id
	return id
}

// FnInfo returns the signature of a function type.
func (in *Interner) FnInfo(id TypeID) (*FnInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindFn || tt.Payload == 0 || int(tt.Payload) >= len(in.fns) {
		return nil, false
	}
	return &in.fns[tt.Payload], true
}

package hir

import (
	"mirror/internal/source"
	"mirror/internal/symbols"
	"mirror/internal/types"
)

// FuncFlags represents function modifiers as a bitmask.
type FuncFlags uint32

const (
	// FuncPublic indicates a public function.
	FuncPublic FuncFlags = 1 << iota
	// FuncMethod marks a function declared inside an impl block.
	FuncMethod
	// FuncIntrinsic marks a compiler-provided function without a body.
	FuncIntrinsic
)

// HasFlag returns true if the given flag is set.
func (f FuncFlags) HasFlag(flag FuncFlags) bool {
	return f&flag != 0
}

// String returns a human-readable representation of flags.
func (f FuncFlags) String() string {
	s := ""
	if f.HasFlag(FuncPublic) {
		s += "pub "
	}
	if f.HasFlag(FuncMethod) {
		s += "method "
	}
	if f.HasFlag(FuncIntrinsic) {
		s += "@intrinsic "
	}
	return s
}

// GenericParam represents a generic type parameter of a function.
type GenericParam struct {
	Name string
	Type types.TypeID // the KindParam type
	Copy bool         // bounded by the copy marker; never needs drop
	Span source.Span
}

// Param represents a function parameter.
type Param struct {
	Name  string
	Local LocalID
	Type  types.TypeID
	Span  source.Span
}

// Func is a free function or a method.
type Func struct {
	ID            NodeID
	Name          string
	SymbolID      symbols.SymbolID
	Owner         NodeID // impl item for methods, NoNodeID for free functions
	Span          source.Span
	Constness     Constness
	Attrs         []Attr
	GenericParams []GenericParam
	Params        []Param
	Result        types.TypeID
	Flags         FuncFlags
	Body          *Expr // nil for intrinsics
}

// IsMethod reports whether the function belongs to an impl block.
func (f *Func) IsMethod() bool {
	return f.Flags.HasFlag(FuncMethod)
}

// HasBody returns true if this function has a body.
func (f *Func) HasBody() bool {
	return f.Body != nil
}

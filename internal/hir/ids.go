// Package hir is the fully type-checked syntax tree handed to lowering.
//
// Every expression, pattern and binding carries the TypeID assigned by type
// checking; every path has already been resolved to a SymbolID or LocalID.
// The tree is read-only once built: lowering contexts running in parallel
// share it.
package hir

// NodeID identifies an item, method, expression, block or pattern. Node ids
// are unique across a Module.
type NodeID uint32

// LocalID identifies a local variable or parameter within a body.
type LocalID uint32

const (
	NoNodeID  NodeID  = 0
	NoLocalID LocalID = 0
)

func (id NodeID) IsValid() bool  { return id != NoNodeID }
func (id LocalID) IsValid() bool { return id != NoLocalID }

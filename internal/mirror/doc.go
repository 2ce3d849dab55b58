// Package mirror lowers the type-checked tree (package hir) into the mirror
// tree, a simplified expression tree that the CFG builder consumes.
//
// Lowering happens one compilation unit at a time. For each unit a Cx is
// built with NewCx; the Cx freezes two facts about the unit (its constness
// and whether arithmetic must be overflow-checked) and answers the handful
// of queries the converters need: primitive types, literal construction,
// trait method lookup for overloaded operators, ADT shape and drop
// necessity. Everything else comes from the shared TypeContext.
//
// Typed-tree nodes are converted through the Mirror interface:
//
//	e, err := mirror.Convert[*mirror.Expr](cx, mirror.ExprRef{Expr: body})
//
// Errors come in two flavours. Constant evaluation failures are
// *consteval.Error and are reported to the user. Everything else is an
// *InternalError: the typed tree violated an invariant that type checking
// should have established, and compilation cannot continue.
package mirror

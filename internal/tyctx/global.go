// Package tyctx is the in-memory type context the lowering runs against.
//
// Global owns the tables produced by type checking: the type interner, the
// symbol table, the typed module and its string interner, plus the session
// options and the dependency log. It is shared by every unit of a program.
// Unit is the per-unit view handed to mirror.NewCx; it adds the unit's
// parameter environment and constant evaluator.
package tyctx

import (
	"fmt"
	"sync"

	"mirror/internal/depgraph"
	"mirror/internal/hir"
	"mirror/internal/layout"
	"mirror/internal/session"
	"mirror/internal/source"
	"mirror/internal/symbols"
	"mirror/internal/types"
)

// Config lists the tables a Global is built from.
type Config struct {
	Types   *types.Interner
	Symbols *symbols.Table
	Module  *hir.Module
	Options session.Options
	// Deps receives the dependency reads; a fresh log is created when nil.
	Deps *depgraph.Log
}

// Global is the shared type context of one program.
//
// The type interner is not synchronized on its own and some queries intern
// new types (substitution), so every access goes through mu. Symbols, the
// node map and the module are read-only once the Global is built.
type Global struct {
	mu      sync.RWMutex
	types   *types.Interner
	symbols *symbols.Table
	strings *source.Interner
	module  *hir.Module
	nodes   *hir.Map
	deps    *depgraph.Log
	opts    session.Options
	target  layout.Target
}

// New builds a Global. It fails when the configured target is unknown.
func New(cfg Config) (*Global, error) {
	if cfg.Types == nil || cfg.Symbols == nil {
		return nil, fmt.Errorf("tyctx: types and symbols are required")
	}
	target, err := cfg.Options.ResolveTarget()
	if err != nil {
		return nil, err
	}
	deps := cfg.Deps
	if deps == nil {
		deps = depgraph.NewLog()
	}
	module := cfg.Module
	if module == nil {
		module = &hir.Module{}
	}
	return &Global{
		types:   cfg.Types,
		symbols: cfg.Symbols,
		strings: cfg.Symbols.Strings,
		module:  module,
		nodes:   hir.NewMap(module),
		deps:    deps,
		opts:    cfg.Options,
		target:  target,
	}, nil
}

func (g *Global) Module() *hir.Module       { return g.module }
func (g *Global) Nodes() *hir.Map           { return g.nodes }
func (g *Global) Deps() *depgraph.Log       { return g.deps }
func (g *Global) Symbols() *symbols.Table   { return g.symbols }
func (g *Global) Strings() *source.Interner { return g.strings }
func (g *Global) Options() session.Options  { return g.opts }
func (g *Global) Target() layout.Target     { return g.target }

// TypeLabel renders a type with names resolved.
func (g *Global) TypeLabel(id types.TypeID) string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return types.LabelWithNames(g.types, g.strings, id)
}

// Unit returns the view of the program seen from one compilation unit.
// generics is the unit's generic parameter list: parameters bounded by the
// copy marker never need drop glue, all others conservatively do.
func (g *Global) Unit(name string, generics []hir.GenericParam) *Unit {
	u := &Unit{
		g:          g,
		name:       name,
		copyParams: make(map[types.TypeID]bool, len(generics)),
	}
	for _, gp := range generics {
		if gp.Copy {
			u.copyParams[gp.Type] = true
		}
	}
	return u
}

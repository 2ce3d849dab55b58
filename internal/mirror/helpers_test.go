package mirror_test

import (
	"testing"

	"mirror/internal/depgraph"
	"mirror/internal/fixture"
	"mirror/internal/hir"
	"mirror/internal/mirror"
	"mirror/internal/session"
	"mirror/internal/testkit"
	"mirror/internal/tyctx"
)

type env struct {
	prog *fixture.Program
	g    *tyctx.Global
	deps *depgraph.Log
}

func loadEnv(t *testing.T, opts session.Options) *env {
	t.Helper()
	prog, err := fixture.Load("../fixture/testdata/basic.toml")
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	return newEnv(t, prog, opts)
}

func parseEnv(t *testing.T, src string, opts session.Options) *env {
	t.Helper()
	prog, err := fixture.Parse(src)
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return newEnv(t, prog, opts)
}

func newEnv(t *testing.T, prog *fixture.Program, opts session.Options) *env {
	t.Helper()
	deps := depgraph.NewLog()
	g, err := tyctx.New(tyctx.Config{
		Types:   prog.Types,
		Symbols: prog.Symbols,
		Module:  prog.Module,
		Options: opts,
		Deps:    deps,
	})
	if err != nil {
		t.Fatalf("tyctx: %v", err)
	}
	return &env{prog: prog, g: g, deps: deps}
}

func (e *env) item(t *testing.T, name string) *hir.Item {
	t.Helper()
	for _, it := range e.prog.Module.Items {
		if it.Name == name {
			return it
		}
	}
	t.Fatalf("item %q not found", name)
	return nil
}

func sourceOf(it *hir.Item) mirror.Source {
	switch it.Kind {
	case hir.ItemConst:
		return mirror.ConstSource(it.ID)
	case hir.ItemStatic:
		return mirror.StaticSource(it.ID)
	default:
		return mirror.FnSource(it.ID)
	}
}

func (e *env) cx(t *testing.T, name string) (*mirror.Cx, *tyctx.Unit) {
	t.Helper()
	it := e.item(t, name)
	var generics []hir.GenericParam
	if it.Fn != nil {
		generics = it.Fn.GenericParams
	}
	u := e.g.Unit(name, generics)
	cx, err := mirror.NewCx(u, sourceOf(it))
	if err != nil {
		t.Fatalf("NewCx(%s): %v", name, err)
	}
	return cx, u
}

// lower lowers a function or constant and returns its dump.
func (e *env) lower(t *testing.T, name string) (*mirror.Body, string) {
	t.Helper()
	cx, u := e.cx(t, name)
	it := e.item(t, name)
	var (
		body *mirror.Body
		err  error
	)
	if it.Fn != nil {
		body, err = mirror.LowerFn(cx, it.Fn)
	} else {
		body, err = mirror.LowerConst(cx, it)
	}
	if err != nil {
		t.Fatalf("lower %s: %v", name, err)
	}
	if err := testkit.CheckBody(body); err != nil {
		t.Errorf("invariants: %v", err)
	}
	return body, mirror.DumpString(body, u)
}

package fixture

import (
	"fmt"
	"strings"

	"mirror/internal/hir"
	"mirror/internal/symbols"
	"mirror/internal/types"
)

// fnSig is a declared function whose body has not been built yet.
type fnSig struct {
	decl     *fnDecl
	sym      symbols.SymbolID
	scope    typeScope
	generics []hir.GenericParam
	params   []types.TypeID
	result   types.TypeID
	method   bool
	owner    hir.NodeID
}

func (b *builder) declareFn(d *fnDecl, kind symbols.SymbolKind, owner symbols.SymbolID, outer typeScope) (*fnSig, error) {
	if d.Name == "" {
		return nil, fmt.Errorf("missing name")
	}
	sym := b.syms.Add(symbols.Symbol{Name: b.ident(d.Name), Kind: kind, Owner: owner})
	scope := make(typeScope, len(outer)+len(d.Generics))
	for k, v := range outer {
		scope[k] = v
	}
	sig := &fnSig{decl: d, sym: sym, scope: scope, method: kind == symbols.SymbolMethod}
	generics := make([]types.TypeID, 0, len(d.Generics))
	for i, g := range d.Generics {
		name, bound, _ := strings.Cut(g, ":")
		name = strings.TrimSpace(name)
		bound = strings.TrimSpace(bound)
		if bound != "" && bound != "Copy" {
			return nil, fmt.Errorf("generic %q: unsupported bound %q", name, bound)
		}
		ty := b.types.RegisterTypeParam(b.ident(name), uint32(sym), uint32(i))
		scope[name] = ty
		generics = append(generics, ty)
		sig.generics = append(sig.generics, hir.GenericParam{Name: name, Type: ty, Copy: bound == "Copy"})
	}
	for _, p := range d.Params {
		ty, err := b.parseType(p.Type, scope)
		if err != nil {
			return nil, fmt.Errorf("param %q: %w", p.Name, err)
		}
		sig.params = append(sig.params, ty)
	}
	result, err := b.resultType(d.Result, scope)
	if err != nil {
		return nil, fmt.Errorf("result: %w", err)
	}
	sig.result = result

	s := b.syms.Get(sym)
	s.Type = b.types.RegisterFn(sig.params, result)
	s.Generics = generics
	if d.Public {
		s.Flags |= symbols.SymbolFlagPublic
	}
	if d.Const {
		s.Flags |= symbols.SymbolFlagConstFn
	}
	if d.Body != nil {
		s.Flags |= symbols.SymbolFlagHasBody
	}
	return sig, nil
}

func (b *builder) buildFn(sig *fnSig) (*hir.Func, error) {
	d := sig.decl
	fn := &hir.Func{
		ID:            b.node(),
		Name:          d.Name,
		SymbolID:      sig.sym,
		Owner:         sig.owner,
		Attrs:         attrs(d.Attrs),
		GenericParams: sig.generics,
		Result:        sig.result,
	}
	if d.Const {
		fn.Constness = hir.Const
	}
	if d.Public {
		fn.Flags |= hir.FuncPublic
	}
	if sig.method {
		fn.Flags |= hir.FuncMethod
	}

	fb := newFnBuilder(b, sig.scope)
	for i, p := range d.Params {
		local := fb.bind(p.Name, sig.params[i])
		fn.Params = append(fn.Params, hir.Param{Name: p.Name, Local: local, Type: sig.params[i]})
	}
	if d.Body == nil {
		fn.Flags |= hir.FuncIntrinsic
		return fn, nil
	}
	body, err := fb.expr(d.Body, sig.result)
	if err != nil {
		return nil, err
	}
	fn.Body = body
	return fn, nil
}

func (b *builder) buildImpl(d *implDecl) error {
	trait, ok := b.traits[d.Trait]
	if !ok {
		return fmt.Errorf("unknown trait %q", d.Trait)
	}
	self, err := b.parseType(d.Self, nil)
	if err != nil {
		return err
	}
	implSym := b.syms.Add(symbols.Symbol{Name: b.ident(d.Trait), Kind: symbols.SymbolImpl, Owner: trait, Type: self})
	item := &hir.Item{
		ID:       b.node(),
		Kind:     hir.ItemImpl,
		Name:     d.Trait + " for " + d.Self,
		SymbolID: implSym,
		Impl:     &hir.Impl{Trait: trait, Self: self},
	}
	declared := make(map[string]bool, len(b.syms.TraitItems(trait)))
	for _, it := range b.syms.TraitItems(trait) {
		if it.Kind == symbols.TraitItemMethod {
			declared[b.strings.MustLookup(it.Name)] = true
		}
	}
	for i := range d.Methods {
		m := &d.Methods[i]
		if !declared[m.Name] {
			return fmt.Errorf("method %q is not a member of trait %q", m.Name, d.Trait)
		}
		sig, err := b.declareFn(m, symbols.SymbolMethod, implSym, typeScope{"Self": self})
		if err != nil {
			return fmt.Errorf("method %q: %w", m.Name, err)
		}
		sig.owner = item.ID
		fn, err := b.buildFn(sig)
		if err != nil {
			return fmt.Errorf("method %q: %w", m.Name, err)
		}
		item.Impl.Methods = append(item.Impl.Methods, fn)
	}
	b.items = append(b.items, item)
	return nil
}

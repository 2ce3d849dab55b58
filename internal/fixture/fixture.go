// Package fixture builds a type-checked program from a TOML description.
//
// The mirror tools have no parser; a fixture stands in for the output of
// resolution and type checking. It declares ADTs, traits, functions, impls,
// constants and statics, with bodies written as nested inline tables. Types
// of expressions are derived locally (literals from their declared or
// expected type, operators from their operands, calls from the callee's
// signature) so that fixtures stay short.
package fixture

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"mirror/internal/hir"
	"mirror/internal/source"
	"mirror/internal/symbols"
	"mirror/internal/types"
)

// Program is a loaded fixture: the typed module and the tables behind it.
type Program struct {
	Name    string
	Path    string
	Types   *types.Interner
	Symbols *symbols.Table
	Strings *source.Interner
	Module  *hir.Module
}

// Load reads a fixture file.
func Load(path string) (*Program, error) {
	var f file
	meta, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if err := checkUndecoded(meta); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if f.Name == "" {
		f.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	prog, err := build(&f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	prog.Path = path
	return prog, nil
}

// Parse builds a program from fixture text.
func Parse(text string) (*Program, error) {
	var f file
	meta, err := toml.Decode(text, &f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if err := checkUndecoded(meta); err != nil {
		return nil, err
	}
	return build(&f)
}

func checkUndecoded(meta toml.MetaData) error {
	var unknown []string
	for _, k := range meta.Undecoded() {
		// Expression tables are decoded dynamically.
		if isBodyKey(k) {
			continue
		}
		unknown = append(unknown, k.String())
	}
	if len(unknown) > 0 {
		return fmt.Errorf("unknown keys: %s", strings.Join(unknown, ", "))
	}
	return nil
}

func isBodyKey(k toml.Key) bool {
	for _, part := range k {
		if part == "body" {
			return true
		}
	}
	return false
}

type builder struct {
	types   *types.Interner
	syms    *symbols.Table
	strings *source.Interner

	adts   map[string]types.AdtID
	adtSym map[string]symbols.SymbolID
	traits map[string]symbols.SymbolID
	fns    map[string]symbols.SymbolID
	consts map[string]symbols.SymbolID

	items  []*hir.Item
	nextID hir.NodeID
}

func (b *builder) node() hir.NodeID {
	b.nextID++
	return b.nextID
}

func (b *builder) ident(name string) source.StringID {
	return b.strings.InternIdent(name)
}

func build(f *file) (*Program, error) {
	strs := source.NewInterner()
	b := &builder{
		types:   types.NewInterner(),
		syms:    symbols.NewTable(strs),
		strings: strs,
		adts:    make(map[string]types.AdtID),
		adtSym:  make(map[string]symbols.SymbolID),
		traits:  make(map[string]symbols.SymbolID),
		fns:     make(map[string]symbols.SymbolID),
		consts:  make(map[string]symbols.SymbolID),
	}

	// Declarations first so that bodies can refer to anything.
	if err := b.declareAdts(f.Adts); err != nil {
		return nil, err
	}
	for i := range f.Traits {
		if err := b.declareTrait(&f.Traits[i]); err != nil {
			return nil, fmt.Errorf("trait %q: %w", f.Traits[i].Name, err)
		}
	}
	fnSigs := make([]*fnSig, len(f.Fns))
	for i := range f.Fns {
		sig, err := b.declareFn(&f.Fns[i], symbols.SymbolFunction, symbols.NoSymbolID, nil)
		if err != nil {
			return nil, fmt.Errorf("fn %q: %w", f.Fns[i].Name, err)
		}
		if _, dup := b.fns[sig.decl.Name]; dup {
			return nil, fmt.Errorf("fn %q declared twice", sig.decl.Name)
		}
		b.fns[sig.decl.Name] = sig.sym
		fnSigs[i] = sig
	}
	constSyms := make([]symbols.SymbolID, 0, len(f.Consts)+len(f.Statics))
	for i := range f.Consts {
		sym, err := b.declareConst(&f.Consts[i], symbols.SymbolConst)
		if err != nil {
			return nil, err
		}
		constSyms = append(constSyms, sym)
	}
	for i := range f.Statics {
		sym, err := b.declareConst(&f.Statics[i], symbols.SymbolStatic)
		if err != nil {
			return nil, err
		}
		constSyms = append(constSyms, sym)
	}

	// Bodies.
	for _, sig := range fnSigs {
		fn, err := b.buildFn(sig)
		if err != nil {
			return nil, fmt.Errorf("fn %q: %w", sig.decl.Name, err)
		}
		b.items = append(b.items, &hir.Item{
			ID: fn.ID, Kind: hir.ItemFn, Name: fn.Name, SymbolID: fn.SymbolID, Attrs: fn.Attrs, Fn: fn,
		})
	}
	for i := range f.Impls {
		if err := b.buildImpl(&f.Impls[i]); err != nil {
			return nil, fmt.Errorf("impl %s for %s: %w", f.Impls[i].Trait, f.Impls[i].Self, err)
		}
	}
	decls := append(append([]constDecl(nil), f.Consts...), f.Statics...)
	for i := range decls {
		if err := b.buildConst(&decls[i], constSyms[i]); err != nil {
			return nil, fmt.Errorf("%s %q: %w", b.syms.Get(constSyms[i]).Kind, decls[i].Name, err)
		}
	}

	return &Program{
		Name:    f.Name,
		Types:   b.types,
		Symbols: b.syms,
		Strings: strs,
		Module:  &hir.Module{Name: f.Name, Items: b.items},
	}, nil
}

func (b *builder) declareAdts(decls []adtDecl) error {
	// Names first: field types may refer to any ADT, including the one being
	// declared.
	ids := make([]types.AdtID, len(decls))
	scopes := make([]typeScope, len(decls))
	for i := range decls {
		d := &decls[i]
		if _, dup := b.adts[d.Name]; dup {
			return fmt.Errorf("adt %q declared twice", d.Name)
		}
		kind := types.AdtStruct
		switch d.Kind {
		case "", "struct":
		case "enum":
			kind = types.AdtEnum
		default:
			return fmt.Errorf("adt %q: unknown kind %q", d.Name, d.Kind)
		}
		id := b.types.RegisterAdt(b.ident(d.Name), kind, source.Span{})
		sym := b.syms.Add(symbols.Symbol{Name: b.ident(d.Name), Kind: symbols.SymbolType})
		scope := make(typeScope, len(d.Generics))
		generics := make([]types.TypeID, len(d.Generics))
		for gi, g := range d.Generics {
			p := b.types.RegisterTypeParam(b.ident(g), uint32(sym), uint32(gi))
			scope[g] = p
			generics[gi] = p
		}
		b.types.SetAdtGenerics(id, generics)
		b.types.SetAdtDrop(id, d.Drop)
		b.syms.Get(sym).Generics = generics
		b.adts[d.Name] = id
		b.adtSym[d.Name] = sym
		ids[i], scopes[i] = id, scope
	}
	for i := range decls {
		d := &decls[i]
		if len(d.Variants) == 0 {
			return fmt.Errorf("adt %q has no variants", d.Name)
		}
		if d.Kind != "enum" && len(d.Variants) != 1 {
			return fmt.Errorf("struct %q must have exactly one variant", d.Name)
		}
		variants := make([]types.VariantDef, len(d.Variants))
		for vi, v := range d.Variants {
			name := v.Name
			if name == "" {
				name = d.Name
			}
			variants[vi].Name = b.ident(name)
			for _, f := range v.Fields {
				fty, err := b.parseType(f.Type, scopes[i])
				if err != nil {
					return fmt.Errorf("adt %q: %w", d.Name, err)
				}
				variants[vi].Fields = append(variants[vi].Fields, types.FieldDef{Name: b.ident(f.Name), Type: fty})
			}
		}
		b.types.SetAdtVariants(ids[i], variants)
		b.syms.Get(b.adtSym[d.Name]).Type = b.types.AdtType(ids[i], b.syms.Get(b.adtSym[d.Name]).Generics)
	}
	return nil
}

func (b *builder) declareTrait(d *traitDecl) error {
	if _, dup := b.traits[d.Name]; dup {
		return fmt.Errorf("declared twice")
	}
	lang := symbols.LangNone
	if d.Lang != "" {
		l, ok := symbols.ParseLang(d.Lang)
		if !ok {
			return fmt.Errorf("unknown lang item %q", d.Lang)
		}
		lang = l
	}
	trait := b.syms.Add(symbols.Symbol{Name: b.ident(d.Name), Kind: symbols.SymbolTrait, Lang: lang})
	scope := typeScope{"Self": b.types.RegisterSelfParam(b.ident("Self"), uint32(trait))}
	generics := make([]types.TypeID, len(d.Generics))
	for i, g := range d.Generics {
		generics[i] = b.types.RegisterTypeParam(b.ident(g), uint32(trait), uint32(i))
		scope[g] = generics[i]
	}
	b.syms.Get(trait).Generics = generics
	b.traits[d.Name] = trait

	for _, it := range d.Items {
		item := symbols.TraitItem{Name: b.ident(it.Name)}
		var sym symbols.Symbol
		switch it.Kind {
		case "", "method":
			params := make([]types.TypeID, len(it.Params))
			for i, p := range it.Params {
				ty, err := b.parseType(p, scope)
				if err != nil {
					return fmt.Errorf("method %q: %w", it.Name, err)
				}
				params[i] = ty
			}
			result, err := b.resultType(it.Result, scope)
			if err != nil {
				return fmt.Errorf("method %q: %w", it.Name, err)
			}
			item.Kind = symbols.TraitItemMethod
			sym = symbols.Symbol{Kind: symbols.SymbolMethod, Type: b.types.RegisterFn(params, result)}
		case "const":
			ty, err := b.parseType(it.Type, scope)
			if err != nil {
				return fmt.Errorf("const %q: %w", it.Name, err)
			}
			item.Kind = symbols.TraitItemConst
			sym = symbols.Symbol{Kind: symbols.SymbolAssocConst, Type: ty}
		case "type":
			item.Kind = symbols.TraitItemType
			sym = symbols.Symbol{Kind: symbols.SymbolAssocType}
		default:
			return fmt.Errorf("item %q: unknown kind %q", it.Name, it.Kind)
		}
		sym.Name = item.Name
		sym.Owner = trait
		item.Sym = b.syms.Add(sym)
		b.syms.AddTraitItem(trait, item)
	}
	return nil
}

func (b *builder) resultType(src string, scope typeScope) (types.TypeID, error) {
	if src == "" {
		return b.types.Builtins().Unit, nil
	}
	return b.parseType(src, scope)
}

func (b *builder) declareConst(d *constDecl, kind symbols.SymbolKind) (symbols.SymbolID, error) {
	if _, dup := b.consts[d.Name]; dup {
		return symbols.NoSymbolID, fmt.Errorf("%s %q declared twice", kind, d.Name)
	}
	ty, err := b.parseType(d.Type, nil)
	if err != nil {
		return symbols.NoSymbolID, fmt.Errorf("%s %q: %w", kind, d.Name, err)
	}
	sym := b.syms.Add(symbols.Symbol{Name: b.ident(d.Name), Kind: kind, Type: ty, Flags: symbols.SymbolFlagHasBody})
	b.consts[d.Name] = sym
	return sym, nil
}

func (b *builder) buildConst(d *constDecl, sym symbols.SymbolID) error {
	ty := b.syms.Get(sym).Type
	fb := newFnBuilder(b, nil)
	value, err := fb.expr(d.Body, ty)
	if err != nil {
		return err
	}
	kind := hir.ItemConst
	if b.syms.Get(sym).Kind == symbols.SymbolStatic {
		kind = hir.ItemStatic
	}
	b.items = append(b.items, &hir.Item{
		ID:       b.node(),
		Kind:     kind,
		Name:     d.Name,
		SymbolID: sym,
		Attrs:    attrs(d.Attrs),
		Const:    &hir.ConstDecl{Type: ty, Value: value, Mutable: d.Mut},
	})
	return nil
}

func attrs(names []string) []hir.Attr {
	if len(names) == 0 {
		return nil
	}
	out := make([]hir.Attr, len(names))
	for i, n := range names {
		out[i] = hir.Attr{Name: n}
	}
	return out
}

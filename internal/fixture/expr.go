package fixture

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"mirror/internal/hir"
	"mirror/internal/symbols"
	"mirror/internal/types"
)

type localVar struct {
	id hir.LocalID
	ty types.TypeID
}

// fnBuilder builds one body. Locals are numbered from 1 per body.
type fnBuilder struct {
	b      *builder
	types  typeScope
	scopes []map[string]localVar
	next   hir.LocalID
}

func newFnBuilder(b *builder, scope typeScope) *fnBuilder {
	return &fnBuilder{b: b, types: scope, scopes: []map[string]localVar{{}}}
}

func (fb *fnBuilder) push() { fb.scopes = append(fb.scopes, map[string]localVar{}) }
func (fb *fnBuilder) pop()  { fb.scopes = fb.scopes[:len(fb.scopes)-1] }

func (fb *fnBuilder) bind(name string, ty types.TypeID) hir.LocalID {
	fb.next++
	fb.scopes[len(fb.scopes)-1][name] = localVar{id: fb.next, ty: ty}
	return fb.next
}

func (fb *fnBuilder) lookup(name string) (localVar, bool) {
	for i := len(fb.scopes) - 1; i >= 0; i-- {
		if v, ok := fb.scopes[i][name]; ok {
			return v, true
		}
	}
	return localVar{}, false
}

func (fb *fnBuilder) newExpr(kind hir.ExprKind, ty types.TypeID, data hir.ExprData) *hir.Expr {
	return &hir.Expr{ID: fb.b.node(), Kind: kind, Type: ty, Data: data}
}

// expr builds an expression. want is the type the context expects, or
// NoTypeID when the expression decides its own type.
func (fb *fnBuilder) expr(v any, want types.TypeID) (*hir.Expr, error) {
	bt := fb.b.types.Builtins()
	switch v := v.(type) {
	case nil:
		return nil, fmt.Errorf("missing expression")
	case bool:
		return fb.newExpr(hir.ExprLiteral, bt.Bool, hir.LiteralData{Kind: hir.LiteralBool, Bool: v}), nil
	case int64:
		return fb.intLit(v, want)
	case string:
		return fb.name(v)
	case map[string]any:
		return fb.table(v, want)
	default:
		return nil, fmt.Errorf("unsupported expression %v (%T)", v, v)
	}
}

func (fb *fnBuilder) intLit(v int64, want types.TypeID) (*hir.Expr, error) {
	ty := want
	if ty == types.NoTypeID {
		ty = fb.b.types.Builtins().I32
	}
	tt, ok := fb.b.types.Lookup(ty)
	if !ok || !tt.IsInteger() {
		return nil, fmt.Errorf("integer literal %d where %s is expected", v, fb.label(ty))
	}
	mag := uint64(v)
	if v < 0 {
		mag = uint64(-v)
	}
	lit := fb.newExpr(hir.ExprLiteral, ty, hir.LiteralData{Kind: hir.LiteralInt, Int: mag})
	if v >= 0 {
		return lit, nil
	}
	return fb.newExpr(hir.ExprUnary, ty, hir.UnaryData{Op: hir.OpNeg, Operand: lit}), nil
}

// name resolves a bare identifier: a local first, then a const or static.
func (fb *fnBuilder) name(n string) (*hir.Expr, error) {
	if l, ok := fb.lookup(n); ok {
		return fb.newExpr(hir.ExprLocal, l.ty, hir.LocalData{Local: l.id, Name: n}), nil
	}
	if sym, ok := fb.b.consts[n]; ok {
		return fb.newExpr(hir.ExprConstRef, fb.b.syms.Get(sym).Type, hir.ConstRefData{Symbol: sym}), nil
	}
	return nil, fmt.Errorf("unresolved name %q", n)
}

func (fb *fnBuilder) table(t map[string]any, want types.TypeID) (*hir.Expr, error) {
	if s, ok := t["type"].(string); ok {
		ty, err := fb.b.parseType(s, fb.types)
		if err != nil {
			return nil, err
		}
		want = ty
	}
	switch {
	case has(t, "int"):
		n, ok := t["int"].(int64)
		if !ok {
			return nil, fmt.Errorf("int: expected an integer")
		}
		return fb.intLit(n, want)
	case has(t, "str"):
		s, ok := t["str"].(string)
		if !ok {
			return nil, fmt.Errorf("str: expected a string")
		}
		return fb.newExpr(hir.ExprLiteral, fb.b.types.Builtins().String,
			hir.LiteralData{Kind: hir.LiteralString, String: fb.b.strings.Intern(s)}), nil
	case has(t, "unit"):
		return fb.newExpr(hir.ExprLiteral, fb.b.types.Builtins().Unit, hir.LiteralData{Kind: hir.LiteralUnit}), nil
	case has(t, "local"), has(t, "const"):
		n, _ := t["local"].(string)
		if n == "" {
			n, _ = t["const"].(string)
		}
		return fb.name(n)
	case has(t, "op"):
		return fb.operator(t, want)
	case has(t, "call"):
		return fb.call(t, want)
	case has(t, "ctor"):
		return fb.ctor(t, want)
	case has(t, "field"):
		return fb.field(t)
	case has(t, "tuple"):
		return fb.tuple(t, want)
	case has(t, "if"):
		return fb.ifExpr(t, want)
	case has(t, "block"):
		return fb.block(t, want)
	case has(t, "match"):
		return fb.match(t, want)
	default:
		return nil, fmt.Errorf("unrecognized expression table with keys %s", strings.Join(slices.Sorted(maps.Keys(t)), ", "))
	}
}

func has(t map[string]any, key string) bool {
	_, ok := t[key]
	return ok
}

func list(t map[string]any, key string) ([]any, error) {
	v, ok := t[key]
	if !ok {
		return nil, nil
	}
	l, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected an array", key)
	}
	return l, nil
}

func (fb *fnBuilder) label(ty types.TypeID) string {
	return types.LabelWithNames(fb.b.types, fb.b.strings, ty)
}

func (fb *fnBuilder) operator(t map[string]any, want types.TypeID) (*hir.Expr, error) {
	op, _ := t["op"].(string)
	if has(t, "arg") {
		uop, ok := hir.ParseUnaryOp(op)
		if !ok {
			return nil, fmt.Errorf("unknown unary operator %q", op)
		}
		arg, err := fb.expr(t["arg"], want)
		if err != nil {
			return nil, err
		}
		if !fb.primitive(arg.Type) {
			lang, method := uop.Overload()
			if err := fb.checkOverload(op, lang, method, arg.Type); err != nil {
				return nil, err
			}
		}
		return fb.newExpr(hir.ExprUnary, arg.Type, hir.UnaryData{Op: uop, Operand: arg}), nil
	}
	bop, ok := hir.ParseBinaryOp(op)
	if !ok {
		return nil, fmt.Errorf("unknown binary operator %q", op)
	}
	bt := fb.b.types.Builtins()
	lhsWant := want
	switch {
	case bop.IsLogical():
		lhsWant = bt.Bool
	case bop.IsComparison():
		lhsWant = types.NoTypeID
	}
	lhs, err := fb.expr(t["lhs"], lhsWant)
	if err != nil {
		return nil, fmt.Errorf("lhs: %w", err)
	}
	rhs, err := fb.expr(t["rhs"], lhs.Type)
	if err != nil {
		return nil, fmt.Errorf("rhs: %w", err)
	}
	if !bop.IsLogical() && !(fb.primitive(lhs.Type) && fb.primitive(rhs.Type)) {
		lang, method, ok := bop.Overload()
		if !ok {
			return nil, fmt.Errorf("operator %q cannot be overloaded", op)
		}
		if err := fb.checkOverload(op, lang, method, lhs.Type); err != nil {
			return nil, err
		}
	}
	ty := lhs.Type
	if bop.IsComparison() || bop.IsLogical() {
		ty = bt.Bool
	}
	return fb.newExpr(hir.ExprBinary, ty, hir.BinaryData{Op: bop, LHS: lhs, RHS: rhs}), nil
}

func (fb *fnBuilder) primitive(ty types.TypeID) bool {
	t, ok := fb.b.types.Lookup(ty)
	return ok && t.IsPrimitive()
}

// checkOverload requires a trait marked with lang that declares method, so
// that an operator on a non-primitive operand resolves during lowering.
func (fb *fnBuilder) checkOverload(op string, lang symbols.LangItem, method string, self types.TypeID) error {
	trait, ok := fb.b.syms.Lang(lang)
	if !ok {
		return fmt.Errorf("operator %q on %s needs a trait with lang = %q", op, fb.label(self), lang)
	}
	if want, ok := fb.b.strings.LookupIdent(method); ok {
		for _, item := range fb.b.syms.TraitItems(trait) {
			if item.Kind == symbols.TraitItemMethod && item.Name == want {
				return nil
			}
		}
	}
	return fmt.Errorf("operator %q: trait %q declares no method %q", op, fb.b.syms.Name(trait), method)
}

func (fb *fnBuilder) exprs(vals []any, want func(i int) types.TypeID) ([]*hir.Expr, error) {
	out := make([]*hir.Expr, len(vals))
	for i, v := range vals {
		e, err := fb.expr(v, want(i))
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = e
	}
	return out, nil
}

// call builds a call of a free function. A generic callee takes its type
// arguments from "generics"; the argument and result types are the
// callee's signature instantiated with them. The result type is the
// instantiated result unless the table names one with "type".
func (fb *fnBuilder) call(t map[string]any, want types.TypeID) (*hir.Expr, error) {
	name, _ := t["call"].(string)
	sym, ok := fb.b.fns[name]
	if !ok {
		return nil, fmt.Errorf("unknown function %q", name)
	}
	callee := fb.b.syms.Get(sym)
	info, ok := fb.b.types.FnInfo(callee.Type)
	if !ok {
		return nil, fmt.Errorf("function %q has no signature", name)
	}
	typeArgs, err := fb.typeArgs(t)
	if err != nil {
		return nil, fmt.Errorf("call %q: %w", name, err)
	}
	if len(typeArgs) != len(callee.Generics) {
		return nil, fmt.Errorf("function %q takes %d type arguments, got %d", name, len(callee.Generics), len(typeArgs))
	}
	substs := &types.Substs{Types: typeArgs}
	vals, err := list(t, "args")
	if err != nil {
		return nil, err
	}
	if len(vals) != len(info.Params) {
		return nil, fmt.Errorf("function %q takes %d arguments, got %d", name, len(info.Params), len(vals))
	}
	args, err := fb.exprs(vals, func(i int) types.TypeID { return fb.b.types.Subst(info.Params[i], substs) })
	if err != nil {
		return nil, fmt.Errorf("call %q: %w", name, err)
	}
	ty := fb.b.types.Subst(info.Result, substs)
	if has(t, "type") {
		ty = want
	}
	return fb.newExpr(hir.ExprCall, ty, hir.CallData{Callee: sym, TypeArgs: typeArgs, Args: args}), nil
}

func (fb *fnBuilder) typeArgs(t map[string]any) ([]types.TypeID, error) {
	vals, err := list(t, "generics")
	if err != nil || len(vals) == 0 {
		return nil, err
	}
	out := make([]types.TypeID, len(vals))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("generics: expected type strings, got %v", v)
		}
		ty, err := fb.b.parseType(s, fb.types)
		if err != nil {
			return nil, err
		}
		out[i] = ty
	}
	return out, nil
}

// ctor builds a variant constructor. Generic ADTs take their instantiation
// from "type" or from the expected type.
func (fb *fnBuilder) ctor(t map[string]any, want types.TypeID) (*hir.Expr, error) {
	name, _ := t["ctor"].(string)
	id, ok := fb.b.adts[name]
	if !ok {
		return nil, fmt.Errorf("unknown type %q", name)
	}
	def, _ := fb.b.types.AdtDef(id)
	ty := types.NoTypeID
	if wdef, _, ok := fb.b.types.AdtOf(want); ok && wdef.ID == id {
		ty = want
	} else if len(def.Generics) == 0 {
		ty = fb.b.types.AdtType(id, nil)
	} else {
		return nil, fmt.Errorf("constructor of generic %q needs a type", name)
	}

	variant := 0
	if vname, ok := t["variant"].(string); ok {
		variant = -1
		for i, v := range def.Variants {
			if fb.b.strings.MustLookup(v.Name) == vname {
				variant = i
				break
			}
		}
		if variant < 0 {
			return nil, fmt.Errorf("%q has no variant %q", name, vname)
		}
	} else if len(def.Variants) != 1 {
		return nil, fmt.Errorf("constructor of enum %q needs a variant", name)
	}

	vals, err := list(t, "args")
	if err != nil {
		return nil, err
	}
	if n := len(def.Variants[variant].Fields); len(vals) != n {
		return nil, fmt.Errorf("variant %q takes %d fields, got %d", fb.b.strings.MustLookup(def.Variants[variant].Name), n, len(vals))
	}
	args, err := fb.exprs(vals, func(i int) types.TypeID {
		fty, _ := fb.b.types.FieldType(ty, variant, i)
		return fty
	})
	if err != nil {
		return nil, fmt.Errorf("ctor %q: %w", name, err)
	}
	return fb.newExpr(hir.ExprCtor, ty, hir.CtorData{Variant: variant, Args: args}), nil
}

func (fb *fnBuilder) field(t map[string]any) (*hir.Expr, error) {
	base, err := fb.expr(t["field"], types.NoTypeID)
	if err != nil {
		return nil, err
	}
	idx64, ok := t["index"].(int64)
	if !ok {
		return nil, fmt.Errorf("field: missing index")
	}
	idx := int(idx64)
	var fty types.TypeID
	if info, ok := fb.b.types.TupleInfo(base.Type); ok {
		if idx < 0 || idx >= len(info.Elems) {
			return nil, fmt.Errorf("field %d out of range for %s", idx, fb.label(base.Type))
		}
		fty = info.Elems[idx]
	} else if def, _, ok := fb.b.types.AdtOf(base.Type); ok && len(def.Variants) == 1 {
		fty, ok = fb.b.types.FieldType(base.Type, 0, idx)
		if !ok {
			return nil, fmt.Errorf("field %d out of range for %s", idx, fb.label(base.Type))
		}
	} else {
		return nil, fmt.Errorf("no fields on %s", fb.label(base.Type))
	}
	return fb.newExpr(hir.ExprField, fty, hir.FieldData{Base: base, Index: idx}), nil
}

func (fb *fnBuilder) tuple(t map[string]any, want types.TypeID) (*hir.Expr, error) {
	vals, err := list(t, "tuple")
	if err != nil {
		return nil, err
	}
	var wantElems []types.TypeID
	if info, ok := fb.b.types.TupleInfo(want); ok && len(info.Elems) == len(vals) {
		wantElems = info.Elems
	}
	elems, err := fb.exprs(vals, func(i int) types.TypeID {
		if wantElems == nil {
			return types.NoTypeID
		}
		return wantElems[i]
	})
	if err != nil {
		return nil, err
	}
	tys := make([]types.TypeID, len(elems))
	for i, e := range elems {
		tys[i] = e.Type
	}
	return fb.newExpr(hir.ExprTuple, fb.b.types.RegisterTuple(tys), hir.TupleData{Elems: elems}), nil
}

func (fb *fnBuilder) ifExpr(t map[string]any, want types.TypeID) (*hir.Expr, error) {
	cond, err := fb.expr(t["if"], fb.b.types.Builtins().Bool)
	if err != nil {
		return nil, fmt.Errorf("if: %w", err)
	}
	then, err := fb.expr(t["then"], want)
	if err != nil {
		return nil, fmt.Errorf("then: %w", err)
	}
	data := hir.IfData{Cond: cond, Then: then}
	ty := fb.b.types.Builtins().Unit
	if has(t, "else") {
		data.Else, err = fb.expr(t["else"], then.Type)
		if err != nil {
			return nil, fmt.Errorf("else: %w", err)
		}
		ty = then.Type
	}
	return fb.newExpr(hir.ExprIf, ty, data), nil
}

func (fb *fnBuilder) block(t map[string]any, want types.TypeID) (*hir.Expr, error) {
	stmts, err := list(t, "block")
	if err != nil {
		return nil, err
	}
	fb.push()
	defer fb.pop()

	blk := &hir.Block{ID: fb.b.node()}
	for i, s := range stmts {
		st, ok := s.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("statement %d: expected a table", i)
		}
		stmt, err := fb.stmt(st)
		if err != nil {
			return nil, fmt.Errorf("statement %d: %w", i, err)
		}
		blk.Stmts = append(blk.Stmts, stmt)
	}
	ty := fb.b.types.Builtins().Unit
	if has(t, "tail") {
		blk.Tail, err = fb.expr(t["tail"], want)
		if err != nil {
			return nil, fmt.Errorf("tail: %w", err)
		}
		ty = blk.Tail.Type
	}
	return fb.newExpr(hir.ExprBlock, ty, hir.BlockData{Block: blk}), nil
}

// stmt builds `{let = <pattern>, type = "...", init = <expr>}` or
// `{expr = <expr>}`.
func (fb *fnBuilder) stmt(t map[string]any) (*hir.Stmt, error) {
	if !has(t, "let") {
		init, err := fb.expr(t["expr"], types.NoTypeID)
		if err != nil {
			return nil, err
		}
		return &hir.Stmt{ID: fb.b.node(), Kind: hir.StmtExpr, Init: init}, nil
	}
	want := types.NoTypeID
	if s, ok := t["type"].(string); ok {
		ty, err := fb.b.parseType(s, fb.types)
		if err != nil {
			return nil, err
		}
		want = ty
	}
	stmt := &hir.Stmt{ID: fb.b.node(), Kind: hir.StmtLet}
	if has(t, "init") {
		init, err := fb.expr(t["init"], want)
		if err != nil {
			return nil, fmt.Errorf("init: %w", err)
		}
		stmt.Init = init
		want = init.Type
	}
	if want == types.NoTypeID {
		return nil, fmt.Errorf("let without init needs a type")
	}
	// The initializer is built before the pattern binds, so it cannot see
	// the names the pattern introduces.
	pat, err := fb.pattern(t["let"], want)
	if err != nil {
		return nil, err
	}
	stmt.Pattern = pat
	return stmt, nil
}

func (fb *fnBuilder) match(t map[string]any, want types.TypeID) (*hir.Expr, error) {
	scrut, err := fb.expr(t["match"], types.NoTypeID)
	if err != nil {
		return nil, fmt.Errorf("match: %w", err)
	}
	vals, err := list(t, "arms")
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, fmt.Errorf("match without arms")
	}
	data := hir.MatchData{Scrutinee: scrut}
	ty := want
	for i, v := range vals {
		arm, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("arm %d: expected a table", i)
		}
		a, err := fb.arm(arm, scrut.Type, ty)
		if err != nil {
			return nil, fmt.Errorf("arm %d: %w", i, err)
		}
		if ty == types.NoTypeID {
			ty = a.Body.Type
		}
		data.Arms = append(data.Arms, a)
	}
	return fb.newExpr(hir.ExprMatch, ty, data), nil
}

func (fb *fnBuilder) arm(t map[string]any, scrut, want types.TypeID) (hir.MatchArm, error) {
	fb.push()
	defer fb.pop()
	pat, err := fb.pattern(t["pat"], scrut)
	if err != nil {
		return hir.MatchArm{}, err
	}
	body, err := fb.expr(t["body"], want)
	if err != nil {
		return hir.MatchArm{}, err
	}
	return hir.MatchArm{Pattern: pat, Body: body}, nil
}

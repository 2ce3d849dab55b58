package mirror

import (
	"slices"

	"mirror/internal/hir"
	"mirror/internal/symbols"
	"mirror/internal/types"
)

func (cx *Cx) lowerExpr(e *hir.Expr) (*Expr, error) {
	if e == nil {
		return nil, Bug("lower_expr", "nil expression")
	}

	switch e.Kind {
	case hir.ExprLiteral:
		data, ok := e.Data.(hir.LiteralData)
		if !ok {
			return nil, payloadBug(e)
		}
		return cx.lowerLiteral(e, data)

	case hir.ExprLocal:
		data, ok := e.Data.(hir.LocalData)
		if !ok {
			return nil, payloadBug(e)
		}
		return cx.expr(e, ExprVar, VarExpr{Local: data.Local, Name: data.Name}), nil

	case hir.ExprConstRef:
		data, ok := e.Data.(hir.ConstRefData)
		if !ok {
			return nil, payloadBug(e)
		}
		sym, ok := cx.tcx.Symbol(data.Symbol)
		if !ok {
			return nil, Bug("lower_expr", "unknown constant symbol %d", data.Symbol)
		}
		if sym.Kind == symbols.SymbolStatic {
			return cx.expr(e, ExprStatic, StaticExpr{Def: data.Symbol}), nil
		}
		lit, err := cx.ConstEvalLiteral(e)
		if err != nil {
			return nil, err
		}
		return cx.expr(e, ExprLiteral, LiteralExpr{Literal: lit}), nil

	case hir.ExprUnary:
		data, ok := e.Data.(hir.UnaryData)
		if !ok {
			return nil, payloadBug(e)
		}
		return cx.lowerUnary(e, data)

	case hir.ExprBinary:
		data, ok := e.Data.(hir.BinaryData)
		if !ok {
			return nil, payloadBug(e)
		}
		return cx.lowerBinary(e, data)

	case hir.ExprCall:
		data, ok := e.Data.(hir.CallData)
		if !ok {
			return nil, payloadBug(e)
		}
		return cx.lowerCall(e, data)

	case hir.ExprCtor:
		data, ok := e.Data.(hir.CtorData)
		if !ok {
			return nil, payloadBug(e)
		}
		return cx.lowerCtor(e, data)

	case hir.ExprField:
		data, ok := e.Data.(hir.FieldData)
		if !ok {
			return nil, payloadBug(e)
		}
		return cx.lowerFieldAccess(e, data)

	case hir.ExprTuple:
		data, ok := e.Data.(hir.TupleData)
		if !ok {
			return nil, payloadBug(e)
		}
		fields, err := cx.lowerExprs(data.Elems)
		if err != nil {
			return nil, err
		}
		return cx.expr(e, ExprTuple, TupleExpr{Fields: fields}), nil

	case hir.ExprIf:
		data, ok := e.Data.(hir.IfData)
		if !ok {
			return nil, payloadBug(e)
		}
		return cx.lowerIf(e, data)

	case hir.ExprBlock:
		data, ok := e.Data.(hir.BlockData)
		if !ok {
			return nil, payloadBug(e)
		}
		block, err := Convert[*Block](cx, BlockRef{Block: data.Block})
		if err != nil {
			return nil, err
		}
		return cx.expr(e, ExprBlock, BlockExpr{Block: block}), nil

	case hir.ExprMatch:
		data, ok := e.Data.(hir.MatchData)
		if !ok {
			return nil, payloadBug(e)
		}
		return cx.lowerMatch(e, data)

	default:
		return nil, Bug("lower_expr", "unsupported expression kind %s", e.Kind)
	}
}

func payloadBug(e *hir.Expr) error {
	return Bug("lower_expr", "%s: unexpected payload %T", e.Kind, e.Data)
}

func (cx *Cx) expr(e *hir.Expr, kind ExprKind, data ExprData) *Expr {
	return &Expr{Kind: kind, Type: e.Type, Span: e.Span, Data: data}
}

func (cx *Cx) lowerExprs(list []*hir.Expr) ([]*Expr, error) {
	out := make([]*Expr, 0, len(list))
	for _, e := range list {
		m, err := Convert[*Expr](cx, ExprRef{Expr: e})
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (cx *Cx) lowerLiteral(e *hir.Expr, data hir.LiteralData) (*Expr, error) {
	var lit Literal
	switch data.Kind {
	case hir.LiteralInt:
		// Range-checks the literal against its type, usize included.
		l, err := cx.ConstEvalLiteral(e)
		if err != nil {
			return nil, err
		}
		lit = l
		if e.Type == cx.UsizeType() {
			if lit, err = cx.UsizeLiteral(data.Int); err != nil {
				return nil, err
			}
		}
	case hir.LiteralBool:
		if data.Bool {
			lit = cx.TrueLiteral()
		} else {
			lit = cx.FalseLiteral()
		}
	case hir.LiteralString:
		lit = cx.StrLiteral(data.String)
	case hir.LiteralUnit:
		return cx.expr(e, ExprTuple, TupleExpr{}), nil
	default:
		return nil, Bug("lower_literal", "unknown literal kind %d", data.Kind)
	}
	return cx.expr(e, ExprLiteral, LiteralExpr{Literal: lit}), nil
}

func (cx *Cx) isPrimitive(ty types.TypeID) bool {
	t, ok := cx.tcx.TypeOf(ty)
	return ok && t.IsPrimitive()
}

func (cx *Cx) isInteger(ty types.TypeID) (signed, ok bool) {
	t, found := cx.tcx.TypeOf(ty)
	if !found || !t.IsInteger() {
		return false, false
	}
	return t.Kind == types.KindInt, true
}

func (cx *Cx) lowerUnary(e *hir.Expr, data hir.UnaryData) (*Expr, error) {
	if data.Operand == nil {
		return nil, Bug("lower_unary", "missing operand")
	}
	if data.Op == hir.OpNeg {
		if lit, ok := data.Operand.Data.(hir.LiteralData); ok && lit.Kind == hir.LiteralInt {
			folded, err := cx.ConstEvalLiteral(e)
			if err != nil {
				return nil, err
			}
			return cx.expr(e, ExprLiteral, LiteralExpr{Literal: folded}), nil
		}
	}
	if !cx.isPrimitive(data.Operand.Type) {
		lang, method := data.Op.Overload()
		return cx.overloaded(e, lang, method, []*hir.Expr{data.Operand})
	}
	arg, err := Convert[*Expr](cx, ExprRef{Expr: data.Operand})
	if err != nil {
		return nil, err
	}
	signed, isInt := cx.isInteger(data.Operand.Type)
	checked := cx.CheckOverflow() && data.Op == hir.OpNeg && isInt && signed
	return cx.expr(e, ExprUnary, UnaryExpr{Op: data.Op, Arg: arg, Checked: checked}), nil
}

func (cx *Cx) lowerBinary(e *hir.Expr, data hir.BinaryData) (*Expr, error) {
	if data.LHS == nil || data.RHS == nil {
		return nil, Bug("lower_binary", "missing operand for `%s`", data.Op)
	}
	if !data.Op.IsLogical() && !(cx.isPrimitive(data.LHS.Type) && cx.isPrimitive(data.RHS.Type)) {
		lang, method, ok := data.Op.Overload()
		if !ok {
			return nil, Bug("lower_binary", "operator `%s` cannot be overloaded", data.Op)
		}
		return cx.overloaded(e, lang, method, []*hir.Expr{data.LHS, data.RHS})
	}

	lhs, err := Convert[*Expr](cx, ExprRef{Expr: data.LHS})
	if err != nil {
		return nil, err
	}
	rhs, err := Convert[*Expr](cx, ExprRef{Expr: data.RHS})
	if err != nil {
		return nil, err
	}
	if data.Op.IsLogical() {
		return cx.expr(e, ExprLogical, LogicalExpr{Op: data.Op, LHS: lhs, RHS: rhs}), nil
	}

	_, isInt := cx.isInteger(data.LHS.Type)
	bin := BinaryExpr{Op: data.Op, LHS: lhs, RHS: rhs}
	switch data.Op {
	case hir.OpAdd, hir.OpSub, hir.OpMul:
		bin.Checked = cx.CheckOverflow() && isInt
	case hir.OpDiv, hir.OpRem:
		bin.AssertNonZero = isInt
	}
	return cx.expr(e, ExprBinary, bin), nil
}

// overloaded lowers an operator to a call of the lang trait's method. The
// first operand is the Self type; the rest are the trait's parameters.
func (cx *Cx) overloaded(e *hir.Expr, lang symbols.LangItem, method string, operands []*hir.Expr) (*Expr, error) {
	trait, ok := cx.tcx.Lang(lang)
	if !ok {
		return nil, Bug("lower_overloaded", "lang item `%s` is not defined", lang)
	}
	self := operands[0].Type
	params := make([]types.TypeID, 0, len(operands)-1)
	for _, op := range operands[1:] {
		params = append(params, op.Type)
	}
	fnTy, lit, err := cx.TraitMethod(trait, method, self, params)
	if err != nil {
		return nil, err
	}
	args, err := cx.lowerExprs(operands)
	if err != nil {
		return nil, err
	}
	fn := &Expr{Kind: ExprLiteral, Type: fnTy, Span: e.Span, Data: LiteralExpr{Literal: lit}}
	return cx.expr(e, ExprCall, CallExpr{Fn: fn, Args: args, Overloaded: true}), nil
}

func (cx *Cx) lowerCall(e *hir.Expr, data hir.CallData) (*Expr, error) {
	sym, ok := cx.tcx.Symbol(data.Callee)
	if !ok || (sym.Kind != symbols.SymbolFunction && sym.Kind != symbols.SymbolMethod) {
		return nil, Bug("lower_call", "callee %d is not a function", data.Callee)
	}
	args, err := cx.lowerExprs(data.Args)
	if err != nil {
		return nil, err
	}
	if len(data.TypeArgs) != len(sym.Generics) {
		return nil, Bug("lower_call", "callee `%s` takes %d type arguments, got %d",
			cx.tcx.SymbolName(data.Callee), len(sym.Generics), len(data.TypeArgs))
	}
	substs := &types.Substs{Types: slices.Clone(data.TypeArgs)}
	lit := LiteralItem{Def: data.Callee, Substs: substs}
	fnTy := cx.tcx.Subst(cx.tcx.ItemType(data.Callee), substs)
	fn := &Expr{Kind: ExprLiteral, Type: fnTy, Span: e.Span, Data: LiteralExpr{Literal: lit}}
	return cx.expr(e, ExprCall, CallExpr{Fn: fn, Args: args}), nil
}

func (cx *Cx) lowerCtor(e *hir.Expr, data hir.CtorData) (*Expr, error) {
	adt, args, ok := cx.tcx.AdtOf(e.Type)
	if !ok {
		return nil, Bug("lower_ctor", "constructor of non-ADT type %s", cx.tcx.TypeLabel(e.Type))
	}
	if data.Variant < 0 || data.Variant >= cx.NumVariants(adt) {
		return nil, Bug("lower_ctor", "variant %d out of range for %s", data.Variant, cx.tcx.TypeLabel(e.Type))
	}
	fields := cx.AllFields(adt, data.Variant)
	if len(fields) != len(data.Args) {
		return nil, Bug("lower_ctor", "%s variant %d has %d fields, got %d initializers",
			cx.tcx.TypeLabel(e.Type), data.Variant, len(fields), len(data.Args))
	}
	values, err := cx.lowerExprs(data.Args)
	if err != nil {
		return nil, err
	}
	inits := make([]FieldExpr, len(fields))
	for i, f := range fields {
		inits[i] = FieldExpr{Field: f, Value: values[i]}
	}
	return cx.expr(e, ExprAdt, AdtExpr{Adt: adt, Variant: data.Variant, Args: args, Fields: inits}), nil
}

// fieldsOf returns the fields of a value with a single shape: a tuple or a
// single-variant ADT.
func (cx *Cx) fieldsOf(ty types.TypeID) ([]Field, bool) {
	if elems, ok := cx.tcx.TupleElems(ty); ok {
		fields := make([]Field, len(elems))
		for i := range fields {
			fields[i] = Field(i)
		}
		return fields, true
	}
	if adt, _, ok := cx.tcx.AdtOf(ty); ok && cx.NumVariants(adt) == 1 {
		return cx.AllFields(adt, 0), true
	}
	return nil, false
}

func (cx *Cx) lowerFieldAccess(e *hir.Expr, data hir.FieldData) (*Expr, error) {
	if data.Base == nil {
		return nil, Bug("lower_field", "missing base")
	}
	fields, ok := cx.fieldsOf(data.Base.Type)
	if !ok {
		return nil, Bug("lower_field", "field access on %s", cx.tcx.TypeLabel(data.Base.Type))
	}
	if data.Index < 0 || data.Index >= len(fields) {
		return nil, Bug("lower_field", "field %d out of range for %s", data.Index, cx.tcx.TypeLabel(data.Base.Type))
	}
	base, err := Convert[*Expr](cx, ExprRef{Expr: data.Base})
	if err != nil {
		return nil, err
	}
	return cx.expr(e, ExprField, FieldAccessExpr{Base: base, Field: fields[data.Index]}), nil
}

func (cx *Cx) lowerIf(e *hir.Expr, data hir.IfData) (*Expr, error) {
	cond, err := Convert[*Expr](cx, ExprRef{Expr: data.Cond})
	if err != nil {
		return nil, err
	}
	then, err := Convert[*Expr](cx, ExprRef{Expr: data.Then})
	if err != nil {
		return nil, err
	}
	out := IfExpr{Cond: cond, Then: then}
	if data.Else != nil {
		if out.Else, err = Convert[*Expr](cx, ExprRef{Expr: data.Else}); err != nil {
			return nil, err
		}
	}
	return cx.expr(e, ExprIf, out), nil
}

func (cx *Cx) lowerMatch(e *hir.Expr, data hir.MatchData) (*Expr, error) {
	scrutinee, err := Convert[*Expr](cx, ExprRef{Expr: data.Scrutinee})
	if err != nil {
		return nil, err
	}
	arms := make([]Arm, 0, len(data.Arms))
	for _, arm := range data.Arms {
		pat, err := Convert[*Pattern](cx, PatternRef{Pattern: arm.Pattern})
		if err != nil {
			return nil, err
		}
		body, err := Convert[*Expr](cx, ExprRef{Expr: arm.Body})
		if err != nil {
			return nil, err
		}
		arms = append(arms, Arm{Pattern: pat, Body: body})
	}
	return cx.expr(e, ExprMatch, MatchExpr{Scrutinee: scrutinee, Arms: arms}), nil
}

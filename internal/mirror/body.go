package mirror

import (
	"mirror/internal/hir"
	"mirror/internal/symbols"
	"mirror/internal/types"
)

// Param is a lowered function parameter.
type Param struct {
	Local hir.LocalID
	Name  string
	Type  types.TypeID
}

// Body is the lowered form of one compilation unit.
type Body struct {
	Source        Source
	Def           symbols.SymbolID
	Name          string
	Constness     hir.Constness
	CheckOverflow bool
	Params        []Param
	Result        types.TypeID
	Value         *Expr
	// Drops lists the parameters dropped when the body returns.
	Drops []Drop
}

func (cx *Cx) newBody(name string, result types.TypeID) *Body {
	return &Body{
		Source:        cx.src,
		Def:           cx.def,
		Name:          name,
		Constness:     cx.constness,
		CheckOverflow: cx.checkOverflow,
		Result:        result,
	}
}

// LowerFn lowers the body of a function or method.
func LowerFn(cx *Cx, fn *hir.Func) (*Body, error) {
	if fn == nil || !fn.HasBody() {
		return nil, Bug("lower_fn", "function without body")
	}
	body := cx.newBody(fn.Name, fn.Result)
	bindings := make([]*hir.Pattern, 0, len(fn.Params))
	for _, p := range fn.Params {
		body.Params = append(body.Params, Param{Local: p.Local, Name: p.Name, Type: p.Type})
		bindings = append(bindings, &hir.Pattern{Kind: hir.PatBinding, Local: p.Local, Name: p.Name, Type: p.Type, Span: p.Span})
	}
	value, err := Convert[*Expr](cx, ExprRef{Expr: fn.Body})
	if err != nil {
		return nil, err
	}
	body.Value = value
	if body.Drops, err = cx.scheduleDrops(bindings); err != nil {
		return nil, err
	}
	return body, nil
}

// LowerConst lowers the initializer of a const or static item.
func LowerConst(cx *Cx, item *hir.Item) (*Body, error) {
	if item == nil || item.Const == nil || item.Const.Value == nil {
		return nil, Bug("lower_const", "constant without initializer")
	}
	body := cx.newBody(item.Name, item.Const.Type)
	value, err := Convert[*Expr](cx, ExprRef{Expr: item.Const.Value})
	if err != nil {
		return nil, err
	}
	body.Value = value
	return body, nil
}

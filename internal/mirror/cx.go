package mirror

import (
	"fmt"

	"fortio.org/safecast"

	"mirror/internal/consteval"
	"mirror/internal/depgraph"
	"mirror/internal/hir"
	"mirror/internal/source"
	"mirror/internal/symbols"
	"mirror/internal/trace"
	"mirror/internal/types"
)

// Cx is the lowering context of one compilation unit. Its constness and
// overflow-check flag are fixed at construction. A Cx is used by a single
// goroutine; it holds the shared TypeContext by reference only.
type Cx struct {
	tcx           TypeContext
	src           Source
	def           symbols.SymbolID
	constness     hir.Constness
	checkOverflow bool
}

// Option configures NewCx.
type Option func(*cxOptions)

type cxOptions struct {
	tracer trace.Tracer
	parent uint64
}

// WithTracer reports context construction to tr as a point event under the
// given parent span.
func WithTracer(tr trace.Tracer, parent uint64) Option {
	return func(o *cxOptions) {
		o.tracer = tr
		o.parent = parent
	}
}

// NewCx builds the lowering context for src. It registers a read of the
// unit's type-checked body in the dependency log; the body's side tables
// are not tracked individually.
func NewCx(tcx TypeContext, src Source, opts ...Option) (*Cx, error) {
	if tcx == nil {
		return nil, Bug("new_cx", "nil type context")
	}
	o := cxOptions{tracer: trace.Nop}
	for _, opt := range opts {
		opt(&o)
	}

	constness, err := Classify(src, tcx)
	if err != nil {
		return nil, err
	}
	def, ok := tcx.DefOf(src.ItemID())
	if !ok {
		return nil, Bug("new_cx", "no definition for %s", src)
	}
	tcx.ReadDep(depgraph.TypeckBody(def))

	attrs := tcx.Attrs(src.ItemID())
	cx := &Cx{
		tcx:           tcx,
		src:           src,
		def:           def,
		constness:     constness,
		checkOverflow: OverflowChecks(attrs, tcx.Options(), constness),
	}
	trace.Point(o.tracer, trace.ScopeNode, "cx", fmt.Sprintf("%s %s constness=%s check_overflow=%t",
		src, tcx.SymbolName(def), constness, cx.checkOverflow), o.parent)
	return cx, nil
}

// Source returns the unit being lowered.
func (cx *Cx) Source() Source { return cx.src }

// Def returns the definition the unit belongs to.
func (cx *Cx) Def() symbols.SymbolID { return cx.def }

func (cx *Cx) Constness() hir.Constness { return cx.constness }

func (cx *Cx) TypeContext() TypeContext { return cx.tcx }

// CheckOverflow reports whether + - * must be overflow-checked in this unit.
func (cx *Cx) CheckOverflow() bool { return cx.checkOverflow }

func (cx *Cx) UsizeType() types.TypeID  { return cx.tcx.Builtins().Usize }
func (cx *Cx) BoolType() types.TypeID   { return cx.tcx.Builtins().Bool }
func (cx *Cx) UnitType() types.TypeID   { return cx.tcx.Builtins().Unit }
func (cx *Cx) StringType() types.TypeID { return cx.tcx.Builtins().String }

func (cx *Cx) TrueLiteral() Literal  { return cx.boolLiteral(true) }
func (cx *Cx) FalseLiteral() Literal { return cx.boolLiteral(false) }

func (cx *Cx) boolLiteral(b bool) Literal {
	return LiteralValue{Value: consteval.BoolValue(b, cx.BoolType())}
}

// StrLiteral builds a string constant from an interned string.
func (cx *Cx) StrLiteral(s source.StringID) Literal {
	return LiteralValue{Value: consteval.StrValue(s, cx.StringType())}
}

// UsizeLiteral builds a usize constant. Values that do not fit the target's
// pointer width are an internal error: callers only produce indices and
// lengths that are already known to fit.
func (cx *Cx) UsizeLiteral(v uint64) (Literal, error) {
	target := cx.tcx.Target()
	switch target.PtrSize {
	case 4:
		if _, err := safecast.Conv[uint32](v); err != nil {
			return nil, Bug("usize_literal", "usize literal %d out of range for target %s", v, target.Triple)
		}
	case 8:
	default:
		return nil, Bug("usize_literal", "unsupported pointer size %d on target %s", target.PtrSize, target.Triple)
	}
	width := uint8(target.PtrBits())
	return LiteralValue{Value: consteval.UintValue(v, width, cx.UsizeType())}, nil
}

// UsizeValue decodes a literal built by UsizeLiteral.
func (cx *Cx) UsizeValue(lit Literal) (uint64, bool) {
	lv, ok := lit.(LiteralValue)
	if !ok || lv.Value.Kind != consteval.KindInt || lv.Value.Type != cx.UsizeType() {
		return 0, false
	}
	return lv.Value.Uint64(), true
}

// ConstEvalLiteral folds e to a constant. Evaluation errors are user errors
// and are returned unchanged.
func (cx *Cx) ConstEvalLiteral(e *hir.Expr) (Literal, error) {
	v, err := cx.tcx.ConstEval(e)
	if err != nil {
		return nil, err
	}
	return LiteralValue{Value: v}, nil
}

// TraitMethod finds the method called name in trait and instantiates it for
// self and params. It returns the method's instantiated type and an item
// literal naming it. Associated constants and types are skipped; if several
// methods share the name, the first in declaration order wins.
func (cx *Cx) TraitMethod(trait symbols.SymbolID, name string, self types.TypeID, params []types.TypeID) (types.TypeID, Literal, error) {
	substs := types.NewTraitSubsts(params, self)
	if want, ok := cx.tcx.Strings().LookupIdent(name); ok {
		for _, item := range cx.tcx.TraitItems(trait) {
			switch item.Kind {
			case symbols.TraitItemConst, symbols.TraitItemType:
				continue
			case symbols.TraitItemMethod:
				if item.Name != want {
					continue
				}
				ty := cx.tcx.Subst(cx.tcx.ItemType(item.Sym), substs)
				return ty, LiteralItem{Def: item.Sym, Substs: substs}, nil
			}
		}
	}
	return types.NoTypeID, nil, Bug("trait_method", "found no method `%s` in trait `%s`", name, cx.tcx.SymbolName(trait))
}

// NumVariants returns the number of variants of adt.
func (cx *Cx) NumVariants(adt *types.AdtDef) int {
	return len(adt.Variants)
}

// AllFields lists the fields of one variant in order. An out-of-range
// variant panics.
func (cx *Cx) AllFields(adt *types.AdtDef, variant int) []Field {
	n := len(adt.Variants[variant].Fields)
	fields := make([]Field, n)
	for i := range fields {
		fields[i] = Field(i)
	}
	return fields
}

// NeedsDrop reports whether values of ty need drop glue when they go out of
// scope. Types containing inference variables cannot be answered.
func (cx *Cx) NeedsDrop(ty types.TypeID) (bool, error) {
	if cx.tcx.HasInfer(ty) {
		return false, Bug("needs_drop", "type %s has inference variables", cx.tcx.TypeLabel(ty))
	}
	return cx.tcx.NeedsDrop(ty), nil
}

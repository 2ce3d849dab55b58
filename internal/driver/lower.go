// Package driver lowers every unit of a program, one lowering context per
// unit, on a bounded pool of workers.
package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"mirror/internal/consteval"
	"mirror/internal/depgraph"
	"mirror/internal/diag"
	"mirror/internal/fixture"
	"mirror/internal/mirror"
	"mirror/internal/observ"
	"mirror/internal/session"
	"mirror/internal/trace"
	"mirror/internal/tyctx"
)

// Options configures LowerProgram.
type Options struct {
	Session session.Options
	// Jobs bounds the number of units lowered at once; <= 0 means GOMAXPROCS.
	Jobs int
	// MaxDiagnostics caps the result bag; <= 0 means unlimited.
	MaxDiagnostics int
	// Deps receives the dependency reads; a fresh log is created when nil.
	Deps *depgraph.Log
	// Timer, when set, receives a "lower" phase.
	Timer *observ.Timer
}

// UnitResult is the outcome of one unit. Body is nil when lowering the unit
// produced a diagnostic.
type UnitResult struct {
	Name   string
	Source mirror.Source
	Body   *mirror.Body
	// Value is the evaluated initializer of a const or static.
	Value *consteval.Value
}

// Result is the outcome of LowerProgram. Units are sorted by name.
type Result struct {
	Units   []UnitResult
	Bag     *diag.Bag
	Deps    *depgraph.Log
	Global  *tyctx.Global
	Metrics Metrics
}

// Unit returns the result for the named unit.
func (r *Result) Unit(name string) (*UnitResult, bool) {
	i := sort.Search(len(r.Units), func(i int) bool { return r.Units[i].Name >= name })
	if i < len(r.Units) && r.Units[i].Name == name {
		return &r.Units[i], true
	}
	return nil, false
}

// LowerProgram lowers every fn, method, const and static of prog.
//
// Constant evaluation failures are reported to the result's bag and the
// remaining units are still lowered. An internal compiler error stops the
// run: outstanding units are cancelled and the error is returned.
func LowerProgram(ctx context.Context, prog *fixture.Program, opts Options) (*Result, error) {
	if prog == nil {
		return nil, errors.New("driver: nil program")
	}
	g, err := tyctx.New(tyctx.Config{
		Types:   prog.Types,
		Symbols: prog.Symbols,
		Module:  prog.Module,
		Options: opts.Session,
		Deps:    opts.Deps,
	})
	if err != nil {
		return nil, err
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	maxDiags := opts.MaxDiagnostics
	if maxDiags <= 0 {
		maxDiags = int(^uint(0) >> 1)
	}

	tracer := trace.FromContext(ctx)
	pass, ctx := trace.StartSpan(ctx, trace.ScopePass, "lower")
	var phase int
	if opts.Timer != nil {
		phase = opts.Timer.Begin("lower")
	}

	units := collectUnits(prog.Module)
	res := &Result{
		Units:  make([]UnitResult, len(units)),
		Bag:    diag.NewBag(maxDiags),
		Deps:   g.Deps(),
		Global: g,
	}
	metrics := &lowerMetrics{}

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(1, min(jobs, len(units))))
	for i, u := range units {
		eg.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			metrics.enter()
			defer metrics.leave()

			// Each index is written by exactly one worker.
			out, err := lowerUnit(g, u, tracer, pass, res.Bag, metrics)
			if err != nil {
				return err
			}
			res.Units[i] = out
			return nil
		})
	}
	err = eg.Wait()

	res.Metrics = metrics.snapshot(jobs)
	if opts.Timer != nil {
		opts.Timer.End(phase, fmt.Sprintf("%d units", len(units)))
	}
	pass.WithExtra("units", fmt.Sprint(len(units))).End(fmt.Sprintf("lowered=%d failed=%d", res.Metrics.Lowered, res.Metrics.Failed))
	if err != nil {
		return nil, err
	}

	sort.SliceStable(res.Units, func(i, j int) bool { return res.Units[i].Name < res.Units[j].Name })
	res.Bag.Sort()
	res.Bag.Dedup()
	return res, nil
}

func lowerUnit(g *tyctx.Global, u unit, tracer trace.Tracer, pass *trace.Span, bag *diag.Bag, metrics *lowerMetrics) (UnitResult, error) {
	span := pass.Child(trace.ScopeUnit, "unit:"+u.name)
	out := UnitResult{Name: u.name, Source: u.src}
	reporter := diag.UnitReporter{Unit: u.name, Next: diag.BagReporter{Bag: bag}}

	tcx := g.Unit(u.name, u.generics)
	cx, err := mirror.NewCx(tcx, u.src, mirror.WithTracer(tracer, span.ID()))
	if err != nil {
		span.End("error")
		return out, fmt.Errorf("%s: %w", u.name, err)
	}
	span.WithExtra("constness", cx.Constness().String()).
		WithExtra("check_overflow", fmt.Sprint(cx.CheckOverflow()))

	var body *mirror.Body
	if u.fn != nil {
		body, err = mirror.LowerFn(cx, u.fn)
	} else {
		body, err = mirror.LowerConst(cx, u.item)
	}
	if err != nil {
		if reportUserError(reporter, err) {
			metrics.failed.Add(1)
			span.End("diagnostic")
			return out, nil
		}
		span.End("error")
		return out, fmt.Errorf("%s: %w", u.name, err)
	}
	out.Body = body
	metrics.lowered.Add(1)

	// Initializers are evaluated as well so that overflow in a constant is
	// reported even when every literal in it is in range.
	if u.item != nil {
		v, err := tcx.ConstEval(u.item.Const.Value)
		metrics.evaluated.Add(1)
		if err != nil {
			if !reportUserError(reporter, err) {
				span.End("error")
				return out, fmt.Errorf("%s: %w", u.name, err)
			}
			metrics.failed.Add(1)
		} else {
			out.Value = &v
		}
	}
	span.End("")
	return out, nil
}

// reportUserError reports constant evaluation errors and tells whether err
// was one.
func reportUserError(r diag.Reporter, err error) bool {
	var ce *consteval.Error
	if !errors.As(err, &ce) {
		return false
	}
	r.Report(ce.Diagnostic())
	return true
}

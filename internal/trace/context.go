package trace

import "context"

type tracerKey struct{}

type spanKey struct{}

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches t to ctx; a nil t means Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// SpanFromContext returns the innermost span started with StartSpan, or nil.
func SpanFromContext(ctx context.Context) *Span {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(spanKey{}).(*Span)
	return s
}

// StartSpan opens a span on the context's tracer, nested in the context's
// current span, and returns a context carrying it.
func StartSpan(ctx context.Context, scope Scope, name string) (*Span, context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	s := Begin(FromContext(ctx), scope, name, SpanFromContext(ctx).ID())
	if s.ID() == 0 {
		return s, ctx
	}
	return s, context.WithValue(ctx, spanKey{}, s)
}

// Package trace provides structured tracing for the lowering pipeline.
//
// Tracing records the driver command, the lowering pass, every compilation
// unit, and (at debug level) every lowering context that gets constructed.
// It is the only logging facility of the module.
//
// # Usage
//
//	mirror lower --trace=- --trace-level=detail program.toml
//
// # Tracers
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: immediate write to output (file/stderr)
//   - RingTracer: circular buffer, dumped to the trace path when the command exits
//   - MultiTracer: fan-out to several tracers
//
// # Scopes
//
//   - ScopeDriver: CLI command
//   - ScopePass: load / lower / deps
//   - ScopeUnit: one function, constant or static
//   - ScopeNode: lowering-context construction
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span, ctx := trace.StartSpan(ctx, trace.ScopePass, "lower")
//	defer span.End("")
//	unit := span.Child(trace.ScopeUnit, "unit:add_one")
package trace

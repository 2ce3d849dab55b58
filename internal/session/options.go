// Package session holds the compilation options the lowering consults and
// loads them from mirror.toml.
package session

import (
	"mirror/internal/layout"
)

// Options are the codegen settings visible to a lowering context.
type Options struct {
	// ForceOverflowChecks overrides DebugAssertions when set.
	ForceOverflowChecks Tristate
	DebugAssertions     bool
	// Target is a target triple; empty means layout.Default.
	Target string
}

// Default returns options for a release build on the default target.
func Default() Options {
	return Options{}
}

// OverflowChecks is the session-wide overflow check default: the forced
// setting if any, otherwise whether debug assertions are on.
func (o Options) OverflowChecks() bool {
	return o.ForceOverflowChecks.UnwrapOr(o.DebugAssertions)
}

// ResolveTarget maps Target to its layout.
func (o Options) ResolveTarget() (layout.Target, error) {
	return layout.ByTriple(o.Target)
}

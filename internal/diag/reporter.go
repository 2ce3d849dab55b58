package diag

import "mirror/internal/source"

// Reporter is the minimal contract for receiving diagnostics from a phase.
type Reporter interface {
	Report(d Diagnostic)
}

// BagReporter writes into a *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(d)
}

// UnitReporter attributes every diagnostic to a lowering unit before
// forwarding it.
type UnitReporter struct {
	Unit string
	Next Reporter
}

func (r UnitReporter) Report(d Diagnostic) {
	if r.Next == nil {
		return
	}
	r.Next.Report(d.InUnit(r.Unit))
}

// ReportError is a shortcut for emitting SevError diagnostics.
func ReportError(r Reporter, code Code, primary source.Span, msg string) {
	if r == nil {
		return
	}
	r.Report(NewError(code, primary, msg))
}

package diag

import (
	"mirror/internal/source"
)

// Note is a secondary span with an explanatory message.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is a user-facing finding produced while lowering.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Unit     string // lowering unit that produced the diagnostic, if any
	Notes    []Note
}

// New builds a diagnostic without notes.
func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

// NewError is a shortcut for SevError diagnostics.
func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

// WithNote returns a copy of d with an extra note.
func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

// InUnit returns a copy of d attributed to the named unit.
func (d Diagnostic) InUnit(unit string) Diagnostic {
	d.Unit = unit
	return d
}

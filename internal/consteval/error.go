package consteval

import (
	"fmt"

	"mirror/internal/diag"
	"mirror/internal/source"
)

// Error is a user-diagnosable failure of constant evaluation.
type Error struct {
	Code diag.Code
	Span source.Span
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

// Diagnostic converts the error into a reportable diagnostic.
func (e *Error) Diagnostic() diag.Diagnostic {
	return diag.NewError(e.Code, e.Span, e.Msg)
}

func errorf(code diag.Code, span source.Span, format string, args ...any) *Error {
	return &Error{Code: code, Span: span, Msg: fmt.Sprintf(format, args...)}
}

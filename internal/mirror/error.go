package mirror

import (
	"errors"
	"fmt"
)

// InternalError reports a violated compiler invariant. It is never a user
// mistake and is never recovered from.
type InternalError struct {
	Op  string
	Msg string
}

func (e *InternalError) Error() string {
	if e.Op == "" {
		return "internal compiler error: " + e.Msg
	}
	return fmt.Sprintf("internal compiler error: %s: %s", e.Op, e.Msg)
}

// Bug builds an InternalError for operation op.
func Bug(op, format string, args ...any) error {
	return &InternalError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// IsInternal reports whether err wraps an InternalError.
func IsInternal(err error) bool {
	var ice *InternalError
	return errors.As(err, &ice)
}

package schema

import (
	"fmt"

	"github.com/0xhappyboy/bubble"
)

// Error reports a declaration that cannot be mapped onto a table.
// It matches bubble.ErrSchema with errors.Is.
type Error struct {
	Type  string // Go type name
	Field string // Go field name, if the failure is about a single field
	Msg   string
	Err   error // Underlying error, if any
}

// Error returns the error string.
func (e *Error) Error() string {
	var s string
	if e.Field != "" {
		s = fmt.Sprintf("schema: %s.%s: %s", e.Type, e.Field, e.Msg)
	} else {
		s = fmt.Sprintf("schema: %s: %s", e.Type, e.Msg)
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is bubble.ErrSchema.
func (e *Error) Is(target error) bool {
	return target == bubble.ErrSchema
}

func typeError(typ, format string, args ...any) *Error {
	return &Error{Type: typ, Msg: fmt.Sprintf(format, args...)}
}

func fieldError(typ, field, format string, args ...any) *Error {
	return &Error{Type: typ, Field: field, Msg: fmt.Sprintf(format, args...)}
}

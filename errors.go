package bubble

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies the failures reported by generated clients and the
// database abstraction.
type Kind uint8

// Error kinds.
const (
	KindUnknown Kind = iota
	KindNotFound
	KindDataIntegrity
	KindTypeMismatch
	KindInvalidState
	KindTimeout
	KindDriver
)

var kindNames = [...]string{
	KindUnknown:       "unknown",
	KindNotFound:      "not found",
	KindDataIntegrity: "data integrity violated",
	KindTypeMismatch:  "type mismatch",
	KindInvalidState:  "invalid state",
	KindTimeout:       "timeout",
	KindDriver:        "driver error",
}

// String returns the human readable name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Standard sentinel errors. Every *Error matches the sentinel of its kind
// with errors.Is.
var (
	// ErrNotFound is returned when a lookup expected a record that is absent.
	// FindByKey does not use it: an absent key is a nil result.
	ErrNotFound = errors.New("bubble: record not found")

	// ErrDataIntegrity is returned when more than one row shares a key.
	ErrDataIntegrity = errors.New("bubble: data integrity violated")

	// ErrTypeMismatch is returned when a stored value cannot be mapped onto
	// the declared field type.
	ErrTypeMismatch = errors.New("bubble: type mismatch")

	// ErrInvalidState is returned when a finished transaction or a consumed
	// cursor is used again.
	ErrInvalidState = errors.New("bubble: invalid state")

	// ErrTimeout is returned when the driver or the context reports a timeout.
	ErrTimeout = errors.New("bubble: operation timed out")

	// ErrDriver is returned for any other failure reported by the driver.
	ErrDriver = errors.New("bubble: driver error")

	// ErrSchema is matched by every build-time schema derivation failure.
	ErrSchema = errors.New("bubble: invalid schema")
)

func (k Kind) sentinel() error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindDataIntegrity:
		return ErrDataIntegrity
	case KindTypeMismatch:
		return ErrTypeMismatch
	case KindInvalidState:
		return ErrInvalidState
	case KindTimeout:
		return ErrTimeout
	case KindDriver:
		return ErrDriver
	}
	return nil
}

// Error is the run-time error returned by generated clients, the query
// builder and the drivers.
type Error struct {
	Kind  Kind
	Op    string // Operation (e.g. "insert", "find_by_key", "exec")
	Table string // Table the operation ran against, if any
	Err   error  // Underlying error, if any
}

// Error returns the error string.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString("bubble: ")
	if e.Op != "" {
		sb.WriteString(e.Op)
		if e.Table != "" {
			sb.WriteByte(' ')
			sb.WriteString(e.Table)
		}
		sb.WriteString(": ")
	}
	sb.WriteString(e.Kind.String())
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel of the error kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// NewError returns a new Error of the given kind.
func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf returns a new Error of the given kind with a formatted cause.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// WithOp annotates err with the operation and table it happened in.
// Errors that are not *Error are classified as driver errors. A nil error
// stays nil, and an *Error that already names its table is returned as is.
// The low-level operation of a driver error ("exec", "query") is replaced.
func WithOp(err error, op, table string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if !errors.As(err, &e) {
		return &Error{Kind: KindDriver, Op: op, Table: table, Err: err}
	}
	if e.Table != "" {
		return err
	}
	c := *e
	c.Op, c.Table = op, table
	return &c
}

// KindOf returns the kind of the first *Error in the chain of err, or
// KindUnknown if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsNotFound returns true if the error reports a missing record.
func IsNotFound(err error) bool {
	return err != nil && errors.Is(err, ErrNotFound)
}

// IsDataIntegrity returns true if the error reports a duplicated key.
func IsDataIntegrity(err error) bool {
	return err != nil && errors.Is(err, ErrDataIntegrity)
}

// IsTypeMismatch returns true if the error reports a value mapping failure.
func IsTypeMismatch(err error) bool {
	return err != nil && errors.Is(err, ErrTypeMismatch)
}

// IsInvalidState returns true if the error reports use of a finished
// transaction or cursor.
func IsInvalidState(err error) bool {
	return err != nil && errors.Is(err, ErrInvalidState)
}

// IsTimeout returns true if the error reports a timeout.
func IsTimeout(err error) bool {
	return err != nil && errors.Is(err, ErrTimeout)
}

// IsDriver returns true if the error is a driver failure.
func IsDriver(err error) bool {
	return err != nil && errors.Is(err, ErrDriver)
}

// IsSchema returns true if the error is a build-time schema failure.
func IsSchema(err error) bool {
	return err != nil && errors.Is(err, ErrSchema)
}

// RollbackError wraps an error that occurred during a transaction rollback.
type RollbackError struct {
	Err      error // Error that triggered the rollback
	Rollback error // Error returned by the rollback itself
}

// Error returns the error string.
func (e *RollbackError) Error() string {
	return fmt.Sprintf("bubble: %v: rolling back transaction: %v", e.Err, e.Rollback)
}

// Unwrap returns both underlying errors.
func (e *RollbackError) Unwrap() []error {
	return []error{e.Err, e.Rollback}
}

// AggregateError represents multiple errors collected during an operation.
type AggregateError struct {
	Errors []error
}

// Error returns the error string.
func (e *AggregateError) Error() string {
	if len(e.Errors) == 0 {
		return "bubble: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("bubble: multiple errors:")
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "\n  [%d] %v", i+1, err)
	}
	return sb.String()
}

// Unwrap returns the collected errors.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// NewAggregateError returns a new AggregateError if there are errors,
// otherwise returns nil.
func NewAggregateError(errs ...error) error {
	var filtered []error
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &AggregateError{Errors: filtered}
}

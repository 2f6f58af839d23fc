package kuzu

import (
	"errors"
	"fmt"
)

// ErrorType represents different kinds of errors raised by the binding.
type ErrorType int

const (
	// ErrGeneric is a generic error.
	ErrGeneric ErrorType = iota
	// ErrDisposed is returned by any operation on a value, row, result or
	// statement after it has been closed or invalidated by its owner.
	ErrDisposed
	// ErrTypeMismatch is returned when a typed accessor does not match the
	// value's tag.
	ErrTypeMismatch
	// ErrOutOfRange is returned for indexed access beyond a container's bounds.
	ErrOutOfRange
	// ErrUnsupportedMemberType is returned by BindObject when a member has no
	// coercion rule.
	ErrUnsupportedMemberType
	// ErrPrepare is a statement preparation (parse or plan) error.
	ErrPrepare
	// ErrExec is a statement execution error.
	ErrExec
	// ErrNotSupported is returned when the engine does not offer an operation.
	ErrNotSupported
	// ErrConnection is a database or connection error.
	ErrConnection
	// ErrBind is a parameter binding error.
	ErrBind
	// ErrTransaction is a transaction error.
	ErrTransaction
)

var errorTypeNames = [...]string{
	ErrGeneric:               "generic",
	ErrDisposed:              "disposed access",
	ErrTypeMismatch:          "type mismatch",
	ErrOutOfRange:            "out of range",
	ErrUnsupportedMemberType: "unsupported member type",
	ErrPrepare:               "prepare",
	ErrExec:                  "execution",
	ErrNotSupported:          "not supported",
	ErrConnection:            "connection",
	ErrBind:                  "bind",
	ErrTransaction:           "transaction",
}

// String returns the name of the error type.
func (t ErrorType) String() string {
	if int(t) >= 0 && int(t) < len(errorTypeNames) {
		return errorTypeNames[t]
	}
	return fmt.Sprintf("ErrorType(%d)", int(t))
}

// Error is a kuzu-specific error type.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
}

// Error returns the error message.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Type.String()
	}
	if e.Cause != nil {
		return fmt.Sprintf("kuzu: %s: %v", msg, e.Cause)
	}
	return fmt.Sprintf("kuzu: %s", msg)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same Type. It lets callers
// match against the sentinel values below with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Type == e.Type && (t.Message == "" || t.Message == e.Message)
}

// NewError creates a new Error.
func NewError(typ ErrorType, message string) *Error {
	return &Error{
		Type:    typ,
		Message: message,
	}
}

func errorf(typ ErrorType, format string, args ...any) *Error {
	return &Error{Type: typ, Message: fmt.Sprintf(format, args...)}
}

// IsError checks if an error is of a specific type.
func IsError(err error, typ ErrorType) bool {
	var kerr *Error
	if !errors.As(err, &kerr) {
		return false
	}
	return kerr.Type == typ
}

// Sentinel errors for use with errors.Is. Sentinels without a message match
// any *Error of the same type.
var (
	ErrDisposedAccess         = &Error{Type: ErrDisposed}
	ErrTypeMismatchAccess     = &Error{Type: ErrTypeMismatch}
	ErrIndexOutOfRange        = &Error{Type: ErrOutOfRange}
	ErrUnsupportedMember      = &Error{Type: ErrUnsupportedMemberType}
	ErrPrepareFailed          = &Error{Type: ErrPrepare}
	ErrExecutionFailed        = &Error{Type: ErrExec}
	ErrOperationNotSupported  = &Error{Type: ErrNotSupported}
	ErrConnectionClosed       = &Error{Type: ErrConnection, Message: "connection is closed"}
	ErrStatementClosed        = &Error{Type: ErrDisposed, Message: "statement is closed"}
	ErrResultClosed           = &Error{Type: ErrDisposed, Message: "query result is closed"}
	ErrNativeLibraryNotLoaded = &Error{Type: ErrConnection, Message: "native library not loaded"}
)

func disposedError(what string) *Error {
	return errorf(ErrDisposed, "%s has been disposed", what)
}

func mismatchError(want string, got DataType) *Error {
	return errorf(ErrTypeMismatch, "cannot read %s value as %s", got, want)
}

func rangeError(what string, i, n int) *Error {
	return errorf(ErrOutOfRange, "%s index %d out of range [0,%d)", what, i, n)
}

package rowbind

import (
	"errors"
	"fmt"
)

// ErrKind categorises a failure without exposing raw engine result codes.
// The set is closed: one kind per engine primary code, plus Mismatch and
// Misuse which the library also raises locally (binder/decoder type errors
// and operations on disposed statements or closed connections).
type ErrKind int

const (
	ErrGeneric ErrKind = iota
	ErrInternal
	ErrPermission
	ErrAbort
	ErrBusy
	ErrLocked
	ErrOutOfMemory
	ErrReadonly
	ErrInterrupt
	ErrIO
	ErrCorrupt
	ErrNotFound
	ErrFull
	ErrCantOpen
	ErrProtocol
	ErrEmpty
	ErrSchema
	ErrTooBig
	ErrConstraint
	ErrMismatch
	ErrMisuse
	ErrNoLFS
	ErrAuth
	ErrFormat
	ErrRange
	ErrNotADB
	ErrNotice
	ErrWarning

	// ErrRow and ErrDone mirror the engine's step-result markers. They
	// complete the taxonomy but are consumed internally by Step and are
	// never returned as failures.
	ErrRow
	ErrDone
)

func (k ErrKind) String() string {
	switch k {
	case ErrGeneric:
		return "generic"
	case ErrInternal:
		return "internal"
	case ErrPermission:
		return "permission"
	case ErrAbort:
		return "abort"
	case ErrBusy:
		return "busy"
	case ErrLocked:
		return "locked"
	case ErrOutOfMemory:
		return "out_of_memory"
	case ErrReadonly:
		return "readonly"
	case ErrInterrupt:
		return "interrupt"
	case ErrIO:
		return "io"
	case ErrCorrupt:
		return "corrupt"
	case ErrNotFound:
		return "not_found"
	case ErrFull:
		return "full"
	case ErrCantOpen:
		return "cant_open"
	case ErrProtocol:
		return "protocol"
	case ErrEmpty:
		return "empty"
	case ErrSchema:
		return "schema"
	case ErrTooBig:
		return "too_big"
	case ErrConstraint:
		return "constraint"
	case ErrMismatch:
		return "mismatch"
	case ErrMisuse:
		return "misuse"
	case ErrNoLFS:
		return "no_lfs"
	case ErrAuth:
		return "auth"
	case ErrFormat:
		return "format"
	case ErrRange:
		return "range"
	case ErrNotADB:
		return "not_a_db"
	case ErrNotice:
		return "notice"
	case ErrWarning:
		return "warning"
	case ErrRow:
		return "row"
	case ErrDone:
		return "done"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by every fallible operation in
// this package. Callers inspect it through the Is* predicates or KindOf;
// they never see numeric engine codes.
//
// The engine's diagnostic text is not attached here: the engine scopes it
// to the connection, so it lives on Conn (see Conn.LastError) and must be
// read before the next engine call overwrites it.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error // local cause, when the failure did not come from the engine
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func wrapError(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// KindOf extracts the ErrKind from any error in the chain,
// or ErrGeneric when err is not an *Error.
func KindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrGeneric
}

// IsBusy reports whether err means the database file was locked by another
// connection.
func IsBusy(err error) bool {
	return KindOf(err) == ErrBusy
}

// IsConstraint reports whether err was caused by a constraint violation.
func IsConstraint(err error) bool {
	return KindOf(err) == ErrConstraint
}

// IsMismatch reports whether err is a binder or decoder type mismatch.
func IsMismatch(err error) bool {
	return KindOf(err) == ErrMismatch
}

// IsMisuse reports whether err was caused by using a disposed statement or
// a closed connection.
func IsMisuse(err error) bool {
	return KindOf(err) == ErrMisuse
}

// IsCantOpen reports whether err means the database file could not be
// opened or created.
func IsCantOpen(err error) bool {
	return KindOf(err) == ErrCantOpen
}

// IsReadonly reports whether err means a write was attempted on a
// read-only database.
func IsReadonly(err error) bool {
	return KindOf(err) == ErrReadonly
}

// IsInterrupt reports whether err means the operation was interrupted.
func IsInterrupt(err error) bool {
	return KindOf(err) == ErrInterrupt
}

package rowbind

import "github.com/rowbind/rowbind/internal/engine"

// translate maps an engine result code to its ErrKind. It is pure: capturing
// diagnostic text is the caller's job, done only after observing a non-OK
// code (see Conn.fail).
//
// engine.OK never reaches translate; callers branch on it first. An
// unrecognized code maps to ErrInternal rather than failing the
// translation itself.
func translate(code engine.Code) ErrKind {
	switch code.Primary() {
	case engine.Error:
		return ErrGeneric
	case engine.Internal:
		return ErrInternal
	case engine.Perm:
		return ErrPermission
	case engine.Abort:
		return ErrAbort
	case engine.Busy:
		return ErrBusy
	case engine.Locked:
		return ErrLocked
	case engine.NoMem:
		return ErrOutOfMemory
	case engine.ReadOnly:
		return ErrReadonly
	case engine.Interrupt:
		return ErrInterrupt
	case engine.IOErr:
		return ErrIO
	case engine.Corrupt:
		return ErrCorrupt
	case engine.NotFound:
		return ErrNotFound
	case engine.Full:
		return ErrFull
	case engine.CantOpen:
		return ErrCantOpen
	case engine.Protocol:
		return ErrProtocol
	case engine.Empty:
		return ErrEmpty
	case engine.Schema:
		return ErrSchema
	case engine.TooBig:
		return ErrTooBig
	case engine.Constraint:
		return ErrConstraint
	case engine.Mismatch:
		return ErrMismatch
	case engine.Misuse:
		return ErrMisuse
	case engine.NoLFS:
		return ErrNoLFS
	case engine.Auth:
		return ErrAuth
	case engine.Format:
		return ErrFormat
	case engine.Range:
		return ErrRange
	case engine.NotADB:
		return ErrNotADB
	case engine.Notice:
		return ErrNotice
	case engine.Warning:
		return ErrWarning
	case engine.Row:
		return ErrRow
	case engine.Done:
		return ErrDone
	default:
		return ErrInternal
	}
}

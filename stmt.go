package rowbind

import "github.com/rowbind/rowbind/internal/engine"

// disposePolicy determines what happens to the compiled-query handle when
// the statement reaches end-of-results or an error.
type disposePolicy uint8

const (
	// policyReusable: end-of-results only resets internal state; the
	// handle stays valid and bindable. Conn.Prepare hands these out;
	// the caller releases them with Finalize.
	policyReusable disposePolicy = iota

	// policyOneShot: end-of-results finalizes the handle and invalidates
	// the statement. Used by the Exec drain path.
	policyOneShot

	// policyCursor: like policyOneShot, but the statement was allocated
	// on behalf of a Rows cursor, which holds the only reference to it.
	policyCursor
)

// Stmt is one compiled SQL statement bound to its Conn.
//
// Lifecycle: idle after Prepare, bound after Bind, stepped row by row via
// Step. End-of-results and step errors apply the disposal policy; once
// disposed, every operation fails with a misuse error. Bind may be called
// again from any non-disposed state and restarts the statement.
type Stmt struct {
	// conn doubles as the liveness flag: it is cleared exactly once, on
	// first disposal, which makes double-finalize structurally impossible.
	conn   *Conn
	eng    engine.Stmt
	policy disposePolicy
}

// Bind clears all previous bindings, then assigns each argument to its
// parameter slot (see Named for name-based resolution) converted per its
// static type. The engine copies text and blob values during the call, so
// argument buffers may be reused immediately after Bind returns.
func (s *Stmt) Bind(args ...any) error {
	if s.conn == nil {
		return newError(ErrMisuse, "statement already disposed")
	}
	if rc := s.eng.Reset(); rc != engine.OK {
		return s.conn.fail(rc, "reset failed")
	}
	if rc := s.eng.ClearBindings(); rc != engine.OK {
		return s.conn.fail(rc, "clear bindings failed")
	}
	return s.bindArgs(args)
}

// Step advances the statement one row. It returns (true, nil) when a row
// is available, (false, nil) at end-of-results, and (false, err) on any
// other engine status. End-of-results and errors both apply the disposal
// policy, so a one-shot or cursor-owned statement is gone after either.
func (s *Stmt) Step() (bool, error) {
	if s.conn == nil {
		return false, newError(ErrMisuse, "statement already disposed")
	}
	switch rc := s.eng.Step(); rc.Primary() {
	case engine.Row:
		return true, nil
	case engine.Done:
		s.dispose()
		return false, nil
	default:
		err := s.conn.fail(rc, "step failed")
		s.dispose()
		return false, err
	}
}

// Reset rewinds the statement so it can be stepped again from the first
// row. Bound parameter values are retained.
func (s *Stmt) Reset() error {
	if s.conn == nil {
		return newError(ErrMisuse, "statement already disposed")
	}
	if rc := s.eng.Reset(); rc != engine.OK {
		return s.conn.fail(rc, "reset failed")
	}
	return nil
}

// Finalize releases the compiled-query handle. It is the eventual
// end-of-life call for reusable statements and an early release for the
// others; calling it on an already-disposed statement is a no-op.
func (s *Stmt) Finalize() error {
	s.finalize()
	return nil
}

// dispose applies the disposal policy at end-of-results or error.
func (s *Stmt) dispose() {
	switch s.policy {
	case policyReusable:
		// Handle stays valid; a later Bind restarts the statement.
		s.eng.Reset()
	default:
		s.finalize()
	}
}

// finalize invalidates the handle exactly once. The engine reports the
// most recent step error from sqlite3_finalize; that error was already
// surfaced by Step, so the code is deliberately not re-raised here.
func (s *Stmt) finalize() {
	if s.conn == nil {
		return
	}
	s.eng.Finalize()
	s.conn = nil
}

// drain steps the statement to completion with the void row shape,
// then relies on the disposal policy for cleanup.
func (s *Stmt) drain() error {
	for {
		ok, err := s.Step()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
}

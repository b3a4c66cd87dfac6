package rowbind

import (
	"fmt"
	"sync"

	"github.com/rowbind/rowbind/internal/engine"
	"github.com/rowbind/rowbind/internal/logger"
)

// Conn owns one open engine handle. A Conn is not safe for unsynchronized
// concurrent use; either serialize access externally or give each goroutine
// its own Conn. The single exception is Insert, whose internal critical
// section makes concurrent Insert calls on the same Conn safe with respect
// to each other.
type Conn struct {
	eng *engine.Conn
	log *logger.Logger

	// insertMu guards the execute-then-read-rowid compound in Insert. It
	// does not make arbitrary concurrent statement use on this Conn safe.
	insertMu sync.Mutex

	lastErr string
	closed  bool
}

// Open opens (creating if missing) the database file at path with default
// settings.
func Open(path string) (*Conn, error) {
	return OpenConfig(DefaultConfig(path))
}

// OpenConfig opens the database described by cfg.
func OpenConfig(cfg *Config) (*Conn, error) {
	eng, rc := engine.Open(cfg.Path)
	if rc != engine.OK {
		return nil, newError(translate(rc), fmt.Sprintf("cannot open database %q", cfg.Path))
	}
	if cfg.BusyTimeout > 0 {
		eng.BusyTimeout(int(cfg.BusyTimeout.Milliseconds()))
	}
	c := &Conn{
		eng: eng,
		log: cfg.newLogger().With().Str("db", cfg.Path).Logger(),
	}
	c.log.Debug("database opened")
	return c, nil
}

// Close releases the engine handle. If prepared statements are still
// outstanding, the engine defers physical teardown until the last one is
// finalized; that documented draining behavior is success, not an error.
// Any operation after Close fails with a misuse error.
func (c *Conn) Close() error {
	if c.closed {
		return newError(ErrMisuse, "connection already closed")
	}
	c.closed = true
	c.lastErr = ""
	rc := c.eng.Close()
	c.log.Debug("database closed")
	if rc != engine.OK && rc.Primary() != engine.Busy {
		return newError(translate(rc), "close failed")
	}
	return nil
}

// Prepare compiles one SQL statement. The returned statement is reusable:
// it can be bound and stepped to completion any number of times, and must
// be released with Finalize when no longer needed.
func (c *Conn) Prepare(sql string) (*Stmt, error) {
	return c.prepare(sql, policyReusable)
}

func (c *Conn) prepare(sql string, policy disposePolicy) (*Stmt, error) {
	if c.closed {
		return nil, newError(ErrMisuse, "connection is closed")
	}
	eng, rc := c.eng.Prepare(sql)
	if rc != engine.OK {
		err := c.fail(rc, "prepare failed")
		c.log.With().Str("sql", sql).Err(err).Logger().Debug("prepare failed")
		return nil, err
	}
	return &Stmt{conn: c, eng: eng, policy: policy}, nil
}

// Exec runs sql to completion, discarding any result rows.
//
// With no arguments the engine's direct exec entry point is used, which
// also accepts semicolon-separated batches. With arguments the statement
// is prepared, bound, and stepped to completion; only a single statement
// can be executed on that path. For single-statement, argument-free SQL
// the two paths are observably equivalent.
func (c *Conn) Exec(sql string, args ...any) error {
	if c.closed {
		return newError(ErrMisuse, "connection is closed")
	}
	if len(args) == 0 {
		if rc := c.eng.Exec(sql); rc != engine.OK {
			return c.fail(rc, "exec failed")
		}
		return nil
	}

	st, err := c.prepare(sql, policyOneShot)
	if err != nil {
		return err
	}
	if err := st.Bind(args...); err != nil {
		st.Finalize()
		return err
	}
	return st.drain()
}

// Insert runs an INSERT and returns the generated row id.
//
// The execute and the id read happen inside one critical section because
// the engine's last-rowid accessor reads connection-global state: with a
// plain Exec followed by a separate read, a concurrent insert on the same
// Conn could slip between the two and clobber the id. Insert is the only
// race-free way to obtain a just-inserted identifier on a shared Conn.
func (c *Conn) Insert(sql string, args ...any) (int64, error) {
	c.insertMu.Lock()
	defer c.insertMu.Unlock()

	if err := c.Exec(sql, args...); err != nil {
		return 0, err
	}
	return c.eng.LastInsertRowID(), nil
}

// LastError returns the engine's diagnostic text captured by the most
// recent failing call, or "" if the last call succeeded. The text is
// replaced on every failure, so read it before issuing another call.
func (c *Conn) LastError() string {
	return c.lastErr
}

// fail translates rc into an error, capturing the engine's diagnostic
// text into the connection's last-error slot before the next engine call
// can overwrite it.
func (c *Conn) fail(rc engine.Code, msg string) *Error {
	c.lastErr = c.eng.ErrMsg()
	return newError(translate(rc), msg)
}

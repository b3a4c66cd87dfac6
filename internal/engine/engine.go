// Package engine is the one place that touches the native SQLite call
// surface. It wraps the CGo-free transpiled engine (modernc.org/sqlite/lib)
// behind plain Go types: handles are hidden inside Conn and Stmt, every
// fallible call returns a raw Code, and all C-string/pointer plumbing stays
// on this side of the boundary.
//
// The package performs no error translation and no policy decisions. Layers
// above it own statement lifetimes and map Codes to the error taxonomy.
package engine

import (
	"sync"
	"unsafe"

	"modernc.org/libc"
	"modernc.org/libc/sys/types"
	lib "modernc.org/sqlite/lib"
)

const ptrSize = types.Size_t(unsafe.Sizeof(uintptr(0)))

var initOnce sync.Once

func initlib(tls *libc.TLS) {
	initOnce.Do(func() {
		lib.Xsqlite3_initialize(tls)
	})
}

// freeFuncPtr is the destructor passed to sqlite3_bind_text/blob so the
// engine frees our transient copy once it has taken ownership.
var freeFuncPtr = cFuncPointer(libc.Xfree)

// cFuncPointer converts a function defined by a function declaration to a
// C pointer, per the memory layout described in https://golang.org/s/go11func.
// Using it on closures is undefined.
func cFuncPointer[T any](f T) uintptr {
	return *(*uintptr)(unsafe.Pointer(&struct{ f T }{f}))
}

// Conn owns one open sqlite3* handle plus the libc thread state it was
// created with. A Conn is not internally synchronized; callers serialize.
type Conn struct {
	tls *libc.TLS
	db  uintptr
}

// Open opens (creating if missing) the database file at path in read-write
// mode. On failure the returned Conn is nil and the Code explains why.
func Open(path string) (*Conn, Code) {
	tls := libc.NewTLS()
	initlib(tls)

	cpath, err := libc.CString(path)
	if err != nil {
		tls.Close()
		return nil, NoMem
	}
	defer libc.Xfree(tls, cpath)

	connPtr := libc.Xmalloc(tls, ptrSize)
	if connPtr == 0 {
		tls.Close()
		return nil, NoMem
	}
	defer libc.Xfree(tls, connPtr)

	rc := Code(lib.Xsqlite3_open_v2(tls, cpath, connPtr,
		lib.SQLITE_OPEN_READWRITE|lib.SQLITE_OPEN_CREATE, 0))
	db := *(*uintptr)(unsafe.Pointer(connPtr))
	if db == 0 {
		tls.Close()
		return nil, NoMem
	}
	if rc != OK {
		// A handle may still come back just so the error can be extracted;
		// it carries nothing we need here.
		lib.Xsqlite3_close_v2(tls, db)
		tls.Close()
		return nil, rc
	}
	return &Conn{tls: tls, db: db}, OK
}

// Close releases the handle via sqlite3_close_v2. If prepared statements
// are still outstanding, the engine marks the connection as a zombie and
// defers physical teardown until the last statement is finalized; that
// case still returns OK. The libc thread state is intentionally kept alive
// because a draining statement finalizes through it later.
func (c *Conn) Close() Code {
	return Code(lib.Xsqlite3_close_v2(c.tls, c.db))
}

// Exec runs sql directly through sqlite3_exec. Supports semicolon-separated
// multi-statement batches; no parameters can be bound on this path.
func (c *Conn) Exec(sql string) Code {
	csql, err := libc.CString(sql)
	if err != nil {
		return NoMem
	}
	defer libc.Xfree(c.tls, csql)
	return Code(lib.Xsqlite3_exec(c.tls, c.db, csql, 0, 0, 0))
}

// Prepare compiles the first statement in sql. Trailing text after the
// first statement is ignored; batches go through Exec.
func (c *Conn) Prepare(sql string) (Stmt, Code) {
	csql, err := libc.CString(sql)
	if err != nil {
		return Stmt{}, NoMem
	}
	defer libc.Xfree(c.tls, csql)

	stmtPtr := libc.Xmalloc(c.tls, ptrSize)
	if stmtPtr == 0 {
		return Stmt{}, NoMem
	}
	defer libc.Xfree(c.tls, stmtPtr)
	tailPtr := libc.Xmalloc(c.tls, ptrSize)
	if tailPtr == 0 {
		return Stmt{}, NoMem
	}
	defer libc.Xfree(c.tls, tailPtr)

	rc := Code(lib.Xsqlite3_prepare_v2(c.tls, c.db, csql, -1, stmtPtr, tailPtr))
	if rc != OK {
		return Stmt{}, rc
	}
	return Stmt{conn: c, ptr: *(*uintptr)(unsafe.Pointer(stmtPtr))}, OK
}

// ErrMsg copies the engine's connection-scoped diagnostic text into Go
// memory. Must be read before the next engine call overwrites it.
func (c *Conn) ErrMsg() string {
	return libc.GoString(lib.Xsqlite3_errmsg(c.tls, c.db))
}

// LastInsertRowID reads the connection-global rowid of the most recent
// successful INSERT. Racy under concurrent inserts; callers serialize.
func (c *Conn) LastInsertRowID() int64 {
	return lib.Xsqlite3_last_insert_rowid(c.tls, c.db)
}

// BusyTimeout installs the engine's sleeping busy handler for up to ms
// milliseconds. Non-positive clears it.
func (c *Conn) BusyTimeout(ms int) {
	lib.Xsqlite3_busy_timeout(c.tls, c.db, int32(ms))
}

// Stmt is one compiled-query handle. The zero Stmt is invalid.
type Stmt struct {
	conn *Conn
	ptr  uintptr
}

// Valid reports whether the statement holds a live handle.
func (s Stmt) Valid() bool { return s.ptr != 0 }

func (s Stmt) Step() Code     { return Code(lib.Xsqlite3_step(s.conn.tls, s.ptr)) }
func (s Stmt) Reset() Code    { return Code(lib.Xsqlite3_reset(s.conn.tls, s.ptr)) }
func (s Stmt) Finalize() Code { return Code(lib.Xsqlite3_finalize(s.conn.tls, s.ptr)) }

func (s Stmt) ClearBindings() Code {
	return Code(lib.Xsqlite3_clear_bindings(s.conn.tls, s.ptr))
}

// ParameterIndex resolves a named parameter (":name", "@name", "$name") to
// its 1-based slot, or 0 if the statement has no such parameter.
func (s Stmt) ParameterIndex(name string) int {
	cname, err := libc.CString(name)
	if err != nil {
		return 0
	}
	defer libc.Xfree(s.conn.tls, cname)
	return int(lib.Xsqlite3_bind_parameter_index(s.conn.tls, s.ptr, cname))
}

func (s Stmt) BindInt(slot int, v int32) Code {
	return Code(lib.Xsqlite3_bind_int(s.conn.tls, s.ptr, int32(slot), v))
}

func (s Stmt) BindInt64(slot int, v int64) Code {
	return Code(lib.Xsqlite3_bind_int64(s.conn.tls, s.ptr, int32(slot), v))
}

func (s Stmt) BindDouble(slot int, v float64) Code {
	return Code(lib.Xsqlite3_bind_double(s.conn.tls, s.ptr, int32(slot), v))
}

func (s Stmt) BindNull(slot int) Code {
	return Code(lib.Xsqlite3_bind_null(s.conn.tls, s.ptr, int32(slot)))
}

// BindText hands the engine its own copy of v, freed by the engine once it
// is done with it, so the caller's string imposes no lifetime constraint.
func (s Stmt) BindText(slot int, v string) Code {
	p, code := s.transientCopy([]byte(v))
	if code != OK {
		return code
	}
	return Code(lib.Xsqlite3_bind_text(s.conn.tls, s.ptr, int32(slot), p, int32(len(v)), freeFuncPtr))
}

// BindBlob is BindText for byte sequences.
func (s Stmt) BindBlob(slot int, v []byte) Code {
	p, code := s.transientCopy(v)
	if code != OK {
		return code
	}
	return Code(lib.Xsqlite3_bind_blob(s.conn.tls, s.ptr, int32(slot), p, int32(len(v)), freeFuncPtr))
}

func (s Stmt) transientCopy(v []byte) (uintptr, Code) {
	n := types.Size_t(len(v))
	if n == 0 {
		n = 1 // sqlite treats a zero pointer as NULL, so always allocate
	}
	p := libc.Xmalloc(s.conn.tls, n)
	if p == 0 {
		return 0, NoMem
	}
	for i, b := range v {
		*(*byte)(unsafe.Pointer(p + uintptr(i))) = b
	}
	return p, OK
}

func (s Stmt) ColumnCount() int {
	return int(lib.Xsqlite3_column_count(s.conn.tls, s.ptr))
}

func (s Stmt) ColumnType(col int) ColumnType {
	return ColumnType(lib.Xsqlite3_column_type(s.conn.tls, s.ptr, int32(col)))
}

func (s Stmt) ColumnInt(col int) int32 {
	return lib.Xsqlite3_column_int(s.conn.tls, s.ptr, int32(col))
}

func (s Stmt) ColumnInt64(col int) int64 {
	return lib.Xsqlite3_column_int64(s.conn.tls, s.ptr, int32(col))
}

func (s Stmt) ColumnDouble(col int) float64 {
	return lib.Xsqlite3_column_double(s.conn.tls, s.ptr, int32(col))
}

// ColumnText reads a text column. A NULL value or non-positive length
// yields the empty string, never an error.
func (s Stmt) ColumnText(col int) string {
	p := lib.Xsqlite3_column_text(s.conn.tls, s.ptr, int32(col))
	if p == 0 {
		return ""
	}
	n := int(lib.Xsqlite3_column_bytes(s.conn.tls, s.ptr, int32(col)))
	if n <= 0 {
		return ""
	}
	return string(unsafe.Slice((*byte)(unsafe.Pointer(p)), n))
}

// ColumnBlob reads a blob column into Go-owned memory. NULL yields nil.
func (s Stmt) ColumnBlob(col int) []byte {
	p := lib.Xsqlite3_column_blob(s.conn.tls, s.ptr, int32(col))
	if p == 0 {
		return nil
	}
	n := int(lib.Xsqlite3_column_bytes(s.conn.tls, s.ptr, int32(col)))
	if n <= 0 {
		return nil
	}
	out := make([]byte, n)
	copy(out, libc.GoBytes(p, n))
	return out
}

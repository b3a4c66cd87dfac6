package engine

import (
	lib "modernc.org/sqlite/lib"
)

// Code is a raw SQLite result code. The engine package returns codes
// untranslated; mapping codes to the library's error taxonomy happens one
// layer up so that this package stays a faithful mirror of the native
// call surface.
type Code int32

// Result codes, one per SQLITE_* primary code.
const (
	OK         Code = lib.SQLITE_OK
	Error      Code = lib.SQLITE_ERROR
	Internal   Code = lib.SQLITE_INTERNAL
	Perm       Code = lib.SQLITE_PERM
	Abort      Code = lib.SQLITE_ABORT
	Busy       Code = lib.SQLITE_BUSY
	Locked     Code = lib.SQLITE_LOCKED
	NoMem      Code = lib.SQLITE_NOMEM
	ReadOnly   Code = lib.SQLITE_READONLY
	Interrupt  Code = lib.SQLITE_INTERRUPT
	IOErr      Code = lib.SQLITE_IOERR
	Corrupt    Code = lib.SQLITE_CORRUPT
	NotFound   Code = lib.SQLITE_NOTFOUND
	Full       Code = lib.SQLITE_FULL
	CantOpen   Code = lib.SQLITE_CANTOPEN
	Protocol   Code = lib.SQLITE_PROTOCOL
	Empty      Code = lib.SQLITE_EMPTY
	Schema     Code = lib.SQLITE_SCHEMA
	TooBig     Code = lib.SQLITE_TOOBIG
	Constraint Code = lib.SQLITE_CONSTRAINT
	Mismatch   Code = lib.SQLITE_MISMATCH
	Misuse     Code = lib.SQLITE_MISUSE
	NoLFS      Code = lib.SQLITE_NOLFS
	Auth       Code = lib.SQLITE_AUTH
	Format     Code = lib.SQLITE_FORMAT
	Range      Code = lib.SQLITE_RANGE
	NotADB     Code = lib.SQLITE_NOTADB
	Notice     Code = lib.SQLITE_NOTICE
	Warning    Code = lib.SQLITE_WARNING
	Row        Code = lib.SQLITE_ROW
	Done       Code = lib.SQLITE_DONE
)

// Primary strips any extended-result-code bits, leaving the primary code.
func (c Code) Primary() Code { return c & 0xff }

// ColumnType is the dynamic type tag of a result column.
type ColumnType int32

// Fundamental SQLite datatypes.
const (
	TypeInteger ColumnType = lib.SQLITE_INTEGER
	TypeFloat   ColumnType = lib.SQLITE_FLOAT
	TypeText    ColumnType = lib.SQLITE_TEXT
	TypeBlob    ColumnType = lib.SQLITE_BLOB
	TypeNull    ColumnType = lib.SQLITE_NULL
)

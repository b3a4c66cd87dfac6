/*
Package rowbind is a typed query-marshaling layer over an embedded SQLite
engine. You submit SQL text plus typed arguments and receive statically
typed rows back; the engine's untyped value representation and numeric
status codes never reach your code.

# Overview

A Conn owns one engine handle. Prepare compiles a reusable statement, Exec
runs SQL to completion, Query returns a typed cursor, and Insert returns
the generated row id race-free. Every failure is an *Error carrying one
kind from a closed taxonomy; the engine's diagnostic text is available
from Conn.LastError immediately after a failing call.

# Row types

Query and Get decode by position: result column i fills field i of the row
struct, in declaration order. Column names are ignored. Supported field
types are bool, the signed integer widths, float32/float64, string,
[]byte, and pointers to any of these (a pointer field decodes engine NULL
to nil). Unsigned integer fields are rejected when the row type is first
used, before any engine call.

	type user struct {
	    ID    int64
	    Email string
	    Age   *int64 // NULL-able column
	}

	rows, err := rowbind.Query[user](c, "SELECT id, email, age FROM users")

# Arguments

Arguments bind positionally (argument i to parameter slot i+1) unless
wrapped with Named, which resolves the slot by parameter name and falls
back to the positional slot when the statement has no such name.

# Concurrency

A Conn is not internally synchronized. Serialize access to a shared Conn
or give each goroutine its own. Insert is the exception: its internal
critical section spans the execute and the generated-id read, so
concurrent Inserts on one Conn each observe their own id. Running Exec
and then reading the id separately has no such protection and is unsafe
under concurrency.
*/
package rowbind

package rowbind

import "reflect"

// Rows is a typed cursor over the results of one statement. The statement
// behind it is owned by the cursor and is disposed automatically when the
// cursor is exhausted, hits an error, or is closed early.
type Rows[T any] struct {
	stmt *Stmt
	plan *decodePlan
	done bool
}

// Query prepares sql, binds args, and returns a cursor positioned before
// the first row. T's shape is validated here, before the statement is ever
// stepped: a struct decodes one field per result column in declaration
// order, a supported primitive decodes column 0.
func Query[T any](c *Conn, sql string, args ...any) (*Rows[T], error) {
	plan, err := planFor(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	st, err := c.prepare(sql, policyCursor)
	if err != nil {
		return nil, err
	}
	if err := st.Bind(args...); err != nil {
		st.Finalize()
		return nil, err
	}
	return &Rows[T]{stmt: st, plan: plan}, nil
}

// Get runs sql and decodes the first result row. ok is false when the
// query yields no rows. Remaining rows, if any, are not read.
func Get[T any](c *Conn, sql string, args ...any) (v T, ok bool, err error) {
	rows, err := Query[T](c, sql, args...)
	if err != nil {
		return v, false, err
	}
	defer rows.Close()
	return rows.Fetch()
}

// Fetch returns the next decoded row. ok is false once the results are
// exhausted and stays false on every later call, without re-entering the
// engine: by then the underlying statement has already been disposed.
func (r *Rows[T]) Fetch() (v T, ok bool, err error) {
	if r.done {
		return v, false, nil
	}
	ok, err = r.stmt.Step()
	if err != nil || !ok {
		r.done = true
		return v, false, err
	}
	dst := reflect.ValueOf(&v).Elem()
	if err := r.plan.decodeInto(r.stmt.eng, dst); err != nil {
		r.done = true
		r.stmt.finalize()
		return v, false, err
	}
	return v, true, nil
}

// All drains the cursor and returns every remaining row.
func (r *Rows[T]) All() ([]T, error) {
	var out []T
	for {
		v, ok, err := r.Fetch()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, v)
	}
}

// Close releases the cursor before exhaustion. Closing an exhausted or
// already-closed cursor is a no-op.
func (r *Rows[T]) Close() error {
	if r.done {
		return nil
	}
	r.done = true
	return r.stmt.Finalize()
}

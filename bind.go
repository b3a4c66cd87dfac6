package rowbind

import (
	"fmt"
	"reflect"

	"github.com/rowbind/rowbind/internal/engine"
)

// NamedArg pairs a value with the name of the SQL parameter it should bind
// to. Build one with Named.
type NamedArg struct {
	Name  string
	Value any
}

// Named returns an argument bound by parameter name rather than position.
//
//	c.Exec("UPDATE users SET email = :email WHERE id = :id",
//	    rowbind.Named("email", addr), rowbind.Named("id", id))
//
// If the statement has no parameter with that name, the argument silently
// falls back to its positional slot instead of failing; callers mixing up
// names against purely positional SQL get positional semantics.
func Named(name string, value any) NamedArg {
	return NamedArg{Name: name, Value: value}
}

// bindArgs resolves each argument to a parameter slot and binds it.
// Argument i takes slot i+1 unless it carries a name that resolves to a
// parameter in the compiled statement.
func (s *Stmt) bindArgs(args []any) error {
	for i, arg := range args {
		slot := i + 1
		v := arg
		if na, ok := arg.(NamedArg); ok {
			if idx := s.eng.ParameterIndex(":" + na.Name); idx > 0 {
				slot = idx
			}
			v = na.Value
		}
		if err := s.bindValue(slot, v); err != nil {
			return err
		}
	}
	return nil
}

// bindValue converts v to an engine-native value according to its static
// type. Unsupported types are rejected before any engine call is made for
// the slot.
func (s *Stmt) bindValue(slot int, v any) error {
	var rc engine.Code
	switch x := v.(type) {
	case nil:
		rc = s.eng.BindNull(slot)
	case bool:
		n := int32(0)
		if x {
			n = 1
		}
		rc = s.eng.BindInt(slot, n)
	case int:
		rc = s.eng.BindInt64(slot, int64(x))
	case int8:
		rc = s.eng.BindInt64(slot, int64(x))
	case int16:
		rc = s.eng.BindInt64(slot, int64(x))
	case int32:
		rc = s.eng.BindInt64(slot, int64(x))
	case int64:
		rc = s.eng.BindInt64(slot, x)
	case float32:
		rc = s.eng.BindDouble(slot, float64(x))
	case float64:
		rc = s.eng.BindDouble(slot, x)
	case string:
		rc = s.eng.BindText(slot, x)
	case []byte:
		rc = s.eng.BindBlob(slot, x)
	case NamedArg:
		return newError(ErrMismatch, "named argument cannot wrap another named argument")
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				rc = s.eng.BindNull(slot)
				break
			}
			// Optional with a value: recurse into the contained value.
			return s.bindValue(slot, rv.Elem().Interface())
		}
		return newError(ErrMismatch,
			fmt.Sprintf("cannot bind %T to parameter slot %d", v, slot))
	}
	if rc != engine.OK {
		return s.conn.fail(rc, fmt.Sprintf("bind failed for parameter slot %d", slot))
	}
	return nil
}

package rowbind

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/rowbind/rowbind/internal/engine"
)

// A decodePlan describes how to build one value of a row type from the
// statement's current result row. Plans are built once per reflect.Type,
// validated against the closed set of supported field kinds, and cached in
// a concurrency-safe map, so the per-row hot path does no type analysis.
type decodePlan struct {
	fields []fieldPlan
	void   bool // struct{}: drain without reading columns
	scalar bool // single supported primitive, reads column 0
}

type fieldKind uint8

const (
	kindBool fieldKind = iota
	kindInt32
	kindInt64
	kindFloat
	kindString
	kindBytes
	kindPtr
)

type fieldPlan struct {
	kind fieldKind
	typ  reflect.Type
	elem *fieldPlan // for kindPtr
}

var planCache sync.Map // reflect.Type -> *decodePlan

// planFor returns the decode plan for row type rt, building and caching it
// on first use. A field type outside the supported set is a definition-time
// mismatch error, reported before the statement is ever stepped.
func planFor(rt reflect.Type) (*decodePlan, error) {
	if v, ok := planCache.Load(rt); ok {
		return v.(*decodePlan), nil
	}
	p, err := buildPlan(rt)
	if err != nil {
		return nil, err
	}
	planCache.Store(rt, p)
	return p, nil
}

func buildPlan(rt reflect.Type) (*decodePlan, error) {
	if rt.Kind() == reflect.Struct {
		if rt.NumField() == 0 {
			return &decodePlan{void: true}, nil
		}
		p := &decodePlan{fields: make([]fieldPlan, rt.NumField())}
		for i := 0; i < rt.NumField(); i++ {
			sf := rt.Field(i)
			if sf.PkgPath != "" {
				return nil, newError(ErrMismatch, fmt.Sprintf(
					"row type %s: field %s is unexported; columns map to fields by position, so every field must be settable",
					rt, sf.Name))
			}
			fp, err := fieldPlanFor(rt, sf.Name, sf.Type)
			if err != nil {
				return nil, err
			}
			p.fields[i] = *fp
		}
		return p, nil
	}

	// Non-struct row types decode a single column.
	fp, err := fieldPlanFor(rt, "", rt)
	if err != nil {
		return nil, err
	}
	return &decodePlan{fields: []fieldPlan{*fp}, scalar: true}, nil
}

func fieldPlanFor(rt reflect.Type, name string, ft reflect.Type) (*fieldPlan, error) {
	switch ft.Kind() {
	case reflect.Bool:
		return &fieldPlan{kind: kindBool, typ: ft}, nil
	case reflect.Int8, reflect.Int16, reflect.Int32:
		return &fieldPlan{kind: kindInt32, typ: ft}, nil
	case reflect.Int, reflect.Int64:
		return &fieldPlan{kind: kindInt64, typ: ft}, nil
	case reflect.Float32, reflect.Float64:
		return &fieldPlan{kind: kindFloat, typ: ft}, nil
	case reflect.String:
		return &fieldPlan{kind: kindString, typ: ft}, nil
	case reflect.Slice:
		if ft.Elem().Kind() == reflect.Uint8 {
			return &fieldPlan{kind: kindBytes, typ: ft}, nil
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return nil, newError(ErrMismatch, fmt.Sprintf(
			"row type %s: unsigned integer fields are not supported (%s)", rt, fieldLabel(name, ft)))
	case reflect.Pointer:
		elem, err := fieldPlanFor(rt, name, ft.Elem())
		if err != nil {
			return nil, err
		}
		return &fieldPlan{kind: kindPtr, typ: ft, elem: elem}, nil
	}
	return nil, newError(ErrMismatch, fmt.Sprintf(
		"row type %s: unsupported field type %s", rt, fieldLabel(name, ft)))
}

func fieldLabel(name string, ft reflect.Type) string {
	if name == "" {
		return ft.String()
	}
	return fmt.Sprintf("%s %s", name, ft)
}

// decodeInto fills dst (an addressable value of the planned type) from the
// statement's current row, walking fields in declaration order against
// result columns by position: column i pairs with field i. Column names
// play no part.
func (p *decodePlan) decodeInto(st engine.Stmt, dst reflect.Value) error {
	if p.void {
		return nil
	}
	if n := st.ColumnCount(); n < len(p.fields) {
		return newError(ErrMismatch, fmt.Sprintf(
			"row type %s expects %d columns, result has %d", dst.Type(), len(p.fields), n))
	}
	if p.scalar {
		decodeField(st, 0, &p.fields[0], dst)
		return nil
	}
	for i := range p.fields {
		decodeField(st, i, &p.fields[i], dst.Field(i))
	}
	return nil
}

func decodeField(st engine.Stmt, col int, fp *fieldPlan, dst reflect.Value) {
	switch fp.kind {
	case kindPtr:
		// Check the dynamic type tag first: NULL decodes to absent,
		// anything else recurses into the contained type's rule.
		if st.ColumnType(col) == engine.TypeNull {
			dst.SetZero()
			return
		}
		dst.Set(reflect.New(fp.typ.Elem()))
		decodeField(st, col, fp.elem, dst.Elem())
	case kindBool:
		dst.SetBool(st.ColumnInt(col) != 0)
	case kindInt32:
		dst.SetInt(truncInt(int64(st.ColumnInt(col)), fp.typ.Bits()))
	case kindInt64:
		dst.SetInt(st.ColumnInt64(col))
	case kindFloat:
		f := st.ColumnDouble(col)
		if fp.typ.Bits() == 32 {
			f = float64(float32(f))
		}
		dst.SetFloat(f)
	case kindString:
		dst.SetString(st.ColumnText(col))
	case kindBytes:
		dst.SetBytes(st.ColumnBlob(col))
	}
}

// truncInt narrows v to the given bit width with wraparound, matching how
// the engine itself narrows integers.
func truncInt(v int64, bits int) int64 {
	if bits >= 64 {
		return v
	}
	shift := 64 - bits
	return v << shift >> shift
}

package rowbind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBind_Positional(t *testing.T) {
	c := openTestDB(t)

	// Slots fill in argument order: slot 1 gets 2, slot 2 gets 5.
	v, ok, err := Get[int64](c, "SELECT ? + ?", 2, 5)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(7), v)
}

func TestBind_NamedResolvesByName(t *testing.T) {
	c := openTestDB(t)

	// Supplied out of order; names must win over positions.
	v, ok, err := Get[int64](c, "SELECT :first - :second",
		Named("second", 2), Named("first", 5))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(3), v)
}

func TestBind_NamedFallsBackToPosition(t *testing.T) {
	c := openTestDB(t)

	// The SQL has no named parameters, so the names cannot resolve and
	// each argument silently takes its positional slot.
	v, ok, err := Get[int64](c, "SELECT ? + ?",
		Named("first", 2), Named("second", 5))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(7), v)
}

func TestBind_BoolRoundTrip(t *testing.T) {
	c := openTestDB(t)
	require.NoError(t, c.Exec("CREATE TABLE flags (a INTEGER, b INTEGER)"))
	require.NoError(t, c.Exec("INSERT INTO flags VALUES (?, ?)", true, false))

	type row struct {
		A bool
		B bool
	}
	r, ok, err := Get[row](c, "SELECT a, b FROM flags")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, r.A)
	assert.False(t, r.B)
}

func TestBind_ValueTypes(t *testing.T) {
	c := openTestDB(t)

	t.Run("integer widths", func(t *testing.T) {
		v, ok, err := Get[int64](c, "SELECT ? + ? + ? + ? + ?",
			int8(1), int16(2), int32(3), int64(4), int(5))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, int64(15), v)
	})

	t.Run("floats", func(t *testing.T) {
		v, ok, err := Get[float64](c, "SELECT ? + ?", float32(0.5), float64(1.25))
		require.NoError(t, err)
		require.True(t, ok)
		assert.InDelta(t, 1.75, v, 1e-9)
	})

	t.Run("text", func(t *testing.T) {
		v, ok, err := Get[string](c, "SELECT ? || ?", "row", "bind")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "rowbind", v)
	})

	t.Run("blob", func(t *testing.T) {
		v, ok, err := Get[[]byte](c, "SELECT ?", []byte{0x01, 0x00, 0xff})
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte{0x01, 0x00, 0xff}, v)
	})

	t.Run("nil is NULL", func(t *testing.T) {
		v, ok, err := Get[*int64](c, "SELECT ?", nil)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Nil(t, v)
	})
}

func TestBind_OptionalArguments(t *testing.T) {
	c := openTestDB(t)

	t.Run("pointer with value recurses", func(t *testing.T) {
		n := int64(42)
		v, ok, err := Get[int64](c, "SELECT ?", &n)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, int64(42), v)
	})

	t.Run("nil pointer is NULL", func(t *testing.T) {
		var n *int64
		v, ok, err := Get[*int64](c, "SELECT ?", n)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Nil(t, v)
	})
}

func TestBind_UnsupportedType(t *testing.T) {
	c := openTestDB(t)

	tests := []struct {
		name string
		arg  any
	}{
		{"struct", struct{ X int }{1}},
		{"unsigned", uint32(5)},
		{"map", map[string]int{}},
		{"nested named", Named("x", Named("y", 1))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Exec("SELECT ?", tt.arg)
			require.Error(t, err)
			assert.True(t, IsMismatch(err), "got kind %s", KindOf(err))
		})
	}
}

func TestBind_Rebind(t *testing.T) {
	c := openTestDB(t)

	st, err := c.Prepare("SELECT ?")
	require.NoError(t, err)
	defer st.Finalize()

	// Bind re-enters the bound state from mid-iteration: the second Bind
	// resets the statement and replaces the previous value.
	require.NoError(t, st.Bind(1))
	ok, err := st.Step()
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, st.Bind(2))
	ok, err = st.Step()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(2), st.eng.ColumnInt64(0))
}

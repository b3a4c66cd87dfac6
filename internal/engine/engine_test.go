package engine

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Conn {
	t.Helper()
	c, rc := Open(filepath.Join(t.TempDir(), "engine.db"))
	require.Equal(t, OK, rc)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestOpen_BadDirectory(t *testing.T) {
	c, rc := Open("/no/such/dir/engine.db")
	assert.Nil(t, c)
	assert.Equal(t, CantOpen, rc.Primary())
}

func TestExec_Batch(t *testing.T) {
	c := openTemp(t)
	rc := c.Exec("CREATE TABLE t (v INTEGER); INSERT INTO t VALUES (1); INSERT INTO t VALUES (2)")
	require.Equal(t, OK, rc)

	st, rc := c.Prepare("SELECT count(*) FROM t")
	require.Equal(t, OK, rc)
	defer st.Finalize()
	require.Equal(t, Row, st.Step().Primary())
	assert.Equal(t, int64(2), st.ColumnInt64(0))
}

func TestPrepare_SyntaxErrorSetsErrMsg(t *testing.T) {
	c := openTemp(t)
	st, rc := c.Prepare("SELEC 1")
	assert.False(t, st.Valid())
	assert.Equal(t, Error, rc.Primary())
	assert.NotEmpty(t, c.ErrMsg())
}

func TestStmt_BindStepColumn(t *testing.T) {
	c := openTemp(t)
	require.Equal(t, OK, c.Exec("CREATE TABLE t (i INTEGER, f REAL, s TEXT, b BLOB)"))

	ins, rc := c.Prepare("INSERT INTO t VALUES (?, ?, ?, ?)")
	require.Equal(t, OK, rc)
	require.Equal(t, OK, ins.BindInt64(1, 41))
	require.Equal(t, OK, ins.BindDouble(2, 2.5))
	require.Equal(t, OK, ins.BindText(3, "hello"))
	require.Equal(t, OK, ins.BindBlob(4, []byte{0xde, 0xad}))
	require.Equal(t, Done, ins.Step().Primary())
	require.Equal(t, OK, ins.Finalize())

	sel, rc := c.Prepare("SELECT i, f, s, b, NULL FROM t")
	require.Equal(t, OK, rc)
	defer sel.Finalize()
	require.Equal(t, Row, sel.Step().Primary())

	assert.Equal(t, 5, sel.ColumnCount())
	assert.Equal(t, TypeInteger, sel.ColumnType(0))
	assert.Equal(t, int64(41), sel.ColumnInt64(0))
	assert.Equal(t, int32(41), sel.ColumnInt(0))
	assert.Equal(t, 2.5, sel.ColumnDouble(1))
	assert.Equal(t, "hello", sel.ColumnText(2))
	assert.Equal(t, []byte{0xde, 0xad}, sel.ColumnBlob(3))
	assert.Equal(t, TypeNull, sel.ColumnType(4))
	assert.Equal(t, "", sel.ColumnText(4))
	assert.Nil(t, sel.ColumnBlob(4))

	assert.Equal(t, Done, sel.Step().Primary())
}

func TestStmt_EmptyTextAndBlob(t *testing.T) {
	c := openTemp(t)
	st, rc := c.Prepare("SELECT ?, ?")
	require.Equal(t, OK, rc)
	defer st.Finalize()
	require.Equal(t, OK, st.BindText(1, ""))
	require.Equal(t, OK, st.BindBlob(2, nil))
	require.Equal(t, Row, st.Step().Primary())

	// Empty values bind as empty, not NULL: the transient copy always
	// hands the engine a non-zero pointer.
	assert.Equal(t, TypeText, st.ColumnType(0))
	assert.Equal(t, TypeBlob, st.ColumnType(1))
}

func TestStmt_ParameterIndex(t *testing.T) {
	c := openTemp(t)
	st, rc := c.Prepare("SELECT :a + :b")
	require.Equal(t, OK, rc)
	defer st.Finalize()

	assert.Equal(t, 1, st.ParameterIndex(":a"))
	assert.Equal(t, 2, st.ParameterIndex(":b"))
	assert.Equal(t, 0, st.ParameterIndex(":missing"))
}

func TestStmt_ResetAndClearBindings(t *testing.T) {
	c := openTemp(t)
	st, rc := c.Prepare("SELECT ?")
	require.Equal(t, OK, rc)
	defer st.Finalize()

	require.Equal(t, OK, st.BindInt(1, 7))
	require.Equal(t, Row, st.Step().Primary())
	assert.Equal(t, int32(7), st.ColumnInt(0))

	require.Equal(t, Done, st.Step().Primary())
	require.Equal(t, OK, st.Reset())
	require.Equal(t, OK, st.ClearBindings())

	// Cleared parameter evaluates as NULL.
	require.Equal(t, Row, st.Step().Primary())
	assert.Equal(t, TypeNull, st.ColumnType(0))
}

func TestConn_LastInsertRowID(t *testing.T) {
	c := openTemp(t)
	require.Equal(t, OK, c.Exec("CREATE TABLE t (v INTEGER)"))
	require.Equal(t, OK, c.Exec("INSERT INTO t VALUES (1)"))
	assert.Equal(t, int64(1), c.LastInsertRowID())
	require.Equal(t, OK, c.Exec("INSERT INTO t VALUES (2)"))
	assert.Equal(t, int64(2), c.LastInsertRowID())
}

func TestConn_CloseWithOutstandingStatement(t *testing.T) {
	c, rc := Open(filepath.Join(t.TempDir(), "zombie.db"))
	require.Equal(t, OK, rc)

	st, rc := c.Prepare("SELECT 1")
	require.Equal(t, OK, rc)

	// close_v2 defers teardown until the statement is finalized.
	assert.Equal(t, OK, c.Close())
	assert.Equal(t, OK, st.Finalize())
}

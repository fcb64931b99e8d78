package symtab

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func define(t *testing.T, st *Table, name, typ string, kind Kind) int {
	t.Helper()

	i, err := st.Define(name, typ, kind)
	require.NoError(t, err)

	return i
}

func TestIndexesPerKind(t *testing.T) {
	st := New()
	st.BeginClass()

	assert.Equal(t, 0, define(t, st, "a", "int", Field))
	assert.Equal(t, 0, define(t, st, "count", "int", Static))
	assert.Equal(t, 1, define(t, st, "b", "Point", Field))
	assert.Equal(t, 1, define(t, st, "total", "int", Static))

	st.BeginSubroutine(false)

	assert.Equal(t, 0, define(t, st, "x", "int", Argument))
	assert.Equal(t, 0, define(t, st, "i", "int", Local))
	assert.Equal(t, 1, define(t, st, "y", "int", Argument))
	assert.Equal(t, 1, define(t, st, "j", "Array", Local))

	assert.Equal(t, 2, st.VarCount(Field))
	assert.Equal(t, 2, st.VarCount(Static))
	assert.Equal(t, 2, st.VarCount(Argument))
	assert.Equal(t, 2, st.VarCount(Local))
	assert.Equal(t, 0, st.VarCount(None))
}

func TestMethodReservesReceiver(t *testing.T) {
	st := New()
	st.BeginClass()

	st.BeginSubroutine(true)

	assert.Equal(t, 1, define(t, st, "other", "Point", Argument))
	assert.Equal(t, 2, define(t, st, "dx", "int", Argument))
	assert.Equal(t, 3, st.VarCount(Argument))

	_, ok := st.Lookup("this")
	assert.False(t, ok, "receiver must not be a named symbol")

	st.BeginSubroutine(false)

	assert.Equal(t, 0, define(t, st, "first", "int", Argument))
}

func TestLookupOrder(t *testing.T) {
	st := New()
	st.BeginClass()

	define(t, st, "x", "int", Field)
	define(t, st, "s", "String", Static)

	st.BeginSubroutine(false)

	define(t, st, "x", "boolean", Local)

	assert.Equal(t, Local, st.KindOf("x"))
	assert.Equal(t, "boolean", st.TypeOf("x"))
	assert.Equal(t, 0, st.IndexOf("x"))

	assert.Equal(t, Static, st.KindOf("s"))

	st.BeginSubroutine(false)

	assert.Equal(t, Field, st.KindOf("x"))
	assert.Equal(t, "int", st.TypeOf("x"))
}

func TestNotFound(t *testing.T) {
	st := New()

	assert.Equal(t, None, st.KindOf("nope"))
	assert.Equal(t, "", st.TypeOf("nope"))
	assert.Equal(t, -1, st.IndexOf("nope"))
}

func TestBeginClassResets(t *testing.T) {
	st := New()
	st.BeginClass()

	define(t, st, "a", "int", Field)
	define(t, st, "b", "int", Static)

	st.BeginClass()

	assert.Equal(t, None, st.KindOf("a"))
	assert.Equal(t, 0, st.VarCount(Field))
	assert.Equal(t, 0, define(t, st, "c", "int", Field))
}

func TestDuplicate(t *testing.T) {
	st := New()
	st.BeginClass()

	define(t, st, "a", "int", Field)

	_, err := st.Define("a", "char", Static)

	var de *DuplicateError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "a", de.Name)
	assert.Equal(t, Field, de.Prev.Kind)
	assert.EqualError(t, err, `"a" redeclared, previously field int`)

	st.BeginSubroutine(false)

	define(t, st, "p", "int", Argument)

	_, err = st.Define("p", "int", Local)
	assert.Error(t, err)

	assert.Equal(t, 1, st.VarCount(Argument))
	assert.Equal(t, 0, st.VarCount(Local), "failed define must not consume an index")
}

func TestDefineBadKindPanics(t *testing.T) {
	st := New()

	assert.Panics(t, func() {
		_, _ = st.Define("x", "int", None)
	})
}

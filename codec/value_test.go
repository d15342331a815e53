package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_KindNames(t *testing.T) {
	tests := []struct {
		val  Value
		want string
	}{
		{Null(), "null"},
		{Bool(true), "bool"},
		{Int(-3), "int"},
		{Uint(3), "uint"},
		{Float(1.5), "float"},
		{Str("x"), "string"},
		{Seq(Int(1)), "sequence"},
		{MapOf(E("k", Int(1))), "map"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.val.Kind().String())
	}
}

func TestValue_Equal(t *testing.T) {
	a := MapOf(E("x", Int(1)), E("y", Seq(Str("a"), Null())))
	b := MapOf(E("x", Int(1)), E("y", Seq(Str("a"), Null())))

	assert.True(t, a.Equal(b))

	// Map equality is order-sensitive: entry order is an observable
	// property of the representation.
	c := MapOf(E("y", Seq(Str("a"), Null())), E("x", Int(1)))
	assert.False(t, a.Equal(c))

	assert.False(t, Int(1).Equal(Uint(1)))
}

func TestValue_Lookup_LastWriteWins(t *testing.T) {
	m := MapOf(E("x", Int(1)), E("x", Int(2)))

	got, ok := m.Lookup("x")
	require.True(t, ok)
	assert.True(t, Int(2).Equal(got))

	_, ok = m.Lookup("missing")
	assert.False(t, ok)
}

func TestValue_String(t *testing.T) {
	v := MapOf(E("name", Str("a")), E("xs", Seq(Int(1), Int(2))), E("none", Null()))

	assert.Equal(t, `{"name": "a", "xs": [1, 2], "none": null}`, v.String())
}

func TestValueOf_Primitives(t *testing.T) {
	tests := []struct {
		in   any
		want Value
	}{
		{nil, Null()},
		{true, Bool(true)},
		{"s", Str("s")},
		{int(5), Int(5)},
		{int8(5), Int(5)},
		{int64(-9), Int(-9)},
		{uint16(7), Uint(7)},
		{uint64(7), Uint(7)},
		{float32(0.5), Float(0.5)},
		{float64(2.5), Float(2.5)},
		{Str("already"), Str("already")},
	}

	for _, tt := range tests {
		got, err := ValueOf(tt.in)
		require.NoError(t, err)
		assert.True(t, tt.want.Equal(got), "ValueOf(%v) = %s", tt.in, got)
	}

	_, err := ValueOf(struct{}{})
	assert.Error(t, err)
}

func TestValueEncoder_NestedContainers(t *testing.T) {
	e := NewValueEncoder()

	require.NoError(t, e.BeginMap(2))
	require.NoError(t, e.EncodeEntry("id", 1))
	require.NoError(t, e.EncodeEntry("tags", []any{"a", "b"}))
	require.NoError(t, e.EndMap())

	got, err := e.Value()
	require.NoError(t, err)

	want := MapOf(E("id", Int(1)), E("tags", Seq(Str("a"), Str("b"))))
	assert.True(t, want.Equal(got), "got %s", got)
}

func TestValueEncoder_Incomplete(t *testing.T) {
	e := NewValueEncoder()
	require.NoError(t, e.BeginMap(1))

	_, err := e.Value()
	assert.Error(t, err)
}

func TestValueEncoder_MismatchedContainer(t *testing.T) {
	e := NewValueEncoder()
	require.NoError(t, e.BeginSequence(0))

	assert.Error(t, e.EncodeEntry("k", 1))
	assert.Error(t, e.EndMap())
}

func TestWriteValue_Replay(t *testing.T) {
	orig := MapOf(E("xs", Seq(Int(1), MapOf(E("k", Str("v"))))), E("b", Bool(false)))

	e := NewValueEncoder()
	require.NoError(t, WriteValue(e, orig))

	got, err := e.Value()
	require.NoError(t, err)
	assert.True(t, orig.Equal(got))
}

func TestReadValue_DrainsDecoder(t *testing.T) {
	orig := MapOf(E("xs", Seq(Int(1), Int(2))), E("s", Str("x")))

	got, err := ReadValue(NewValueDecoder(orig))
	require.NoError(t, err)
	assert.True(t, orig.Equal(got))
}

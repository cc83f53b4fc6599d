package value

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/flatkit/errs"
)

func TestScalars(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		kind Kind
		text string
	}{
		{"null", Null(), KindNull, ""},
		{"true", Bool(true), KindBool, "true"},
		{"false", Bool(false), KindBool, "false"},
		{"int", Int(42), KindNumber, "42"},
		{"negative int", Int(-7), KindNumber, "-7"},
		{"float", Float(3.5), KindNumber, "3.5"},
		{"number literal", Number("3.02e-5"), KindNumber, "3.02e-5"},
		{"string", String("hello"), KindString, "hello"},
		{"empty string", String(""), KindString, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.kind, tt.v.Kind())
			require.Equal(t, tt.text, tt.v.Text())
			require.True(t, tt.v.IsScalar())
			require.Equal(t, 0, tt.v.Len())
		})
	}
}

func TestContainers(t *testing.T) {
	seq := Sequence(Int(1), String("x"))
	require.Equal(t, KindSequence, seq.Kind())
	require.False(t, seq.IsScalar())
	require.Equal(t, 2, seq.Len())
	require.Equal(t, "1", seq.Elem(0).Text())
	require.Equal(t, "x", seq.Elem(1).Text())

	m := Mapping(
		Member{Key: "b", Value: Int(2)},
		Member{Key: "a", Value: Int(1)},
	)
	require.Equal(t, KindMapping, m.Kind())
	require.Equal(t, 2, m.Len())
	// Member order is preserved as given, not sorted.
	require.Equal(t, "b", m.Members()[0].Key)
	require.Equal(t, "a", m.Members()[1].Key)
}

func TestElem_PanicsOnNonSequence(t *testing.T) {
	require.Panics(t, func() { Int(1).Elem(0) })
}

func TestKind_String(t *testing.T) {
	require.Equal(t, "Null", KindNull.String())
	require.Equal(t, "Mapping", KindMapping.String())
	require.Equal(t, "Invalid", KindInvalid.String())
}

func TestFromAny_Scalars(t *testing.T) {
	tests := []struct {
		name string
		in   any
		kind Kind
		text string
	}{
		{"nil", nil, KindNull, ""},
		{"bool", true, KindBool, "true"},
		{"int", 7, KindNumber, "7"},
		{"int64", int64(-3), KindNumber, "-3"},
		{"uint", uint(9), KindNumber, "9"},
		{"float64", 2.25, KindNumber, "2.25"},
		{"string", "s", KindString, "s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := FromAny(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.kind, v.Kind())
			require.Equal(t, tt.text, v.Text())
		})
	}
}

func TestFromAny_Nested(t *testing.T) {
	v, err := FromAny(map[string]any{
		"b": []any{1, 2},
		"a": map[string]any{"x": nil},
	})
	require.NoError(t, err)
	require.Equal(t, KindMapping, v.Kind())

	// Go map order is unspecified, so FromAny sorts keys.
	members := v.Members()
	require.Equal(t, "a", members[0].Key)
	require.Equal(t, "b", members[1].Key)
	require.Equal(t, KindNull, members[0].Value.Members()[0].Value.Kind())
	require.Equal(t, "2", members[1].Value.Elem(1).Text())
}

func TestFromAny_Unsupported(t *testing.T) {
	_, err := FromAny(struct{}{})
	require.ErrorIs(t, err, errs.ErrUnsupportedValue)

	_, err = FromAny(map[int]any{1: "x"})
	require.ErrorIs(t, err, errs.ErrUnsupportedValue)
}

func TestFromAny_ValuePassthrough(t *testing.T) {
	orig := Sequence(Int(1))
	v, err := FromAny(orig)
	require.NoError(t, err)
	require.Equal(t, orig, v)
}

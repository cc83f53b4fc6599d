package keypath

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/flatkit/errs"
)

func TestPath_ChildAndElement(t *testing.T) {
	root := Path{}
	a := root.Child("a")
	b := a.Child("b")
	e := b.Element(2)

	require.Len(t, e, 3)
	require.Equal(t, "a", e[0].Key())
	require.False(t, e[0].IsIndex())
	require.Equal(t, 2, e[2].Index())
	require.True(t, e[2].IsIndex())

	// Extending must not mutate the parent path.
	c := a.Child("c")
	require.Equal(t, "a.b[2]", e.String())
	require.Equal(t, "a.c", c.String())
}

func TestPath_String(t *testing.T) {
	tests := []struct {
		name string
		path Path
		want string
	}{
		{"empty", Path{}, ""},
		{"single key", Path{Key("a")}, "a"},
		{"nested keys", Path{Key("a"), Key("b")}, "a.b"},
		{"key then index", Path{Key("c"), Index(0)}, "c[0]"},
		{"index then key", Path{Key("c"), Index(1), Key("d")}, "c[1].d"},
		{"consecutive indices", Path{Key("m"), Index(0), Index(3)}, "m[0][3]"},
		{"root index", Path{Index(5)}, "[5]"},
		{"dotted key quoted", Path{Key("a.b")}, `"a.b"`},
		{"bracketed key quoted", Path{Key("x[0]")}, `"x[0]"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.path.String())
		})
	}
}

func TestNewRenderer_Validation(t *testing.T) {
	_, err := NewRenderer("", "[{i}]")
	require.ErrorIs(t, err, errs.ErrInvalidSeparator)

	_, err = NewRenderer(".", "[]")
	require.ErrorIs(t, err, errs.ErrInvalidIndexNotation)

	_, err = NewRenderer(".", "[{i}]")
	require.NoError(t, err)
}

func TestRenderer_Render_Defaults(t *testing.T) {
	r := DefaultRenderer()

	tests := []struct {
		name string
		path Path
		want string
	}{
		{"simple", Path{Key("a"), Key("b")}, "a.b"},
		{"sequence", Path{Key("c"), Index(0)}, "c[0]"},
		{"mixed", Path{Key("c"), Index(1), Key("d")}, "c[1].d"},
		{"deep", Path{Key("x"), Key("y"), Index(10), Key("z")}, "x.y[10].z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, r.Render(tt.path))
		})
	}
}

func TestRenderer_Render_CustomNotation(t *testing.T) {
	r, err := NewRenderer("/", ".{i}")
	require.NoError(t, err)

	require.Equal(t, "a/b", r.Render(Path{Key("a"), Key("b")}))
	require.Equal(t, "c.0", r.Render(Path{Key("c"), Index(0)}))
	require.Equal(t, "c.1/d", r.Render(Path{Key("c"), Index(1), Key("d")}))
}

func TestRenderer_Render_NonInjectiveNotation(t *testing.T) {
	// A template without surrounding brackets makes "a" + index 1 render the
	// same as the literal key "a1". The renderer does not reject this; the
	// flattening engine reports the collision.
	r, err := NewRenderer(".", "{i}")
	require.NoError(t, err)

	byIndex := r.Render(Path{Key("a"), Index(1)})
	byKey := r.Render(Path{Key("a1")})
	require.Equal(t, byIndex, byKey)
}

package cache

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tinta-lang/tinta/core/bytecode"
	"github.com/tinta-lang/tinta/core/value"
	"github.com/tinta-lang/tinta/runtime/compiler"
	"github.com/tinta-lang/tinta/runtime/parser"
)

func compileSource(t *testing.T, src string) *bytecode.ChunkGroup {
	t.Helper()
	prog, errs := parser.Parse(src)
	require.Empty(t, errs)
	g, err := compiler.New().Compile(prog)
	require.NoError(t, err)
	return g
}

func TestKeyIsDeterministic(t *testing.T) {
	a := Key([]byte(`def x = 1;`))
	b := Key([]byte(`def x = 1;`))
	require.Equal(t, a, b)
	require.NotEqual(t, a, Key([]byte(`def x = 2;`)))
}

func TestStoreLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir)
	require.NoError(t, err)

	src := []byte(`def n = 7; csl::pintar("n={n}");`)
	g := compileSource(t, string(src))

	_, ok := c.Load(src)
	require.False(t, ok, "fresh cache dir must miss")

	require.NoError(t, c.Store(src, g))

	loaded, ok := c.Load(src)
	require.True(t, ok)
	require.Equal(t, g.Len(), loaded.Len())
	for i := 0; i < g.Len(); i++ {
		require.Equal(t, g.ReadByte(i), loaded.ReadByte(i))
	}
}

func TestConstantRoundTrip(t *testing.T) {
	cases := []value.Value{
		value.NewNumberFromInt64(42),
		value.NewString("hola"),
		value.NewBoolean(true),
		value.NewNull(),
		value.NewNever(),
	}
	for _, v := range cases {
		w, err := fromConstant(v)
		require.NoError(t, err)
		got, err := w.toConstant()
		require.NoError(t, err)
		require.Equal(t, v.ToAgalConsole(), got.ToAgalConsole())
	}
}

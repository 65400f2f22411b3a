package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// captureStdout runs fn with os.Stdout redirected to a pipe and
// returns everything written to it, mirroring the teacher's
// cli_execution_modes_test.go os.Pipe-swap pattern.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()

	require.NoError(t, w.Close())
	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	return buf.String()
}

func writeScript(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "script.tnt")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

// TestE2EScenarios exercises spec.md §8's end-to-end scenarios through
// the CLI's tree-interpreter path.
func TestE2EScenarios(t *testing.T) {
	t.Run("IntegerAdd", func(t *testing.T) {
		path := writeScript(t, `csl::pintar(2 + 3);`)
		out := captureStdout(t, func() {
			code := run([]string{path})
			require.Equal(t, 0, code)
		})
		require.Equal(t, "5\n", out)
	})

	t.Run("ClosureCounter", func(t *testing.T) {
		path := writeScript(t, `
def make = fn() { def n = 0; ret fn() { n = n + 1; ret n; }; };
def c = make();
csl::pintar(c(), c(), c());
`)
		out := captureStdout(t, func() {
			code := run([]string{path})
			require.Equal(t, 0, code)
		})
		require.Equal(t, "1 2 3\n", out)
	})

	t.Run("ExceptionUnwinding", func(t *testing.T) {
		path := writeScript(t, `
fn f() { lanza "bad"; }
intenta { f(); csl::pintar("x"); } captura e { csl::pintar(e); }
`)
		out := captureStdout(t, func() {
			code := run([]string{path})
			require.Equal(t, 0, code)
		})
		require.False(t, strings.Contains(out, "x"))
		require.Contains(t, out, "bad")
	})

	t.Run("StringInterpolation", func(t *testing.T) {
		path := writeScript(t, `def n = 7; csl::pintar("n={n}");`)
		out := captureStdout(t, func() {
			code := run([]string{path})
			require.Equal(t, 0, code)
		})
		require.Equal(t, "n=7\n", out)
	})
}

func TestBytecodePathMatchesInterpreter(t *testing.T) {
	path := writeScript(t, `csl::pintar(2 + 3);`)
	out := captureStdout(t, func() {
		code := run([]string{"--bytecode", "--no-cache", path})
		require.Equal(t, 0, code)
	})
	require.Equal(t, "5\n", out)
}

func TestRunScriptMissingFileExits1(t *testing.T) {
	code := run([]string{filepath.Join(t.TempDir(), "missing.tnt")})
	require.Equal(t, 1, code)
}

func TestTokensCommand(t *testing.T) {
	path := writeScript(t, `def x = 1;`)
	out := captureStdout(t, func() {
		code := run([]string{"tokens", path})
		require.Equal(t, 0, code)
	})
	require.Contains(t, out, "def")
	require.Contains(t, out, "EOF")
}

func TestASTCommand(t *testing.T) {
	path := writeScript(t, `def x = 1;`)
	out := captureStdout(t, func() {
		code := run([]string{"ast", path})
		require.Equal(t, 0, code)
	})
	require.Contains(t, out, "x")
}

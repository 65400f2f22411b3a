package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveFileFallsBackToRoots(t *testing.T) {
	root := t.TempDir()
	modDir := filepath.Join(root, "libs")
	require.NoError(t, os.MkdirAll(modDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(modDir, "util.tnt"), []byte(`def x = 1;`), 0o644))

	scriptDir := filepath.Join(root, "scripts")
	require.NoError(t, os.MkdirAll(scriptDir, 0o755))
	scriptPath := filepath.Join(scriptDir, "main.tnt")

	r := NewRegistry()
	r.Roots = []string{modDir}

	v, err := r.Resolve("util.tnt", scriptPath)
	require.Nil(t, err)
	require.NotNil(t, v)
}

func TestResolveFilePrefersImportingDirOverRoots(t *testing.T) {
	root := t.TempDir()
	other := filepath.Join(root, "other")
	require.NoError(t, os.MkdirAll(other, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(other, "util.tnt"), []byte(`exporta def x = 1;`), 0o644))

	scriptDir := filepath.Join(root, "scripts")
	require.NoError(t, os.MkdirAll(scriptDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(scriptDir, "util.tnt"), []byte(`exporta def x = 2;`), 0o644))
	scriptPath := filepath.Join(scriptDir, "main.tnt")

	r := NewRegistry()
	r.Roots = []string{other}

	v, err := r.Resolve("util.tnt", scriptPath)
	require.Nil(t, err)
	prop, propErr := v.GetObjectProperty("x")
	require.Nil(t, propErr)
	s, _ := prop.ToAgalString()
	require.Equal(t, "2", s)
}

func TestUnknownModuleSuggestsClosestBuiltin(t *testing.T) {
	r := NewRegistry()
	_, err := r.Resolve(":math2", "")
	require.NotNil(t, err)
	require.Contains(t, err.Message, "math")
}

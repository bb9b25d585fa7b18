package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDir(t *testing.T) {
	t.Run("rejects empty dir", func(t *testing.T) {
		_, err := ValidateDir("")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be empty")
	})

	t.Run("rejects dangerous shell characters", func(t *testing.T) {
		for _, char := range dangerousChars {
			_, err := ValidateDir("/tmp/test" + char + "dir")
			assert.Error(t, err, "expected error for character %q", char)
			assert.Contains(t, err.Error(), "forbidden character")
		}
	})

	t.Run("resolves existing dir", func(t *testing.T) {
		tmpDir := t.TempDir()

		result, err := ValidateDir(tmpDir)
		require.NoError(t, err)

		// On macOS, /var is a symlink to /private/var, so compare resolved paths
		expected, _ := filepath.EvalSymlinks(tmpDir)
		assert.Equal(t, expected, result)
	})

	t.Run("accepts missing dir", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "not", "yet")

		result, err := ValidateDir(missing)
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(result))
	})
}

func TestResolveInDir(t *testing.T) {
	tmpDir := t.TempDir()
	resolvedDir, err := filepath.EvalSymlinks(tmpDir)
	require.NoError(t, err)

	t.Run("joins plain name", func(t *testing.T) {
		path, err := ResolveInDir(tmpDir, "todos.json")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(resolvedDir, "todos.json"), path)
	})

	t.Run("rejects traversal", func(t *testing.T) {
		for _, name := range []string{"", ".", "..", "../etc", "a/b", `a\b`} {
			_, err := ResolveInDir(tmpDir, name)
			assert.Error(t, err, name)
		}
	})

	t.Run("rejects dangerous characters", func(t *testing.T) {
		_, err := ResolveInDir(tmpDir, "todos;rm")
		assert.Error(t, err)
	})

	t.Run("file need not exist", func(t *testing.T) {
		path, err := ResolveInDir(tmpDir, "new.json")
		require.NoError(t, err)
		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr))
	})
}

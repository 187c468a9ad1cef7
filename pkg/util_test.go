package pkg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrimmedString(t *testing.T) {
	assert.Equal(t, "3f2a9c1", TrimmedString([]byte("3f2a9c1\n")))
	assert.Equal(t, "", TrimmedString(nil))
}

func TestPathExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "exercises.yaml")
	require.NoError(t, os.WriteFile(file, []byte("exercises: []"), 0o600))

	exists, err := PathExists(dir, true)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = PathExists(file, false)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = PathExists(file, true)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = PathExists(filepath.Join(dir, "nope"), false)
	require.NoError(t, err)
	assert.False(t, exists)
}

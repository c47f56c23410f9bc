package pathfile

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPathsTrimsAndSkipsBlanks(t *testing.T) {
	in := "Paris,Lyon\r\n\r\n  Berlin,Hamburg  \n\t\nRome,Naples"

	got, err := ReadPaths(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"Paris,Lyon", "Berlin,Hamburg", "Rome,Naples"}, got)
}

func TestReadPathsEmpty(t *testing.T) {
	got, err := ReadPaths(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWritePathsUsesCRLF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePaths(&buf, []string{"Paris,Lyon", "Rome,Naples"}))
	assert.Equal(t, "Paris,Lyon\r\nRome,Naples\r\n", buf.String())
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paths.txt")
	paths := []string{"Paris,Lyon,Nice", "Madrid,Valencia"}

	require.NoError(t, WriteFile(path, paths))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, paths, got)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

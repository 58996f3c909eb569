package ftpserver

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestFormatListEntryRegularFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/a.txt", []byte("hello"), 0o644))

	info, err := fs.Stat("/a.txt")
	require.NoError(t, err)

	now := info.ModTime().Add(0)

	line := formatListEntry("a.txt", info, "", now)

	require.Equal(t, byte('-'), line[0])
	require.Contains(t, line, "ps4 ps4")
	require.Contains(t, line, "a.txt")
}

func TestFormatListEntryDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/sub", 0o755))

	info, err := fs.Stat("/sub")
	require.NoError(t, err)

	line := formatListEntry("sub", info, "", time.Now())

	require.Equal(t, byte('d'), line[0])
}

func TestPermTriplet(t *testing.T) {
	require.Equal(t, "rwx", permTriplet(0o700, false, 0o400, 0o200, 0o100))
	require.Equal(t, "r-S", permTriplet(0o400, true, 0o400, 0o200, 0o100))
	require.Equal(t, "rws", permTriplet(0o700, true, 0o400, 0o200, 0o100))
}

func TestFileTypeChar(t *testing.T) {
	require.Equal(t, byte('d'), fileTypeChar(os.ModeDir))
	require.Equal(t, byte('l'), fileTypeChar(os.ModeSymlink))
	require.Equal(t, byte('-'), fileTypeChar(0))
}

package ftpserver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAbsPath(t *testing.T) {
	cases := []struct {
		cwd, arg, want string
	}{
		{"/", "foo", "/foo"},
		{"/a/b", "c", "/a/b/c"},
		{"/a/b", "/c", "/c"},
		{"/a/b", "", "/a/b"},
		// absPath is syntactic only: embedded "." and ".." segments in arg
		// are never collapsed, matching ps4_ftp.cpp's gen_ftp_fullpath.
		{"/a/b", "..", "/a/b/.."},
		{"/", "..", "/.."},
		{"/a", "../../../..", "/a/../../../.."},
		{"/a/b/c", "../../x", "/a/b/c/../../x"},
	}

	for _, c := range cases {
		require.Equal(t, c.want, absPath(c.cwd, c.arg), "absPath(%q, %q)", c.cwd, c.arg)
	}
}

func TestDirUpNeverEscapesRoot(t *testing.T) {
	require.Equal(t, "/", dirUp("/"))
	require.Equal(t, "/", dirUp("/a"))
	require.Equal(t, "/a", dirUp("/a/b"))
	require.Equal(t, "/a/b", dirUp("/a/b/c"))
}

//go:build linux

package ftpserver

import (
	"os"
	"syscall"
	"time"
)

// ctimeOf extracts the inode change time, matching ps4_ftp.cpp's send_LIST
// which formats entries by st_ctim rather than mtime. Falls back to
// ModTime when the underlying Sys() value isn't a *syscall.Stat_t, which
// happens for afero backends (e.g. the in-memory filesystem) that don't
// carry OS stat data.
func ctimeOf(info os.FileInfo) time.Time {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(int64(st.Ctim.Sec), int64(st.Ctim.Nsec)) //nolint:unconvert
	}

	return info.ModTime()
}

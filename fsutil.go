package ftpserver

import (
	"errors"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/afero"
)

// joinPath concatenates a directory and an entry name under the virtual
// root, avoiding a double slash when dir is "/".
func joinPath(dir, name string) string {
	if dir == "/" {
		return "/" + name
	}

	return dir + "/" + name
}

// pathExists reports whether path names an existing file or directory,
// matching ps4_ftp.cpp's file_exists helper used by LIST/RNFR.
func pathExists(fs ClientDriver, path string) bool {
	_, err := fs.Stat(path)

	return err == nil
}

// openableForRead reports whether path can be opened for reading, matching
// ps4_ftp.cpp's cmd_CWD_func check (Sys::open(tmp_path, O_RDONLY, 0)): any
// target that opens, file or directory alike, is accepted as a new working
// directory.
func openableForRead(fs ClientDriver, path string) bool {
	f, err := fs.Open(path)
	if err != nil {
		return false
	}

	f.Close()

	return true
}

// readDirSorted lists the names directly under dir, sorted for stable
// output across runs (afero.ReadDir already sorts by name; the names are
// sorted again here).
func readDirSorted(fs ClientDriver, dir string) ([]string, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, NewFileAccessError("read directory "+dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}

	sort.Strings(names)

	return names, nil
}

// isDirNotEmpty reports whether err is ENOTEMPTY, matching ps4_ftp.cpp's
// delete_dir special-casing errno 66. afero.OsFs surfaces the real
// syscall.Errno, so that is checked first; in-memory drivers (used in
// tests) don't carry a real errno, so a substring fallback on the
// wrapped message keeps this working against them too.
func isDirNotEmpty(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, syscall.ENOTEMPTY) {
		return true
	}

	return strings.Contains(err.Error(), "not empty")
}

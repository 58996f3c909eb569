package ftpserver

import "strings"

// absPath resolves arg against cwd, matching ps4_ftp.cpp's gen_ftp_fullpath
// exactly: an arg starting with "/" is used verbatim, anything else is
// concatenated onto cwd with a single separating "/". This is syntactic
// only — embedded "." and ".." segments in arg are never collapsed, so
// e.g. cwd=/a/b/c, arg=../../x resolves to the literal /a/b/c/../../x.
func absPath(cwd, arg string) string {
	if arg == "" {
		return cwd
	}

	if strings.HasPrefix(arg, "/") {
		return arg
	}

	if cwd == "/" {
		return "/" + arg
	}

	return cwd + "/" + arg
}

// dirUp moves path one directory up, mirroring ps4_ftp.cpp's dir_up: it
// trims everything from the last "/" onward, and collapses to the root
// both when path is already "/" and when that last "/" is the leading
// character (a single path component below root). This is the only place
// collapsing happens — it is used solely for the sole-".." CWD/CDUP case,
// never for general path arguments (spec.md §4.1's "syntactic only"
// resolver).
func dirUp(path string) string {
	if path == "/" {
		return "/"
	}

	idx := strings.LastIndex(path, "/")
	if idx <= 0 {
		return "/"
	}

	return path[:idx]
}

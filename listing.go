package ftpserver

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

var monthAbbrev = [12]string{ //nolint:gochecknoglobals
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// fileTypeChar picks the leading type character of an ls -l entry,
// mirroring ps4_ftp.cpp's file_type_char: 'l' symlink, 'p' fifo, 'd'
// directory, 's' socket, 'c' char device, 'b' block device, '-' regular
// file, and a space for any other type.
func fileTypeChar(mode os.FileMode) byte {
	switch {
	case mode&os.ModeSymlink != 0:
		return 'l'
	case mode&os.ModeNamedPipe != 0:
		return 'p'
	case mode&os.ModeDir != 0:
		return 'd'
	case mode&os.ModeSocket != 0:
		return 's'
	case mode&os.ModeCharDevice != 0:
		return 'c'
	case mode&os.ModeDevice != 0:
		return 'b'
	case mode&os.ModeType == 0:
		return '-'
	default:
		return ' '
	}
}

// permTriplet renders one rwx group of the permission string, substituting
// the dir-specific s/S-for-x encoding ps4_ftp.cpp's LIST_ARGS macro uses
// (uppercase when the execute bit is clear on a directory).
func permTriplet(mode os.FileMode, isDir bool, r, w, x os.FileMode) string {
	out := make([]byte, 3)

	if mode&r != 0 {
		out[0] = 'r'
	} else {
		out[0] = '-'
	}

	if mode&w != 0 {
		out[1] = 'w'
	} else {
		out[1] = '-'
	}

	switch {
	case mode&x != 0 && isDir:
		out[2] = 's'
	case mode&x != 0:
		out[2] = 'x'
	case isDir:
		out[2] = 'S'
	default:
		out[2] = '-'
	}

	return string(out)
}

// formatListEntry renders one ls -l-style line for name, matching
// ps4_ftp.cpp's gen_list_format byte for byte: fixed owner/group "ps4 ps4",
// size, month/day, then either "HH:MM" (same year as now) or the four-digit
// year, and a " -> target" suffix for symlinks.
func formatListEntry(name string, info os.FileInfo, linkTarget string, now time.Time) string {
	mode := info.Mode()
	isDir := mode.IsDir()

	perm := mode.Perm()

	ownerBits := permTriplet(perm, isDir, 0400, 0200, 0100)
	groupBits := permTriplet(perm, isDir, 040, 020, 010)
	otherBits := permTriplet(perm, isDir, 04, 02, 01)

	ctime := ctimeOf(info)

	var dateTail string
	if ctime.Year() == now.Year() {
		dateTail = fmt.Sprintf("%02d:%02d", ctime.Hour(), ctime.Minute())
	} else {
		dateTail = strconv.Itoa(ctime.Year())
	}

	line := fmt.Sprintf("%c%s%s%s 1 ps4 ps4 %d %s %2d %s %s",
		fileTypeChar(mode), ownerBits, groupBits, otherBits,
		info.Size(), monthAbbrev[int(ctime.Month()-1)%12], ctime.Day(), dateTail, name)

	if mode&os.ModeSymlink != 0 && linkTarget != "" {
		line += " -> " + linkTarget
	}

	return line
}

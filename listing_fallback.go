//go:build !linux

package ftpserver

import (
	"os"
	"time"
)

// ctimeOf falls back to ModTime on platforms where extracting st_ctim
// portably isn't worth the per-OS syscall.Stat_t field-name churn (darwin
// spells it Ctimespec, windows has no inode change time at all).
func ctimeOf(info os.FileInfo) time.Time {
	return info.ModTime()
}

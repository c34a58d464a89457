//go:build unix

package common

import (
	"io/fs"
	"syscall"
)

// os fills FileInfo.Sys with the syscall type; a golang.org/x/sys/unix
// Stat_t assertion would never succeed here.
func fileIdentity(info fs.FileInfo) (dev, ino uint64, ok bool) {
	if info == nil {
		return 0, 0, false
	}
	st, isStat := info.Sys().(*syscall.Stat_t)
	if !isStat {
		return 0, 0, false
	}
	return uint64(st.Dev), uint64(st.Ino), true
}

//go:build linux

package fs

import (
	"os"
	"syscall"
	"time"
)

// stat_linux.go extracts inode, access and change times from syscall.Stat_t.

func inodeOf(info os.FileInfo) uint64 {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0
	}
	return st.Ino
}

func timesOf(info os.FileInfo) (atime, ctime time.Time) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime(), info.ModTime()
	}
	atime = time.Unix(int64(st.Atim.Sec), int64(st.Atim.Nsec))
	ctime = time.Unix(int64(st.Ctim.Sec), int64(st.Ctim.Nsec))
	return atime, ctime
}

//go:build !linux && !darwin

package fs

import (
	"os"
	"time"
)

// provides a fallback for platforms without a POSIX stat we decode.
// Inode is reported as zero and access/change times fall back to the modification time.

func inodeOf(info os.FileInfo) uint64 {
	_ = info
	return 0
}

func timesOf(info os.FileInfo) (atime, ctime time.Time) {
	return info.ModTime(), info.ModTime()
}

// Package fs defines the filesystem capabilities used by log-janitor.
// It provides the FS interface, the FileInfo type shared across the system
// and the atomic compression primitive.
package fs

import (
	"context"
	"errors"
	iofs "io/fs"
	"time"
)

// ErrTargetExists is returned by Compress when the artifact already exists.
var ErrTargetExists = errors.New("compressed target already exists")

// ErrSourceChanged is returned by Compress when the source was written to while compressing.
var ErrSourceChanged = errors.New("source changed during compression")

type FileInfo struct {
	Path  string
	Size  int64
	Mode  iofs.FileMode
	MTime time.Time
	CTime time.Time
	ATime time.Time
	Inode uint64
}

// IsRegular reports whether the entry is a plain file (not a directory, symlink or device).
func (fi FileInfo) IsRegular() bool {
	return fi.Mode.IsRegular()
}

// CompressResult describes a finished compression.
type CompressResult struct {
	Target   string
	BytesIn  int64
	BytesOut int64
}

type FS interface {
	Stat(path string) (FileInfo, error)
	Exists(path string) (bool, error)
	// Compress writes path+suffix and removes path. On failure both are left as they were.
	Compress(ctx context.Context, path, suffix string) (CompressResult, error)
	Remove(ctx context.Context, path string) error
}

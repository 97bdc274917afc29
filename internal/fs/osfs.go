package fs

import (
	"context"
	"errors"
	iofs "io/fs"
	"os"
)

type OSFS struct {
	level int
}

// the concrete implementation of FS backed by the local OS filesystem.
// Platform-specific details (inode and ctime/atime extraction) are handled in build-tagged files.

// New returns an OSFS compressing with the given gzip level (-1 for the library default).
func New(level int) *OSFS {
	return &OSFS{level: level}
}

func (o *OSFS) Stat(path string) (FileInfo, error) {
	st, err := os.Lstat(path)
	if err != nil {
		return FileInfo{}, err
	}
	return fromFileInfo(path, st), nil
}

func (o *OSFS) Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, iofs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (o *OSFS) Compress(ctx context.Context, path, suffix string) (CompressResult, error) {
	return compressAtomic(ctx, path, path+suffix, o.level)
}

func (o *OSFS) Remove(ctx context.Context, path string) error {
	return removeWithRetry(ctx, path)
}

func fromFileInfo(path string, st os.FileInfo) FileInfo {
	atime, ctime := timesOf(st)
	return FileInfo{
		Path:  path,
		Size:  st.Size(),
		Mode:  st.Mode(),
		MTime: st.ModTime(),
		CTime: ctime,
		ATime: atime,
		Inode: inodeOf(st),
	}
}

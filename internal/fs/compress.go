package fs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/klauspost/compress/gzip"
)

// implements gzip compression with temp-file-then-rename publication.
// The source is removed only after the artifact is complete, synced and renamed into place,
// and the source is checked for writes (fsnotify + re-stat) before it is removed.
// The artifact's own timestamps are those of its creation; the source mtime is kept only
// in the gzip header, so retention ages an archive from when it was made.

func compressAtomic(ctx context.Context, src, dst string, level int) (CompressResult, error) {
	st, err := os.Lstat(src)
	if err != nil {
		return CompressResult{}, err
	}
	if !st.Mode().IsRegular() {
		return CompressResult{}, fmt.Errorf("%s is not a regular file", src)
	}
	orig := fromFileInfo(src, st)

	guard := watchWrites(src)
	defer guard.Close()

	tmp := filepath.Join(filepath.Dir(dst), "."+filepath.Base(dst)+".tmp-"+strconv.Itoa(os.Getpid()))

	written, err := gzipOnce(src, tmp, orig, level)
	if err != nil {
		_ = os.Remove(tmp)
		return CompressResult{}, err
	}

	now, err := os.Lstat(src)
	if err != nil {
		_ = os.Remove(tmp)
		return CompressResult{}, err
	}
	if guard.Modified() || sourceChanged(orig, fromFileInfo(src, now)) {
		_ = os.Remove(tmp)
		return CompressResult{}, ErrSourceChanged
	}

	// rename would silently replace an artifact created behind our back
	if _, err := os.Lstat(dst); err == nil {
		_ = os.Remove(tmp)
		return CompressResult{}, ErrTargetExists
	}

	if err := renameWithRetry(ctx, tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return CompressResult{}, err
	}

	if err := removeWithRetry(ctx, src); err != nil {
		_ = os.Remove(dst)
		return CompressResult{}, fmt.Errorf("removing source: %w", err)
	}

	return CompressResult{Target: dst, BytesIn: orig.Size, BytesOut: written}, nil
}

func gzipOnce(src, tmp string, orig FileInfo, level int) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, orig.Mode.Perm())
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = out.Close()
	}()

	zw, err := gzip.NewWriterLevel(out, level)
	if err != nil {
		return 0, err
	}
	zw.Name = filepath.Base(src)
	zw.ModTime = orig.MTime

	if _, err := io.Copy(zw, in); err != nil {
		return 0, err
	}
	if err := zw.Close(); err != nil {
		return 0, err
	}
	if err := out.Sync(); err != nil {
		return 0, err
	}

	fi, err := out.Stat()
	if err != nil {
		return 0, err
	}
	if err := out.Close(); err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

func sourceChanged(orig, now FileInfo) bool {
	if now.Inode != 0 && orig.Inode != 0 && now.Inode != orig.Inode {
		return true
	}
	if now.MTime.After(orig.MTime) {
		return true
	}
	if now.Size != orig.Size {
		return true
	}
	return false
}

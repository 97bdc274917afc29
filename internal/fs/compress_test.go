package fs

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o640))
}

func readGzip(t *testing.T, path string) (string, *gzip.Reader) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	zr, err := gzip.NewReader(f)
	require.NoError(t, err)
	data, err := io.ReadAll(zr)
	require.NoError(t, err)
	return string(data), zr
}

func TestCompress_ReplacesSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "app.log")
	content := strings.Repeat("GET /health 200\n", 500)
	writeFile(t, src, content)

	old := time.Now().Add(-2 * time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(src, old, old))

	start := time.Now().Add(-time.Second)
	res, err := New(-1).Compress(context.Background(), src, ".gz")
	require.NoError(t, err)

	assert.Equal(t, src+".gz", res.Target)
	assert.Equal(t, int64(len(content)), res.BytesIn)
	assert.Greater(t, res.BytesOut, int64(0))
	assert.Less(t, res.BytesOut, res.BytesIn)

	assert.NoFileExists(t, src)
	got, zr := readGzip(t, res.Target)
	assert.Equal(t, content, got)
	assert.Equal(t, "app.log", zr.Name)
	assert.True(t, zr.ModTime.Equal(old), "header keeps source mtime")

	st, err := os.Stat(res.Target)
	require.NoError(t, err)
	assert.True(t, st.ModTime().After(start), "artifact is dated at compression time")
	assert.Equal(t, os.FileMode(0o640), st.Mode().Perm())

	// no temp leftovers
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCompress_TargetExists(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "app.log")
	writeFile(t, src, "fresh")
	writeFile(t, src+".gz", "previous artifact")

	_, err := New(-1).Compress(context.Background(), src, ".gz")
	require.ErrorIs(t, err, ErrTargetExists)

	assert.FileExists(t, src)
	data, err := os.ReadFile(src + ".gz")
	require.NoError(t, err)
	assert.Equal(t, "previous artifact", string(data))
}

func TestCompress_MissingSource(t *testing.T) {
	dir := t.TempDir()
	_, err := New(-1).Compress(context.Background(), filepath.Join(dir, "gone.log"), ".gz")
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCompress_RejectsDirectory(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "logs")
	require.NoError(t, os.Mkdir(sub, 0o755))

	_, err := New(-1).Compress(context.Background(), sub, ".gz")
	assert.Error(t, err)
	assert.DirExists(t, sub)
}

func TestCompress_BadLevel(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "app.log")
	writeFile(t, src, "data")

	_, err := New(42).Compress(context.Background(), src, ".gz")
	require.Error(t, err)
	assert.FileExists(t, src)
	assert.NoFileExists(t, src+".gz")
}

func TestSourceChanged(t *testing.T) {
	base := FileInfo{Size: 10, MTime: time.Unix(100, 0), Inode: 7}

	assert.False(t, sourceChanged(base, base))

	grown := base
	grown.Size = 11
	assert.True(t, sourceChanged(base, grown))

	touched := base
	touched.MTime = time.Unix(101, 0)
	assert.True(t, sourceChanged(base, touched))

	replaced := base
	replaced.Inode = 8
	assert.True(t, sourceChanged(base, replaced))

	unknownInode := base
	unknownInode.Inode = 0
	assert.False(t, sourceChanged(base, unknownInode))
}

func TestWriteGuard_DetectsWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	writeFile(t, path, "a")

	g := watchWrites(path)
	defer g.Close()
	if g.w == nil {
		t.Skip("fsnotify unavailable")
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	require.NoError(t, err)
	_, err = f.WriteString("b")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	assert.Eventually(t, g.Modified, time.Second, 10*time.Millisecond)
}

func TestWriteGuard_CloseIsIdempotent(t *testing.T) {
	g := watchWrites(filepath.Join(t.TempDir(), "missing"))
	g.Close()
	g.Close()
	assert.False(t, g.Modified())
}

func TestOSFS_StatAndExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.log")
	writeFile(t, path, "12345")

	o := New(-1)
	fi, err := o.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(5), fi.Size)
	assert.True(t, fi.IsRegular())
	assert.False(t, fi.ATime.IsZero())
	assert.False(t, fi.CTime.IsZero())

	ok, err := o.Exists(path)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = o.Exists(filepath.Join(dir, "b.log"))
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, o.Remove(context.Background(), path))
	assert.NoFileExists(t, path)
	assert.Error(t, o.Remove(context.Background(), path))
}

func TestRetry(t *testing.T) {
	retryBase = time.Millisecond
	t.Cleanup(func() { retryBase = 100 * time.Millisecond })

	calls := 0
	err := retry(context.Background(), "op", func() error {
		calls++
		if calls < 3 {
			return syscall.EBUSY
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	err = retry(context.Background(), "op", func() error {
		calls++
		return os.ErrPermission
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, errors.Is(err, os.ErrPermission))

	calls = 0
	err = retry(context.Background(), "op", func() error {
		calls++
		return syscall.EAGAIN
	})
	require.Error(t, err)
	assert.Equal(t, maxRetries, calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, retry(ctx, "op", func() error { return nil }), context.Canceled)
}

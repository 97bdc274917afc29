package fs

import (
	"context"
	"os"
)

// wraps os.Rename and os.Remove with retry logic.
// Rename is the atomic step that publishes a finished artifact.

func renameWithRetry(ctx context.Context, oldPath, newPath string) error {
	return retry(ctx, "rename", func() error {
		return os.Rename(oldPath, newPath)
	})
}

func removeWithRetry(ctx context.Context, path string) error {
	return retry(ctx, "remove", func() error {
		return os.Remove(path)
	})
}

package worker

import (
	"context"

	"github.com/raoulx24/log-janitor/internal/summary"
)

// defines the per-pattern phases the worker drives.

type Compressor interface {
	Run(ctx context.Context, pattern string, sum *summary.Summary) error
}

type Sweeper interface {
	Run(ctx context.Context, pattern string, sum *summary.Summary) error
}

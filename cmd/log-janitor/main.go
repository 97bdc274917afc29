package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/raoulx24/log-janitor/internal/compressor"
	"github.com/raoulx24/log-janitor/internal/config"
	"github.com/raoulx24/log-janitor/internal/fs"
	"github.com/raoulx24/log-janitor/internal/fsprobe"
	"github.com/raoulx24/log-janitor/internal/gate"
	"github.com/raoulx24/log-janitor/internal/logging"
	"github.com/raoulx24/log-janitor/internal/retention"
	"github.com/raoulx24/log-janitor/internal/summary"
	"github.com/raoulx24/log-janitor/internal/worker"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown: finish the current file, then report
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dry bool

	cmd := &cobra.Command{
		Use:   "log-janitor",
		Short: "Compress idle log files and delete expired archives",
		Long: `log-janitor compresses log files matched by the configured patterns once they
are old enough and no process holds them open, then deletes compressed archives
older than the retention window.

Configuration is read from config.yaml, or from the path in $` + config.EnvPath + `.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), config.Path(), dry, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&dry, "dry", false, "report what would be done without changing any file")
	return cmd
}

func run(ctx context.Context, cfgPath string, dry bool, stdout io.Writer) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.DryRun = dry

	logger, closer, err := logging.New(cfg.Logging, stdout)
	if err != nil {
		// an unwritable log file is not fatal
		stdoutOnly := cfg.Logging
		stdoutOnly.File = ""
		var ferr error
		if logger, closer, ferr = logging.New(stdoutOnly, stdout); ferr != nil {
			return ferr
		}
		logger.Warn("log file unavailable, logging to stdout only", "file", cfg.Logging.File, "error", err)
	}
	defer closer.Close()

	log := logger.With("run_id", uuid.NewString())
	log.Info("starting run", "config", cfgPath, "patterns", len(cfg.Patterns), "dry_run", cfg.DryRun)

	probe, res := fsprobe.Select(cfg.OpenFileProbe)
	if res.Supported {
		log.Debug("open-file probe selected", "probe", res.Name)
	} else {
		log.Warn("open-file probe unavailable, treating files as closed", "reason", res.Reason)
	}

	if cfg.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Deadline)
		defer cancel()
	}

	filesystem := fs.New(cfg.CompressionLevel)
	g := gate.New(cfg, probe, time.Now)

	w := worker.New(cfg, log,
		compressor.New(cfg, filesystem, g, log, time.Now),
		retention.New(cfg, filesystem, log, time.Now),
	)

	started := time.Now()
	sum, err := w.RunAll(ctx)
	if err != nil {
		log.Error("run aborted", "error", err)
		return err
	}
	finished := time.Now()

	if err := sum.Report(stdout); err != nil {
		log.Error("writing report", "error", err)
	}

	log.Info("run finished",
		"duration", finished.Sub(started),
		"compressed", sum.Count(summary.Compressed),
		"deleted", sum.Count(summary.Deleted),
		"errors", sum.Count(summary.CompressError)+sum.Count(summary.DeleteError),
	)

	if cfg.Metrics.Textfile != "" {
		info := summary.RunInfo{Started: started, Finished: finished, DryRun: cfg.DryRun}
		if err := sum.WriteTextfile(cfg.Metrics.Textfile, info); err != nil {
			log.Error("writing metrics textfile", "path", cfg.Metrics.Textfile, "error", err)
		}
	}

	return nil
}

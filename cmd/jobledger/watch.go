package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobledger/internal/scheduler"
	"github.com/amishk599/jobledger/internal/spool"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Process files dropped into the spool directory",
	Long:  "Start the spool daemon; every interval it ingests new *.json / *.jsonl files. Blocks until SIGINT/SIGTERM.",
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	cfg := mustLoad(logger)

	logger.Info("config loaded",
		"store", cfg.Store.Driver,
		"spool_dir", cfg.Watch.SpoolDir,
		"interval", cfg.Watch.Interval.String(),
		"ai", cfg.AI.Enabled,
		"workers", cfg.Pipeline.Workers,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	sp, err := spool.New(cfg.Watch.SpoolDir, a.runner, logger)
	if err != nil {
		logger.Error("failed to open spool", "error", err)
		os.Exit(1)
	}

	sched := scheduler.NewScheduler([]scheduler.Task{sp}, cfg.Watch.Interval, 0, logger)
	if err := sched.Run(ctx); err != nil {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Enrich and store job postings",
	Long: "Reads postings as a JSON object, a JSON array or JSON lines from the given files " +
		"(or stdin with no files or \"-\"), enriches each one and upserts it into the store.",
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	cfg := mustLoad(logger)

	raws, err := readInputs(args, cmd.InOrStdin())
	if err != nil {
		logger.Error("failed to read input", "error", err)
		os.Exit(1)
	}
	if len(raws) == 0 {
		logger.Info("no postings in input")
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	stats, _, err := a.runner.Run(ctx, raws)
	if err != nil {
		logger.Warn("ingest interrupted", "pending", stats.Pending)
		return err
	}
	if stats.Failed > 0 {
		logger.Error("some postings failed", "failed", stats.Failed, "completed", stats.Completed)
		os.Exit(1)
	}
	return nil
}

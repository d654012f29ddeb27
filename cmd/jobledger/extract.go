package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobledger/internal/store"
)

var extractCmd = &cobra.Command{
	Use:   "extract [files...]",
	Short: "Enrich postings and print them without storing",
	Long:  "Runs the enrichment pipeline on the input and prints one JSON record per posting. Nothing is written to the store.",
	RunE:  runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	// Records go to stdout; keep logs out of the way.
	logger := newLogger(os.Stderr, debug)
	cfg := mustLoad(logger)

	raws, err := readInputs(args, cmd.InOrStdin())
	if err != nil {
		logger.Error("failed to read input", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	skills, cleanup, err := buildSkillExtractor(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	p := buildPipeline(cfg, store.NewNopStore(), skills, logger)
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	failed := 0
	for _, raw := range raws {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		rec, err := p.Enrich(ctx, raw)
		if err != nil {
			logger.Error("posting rejected", "linkedin_url", raw.LinkedInURL, "error", err)
			failed++
			continue
		}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
	return nil
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobledger/internal/linkedin"
	"github.com/amishk599/jobledger/internal/model"
)

var showCmd = &cobra.Command{
	Use:   "show <linkedin-url>",
	Short: "Print the stored record for one posting",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	logger := newLogger(os.Stderr, debug)
	cfg := mustLoad(logger)

	url, err := linkedin.CanonicalURL(args[0])
	if err != nil {
		return fmt.Errorf("invalid posting url: %w", err)
	}

	ctx := context.Background()
	st, err := buildStore(ctx, cfg.Store, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	rec, err := st.Get(ctx, url)
	if errors.Is(err, model.ErrNotFound) {
		fmt.Fprintf(cmd.ErrOrStderr(), "no record for %s\n", url)
		os.Exit(1)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}

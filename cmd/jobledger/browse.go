package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobledger/internal/browse"
	"github.com/amishk599/jobledger/internal/filter"
	"github.com/amishk599/jobledger/internal/model"
)

var (
	browsePick  bool
	browseLimit int
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse stored records interactively (TUI)",
	Long:  "Loads records from the store and shows all of them next to the ones matching the filters section.",
	RunE:  runBrowse,
}

func init() {
	browseCmd.Flags().BoolVar(&browsePick, "pick", false, "choose a city before browsing")
	browseCmd.Flags().IntVar(&browseLimit, "limit", 500, "maximum records to load")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	cfg := mustLoad(logger)

	// The TUI owns the terminal; any log output corrupts the display.
	silentLogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx := context.Background()
	st, err := buildStore(ctx, cfg.Store, silentLogger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	skills, cleanup, err := buildSkillExtractor(ctx, cfg, silentLogger)
	if err != nil {
		logger.Error("failed to set up skill fallback", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	records, err := browse.RunLoader(cfg.Store.Driver, func(ctx context.Context) ([]model.JobRecord, error) {
		return st.List(ctx, model.ListQuery{Limit: browseLimit})
	})
	if err != nil {
		return err
	}

	if browsePick {
		city, err := browse.RunCityPicker(records)
		if err != nil {
			return err
		}
		if city == "" {
			return nil
		}
		if city != browse.AllCities {
			records = keepCity(records, city)
		}
	}

	var fallback model.SkillExtractor
	if cfg.AI.Enabled {
		fallback = skills
	}
	matched := filter.New(cfg.Filters).Apply(records)
	return browse.Run(records, matched, fallback)
}

func keepCity(records []model.JobRecord, city string) []model.JobRecord {
	var out []model.JobRecord
	for _, r := range records {
		if r.City == city {
			out = append(out, r)
		}
	}
	return out
}

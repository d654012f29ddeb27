package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/amishk599/jobledger/internal/config"
	"github.com/amishk599/jobledger/internal/filter"
	"github.com/amishk599/jobledger/internal/model"
)

var (
	listCity      string
	listSince     string
	listWorkplace []string
	listSeniority []string
	listLimit     int
	listJSON      bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored records, newest posting first",
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listCity, "city", "", "only records in this city")
	listCmd.Flags().StringVar(&listSince, "since", "", "only postings since a date (2006-01-02) or age (72h, 7d)")
	listCmd.Flags().StringSliceVar(&listWorkplace, "workplace", nil, "workplace types to keep (remote, hybrid, on-site)")
	listCmd.Flags().StringSliceVar(&listSeniority, "seniority", nil, "seniority levels to keep (senior, mid, junior)")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "maximum records to read from the store (default 100)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print JSON lines instead of a table")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	logger := newLogger(os.Stderr, debug)
	cfg := mustLoad(logger)

	since, err := parseSince(listSince, time.Now())
	if err != nil {
		return err
	}

	ctx := context.Background()
	st, err := buildStore(ctx, cfg.Store, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	records, err := st.List(ctx, model.ListQuery{City: listCity, PostedSince: since, Limit: listLimit})
	if err != nil {
		return err
	}
	records = filter.New(config.FilterConfig{
		WorkplaceTypes:  listWorkplace,
		SeniorityLevels: listSeniority,
	}).Apply(records)

	if listJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		for _, r := range records {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderTable(records))
	return nil
}

// parseSince accepts a calendar date or an age such as 72h or 7d.
func parseSince(s string, now time.Time) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if days, ok := strings.CutSuffix(s, "d"); ok {
		if n, err := strconv.Atoi(days); err == nil && n >= 0 {
			t := now.AddDate(0, 0, -n)
			return &t, nil
		}
	}
	if d, err := time.ParseDuration(s); err == nil {
		t := now.Add(-d)
		return &t, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return &t, nil
	}
	return nil, fmt.Errorf("invalid --since %q: want a date (2006-01-02) or an age (72h, 7d)", s)
}

func renderTable(records []model.JobRecord) string {
	if len(records) == 0 {
		return "no records"
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("POSTED", "TITLE", "COMPANY", "CITY", "WORKPLACE", "SENIORITY", "SKILLS")
	for _, r := range records {
		posted := "-"
		if r.PostedAt != nil {
			posted = r.PostedAt.Format(time.DateOnly)
		}
		t.Row(posted, r.JobTitle, r.Company, r.City, r.WorkplaceType, r.SeniorityLevel, skillSummary(r.RequiredSkills))
	}
	return t.String()
}

func skillSummary(skills []string) string {
	const shown = 4
	switch {
	case skills == nil:
		return "?"
	case len(skills) <= shown:
		return strings.Join(skills, ", ")
	default:
		return strings.Join(skills[:shown], ", ") + fmt.Sprintf(" +%d", len(skills)-shown)
	}
}

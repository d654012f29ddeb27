package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/amishk599/jobledger/internal/config"
	"github.com/amishk599/jobledger/internal/model"
	"github.com/amishk599/jobledger/internal/notifier"
	"github.com/amishk599/jobledger/internal/retry"
	"github.com/amishk599/jobledger/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_MissingDefaultFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JOBLEDGER_CONFIG", "")

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Store.Driver != "sqlite" {
		t.Errorf("Store.Driver = %q, want sqlite default", cfg.Store.Driver)
	}
}

func TestLoadConfig_Priority(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, "config.yaml", "store:\n  driver: nop\n")
	envPath := writeFile(t, dir, "env.yaml", "pipeline:\n  workers: 7\n")
	flagPath := writeFile(t, dir, "flag.yaml", "pipeline:\n  workers: 3\n")

	t.Setenv("JOBLEDGER_CONFIG", "")
	cfg, err := loadConfig("")
	if err != nil || cfg.Store.Driver != "nop" {
		t.Fatalf("default file: cfg = %+v, err = %v", cfg, err)
	}

	t.Setenv("JOBLEDGER_CONFIG", envPath)
	cfg, err = loadConfig("")
	if err != nil || cfg.Pipeline.Workers != 7 {
		t.Fatalf("env path: cfg = %+v, err = %v", cfg, err)
	}

	cfg, err = loadConfig(flagPath)
	if err != nil || cfg.Pipeline.Workers != 3 {
		t.Fatalf("flag path: cfg = %+v, err = %v", cfg, err)
	}
}

func TestLoadConfig_ExplicitMissingFileFails(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for an explicit missing path")
	}
}

func TestReadInputs(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", `[{"linkedin_url":"a"},{"linkedin_url":"b"}]`)
	b := writeFile(t, dir, "b.jsonl", "{\"linkedin_url\":\"c\"}\n")

	raws, err := readInputs([]string{a, "-", b}, strings.NewReader(`{"linkedin_url":"stdin"}`))
	if err != nil {
		t.Fatalf("readInputs: %v", err)
	}
	var got []string
	for _, r := range raws {
		got = append(got, r.LinkedInURL)
	}
	if strings.Join(got, ",") != "a,b,stdin,c" {
		t.Errorf("urls = %v", got)
	}

	if _, err := readInputs([]string{filepath.Join(dir, "missing.json")}, nil); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestReadInputs_DefaultsToStdin(t *testing.T) {
	raws, err := readInputs(nil, strings.NewReader(`{"linkedin_url":"x"}`))
	if err != nil || len(raws) != 1 {
		t.Fatalf("raws = %+v, err = %v", raws, err)
	}
}

func TestParseSince(t *testing.T) {
	now := time.Date(2025, 5, 20, 15, 0, 0, 0, time.UTC)
	tests := []struct {
		in   string
		want *time.Time
	}{
		{"", nil},
		{"7d", ptr(time.Date(2025, 5, 13, 15, 0, 0, 0, time.UTC))},
		{"36h", ptr(time.Date(2025, 5, 19, 3, 0, 0, 0, time.UTC))},
		{"2025-05-01", ptr(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))},
	}
	for _, tt := range tests {
		got, err := parseSince(tt.in, now)
		if err != nil {
			t.Fatalf("parseSince(%q): %v", tt.in, err)
		}
		if (got == nil) != (tt.want == nil) || (got != nil && !got.Equal(*tt.want)) {
			t.Errorf("parseSince(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := parseSince("last week", now); err == nil {
		t.Error("expected error for an unparseable value")
	}
}

func ptr(t time.Time) *time.Time { return &t }

func TestSkillSummary(t *testing.T) {
	if got := skillSummary(nil); got != "?" {
		t.Errorf("nil = %q", got)
	}
	if got := skillSummary([]string{}); got != "" {
		t.Errorf("empty = %q", got)
	}
	if got := skillSummary([]string{"a", "b", "c", "d", "e", "f"}); got != "a, b, c, d +2" {
		t.Errorf("long = %q", got)
	}
}

func TestBuildStore(t *testing.T) {
	ctx := context.Background()

	st, err := buildStore(ctx, config.StoreConfig{Driver: "nop"}, discardLogger())
	if err != nil {
		t.Fatalf("nop: %v", err)
	}
	if _, ok := st.(*store.NopStore); !ok {
		t.Errorf("nop store = %T", st)
	}

	st, err = buildStore(ctx, config.StoreConfig{
		Driver:     "sqlite",
		Path:       filepath.Join(t.TempDir(), "jobs.db"),
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
	}, discardLogger())
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	defer st.Close()
	if _, ok := st.(*retry.RetryStore); !ok {
		t.Errorf("sqlite store with retries = %T, want *retry.RetryStore", st)
	}

	if _, err := buildStore(ctx, config.StoreConfig{Driver: "cassandra"}, discardLogger()); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestBuildSkillExtractor_DisabledIsNop(t *testing.T) {
	ext, cleanup, err := buildSkillExtractor(context.Background(), config.Default(), discardLogger())
	if err != nil {
		t.Fatalf("buildSkillExtractor: %v", err)
	}
	defer cleanup()
	if out := ext.ExtractSkills(context.Background(), "anything"); out.Status != model.SkillsUnavailable {
		t.Errorf("outcome = %+v, want unavailable", out)
	}
}

func TestBuildNotifier(t *testing.T) {
	cfg := config.Default()
	if _, ok := buildNotifier(cfg, discardLogger()).(*notifier.FilteredNotifier); !ok {
		t.Error("log notifier should be wrapped in a filter")
	}
	cfg.Notification.Type = "none"
	if n := buildNotifier(cfg, discardLogger()); n != nil {
		t.Errorf("none = %T, want nil", n)
	}
}

func TestApp_IngestThroughRunner(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Path = filepath.Join(t.TempDir(), "jobs.db")
	cfg.Notification.Type = "none"

	a, err := buildApp(context.Background(), cfg, discardLogger())
	if err != nil {
		t.Fatalf("buildApp: %v", err)
	}
	defer a.Close()

	raws := []model.RawJob{
		{LinkedInURL: "https://www.linkedin.com/jobs/view/4242/", JobTitle: "Go Developer", Location: "Toronto, ON · 2 days ago"},
		{LinkedInURL: "https://www.linkedin.com/jobs/view/4242/?trk=x", JobTitle: "Go Developer"},
	}
	stats, stored, err := a.runner.Run(context.Background(), raws)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Duplicates != 1 || stats.Completed != 1 || len(stored) != 1 {
		t.Fatalf("stats = %+v", stats)
	}

	rec, err := a.store.Get(context.Background(), "https://www.linkedin.com/jobs/view/4242/")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.City != "Toronto" || rec.Province != "ON" {
		t.Errorf("stored = %+v", rec)
	}
}

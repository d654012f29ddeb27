package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobledger/internal/ai"
	"github.com/amishk599/jobledger/internal/config"
	"github.com/amishk599/jobledger/internal/filter"
	"github.com/amishk599/jobledger/internal/model"
	"github.com/amishk599/jobledger/internal/normalize"
	"github.com/amishk599/jobledger/internal/notifier"
	"github.com/amishk599/jobledger/internal/pipeline"
	"github.com/amishk599/jobledger/internal/ratelimit"
	"github.com/amishk599/jobledger/internal/retry"
	"github.com/amishk599/jobledger/internal/skillcache"
	"github.com/amishk599/jobledger/internal/store"
)

const defaultConfigPath = "config.yaml"

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobledger",
	Short: "Enrich and track job postings",
	Long: "jobledger turns scraped LinkedIn job postings into normalized records " +
		"and keeps one up-to-date record per posting.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBLEDGER_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBLEDGER_CONFIG env var > "./config.yaml".
// Only a missing default file falls back to config.Default.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = os.Getenv("JOBLEDGER_CONFIG")
	}
	if path == "" {
		if _, err := os.Stat(defaultConfigPath); errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
		path = defaultConfigPath
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	return newLogger(os.Stdout, dbg)
}

func newLogger(w io.Writer, dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

// mustLoad is the common preamble of every subcommand.
func mustLoad(logger *slog.Logger) *config.Config {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	return cfg
}

// buildStore opens the configured backend and wraps it with the retry decorator.
func buildStore(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (model.JobStore, error) {
	var s model.JobStore
	var err error
	switch cfg.Driver {
	case "sqlite":
		s, err = store.NewSQLiteStore(cfg.Path)
	case "postgres":
		s, err = store.NewPostgresStore(ctx, cfg.URL)
	case "mongo":
		s, err = store.NewMongoStore(ctx, cfg.URL, cfg.Database)
	case "nop":
		s = store.NewNopStore()
	default:
		err = fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("store opened", "driver", cfg.Driver)

	if cfg.MaxRetries > 0 {
		s = retry.NewRetryStore(s, cfg.MaxRetries, cfg.RetryDelay, logger)
	}
	return s, nil
}

// buildSkillExtractor assembles the fallback chain: provider, prompt,
// rate limit, then cache. The returned cleanup closes provider and cache
// connections and is never nil.
func buildSkillExtractor(ctx context.Context, cfg *config.Config, logger *slog.Logger) (model.SkillExtractor, func(), error) {
	var closers []io.Closer
	cleanup := func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}

	if !cfg.AI.Enabled {
		return ai.NewNopSkillExtractor(), cleanup, nil
	}

	var provider ai.LLMProvider
	switch cfg.AI.Provider {
	case "gemini":
		gp, err := ai.NewGeminiProvider(ctx, cfg.AI.APIKey, cfg.AI.Model, cfg.AI.Temperature)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, gp)
		provider = gp
	default:
		provider = ai.NewOpenAIProvider(ai.OpenAIConfig{
			BaseURL:     cfg.AI.BaseURL,
			APIKey:      cfg.AI.APIKey,
			Model:       cfg.AI.Model,
			Temperature: cfg.AI.Temperature,
			HTTPClient:  &http.Client{Timeout: cfg.AI.Timeout + 5*time.Second},
		})
	}

	llm, err := ai.NewLLMSkillExtractor(provider, ai.RequiredSkillsTemplate, ai.Options{
		Timeout:       cfg.AI.Timeout,
		MaxInputChars: cfg.AI.MaxInputChars,
		MaxSkills:     cfg.AI.MaxSkills,
	}, logger)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}

	var ext model.SkillExtractor = ratelimit.NewRateLimitedExtractor(llm, cfg.AI.RateLimit, cfg.AI.Burst, cfg.AI.Timeout)

	switch cfg.Cache.Type {
	case "memory":
		ext = skillcache.NewCachedExtractor(ext, skillcache.NewMemoryCache(cfg.Cache.TTL), logger)
	case "redis":
		rc, err := skillcache.NewRedisCache(ctx, cfg.Cache.URL, cfg.Cache.Prefix, cfg.Cache.TTL)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		closers = append(closers, rc)
		ext = skillcache.NewCachedExtractor(ext, rc, logger)
	}

	logger.Info("skill fallback enabled", "provider", cfg.AI.Provider, "model", cfg.AI.Model, "cache", cfg.Cache.Type)
	return ext, cleanup, nil
}

// buildNotifier returns the configured notifier restricted by the filters
// section, or nil when notifications are off.
func buildNotifier(cfg *config.Config, logger *slog.Logger) model.Notifier {
	var n model.Notifier
	switch cfg.Notification.Type {
	case "none":
		return nil
	case "slack":
		logger.Info("using slack notifier")
		n = notifier.NewSlackNotifier(cfg.Notification.WebhookURL, &http.Client{Timeout: 30 * time.Second}, logger)
	default:
		n = notifier.NewLogNotifier(logger)
	}
	return notifier.NewFilteredNotifier(n, filter.New(cfg.Filters), cfg.Notification.OnlyNew)
}

func buildPipeline(cfg *config.Config, st model.JobStore, skills model.SkillExtractor, logger *slog.Logger) *pipeline.Pipeline {
	normalizer := normalize.New(normalize.NaturalDateParser{}, time.Now)
	return pipeline.New(st, skills, normalizer, pipeline.Options{
		DeterministicSkills: cfg.Pipeline.DeterministicSkills,
	}, logger)
}

// app bundles everything a writing subcommand needs.
type app struct {
	store   model.JobStore
	runner  *pipeline.Runner
	cleanup func()
}

func (a *app) Close() {
	a.cleanup()
	_ = a.store.Close()
}

func buildApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	st, err := buildStore(ctx, cfg.Store, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	skills, cleanup, err := buildSkillExtractor(ctx, cfg, logger)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("set up skill fallback: %w", err)
	}
	p := buildPipeline(cfg, st, skills, logger)
	runner := pipeline.NewRunner(p, buildNotifier(cfg, logger), cfg.Pipeline.Workers, logger)
	return &app{store: st, runner: runner, cleanup: cleanup}, nil
}

package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for jobledger.
type Config struct {
	Store        StoreConfig
	AI           AIConfig
	Pipeline     PipelineConfig
	Cache        CacheConfig
	Watch        WatchConfig
	Filters      FilterConfig
	Notification NotificationConfig
}

// StoreConfig selects and configures the durable store.
type StoreConfig struct {
	Driver     string        // "sqlite", "postgres", "mongo" or "nop"
	Path       string        // sqlite database file
	URL        string        // postgres DSN or mongo URI, expanded from env by Load
	Database   string        // mongo database name
	MaxRetries int           // extra upsert attempts on store unavailability
	RetryDelay time.Duration // delay before the first retry, doubled after
}

// AIConfig controls the skill fallback.
type AIConfig struct {
	Enabled       bool
	Provider      string // "openai" or "gemini"
	BaseURL       string // openai only; defaults to https://api.openai.com/v1
	Model         string
	APIKey        string        // expanded from env var by Load
	Timeout       time.Duration // per-request timeout
	MaxInputChars int
	MaxSkills     int
	Temperature   float64
	RateLimit     float64 // requests per second; 0 = unlimited
	Burst         int
}

// PipelineConfig tunes batch processing.
type PipelineConfig struct {
	Workers             int
	DeterministicSkills bool
}

// CacheConfig controls the skill fallback cache.
type CacheConfig struct {
	Type   string // "none", "memory" or "redis"
	URL    string // redis://host:port/db
	Prefix string
	TTL    time.Duration
}

// WatchConfig controls the spool-directory daemon.
type WatchConfig struct {
	SpoolDir string
	Interval time.Duration
}

// FilterConfig holds the record filter used for notifications and listing.
type FilterConfig struct {
	TitleKeywords        []string `yaml:"title_keywords"`
	TitleExcludeKeywords []string `yaml:"title_exclude_keywords"`
	Cities               []string `yaml:"cities"`
	WorkplaceTypes       []string `yaml:"workplace_types"`
	SeniorityLevels      []string `yaml:"seniority_levels"`
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log", "slack" or "none"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
	OnlyNew    bool   `yaml:"only_new"`    // skip records that were already stored
}

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4o-mini"
	defaultGeminiModel   = "gemini-1.5-flash"
)

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	Store        rawStoreConfig     `yaml:"store"`
	AI           rawAIConfig        `yaml:"ai"`
	Pipeline     rawPipelineConfig  `yaml:"pipeline"`
	Cache        rawCacheConfig     `yaml:"cache"`
	Watch        rawWatchConfig     `yaml:"watch"`
	Filters      FilterConfig       `yaml:"filters"`
	Notification NotificationConfig `yaml:"notification"`
}

type rawStoreConfig struct {
	Driver     string `yaml:"driver"`
	Path       string `yaml:"path"`
	URL        string `yaml:"url"`
	Database   string `yaml:"database"`
	MaxRetries *int   `yaml:"max_retries"`
	RetryDelay string `yaml:"retry_delay"`
}

type rawAIConfig struct {
	Enabled       bool     `yaml:"enabled"`
	Provider      string   `yaml:"provider"`
	BaseURL       string   `yaml:"base_url"`
	Model         string   `yaml:"model"`
	APIKey        string   `yaml:"api_key"`
	Timeout       string   `yaml:"timeout"`
	MaxInputChars int      `yaml:"max_input_chars"`
	MaxSkills     int      `yaml:"max_skills"`
	Temperature   *float64 `yaml:"temperature"`
	RateLimit     float64  `yaml:"rate_limit"`
	Burst         int      `yaml:"burst"`
}

type rawPipelineConfig struct {
	Workers             int  `yaml:"workers"`
	DeterministicSkills bool `yaml:"deterministic_skills"`
}

type rawCacheConfig struct {
	Type   string `yaml:"type"`
	URL    string `yaml:"url"`
	Prefix string `yaml:"prefix"`
	TTL    string `yaml:"ttl"`
}

type rawWatchConfig struct {
	SpoolDir string `yaml:"spool_dir"`
	Interval string `yaml:"interval"`
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return fromRaw(raw)
}

// Default returns the configuration used when no config file exists:
// a local SQLite store, no skill fallback and log notifications.
func Default() *Config {
	cfg, err := fromRaw(rawConfig{})
	if err != nil {
		panic(fmt.Sprintf("default config invalid: %v", err))
	}
	return cfg
}

func fromRaw(raw rawConfig) (*Config, error) {
	retryDelay, err := parseDuration("store.retry_delay", raw.Store.RetryDelay, 2*time.Second)
	if err != nil {
		return nil, err
	}
	aiTimeout, err := parseDuration("ai.timeout", raw.AI.Timeout, 30*time.Second)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parseDuration("cache.ttl", raw.Cache.TTL, 7*24*time.Hour)
	if err != nil {
		return nil, err
	}
	watchInterval, err := parseDuration("watch.interval", raw.Watch.Interval, 30*time.Second)
	if err != nil {
		return nil, err
	}

	maxRetries := 2
	if raw.Store.MaxRetries != nil {
		maxRetries = *raw.Store.MaxRetries
	}

	provider := strings.ToLower(orDefault(raw.AI.Provider, "openai"))
	model := raw.AI.Model
	baseURL := raw.AI.BaseURL
	switch provider {
	case "openai":
		model = orDefault(model, defaultOpenAIModel)
		baseURL = orDefault(baseURL, defaultOpenAIBaseURL)
	case "gemini":
		model = orDefault(model, defaultGeminiModel)
	}

	temperature := 0.2
	if raw.AI.Temperature != nil {
		temperature = *raw.AI.Temperature
	}

	cfg := &Config{
		Store: StoreConfig{
			Driver:     strings.ToLower(orDefault(raw.Store.Driver, "sqlite")),
			Path:       orDefault(raw.Store.Path, "jobledger.db"),
			URL:        raw.Store.URL,
			Database:   orDefault(raw.Store.Database, "jobtracker"),
			MaxRetries: maxRetries,
			RetryDelay: retryDelay,
		},
		AI: AIConfig{
			Enabled:       raw.AI.Enabled,
			Provider:      provider,
			BaseURL:       baseURL,
			Model:         model,
			APIKey:        raw.AI.APIKey,
			Timeout:       aiTimeout,
			MaxInputChars: orDefaultInt(raw.AI.MaxInputChars, 12_000),
			MaxSkills:     orDefaultInt(raw.AI.MaxSkills, 12),
			Temperature:   temperature,
			RateLimit:     raw.AI.RateLimit,
			Burst:         orDefaultInt(raw.AI.Burst, 1),
		},
		Pipeline: PipelineConfig{
			Workers:             orDefaultInt(raw.Pipeline.Workers, 4),
			DeterministicSkills: raw.Pipeline.DeterministicSkills,
		},
		Cache: CacheConfig{
			Type:   strings.ToLower(orDefault(raw.Cache.Type, "none")),
			URL:    raw.Cache.URL,
			Prefix: orDefault(raw.Cache.Prefix, "jobledger:skills:"),
			TTL:    cacheTTL,
		},
		Watch: WatchConfig{
			SpoolDir: orDefault(raw.Watch.SpoolDir, "spool"),
			Interval: watchInterval,
		},
		Filters: raw.Filters,
		Notification: NotificationConfig{
			Type:       strings.ToLower(orDefault(raw.Notification.Type, "log")),
			WebhookURL: raw.Notification.WebhookURL,
			OnlyNew:    raw.Notification.OnlyNew,
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.Store.Driver {
	case "sqlite", "nop":
	case "postgres", "mongo":
		if cfg.Store.URL == "" {
			return fmt.Errorf("store.url is required when store.driver is %q", cfg.Store.Driver)
		}
	default:
		return fmt.Errorf("store.driver must be sqlite, postgres, mongo or nop, got %q", cfg.Store.Driver)
	}
	if cfg.Store.MaxRetries < 0 {
		return fmt.Errorf("store.max_retries must not be negative, got %d", cfg.Store.MaxRetries)
	}

	if cfg.AI.Enabled {
		if cfg.AI.Provider != "openai" && cfg.AI.Provider != "gemini" {
			return fmt.Errorf("ai.provider must be openai or gemini, got %q", cfg.AI.Provider)
		}
		if cfg.AI.APIKey == "" {
			return fmt.Errorf("ai.api_key is required when ai.enabled is true")
		}
		if cfg.AI.Timeout <= 0 {
			return fmt.Errorf("ai.timeout must be positive, got %v", cfg.AI.Timeout)
		}
		if cfg.AI.Temperature < 0 || cfg.AI.Temperature > 2 {
			return fmt.Errorf("ai.temperature must be between 0 and 2, got %v", cfg.AI.Temperature)
		}
	}

	if cfg.Pipeline.Workers < 1 {
		return fmt.Errorf("pipeline.workers must be at least 1, got %d", cfg.Pipeline.Workers)
	}

	switch cfg.Cache.Type {
	case "none", "memory":
	case "redis":
		if cfg.Cache.URL == "" {
			return fmt.Errorf("cache.url is required when cache.type is \"redis\"")
		}
	default:
		return fmt.Errorf("cache.type must be none, memory or redis, got %q", cfg.Cache.Type)
	}

	if cfg.Watch.Interval <= 0 {
		return fmt.Errorf("watch.interval must be positive, got %v", cfg.Watch.Interval)
	}

	switch cfg.Notification.Type {
	case "log", "none":
	case "slack":
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/")
		}
	default:
		return fmt.Errorf("notification.type must be log, slack or none, got %q", cfg.Notification.Type)
	}

	for _, w := range cfg.Filters.WorkplaceTypes {
		if !slices.Contains([]string{"remote", "hybrid", "on-site"}, strings.ToLower(w)) {
			return fmt.Errorf("filters.workplace_types: unknown workplace type %q", w)
		}
	}
	for _, s := range cfg.Filters.SeniorityLevels {
		if !slices.Contains([]string{"senior", "mid", "junior"}, strings.ToLower(s)) {
			return fmt.Errorf("filters.seniority_levels: unknown seniority level %q", s)
		}
	}

	return nil
}

func parseDuration(key, value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", key, value, err)
	}
	return d, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orDefaultInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

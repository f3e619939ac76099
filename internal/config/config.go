package config

import (
	"time"

	"github.com/marketcalls/FinSights/pkg/config"
)

// Perplexity holds the configuration for the Perplexity API.
type Perplexity struct {
	BaseURL             string        `mapstructure:"base_url"`
	ChatModel           string        `mapstructure:"chat_model"`
	ScenarioModel       string        `mapstructure:"scenario_model"`
	MaxSearchResults    int           `mapstructure:"max_search_results"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	Timeout             time.Duration `mapstructure:"timeout"`
}

// Scheduler holds the job scheduler configuration.
type Scheduler struct {
	Enabled    bool          `mapstructure:"enabled"`
	JobTimeout time.Duration `mapstructure:"job_timeout"`
}

// News holds ingestion tuning knobs.
type News struct {
	EnrichContent bool `mapstructure:"enrich_content"`
	CacheSize     int  `mapstructure:"cache_size"`
}

// Telegram holds configuration for the failure notifier.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the FinSights server.
type Config struct {
	App        config.App      `mapstructure:"app"`
	Logger     config.Logger   `mapstructure:"logger"`
	Database   config.Database `mapstructure:"database"`
	API        config.API      `mapstructure:"api"`
	Perplexity Perplexity      `mapstructure:"perplexity"`
	Scheduler  Scheduler       `mapstructure:"scheduler"`
	News       News            `mapstructure:"news"`
	Telegram   Telegram        `mapstructure:"telegram"`
}

// Load loads the server configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Perplexity.BaseURL == "" {
		cfg.Perplexity.BaseURL = "https://api.perplexity.ai"
	}
	if cfg.Perplexity.ChatModel == "" {
		cfg.Perplexity.ChatModel = "sonar"
	}
	if cfg.Perplexity.ScenarioModel == "" {
		cfg.Perplexity.ScenarioModel = "sonar-pro"
	}
	if cfg.Perplexity.MaxSearchResults == 0 {
		cfg.Perplexity.MaxSearchResults = 15
	}
	if cfg.Perplexity.MaxRequestPerMinute == 0 {
		cfg.Perplexity.MaxRequestPerMinute = 20
	}
	if cfg.Perplexity.Timeout == 0 {
		cfg.Perplexity.Timeout = 90 * time.Second
	}
	if cfg.Scheduler.JobTimeout == 0 {
		cfg.Scheduler.JobTimeout = 5 * time.Minute
	}
	if cfg.News.CacheSize == 0 {
		cfg.News.CacheSize = 100
	}
}

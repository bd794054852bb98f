package config

import (
	"bitewise-api/pkg/config"
)

// Search holds query-cache and crawl-client configuration.
type Search struct {
	CrawlServiceBaseURL string `mapstructure:"crawl_service_base_url"`
	RequestTimeout      string `mapstructure:"request_timeout"`
}

// Dashboard holds dashboard cache and fan-out configuration.
type Dashboard struct {
	MaxBackfillDays        int `mapstructure:"max_backfill_days"`
	MaxConcurrentSummaries int `mapstructure:"max_concurrent_summaries"`
	ReadCacheTTLSeconds    int `mapstructure:"read_cache_ttl_seconds"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string `mapstructure:"api_key"`
	BaseURL             string `mapstructure:"base_url"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// Media holds the configuration for the audio/podcast synthesis service.
type Media struct {
	BaseURL        string `mapstructure:"base_url"`
	RequestTimeout string `mapstructure:"request_timeout"`
}

// Topics holds topic-generation configuration.
type Topics struct {
	MaxArticlesPerTopic int `mapstructure:"max_articles_per_topic"`
}

// Housekeeping holds the retention job configuration.
type Housekeeping struct {
	CronExpression string `mapstructure:"cron_expression"`
	RetentionDays  int    `mapstructure:"retention_days"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the API service.
type Config struct {
	App          config.App      `mapstructure:"app"`
	Logger       config.Logger   `mapstructure:"logger"`
	Database     config.Database `mapstructure:"database"`
	Redis        config.Redis    `mapstructure:"redis"`
	API          config.API      `mapstructure:"api"`
	Search       Search          `mapstructure:"search"`
	Dashboard    Dashboard       `mapstructure:"dashboard"`
	Gemini       Gemini          `mapstructure:"gemini"`
	Media        Media           `mapstructure:"media"`
	Topics       Topics          `mapstructure:"topics"`
	Housekeeping Housekeeping    `mapstructure:"housekeeping"`
	Telegram     Telegram        `mapstructure:"telegram"`
}

// Load loads the API service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	if cfg.Dashboard.MaxBackfillDays <= 0 {
		cfg.Dashboard.MaxBackfillDays = 30
	}
	if cfg.Dashboard.MaxConcurrentSummaries <= 0 {
		cfg.Dashboard.MaxConcurrentSummaries = 5
	}
	if cfg.Topics.MaxArticlesPerTopic <= 0 {
		cfg.Topics.MaxArticlesPerTopic = 10
	}
	if cfg.Housekeeping.RetentionDays <= 0 {
		cfg.Housekeeping.RetentionDays = 7
	}
	if cfg.Housekeeping.CronExpression == "" {
		cfg.Housekeeping.CronExpression = "0 3 * * *"
	}
	return &cfg, nil
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log       Logger         `mapstructure:"logger"`
	Analysis  Analysis       `mapstructure:"analysis"`
	API       API            `mapstructure:"api"`
	Cache     Cache          `mapstructure:"cache"`
	Telegram  TelegramConfig `mapstructure:"telegram"`
	Watchlist Watchlist      `mapstructure:"watchlist"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

// Analysis configures the remote market-structure analysis service.
type Analysis struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	// PipSize is the price increment one pip represents. 0.00001 keeps the
	// historical x100000 multiplier.
	PipSize float64 `mapstructure:"pip_size"`
	// PipSizes overrides PipSize per symbol, e.g. USDJPY: 0.01.
	PipSizes map[string]float64 `mapstructure:"pip_sizes"`
}

type API struct {
	Port               int     `mapstructure:"port"`
	RateLimitPerSecond float64 `mapstructure:"rate_limit_per_second"`
	RateLimitBurst     int     `mapstructure:"rate_limit_burst"`
}

type Cache struct {
	DefaultExpiration        time.Duration `mapstructure:"default_expiration"`
	CleanupInterval          time.Duration `mapstructure:"cleanup_interval"`
	TelegramStateExpDuration time.Duration `mapstructure:"telegram_state_exp_duration"`
}

type TelegramConfig struct {
	BotToken                  string        `mapstructure:"bot_token"`
	ChatID                    int64         `mapstructure:"chat_id"`
	WebhookURL                string        `mapstructure:"webhook_url"`
	TimeoutDuration           time.Duration `mapstructure:"timeout_duration"`
	MaxGlobalRequestPerSecond int           `mapstructure:"max_global_request_per_second"`
	MaxUserRequestPerSecond   int           `mapstructure:"max_user_request_per_second"`
}

// Watchlist drives the scheduled analysis of a fixed set of pairs.
type Watchlist struct {
	Enabled        bool     `mapstructure:"enabled"`
	Cron           string   `mapstructure:"cron"`
	Symbols        []string `mapstructure:"symbols"`
	MaxConcurrency int      `mapstructure:"max_concurrency"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "console")

	v.SetDefault("analysis.base_url", "http://localhost:8000")
	v.SetDefault("analysis.timeout", 30*time.Second)
	v.SetDefault("analysis.pip_size", 0.00001)

	v.SetDefault("api.port", 8080)
	v.SetDefault("api.rate_limit_per_second", 5)
	v.SetDefault("api.rate_limit_burst", 10)

	v.SetDefault("cache.default_expiration", 10*time.Minute)
	v.SetDefault("cache.cleanup_interval", 15*time.Minute)
	v.SetDefault("cache.telegram_state_exp_duration", 5*time.Minute)

	v.SetDefault("telegram.timeout_duration", time.Minute)
	v.SetDefault("telegram.max_global_request_per_second", 30)
	v.SetDefault("telegram.max_user_request_per_second", 1)

	v.SetDefault("watchlist.enabled", false)
	v.SetDefault("watchlist.cron", "*/15 * * * *")
	v.SetDefault("watchlist.symbols", []string{"EURUSD", "GBPUSD", "USDJPY"})
	v.SetDefault("watchlist.max_concurrency", 2)
}

// Load reads config.yaml from the working directory (optional) and lets
// environment variables override any key, e.g. ANALYSIS_BASE_URL.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AddConfigPath(".")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Analysis.BaseURL) == "" {
		return fmt.Errorf("analysis.base_url is required")
	}
	if c.Analysis.PipSize <= 0 {
		return fmt.Errorf("analysis.pip_size must be positive, got %v", c.Analysis.PipSize)
	}
	for symbol, size := range c.Analysis.PipSizes {
		if size <= 0 {
			return fmt.Errorf("analysis.pip_sizes.%s must be positive, got %v", symbol, size)
		}
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultEndpoints are the interchangeable API mirrors tried in order.
// Regional blocks (451/403) are endpoint-specific, so failover order matters.
var DefaultEndpoints = []string{
	"https://api.binance.com",
	"https://api1.binance.com",
	"https://api-gcp.binance.com",
	"https://api4.binance.com",
}

// Config holds all application configuration. It is populated once at
// startup and passed down by reference; components never read the
// environment themselves.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Market struct {
		Endpoints []string `yaml:"endpoints"`
		APIKey    string   `yaml:"api_key"`
		APISecret string   `yaml:"api_secret"`
		Interval  string   `yaml:"interval"`
		Symbols   []string `yaml:"symbols"` // explicit universe override
		TopN      int      `yaml:"top_n"`
	} `yaml:"market"`
	Scan struct {
		Mode        string `yaml:"mode"` // aggressive | conservative
		Cron        string `yaml:"cron"`
		Concurrency int    `yaml:"concurrency"`
		PaceMillis  int    `yaml:"pace_millis"`
		MaxRetries  int    `yaml:"max_retries"`
		KlineLimit  int    `yaml:"kline_limit"`
	} `yaml:"scan"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	LogLevel string `yaml:"log_level"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("BINANCE_API_BASES"); v != "" {
		cfg.Market.Endpoints = splitList(v)
	}
	if v := os.Getenv("BINANCE_API_KEY"); v != "" {
		cfg.Market.APIKey = v
	}
	if v := os.Getenv("BINANCE_API_SECRET"); v != "" {
		cfg.Market.APISecret = v
	}
	if v := os.Getenv("INTERVAL"); v != "" {
		cfg.Market.Interval = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		syms := splitList(v)
		for i := range syms {
			syms[i] = strings.ToUpper(syms[i])
		}
		cfg.Market.Symbols = syms
	}
	if v := os.Getenv("TOP_N"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Market.TopN = n
		}
	}
	if v := os.Getenv("ALERT_MODE"); v != "" {
		cfg.Scan.Mode = strings.ToLower(v)
	}
	if v := os.Getenv("CRON_SCAN"); v != "" {
		cfg.Scan.Cron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	// Defaults
	if len(cfg.Market.Endpoints) == 0 {
		cfg.Market.Endpoints = DefaultEndpoints
	}
	if cfg.Market.Interval == "" {
		cfg.Market.Interval = "1h"
	}
	if cfg.Market.TopN == 0 {
		cfg.Market.TopN = 40
	}
	if cfg.Scan.Mode == "" {
		cfg.Scan.Mode = "aggressive"
	}
	if cfg.Scan.Cron == "" {
		cfg.Scan.Cron = "0 5 * * * *" // every hour at :05
	}
	if cfg.Scan.Concurrency == 0 {
		cfg.Scan.Concurrency = 4
	}
	if cfg.Scan.PaceMillis == 0 {
		cfg.Scan.PaceMillis = 120
	}
	if cfg.Scan.MaxRetries == 0 {
		cfg.Scan.MaxRetries = 3
	}
	if cfg.Scan.KlineLimit == 0 {
		cfg.Scan.KlineLimit = 300
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and numeric ranges are sane.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if len(c.Market.Endpoints) == 0 {
		return fmt.Errorf("market.endpoints must not be empty")
	}
	if c.Market.TopN < 1 {
		return fmt.Errorf("market.top_n must be >= 1")
	}
	if m := c.Scan.Mode; m != "aggressive" && m != "conservative" {
		return fmt.Errorf("scan.mode must be \"aggressive\" or \"conservative\", got %q", m)
	}
	if c.Scan.Concurrency < 1 {
		return fmt.Errorf("scan.concurrency must be >= 1")
	}
	if c.Scan.PaceMillis < 0 {
		return fmt.Errorf("scan.pace_millis must not be negative")
	}
	if c.Scan.MaxRetries < 1 {
		return fmt.Errorf("scan.max_retries must be >= 1")
	}
	if c.Scan.KlineLimit < 60 {
		return fmt.Errorf("scan.kline_limit must be >= 60 for indicators to be meaningful")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

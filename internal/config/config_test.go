package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultsAndEnvOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_ID", "chat")
	t.Setenv("BINANCE_API_BASES", "https://a.example.com, https://b.example.com")
	t.Setenv("SYMBOLS", "btcusdt,ethusdt")
	t.Setenv("ALERT_MODE", "CONSERVATIVE")
	t.Setenv("TOP_N", "25")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Telegram.BotToken != "tok" {
		t.Errorf("expected env token, got %q", cfg.Telegram.BotToken)
	}
	if len(cfg.Market.Endpoints) != 2 || cfg.Market.Endpoints[0] != "https://a.example.com" {
		t.Errorf("unexpected endpoints: %v", cfg.Market.Endpoints)
	}
	if len(cfg.Market.Symbols) != 2 || cfg.Market.Symbols[0] != "BTCUSDT" {
		t.Errorf("symbols should be uppercased: %v", cfg.Market.Symbols)
	}
	if cfg.Scan.Mode != "conservative" {
		t.Errorf("mode should be lowercased: %q", cfg.Scan.Mode)
	}
	if cfg.Market.TopN != 25 {
		t.Errorf("expected TopN 25, got %d", cfg.Market.TopN)
	}
	// Untouched fields fall back to defaults.
	if cfg.Market.Interval != "1h" || cfg.Scan.KlineLimit != 300 || cfg.Scan.PaceMillis != 120 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config: %v", err)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
telegram:
  bot_token: filetok
  chat_id: filechat
market:
  interval: 4h
  top_n: 10
scan:
  mode: conservative
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.BotToken != "filetok" || cfg.Market.Interval != "4h" || cfg.Market.TopN != 10 {
		t.Errorf("yaml values not applied: %+v", cfg)
	}
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing token", func(c *Config) { c.Telegram.BotToken = "" }},
		{"missing chat", func(c *Config) { c.Telegram.ChatID = "" }},
		{"no endpoints", func(c *Config) { c.Market.Endpoints = nil }},
		{"bad mode", func(c *Config) { c.Scan.Mode = "bold" }},
		{"zero top_n", func(c *Config) { c.Market.TopN = 0 }},
		{"tiny kline limit", func(c *Config) { c.Scan.KlineLimit = 10 }},
		{"negative pacing", func(c *Config) { c.Scan.PaceMillis = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func validConfig() *Config {
	cfg := &Config{}
	cfg.Telegram.BotToken = "tok"
	cfg.Telegram.ChatID = "chat"
	cfg.Market.Endpoints = DefaultEndpoints
	cfg.Market.TopN = 40
	cfg.Scan.Mode = "aggressive"
	cfg.Scan.Concurrency = 4
	cfg.Scan.PaceMillis = 120
	cfg.Scan.MaxRetries = 3
	cfg.Scan.KlineLimit = 300
	return cfg
}

// Package config defines the top-level configuration for the assistant and
// provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by PREDICTD_* environment variables.
type Config struct {
	Server      ServerConfig      `toml:"server"`
	AI          AIConfig          `toml:"ai"`
	Dome        DomeConfig        `toml:"dome"`
	Polymarket  PolymarketConfig  `toml:"polymarket"`
	Polyfactual PolyfactualConfig `toml:"polyfactual"`
	Redis       RedisConfig       `toml:"redis"`
	Orders      OrdersConfig      `toml:"orders"`
	Notify      NotifyConfig      `toml:"notify"`
	LogLevel    string            `toml:"log_level"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
	APIKey      string   `toml:"api_key"`
	RateLimit   int      `toml:"rate_limit"`
	RateWindow  duration `toml:"rate_window"`
}

// AIConfig holds the analysis provider credentials and tuning. Credentials
// may come in plain (grok_api_key / openai_api_key) or from an encrypted key
// file produced by `predictd keyfile`.
type AIConfig struct {
	GrokAPIKey    string   `toml:"grok_api_key"`
	GrokBaseURL   string   `toml:"grok_base_url"`
	GrokModel     string   `toml:"grok_model"`
	OpenAIAPIKey  string   `toml:"openai_api_key"`
	OpenAIBaseURL string   `toml:"openai_base_url"`
	OpenAIModel   string   `toml:"openai_model"`
	Timeout       duration `toml:"timeout"`

	EncryptedKeyPath string `toml:"encrypted_key_path"`
	KeyPassword      string `toml:"key_password"`
}

// DomeConfig holds the Dome market-resolution API parameters.
type DomeConfig struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
}

// PolymarketConfig holds Polymarket API endpoints.
type PolymarketConfig struct {
	GammaHost string `toml:"gamma_host"`
	DataHost  string `toml:"data_host"`
	APIKey    string `toml:"api_key"`
}

// PolyfactualConfig holds the deep-research API parameters.
type PolyfactualConfig struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
}

// RedisConfig holds Redis connection parameters. Redis backs the API rate
// limiter; disabled means requests are not rate limited.
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// OrdersConfig holds the ladder sizing knobs.
type OrdersConfig struct {
	DefaultLevels int     `toml:"default_levels"`
	MinPrice      float64 `toml:"min_price"`
	MaxPrice      float64 `toml:"max_price"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	DiscordUsername   string   `toml:"discord_username"`
	Events            []string `toml:"events"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "120s", "2m").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:        8000,
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
			RateLimit:   60,
			RateWindow:  duration{time.Minute},
		},
		AI: AIConfig{
			GrokBaseURL:   "https://api.x.ai",
			GrokModel:     "grok-beta",
			OpenAIBaseURL: "https://api.openai.com",
			OpenAIModel:   "gpt-4o-mini",
			Timeout:       duration{120 * time.Second},
		},
		Dome: DomeConfig{
			BaseURL: "https://api.dome.xyz/v1",
		},
		Polymarket: PolymarketConfig{
			GammaHost: "https://gamma-api.polymarket.com",
			DataHost:  "https://data-api.polymarket.com",
		},
		Polyfactual: PolyfactualConfig{
			BaseURL: "https://api.polyfactual.com",
		},
		Redis: RedisConfig{
			Enabled:  false,
			Addr:     "localhost:6379",
			DB:       0,
			PoolSize: 20,
		},
		Orders: OrdersConfig{
			DefaultLevels: 5,
			MinPrice:      0.01,
			MaxPrice:      0.99,
		},
		Notify: NotifyConfig{
			Events: []string{"analysis", "orders", "positions"},
		},
		LogLevel: "info",
	}
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Server
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, "server: rate_limit must be >= 0")
	}

	// AI — at least one credential source must be present.
	if c.AI.GrokAPIKey == "" && c.AI.OpenAIAPIKey == "" && c.AI.EncryptedKeyPath == "" {
		errs = append(errs, "ai: set grok_api_key, openai_api_key, or encrypted_key_path")
	}
	if c.AI.EncryptedKeyPath != "" && c.AI.KeyPassword == "" {
		errs = append(errs, "ai: key_password is required when encrypted_key_path is set")
	}
	if c.AI.Timeout.Duration <= 0 {
		errs = append(errs, "ai: timeout must be positive")
	}

	// Dome
	if c.Dome.BaseURL == "" {
		errs = append(errs, "dome: base_url must not be empty")
	}

	// Polymarket endpoints
	if c.Polymarket.GammaHost == "" {
		errs = append(errs, "polymarket: gamma_host must not be empty")
	}
	if c.Polymarket.DataHost == "" {
		errs = append(errs, "polymarket: data_host must not be empty")
	}

	// Redis
	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty when enabled")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
	}

	// Orders
	if c.Orders.DefaultLevels < 1 {
		errs = append(errs, "orders: default_levels must be >= 1")
	}
	if c.Orders.MinPrice <= 0 || c.Orders.MinPrice >= 1 {
		errs = append(errs, fmt.Sprintf("orders: min_price must be in (0, 1), got %g", c.Orders.MinPrice))
	}
	if c.Orders.MaxPrice <= 0 || c.Orders.MaxPrice >= 1 {
		errs = append(errs, fmt.Sprintf("orders: max_price must be in (0, 1), got %g", c.Orders.MaxPrice))
	}
	if c.Orders.MinPrice >= c.Orders.MaxPrice {
		errs = append(errs, "orders: min_price must be below max_price")
	}

	// Notify — token and chat id must come together.
	tt := c.Notify.TelegramToken != ""
	tc := c.Notify.TelegramChatID != ""
	if tt != tc {
		errs = append(errs, "notify: telegram_token and telegram_chat_id must be set together")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies PREDICTD_* environment variable overrides, and
// returns the final Config. A missing file is not an error; defaults plus
// environment overrides still apply. The returned Config has NOT been
// validated; the caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known PREDICTD_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject secrets at deploy time without touching
// the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Server ──
	setInt(&cfg.Server.Port, "PREDICTD_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "PREDICTD_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "PREDICTD_SERVER_API_KEY")
	setInt(&cfg.Server.RateLimit, "PREDICTD_SERVER_RATE_LIMIT")
	setDuration(&cfg.Server.RateWindow, "PREDICTD_SERVER_RATE_WINDOW")

	// ── AI ──
	setStr(&cfg.AI.GrokAPIKey, "PREDICTD_AI_GROK_API_KEY")
	setStr(&cfg.AI.GrokAPIKey, "XAI_API_KEY") // compatibility alias
	setStr(&cfg.AI.GrokBaseURL, "PREDICTD_AI_GROK_BASE_URL")
	setStr(&cfg.AI.GrokModel, "PREDICTD_AI_GROK_MODEL")
	setStr(&cfg.AI.OpenAIAPIKey, "PREDICTD_AI_OPENAI_API_KEY")
	setStr(&cfg.AI.OpenAIAPIKey, "OPENAI_API_KEY") // compatibility alias
	setStr(&cfg.AI.OpenAIBaseURL, "PREDICTD_AI_OPENAI_BASE_URL")
	setStr(&cfg.AI.OpenAIModel, "PREDICTD_AI_OPENAI_MODEL")
	setDuration(&cfg.AI.Timeout, "PREDICTD_AI_TIMEOUT")
	setStr(&cfg.AI.EncryptedKeyPath, "PREDICTD_AI_ENCRYPTED_KEY_PATH")
	setStr(&cfg.AI.KeyPassword, "PREDICTD_AI_KEY_PASSWORD")

	// ── Dome ──
	setStr(&cfg.Dome.BaseURL, "PREDICTD_DOME_BASE_URL")
	setStr(&cfg.Dome.APIKey, "PREDICTD_DOME_API_KEY")
	setStr(&cfg.Dome.APIKey, "DOME_API_KEY") // compatibility alias

	// ── Polymarket ──
	setStr(&cfg.Polymarket.GammaHost, "PREDICTD_POLYMARKET_GAMMA_HOST")
	setStr(&cfg.Polymarket.DataHost, "PREDICTD_POLYMARKET_DATA_HOST")
	setStr(&cfg.Polymarket.APIKey, "PREDICTD_POLYMARKET_API_KEY")

	// ── Polyfactual ──
	setStr(&cfg.Polyfactual.BaseURL, "PREDICTD_POLYFACTUAL_BASE_URL")
	setStr(&cfg.Polyfactual.APIKey, "PREDICTD_POLYFACTUAL_API_KEY")
	setStr(&cfg.Polyfactual.APIKey, "POLYFACTUAL_API_KEY") // compatibility alias

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "PREDICTD_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "PREDICTD_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "PREDICTD_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "PREDICTD_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "PREDICTD_REDIS_POOL_SIZE")
	setBool(&cfg.Redis.TLSEnabled, "PREDICTD_REDIS_TLS_ENABLED")

	// ── Orders ──
	setInt(&cfg.Orders.DefaultLevels, "PREDICTD_ORDERS_DEFAULT_LEVELS")
	setFloat64(&cfg.Orders.MinPrice, "PREDICTD_ORDERS_MIN_PRICE")
	setFloat64(&cfg.Orders.MaxPrice, "PREDICTD_ORDERS_MAX_PRICE")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "PREDICTD_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "PREDICTD_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "PREDICTD_NOTIFY_DISCORD_WEBHOOK_URL")
	setStr(&cfg.Notify.DiscordUsername, "PREDICTD_NOTIFY_DISCORD_USERNAME")
	setStringSlice(&cfg.Notify.Events, "PREDICTD_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.LogLevel, "PREDICTD_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}

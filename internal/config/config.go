package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultAPIBaseURL = "https://develop.ewlab.di.unimi.it/mc/2425/"

// Config holds application configuration values.
type Config struct {
	APIBaseURL   string
	APITimeout   time.Duration
	CacheDSN     string
	DBLogLevel   string
	LogLevel     string
	PollInterval time.Duration
	Location     LocationConfig
	Telegram     TelegramConfig
	Stub         StubConfig
}

// LocationConfig describes the position the client reports as "current".
type LocationConfig struct {
	Enabled   bool
	Latitude  float64
	Longitude float64
}

// TelegramConfig enables forwarding of user-facing alerts to a chat.
type TelegramConfig struct {
	BotToken string
	ChatID   int64
}

// StubConfig configures the local development backend.
type StubConfig struct {
	Port   string
	DSN    string
	Secret string
	// Speed multiplies the simulated delivery clock.
	Speed float64
}

// Load reads environment variables and returns a populated Config.
func Load() *Config {
	_ = godotenv.Load()

	baseURL := getEnv("API_BASE_URL", defaultAPIBaseURL)
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return &Config{
		APIBaseURL:   baseURL,
		APITimeout:   getEnvDuration("API_TIMEOUT", 0),
		CacheDSN:     getEnv("CACHE_DSN", "file:storage.db"),
		DBLogLevel:   getEnv("DB_LOG_LEVEL", "silent"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		PollInterval: getEnvDuration("POLL_INTERVAL", time.Second),
		Location: LocationConfig{
			Enabled:   getEnvBool("LOCATION_ENABLED", true),
			Latitude:  getEnvFloat("LOCATION_LAT", 45.4642),
			Longitude: getEnvFloat("LOCATION_LNG", 9.19),
		},
		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
			ChatID:   getEnvInt64("TELEGRAM_CHAT_ID", 0),
		},
		Stub: StubConfig{
			Port:   getEnv("STUB_PORT", "8080"),
			DSN:    getEnv("STUB_DSN", "file:stub.db"),
			Secret: getEnv("STUB_SECRET", "stub-development-secret"),
			Speed:  getEnvFloat("STUB_SPEED", 1),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("1500ms") or plain seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	if parsed, err := time.ParseDuration(value); err == nil && parsed >= 0 {
		return parsed
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

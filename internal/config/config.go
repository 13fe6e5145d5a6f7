// Package config loads process configuration from environment variables,
// with a .env file honoured when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every tunable the bot reads at start. Values are read once;
// there is no reload.
type Config struct {
	TelegramToken string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	OCRSpaceAPIKey string
	OCRBackends    []string // ordered: earlier wins length ties
	OCRLanguages   []string

	MaxImageSize     int64
	MaxTextLength    int
	SupportedFormats []string

	DefaultSourceLang  string
	DefaultTargetLang  string
	TranslationService string // "llm" or "google"
	ImproveText        bool

	NetworkTimeout       time.Duration
	MaxConcurrentUpdates int

	RedisAddr       string
	StageEventQueue string

	LogLevel string
}

// Load reads the environment (and .env, if any) into a Config and validates
// the values the bot cannot run without.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken:        os.Getenv("TELEGRAM_BOT_TOKEN"),
		OpenAIAPIKey:         os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:          envStr("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:        os.Getenv("OPENAI_BASE_URL"),
		OCRSpaceAPIKey:       os.Getenv("OCRSPACE_API_KEY"),
		OCRBackends:          envList("OCR_BACKENDS", "tesseract,ocrspace,vision"),
		OCRLanguages:         envList("OCR_LANGUAGES", "eng"),
		MaxImageSize:         envInt64("MAX_IMAGE_SIZE", 10*1024*1024),
		MaxTextLength:        envInt("MAX_TEXT_LENGTH", 4000),
		SupportedFormats:     envList("SUPPORTED_IMAGE_FORMATS", "jpg,jpeg,png,bmp,tiff,webp"),
		DefaultSourceLang:    envStr("DEFAULT_SOURCE_LANG", "auto"),
		DefaultTargetLang:    envStr("DEFAULT_TARGET_LANG", "en"),
		TranslationService:   envStr("TRANSLATION_SERVICE", "google"),
		ImproveText:          envBool("IMPROVE_TEXT", true),
		NetworkTimeout:       time.Duration(envInt("NETWORK_TIMEOUT_SECONDS", 10)) * time.Second,
		MaxConcurrentUpdates: envInt("MAX_CONCURRENT_UPDATES", 8),
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		StageEventQueue:      envStr("STAGE_EVENT_QUEUE", "scanlate:stage_events"),
		LogLevel:             envStr("LOG_LEVEL", "info"),
	}

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN not set in environment")
	}
	if cfg.MaxImageSize <= 0 {
		return nil, fmt.Errorf("MAX_IMAGE_SIZE must be positive, got %d", cfg.MaxImageSize)
	}
	if cfg.MaxTextLength <= 0 {
		return nil, fmt.Errorf("MAX_TEXT_LENGTH must be positive, got %d", cfg.MaxTextLength)
	}
	if cfg.MaxConcurrentUpdates <= 0 {
		cfg.MaxConcurrentUpdates = 1
	}
	switch cfg.TranslationService {
	case "llm", "google":
	default:
		return nil, fmt.Errorf("TRANSLATION_SERVICE must be llm or google, got %q", cfg.TranslationService)
	}

	return cfg, nil
}

// FormatSupported reports whether the file extension (without dot, any
// casing) is an accepted image format.
func (c *Config) FormatSupported(ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, f := range c.SupportedFormats {
		if f == ext {
			return true
		}
	}
	return false
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := strings.ToLower(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v == "true" || v == "1" || v == "yes"
}

func envList(key, fallback string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

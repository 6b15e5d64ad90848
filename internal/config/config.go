package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const placeholderAPIKey = "your-api-key-here"

type Config struct {
	// Database
	PostgresDSN   string
	RedisURL      string
	MigrationsDir string

	// Gemini
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	GeminiTimeout time.Duration

	// AI behaviour
	AIFallbackEnabled  bool
	AIFallbacksFile    string
	AIRateLimitPerMin  int
	APIRateLimitPerMin int

	// Campaigns
	HealthRefreshInterval time.Duration
	SeedDemoData          bool

	// Notifications
	NotifyWebhookURL string

	// Server
	APIPort          string
	WorkerPort       string
	CORSAllowOrigins string
}

func Load() *Config {
	_ = godotenv.Load()

	apiKey := getEnv("GEMINI_API_KEY", "")
	if apiKey == "" {
		apiKey = getEnv("VITE_GEMINI_API_KEY", "")
	}

	return &Config{
		PostgresDSN:   getEnv("POSTGRES_DSN", ""),
		RedisURL:      getEnv("REDIS_URL", ""),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),

		GeminiAPIKey:  apiKey,
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.0-flash-exp"),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiTimeout: time.Duration(getEnvInt("GEMINI_TIMEOUT_SECONDS", 60)) * time.Second,

		AIFallbackEnabled:  getEnvBool("AI_FALLBACK_ENABLED", true),
		AIFallbacksFile:    getEnv("AI_FALLBACKS_FILE", ""),
		AIRateLimitPerMin:  getEnvInt("AI_RATE_LIMIT_PER_MINUTE", 30),
		APIRateLimitPerMin: getEnvInt("API_RATE_LIMIT_PER_MINUTE", 100),

		HealthRefreshInterval: time.Duration(getEnvInt("HEALTH_REFRESH_INTERVAL_MINUTES", 15)) * time.Minute,
		SeedDemoData:          getEnvBool("SEED_DEMO_DATA", true),

		NotifyWebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),

		APIPort:          getEnv("API_PORT", "3000"),
		WorkerPort:       getEnv("WORKER_PORT", "3001"),
		CORSAllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),
	}
}

// AIConfigured reports whether a usable Gemini key is present.
func (c *Config) AIConfigured() bool {
	key := strings.TrimSpace(c.GeminiAPIKey)
	return key != "" && key != placeholderAPIKey
}

func (c *Config) Validate(log *zap.Logger) {
	switch {
	case strings.TrimSpace(c.GeminiAPIKey) == "":
		log.Warn("GEMINI_API_KEY is not set, AI tools will report not configured")
	case !c.AIConfigured():
		log.Warn("GEMINI_API_KEY is the placeholder value, AI tools will report not configured")
	}
	if c.PostgresDSN == "" {
		log.Warn("POSTGRES_DSN is not set, using in-memory campaign store")
	}
	if c.RedisURL == "" {
		log.Warn("REDIS_URL is not set, events stay in-process and rate limiting is disabled")
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return v
}

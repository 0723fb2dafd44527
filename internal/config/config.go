package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	ServerPort string
	GinMode    string
	LogLevel   string
	LogFormat  string

	// QuizServiceURL is the base URL of the upstream quiz-service REST API,
	// e.g. "http://localhost:8000/api". Auth, quiz, question and attempt
	// operations are all proxied there.
	QuizServiceURL string
	// UpstreamTimeout bounds every single upstream request.
	UpstreamTimeout time.Duration

	// RedisURL selects the session/flow state backend. Empty means in-memory
	// stores, which only work for a single instance (dev default).
	RedisURL string

	SessionCookie string
	SessionTTL    time.Duration
	// CookieSecure marks the session cookie Secure. Disable only for plain
	// HTTP dev environments.
	CookieSecure bool

	// RequireCorrectChoice, when set, rejects saving a multiple-choice
	// question with no choice marked correct. Off by default because the
	// upstream service accepts such questions (multi-select style quizzes).
	RequireCorrectChoice bool

	// AllowedOrigins controls HTTP CORS.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // Ignore error — .env is optional

	return &Config{
		ServerPort:           getEnv("SERVER_PORT", "8080"),
		GinMode:              getEnv("GIN_MODE", "debug"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", "pretty"),
		QuizServiceURL:       getEnv("QUIZ_SERVICE_URL", "http://localhost:8000/api"),
		UpstreamTimeout:      time.Duration(getEnvInt("UPSTREAM_TIMEOUT_SECONDS", 15)) * time.Second,
		RedisURL:             getEnv("REDIS_URL", ""),
		SessionCookie:        getEnv("SESSION_COOKIE", "quizdeck_sid"),
		SessionTTL:           time.Duration(getEnvInt("SESSION_TTL_HOURS", 24)) * time.Hour,
		CookieSecure:         getEnvBool("COOKIE_SECURE", false),
		RequireCorrectChoice: getEnvBool("REQUIRE_CORRECT_CHOICE", false),
		AllowedOrigins:       parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
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

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

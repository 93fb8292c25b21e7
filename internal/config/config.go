package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort         string
	DatabaseURL     string
	DefaultUserID   int64
	JWTSecret       string
	JWTTTL          time.Duration
	AllowedOrigin   string
	LogLevel        string
	LogJSON         bool
	ShutdownTimeout time.Duration

	// Rate limiting on /tasks. Redis is used when RedisAddr is set.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	APIRateLimit  int
	APIRateWindow time.Duration
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the config from the environment only.
func FromEnv() *Config {
	return &Config{
		AppPort:         getString("APP_PORT", "8000"),
		DatabaseURL:     getString("DATABASE_URL", "sqlite:///./tasks.db"),
		DefaultUserID:   getInt64("DEFAULT_USER_ID", 1),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		JWTTTL:          time.Duration(getInt64("JWT_TTL_HOURS", 24)) * time.Hour,
		AllowedOrigin:   os.Getenv("ALLOWED_ORIGIN"),
		LogLevel:        getString("LOG_LEVEL", "info"),
		LogJSON:         os.Getenv("LOG_JSON") == "true",
		ShutdownTimeout: time.Duration(getInt64("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         int(getInt64("REDIS_DB", 0)),
		// 0 disables the limiter
		APIRateLimit:  int(getNonNegative("API_RATE_LIMIT", 120)),
		APIRateWindow: time.Duration(getInt64("API_RATE_WINDOW_SECONDS", 60)) * time.Second,
	}
}

func getString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// getInt64 falls back to def for missing, malformed or non-positive values.
func getInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func getNonNegative(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

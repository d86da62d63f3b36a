package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port          string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	JWTSecret     string
	WebhookSecret string
	RedisURL      string
	MediaRoot     string
	PipedriveURL  string
	LogLevel      string
	LogFile       string

	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	CacheTTL        time.Duration
}

// Load reads .env (when present) and the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:          getEnv("PORT", "8080"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", ""),
		DBName:        getEnv("DB_NAME", "patientfunnel"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		WebhookSecret: getEnv("WEBHOOK_SECRET", ""),
		RedisURL:      getEnv("REDIS_URL", "redis://localhost:6379"),
		MediaRoot:     getEnv("MEDIA_ROOT", "media"),
		PipedriveURL:  getEnv("PIPEDRIVE_API_URL", "https://api.pipedrive.com/v1"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFile:       getEnv("LOG_FILE", ""),

		AccessTokenTTL:  getEnvDuration("ACCESS_TOKEN_MINUTES", 60) * time.Minute,
		RefreshTokenTTL: getEnvDuration("REFRESH_TOKEN_HOURS", 24) * time.Hour,
		CacheTTL:        getEnvDuration("CACHE_TTL_SECONDS", 60) * time.Second,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback int64) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return time.Duration(n)
		}
	}
	return time.Duration(fallback)
}

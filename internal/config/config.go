package config

import (
	"os"
	"strconv"
	"time"
)

const (
	defaultGuestTTLSeconds = 3600
	defaultRoundTTLSeconds = 86400
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port          string
	MongoURI      string
	MongoDB       string
	RedisAddr     string
	RedisPassword string
	LogLevel      string
	AllowedOrigin string

	// GuestTTL is how long an inactive guest identity survives before the
	// users collection's TTL index removes it.
	GuestTTL time.Duration

	// RoundTTL is how long an abandoned in-progress round survives before
	// eviction. Zero disables eviction.
	RoundTTL time.Duration
}

func Load() *Config {
	return &Config{
		Port:          getenv("PORT", "8080"),
		MongoURI:      getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:       getenv("MONGO_DB", "guessquest"),
		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		AllowedOrigin: getenv("ALLOWED_ORIGIN", "http://localhost:5173"),
		GuestTTL:      getenvSeconds("GUEST_TTL_SECONDS", defaultGuestTTLSeconds),
		RoundTTL:      getenvSeconds("ROUND_TTL_SECONDS", defaultRoundTTLSeconds),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvSeconds(key string, fallback int) time.Duration {
	seconds := fallback
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			seconds = parsed
		}
	}
	return time.Duration(seconds) * time.Second
}

package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// BookingKeySecret is the shared symmetric secret sealing booking keys.
	// Rotation is managed externally; the process only ever reads it.
	BookingKeySecret string
	StaffJWTSecret   string

	// MinimumNotice is the shortest lead time between "now" and the first
	// bookable instant for regular callers.
	MinimumNotice time.Duration
	// PriorityNotice is the shorter window used to compute the priority
	// cutoff instant.
	PriorityNotice time.Duration

	MaxHorizonDays int

	ServiceAreaCacheTTL time.Duration
	HolidayCacheTTL     time.Duration

	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		BookingKeySecret: getEnv("BOOKING_KEY_SECRET", ""),
		StaffJWTSecret:   getEnv("STAFF_JWT_SECRET", ""),

		MinimumNotice:  getEnvAsDuration("MINIMUM_NOTICE", 24*time.Hour),
		PriorityNotice: getEnvAsDuration("PRIORITY_NOTICE", 2*time.Hour),

		MaxHorizonDays: getEnvAsInt("MAX_HORIZON_DAYS", 28),

		ServiceAreaCacheTTL: getEnvAsDuration("SERVICE_AREA_CACHE_TTL", time.Hour),
		HolidayCacheTTL:     getEnvAsDuration("HOLIDAY_CACHE_TTL", 12*time.Hour),

		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsSlice splits a comma-separated environment variable, dropping
// empty entries.
func getEnvAsSlice(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 24*time.Hour, cfg.MinimumNotice)
	assert.Equal(t, 2*time.Hour, cfg.PriorityNotice)
	assert.Equal(t, 28, cfg.MaxHorizonDays)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MINIMUM_NOTICE", "12h")
	t.Setenv("MAX_HORIZON_DAYS", "14")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 12*time.Hour, cfg.MinimumNotice)
	assert.Equal(t, 14, cfg.MaxHorizonDays)
	assert.True(t, cfg.RedisTLS)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoadMalformedValuesFallBack(t *testing.T) {
	t.Setenv("MAX_HORIZON_DAYS", "four weeks")
	t.Setenv("MINIMUM_NOTICE", "soon")

	cfg := Load()

	assert.Equal(t, 28, cfg.MaxHorizonDays)
	assert.Equal(t, 24*time.Hour, cfg.MinimumNotice)
}

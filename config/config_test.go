package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "grocerylist-api", cfg.AppName)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, 168*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 14*24*time.Hour, cfg.ConfirmationTTL)
	assert.Equal(t, time.Hour, cfg.CleanupInterval)
	assert.Equal(t, 5*time.Second, cfg.ReconnectDelay)
	assert.True(t, cfg.MailSendEnabled)
	assert.Empty(t, cfg.BaseURL, "BASE_URL must not have a default")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BASE_URL", "https://groceries.example.com")
	t.Setenv("SESSION_TTL", "24h")
	t.Setenv("CLEANUP_INTERVAL", "10m")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("MAIL_SEND_ENABLED", "false")

	cfg := Load()

	assert.Equal(t, "https://groceries.example.com", cfg.BaseURL)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10*time.Minute, cfg.CleanupInterval)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.False(t, cfg.MailSendEnabled)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SESSION_TTL", "not-a-duration")
	t.Setenv("REDIS_DB", "not-an-int")

	cfg := Load()

	assert.Equal(t, 168*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 0, cfg.RedisDB)
}

func TestCORSOrigins(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")
	cfg := Load()
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins())

	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("APP_ENV", "development")
	cfg = Load()
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins())
}

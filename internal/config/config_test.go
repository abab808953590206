package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 12*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, "media/badges", cfg.BadgeOut)
	assert.Equal(t, "media/photos", cfg.PhotoDir)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SUMMIT_ADDR", ":9090")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("EMAIL_PORT", "2525")
	t.Setenv("ADMIN_PASSWORD", "hunter2")

	cfg := Load()
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 2525, cfg.SMTPPort)
	assert.Equal(t, "hunter2", cfg.AdminPassword)
}

func TestLoadIgnoresBadValues(t *testing.T) {
	t.Setenv("TOKEN_TTL", "not-a-duration")
	t.Setenv("EMAIL_PORT", "lots")

	cfg := Load()
	assert.Equal(t, 12*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 587, cfg.SMTPPort)
}

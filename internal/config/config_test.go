package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	assert.NoError(t, err)

	assert.Equal(t, "local", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "localhost:6379", cfg.RedisURL)
	assert.Equal(t, "https://iwanttoreadmore.com/voted", cfg.VotedPageURL)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("COOKIE_SECRET", "cookiesecret")

	cfg, err := LoadConfig()
	assert.NoError(t, err)

	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "cookiesecret", cfg.CookieSecret)
}

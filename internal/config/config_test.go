package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "quizdeck_sid", cfg.SessionCookie)
	assert.Empty(t, cfg.RedisURL)
	assert.False(t, cfg.RequireCorrectChoice)
	assert.Nil(t, cfg.AllowedOrigins)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("UPSTREAM_TIMEOUT_SECONDS", "5")
	t.Setenv("REQUIRE_CORRECT_CHOICE", "true")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, float64(5), cfg.UpstreamTimeout.Seconds())
	assert.True(t, cfg.RequireCorrectChoice)
	assert.Equal(t, []string{"https://app.example.com", "https://staging.example.com"}, cfg.AllowedOrigins)
}

func TestGetEnvIntIgnoresGarbage(t *testing.T) {
	t.Setenv("UPSTREAM_TIMEOUT_SECONDS", "soon")

	cfg := Load()
	assert.Equal(t, float64(15), cfg.UpstreamTimeout.Seconds())
}

func TestParseOrigins(t *testing.T) {
	assert.Nil(t, parseOrigins(""))
	assert.Equal(t, []string{"a", "b"}, parseOrigins("a,b"))
	assert.Equal(t, []string{"a"}, parseOrigins("a, ,"))
}

func TestStateKeys(t *testing.T) {
	assert.Equal(t, "session:abc", StateKey.SessionKey("abc"))
	assert.Equal(t, "session:abc:attempt:7:cursor", StateKey.AttemptCursorKey("abc", 7))
	assert.Equal(t, "session:abc:attempt:7:question_count", StateKey.AttemptCountKey("abc", 7))
	assert.Equal(t, "session:abc:attempt:7:result", StateKey.AttemptResultKey("abc", 7))
	assert.Equal(t, "session:abc:quiz:3:wizard", StateKey.WizardDraftKey("abc", 3))
}

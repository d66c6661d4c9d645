package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.HTTPAddr)
	assert.Equal(t, "files", cfg.FilesDir)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, "taskfolio", cfg.JWTAudience)
	assert.Equal(t, "taskfolio", cfg.JWTIssuer)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("JWT_SECRET", "super-secret")
	t.Setenv("JWT_TTL", "30m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, "super-secret", cfg.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)

	tokens := cfg.Tokens()
	assert.Equal(t, "super-secret", tokens.Secret)
	assert.Equal(t, 30*time.Minute, tokens.TTL)
}

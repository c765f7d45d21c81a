package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("APP_ENV", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, ",", cfg.Locale.DecimalPoint)
	assert.Equal(t, 24*time.Hour, cfg.App.NonceTTL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "pgx")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("NONCE_TTL", "2h")
	t.Setenv("RATE_LIMIT_RPS", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://intranet.example.com, ,http://localhost:3000")
	t.Setenv("IDENTITY_TTL", "30m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "pgx", cfg.Database.Driver)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 2*time.Hour, cfg.App.NonceTTL)
	assert.Equal(t, float64(20), cfg.Server.RateLimitRPS)
	assert.Equal(t, []string{"https://intranet.example.com", "http://localhost:3000"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 30*time.Minute, cfg.App.IdentityTTL)
}

func TestValidate(t *testing.T) {
	t.Run("rejects unknown driver", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "mysql")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("requires nonce secret in production", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("NONCE_SECRET", "")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("requires identity secret in production", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("NONCE_SECRET", "nonce-secret")
		t.Setenv("IDENTITY_SECRET", "")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("rejects wildcard origin", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "*")
		_, err := Load()
		assert.Error(t, err)
	})
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"HTTP_PORT", "SHUTDOWN_TIMEOUT", "LOG_LEVEL", "DATABASE_DRIVER", "DATABASE_DSN",
		"SEED_ON_START", "JWT_SECRET", "JWT_TTL", "CORS_ALLOWED_ORIGINS", "PURCHASE_TIMEOUT",
		"AI_API", "AI_BASE_URL", "AI_TIMEOUT", "CHAT_RATE_LIMIT", "CHAT_RATE_WINDOW",
		"RSA_PRIVATE_KEY_PATH", "RSA_KEY_BITS",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, "data/store.db", cfg.DatabaseDSN)
	assert.True(t, cfg.SeedOnStart)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 5*time.Second, cfg.PurchaseTimeout)
	assert.Equal(t, "deepseek", cfg.AIProvider)
	assert.Equal(t, 60*time.Second, cfg.AITimeout)
	assert.Equal(t, 100, cfg.ChatRateLimit)
	assert.Equal(t, 15*time.Minute, cfg.ChatRateWindow)
	assert.Equal(t, 2048, cfg.RSAKeyBits)
	assert.NotEmpty(t, cfg.Warnings())
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "POSTGRES")
	t.Setenv("DATABASE_DSN", "host=db user=app dbname=furniture sslmode=disable")
	t.Setenv("SEED_ON_START", "false")
	t.Setenv("PURCHASE_TIMEOUT", "750ms")
	t.Setenv("AI_API", "Gemini")
	t.Setenv("CHAT_RATE_LIMIT", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, DriverPostgres, cfg.DatabaseDriver)
	assert.False(t, cfg.SeedOnStart)
	assert.Equal(t, 750*time.Millisecond, cfg.PurchaseTimeout)
	assert.Equal(t, "gemini", cfg.AIProvider)
	assert.Equal(t, 5, cfg.ChatRateLimit)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{}},
		{"short secret", map[string]string{"JWT_SECRET": "short"}},
		{"unknown driver", map[string]string{"JWT_SECRET": testSecret, "DATABASE_DRIVER": "mysql"}},
		{"postgres without dsn", map[string]string{"JWT_SECRET": testSecret, "DATABASE_DRIVER": "postgres"}},
		{"bad duration", map[string]string{"JWT_SECRET": testSecret, "PURCHASE_TIMEOUT": "soon"}},
		{"bad bool", map[string]string{"JWT_SECRET": testSecret, "SEED_ON_START": "maybe"}},
		{"small rsa key", map[string]string{"JWT_SECRET": testSecret, "RSA_KEY_BITS": "1024"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

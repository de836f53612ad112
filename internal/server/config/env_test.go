package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_parseEnv(t *testing.T) {
	t.Run("overlays set variables", func(t *testing.T) {
		t.Setenv("TOKEN_SECRET", "env-secret")
		t.Setenv("ENCRYPTION_KEY", "00ff")
		t.Setenv("DATABASE_DSN", "postgres://env/cloudygo")
		t.Setenv("DOMAIN", "https://env.example")
		t.Setenv("PENDING_TOKEN_TTL", "15m")
		t.Setenv("SECURE_COOKIES", "true")
		t.Setenv("MAIL_TRANSPORT", "amqp")
		t.Setenv("SMTP_PORT", "465")
		t.Setenv("OPENWEATHER_API_KEY", "ow")

		cfg := &Config{}
		cfg.LoadDefaults()
		parseEnv(cfg)

		assert.Equal(t, "env-secret", cfg.TokenSecret)
		assert.Equal(t, "00ff", cfg.EncryptionKey)
		assert.Equal(t, "postgres://env/cloudygo", cfg.DatabaseDSN)
		assert.Equal(t, "https://env.example", cfg.Domain)
		assert.Equal(t, 15*time.Minute, cfg.PendingTokenTTL)
		assert.True(t, cfg.SecureCookies)
		assert.Equal(t, MailTransportAMQP, cfg.MailTransport)
		assert.Equal(t, 465, cfg.SMTPPort)
		assert.Equal(t, "ow", cfg.WeatherAPIKey)

		assert.Equal(t, ":3000", cfg.HTTPAddr, "unset variables keep defaults")
		assert.Equal(t, 5*24*time.Hour, cfg.SessionTTL)
	})

	t.Run("bad duration panics", func(t *testing.T) {
		t.Setenv("SESSION_TTL", "forever")

		cfg := &Config{}
		require.Panics(t, func() { parseEnv(cfg) })
	})

	t.Run("bad bool panics", func(t *testing.T) {
		t.Setenv("SECURE_COOKIES", "maybe")

		cfg := &Config{}
		require.Panics(t, func() { parseEnv(cfg) })
	})
}

package config

import (
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// EnvConfig lists the environment variables the server reads.
// Unset variables leave the current value untouched.
type EnvConfig struct {
	Env             string        `env:"APP_ENV"`
	HTTPAddr        string        `env:"HTTP_ADDR"`
	DatabaseDSN     string        `env:"DATABASE_DSN"`
	TokenSecret     string        `env:"TOKEN_SECRET"`
	EncryptionKey   string        `env:"ENCRYPTION_KEY"`
	Domain          string        `env:"DOMAIN"`
	SessionTTL      time.Duration `env:"SESSION_TTL"`
	PendingTokenTTL time.Duration `env:"PENDING_TOKEN_TTL"`
	SecureCookies   string        `env:"SECURE_COOKIES"`
	StaticDir       string        `env:"STATIC_DIR"`

	MailTransport string `env:"MAIL_TRANSPORT"`
	MailFrom      string `env:"MAIL_FROM"`
	SMTPHost      string `env:"SMTP_HOST"`
	SMTPPort      int    `env:"SMTP_PORT"`
	SMTPUser      string `env:"SMTP_USER"`
	SMTPPassword  string `env:"SMTP_PASSWORD"`
	AMQPURL       string `env:"AMQP_URL"`
	AMQPQueue     string `env:"AMQP_QUEUE"`

	WeatherAPIKey  string `env:"OPENWEATHER_API_KEY"`
	WeatherBaseURL string `env:"OPENWEATHER_BASE_URL"`
}

// parseEnv overlays values from the environment. A variable that cannot be
// parsed into its field's type panics.
func parseEnv(config *Config) {
	var e EnvConfig
	if err := cleanenv.ReadEnv(&e); err != nil {
		panic(err)
	}

	setString(&config.Env, e.Env)
	setString(&config.HTTPAddr, e.HTTPAddr)
	setString(&config.DatabaseDSN, e.DatabaseDSN)
	setString(&config.TokenSecret, e.TokenSecret)
	setString(&config.EncryptionKey, e.EncryptionKey)
	setString(&config.Domain, e.Domain)
	setDuration(&config.SessionTTL, e.SessionTTL)
	setDuration(&config.PendingTokenTTL, e.PendingTokenTTL)
	if e.SecureCookies != "" {
		v, err := strconv.ParseBool(e.SecureCookies)
		if err != nil {
			panic(err)
		}
		config.SecureCookies = v
	}
	setString(&config.StaticDir, e.StaticDir)

	setString(&config.MailTransport, e.MailTransport)
	setString(&config.MailFrom, e.MailFrom)
	setString(&config.SMTPHost, e.SMTPHost)
	setInt(&config.SMTPPort, e.SMTPPort)
	setString(&config.SMTPUser, e.SMTPUser)
	setString(&config.SMTPPassword, e.SMTPPassword)
	setString(&config.AMQPURL, e.AMQPURL)
	setString(&config.AMQPQueue, e.AMQPQueue)

	setString(&config.WeatherAPIKey, e.WeatherAPIKey)
	setString(&config.WeatherBaseURL, e.WeatherBaseURL)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v != 0 {
		*dst = v
	}
}

package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/cloudygo/internal/flagx"
	"github.com/dmitrijs2005/cloudygo/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept
// either "90m" style strings or integer nanoseconds.
type JsonConfig struct {
	Env             string         `json:"env"`
	HTTPAddr        string         `json:"http_addr"`
	DatabaseDSN     string         `json:"database_dsn"`
	TokenSecret     string         `json:"token_secret"`
	EncryptionKey   string         `json:"encryption_key"`
	Domain          string         `json:"domain"`
	SessionTTL      timex.Duration `json:"session_ttl"`
	PendingTokenTTL timex.Duration `json:"pending_token_ttl"`
	SecureCookies   *bool          `json:"secure_cookies"`
	StaticDir       string         `json:"static_dir"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout"`

	MailTransport string `json:"mail_transport"`
	MailFrom      string `json:"mail_from"`
	SMTPHost      string `json:"smtp_host"`
	SMTPPort      int    `json:"smtp_port"`
	SMTPUser      string `json:"smtp_user"`
	SMTPPassword  string `json:"smtp_password"`
	AMQPURL       string `json:"amqp_url"`
	AMQPQueue     string `json:"amqp_queue"`

	WeatherAPIKey  string         `json:"weather_api_key"`
	WeatherBaseURL string         `json:"weather_base_url"`
	WeatherTimeout timex.Duration `json:"weather_timeout"`
}

// parseJson overlays values from the JSON file named by -c or -config.
// Keys missing from the file leave the current value untouched.
// An unreadable or invalid file panics.
func parseJson(config *Config) {
	path := flagx.ConfigPath(os.Args[1:])
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.Env, c.Env)
	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.TokenSecret, c.TokenSecret)
	setString(&config.EncryptionKey, c.EncryptionKey)
	setString(&config.Domain, c.Domain)
	setDuration(&config.SessionTTL, c.SessionTTL.Duration)
	setDuration(&config.PendingTokenTTL, c.PendingTokenTTL.Duration)
	if c.SecureCookies != nil {
		config.SecureCookies = *c.SecureCookies
	}
	setString(&config.StaticDir, c.StaticDir)
	setDuration(&config.ShutdownTimeout, c.ShutdownTimeout.Duration)

	setString(&config.MailTransport, c.MailTransport)
	setString(&config.MailFrom, c.MailFrom)
	setString(&config.SMTPHost, c.SMTPHost)
	setInt(&config.SMTPPort, c.SMTPPort)
	setString(&config.SMTPUser, c.SMTPUser)
	setString(&config.SMTPPassword, c.SMTPPassword)
	setString(&config.AMQPURL, c.AMQPURL)
	setString(&config.AMQPQueue, c.AMQPQueue)

	setString(&config.WeatherAPIKey, c.WeatherAPIKey)
	setString(&config.WeatherBaseURL, c.WeatherBaseURL)
	setDuration(&config.WeatherTimeout, c.WeatherTimeout.Duration)
}

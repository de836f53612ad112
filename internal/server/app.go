// Package server assembles the CloudyGo HTTP server from configuration: the
// database handle, repositories, services, the mail transport and the router.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/cloudygo/internal/common"
	"github.com/dmitrijs2005/cloudygo/internal/cryptox"
	"github.com/dmitrijs2005/cloudygo/internal/dbx"
	"github.com/dmitrijs2005/cloudygo/internal/logging"
	"github.com/dmitrijs2005/cloudygo/internal/server/auth"
	"github.com/dmitrijs2005/cloudygo/internal/server/config"
	"github.com/dmitrijs2005/cloudygo/internal/server/httpserver"
	"github.com/dmitrijs2005/cloudygo/internal/server/mailer"
	"github.com/dmitrijs2005/cloudygo/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/cloudygo/internal/server/services"
	"github.com/dmitrijs2005/cloudygo/internal/server/weather"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	conn        *dbx.Conn
	repomanager repomanager.RepositoryManager
	mail        io.Closer
	server      *httpserver.Server
}

func NewApp(c *config.Config, out io.Writer) (*App, error) {
	logger := logging.New(c.Env, out)

	sender, closer, err := newSender(c, logger)
	if err != nil {
		return nil, fmt.Errorf("mail init error: %w", err)
	}

	conn := dbx.NewConn(repomanager.DriverName, c.DatabaseDSN)
	rm := repomanager.NewPostgresRepositoryManager()

	cipher := cryptox.NewTokenCipher(c.EncryptionKey)
	issuer := auth.NewIssuer(c.TokenSecret, auth.WithTTL(c.SessionTTL))

	tokens := services.NewTokenService(conn, rm, c.PendingTokenTTL, nil)
	email := services.NewEmailService(tokens, cipher, sender, c.Domain, logger)
	users := services.NewUserService(conn, rm, tokens, email, cipher, issuer)
	forecasts := services.NewWeatherService(conn, rm,
		weather.NewClient(c.WeatherBaseURL, c.WeatherAPIKey, c.WeatherTimeout), logger)

	router := httpserver.NewRouter(httpserver.Deps{
		Users:         users,
		Weather:       forecasts,
		Sessions:      issuer,
		Logger:        logger,
		Gate:          httpserver.DefaultGate,
		Limits:        httpserver.DefaultRateLimits,
		SecureCookies: c.SecureCookies,
		StaticDir:     c.StaticDir,
	})

	return &App{
		config:      c,
		logger:      logger,
		conn:        conn,
		repomanager: rm,
		mail:        closer,
		server:      httpserver.NewServer(c.HTTPAddr, router, c.ShutdownTimeout, logger),
	}, nil
}

// newSender builds the configured mail transport. The closer releases any
// broker connection it holds.
func newSender(c *config.Config, l logging.Logger) (mailer.Sender, io.Closer, error) {
	switch c.MailTransport {
	case config.MailTransportLog, "":
		return mailer.NewLogSender(l, c.Env == logging.EnvLocal), nopCloser{}, nil
	case config.MailTransportSMTP:
		if c.SMTPHost == "" {
			return nil, nil, fmt.Errorf("%w: SMTP_HOST is not set", common.ErrConfiguration)
		}
		return mailer.NewSMTPSender(c.SMTPHost, c.SMTPPort, c.SMTPUser, c.SMTPPassword, c.MailFrom), nopCloser{}, nil
	case config.MailTransportAMQP:
		if c.AMQPURL == "" {
			return nil, nil, fmt.Errorf("%w: AMQP_URL is not set", common.ErrConfiguration)
		}
		s, err := mailer.DialAMQP(c.AMQPURL, c.AMQPQueue)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown mail transport %q", common.ErrConfiguration, c.MailTransport)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run connects to the database, applies migrations and serves HTTP until a
// termination signal arrives or ctx is canceled. Failing to reach the
// database is returned as an error.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "env", app.config.Env)

	app.initSignalHandler(cancelFunc)

	defer func() {
		if err := app.mail.Close(); err != nil {
			app.logger.Warn(ctx, "closing mail transport", logging.Err(err))
		}
		if err := app.conn.Close(); err != nil {
			app.logger.Warn(ctx, "closing database", logging.Err(err))
		}
	}()

	db, err := app.conn.EnsureConnected(ctx)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}

	if err := app.repomanager.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	return app.server.Run(ctx)
}

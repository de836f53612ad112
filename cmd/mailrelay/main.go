// Command mailrelay drains the mail queue filled by the server's amqp
// transport and delivers each message over SMTP.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/cloudygo/internal/logging"
	"github.com/dmitrijs2005/cloudygo/internal/server/config"
	"github.com/dmitrijs2005/cloudygo/internal/server/mailer"
)

func main() {
	if err := run(); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger := logging.New(cfg.Env, os.Stdout)

	if cfg.AMQPURL == "" || cfg.SMTPHost == "" {
		return errors.New("mailrelay needs AMQP_URL and SMTP_HOST")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer, err := mailer.DialConsumer(cfg.AMQPURL, cfg.AMQPQueue, logger)
	if err != nil {
		return err
	}
	defer consumer.Close()

	smtp := mailer.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)

	logger.Info(ctx, "mail relay started", "queue", cfg.AMQPQueue)
	return consumer.Run(ctx, smtp)
}

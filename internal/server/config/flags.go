package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/cloudygo/internal/flagx"
)

// parseFlags overlays selected fields from command-line flags.
//
//	-a string   HTTP bind address (e.g. ":3000")
//	-d string   PostgreSQL DSN
//	-u string   public base URL used in email links
//	-e string   environment: local, dev or prod
//	-m string   mail transport: log, smtp or amqp
//	-w string   directory with static pages
//
// TOKEN_SECRET and ENCRYPTION_KEY have no flag; they are read from the
// environment or the JSON file only.
//
// Only these flags are looked at (see flagx.FilterArgs), so other components
// can parse their own flags from the same command line.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-u", "-e", "-m", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.Domain, "u", config.Domain, "public base URL")
	fs.StringVar(&config.Env, "e", config.Env, "environment (local, dev, prod)")
	fs.StringVar(&config.MailTransport, "m", config.MailTransport, "mail transport (log, smtp, amqp)")
	fs.StringVar(&config.StaticDir, "w", config.StaticDir, "static pages directory")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}

package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/cloudygo/internal/server"
	"github.com/dmitrijs2005/cloudygo/internal/server/config"
)

func main() {
	cfg := config.LoadConfig()

	app, err := server.NewApp(cfg, os.Stdout)
	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

	if err := app.Run(context.Background()); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/dmitrijs2005/cloudygo/internal/tokenctl"
)

func main() {
	app := &tokenctl.App{In: os.Stdin, Out: os.Stdout, Err: os.Stderr, Getenv: os.Getenv}
	os.Exit(app.Run(os.Args[1:]))
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	playcmd "github.com/louisbranch/chesstactoe/internal/cmd/play"
	"github.com/louisbranch/chesstactoe/internal/platform/config"
)

func main() {
	cfg, err := playcmd.ParseConfig(os.Args[1:])
	if err != nil {
		config.Exit("parse config", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := playcmd.Run(ctx, cfg, os.Stdin, os.Stdout); err != nil {
		config.Exit("play", err)
	}
}

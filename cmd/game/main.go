package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	gamecmd "github.com/louisbranch/chesstactoe/internal/cmd/game"
	"github.com/louisbranch/chesstactoe/internal/platform/config"
)

func main() {
	cfg, err := gamecmd.ParseConfig(os.Args[1:])
	if err != nil {
		config.Exit("parse config", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := gamecmd.Run(ctx, cfg); err != nil {
		config.Exit("serve", err)
	}
}

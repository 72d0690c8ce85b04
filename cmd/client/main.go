package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/avachat/avachat/internal/client/cli"
	"github.com/avachat/avachat/internal/client/config"
	"github.com/avachat/avachat/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.NewDefault(cfg.Debug)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}

package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/example/storefront/internal/client/cli"
	"github.com/example/storefront/internal/client/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("Error initializing app: %v", err)
	}

	app.Run(ctx)
}

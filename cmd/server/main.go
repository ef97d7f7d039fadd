package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"jobber/internal/app"
	"jobber/internal/config"
	"jobber/internal/logging"
	"jobber/internal/server"
)

func main() {
	cfg, err := config.Load(os.Getenv("JOBBER_CONFIG"))
	if err != nil {
		logging.New("info", "text").Fatalf("❌ Failed to load config: %v", err)
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("❌ Failed to init: %v", err)
	}
	defer a.Close()

	srv := server.New(a.Dispatcher, a.Store, logging.Component(logger, "server"))
	if err := srv.Run(ctx, ":"+cfg.Server.Port); err != nil {
		logger.Errorf("❌ Failed to start server: %v", err)
	}
}

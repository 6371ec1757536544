package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"at_deals/internal/application"
	"at_deals/internal/config"
	"at_deals/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := logx.NewLogger(os.Stdout, "info", "text")
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", logx.Error(err))
		os.Exit(1)
	}

	if err := application.Run(ctx, cfg); err != nil {
		log.Error("application failed", logx.Error(err))
		os.Exit(1)
	}
}

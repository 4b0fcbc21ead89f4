package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osari-hq/seobot/internal/app"
	"github.com/osari-hq/seobot/internal/config"
	"github.com/osari-hq/seobot/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "panel start failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if _, err := logger.Init(cfg.LogLevel); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()
	log := logger.Default()

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bot, err := app.NewBot(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("init bot: %w", err)
	}
	defer bot.Close()

	server := app.NewServer(bot, log)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(cfg.PanelAddr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	logger.InfoObj("panel listening", "panel_addr", cfg.PanelAddr)

	select {
	case err := <-errCh:
		return fmt.Errorf("panel serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

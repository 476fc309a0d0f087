package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	dotenvErr := godotenv.Load()

	cfg := LoadConfig()
	logger := NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if dotenvErr != nil && !errors.Is(dotenvErr, fs.ErrNotExist) {
		logger.Warn("could not load .env", "err", dotenvErr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := NewHub(cfg, logger)
	limiter := NewRateLimiter(cfg.RateLimitPerIP)
	srv := NewServer(cfg, hub, limiter, logger)

	go hub.Run(ctx)
	go limiter.Run(ctx)

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		srv.Shutdown()
	}()

	logger.Info("relay starting", "addr", cfg.Addr(),
		"janitor_interval", cfg.JanitorInterval, "room_max_age", cfg.RoomMaxAge)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"vanish.share/config"
	"vanish.share/internal/api"
	"vanish.share/internal/logger"
	"vanish.share/internal/store"
	"vanish.share/internal/vault"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("config error: %v", err)
	}

	if level, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		logger.SetLevel(level)
	}

	records, timers := initStore(cfg)
	defer records.Close()

	v := vault.New(records, timers, cfg.Secrets.Retention)
	sweeper := vault.NewSweeper(v, cfg.Sweep.Interval)
	defer sweeper.Close()

	router := api.SetupRouter(v, cfg)

	logger.Infof("server starting on %s", cfg.Addr())
	logger.Infof("base URL: %s", cfg.Server.BaseURL)
	logger.Infof("store: %s", cfg.Store.Type)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown error: %v", err)
	}
}

func initStore(cfg *config.Config) (store.RecordStore, store.TimerRegistry) {
	switch cfg.Store.Type {
	case "redis":
		st, err := store.NewRedisStore(&redis.Options{
			Addr:     cfg.Store.Redis.Addr,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
		})
		if err != nil {
			logger.Fatalf("redis connection failed: %v", err)
		}
		return st, st
	case "sqlite":
		st, err := store.NewSQLiteStore(cfg.Store.SQLite)
		if err != nil {
			logger.Fatalf("sqlite open failed: %v", err)
		}
		return st, st
	default:
		st := store.NewMemoryStore()
		return st, st
	}
}

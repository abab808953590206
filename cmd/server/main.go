package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/redis/go-redis/v9"

	"summitreg/internal/badge"
	"summitreg/internal/config"
	"summitreg/internal/db"
	"summitreg/internal/handlers"
	"summitreg/internal/jobs"
	"summitreg/internal/logger"
	"summitreg/internal/mailer"
	"summitreg/internal/middleware"
	"summitreg/internal/router"
)

// main wires the dependencies and owns the server lifecycle; business logic
// lives in the internal packages.
func main() {
	cfg := config.Load()
	log := logger.New()

	log.Info("initializing summitreg", "addr", cfg.Addr)

	db.Init(cfg.DatabaseURL)

	var progress *jobs.RedisProgress
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		progress = jobs.NewRedisProgress(rdb)
	} else {
		log.Warn("REDIS_ADDR not set; badge job progress tracking disabled")
	}

	assets := badge.AssetStore{Root: cfg.AssetRoot}
	renderer := badge.New(assets, badge.ProfileBadgeA7(), log)

	mail := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword,
		cfg.FromAddress, cfg.FrontendURL, db.DB, log)
	tokens := middleware.NewTokens(cfg.JWTSecret, cfg.TokenTTL)

	handlers.Configure(cfg, tokens, mail, renderer, progress, jobs.NewGormSource(db.DB), log)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router.New(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}

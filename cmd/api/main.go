// Command api starts the LogiTrack HTTP server.
package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jackc/pgx/v5/pgxpool"

	"logitrack/internal/api"
	"logitrack/internal/config"
	"logitrack/internal/migrate"
	"logitrack/internal/modules/auth"
	"logitrack/internal/modules/delivery"
	"logitrack/internal/modules/users"
	"logitrack/pkg/cache"
	"logitrack/pkg/notify"
)

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrate.Up(ctx, cfg.DatabaseURL); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("pgxpool.New", zap.Error(err))
	}
	defer pool.Close()

	// Optional collaborators; the lifecycle works without either.
	var trackingCache delivery.TrackingCache
	if cfg.RedisAddr != "" {
		rc, err := cache.NewTrackingCache(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Fatal("redis connect", zap.Error(err))
		}
		defer rc.Close()
		trackingCache = rc
	}
	var notifier delivery.Notifier
	if cfg.MailSender != "" {
		mailer, err := notify.NewMailer(ctx, cfg.AWSRegion, cfg.MailSender)
		if err != nil {
			logger.Fatal("mailer init", zap.Error(err))
		}
		notifier = mailer
	}

	// Repositories
	userRepo := users.NewRepository(pool)
	deliveryRepo := delivery.NewRepository(pool)

	// Services
	authSvc := auth.NewService(userRepo, []byte(cfg.JWTSecret), cfg.SessionTTL)
	userSvc := users.NewService(userRepo)
	deliverySvc := delivery.NewService(deliveryRepo, userRepo, trackingCache, notifier, logger)

	e := api.New(api.Handlers{
		Auth:     auth.NewHandler(authSvc, cfg.SessionTTL),
		Users:    users.NewHandler(userSvc),
		Delivery: delivery.NewHandler(deliverySvc),
	}, cfg.JWTSecret, cfg.ClientOrigin)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("port", cfg.ServerPort))
		errCh <- e.Start(":" + cfg.ServerPort)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}

	logger.Info("shutdown complete")
}

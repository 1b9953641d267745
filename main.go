package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gopher93185789/redshow/internal"
	"github.com/gopher93185789/redshow/internal/config"
	"github.com/gopher93185789/redshow/internal/storage"
	"github.com/gopher93185789/redshow/internal/store"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// setup wires the store, file storage and optional redis behind the router.
// The returned func releases everything setup opened.
func setup(ctx context.Context, cfg config.Config, logger *zap.Logger) (http.Handler, func(), error) {
	var (
		db  *store.DB
		err error
	)
	if cfg.DatabaseURL != "" {
		db, err = store.NewPostgres(ctx, cfg.DatabaseURL)
	} else {
		db, err = store.NewSQLite(cfg.SQLitePath)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	closers := []func(){db.Close}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var (
		files storage.Storage
		media http.Handler
	)
	if cfg.CloudinaryURL != "" {
		files, err = storage.NewCloudinary(cfg.CloudinaryURL)
	} else {
		var local *storage.Local
		if local, err = storage.NewLocal(cfg.MediaRoot, cfg.MediaURL); err == nil {
			files, media = local, local.Handler()
		}
	}
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}

	sctx := internal.NewServerContext(db, files, logger, []byte(cfg.JWTSecret))

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unavailable, rate limiting disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
			rdb.Close()
		} else {
			sctx.UseRedis(rdb)
			closers = append(closers, func() { rdb.Close() })
		}
	}

	return sctx.Routes(cfg.AllowedOrigins, media, cfg.MediaURL), cleanup, nil
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.Development() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	handler, cleanup, err := setup(ctx, cfg, logger)
	cancel()
	if err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}
	defer cleanup()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.HTTPAddr))
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("shutting down")
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
		}
	}
}

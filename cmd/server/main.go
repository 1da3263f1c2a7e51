package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"boostshop/internal/auth"
	"boostshop/internal/config"
	"boostshop/internal/service"
	"boostshop/internal/session"
	"boostshop/internal/store/postgres"
	"boostshop/internal/throttle"
	"boostshop/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	logger := newLogger(cfg)

	guard := throttle.NewGuard(throttle.Config{
		MaxAttempts: cfg.Throttle.MaxAttempts,
		Window:      cfg.Throttle.Window,
		BlockFor:    cfg.Throttle.BlockFor,
		SweepEvery:  cfg.Throttle.SweepEvery,
	})

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go guard.Run(sweepCtx, logger)

	var sessions session.Store
	if cfg.RedisAddr != "" {
		redisStore, err := session.NewRedisStore(session.RedisConfig{
			Addr: cfg.RedisAddr,
			TTL:  cfg.SessionTTL,
		})
		if err != nil {
			logger.Error("redis open failed", "err", err)
			os.Exit(1)
		}
		defer redisStore.Close()
		sessions = redisStore
		logger.Info("sessions in redis", "addr", cfg.RedisAddr)
	} else {
		sessions = session.NewMemoryStore(cfg.SessionTTL)
		logger.Info("sessions in memory")
	}

	authSvc := &service.AuthService{
		Credentials: &auth.CredentialsFile{Path: cfg.UsersFile},
		Guard:       guard,
	}
	quizSvc := &service.QuizService{Path: cfg.QuizFile}

	var (
		catalogSvc *service.CatalogService
		cartSvc    *service.CartService
	)
	if cfg.DBDSN != "" {
		pool, err := postgres.Open(context.Background(), cfg.DBDSN)
		if err != nil {
			logger.Error("db open failed", "err", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := postgres.EnsureSchema(context.Background(), pool); err != nil {
			logger.Error("db schema failed", "err", err)
			os.Exit(1)
		}

		products := postgres.NewProductsStore(pool)
		catalogSvc = &service.CatalogService{Products: products}
		cartSvc = &service.CartService{Products: products}
	} else {
		logger.Warn("catalog disabled: APP_DB_DSN not set")
	}

	handler := web.New(web.Opts{
		Logger:       logger,
		IsProd:       cfg.IsProd(),
		Auth:         authSvc,
		Catalog:      catalogSvc,
		Cart:         cartSvc,
		Quiz:         quizSvc,
		Sessions:     sessions,
		Guard:        guard,
		CookieCodec:  auth.NewCookieCodec([]byte(cfg.CookieSecret)),
		CookieSecure: cfg.CookieSecure(),
		SessionTTL:   cfg.SessionTTL,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "env", cfg.Env, "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		guard.Stop()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProd() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

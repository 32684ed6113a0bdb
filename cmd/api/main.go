// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the MADR HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Build security services and bootstrap the first superuser.
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/madr-app/madr/internal/api"
	"github.com/madr-app/madr/internal/core/author"
	"github.com/madr-app/madr/internal/core/book"
	"github.com/madr-app/madr/internal/platform/config"
	"github.com/madr-app/madr/internal/platform/constants"
	"github.com/madr-app/madr/internal/platform/mail"
	"github.com/madr-app/madr/internal/platform/migration"
	"github.com/madr-app/madr/internal/platform/oauth"
	pgstore "github.com/madr-app/madr/internal/platform/postgres"
	redisstore "github.com/madr-app/madr/internal/platform/redis"
	"github.com/madr-app/madr/internal/platform/sec"
	"github.com/madr-app/madr/internal/users/account"
	"github.com/madr-app/madr/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log := rawLog.With(slog.String("app", "madr"))
	slog.SetDefault(log)

	log.Info("[MADR] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "madr"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("google_login", cfg.GoogleEnabled()),
	)

	// Root context for startup. A 30s deadline surfaces misconfiguration
	// quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Lives until shutdown; stops background janitors such as the rate limiter's.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Security Services ──────────────────────────────────────────────
	hasher := sec.NewPasswordHasher()
	tokens := sec.NewTokenService(cfg.SecretKey, cfg.AccessTokenTTL)
	actions := sec.NewActionTokenService(cfg.SecretKey, cfg.ActionTokenTTL)

	var google oauth.Provider
	if cfg.GoogleEnabled() {
		google = oauth.NewGoogle(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	}

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	userRepository := auth.NewUserRepository(pool)
	authService := auth.NewService(userRepository, hasher, tokens, log)

	accountService := account.NewService(
		userRepository,
		hasher,
		actions,
		account.NewTokenLedger(rdb),
		mail.NewLogSender(cfg.EmailFrom, log),
		cfg.PublicBaseURL,
		log,
	)

	created, err := accountService.EnsureSuperuser(startupCtx,
		cfg.FirstSuperuserUsername, cfg.FirstSuperuserEmail, cfg.FirstSuperuserPassword)
	must(log, err, "bootstrap superuser")
	if created {
		log.Info("first_superuser_created", slog.String("email", cfg.FirstSuperuserEmail))
	}

	authorService := author.NewService(author.NewPostgresRepository(pool), log)
	bookService := book.NewService(book.NewPostgresRepository(pool), authorService, log)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		CheckLedger:   func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
	}, log)

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService, google, cfg.IsProduction()),
		Account:   account.NewHandler(accountService),
		Author:    author.NewHandler(authorService),
		Book:      book.NewHandler(bookService),
	}

	server := api.NewServer(appCtx, cfg, log, authService, handlers)

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting_down_server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/openshelf/library-api/internal/api"
	"github.com/openshelf/library-api/internal/auth"
	"github.com/openshelf/library-api/internal/config"
	"github.com/openshelf/library-api/internal/db"
	"github.com/openshelf/library-api/internal/logger"
	"github.com/openshelf/library-api/internal/metrics"
	"github.com/openshelf/library-api/internal/repository"
	"github.com/openshelf/library-api/internal/repository/memory"
	"github.com/openshelf/library-api/internal/repository/postgres"
	"github.com/openshelf/library-api/internal/seed"
	"github.com/openshelf/library-api/internal/services"
	"github.com/openshelf/library-api/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var stores repository.Stores
	switch cfg.StoreDriver {
	case "memory":
		stores = memory.NewRepositories()
	default:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("db connect", "err", err)
			os.Exit(1)
		}
		defer pool.Close()

		if cfg.Migrate {
			if err := db.RunMigrations(ctx, pool); err != nil {
				log.Error("migrations", "err", err)
				os.Exit(1)
			}
		}
		stores = postgres.NewRepositories(pool)
	}

	if cfg.Seed {
		if err := seed.Initialize(ctx, stores, log); err != nil {
			log.Error("seed", "err", err)
			os.Exit(1)
		}
	}

	metrics.Init()

	wp := worker.NewPool(4)
	defer wp.Stop()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTExpiry)
	authSvc := services.NewAuthService(stores.Users, tokens, log)
	bookSvc := services.NewBookService(stores.Books, stores.Borrows, stores.AuditLogs, wp, log)
	borrowSvc := services.NewBorrowService(stores.Borrows, stores.Books, stores.AuditLogs, wp, log)

	r := api.NewRouter(api.RouterDeps{
		Cfg:       cfg,
		Log:       log,
		Tokens:    tokens,
		AuthSvc:   authSvc,
		BookSvc:   bookSvc,
		BorrowSvc: borrowSvc,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

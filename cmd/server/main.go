// Command server runs the farmbase authentication and tenant-isolation
// server.
//
// Configuration is layered: built-in defaults, a YAML config file
// (-config flag, FARMBASE_CONFIG, ./config.yaml, /etc/farmbase/config.yaml),
// and FARMBASE_* environment variable overrides. See pkg/config.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/farmbase/farmbase/pkg/auth"
	"github.com/farmbase/farmbase/pkg/auth/token"
	"github.com/farmbase/farmbase/pkg/config"
	"github.com/farmbase/farmbase/pkg/storage/memory"
	"github.com/farmbase/farmbase/pkg/storage/postgres"
	"github.com/farmbase/farmbase/pkg/transport"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// stores bundles the adapter-specific interfaces a single store backend
// implements.
type stores interface {
	auth.IdentityStore
	auth.MembershipStore
	transport.FarmLister
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	setupLogging(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Store backend.
	var store stores
	switch cfg.Storage.Type {
	case "postgres":
		pg, err := postgres.New(ctx, postgres.Config{
			DSN:            cfg.Storage.Postgres.DSN,
			MaxConns:       cfg.Storage.Postgres.MaxConns,
			MigrateOnStart: cfg.Storage.Postgres.MigrateOnStart,
		})
		if err != nil {
			return fmt.Errorf("creating postgres store: %w", err)
		}
		defer pg.Close()
		store = pg
		slog.Info("storage enabled", "type", "postgres")
	default:
		store = memory.New()
		slog.Info("storage enabled", "type", "memory")
	}

	// Session token service.
	tokens, err := token.New(token.Config{
		Secret:     cfg.Session.Secret,
		Production: cfg.Production(),
		TTL:        cfg.Session.TTL,
	})
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	// Authorization guard. The farm-id query fallback exists only in
	// development-configured guards.
	guard := auth.NewGuard(tokens, store, store, auth.GuardConfig{
		AllowTenantQuery: !cfg.Production(),
	})

	// Login rate limiter.
	limiter := auth.NewSlidingWindowLimiter(auth.LimiterConfig{
		Max:    cfg.RateLimit.LoginMax,
		Window: cfg.RateLimit.LoginWindow,
	})
	defer limiter.Stop()

	handlers := transport.NewHandlers(guard, tokens, store, store, store, limiter)
	router := transport.NewRouter(cfg, handlers)

	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting",
			"port", cfg.Server.Port,
			"environment", cfg.Environment,
			"storage", cfg.Storage.Type,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func setupLogging(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

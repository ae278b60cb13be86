package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	redis "github.com/redis/go-redis/v9"

	"github.com/MrJamesThe3rd/invoicedash/internal/auth"
	"github.com/MrJamesThe3rd/invoicedash/internal/auth/session"
	authStore "github.com/MrJamesThe3rd/invoicedash/internal/auth/store"
	"github.com/MrJamesThe3rd/invoicedash/internal/cache"
	"github.com/MrJamesThe3rd/invoicedash/internal/config"
	"github.com/MrJamesThe3rd/invoicedash/internal/customer"
	customerStore "github.com/MrJamesThe3rd/invoicedash/internal/customer/store"
	"github.com/MrJamesThe3rd/invoicedash/internal/database"
	dashHttp "github.com/MrJamesThe3rd/invoicedash/internal/http"
	authHandler "github.com/MrJamesThe3rd/invoicedash/internal/http/auth"
	customerHandler "github.com/MrJamesThe3rd/invoicedash/internal/http/customer"
	invoiceHandler "github.com/MrJamesThe3rd/invoicedash/internal/http/invoice"
	"github.com/MrJamesThe3rd/invoicedash/internal/invoice"
	invoiceStore "github.com/MrJamesThe3rd/invoicedash/internal/invoice/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.App.LogLevel),
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.DB.Migrate {
		if err := database.Migrate(db); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	views := newViews(ctx, cfg)

	var (
		tokens  = session.NewIssuer(cfg.Auth.Secret, cfg.Auth.SessionTTL)
		cookies = session.NewCookies(cfg.Auth.CookieSecure)
	)

	var (
		invoiceService  = invoice.NewService(invoiceStore.New(db), views, logger)
		customerService = customer.NewService(customerStore.New(db))
		bridge          = auth.NewBridge(auth.NewCredentialsProvider(authStore.New(db), tokens))
	)

	var (
		authH     = authHandler.NewHandler(bridge, tokens, cookies)
		invoiceH  = invoiceHandler.NewHandler(invoiceService, views)
		customerH = customerHandler.NewHandler(customerService)
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      http.TimeoutHandler(dashHttp.New(cfg.CORS.AllowedOrigins, authH, invoiceH, customerH), cfg.Server.Timeout, "request timed out"),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout + 5*time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "name", cfg.App.Name, "addr", srv.Addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// newViews uses Redis when REDIS_ADDR is set so replicas share invalidations.
func newViews(ctx context.Context, cfg *config.Config) cache.Views {
	if cfg.Cache.RedisAddr == "" {
		return cache.NewMemory(cfg.Cache.TTL)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.RedisAddr,
		Password: cfg.Cache.RedisPassword,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, using in-memory view cache", "addr", cfg.Cache.RedisAddr, "error", err)
		return cache.NewMemory(cfg.Cache.TTL)
	}

	return cache.NewRedis(client, cfg.Cache.TTL)
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}

	return level
}

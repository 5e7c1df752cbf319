package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"foodie/internal/app/di"
	"foodie/internal/app/router"
	"foodie/internal/platform/config"
	platformdb "foodie/internal/platform/db"
	httpclient "foodie/internal/platform/http"
	jwtmw "foodie/internal/platform/jwt"
	platformredis "foodie/internal/platform/redis"
	"foodie/internal/platform/storage"
)

func setupLogger() {
	var level slog.Level
	if err := level.UnmarshalText([]byte(config.String("LOG_LEVEL", "info"))); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}

func main() {
	if err := config.Load(); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	setupLogger()

	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// run serves until a signal arrives or the listener fails. Deferred cleanups run
// in both cases.
func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	dbCfg := platformdb.LoadConfigFromEnv()
	db, err := platformdb.OpenDB(dbCfg)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}
	if dbCfg.RunMigrations {
		if err := platformdb.Migrate(db, di.Models()...); err != nil {
			return err
		}
		slog.Info("migration completed")
	}

	// Redis
	var rdb redisv9.UniversalClient
	if redisCfg := platformredis.LoadConfig(); redisCfg.Enabled() {
		client, err := platformredis.NewRedisClient(redisCfg)
		if err != nil {
			slog.Warn("redis unavailable, keeping sessions in the database", "error", err)
		} else {
			rdb = client
			defer func() {
				if err := client.Close(); err != nil {
					slog.Error("failed to close redis client", "error", err)
				}
			}()
		}
	}

	secret, err := jwtmw.SecretFromEnv()
	if err != nil {
		return err
	}

	outbound := httpclient.NewHTTPClient(httpclient.DefaultTimeout)

	images, err := di.NewImages(ctx, storage.LoadConfigFromEnv(), outbound)
	if err != nil {
		return fmt.Errorf("failed to open image storage: %w", err)
	}

	recipeOpts, closeAI := di.NewRecipeOptions(ctx, di.LoadAIConfig(), outbound)
	defer closeAI()

	handlers, err := di.NewHandlers(di.Deps{
		DB:            db,
		Sessions:      di.NewSessionRepository(ctx, rdb, db),
		Images:        images.Store,
		Signer:        jwtmw.NewSigner(secret),
		Auth:          di.LoadAuthOptions(),
		RecipeOptions: recipeOpts,
		SecureCookie:  di.SecureCookie(),
	})
	if err != nil {
		return fmt.Errorf("failed to wire handlers: %w", err)
	}

	routerCfg := router.Config{CORSOrigins: config.List("CORS_ALLOWED_ORIGINS")}
	if images.Local != nil {
		routerCfg.StaticPrefix = images.Local.URLPrefix()
		routerCfg.StaticDir = images.Local.Dir()
	}

	srv := &http.Server{
		Addr:    ":" + config.String("PORT", "8080"),
		Handler: router.NewRouter(handlers, routerCfg),
	}

	return serve(ctx, srv, di.ShutdownTimeout())
}

// serve runs srv until ctx is done, then drains it within timeout. A listener
// failure is returned instead.
func serve(ctx context.Context, srv *http.Server, timeout time.Duration) error {
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/taskboard/config"
	"github.com/ErlanBelekov/taskboard/internal/auth"
	"github.com/ErlanBelekov/taskboard/internal/health"
	"github.com/ErlanBelekov/taskboard/internal/infrastructure/postgres"
	ctxlog "github.com/ErlanBelekov/taskboard/internal/log"
	"github.com/ErlanBelekov/taskboard/internal/metrics"
	httptransport "github.com/ErlanBelekov/taskboard/internal/transport/http"
	"github.com/ErlanBelekov/taskboard/internal/transport/http/handler"
	"github.com/ErlanBelekov/taskboard/internal/transport/http/middleware"
	"github.com/ErlanBelekov/taskboard/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolConfig{
		MaxConns:    cfg.DBMaxConns,
		MinConns:    cfg.DBMinConns,
		ConnTimeout: cfg.DBConnTimeout,
	})
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		stop()
		pool.Close()
		log.Fatalf("migrate: %v", err)
	}

	tokens, err := auth.NewTokenService([]byte(cfg.JWTSecret), cfg.TokenTTL)
	if err != nil {
		stop()
		pool.Close()
		log.Fatalf("token service: %v", err)
	}
	authn := auth.NewAuthenticator(tokens)

	// Users
	userRepo := postgres.NewUserRepository(pool)
	authUsecase := usecase.NewAuthUsecase(userRepo, auth.NewPasswordHasher(cfg.BcryptCost), tokens)
	authHandler := handler.NewAuthHandler(authUsecase, authn, handler.CookieOptions{
		Secure: cfg.SecureCookies(),
		MaxAge: tokens.TTL(),
	}, logger)

	// Tasks
	taskRepo := postgres.NewTaskRepository(pool)
	taskUsecase := usecase.NewTaskUsecase(taskRepo)
	taskHandler := handler.NewTaskHandler(taskUsecase, authn, logger)

	var authLimiter *middleware.RateLimiter
	if cfg.AuthRateLimited() {
		authLimiter = middleware.NewRateLimiter(cfg.AuthRatePerSec, cfg.AuthRateBurst)
		logger.Info("auth rate limit enabled", "per_sec", cfg.AuthRatePerSec, "burst", cfg.AuthRateBurst)
	}

	metrics.Register()
	checker := health.NewChecker(logger, prometheus.DefaultRegisterer, health.Dependency{Name: "postgres", Ping: pool})

	srv := http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httptransport.NewRouter(logger, authLimiter, authHandler, taskHandler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}

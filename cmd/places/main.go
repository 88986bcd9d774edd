package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/places/internal/config"
	"github.com/kailas-cloud/places/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/places/internal/db/redis"
	domplace "github.com/kailas-cloud/places/internal/domain/place"
	domquery "github.com/kailas-cloud/places/internal/domain/query"
	"github.com/kailas-cloud/places/internal/domain/taxonomy"
	logpkg "github.com/kailas-cloud/places/internal/logger"
	"github.com/kailas-cloud/places/internal/metrics"
	mediarepo "github.com/kailas-cloud/places/internal/repository/media"
	placerepo "github.com/kailas-cloud/places/internal/repository/place"
	stickyrepo "github.com/kailas-cloud/places/internal/repository/sticky"
	termrepo "github.com/kailas-cloud/places/internal/repository/term"
	chiTransport "github.com/kailas-cloud/places/internal/transport/chi"
	healthuc "github.com/kailas-cloud/places/internal/usecase/health"
	"github.com/kailas-cloud/places/internal/usecase/page"
	placeuc "github.com/kailas-cloud/places/internal/usecase/place"
	queryuc "github.com/kailas-cloud/places/internal/usecase/query"
	"github.com/kailas-cloud/places/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting places API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("namespace", cfg.API.Namespace),
		zap.Strings("redis_addrs", cfg.Redis.Addrs),
	)

	ctx := context.Background()
	readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second

	store, err := postgres.NewStore(ctx, postgres.Config{
		DSN:      cfg.Database.DSN,
		MaxConns: cfg.Database.MaxConns,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	if err := store.WaitForReady(ctx, readiness); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	if cfg.Database.MigrateOnStart {
		if err := migrateUp(cfg.Database.DSN); err != nil {
			logger.Fatal("Failed to apply migrations", zap.Error(err))
		}
		logger.Info("Migrations applied")
	}

	// Sticky list lives in Redis; without addrs the sticky filter sees an empty list.
	// Pass nil interfaces (not typed nil pointers) when Redis is not configured.
	var (
		stickyProvider queryuc.StickyProvider
		stickyPinger   healthuc.Pinger
	)
	if len(cfg.Redis.Addrs) > 0 {
		redisStore, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Redis.Addrs,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			logger.Fatal("Failed to create redis store", zap.Error(err))
		}
		defer redisStore.Close()

		if err := redisStore.WaitForReady(ctx, readiness); err != nil {
			logger.Fatal("Redis not ready", zap.Error(err))
		}
		stickyProvider = stickyrepo.New(redisStore, cfg.Storage.KeyPrefix)
		stickyPinger = redisStore
		logger.Info("Connected to redis")
	}

	metrics.RegisterQueryMetrics()

	// Repositories
	pool := store.Pool()
	placeRepo := placerepo.New(pool, cfg.Query.DefaultPageSize, cfg.Query.MaxPageSize)
	mediaRepo := mediarepo.New(pool, cfg.Media.UploadsBaseURL)
	termRepo := termrepo.New(pool)

	// Use cases
	registry := domquery.CollectionParams(cfg.Query.MaxPageSize, domplace.Taxonomies)
	compiler := queryuc.New(stickyProvider, taxonomy.NewTranslator(domplace.Taxonomies...)).
		WithHooks(queryuc.LogHook())
	readPolicy := domplace.NewReadPolicy(cfg.Query.PublicStatuses...)
	shaper := placeuc.NewShaper(mediaRepo, termRepo, cfg.Shape.ExtraFields...)
	pages := page.New(placeRepo, readPolicy, shaper)
	placeSvc := placeuc.New(placeRepo, compiler, pages, readPolicy, shaper, registry)
	healthSvc := healthuc.New(store, stickyPinger)

	// Create chi server
	server := chiTransport.NewServer(placeSvc, healthSvc, chiTransport.Options{
		Namespace: cfg.API.Namespace,
		BaseURL:   cfg.API.BaseURL,
	}, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	r.Use(chiTransport.CORS(cfg.API.CORSOrigins))
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

func migrateUp(dsn string) error {
	m, err := postgres.NewMigrator(dsn)
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()
	return m.Up()
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json; charset=UTF-8")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]any{
						"code":    chiTransport.CodeInternalError,
						"message": "internal error",
						"data":    map[string]int{"status": http.StatusInternalServerError},
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}

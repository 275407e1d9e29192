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

	"github.com/kailas-cloud/typeahead/internal/cache"
	"github.com/kailas-cloud/typeahead/internal/config"
	"github.com/kailas-cloud/typeahead/internal/db/redis"
	"github.com/kailas-cloud/typeahead/internal/keywords"
	logpkg "github.com/kailas-cloud/typeahead/internal/logger"
	"github.com/kailas-cloud/typeahead/internal/metrics"
	catalogrepo "github.com/kailas-cloud/typeahead/internal/repository/catalog"
	historyrepo "github.com/kailas-cloud/typeahead/internal/repository/history"
	chiTransport "github.com/kailas-cloud/typeahead/internal/transport/chi"
	healthuc "github.com/kailas-cloud/typeahead/internal/usecase/health"
	suggestuc "github.com/kailas-cloud/typeahead/internal/usecase/suggest"
	"github.com/kailas-cloud/typeahead/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting typeahead API server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := redis.NewStore(redis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// The engine degrades to the static fallback when the store is down,
	// so an unreachable database delays nothing here.
	ctx := context.Background()
	readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, readiness); err != nil {
		logger.Warn("Database not ready, starting in degraded mode", zap.Error(err))
	} else {
		logger.Info("Connected to database")
	}

	// Register suggestion metrics explicitly (no init())
	metrics.RegisterSuggestMetrics()

	// Static keyword sets, loaded once at startup.
	trendingSet := keywords.New(cfg.Keywords.Trending)
	popularSet := keywords.New(cfg.Keywords.Popular)
	fallbackSet := keywords.New(cfg.Keywords.Fallback)
	logger.Info("Keyword sets loaded",
		zap.Int("trending", trendingSet.Len()),
		zap.Int("popular", popularSet.Len()),
		zap.Int("fallback", fallbackSet.Len()),
	)

	if !store.SupportsTextSearch(ctx) {
		logger.Warn("FT search module not detected, rich queries will downgrade to substring scans")
	}

	// Repositories (collaborators of the suggestion engine)
	catRepo := catalogrepo.New(store)
	if err := catRepo.EnsureIndex(ctx); err != nil {
		logger.Warn("Product index not ready", zap.Error(err))
	}
	histRepo := historyrepo.New(store)

	// Suggestion cache with background sweep
	suggestionCache := cache.New(cache.Config{
		MaxEntries:    cfg.Suggest.Cache.MaxEntries,
		TTL:           time.Duration(cfg.Suggest.Cache.TTLMin) * time.Minute,
		SweepInterval: time.Duration(cfg.Suggest.Cache.SweepIntervalMin) * time.Minute,
	}, logger).WithGauge(metrics.SuggestCacheEntries)
	suggestionCache.Start()
	defer suggestionCache.Stop()

	// Suggestion service — composition root
	collector := suggestuc.NewCollector(catRepo, histRepo, trendingSet, popularSet)
	suggestSvc := suggestuc.New(
		suggestionCache, collector, histRepo,
		trendingSet, popularSet, fallbackSet,
		logger,
	).
		WithWeights(cfg.Suggest.Scoring).
		WithLimit(cfg.Suggest.MaxSuggestions).
		WithTimeout(time.Duration(cfg.Suggest.CollaboratorTimeoutMS) * time.Millisecond).
		WithMetrics(metrics.SuggestCacheTotal, metrics.SuggestPathTotal)

	healthSvc := healthuc.New(store)

	server := chiTransport.NewServer(suggestSvc, histRepo, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Mount(r)

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
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
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

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}

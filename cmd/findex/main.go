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

	"github.com/voca9204/findex/internal/config"
	dbRedis "github.com/voca9204/findex/internal/db/redis"
	logpkg "github.com/voca9204/findex/internal/logger"
	"github.com/voca9204/findex/internal/metrics"
	datasetrepo "github.com/voca9204/findex/internal/repository/dataset"
	chiTransport "github.com/voca9204/findex/internal/transport/chi"
	"github.com/voca9204/findex/internal/usecase/fuzzy"
	"github.com/voca9204/findex/internal/usecase/paginate"
	"github.com/voca9204/findex/internal/usecase/parse"
	"github.com/voca9204/findex/internal/usecase/score"
	searchuc "github.com/voca9204/findex/internal/usecase/search"
	"github.com/voca9204/findex/internal/version"
)

func main() {
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

	logger.Info("Starting findex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
	)

	// Register engine metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// Optional named-dataset store — absent Addrs means inline datasets only
	var datasets chiTransport.DatasetStore
	var pinger chiTransport.Pinger
	if len(cfg.Datasets.Addrs) > 0 {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Datasets.Addrs,
			Password: cfg.Datasets.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create dataset store", zap.Error(err))
		}
		defer store.Close()

		readiness := time.Duration(cfg.Datasets.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(context.Background(), readiness); err != nil {
			logger.Fatal("Dataset store not ready", zap.Error(err))
		}
		logger.Info("Connected to dataset store", zap.Strings("addrs", cfg.Datasets.Addrs))

		datasets = datasetrepo.New(store).WithKeyPrefix(cfg.Datasets.KeyPrefix)
		pinger = store
	} else {
		datasets = datasetrepo.NewMemory()
		logger.Info("Dataset store not configured, using in-memory datasets")
	}

	engine := buildEngine(cfg)
	server := chiTransport.NewServer(engine, datasets, pinger, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
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

// buildEngine assembles the search pipeline — composition root.
func buildEngine(cfg config.Config) *searchuc.Service {
	eng := cfg.Engine

	parser := parse.New(eng.Parser.MinTermLength, eng.Parser.MaxTerms, eng.Parser.DefaultOperator)
	matcher := fuzzy.New(eng.Fuzzy.Threshold, eng.Fuzzy.MaxDistance, eng.Fuzzy.MinLength)
	scorer := score.New(score.Weights{
		TextMatch:  eng.Score.TextMatchWeight,
		FuzzyMatch: eng.Score.FuzzyMatchWeight,
		Activity:   eng.Score.ActivityWeight,
		Recency:    eng.Score.RecencyWeight,
		FieldMatch: eng.Score.FieldMatchWeight,
		Behavior:   eng.Score.BehaviorWeight,
		MaxScore:   eng.Score.MaxScore,
	}, score.DefaultFields())

	codec := paginate.NewCodec(
		eng.Cache.CursorCacheSize,
		time.Duration(eng.Cache.CursorCacheTTL)*time.Second,
		time.Duration(eng.Cache.CursorCacheTTL)*time.Second,
	)
	pager := paginate.New(eng.Pagination.DefaultPageSize, eng.Pagination.MaxPageSize, codec)

	return searchuc.NewService(parser, matcher, scorer, pager, searchuc.Config{
		MaxQueryLength:  eng.Limits.MaxQueryLength,
		MaxDatasetSize:  eng.Limits.MaxDatasetSize,
		MaxResults:      eng.Limits.MaxResults,
		NormalizeScores: eng.Score.NormalizeScores,
		WithBreakdown:   true,
		CacheSize:       eng.Cache.ResultCacheSize,
		CacheTTL:        time.Duration(eng.Cache.ResultCacheTTL) * time.Second,
	})
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
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.WithContext(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}

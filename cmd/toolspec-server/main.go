package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // Register pgx as database/sql driver
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/flowmesh-ai/toolspec/contracts"
	"github.com/flowmesh-ai/toolspec/contracts/connections"
	"github.com/flowmesh-ai/toolspec/internal/api"
	"github.com/flowmesh-ai/toolspec/internal/engine"
	"github.com/flowmesh-ai/toolspec/internal/engine/validators"
	"github.com/flowmesh-ai/toolspec/internal/registry"
	"github.com/flowmesh-ai/toolspec/internal/storage"
	"github.com/flowmesh-ai/toolspec/internal/store"
)

func main() {
	// Logger
	logger := mustBuildLogger(envOrDefault("TOOLSPEC_LOG_LEVEL", "info"))
	defer logger.Sync() //nolint:errcheck // best-effort flush

	// Config from env
	httpPort := envOrDefault("TOOLSPEC_HTTP_PORT", "8080")
	validatorTimeoutMs := envOrDefaultInt("TOOLSPEC_VALIDATOR_TIMEOUT_MS", 50)
	invalidThreshold := envOrDefaultFloat("TOOLSPEC_INVALID_THRESHOLD", 0.8)
	clickhouseDSN := os.Getenv("CLICKHOUSE_DSN")
	postgresDSN := os.Getenv("POSTGRES_DSN")
	cacheTTL := envOrDefaultInt("TOOLSPEC_AUTH_CACHE_TTL_S", 30)
	defCacheTTL := envOrDefaultInt("TOOLSPEC_DEF_CACHE_TTL_S", 60)

	validatorTimeout := time.Duration(validatorTimeoutMs) * time.Millisecond

	logger.Info("starting toolspec server",
		zap.String("http_port", httpPort),
		zap.Int("validator_timeout_ms", validatorTimeoutMs),
		zap.Float32("invalid_threshold", invalidThreshold),
	)

	// Connection registry — built-in connection classes registered at startup
	conns := contracts.NewConnections(connections.BuiltinRegistry())

	// Engine — validators wired up here to avoid import cycle
	docValidator, err := validators.NewDocumentValidator()
	if err != nil {
		logger.Fatal("failed to compile document schema", zap.Error(err))
	}
	vals := []engine.Validator{
		docValidator,
		validators.NewTypeResolutionValidator(),
		validators.NewDefaultValueValidator(),
		validators.NewConnectionValidator(),
	}
	eng := engine.NewValidationEngine(vals, validatorTimeout, logger)

	// Storage — ClickHouse or LogWriter fallback
	var writer storage.EventWriter
	if clickhouseDSN != "" {
		chWriter, err := storage.NewClickHouseWriter(clickhouseDSN, logger)
		if err != nil {
			logger.Warn("clickhouse connection failed, falling back to log writer",
				zap.Error(err),
			)
			writer = storage.NewLogWriter(logger)
		} else {
			writer = chWriter
			logger.Info("clickhouse writer connected")
		}
	} else {
		writer = storage.NewLogWriter(logger)
		logger.Info("no CLICKHOUSE_DSN set, using log writer")
	}
	defer writer.Close()

	// Aggregator config
	aggCfg := engine.AggregatorConfig{
		InvalidThreshold: invalidThreshold,
	}

	// Postgres pool (required)
	if postgresDSN == "" {
		logger.Fatal("POSTGRES_DSN is required")
	}
	db, err := sql.Open("pgx", postgresDSN)
	if err != nil {
		logger.Fatal("failed to open postgres", zap.Error(err))
	}
	defer func() { _ = db.Close() }()
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.PingContext(context.Background()); err != nil {
		logger.Fatal("failed to ping postgres", zap.Error(err))
	}
	pgStore := store.NewStore(db)
	logger.Info("postgres connected")

	// Definition read path with stale-while-revalidate cache
	source := registry.NewPostgresDefinitionSource(registry.PostgresDefinitionSourceConfig{
		DB:       db,
		CacheTTL: time.Duration(defCacheTTL) * time.Second,
		Logger:   logger,
	})

	// HTTP API server
	deps := &api.Dependencies{
		Store:    pgStore,
		Source:   source,
		Engine:   eng,
		AggCfg:   aggCfg,
		Conns:    conns,
		Writer:   writer,
		Logger:   logger,
		CacheTTL: time.Duration(cacheTTL) * time.Second,
	}
	httpServer := &http.Server{
		Addr:         ":" + httpPort,
		Handler:      api.NewRouter(deps),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("http server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	// Block until shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received signal, shutting down", zap.String("signal", sig.String()))

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", zap.Error(err))
	}

	logger.Info("toolspec server stopped")
}

func mustBuildLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to build logger: %v", err))
	}
	return logger
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func envOrDefaultFloat(key string, defaultVal float32) float32 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			return float32(f)
		}
	}
	return defaultVal
}

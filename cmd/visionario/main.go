package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gestaofin/visionario-analytics-go/internal/analytics"
	"github.com/gestaofin/visionario-analytics-go/internal/config"
	"github.com/gestaofin/visionario-analytics-go/internal/domain"
	"github.com/gestaofin/visionario-analytics-go/internal/handler"
	"github.com/gestaofin/visionario-analytics-go/internal/infra/cache"
	"github.com/gestaofin/visionario-analytics-go/internal/infra/observability"
	"github.com/gestaofin/visionario-analytics-go/internal/infra/resilience"
	"github.com/gestaofin/visionario-analytics-go/internal/infra/sheets"
	"github.com/gestaofin/visionario-analytics-go/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("sales_worksheet", cfg.SalesWorksheet),
		zap.String("expenses_worksheet", cfg.ExpensesWorksheet),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Int("ranking_limit", cfg.RankingLimit),
		zap.Int("recent_months", cfg.RecentMonths),
		zap.String("forecast_policy", cfg.ForecastPolicy),
	)

	if cfg.SpreadsheetID == "" {
		logger.Fatal("SPREADSHEET_ID is required")
	}

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "visionario-analytics")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Cache (raw worksheet snapshots) ---
	sheetCache := cache.New[[]domain.RawRecord](cfg.CacheTTL)

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	cb := resilience.NewCircuitBreaker("sheets")

	// --- Record store client ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	store := sheets.NewClient(
		httpClient,
		cfg.SheetsAPIURL,
		cfg.SheetsAPIKey,
		cfg.SpreadsheetID,
		cb,
		resilienceCfg,
		logger,
	)

	// --- Service ---
	reportSvc := service.NewReportService(store, sheetCache, metrics, logger, service.Options{
		SalesWorksheet:    cfg.SalesWorksheet,
		ExpensesWorksheet: cfg.ExpensesWorksheet,
		RankingLimit:      cfg.RankingLimit,
		RecentMonths:      cfg.RecentMonths,
		ForecastPolicy:    analytics.ForecastPolicy(cfg.ForecastPolicy),
	})

	// --- Router ---
	router := handler.NewRouter(reportSvc, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

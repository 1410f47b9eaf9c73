package handler

import (
	"net/http"

	"github.com/gestaofin/visionario-analytics-go/internal/infra/observability"
	"github.com/gestaofin/visionario-analytics-go/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Relatórios (visão macro)
// ============================================================

func overviewHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reports/overview")
		defer span.End()

		report, err := svc.Overview(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func monthlyHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reports/monthly")
		defer span.End()

		buckets, err := svc.Monthly(ctx, parseMonths(r))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, buckets)
	}
}

func forecastHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reports/forecast")
		defer span.End()

		forecast, err := svc.ForecastProfit(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, forecast)
	}
}

// ============================================================
// Rankings
// ============================================================

func productRankingHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/rankings/products")
		defer span.End()

		ranking, err := svc.RankProducts(ctx, parseLimit(r))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, ranking)
	}
}

func supplierRankingHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/rankings/suppliers")
		defer span.End()

		ranking, err := svc.RankSuppliers(ctx, parseLimit(r))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, ranking)
	}
}

func buyerRankingHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/rankings/buyers")
		defer span.End()

		ranking, err := svc.RankBuyers(ctx, parseLimit(r))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, ranking)
	}
}

// ============================================================
// Métricas do pipeline
// ============================================================

func reportMetricsHandler(metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/metrics/reports")
		defer span.End()

		writeJSON(w, http.StatusOK, metrics.GetReportSnapshot())
	}
}

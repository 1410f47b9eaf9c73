package handler

import (
	"net/http"

	"github.com/gestaofin/visionario-analytics-go/internal/infra/observability"
	"github.com/gestaofin/visionario-analytics-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
// The report endpoints mirror the legacy macro-vision dashboard API.
func NewRouter(svc *service.ReportService, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler())
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// =============================================
		// 1. 📊 Relatórios
		// GET /v1/reports/overview   (visão macro completa)
		// GET /v1/reports/monthly    (auditoria mensal)
		// GET /v1/reports/forecast   (previsão de lucro)
		// =============================================
		r.Get("/reports/overview", overviewHandler(svc, logger))
		r.Get("/reports/monthly", monthlyHandler(svc, logger))
		r.Get("/reports/forecast", forecastHandler(svc, logger))

		// =============================================
		// 2. 🏆 Rankings
		// GET /v1/rankings/products
		// GET /v1/rankings/suppliers
		// GET /v1/rankings/buyers
		// =============================================
		r.Get("/rankings/products", productRankingHandler(svc, logger))
		r.Get("/rankings/suppliers", supplierRankingHandler(svc, logger))
		r.Get("/rankings/buyers", buyerRankingHandler(svc, logger))

		// =============================================
		// 3. 📈 Métricas do pipeline
		// GET /v1/metrics/reports
		// =============================================
		r.Get("/metrics/reports", reportMetricsHandler(metrics, logger))
	})

	return r
}

func healthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

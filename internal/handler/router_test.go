package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gestaofin/visionario-analytics-go/internal/domain"
	"github.com/gestaofin/visionario-analytics-go/internal/handler"
	"github.com/gestaofin/visionario-analytics-go/internal/infra/cache"
	"github.com/gestaofin/visionario-analytics-go/internal/infra/observability"
	"github.com/gestaofin/visionario-analytics-go/internal/service"

	"go.uber.org/zap"
)

type stubFetcher struct {
	worksheets map[string][]domain.RawRecord
}

func (s *stubFetcher) FetchRecords(_ context.Context, worksheet string) ([]domain.RawRecord, error) {
	return s.worksheets[worksheet], nil
}

func newTestRouter(fetcher *stubFetcher) http.Handler {
	metrics := observability.NewMetrics()
	svc := service.NewReportService(
		fetcher,
		cache.New[[]domain.RawRecord](time.Minute),
		metrics,
		zap.NewNop(),
		service.Options{},
	)
	return handler.NewRouter(svc, metrics, zap.NewNop())
}

func seededFetcher() *stubFetcher {
	return &stubFetcher{worksheets: map[string][]domain.RawRecord{
		"VENDAS": {
			{
				domain.ColSaleAmount: "R$ 100,00",
				domain.ColTimestamp:  "01/01/2024",
				domain.ColProduct:    "A, B",
				domain.ColBuyer:      "Maria",
			},
			{
				domain.ColSaleAmount: "R$ 80,00",
				domain.ColTimestamp:  "05/02/2024",
				domain.ColProduct:    "B",
				domain.ColBuyer:      "João",
			},
		},
		"GASTOS": {
			{
				domain.ColExpenseAmount: "R$ 30,00",
				domain.ColTimestamp:     "10/01/2024",
				domain.ColProduct:       "Fornecedor X",
				domain.ColQuantity:      "5",
			},
		},
	}}
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(seededFetcher())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %q", body["status"])
	}
}

func TestRouter_Readyz(t *testing.T) {
	router := newTestRouter(seededFetcher())

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouter_PrometheusMetrics(t *testing.T) {
	router := newTestRouter(seededFetcher())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouter_Overview(t *testing.T) {
	router := newTestRouter(seededFetcher())

	req := httptest.NewRequest(http.MethodGet, "/v1/reports/overview", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var report struct {
		Totals struct {
			Revenue float64 `json:"faturamento"`
			Cost    float64 `json:"custos"`
			Profit  float64 `json:"lucro"`
		} `json:"totais"`
		Monthly []struct {
			Label string `json:"mes"`
		} `json:"auditoria_mensal"`
		TopProducts []struct {
			Label string  `json:"label"`
			Total float64 `json:"total"`
		} `json:"ranking_produtos"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("invalid json: %v", err)
	}

	if report.Totals.Revenue != 180.0 || report.Totals.Cost != 30.0 || report.Totals.Profit != 150.0 {
		t.Errorf("totals: %+v", report.Totals)
	}
	if len(report.Monthly) != 2 || report.Monthly[0].Label != "01/2024" {
		t.Errorf("monthly: %+v", report.Monthly)
	}
	if len(report.TopProducts) == 0 || report.TopProducts[0].Label != "B" {
		t.Errorf("top products: %+v", report.TopProducts)
	}
}

func TestRouter_MonthlyWithMonthsParam(t *testing.T) {
	router := newTestRouter(seededFetcher())

	req := httptest.NewRequest(http.MethodGet, "/v1/reports/monthly?months=1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var buckets []struct {
		Label string `json:"mes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &buckets); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(buckets) != 1 || buckets[0].Label != "02/2024" {
		t.Errorf("expected only the latest month, got %+v", buckets)
	}
}

func TestRouter_Forecast(t *testing.T) {
	router := newTestRouter(seededFetcher())

	req := httptest.NewRequest(http.MethodGet, "/v1/reports/forecast", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var forecast struct {
		Value  float64 `json:"valor"`
		Policy string  `json:"politica"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &forecast); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if forecast.Policy != "linear" {
		t.Errorf("policy: %q", forecast.Policy)
	}
	// Profits 70 (Jan) and 80 (Feb): 80 + (80 - 70) = 90.
	if forecast.Value != 90.0 {
		t.Errorf("forecast value: %v, want 90", forecast.Value)
	}
}

func TestRouter_RankingLimit(t *testing.T) {
	router := newTestRouter(seededFetcher())

	req := httptest.NewRequest(http.MethodGet, "/v1/rankings/products?limit=1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var ranking []struct {
		Label string `json:"label"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &ranking); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(ranking) != 1 || ranking[0].Label != "B" {
		t.Errorf("expected single top product B, got %+v", ranking)
	}
}

func TestRouter_SchemaMismatchIsBadGateway(t *testing.T) {
	fetcher := &stubFetcher{worksheets: map[string][]domain.RawRecord{
		"VENDAS": {{domain.ColSaleAmount: "R$ 10,00"}},
		"GASTOS": {},
	}}
	router := newTestRouter(fetcher)

	req := httptest.NewRequest(http.MethodGet, "/v1/reports/overview", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Error == "" {
		t.Error("expected an error message")
	}
}

func TestRouter_ReportMetricsSnapshot(t *testing.T) {
	router := newTestRouter(seededFetcher())

	// Generate one report so the counters move.
	warm := httptest.NewRequest(http.MethodGet, "/v1/reports/overview", nil)
	router.ServeHTTP(httptest.NewRecorder(), warm)

	req := httptest.NewRequest(http.MethodGet, "/v1/metrics/reports", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var snapshot struct {
		TotalReports  int64   `json:"total_reports"`
		RowsProcessed float64 `json:"rows_processed"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &snapshot); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if snapshot.TotalReports != 1 {
		t.Errorf("total_reports: %v, want 1", snapshot.TotalReports)
	}
	if snapshot.RowsProcessed != 3 {
		t.Errorf("rows_processed: %v, want 3", snapshot.RowsProcessed)
	}
}

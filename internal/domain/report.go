package domain

import "time"

// ============================================================
// Report output types (the published metrics mapping)
// ============================================================

// Totals holds whole-history aggregates across both feeds.
type Totals struct {
	Revenue   float64 `json:"faturamento"`
	Cost      float64 `json:"custos"`
	Profit    float64 `json:"lucro"`
	ItemCount int     `json:"total_itens"`
}

// MonthlyBucket is one calendar month of the audit series. Month is the
// first instant of the month in UTC; Label is the human-readable form.
type MonthlyBucket struct {
	Month         time.Time `json:"-"`
	Label         string    `json:"mes"` // MM/YYYY
	Revenue       float64   `json:"faturamento"`
	Cost          float64   `json:"custos"`
	Profit        float64   `json:"lucro"`
	ItemCount     int       `json:"total_itens"`
	AvgOrderValue float64   `json:"ticket_medio"`
	GrowthPct     float64   `json:"crescimento_pct"`
}

// RankingEntry is one group of a top-N ranking: the grouping label plus
// every aggregated metric for that group.
type RankingEntry struct {
	Label         string  `json:"label"`
	TotalValue    float64 `json:"total"`
	TotalQuantity float64 `json:"quantidade"`
	Count         int     `json:"registros"`
}

// ForecastResult is the one-step-ahead profit estimate and the policy
// that produced it.
type ForecastResult struct {
	Value  float64 `json:"valor"`
	Policy string  `json:"politica"`
}

// OverviewReport is the full macro-vision report: totals, monthly audit,
// rankings and forecast, recomputed from scratch on every request.
type OverviewReport struct {
	ReportID     string          `json:"report_id"`
	GeneratedAt  time.Time       `json:"gerado_em"`
	Totals       Totals          `json:"totais"`
	Monthly      []MonthlyBucket `json:"auditoria_mensal"`
	TopProducts  []RankingEntry  `json:"ranking_produtos"`
	TopSuppliers []RankingEntry  `json:"ranking_gastos"`
	TopBuyers    []RankingEntry  `json:"ranking_clientes"`
	Forecast     ForecastResult  `json:"previsao"`
}

// ReportMetrics is a snapshot of pipeline counters for the
// GET /v1/metrics/reports endpoint.
type ReportMetrics struct {
	TotalReports  int64   `json:"total_reports"`
	ErrorRate     float64 `json:"error_rate"`
	CacheHitRate  float64 `json:"cache_hit_rate"`
	FetchErrors   float64 `json:"fetch_errors"`
	RowsProcessed float64 `json:"rows_processed"`
	Period        string  `json:"period"`
}

// SuccessResponse is a generic success payload.
type SuccessResponse struct {
	Message string `json:"message"`
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gestaofin/visionario-analytics-go/internal/analytics"
	"github.com/gestaofin/visionario-analytics-go/internal/domain"
	"github.com/gestaofin/visionario-analytics-go/internal/infra/observability"
	"github.com/gestaofin/visionario-analytics-go/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("service/report")

// Options tunes the report pipeline. Zero values fall back to the
// defaults below.
type Options struct {
	SalesWorksheet    string
	ExpensesWorksheet string
	RankingLimit      int
	RecentMonths      int
	ForecastPolicy    analytics.ForecastPolicy
}

// ReportService builds the macro-vision report from the two worksheet
// feeds. Every computation is a one-shot batch over the full history in
// the store: nothing derived is cached or shared between requests, so
// concurrent invocations are fully independent.
type ReportService struct {
	store   port.RecordFetcher
	cache   port.Cache[[]domain.RawRecord]
	metrics *observability.Metrics
	logger  *zap.Logger
	opts    Options
}

// NewReportService creates the report service with all dependencies injected.
func NewReportService(
	store port.RecordFetcher,
	cache port.Cache[[]domain.RawRecord],
	metrics *observability.Metrics,
	logger *zap.Logger,
	opts Options,
) *ReportService {
	if opts.SalesWorksheet == "" {
		opts.SalesWorksheet = "VENDAS"
	}
	if opts.ExpensesWorksheet == "" {
		opts.ExpensesWorksheet = "GASTOS"
	}
	if opts.RankingLimit <= 0 {
		opts.RankingLimit = 10
	}
	if opts.RecentMonths <= 0 {
		opts.RecentMonths = 12
	}
	if !opts.ForecastPolicy.Valid() {
		opts.ForecastPolicy = analytics.PolicyLinear
	}

	return &ReportService{
		store:   store,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
		opts:    opts,
	}
}

// fetchWorksheet returns the raw rows of one worksheet, serving from the
// TTL cache when possible. Only raw upstream rows are cached; derived
// metrics are recomputed on every call.
func (s *ReportService) fetchWorksheet(ctx context.Context, worksheet string) ([]domain.RawRecord, error) {
	cacheKey := fmt.Sprintf("sheet:%s", worksheet)
	if cached, ok := s.cache.Get(cacheKey); ok {
		s.metrics.IncrCacheHit("sheet")
		return cached, nil
	}
	s.metrics.IncrCacheMiss("sheet")

	records, err := s.store.FetchRecords(ctx, worksheet)
	if err != nil {
		s.logger.Error("failed to fetch worksheet",
			zap.String("worksheet", worksheet),
			zap.Error(err),
		)
		s.metrics.IncrExternalError("sheets")
		return nil, fmt.Errorf("worksheet %s fetch: %w", worksheet, err)
	}
	s.cache.Set(cacheKey, records)
	return records, nil
}

// loadFeeds fetches both worksheets concurrently, validates their schema
// and normalizes every row. Data-quality problems are absorbed by the
// normalizers; only connectivity and schema failures surface here.
func (s *ReportService) loadFeeds(ctx context.Context) ([]domain.Sale, []domain.Expense, error) {
	var rawSales, rawExpenses []domain.RawRecord

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		records, err := s.fetchWorksheet(gCtx, s.opts.SalesWorksheet)
		if err != nil {
			return err
		}
		rawSales = records
		return nil
	})

	g.Go(func() error {
		records, err := s.fetchWorksheet(gCtx, s.opts.ExpensesWorksheet)
		if err != nil {
			return err
		}
		rawExpenses = records
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	if err := analytics.RequireColumns(s.opts.SalesWorksheet, rawSales,
		domain.ColSaleAmount, domain.ColTimestamp, domain.ColProduct, domain.ColBuyer); err != nil {
		return nil, nil, err
	}
	if err := analytics.RequireColumns(s.opts.ExpensesWorksheet, rawExpenses,
		domain.ColExpenseAmount, domain.ColTimestamp, domain.ColProduct); err != nil {
		return nil, nil, err
	}

	s.metrics.AddRowsProcessed(len(rawSales) + len(rawExpenses))

	return analytics.NormalizeSales(rawSales), analytics.NormalizeExpenses(rawExpenses), nil
}

// Overview builds the complete macro-vision report: totals, monthly
// audit (most recent months only), the three rankings and the forecast.
func (s *ReportService) Overview(ctx context.Context) (*domain.OverviewReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "ReportService.Overview")
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("overview", time.Since(start))
	}()

	sales, expenses, err := s.loadFeeds(ctx)
	if err != nil {
		s.metrics.IncrReport("error")
		return nil, err
	}

	items := analytics.ExplodeAll(sales)

	// Global totals keep every record, including the ones without a
	// parseable timestamp; those are excluded from monthly buckets only.
	var totals domain.Totals
	for _, sale := range sales {
		totals.Revenue += sale.Amount
	}
	for _, expense := range expenses {
		totals.Cost += expense.Amount
	}
	totals.Profit = totals.Revenue - totals.Cost
	totals.ItemCount = len(items)

	monthly := analytics.MonthlySummary(sales, expenses, items)

	// The forecast sees the full history; the trim below is presentation.
	forecast := analytics.Forecast(monthly, s.opts.ForecastPolicy)

	report := &domain.OverviewReport{
		ReportID:     uuid.New().String(),
		GeneratedAt:  time.Now().UTC(),
		Totals:       totals,
		Monthly:      analytics.LastMonths(monthly, s.opts.RecentMonths),
		TopProducts:  analytics.TopN(analytics.ProductRows(items), analytics.ByValue, s.opts.RankingLimit),
		TopSuppliers: analytics.TopN(analytics.SupplierRows(expenses), analytics.ByValue, s.opts.RankingLimit),
		TopBuyers:    analytics.TopN(analytics.BuyerRows(sales), analytics.ByValue, s.opts.RankingLimit),
		Forecast: domain.ForecastResult{
			Value:  forecast,
			Policy: string(s.opts.ForecastPolicy),
		},
	}

	span.SetAttributes(
		attribute.Int("report.sales", len(sales)),
		attribute.Int("report.expenses", len(expenses)),
		attribute.Int("report.months", len(monthly)),
	)
	s.metrics.IncrReport("success")

	s.logger.Info("overview report built",
		zap.String("report_id", report.ReportID),
		zap.Int("sales", len(sales)),
		zap.Int("expenses", len(expenses)),
		zap.Int("months", len(monthly)),
		zap.Duration("took", time.Since(start)),
	)

	return report, nil
}

// Monthly returns the monthly audit series trimmed to the most recent
// months buckets (the configured default when months <= 0).
func (s *ReportService) Monthly(ctx context.Context, months int) ([]domain.MonthlyBucket, error) {
	ctx, span := tracer.Start(ctx, "ReportService.Monthly")
	defer span.End()

	if months <= 0 {
		months = s.opts.RecentMonths
	}

	sales, expenses, err := s.loadFeeds(ctx)
	if err != nil {
		return nil, err
	}

	buckets := analytics.MonthlySummary(sales, expenses, analytics.ExplodeAll(sales))
	return analytics.LastMonths(buckets, months), nil
}

// ForecastProfit returns the one-month-ahead profit estimate under the
// configured policy.
func (s *ReportService) ForecastProfit(ctx context.Context) (*domain.ForecastResult, error) {
	ctx, span := tracer.Start(ctx, "ReportService.ForecastProfit")
	defer span.End()

	sales, expenses, err := s.loadFeeds(ctx)
	if err != nil {
		return nil, err
	}

	buckets := analytics.MonthlySummary(sales, expenses, nil)
	return &domain.ForecastResult{
		Value:  analytics.Forecast(buckets, s.opts.ForecastPolicy),
		Policy: string(s.opts.ForecastPolicy),
	}, nil
}

// RankProducts ranks exploded products by apportioned sales value.
func (s *ReportService) RankProducts(ctx context.Context, limit int) ([]domain.RankingEntry, error) {
	ctx, span := tracer.Start(ctx, "ReportService.RankProducts")
	defer span.End()

	sales, _, err := s.loadFeeds(ctx)
	if err != nil {
		return nil, err
	}

	items := analytics.ExplodeAll(sales)
	return analytics.TopN(analytics.ProductRows(items), analytics.ByValue, s.limit(limit)), nil
}

// RankSuppliers ranks expense suppliers by total spend, carrying the
// accumulated real quantity volume per supplier.
func (s *ReportService) RankSuppliers(ctx context.Context, limit int) ([]domain.RankingEntry, error) {
	ctx, span := tracer.Start(ctx, "ReportService.RankSuppliers")
	defer span.End()

	_, expenses, err := s.loadFeeds(ctx)
	if err != nil {
		return nil, err
	}

	return analytics.TopN(analytics.SupplierRows(expenses), analytics.ByValue, s.limit(limit)), nil
}

// RankBuyers ranks buyers by full (unexploded) sales revenue.
func (s *ReportService) RankBuyers(ctx context.Context, limit int) ([]domain.RankingEntry, error) {
	ctx, span := tracer.Start(ctx, "ReportService.RankBuyers")
	defer span.End()

	sales, _, err := s.loadFeeds(ctx)
	if err != nil {
		return nil, err
	}

	return analytics.TopN(analytics.BuyerRows(sales), analytics.ByValue, s.limit(limit)), nil
}

func (s *ReportService) limit(n int) int {
	if n <= 0 {
		return s.opts.RankingLimit
	}
	return n
}

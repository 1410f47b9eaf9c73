package analytics_test

import (
	"testing"
	"time"

	"github.com/gestaofin/visionario-analytics-go/internal/analytics"
	"github.com/gestaofin/visionario-analytics-go/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validSale(amount float64, ts time.Time) domain.Sale {
	return domain.Sale{Amount: amount, Timestamp: ts, TimestampValid: true}
}

func validExpense(amount float64, ts time.Time) domain.Expense {
	return domain.Expense{Amount: amount, Timestamp: ts, TimestampValid: true}
}

func TestMonthlySummary_BucketsAscendingNoDuplicates(t *testing.T) {
	// Input deliberately out of calendar order.
	sales := []domain.Sale{
		validSale(80, day(2024, time.March, 5)),
		validSale(100, day(2024, time.January, 1)),
		validSale(50, day(2024, time.January, 15)),
		validSale(60, day(2024, time.February, 10)),
	}

	buckets := analytics.MonthlySummary(sales, nil, nil)
	if len(buckets) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(buckets))
	}

	wantLabels := []string{"01/2024", "02/2024", "03/2024"}
	for i, w := range wantLabels {
		if buckets[i].Label != w {
			t.Errorf("bucket %d label: got %q, want %q", i, buckets[i].Label, w)
		}
	}
	if buckets[0].Revenue != 150.0 {
		t.Errorf("January revenue: got %v, want 150", buckets[0].Revenue)
	}
}

func TestMonthlySummary_MissingSeriesIsExactZero(t *testing.T) {
	sales := []domain.Sale{validSale(80, day(2024, time.February, 5))}
	expenses := []domain.Expense{validExpense(30, day(2024, time.January, 10))}

	buckets := analytics.MonthlySummary(sales, expenses, nil)
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}

	jan, feb := buckets[0], buckets[1]
	if jan.Revenue != 0.0 || jan.Cost != 30.0 || jan.Profit != -30.0 {
		t.Errorf("January: %+v", jan)
	}
	if feb.Revenue != 80.0 || feb.Cost != 0.0 || feb.Profit != 80.0 {
		t.Errorf("February: %+v", feb)
	}
}

func TestMonthlySummary_AvgOrderValueGuardsDivisionByZero(t *testing.T) {
	// A month with revenue but no exploded items divides by max(count, 1).
	sales := []domain.Sale{validSale(90, day(2024, time.January, 1))}

	buckets := analytics.MonthlySummary(sales, nil, nil)
	if len(buckets) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(buckets))
	}
	if buckets[0].AvgOrderValue != 90.0 {
		t.Errorf("expected ticket médio 90 with zero items, got %v", buckets[0].AvgOrderValue)
	}
}

func TestMonthlySummary_ItemCount(t *testing.T) {
	items := []domain.LineItem{
		{Product: "A", Value: 50, Timestamp: day(2024, time.January, 1), TimestampValid: true},
		{Product: "B", Value: 50, Timestamp: day(2024, time.January, 1), TimestampValid: true},
		{Product: "A", Value: 50, Timestamp: day(2024, time.January, 15), TimestampValid: true},
	}
	sales := []domain.Sale{
		validSale(100, day(2024, time.January, 1)),
		validSale(50, day(2024, time.January, 15)),
	}

	buckets := analytics.MonthlySummary(sales, nil, items)
	if len(buckets) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(buckets))
	}
	if buckets[0].ItemCount != 3 {
		t.Errorf("expected 3 items, got %d", buckets[0].ItemCount)
	}
	if buckets[0].AvgOrderValue != 50.0 {
		t.Errorf("expected ticket médio 50, got %v", buckets[0].AvgOrderValue)
	}
}

func TestMonthlySummary_InvalidTimestampsExcluded(t *testing.T) {
	sales := []domain.Sale{
		validSale(100, day(2024, time.January, 1)),
		{Amount: 999}, // invalid timestamp, must not reach any bucket
	}

	buckets := analytics.MonthlySummary(sales, nil, nil)
	if len(buckets) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(buckets))
	}
	if buckets[0].Revenue != 100.0 {
		t.Errorf("invalid-timestamp sale leaked into bucket: %v", buckets[0].Revenue)
	}
}

func TestMonthlySummary_Growth(t *testing.T) {
	sales := []domain.Sale{
		validSale(100, day(2024, time.January, 1)),
		validSale(150, day(2024, time.February, 1)),
	}

	buckets := analytics.MonthlySummary(sales, nil, nil)
	if buckets[0].GrowthPct != 0.0 {
		t.Errorf("first bucket growth must be 0, got %v", buckets[0].GrowthPct)
	}
	if buckets[1].GrowthPct != 50.0 {
		t.Errorf("expected 50%% growth, got %v", buckets[1].GrowthPct)
	}
}

func TestMonthlySummary_Empty(t *testing.T) {
	buckets := analytics.MonthlySummary(nil, nil, nil)
	if len(buckets) != 0 {
		t.Errorf("expected no buckets for empty input, got %d", len(buckets))
	}
}

func TestLastMonths(t *testing.T) {
	buckets := analytics.MonthlySummary([]domain.Sale{
		validSale(1, day(2024, time.January, 1)),
		validSale(2, day(2024, time.February, 1)),
		validSale(3, day(2024, time.March, 1)),
	}, nil, nil)

	trimmed := analytics.LastMonths(buckets, 2)
	if len(trimmed) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(trimmed))
	}
	if trimmed[0].Label != "02/2024" || trimmed[1].Label != "03/2024" {
		t.Errorf("expected most recent buckets, got %v / %v", trimmed[0].Label, trimmed[1].Label)
	}

	if got := analytics.LastMonths(buckets, 0); len(got) != 3 {
		t.Errorf("k=0 must not trim, got %d buckets", len(got))
	}
	if got := analytics.LastMonths(buckets, 10); len(got) != 3 {
		t.Errorf("k beyond length must not trim, got %d buckets", len(got))
	}
}

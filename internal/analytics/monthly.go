package analytics

import (
	"sort"
	"time"

	"github.com/gestaofin/visionario-analytics-go/internal/domain"
)

// monthLabelLayout renders a bucket key as MM/YYYY for the report.
const monthLabelLayout = "01/2006"

// monthKey truncates an instant to the first moment of its calendar
// month, UTC. The sheets carry naive local timestamps, so everything is
// interpreted in a single timezone-free frame.
func monthKey(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthlySummary buckets sales, expenses and exploded line items into
// calendar months and derives profit, ticket médio and month-over-month
// growth per bucket.
//
// Only records with a valid timestamp participate; everything else was
// already counted in the global totals. A month present in one series
// but absent from another contributes exact zero for the absent series,
// no fill-forward. Buckets come back in ascending calendar order, one
// per month that has at least one record.
func MonthlySummary(sales []domain.Sale, expenses []domain.Expense, items []domain.LineItem) []domain.MonthlyBucket {
	type acc struct {
		revenue float64
		cost    float64
		items   int
	}
	byMonth := make(map[time.Time]*acc)

	get := func(t time.Time) *acc {
		k := monthKey(t)
		a, ok := byMonth[k]
		if !ok {
			a = &acc{}
			byMonth[k] = a
		}
		return a
	}

	for _, s := range sales {
		if !s.TimestampValid {
			continue
		}
		get(s.Timestamp).revenue += s.Amount
	}
	for _, e := range expenses {
		if !e.TimestampValid {
			continue
		}
		get(e.Timestamp).cost += e.Amount
	}
	for _, it := range items {
		if !it.TimestampValid {
			continue
		}
		get(it.Timestamp).items++
	}

	months := make([]time.Time, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	buckets := make([]domain.MonthlyBucket, 0, len(months))
	for i, m := range months {
		a := byMonth[m]

		itemCount := a.items
		divisor := itemCount
		if divisor < 1 {
			divisor = 1
		}

		// Growth is 0 for the first bucket and whenever the previous
		// month had zero revenue; there is no meaningful base either way.
		growth := 0.0
		if i > 0 {
			prev := byMonth[months[i-1]]
			if prev.revenue != 0 {
				growth = (a.revenue - prev.revenue) / prev.revenue * 100
			}
		}

		buckets = append(buckets, domain.MonthlyBucket{
			Month:         m,
			Label:         m.Format(monthLabelLayout),
			Revenue:       a.revenue,
			Cost:          a.cost,
			Profit:        a.revenue - a.cost,
			ItemCount:     itemCount,
			AvgOrderValue: a.revenue / float64(divisor),
			GrowthPct:     growth,
		})
	}
	return buckets
}

// LastMonths trims an already-sorted bucket sequence to its most recent
// k entries. This is a presentation slice, never a re-aggregation.
func LastMonths(buckets []domain.MonthlyBucket, k int) []domain.MonthlyBucket {
	if k <= 0 || len(buckets) <= k {
		return buckets
	}
	return buckets[len(buckets)-k:]
}

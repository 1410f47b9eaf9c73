package analytics

import (
	"sort"

	"github.com/gestaofin/visionario-analytics-go/internal/domain"
)

// Row is one contribution to a ranking: a grouping key plus the metrics
// accumulated for it. Callers decide which normalized field becomes the
// key (product, supplier or buyer).
type Row struct {
	Key      string
	Value    float64
	Quantity float64
}

// Metric selects the primary ordering metric for TopN.
type Metric int

const (
	ByValue Metric = iota
	ByQuantity
	ByCount
)

// TopN groups rows by key, sums value/quantity/count per group and
// returns at most n groups ordered descending by the chosen metric.
//
// Ties are broken by first appearance of the group key in the input:
// groups are materialized in first-seen order and sorted with a stable
// sort, so equal metrics keep their original relative order. This makes
// the ranking fully deterministic for a given input sequence.
func TopN(rows []Row, metric Metric, n int) []domain.RankingEntry {
	if n <= 0 {
		return []domain.RankingEntry{}
	}

	index := make(map[string]int)
	entries := make([]domain.RankingEntry, 0)

	for _, row := range rows {
		i, ok := index[row.Key]
		if !ok {
			i = len(entries)
			index[row.Key] = i
			entries = append(entries, domain.RankingEntry{Label: row.Key})
		}
		entries[i].TotalValue += row.Value
		entries[i].TotalQuantity += row.Quantity
		entries[i].Count++
	}

	sort.SliceStable(entries, func(i, j int) bool {
		switch metric {
		case ByQuantity:
			return entries[i].TotalQuantity > entries[j].TotalQuantity
		case ByCount:
			return entries[i].Count > entries[j].Count
		default:
			return entries[i].TotalValue > entries[j].TotalValue
		}
	})

	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// ProductRows builds ranking rows from exploded line items: one
// contribution per item, valued at the item's apportioned share.
func ProductRows(items []domain.LineItem) []Row {
	rows := make([]Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, Row{Key: it.Product, Value: it.Value, Quantity: 1})
	}
	return rows
}

// SupplierRows builds ranking rows from expenses, carrying the real
// accumulated quantity volume alongside the spend.
func SupplierRows(expenses []domain.Expense) []Row {
	rows := make([]Row, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, Row{Key: e.Supplier, Value: e.Amount, Quantity: e.Quantity})
	}
	return rows
}

// BuyerRows builds ranking rows from sales grouped by buyer, without
// explosion: a buyer's revenue is the full sale amount.
func BuyerRows(sales []domain.Sale) []Row {
	rows := make([]Row, 0, len(sales))
	for _, s := range sales {
		rows = append(rows, Row{Key: s.Buyer, Value: s.Amount, Quantity: 1})
	}
	return rows
}

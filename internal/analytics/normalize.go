// Package analytics implements the report pipeline core: normalization of
// loosely-typed worksheet cells, explosion of multi-product sales,
// monthly aggregation, top-N rankings and the profit forecast.
//
// Everything in this package is a pure function of its inputs. Malformed
// data never produces an error: amounts fail soft to zero and timestamps
// fail soft to "invalid", so a single corrupted cell can never abort a
// whole report.
package analytics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gestaofin/visionario-analytics-go/internal/domain"
)

// ParseCurrency converts a financial cell into a float64.
//
// Cells arrive either already numeric ("1234.56") or formatted in the
// Brazilian convention: optional "R$" prefix, "." as thousands separator
// and "," as decimal separator ("R$ 1.234,56" -> 1234.56). A value that
// already parses as a canonical float is returned unchanged, which keeps
// the function idempotent over its own output.
//
// Any parse failure yields 0.0. A negative sign is preserved.
func ParseCurrency(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0.0
	}

	// Already-numeric cell: no locale interpretation.
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}

	s = strings.ReplaceAll(s, "R$", "")
	s = strings.ReplaceAll(s, ".", "") // thousands separator
	s = strings.ReplaceAll(s, ",", ".") // decimal separator
	s = strings.TrimSpace(s)

	// Strip any residue outside {digit, '.', '-'}.
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}

	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0.0
	}
	return v
}

// ParseQuantity converts a quantity cell into a non-negative float64.
// Accepts plain numbers and comma-decimal numbers; anything unparseable
// or negative yields 0.
func ParseQuantity(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		v, err = strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
		if err != nil {
			return 0
		}
	}
	if v < 0 {
		return 0
	}
	return v
}

// dayFirstLayouts are tried in order. The source sheets use the Brazilian
// day-first convention (DD/MM/YYYY with optional time); ISO forms are
// accepted as a courtesy since they are unambiguous.
var dayFirstLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006",
	"02/01/06",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDayFirst parses a day-first date-time cell. The second return is
// false when the cell cannot be parsed; callers must then exclude the
// record from time-bucketed aggregation.
func ParseDayFirst(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dayFirstLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SplitCategories splits a comma-delimited category cell into trimmed,
// upper-cased labels. A blank cell still yields exactly one (empty)
// label so that an exploded sale never produces zero line items.
func SplitCategories(raw string) []string {
	parts := strings.Split(raw, ",")
	labels := make([]string, 0, len(parts))
	for _, p := range parts {
		labels = append(labels, strings.ToUpper(strings.TrimSpace(p)))
	}
	return labels
}

// foldLabel normalizes a single-valued grouping label (supplier, buyer).
func foldLabel(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// NormalizeSales converts raw VENDAS rows into typed sales.
// Rows are never dropped here: a bad amount becomes 0.0 and a bad
// timestamp is only flagged, so counts stay faithful to the sheet.
func NormalizeSales(records []domain.RawRecord) []domain.Sale {
	sales := make([]domain.Sale, 0, len(records))
	for _, rec := range records {
		ts, ok := ParseDayFirst(rec[domain.ColTimestamp])
		sales = append(sales, domain.Sale{
			Amount:         ParseCurrency(rec[domain.ColSaleAmount]),
			Timestamp:      ts,
			TimestampValid: ok,
			Products:       SplitCategories(rec[domain.ColProduct]),
			Buyer:          foldLabel(rec[domain.ColBuyer]),
		})
	}
	return sales
}

// NormalizeExpenses converts raw GASTOS rows into typed expenses.
func NormalizeExpenses(records []domain.RawRecord) []domain.Expense {
	expenses := make([]domain.Expense, 0, len(records))
	for _, rec := range records {
		ts, ok := ParseDayFirst(rec[domain.ColTimestamp])
		expenses = append(expenses, domain.Expense{
			Amount:         ParseCurrency(rec[domain.ColExpenseAmount]),
			Timestamp:      ts,
			TimestampValid: ok,
			Supplier:       foldLabel(rec[domain.ColProduct]),
			Quantity:       ParseQuantity(rec[domain.ColQuantity]),
		})
	}
	return expenses
}

// RequireColumns verifies that every required column appears in at least
// one record of the worksheet. A column missing from the whole feed is a
// schema mismatch, the one data problem with no soft fallback.
func RequireColumns(worksheet string, records []domain.RawRecord, columns ...string) error {
	if len(records) == 0 {
		return nil // an empty feed has no schema to violate
	}
	for _, col := range columns {
		found := false
		for _, rec := range records {
			if _, ok := rec[col]; ok {
				found = true
				break
			}
		}
		if !found {
			return &domain.ErrSchemaMismatch{Worksheet: worksheet, Column: col}
		}
	}
	return nil
}

package analytics

import "github.com/gestaofin/visionario-analytics-go/internal/domain"

// Explode expands a sale into one line item per product, apportioning the
// sale amount evenly so the items always sum back to the original value.
// A sale whose product list is empty still yields one line item with an
// empty label; ranking and counting treat that as a regular (if
// uninformative) bucket.
func Explode(sale domain.Sale) []domain.LineItem {
	products := sale.Products
	if len(products) == 0 {
		products = []string{""}
	}

	share := sale.Amount / float64(len(products))

	items := make([]domain.LineItem, 0, len(products))
	for _, p := range products {
		items = append(items, domain.LineItem{
			Product:        p,
			Value:          share,
			Timestamp:      sale.Timestamp,
			TimestampValid: sale.TimestampValid,
		})
	}
	return items
}

// ExplodeAll explodes every sale, preserving sheet order so downstream
// tie-breaking by first appearance stays deterministic.
func ExplodeAll(sales []domain.Sale) []domain.LineItem {
	items := make([]domain.LineItem, 0, len(sales))
	for _, s := range sales {
		items = append(items, Explode(s)...)
	}
	return items
}

package domain

import "time"

// RawRecord is one row of a worksheet as delivered by the record store:
// header-cell keyed, every value still raw text. Normalization happens in
// the analytics layer, never here.
type RawRecord map[string]string

// Worksheet column names as they appear in the source spreadsheet.
// These are the data contract with the upstream sheet, not presentation.
const (
	ColSaleAmount    = "VALOR DA VENDA"
	ColTimestamp     = "DATA E HORA"
	ColProduct       = "PRODUTO"
	ColBuyer         = "CLIENTE"
	ColExpenseAmount = "VALOR"
	ColQuantity      = "QUANTIDADE"
)

// Sale is a normalized sales transaction. TimestampValid is false when the
// raw date could not be parsed; such sales still count toward global totals
// and rankings but are excluded from monthly buckets.
type Sale struct {
	Amount         float64   `json:"valor"`
	Timestamp      time.Time `json:"data"`
	TimestampValid bool      `json:"-"`
	Products       []string  `json:"produtos"`
	Buyer          string    `json:"cliente"`
}

// Expense is a normalized expense transaction.
type Expense struct {
	Amount         float64   `json:"valor"`
	Timestamp      time.Time `json:"data"`
	TimestampValid bool      `json:"-"`
	Supplier       string    `json:"produto"`
	Quantity       float64   `json:"quantidade"`
}

// LineItem is one (sale, product) pair produced by exploding a sale's
// product list. Value carries the sale amount apportioned evenly across
// the sale's products, so per-product sums never double-count the sale.
type LineItem struct {
	Product        string
	Value          float64
	Timestamp      time.Time
	TimestampValid bool
}

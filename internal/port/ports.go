// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the analytics
// core and service layer from concrete implementations.
package port

import (
	"context"

	"github.com/gestaofin/visionario-analytics-go/internal/domain"
)

// RecordFetcher retrieves the raw rows of a named worksheet from the
// tabular record store. Implementations own all connectivity concerns
// (auth, retries, breakers); the rows come back fully materialized so
// the core never blocks on I/O mid-computation.
type RecordFetcher interface {
	FetchRecords(ctx context.Context, worksheet string) ([]domain.RawRecord, error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}

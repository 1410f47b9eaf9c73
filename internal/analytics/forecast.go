package analytics

import "github.com/gestaofin/visionario-analytics-go/internal/domain"

// ForecastPolicy names the heuristic used for the one-month-ahead profit
// estimate. Two incompatible variants shipped over the life of this
// pipeline; the choice is configuration, never blended.
type ForecastPolicy string

const (
	// PolicyLinear extrapolates the last two profits linearly:
	// last + (last - previous). This is the default.
	PolicyLinear ForecastPolicy = "linear"

	// PolicyWeighted weighs the last two profits 0.7/0.3.
	PolicyWeighted ForecastPolicy = "weighted"
)

// Valid reports whether p names a known policy.
func (p ForecastPolicy) Valid() bool {
	return p == PolicyLinear || p == PolicyWeighted
}

// Forecast produces the next-month profit estimate from an ascending
// monthly bucket sequence.
//
// With fewer than two buckets both policies fall back to the mean of the
// available profits: one bucket forecasts that bucket's profit, zero
// buckets forecast 0.0.
func Forecast(buckets []domain.MonthlyBucket, policy ForecastPolicy) float64 {
	switch len(buckets) {
	case 0:
		return 0.0
	case 1:
		return buckets[0].Profit
	}

	last := buckets[len(buckets)-1].Profit
	prev := buckets[len(buckets)-2].Profit

	if policy == PolicyWeighted {
		return 0.7*last + 0.3*prev
	}
	return last + (last - prev)
}

package catalog

import "time"

// Status classifies how a tracked product is behaving
type Status string

const (
	StatusStable  Status = "stable"
	StatusWarning Status = "warning"
	StatusAlert   Status = "alert"
)

// Label returns the capitalized display form of the status
func (s Status) Label() string {
	switch s {
	case StatusStable:
		return "Stable"
	case StatusWarning:
		return "Warning"
	case StatusAlert:
		return "Alert"
	default:
		return "Unknown"
	}
}

// Product is a tracked product as delivered by the API.
// CurrentPrice, Change24h and LastUpdated are the only fields
// that change after creation (via push patches).
type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Website      string    `json:"website"`
	Category     string    `json:"category,omitempty"`
	CurrentPrice float64   `json:"currentPrice"`
	Currency     string    `json:"currency"`
	Change24h    float64   `json:"change24h"`
	LastUpdated  time.Time `json:"lastUpdated"`
	Status       Status    `json:"status"`
}

// MetricsSnapshot holds the aggregate counters shown in the header cards,
// plus signed trend deltas relative to the previous snapshot.
type MetricsSnapshot struct {
	TotalProducts   int     `json:"totalProducts"`
	ActiveAlerts    int     `json:"activeAlerts"`
	SuccessRate     float64 `json:"successRate"`
	AverageInterval string  `json:"averageInterval"`
	ProductTrend    int     `json:"productTrend"`
	AlertTrend      int     `json:"alertTrend"`
	SuccessTrend    float64 `json:"successTrend"`
	IntervalTrend   float64 `json:"intervalTrend"`
}

// PricePoint is a single observation in a product's price history
type PricePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
}

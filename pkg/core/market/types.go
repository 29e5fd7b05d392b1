// Package market provides market intelligence: comparable sales,
// trend series and AI-generated insights.
package market

import "time"

// Comparable is one comparable property sale.
type Comparable struct {
	Property      string    `json:"property"`
	DistanceMiles float64   `json:"distance_miles"`
	Units         int       `json:"units"`
	SalePrice     float64   `json:"sale_price"`
	PricePerSF    float64   `json:"price_per_sf"`
	CapRate       float64   `json:"cap_rate"` // fraction
	SaleDate      time.Time `json:"sale_date"`
}

// Snapshot is the headline metric block for one market.
type Snapshot struct {
	Market           string       `json:"market"`
	PropertyType     string       `json:"property_type"`
	AvgCapRate       float64      `json:"avg_cap_rate"`
	AvgPricePerSF    float64      `json:"avg_price_per_sf"`
	MedianPricePerSF float64      `json:"median_price_per_sf"`
	DaysOnMarket     int          `json:"days_on_market"`
	Comparables      []Comparable `json:"comparables"`
	AsOf             time.Time    `json:"as_of"`
}

// TrendPoint is one month of a market trend series.
type TrendPoint struct {
	Month      string  `json:"month"` // YYYY-MM
	CapRate    float64 `json:"cap_rate"`
	PricePerSF float64 `json:"price_per_sf"`
}

// InsightKind classifies an insight for display.
type InsightKind string

const (
	InsightPositive InsightKind = "positive"
	InsightInfo     InsightKind = "info"
	InsightWarning  InsightKind = "warning"
)

// Insight is one AI-generated market observation.
type Insight struct {
	Kind   InsightKind `json:"kind"`
	Title  string      `json:"title"`
	Detail string      `json:"detail"`
}

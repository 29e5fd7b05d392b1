package market

import (
	"sort"
	"time"
)

// BuildSnapshot computes the headline metrics from a comp set.
func BuildSnapshot(marketName, propertyType string, daysOnMarket int, comps []Comparable) Snapshot {
	snap := Snapshot{
		Market:       marketName,
		PropertyType: propertyType,
		DaysOnMarket: daysOnMarket,
		Comparables:  comps,
		AsOf:         time.Now().UTC(),
	}
	if len(comps) == 0 {
		return snap
	}

	var capSum float64
	prices := make([]float64, 0, len(comps))
	for _, c := range comps {
		capSum += c.CapRate
		prices = append(prices, c.PricePerSF)
	}

	snap.AvgCapRate = capSum / float64(len(comps))
	snap.AvgPricePerSF = mean(prices)
	snap.MedianPricePerSF = median(prices)
	return snap
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// TrendSeries folds comps into a monthly cap-rate and price series,
// oldest month first. Months without sales are skipped.
func TrendSeries(comps []Comparable) []TrendPoint {
	type bucket struct {
		capSum, priceSum float64
		count            int
	}
	byMonth := map[string]*bucket{}
	for _, c := range comps {
		if c.SaleDate.IsZero() {
			continue
		}
		month := c.SaleDate.Format("2006-01")
		b, ok := byMonth[month]
		if !ok {
			b = &bucket{}
			byMonth[month] = b
		}
		b.capSum += c.CapRate
		b.priceSum += c.PricePerSF
		b.count++
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	points := make([]TrendPoint, 0, len(months))
	for _, m := range months {
		b := byMonth[m]
		points = append(points, TrendPoint{
			Month:      m,
			CapRate:    b.capSum / float64(b.count),
			PricePerSF: b.priceSum / float64(b.count),
		})
	}
	return points
}

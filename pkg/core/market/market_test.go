package market_test

import (
	"math"
	"testing"
	"time"

	"deal_evaluation/pkg/core/market"
)

const compsHTML = `
<html><body>
<p>Recent comparable sales near the subject property.</p>
<table>
  <tr><th>Property</th><th>Distance</th><th>Units</th><th>Sale Price</th><th>Price/SF</th><th>Cap Rate</th><th>Sale Date</th></tr>
  <tr><td>Oak Street Apartments</td><td>0.3 miles</td><td>124</td><td>$2,800,000</td><td>$290</td><td>6.2%</td><td>2024-01-15</td></tr>
  <tr><td>Riverside Complex</td><td>0.7 miles</td><td>96</td><td>$2,100,000</td><td>$275</td><td>6.8%</td><td>2023-11-30</td></tr>
  <tr><td>Metro Gardens</td><td>1.2 miles</td><td>156</td><td>$3,400,000</td><td>$295</td><td>5.9%</td><td>2024-02-20</td></tr>
  <tr><td>Sunset Plaza</td><td>1.5 miles</td><td>88</td><td>$1,950,000</td><td>$285</td><td>7.1%</td><td>2023-12-10</td></tr>
</table>
<table>
  <tr><th>Notes</th></tr>
  <tr><td>not a comp table</td></tr>
</table>
</body></html>`

func TestParseComparables(t *testing.T) {
	comps, err := market.NewCompsParser().ParseComparables(compsHTML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(comps) != 4 {
		t.Fatalf("expected 4 comps, got %d", len(comps))
	}

	first := comps[0]
	if first.Property != "Oak Street Apartments" {
		t.Errorf("unexpected property %q", first.Property)
	}
	if first.SalePrice != 2800000 {
		t.Errorf("expected sale price 2800000, got %.0f", first.SalePrice)
	}
	if math.Abs(first.DistanceMiles-0.3) > 1e-9 {
		t.Errorf("expected distance 0.3, got %.2f", first.DistanceMiles)
	}
	if math.Abs(first.CapRate-0.062) > 1e-9 {
		t.Errorf("cap rate should parse to a fraction, got %.4f", first.CapRate)
	}
	if first.SaleDate != time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC) {
		t.Errorf("unexpected sale date %v", first.SaleDate)
	}
}

func TestParseComparables_NoTables(t *testing.T) {
	_, err := market.NewCompsParser().ParseComparables("<html><body><p>nothing here</p></body></html>")
	if err == nil {
		t.Error("expected an error for a page without comp tables")
	}
}

func TestBuildSnapshot(t *testing.T) {
	comps, err := market.NewCompsParser().ParseComparables(compsHTML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := market.BuildSnapshot("Austin, TX", "multifamily", 87, comps)
	wantAvgCap := (0.062 + 0.068 + 0.059 + 0.071) / 4
	if math.Abs(snap.AvgCapRate-wantAvgCap) > 1e-9 {
		t.Errorf("expected avg cap %.4f, got %.4f", wantAvgCap, snap.AvgCapRate)
	}
	if math.Abs(snap.AvgPricePerSF-286.25) > 1e-9 {
		t.Errorf("expected avg price/SF 286.25, got %.2f", snap.AvgPricePerSF)
	}
	// Even count: median is the midpoint of 285 and 290.
	if math.Abs(snap.MedianPricePerSF-287.5) > 1e-9 {
		t.Errorf("expected median price/SF 287.5, got %.2f", snap.MedianPricePerSF)
	}
}

func TestBuildSnapshot_Empty(t *testing.T) {
	snap := market.BuildSnapshot("Denver, CO", "office", 0, nil)
	if snap.AvgCapRate != 0 || snap.MedianPricePerSF != 0 {
		t.Errorf("empty comp set should produce zero metrics, got %+v", snap)
	}
}

func TestTrendSeries(t *testing.T) {
	comps, err := market.NewCompsParser().ParseComparables(compsHTML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	points := market.TrendSeries(comps)
	if len(points) != 4 {
		t.Fatalf("expected 4 monthly points, got %d", len(points))
	}
	if points[0].Month != "2023-11" {
		t.Errorf("series should start at the oldest month, got %s", points[0].Month)
	}
	if points[len(points)-1].Month != "2024-02" {
		t.Errorf("series should end at the newest month, got %s", points[len(points)-1].Month)
	}
}

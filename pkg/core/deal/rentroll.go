package deal

import "time"

// LeaseStatus tracks a rent roll entry's lease state.
type LeaseStatus string

const (
	LeaseActive   LeaseStatus = "active"
	LeaseExpiring LeaseStatus = "expiring"
	LeaseVacant   LeaseStatus = "vacant"
)

// RentRollEntry is one suite on a deal's rent roll.
type RentRollEntry struct {
	ID          string      `json:"id"`
	DealID      string      `json:"deal_id"`
	Suite       string      `json:"suite"`
	Tenant      string      `json:"tenant"`
	SquareFeet  float64     `json:"square_feet"`
	RatePerSF   float64     `json:"rate_per_sf"` // annual
	MonthlyRent float64     `json:"monthly_rent"`
	LeaseStart  time.Time   `json:"lease_start"`
	LeaseEnd    time.Time   `json:"lease_end"`
	Status      LeaseStatus `json:"status"`
}

// RentRollSummary aggregates a deal's rent roll.
type RentRollSummary struct {
	Units            int     `json:"units"`
	OccupiedUnits    int     `json:"occupied_units"`
	TotalSquareFeet  float64 `json:"total_square_feet"`
	TotalMonthlyRent float64 `json:"total_monthly_rent"`
	AvgRatePerSF     float64 `json:"avg_rate_per_sf"`
}

// SummarizeRentRoll computes the tracker metrics shown on the deal
// analysis page: unit count, total monthly rent and average rate per
// square foot across leased suites.
func SummarizeRentRoll(entries []RentRollEntry) RentRollSummary {
	s := RentRollSummary{Units: len(entries)}

	var rateSum float64
	var rated int
	for _, e := range entries {
		s.TotalSquareFeet += e.SquareFeet
		s.TotalMonthlyRent += e.MonthlyRent
		if e.Status != LeaseVacant {
			s.OccupiedUnits++
		}
		if e.RatePerSF > 0 {
			rateSum += e.RatePerSF
			rated++
		}
	}
	if rated > 0 {
		s.AvgRatePerSF = rateSum / float64(rated)
	}
	return s
}

package deal

import (
	"fmt"
	"sort"
	"time"

	"deal_evaluation/pkg/core/finance"
)

// ExpenseCategory is the fixed set of expense log categories.
type ExpenseCategory string

const (
	ExpenseRepairs    ExpenseCategory = "repairs_maintenance"
	ExpenseManagement ExpenseCategory = "property_management"
	ExpenseInsurance  ExpenseCategory = "insurance"
	ExpenseTaxes      ExpenseCategory = "property_taxes"
	ExpenseUtilities  ExpenseCategory = "utilities"
	ExpenseLegal      ExpenseCategory = "legal"
	ExpenseOther      ExpenseCategory = "other"
)

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c ExpenseCategory) bool {
	switch c {
	case ExpenseRepairs, ExpenseManagement, ExpenseInsurance,
		ExpenseTaxes, ExpenseUtilities, ExpenseLegal, ExpenseOther:
		return true
	}
	return false
}

// ExpenseEntry is one line in a deal's expense log.
type ExpenseEntry struct {
	ID          string          `json:"id"`
	DealID      string          `json:"deal_id"`
	Date        time.Time       `json:"date"`
	Category    ExpenseCategory `json:"category"`
	Amount      float64         `json:"amount"`
	Description string          `json:"description"`
	Vendor      string          `json:"vendor"`
}

// Validate checks the entry before it is logged.
func (e ExpenseEntry) Validate() error {
	if e.Amount <= 0 {
		return fmt.Errorf("%w: expense amount must be positive", finance.ErrInvalidInput)
	}
	if !ValidCategory(e.Category) {
		return fmt.Errorf("%w: unknown expense category %q", finance.ErrInvalidInput, e.Category)
	}
	return nil
}

// CategoryTotal is one slice of the expense breakdown.
type CategoryTotal struct {
	Category ExpenseCategory `json:"category"`
	Total    float64         `json:"total"`
}

// SummarizeExpenses groups logged expenses by category, largest first.
func SummarizeExpenses(entries []ExpenseEntry) []CategoryTotal {
	byCategory := map[ExpenseCategory]float64{}
	for _, e := range entries {
		byCategory[e.Category] += e.Amount
	}

	totals := make([]CategoryTotal, 0, len(byCategory))
	for c, total := range byCategory {
		totals = append(totals, CategoryTotal{Category: c, Total: total})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Total != totals[j].Total {
			return totals[i].Total > totals[j].Total
		}
		return totals[i].Category < totals[j].Category
	})
	return totals
}

// Package deal holds the property-deal domain model: the deals under
// evaluation plus their rent rolls and expense logs.
package deal

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"deal_evaluation/pkg/core/finance"
)

// Status tracks where a deal sits in the evaluation funnel.
type Status string

const (
	StatusAnalyzing Status = "analyzing"
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

// PropertyType classifies the asset.
type PropertyType string

const (
	TypeMultifamily PropertyType = "multifamily"
	TypeOffice      PropertyType = "office"
	TypeIndustrial  PropertyType = "industrial"
	TypeRetail      PropertyType = "retail"
	TypeMixedUse    PropertyType = "mixed_use"
)

// Deal is a property under evaluation together with its financial
// baseline. Inputs feed the scenario calculator; the latest analysis is
// cached alongside (see store.AnalysisCache).
type Deal struct {
	ID           string             `json:"id"`
	PropertyName string             `json:"property_name"`
	Location     string             `json:"location"`
	PropertyType PropertyType       `json:"property_type"`
	Status       Status             `json:"status"`
	Inputs       finance.DealInputs `json:"inputs"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// New creates a deal with a fresh ID and analyzing status.
func New(name, location string, ptype PropertyType, inputs finance.DealInputs) *Deal {
	now := time.Now().UTC()
	return &Deal{
		ID:           uuid.NewString(),
		PropertyName: name,
		Location:     location,
		PropertyType: ptype,
		Status:       StatusAnalyzing,
		Inputs:       inputs,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Validate checks the descriptive fields and the financial baseline.
func (d *Deal) Validate() error {
	if d.PropertyName == "" {
		return fmt.Errorf("%w: property name required", finance.ErrInvalidInput)
	}
	return d.Inputs.Validate()
}

package export_test

import (
	"strings"
	"testing"
	"time"

	"deal_evaluation/pkg/core/deal"
	"deal_evaluation/pkg/core/export"
	"deal_evaluation/pkg/core/finance"
)

func TestWriteSchedule(t *testing.T) {
	rows, err := finance.BuildSchedule(finance.LoanTerms{Principal: 1200, AnnualRate: 0, TermMonths: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sb strings.Builder
	if err := export.NewCSVExporter(&sb).WriteSchedule(rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 rows, got %d lines", len(lines))
	}
	if lines[0] != "period,payment,principal,interest,balance" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[1] != "1,400.00,400.00,0.00,800.00" {
		t.Errorf("unexpected first row %q", lines[1])
	}
	if lines[3] != "3,400.00,400.00,0.00,0.00" {
		t.Errorf("final row should show zero balance, got %q", lines[3])
	}
}

func TestWriteExpenses(t *testing.T) {
	entries := []deal.ExpenseEntry{
		{
			Date:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			Category:    deal.ExpenseRepairs,
			Amount:      1250,
			Description: "HVAC Repair Unit 105",
			Vendor:      "ABC HVAC Services",
		},
	}

	var sb strings.Builder
	if err := export.NewCSVExporter(&sb).WriteExpenses(entries); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := strings.TrimSpace(sb.String())
	want := "date,category,amount,description,vendor\n" +
		"2024-01-15,repairs_maintenance,1250.00,HVAC Repair Unit 105,ABC HVAC Services"
	if got != want {
		t.Errorf("unexpected csv output:\n%s", got)
	}
}

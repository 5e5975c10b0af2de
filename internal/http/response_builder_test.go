package http

import (
	"testing"

	"quanly/internal/core"
)

func TestDateString(t *testing.T) {
	if got := dateString(core.Date{}); got != "" {
		t.Errorf("dateString(missing) = %q, want empty", got)
	}
	if got := dateString(core.NewDate(2024, 1, 5)); got != "2024-01-05" {
		t.Errorf("dateString() = %q, want 2024-01-05", got)
	}
}

func TestBuildUnitRows(t *testing.T) {
	rows := buildUnitRows([]core.UnitSummary{{
		LeaseEntry: core.LeaseEntry{
			BuildingID:    "B1",
			UnitID:        "A101",
			ContractStart: core.NewDate(2024, 1, 1),
			TenantRent:    6_000_000,
			Commission:    core.Commission{Sale1: 1_000_000, Agency: 500_000},
			Expenses:      core.OpExpenses{Electric: 200_000},
		},
		Entries: 3,
		Note:    "Entry 2: missing dates",
	}})

	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	r := rows[0]
	if r.ContractStart != "2024-01-01" || r.ContractEnd != "" {
		t.Errorf("dates = %q/%q, want 2024-01-01 and empty", r.ContractStart, r.ContractEnd)
	}
	if r.Commissions != 1_500_000 {
		t.Errorf("Commissions = %d, want summed 1500000", r.Commissions)
	}
	if r.Expenses != 200_000 {
		t.Errorf("Expenses = %d, want 200000", r.Expenses)
	}
	if r.Entries != 3 || r.Note == "" {
		t.Errorf("Entries/Note not carried: %+v", r)
	}
}

func TestBuildLifetimeRowsDisplay(t *testing.T) {
	rows := buildLifetimeRows([]core.UnitResult{{
		BuildingID: "B1",
		UnitID:     "A101",
		NetProfit:  -250_000,
		Warnings:   []string{core.WarnNegative},
	}})

	if rows[0].NetProfitDisplay != "(250,000)" {
		t.Errorf("NetProfitDisplay = %q, want (250,000)", rows[0].NetProfitDisplay)
	}
	if len(rows[0].Warnings) != 1 {
		t.Errorf("Warnings = %v, want one entry", rows[0].Warnings)
	}
}

func TestBuildCashflowRows(t *testing.T) {
	rows := buildCashflowRows([]core.CashflowResult{{
		BuildingID: "B1",
		UnitID:     "A101",
		RateIn:     6_000_000,
		RateOut:    4_000_000,
		Net:        2_000_000,
	}})

	if rows[0].NetDisplay != "2,000,000" {
		t.Errorf("NetDisplay = %q, want 2,000,000", rows[0].NetDisplay)
	}
}

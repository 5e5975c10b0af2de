package services

import (
	"context"
	"errors"
	"testing"

	"quanly/internal/core"
	"quanly/internal/ledger/memory"
)

func seedStore() *memory.Store {
	return memory.NewSeeded([]core.LeaseEntry{
		{
			BuildingID:    "B1",
			UnitID:        "A101",
			OwnerName:     "Minh",
			ContractStart: core.NewDate(2024, 1, 1),
			ContractEnd:   core.NewDate(2024, 7, 3),
			LandlordRent:  4_000_000,
			TenantRent:    6_000_000,
		},
		{
			BuildingID: "B1",
			UnitID:     "A101",
			TenantName: "Lan",
			CheckIn:    core.NewDate(2024, 1, 1),
			CheckOut:   core.NewDate(2024, 7, 3),
		},
		{
			BuildingID:    "B1",
			UnitID:        "B202",
			ContractStart: core.NewDate(2024, 6, 1),
			ContractEnd:   core.NewDate(2025, 5, 31),
			LandlordRent:  3_000_000,
			TenantRent:    5_000_000,
		},
	})
}

func TestReportService_Units(t *testing.T) {
	svc := NewReportService(seedStore(), 0.1)

	units, err := svc.Units(context.Background())
	if err != nil {
		t.Fatalf("Units() error = %v", err)
	}
	if len(units) != 2 {
		t.Fatalf("Units() returned %d records, want 2", len(units))
	}
	if units[0].UnitID != "A101" || units[0].Entries != 2 {
		t.Errorf("first unit = %s with %d entries, want A101 with 2", units[0].UnitID, units[0].Entries)
	}
}

func TestReportService_PeriodDefaultTaxRate(t *testing.T) {
	svc := NewReportService(seedStore(), 0.1)

	results, err := svc.Period(context.Background(), 2024, 3, -1)
	if err != nil {
		t.Fatalf("Period() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Period() returned %d rows, want 1 (B202 starts in June)", len(results))
	}
	r := results[0]
	if r.UnitID != "A101" {
		t.Fatalf("Period() unit = %s, want A101", r.UnitID)
	}
	if r.Tax != 600_000 {
		t.Errorf("Tax = %d, want 600000 at the default 10%% rate", r.Tax)
	}
}

func TestReportService_PeriodExplicitTaxRate(t *testing.T) {
	svc := NewReportService(seedStore(), 0.1)

	results, err := svc.Period(context.Background(), 2024, 3, 0.05)
	if err != nil {
		t.Fatalf("Period() error = %v", err)
	}
	if results[0].Tax != 300_000 {
		t.Errorf("Tax = %d, want 300000 at 5%%", results[0].Tax)
	}
}

func TestReportService_PeriodInvalidMonth(t *testing.T) {
	svc := NewReportService(seedStore(), 0.1)

	_, err := svc.Period(context.Background(), 2024, 13, -1)
	if !errors.Is(err, core.ErrInvalidMonth) {
		t.Fatalf("Period(month=13) error = %v, want ErrInvalidMonth", err)
	}
}

func TestReportService_Lifetime(t *testing.T) {
	svc := NewReportService(seedStore(), 0.1)

	results, err := svc.Lifetime(context.Background())
	if err != nil {
		t.Fatalf("Lifetime() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Lifetime() returned %d rows, want 2", len(results))
	}
}

func TestReportService_ReadDashboard(t *testing.T) {
	svc := NewReportService(seedStore(), 0.1)

	d, err := svc.ReadDashboard(context.Background(), 2024, 6, -1)
	if err != nil {
		t.Fatalf("ReadDashboard() error = %v", err)
	}
	if d.Year != 2024 || d.Month != 6 {
		t.Errorf("Dashboard period = %d-%d, want 2024-6", d.Year, d.Month)
	}
	if d.TaxRate != 0.1 {
		t.Errorf("Dashboard tax rate = %v, want default 0.1", d.TaxRate)
	}
	if len(d.Period) != 2 {
		t.Errorf("Dashboard period rows = %d, want 2 (both units active in June)", len(d.Period))
	}
	if len(d.Cashflow) == 0 {
		t.Error("Dashboard cashflow should not be empty in June")
	}
}

func TestNewEntryService(t *testing.T) {
	service := NewEntryService(nil, nil)

	if service == nil {
		t.Fatal("NewEntryService should return a non-nil service")
	}
	if service.storage != nil {
		t.Error("NewEntryService should keep storage nil when passed nil")
	}
}

func TestEntryService_Close(t *testing.T) {
	service := &EntryService{}

	if err := service.Close(); err != nil {
		t.Fatalf("Close should not return error with nil components: %v", err)
	}
}

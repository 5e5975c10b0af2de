package memory

import (
	"context"
	"testing"

	"quanly/internal/core"
)

func TestAppendAndList(t *testing.T) {
	s := New()
	ctx := context.Background()

	ref, err := s.Append(ctx, core.LeaseEntry{BuildingID: "B1", UnitID: " 101.0 ", LandlordRent: 4000000})
	if err != nil {
		t.Fatal(err)
	}
	if ref != "mem:1" {
		t.Errorf("ref = %q, want mem:1", ref)
	}

	entries, err := s.ListEntries(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].UnitID != "101" {
		t.Errorf("unit id = %q, want normalized 101", entries[0].UnitID)
	}
}

func TestAppendRejectsInvalid(t *testing.T) {
	s := New()
	if _, err := s.Append(context.Background(), core.LeaseEntry{}); err != core.ErrMissingUnitKey {
		t.Errorf("err = %v, want ErrMissingUnitKey", err)
	}
	if _, err := s.Append(context.Background(), core.LeaseEntry{UnitID: "101", TenantRent: -1}); err != core.ErrNegativeAmount {
		t.Errorf("err = %v, want ErrNegativeAmount", err)
	}
}

func TestListReturnsCopy(t *testing.T) {
	s := NewSeeded([]core.LeaseEntry{{BuildingID: "B1", UnitID: "101"}})
	ctx := context.Background()

	first, _ := s.ListEntries(ctx)
	first[0].BuildingID = "mutated"

	second, _ := s.ListEntries(ctx)
	if second[0].BuildingID != "B1" {
		t.Error("ListEntries must not expose internal state")
	}
}

func TestReplaceAll(t *testing.T) {
	s := NewSeeded([]core.LeaseEntry{
		{BuildingID: "B1", UnitID: "101"},
		{BuildingID: "B1", UnitID: "102"},
	})
	ctx := context.Background()

	if err := s.ReplaceAll(ctx, []core.LeaseEntry{{BuildingID: "B2", UnitID: "201"}}); err != nil {
		t.Fatal(err)
	}
	entries, _ := s.ListEntries(ctx)
	if len(entries) != 1 || entries[0].BuildingID != "B2" {
		t.Errorf("after replace: %+v", entries)
	}
}

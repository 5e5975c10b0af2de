package core

import (
	"fmt"
	"strings"
)

// MergeRule says how one field combines across the entries of a unit.
type MergeRule int

const (
	// MergeMax keeps the largest value. Used for monthly rates: a unit's
	// entries often repeat the same rate or leave it zero, so summing would
	// double-count. An earlier revision of the reports summed rates and
	// inflated cost figures roughly tenfold; do not reintroduce that.
	MergeMax MergeRule = iota
	// MergeSum accumulates. Used for disbursements, collections, deposits,
	// commissions and operating expenses, which are discrete cash events.
	MergeSum
)

// amountField binds a named monetary field to its merge rule. Keeping the
// classification in one table (instead of inline per report) is what keeps
// fifteen report tabs from each growing their own aggregation bugs.
type amountField struct {
	Name string
	Rule MergeRule
	Get  func(*LeaseEntry) *Amount
}

// AmountFields is the complete rate-vs-sum classification of the monetary
// fields on LeaseEntry. Consolidate iterates it, and tests assert against it.
var AmountFields = []amountField{
	{"landlord_rent", MergeMax, func(e *LeaseEntry) *Amount { return &e.LandlordRent }},
	{"tenant_rent", MergeMax, func(e *LeaseEntry) *Amount { return &e.TenantRent }},
	{"landlord_paid", MergeSum, func(e *LeaseEntry) *Amount { return &e.LandlordPaid }},
	{"landlord_deposit", MergeSum, func(e *LeaseEntry) *Amount { return &e.LandlordDeposit }},
	{"tenant_received", MergeSum, func(e *LeaseEntry) *Amount { return &e.TenantReceived }},
	{"tenant_deposit", MergeSum, func(e *LeaseEntry) *Amount { return &e.TenantDeposit }},
	{"commission_sale1", MergeSum, func(e *LeaseEntry) *Amount { return &e.Commission.Sale1 }},
	{"commission_sale2", MergeSum, func(e *LeaseEntry) *Amount { return &e.Commission.Sale2 }},
	{"commission_referral", MergeSum, func(e *LeaseEntry) *Amount { return &e.Commission.Referral }},
	{"commission_agency", MergeSum, func(e *LeaseEntry) *Amount { return &e.Commission.Agency }},
	{"expense_electric", MergeSum, func(e *LeaseEntry) *Amount { return &e.Expenses.Electric }},
	{"expense_water", MergeSum, func(e *LeaseEntry) *Amount { return &e.Expenses.Water }},
	{"expense_internet", MergeSum, func(e *LeaseEntry) *Amount { return &e.Expenses.Internet }},
	{"expense_other", MergeSum, func(e *LeaseEntry) *Amount { return &e.Expenses.Other }},
}

// Consolidate merges raw lease entries into one UnitSummary per
// (building, unit) pair, preserving first-appearance order.
//
// Dates widen (min of starts, max of ends), rates take the max, cash amounts
// sum, and identity strings keep the first non-empty value. UnitID must
// already be normalized by the caller (NormalizeUnitID); grouping is exact
// string match. Entries without any key fields cannot be grouped and pass
// through as single-entry summaries in place.
func Consolidate(entries []LeaseEntry) []UnitSummary {
	type group struct {
		summary UnitSummary
		notes   []string
	}
	var order []string
	groups := make(map[string]*group)
	keyless := 0

	for _, e := range entries {
		key := e.BuildingID + "\x00" + e.UnitID
		if !e.HasUnitKey() {
			// No grouping possible; keep the entry distinct.
			keyless++
			key = fmt.Sprintf("\x00keyless:%d", keyless)
		}
		g, ok := groups[key]
		if !ok {
			g = &group{summary: UnitSummary{LeaseEntry: e, Entries: 1}}
			groups[key] = g
			order = append(order, key)
			if line := entryNoteLine(e); line != "" {
				g.notes = append(g.notes, line)
			}
			continue
		}
		mergeInto(&g.summary.LeaseEntry, e)
		g.summary.Entries++
		if line := entryNoteLine(e); line != "" {
			g.notes = append(g.notes, line)
		}
	}

	out := make([]UnitSummary, 0, len(order))
	for _, key := range order {
		g := groups[key]
		g.summary.Note = numberedNote(g.notes)
		out = append(out, g.summary)
	}
	return out
}

func mergeInto(dst *LeaseEntry, src LeaseEntry) {
	dst.ContractStart = earliest(dst.ContractStart, src.ContractStart)
	dst.ContractEnd = latest(dst.ContractEnd, src.ContractEnd)
	dst.CheckIn = earliest(dst.CheckIn, src.CheckIn)
	dst.CheckOut = latest(dst.CheckOut, src.CheckOut)

	for _, f := range AmountFields {
		d, s := f.Get(dst), f.Get(&src)
		switch f.Rule {
		case MergeMax:
			if *s > *d {
				*d = *s
			}
		case MergeSum:
			*d += *s
		}
	}

	if dst.Area == "" {
		dst.Area = src.Area
	}
	if dst.OwnerName == "" {
		dst.OwnerName = src.OwnerName
	}
	if dst.TenantName == "" {
		dst.TenantName = src.TenantName
	}
}

// entryNoteLine summarizes one raw entry for the consolidated note. An entry
// with no dates and no money contributes nothing.
func entryNoteLine(e LeaseEntry) string {
	var parts []string
	if e.HasContract() {
		parts = append(parts, "contract "+rangeText(e.ContractStart, e.ContractEnd))
	}
	if e.LandlordRent > 0 {
		parts = append(parts, "owner rate "+e.LandlordRent.Format())
	}
	if e.HasOccupancy() {
		parts = append(parts, "stay "+rangeText(e.CheckIn, e.CheckOut))
	}
	if e.TenantRent > 0 {
		parts = append(parts, "tenant rate "+e.TenantRent.Format())
	}
	if in := e.TenantReceived + e.TenantDeposit; in > 0 {
		parts = append(parts, "received "+in.Format())
	}
	if out := e.LandlordPaid + e.LandlordDeposit; out > 0 {
		parts = append(parts, "paid "+out.Format())
	}
	return strings.Join(parts, ", ")
}

func rangeText(start, end Date) string {
	return start.Format() + ".." + end.Format()
}

func numberedNote(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "Entry %d: %s", i+1, line)
	}
	return b.String()
}

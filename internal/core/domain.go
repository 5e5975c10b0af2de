package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Amount is a monetary value in whole currency units (đồng).
	// Source data never carries fractional amounts; see ParseAmount.
	Amount int64

	// Date is a calendar date (UTC midnight). The zero value means "missing":
	// optional lease dates are simply absent, not invalid.
	Date struct {
		time.Time
	}

	// Commission holds the fixed set of brokerage amounts attached to a lease
	// entry, one per beneficiary.
	Commission struct {
		Sale1    Amount // primary salesperson
		Sale2    Amount // secondary salesperson
		Referral Amount
		Agency   Amount
	}

	// OpExpenses are operating costs recorded against a unit (cumulative,
	// not monthly rates).
	OpExpenses struct {
		Electric Amount
		Water    Amount
		Internet Amount
		Other    Amount
	}

	// LeaseEntry is one raw data-entry event for a rental unit. A single unit
	// typically accumulates several entries over time (the owner contract in
	// one, a tenant stay in another, a later payment in a third).
	LeaseEntry struct {
		BuildingID string
		UnitID     string
		Area       string
		OwnerName  string
		TenantName string

		ContractStart Date // landlord contract
		ContractEnd   Date
		CheckIn       Date // tenant occupancy
		CheckOut      Date

		LandlordRent Amount // monthly rate owed to the owner
		TenantRent   Amount // monthly rate charged to the tenant

		LandlordPaid    Amount // cumulative disbursements
		LandlordDeposit Amount
		TenantReceived  Amount // cumulative collections
		TenantDeposit   Amount

		Commission Commission
		Expenses   OpExpenses
	}

	// UnitSummary is the consolidated view of all entries for one
	// (building, unit) pair. It is always computed on read and never stored.
	UnitSummary struct {
		LeaseEntry

		Entries int    // number of raw entries merged
		Note    string // numbered per-entry breakdown
	}
)

var (
	ErrInvalidMonth   = errors.New("invalid month")
	ErrInvalidYear    = errors.New("invalid year")
	ErrMissingUnitKey = errors.New("missing building or unit id")
	ErrNegativeAmount = errors.New("negative amount")
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a timestamp to its calendar date.
func DateOf(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// IsMissing reports whether the date is absent.
func (d Date) IsMissing() bool {
	return d.IsZero()
}

// Total returns the sum of all commission amounts.
func (c Commission) Total() Amount {
	return c.Sale1 + c.Sale2 + c.Referral + c.Agency
}

// Total returns the sum of all operating expense amounts.
func (x OpExpenses) Total() Amount {
	return x.Electric + x.Water + x.Internet + x.Other
}

// HasUnitKey reports whether the entry carries enough identity to be grouped.
func (e LeaseEntry) HasUnitKey() bool {
	return strings.TrimSpace(e.BuildingID) != "" || strings.TrimSpace(e.UnitID) != ""
}

// HasContract reports whether either landlord contract endpoint is known.
func (e LeaseEntry) HasContract() bool {
	return !e.ContractStart.IsMissing() || !e.ContractEnd.IsMissing()
}

// HasOccupancy reports whether either tenant occupancy endpoint is known.
func (e LeaseEntry) HasOccupancy() bool {
	return !e.CheckIn.IsMissing() || !e.CheckOut.IsMissing()
}

// Validate checks an entry as submitted through the entry form. Parse-level
// normalization has already happened; this only rejects entries that cannot
// be keyed or that carry negative money.
func (e LeaseEntry) Validate() error {
	if !e.HasUnitKey() {
		return ErrMissingUnitKey
	}
	for _, a := range []Amount{
		e.LandlordRent, e.TenantRent,
		e.LandlordPaid, e.LandlordDeposit,
		e.TenantReceived, e.TenantDeposit,
		e.Commission.Sale1, e.Commission.Sale2, e.Commission.Referral, e.Commission.Agency,
		e.Expenses.Electric, e.Expenses.Water, e.Expenses.Internet, e.Expenses.Other,
	} {
		if a < 0 {
			return ErrNegativeAmount
		}
	}
	return nil
}

// NormalizeUnitID trims a raw unit identifier and strips the trailing ".0"
// that spreadsheet cells attach to numeric-looking ids.
func NormalizeUnitID(raw string) string {
	s := strings.TrimSpace(raw)
	if t, ok := strings.CutSuffix(s, ".0"); ok && t != "" && isDigits(t) {
		return t
	}
	return s
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

package core

import "time"

// Window is an inclusive date interval used to select active records for a
// reporting period.
type Window struct {
	Start Date
	End   Date
}

// MonthWindow builds the window covering a whole calendar month.
func MonthWindow(year, month int) (Window, error) {
	if month < 1 || month > 12 {
		return Window{}, ErrInvalidMonth
	}
	if year < 1 {
		return Window{}, ErrInvalidYear
	}
	start := NewDate(year, month, 1)
	// Last day of the month: first day of the next month minus one day,
	// with the December -> January rollover spelled out.
	nextYear, nextMonth := year, month+1
	if month == 12 {
		nextYear, nextMonth = year+1, 1
	}
	end := DateOf(NewDate(nextYear, nextMonth, 1).AddDate(0, 0, -1))
	return Window{Start: start, End: end}, nil
}

// SpanWindow builds an arbitrary window from explicit endpoints.
func SpanWindow(start, end Date) Window {
	return Window{Start: start, End: end}
}

// Overlaps reports whether [start, end] touches the window. Both endpoints
// must be present; a half-known range is never active. Touching endpoints
// count as overlap.
func (w Window) Overlaps(start, end Date) bool {
	if start.IsMissing() || end.IsMissing() {
		return false
	}
	return !start.Time.After(w.End.Time) && !end.Time.Before(w.Start.Time)
}

// Contains reports whether a single date falls inside the window.
func (w Window) Contains(d Date) bool {
	if d.IsMissing() {
		return false
	}
	return !d.Time.Before(w.Start.Time) && !d.Time.After(w.End.Time)
}

// ActiveByContract reports whether the landlord contract overlaps the window.
func ActiveByContract(e LeaseEntry, w Window) bool {
	return w.Overlaps(e.ContractStart, e.ContractEnd)
}

// ActiveByOccupancy reports whether the tenant stay overlaps the window.
func ActiveByOccupancy(e LeaseEntry, w Window) bool {
	return w.Overlaps(e.CheckIn, e.CheckOut)
}

// Active reports whether the entry touches the window on either side. Used
// for simple presence listings; financial tabulation evaluates each side
// separately because a unit can carry an owner contract with no tenant, or
// the reverse.
func Active(e LeaseEntry, w Window) bool {
	return ActiveByContract(e, w) || ActiveByOccupancy(e, w)
}

// Days returns the inclusive day count of the window.
func (w Window) Days() int {
	return int(w.End.Time.Sub(w.Start.Time)/(24*time.Hour)) + 1
}

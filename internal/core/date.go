package core

import (
	"strings"
	"time"
)

// dateLayouts are tried in order. Source spreadsheets mix ISO dates with the
// dd/mm forms the entry form produces.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"02/01/06",
	"02-01-2006",
	"2006/01/02",
}

// ParseDate converts arbitrary date input into a calendar date. Empty or
// unparsable input yields the missing Date, not an error. Time-of-day on
// datetime-like input is discarded.
func ParseDate(raw string) Date {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Date{}
	}
	// Datetime forms: keep the date part only.
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DateOf(t)
	}
	if i := strings.IndexAny(s, "T "); i > 0 && strings.Count(s, "-") == 2 {
		if t, err := time.Parse("2006-01-02", s[:i]); err == nil {
			return DateOf(t)
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t)
		}
	}
	return Date{}
}

// Format renders the date as dd/mm/yy for display and store cells.
// A missing date renders as the empty string.
func (d Date) Format() string {
	if d.IsMissing() {
		return ""
	}
	return d.Time.Format("02/01/06")
}

// earliest returns the earlier of two dates, treating missing as "no opinion".
func earliest(a, b Date) Date {
	if a.IsMissing() {
		return b
	}
	if b.IsMissing() {
		return a
	}
	if b.Time.Before(a.Time) {
		return b
	}
	return a
}

// latest returns the later of two dates, treating missing as "no opinion".
func latest(a, b Date) Date {
	if a.IsMissing() {
		return b
	}
	if b.IsMissing() {
		return a
	}
	if b.Time.After(a.Time) {
		return b
	}
	return a
}

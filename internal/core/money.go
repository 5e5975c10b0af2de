// Package core implements the ledger domain: money and date normalization,
// per-unit consolidation of raw lease entries, and windowed financial reports.
package core

import (
	"strconv"
	"strings"
)

// ParseAmount converts arbitrary textual monetary input into an Amount.
//
// Source data writes amounts inconsistently: "1.500.000", "1,500,000",
// "1500000 đ". Both '.' and ',' appear as thousands separators, so both are
// removed outright; any remaining non-digit runes (currency marks, stray
// text) are dropped too. Parse failure yields 0, never an error.
//
// Amounts are whole currency units by contract. Treating '.' as a decimal
// separator here would silently multiply values ("150000.0" read as
// 1500000), which is exactly the bug this scheme exists to avoid.
func ParseAmount(raw string) Amount {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	v, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0
	}
	return Amount(v)
}

// AmountFromCell normalizes a spreadsheet cell value of unknown dynamic type.
// Native numbers pass through; strings go through ParseAmount; anything else
// is treated as absent.
func AmountFromCell(v any) Amount {
	switch x := v.(type) {
	case nil:
		return 0
	case int:
		return Amount(x)
	case int64:
		return Amount(x)
	case float64:
		return Amount(x)
	case string:
		return ParseAmount(x)
	default:
		return 0
	}
}

// Format renders the amount as a thousands-separated string, with negative
// values parenthesized: 1500000 -> "1,500,000", -250000 -> "(250,000)".
func (a Amount) Format() string {
	v := int64(a)
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatInt(v, 10)
	if len(s) > 3 {
		var b strings.Builder
		head := len(s) % 3
		if head > 0 {
			b.WriteString(s[:head])
		}
		for i := head; i < len(s); i += 3 {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(s[i : i+3])
		}
		s = b.String()
	}
	if neg {
		return "(" + s + ")"
	}
	return s
}

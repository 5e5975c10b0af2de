package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out Amount
	}{
		{"1.500.000", 1500000},
		{"1,500,000", 1500000},
		{"1500000", 1500000},
		{" 2.000.000 đ ", 2000000},
		{"4,000,000 VND", 4000000},
		{"", 0},
		{"   ", 0},
		{"abc", 0},
		{"-250.000", -250000},
		// Decimal-looking input is whole units with a stray separator,
		// never a fraction.
		{"150000.0", 1500000},
	}
	for _, tc := range cases {
		if got := ParseAmount(tc.in); got != tc.out {
			t.Errorf("ParseAmount(%q) = %d, want %d", tc.in, got, tc.out)
		}
	}
}

func TestAmountFromCell(t *testing.T) {
	cases := []struct {
		in  any
		out Amount
	}{
		{2000000, 2000000},
		{int64(750000), 750000},
		{float64(1200000), 1200000},
		{"1.500.000", 1500000},
		{nil, 0},
		{true, 0},
	}
	for _, tc := range cases {
		if got := AmountFromCell(tc.in); got != tc.out {
			t.Errorf("AmountFromCell(%v) = %d, want %d", tc.in, got, tc.out)
		}
	}
}

func TestAmountFormat(t *testing.T) {
	cases := []struct {
		in  Amount
		out string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1500000, "1,500,000"},
		{1234567890, "1,234,567,890"},
		{-250000, "(250,000)"},
	}
	for _, tc := range cases {
		if got := tc.in.Format(); got != tc.out {
			t.Errorf("Amount(%d).Format() = %q, want %q", tc.in, got, tc.out)
		}
	}
}

func TestNormalizeUnitID(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{" 101.0 ", "101"},
		{"101", "101"},
		{"A101", "A101"},
		{"A101.0", "A101.0"}, // not numeric-looking, suffix stays
		{".0", ".0"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeUnitID(tc.in); got != tc.out {
			t.Errorf("NormalizeUnitID(%q) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

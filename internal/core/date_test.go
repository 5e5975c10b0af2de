package core

import "testing"

func TestParseDate(t *testing.T) {
	cases := []struct {
		in      string
		want    Date
		missing bool
	}{
		{"2024-03-01", NewDate(2024, 3, 1), false},
		{"01/03/2024", NewDate(2024, 3, 1), false},
		{"1/3/2024", NewDate(2024, 3, 1), false},
		{"01/03/24", NewDate(2024, 3, 1), false},
		{"01-03-2024", NewDate(2024, 3, 1), false},
		{"2024-03-01T15:04:05Z", NewDate(2024, 3, 1), false},
		{"2024-03-01 15:04:05", NewDate(2024, 3, 1), false},
		{"", Date{}, true},
		{"not a date", Date{}, true},
		{"2024-13-40", Date{}, true},
	}
	for _, tc := range cases {
		got := ParseDate(tc.in)
		if tc.missing {
			if !got.IsMissing() {
				t.Errorf("ParseDate(%q) = %v, want missing", tc.in, got)
			}
			continue
		}
		if !got.Equal(tc.want.Time) {
			t.Errorf("ParseDate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestDateFormat(t *testing.T) {
	if got := NewDate(2024, 3, 1).Format(); got != "01/03/24" {
		t.Errorf("Format() = %q, want 01/03/24", got)
	}
	if got := (Date{}).Format(); got != "" {
		t.Errorf("missing date Format() = %q, want empty", got)
	}
}

func TestEarliestLatest(t *testing.T) {
	a := NewDate(2024, 1, 10)
	b := NewDate(2024, 2, 1)
	none := Date{}

	if got := earliest(a, b); !got.Equal(a.Time) {
		t.Errorf("earliest = %v, want %v", got, a)
	}
	if got := earliest(none, b); !got.Equal(b.Time) {
		t.Errorf("earliest with missing = %v, want %v", got, b)
	}
	if got := latest(a, b); !got.Equal(b.Time) {
		t.Errorf("latest = %v, want %v", got, b)
	}
	if got := latest(a, none); !got.Equal(a.Time) {
		t.Errorf("latest with missing = %v, want %v", got, a)
	}
}

package models

import "testing"

func TestParsePriority(t *testing.T) {
	cases := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{"VeryHigh", PriorityVeryHigh, false},
		{"veryhigh", PriorityVeryHigh, false},
		{"HIGH", PriorityHigh, false},
		{"medium", PriorityMedium, false},
		{"Low", PriorityLow, false},
		{"verylow", PriorityVeryLow, false},
		{"Extreme", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := ParsePriority(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParsePriority(%q) = %q, want error", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePriority(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParsePriority(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPriorityValid(t *testing.T) {
	for _, p := range Priorities() {
		if !p.Valid() {
			t.Errorf("%q.Valid() = false", p)
		}
	}
	if Priority("Extreme").Valid() {
		t.Error(`Priority("Extreme").Valid() = true, want false`)
	}
	if Priority("").Valid() {
		t.Error(`Priority("").Valid() = true, want false`)
	}
}

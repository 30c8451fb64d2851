package helpers

import (
	"testing"
	"time"
)

func TestParseKeyDuration(t *testing.T) {
	cases := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"30", 30 * 24 * time.Hour, false},
		{"7d", 7 * 24 * time.Hour, false},
		{"3m", 90 * 24 * time.Hour, false},
		{"1y", 365 * 24 * time.Hour, false},
		{" 14 ", 14 * 24 * time.Hour, false},
		{"1Y", 365 * 24 * time.Hour, false},
		{"", 0, true},
		{"abc", 0, true},
		{"0", 0, true},
		{"-5", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseKeyDuration(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseKeyDuration(%q): expected error, got %v", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseKeyDuration(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseKeyDuration(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFormatExpiry(t *testing.T) {
	ts := time.Date(2025, 3, 14, 15, 9, 0, 0, time.UTC)
	if got := FormatExpiry(ts); got != "2025-03-14" {
		t.Errorf("FormatExpiry = %q, want 2025-03-14", got)
	}
}

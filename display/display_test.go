package display

import (
	"strings"
	"testing"
	"time"
)

func TestDMS(t *testing.T) {
	tests := []struct {
		deg      float64
		expected string
	}{
		{43.268399, "∠43°16′6″"},
		{0, "∠0°0′0″"},
		{-79.774549, "∠-79°46′28″"},
		{180, "∠180°0′0″"},
		{0.5, "∠0°30′0″"},
	}

	for _, tt := range tests {
		if got := DMS(tt.deg); got != tt.expected {
			t.Errorf("DMS(%f) = %q, expected %q", tt.deg, got, tt.expected)
		}
	}
}

func TestDegrees(t *testing.T) {
	expected := "∠0.755rad = ∠43°16′6″ = ∠43.268°"
	if got := Degrees(43.268399); got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestTimestamp(t *testing.T) {
	got := Timestamp(0, nil)
	expected := "1970-01-01 00:00:00.000000+00:00"
	if got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}

	loc := time.FixedZone("EDT", -4*3600)
	got = Timestamp(1718971200.5, loc)
	expected = "2024-06-21 08:00:00.500000-04:00"
	if got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestJulian(t *testing.T) {
	got := Julian(2440588.5, nil)
	expected := "86400.000 = 1970-01-02 00:00:00.000000+00:00"
	if got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestHours(t *testing.T) {
	if got := Hours(14.8684); got != "14.868 hours" {
		t.Errorf("Expected '14.868 hours', got %q", got)
	}
}

func TestRelative(t *testing.T) {
	now := time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC)
	base := float64(now.Unix())

	tests := []struct {
		name     string
		ts       float64
		expected string
	}{
		{"future", base + 3*3600, "3 hours from now"},
		{"past", base - 2*3600, "2 hours ago"},
		{"now", base, "now"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Relative(tt.ts, now); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestNewFormatter(t *testing.T) {
	f, err := NewFormatter("")
	if err != nil {
		t.Fatalf("NewFormatter returned error: %v", err)
	}
	if f.Location != time.UTC {
		t.Errorf("Expected UTC for empty timezone, got %v", f.Location)
	}

	if _, err := NewFormatter("Not/AZone"); err == nil {
		t.Error("Expected error for unknown timezone")
	}

	f, err = NewFormatter("America/Toronto")
	if err != nil {
		t.Skipf("Skipping: America/Toronto timezone not available: %v", err)
	}
	if !strings.HasSuffix(f.Timestamp(1718971200), "-04:00") {
		t.Errorf("Expected EDT offset, got %q", f.Timestamp(1718971200))
	}
}

func TestNilFormatterUsesUTC(t *testing.T) {
	var f *Formatter
	if got := f.Julian(2440587.5); !strings.HasSuffix(got, "+00:00") {
		t.Errorf("Expected UTC output from nil formatter, got %q", got)
	}
}

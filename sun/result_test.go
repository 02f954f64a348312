package sun

import (
	"testing"
	"time"
)

func TestRiseSet_DayLength(t *testing.T) {
	rs := RiseSet{Sunrise: 0, Sunset: 43200, Transit: 21600, HourAngle: 90}

	if rs.DayLengthHours() != 12 {
		t.Errorf("Expected 12 hours, got %f", rs.DayLengthHours())
	}
	if rs.DayLength() != 12*time.Hour {
		t.Errorf("Expected 12h, got %v", rs.DayLength())
	}
}

func TestRiseSet_Times(t *testing.T) {
	rs := RiseSet{Sunrise: 1718962705.5, Sunset: 1719018363, Transit: 1718990534}

	if got := rs.SunriseTime(); !got.Equal(time.Unix(1718962705, 500000000)) {
		t.Errorf("Unexpected sunrise time %v", got)
	}
	if got := rs.SunsetTime(); got.Location() != time.UTC {
		t.Errorf("Expected UTC sunset, got %v", got.Location())
	}
	if got := rs.TransitTime(); got.Unix() != 1718990534 {
		t.Errorf("Unexpected transit time %v", got)
	}
}

func TestPolar_String(t *testing.T) {
	if got := (Polar{AlwaysAboveHorizon: true}).String(); got != "sun never sets" {
		t.Errorf("Unexpected string %q", got)
	}
	if got := (Polar{}).String(); got != "sun never rises" {
		t.Errorf("Unexpected string %q", got)
	}
}

func TestResultVariants(t *testing.T) {
	results := []Result{RiseSet{}, Polar{}}
	for _, r := range results {
		switch r.(type) {
		case RiseSet, Polar:
		default:
			t.Errorf("Unexpected result type %T", r)
		}
	}
}

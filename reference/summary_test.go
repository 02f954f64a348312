package reference

import (
	"errors"
	"testing"
	"time"
)

func TestSummarize(t *testing.T) {
	drifts := []Drift{
		{Provider: "a", Sunrise: 30 * time.Second, Sunset: -30 * time.Second},
		{Provider: "b", Sunrise: 90 * time.Second, Sunset: 30 * time.Second},
		{Provider: "c", Sunrise: 60 * time.Second, Sunset: 0},
		{Provider: "d", Polar: true},
		{Provider: "e", Err: errors.New("unreachable")},
	}

	summary := Summarize(drifts)

	if summary.Providers != 3 {
		t.Errorf("Expected 3 providers, got %d", summary.Providers)
	}
	if summary.Failed != 1 {
		t.Errorf("Expected 1 failed provider, got %d", summary.Failed)
	}
	if summary.MeanSunrise != time.Minute {
		t.Errorf("Expected mean sunrise drift 1m, got %v", summary.MeanSunrise)
	}
	if summary.MedianSunset != 0 {
		t.Errorf("Expected median sunset drift 0, got %v", summary.MedianSunset)
	}
	if summary.MaxAbs != 90*time.Second {
		t.Errorf("Expected max drift 90s, got %v", summary.MaxAbs)
	}

	// population standard deviation of 30, 90, 60 seconds
	if d := summary.StdDevSunrise - 24494897*time.Microsecond; d < -time.Millisecond || d > time.Millisecond {
		t.Errorf("Unexpected sunrise stddev %v", summary.StdDevSunrise)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize([]Drift{{Provider: "a", Err: ErrNoEvent}})
	if summary.Providers != 0 || summary.Failed != 1 {
		t.Errorf("Unexpected summary %+v", summary)
	}
	if summary.MeanSunrise != 0 || summary.StdDevSunset != 0 {
		t.Errorf("Expected zero statistics, got %+v", summary)
	}
}

package meteo

import (
	"time"
)

// RiseSet returns sunrise and sunset when both happen that day
func (r *SunResponse) RiseSet() (sunrise, sunset time.Time, ok bool) {
	if r == nil || r.Properties == nil {
		return time.Time{}, time.Time{}, false
	}

	rise := r.Properties.Sunrise.GetTime()
	set := r.Properties.Sunset.GetTime()
	if rise == nil || set == nil {
		return time.Time{}, time.Time{}, false
	}

	return *rise, *set, true
}

// Polar reports whether the sun stays above (alwaysUp=true) or below the
// horizon all day. ok is false when the day has a sunrise or sunset, or when
// the response carries no solar noon to decide from.
func (r *SunResponse) Polar() (alwaysUp bool, ok bool) {
	if r == nil || r.Properties == nil {
		return false, false
	}
	if r.Properties.Sunrise.GetTime() != nil || r.Properties.Sunset.GetTime() != nil {
		return false, false
	}

	noon := r.Properties.SolarNoon
	if noon == nil || noon.Visible == nil {
		return false, false
	}
	return *noon.Visible, true
}

// GetSolarNoon returns the time of solar noon if available
func (r *SunResponse) GetSolarNoon() *time.Time {
	if r == nil || r.Properties == nil || r.Properties.SolarNoon == nil || r.Properties.SolarNoon.Time == nil {
		return nil
	}
	return &r.Properties.SolarNoon.Time.Time
}

// GetTime returns the event time if the event happens
func (e *HorizonEvent) GetTime() *time.Time {
	if e == nil || e.Time == nil || e.Time.IsZero() {
		return nil
	}
	return &e.Time.Time
}

// DayLength returns the time between sunrise and sunset if both happen
func (r *SunResponse) DayLength() (time.Duration, bool) {
	rise, set, ok := r.RiseSet()
	if !ok {
		return 0, false
	}
	return set.Sub(rise), true
}

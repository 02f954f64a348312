package sun

import (
	"time"

	"github.com/devskill-org/sunrise/julian"
)

// Result is the outcome of a calculation: either RiseSet or Polar
type Result interface {
	isResult()
}

// RiseSet holds sunrise and sunset as Unix seconds (UTC)
type RiseSet struct {
	Sunrise   float64 `json:"sunrise"`
	Sunset    float64 `json:"sunset"`
	Transit   float64 `json:"transit"`    // solar noon
	HourAngle float64 `json:"hour_angle"` // degrees, 0..180
}

// Polar signals that the sun does not cross the horizon that day
type Polar struct {
	AlwaysAboveHorizon bool `json:"always_above_horizon"`
}

func (RiseSet) isResult() {}
func (Polar) isResult()   {}

// SunriseTime returns the sunrise as a UTC time
func (r RiseSet) SunriseTime() time.Time {
	return julian.FromSeconds(r.Sunrise)
}

// SunsetTime returns the sunset as a UTC time
func (r RiseSet) SunsetTime() time.Time {
	return julian.FromSeconds(r.Sunset)
}

// TransitTime returns the solar noon as a UTC time
func (r RiseSet) TransitTime() time.Time {
	return julian.FromSeconds(r.Transit)
}

// DayLengthHours returns the time between sunrise and sunset in hours
func (r RiseSet) DayLengthHours() float64 {
	return r.HourAngle * hoursPerDegree
}

// DayLength returns the time between sunrise and sunset
func (r RiseSet) DayLength() time.Duration {
	return time.Duration(r.DayLengthHours() * float64(time.Hour))
}

// AlwaysBelowHorizon reports a polar night
func (p Polar) AlwaysBelowHorizon() bool {
	return !p.AlwaysAboveHorizon
}

// String describes the polar condition
func (p Polar) String() string {
	if p.AlwaysAboveHorizon {
		return "sun never sets"
	}
	return "sun never rises"
}

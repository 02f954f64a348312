package reference

import (
	"context"
	"time"

	"github.com/devskill-org/sunrise/sun"
	"github.com/sixdouglas/suncalc"
)

// SunCalc uses the suncalc library. It ignores elevation.
type SunCalc struct{}

// Name returns the provider name
func (SunCalc) Name() string { return "suncalc" }

// RiseSet returns sunrise and sunset from suncalc
func (SunCalc) RiseSet(_ context.Context, day time.Time, obs sun.Observer) (Event, error) {
	noon := localNoon(day, obs.Longitude)

	times := suncalc.GetTimes(noon, obs.Latitude, obs.Longitude)
	rise := times["sunrise"].Value
	set := times["sunset"].Value

	if err := checkEvent(noon, rise, set); err != nil {
		return Event{Provider: "suncalc", Polar: true, AlwaysUp: upAtNoon(noon, obs)}, nil
	}

	return Event{Provider: "suncalc", Sunrise: rise.UTC(), Sunset: set.UTC()}, nil
}

// upAtNoon reports whether the sun is above the horizon at local noon
func upAtNoon(noon time.Time, obs sun.Observer) bool {
	return suncalc.GetPosition(noon, obs.Latitude, obs.Longitude).Altitude > 0
}

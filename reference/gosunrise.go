package reference

import (
	"context"
	"time"

	"github.com/devskill-org/sunrise/sun"
	"github.com/nathan-osman/go-sunrise"
)

// GoSunrise uses the go-sunrise library. It ignores elevation.
type GoSunrise struct{}

// Name returns the provider name
func (GoSunrise) Name() string { return "gosunrise" }

// RiseSet returns sunrise and sunset from go-sunrise
func (GoSunrise) RiseSet(_ context.Context, day time.Time, obs sun.Observer) (Event, error) {
	noon := localNoon(day, obs.Longitude)

	rise, set := sunrise.SunriseSunset(obs.Latitude, obs.Longitude, day.Year(), day.Month(), day.Day())
	if rise.IsZero() && set.IsZero() {
		return Event{Provider: "gosunrise", Polar: true, AlwaysUp: upAtNoon(noon, obs)}, nil
	}

	// go-sunrise resolves events on the UTC date
	rise, set = alignToNoon(noon, rise), alignToNoon(noon, set)
	if err := checkEvent(noon, rise, set); err != nil {
		return Event{Provider: "gosunrise"}, err
	}

	return Event{Provider: "gosunrise", Sunrise: rise.UTC(), Sunset: set.UTC()}, nil
}

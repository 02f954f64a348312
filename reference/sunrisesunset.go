package reference

import (
	"context"
	"time"

	"github.com/devskill-org/sunrise/sun"
	"github.com/kelvins/sunrisesunset"
)

// SunriseSunset uses the NOAA algorithm of the sunrisesunset library.
// It ignores elevation.
type SunriseSunset struct{}

// Name returns the provider name
func (SunriseSunset) Name() string { return "sunrisesunset" }

// RiseSet returns sunrise and sunset from sunrisesunset
func (SunriseSunset) RiseSet(_ context.Context, day time.Time, obs sun.Observer) (Event, error) {
	zone := solarZone(obs.Longitude)
	_, offset := time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, zone).Zone()

	p := sunrisesunset.Parameters{
		Latitude:  obs.Latitude,
		Longitude: obs.Longitude,
		UtcOffset: float64(offset) / 3600,
		Date:      time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
	}

	rise, set, err := p.GetSunriseSunset()
	if err != nil {
		return Event{Provider: "sunrisesunset"}, err
	}

	// The library returns local clock times; pin them to the requested date
	rise = time.Date(day.Year(), day.Month(), day.Day(), rise.Hour(), rise.Minute(), rise.Second(), 0, zone)
	set = time.Date(day.Year(), day.Month(), day.Day(), set.Hour(), set.Minute(), set.Second(), 0, zone)
	if set.Before(rise) {
		set = set.Add(24 * time.Hour)
	}

	noon := localNoon(day, obs.Longitude)
	if err := checkEvent(noon, rise, set); err != nil {
		return Event{Provider: "sunrisesunset"}, err
	}

	return Event{Provider: "sunrisesunset", Sunrise: rise.UTC(), Sunset: set.UTC()}, nil
}

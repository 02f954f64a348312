package reference

import (
	"context"
	"time"

	"github.com/devskill-org/sunrise/sun"
	"github.com/sj14/astral/pkg/astral"
)

// Astral uses the astral library, including the elevation dip
type Astral struct{}

// Name returns the provider name
func (Astral) Name() string { return "astral" }

// RiseSet returns sunrise and sunset from astral
func (Astral) RiseSet(_ context.Context, day time.Time, obs sun.Observer) (Event, error) {
	o := astral.Observer{
		Latitude:  obs.Latitude,
		Longitude: obs.Longitude,
		Elevation: obs.Elevation,
	}
	date := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	noon := localNoon(day, obs.Longitude)

	rise, riseErr := astral.Sunrise(o, date)
	set, setErr := astral.Sunset(o, date)
	if riseErr == nil && setErr == nil {
		// astral resolves events on the UTC date
		rise, set = alignToNoon(noon, rise), alignToNoon(noon, set)
		if checkEvent(noon, rise, set) == nil {
			return Event{Provider: "astral", Sunrise: rise.UTC(), Sunset: set.UTC()}, nil
		}
	}

	if riseErr != nil && setErr != nil {
		elevation := astral.Elevation(o, astral.Noon(o, date), true)
		return Event{Provider: "astral", Polar: true, AlwaysUp: elevation > 0}, nil
	}

	return Event{Provider: "astral"}, ErrNoEvent
}

// alignToNoon shifts t by whole days to the 24 hours centered on noon
func alignToNoon(noon, t time.Time) time.Time {
	for t.Sub(noon) > 12*time.Hour {
		t = t.Add(-24 * time.Hour)
	}
	for noon.Sub(t) > 12*time.Hour {
		t = t.Add(24 * time.Hour)
	}
	return t
}

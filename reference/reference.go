// Package reference computes sunrise and sunset with independent algorithms
// and compares them with the sunrise equation in package sun.
package reference

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/devskill-org/sunrise/sun"
	"github.com/devskill-org/sunrise/utils"
)

var (
	// ErrNoEvent is returned when a provider has no sunrise or sunset for the day
	ErrNoEvent = errors.New("no sunrise or sunset for the day")
	// ErrOutcomeMismatch is recorded when a provider and the equation disagree on
	// whether the sun crosses the horizon
	ErrOutcomeMismatch = errors.New("provider and equation disagree on polar condition")
)

// Provider computes the solar events of one local day.
// day selects the calendar date (its clock time is ignored) at the observer's
// solar time zone.
type Provider interface {
	Name() string
	RiseSet(ctx context.Context, day time.Time, obs sun.Observer) (Event, error)
}

// Event is a provider's answer for one day
type Event struct {
	Provider string    `json:"provider"`
	Sunrise  time.Time `json:"sunrise,omitempty"`
	Sunset   time.Time `json:"sunset,omitempty"`
	Polar    bool      `json:"polar"`
	AlwaysUp bool      `json:"always_up,omitempty"`
}

// Drift is the difference between a provider and the sunrise equation.
// Durations are provider minus equation.
type Drift struct {
	Provider string        `json:"provider"`
	Sunrise  time.Duration `json:"sunrise"`
	Sunset   time.Duration `json:"sunset"`
	Polar    bool          `json:"polar"`
	Err      error         `json:"-"`
}

// Error returns the provider error as a string, or empty
func (d Drift) Error() string {
	if d.Err == nil {
		return ""
	}
	return d.Err.Error()
}

// MaxAbs returns the larger absolute drift of sunrise and sunset
func (d Drift) MaxAbs() time.Duration {
	rise, set := d.Sunrise.Abs(), d.Sunset.Abs()
	if rise > set {
		return rise
	}
	return set
}

// EquationDay runs the sunrise equation for the calendar date of day.
// The equation resolves the timestamp to a Julian day by rounding up, so 12:00
// UTC on the date selects exactly that date.
func EquationDay(day time.Time, obs sun.Observer) (sun.Result, error) {
	return sun.CalculateTime(utils.NoonUTC(day), obs)
}

// Compare evaluates every provider for day and reports its drift against the
// sunrise equation. Provider failures are recorded on the returned drift and
// do not stop the comparison.
func Compare(ctx context.Context, day time.Time, obs sun.Observer, providers ...Provider) ([]Drift, error) {
	expected, err := EquationDay(day, obs)
	if err != nil {
		return nil, err
	}

	drifts := make([]Drift, 0, len(providers))
	for _, p := range providers {
		if err := ctx.Err(); err != nil {
			return drifts, err
		}

		drift := Drift{Provider: p.Name()}

		event, err := p.RiseSet(ctx, day, obs)
		if err != nil {
			drift.Err = fmt.Errorf("%s: %w", p.Name(), err)
			drifts = append(drifts, drift)
			continue
		}

		switch r := expected.(type) {
		case sun.RiseSet:
			if event.Polar {
				drift.Err = fmt.Errorf("%s: %w", p.Name(), ErrOutcomeMismatch)
				break
			}
			drift.Sunrise = event.Sunrise.Sub(r.SunriseTime())
			drift.Sunset = event.Sunset.Sub(r.SunsetTime())
		case sun.Polar:
			drift.Polar = true
			if !event.Polar || event.AlwaysUp != r.AlwaysAboveHorizon {
				drift.Err = fmt.Errorf("%s: %w", p.Name(), ErrOutcomeMismatch)
			}
		}

		drifts = append(drifts, drift)
	}

	return drifts, nil
}

// solarOffset returns the whole-hour UTC offset of mean solar time at longitude
func solarOffset(longitude float64) int {
	hours := int(math.Round(longitude / 15))
	if hours > 14 {
		hours = 14
	}
	if hours < -12 {
		hours = -12
	}
	return hours
}

// solarZone returns a fixed zone at the solar offset of longitude
func solarZone(longitude float64) *time.Location {
	hours := solarOffset(longitude)
	return time.FixedZone(fmt.Sprintf("UTC%+d", hours), hours*3600)
}

// localNoon returns 12:00 mean solar time on the date of day
func localNoon(day time.Time, longitude float64) time.Time {
	noon := utils.NoonUTC(day)
	return noon.Add(-time.Duration(longitude / 15 * float64(time.Hour)))
}

// checkEvent rejects results that are not a sunrise followed by a sunset
// within a day and a half of local noon. Libraries report polar days with
// NaN or zero times rather than errors.
func checkEvent(noon, rise, set time.Time) error {
	if rise.IsZero() || set.IsZero() {
		return ErrNoEvent
	}
	if !rise.Before(set) {
		return ErrNoEvent
	}
	limit := 36 * time.Hour
	if noon.Sub(rise).Abs() > limit || set.Sub(noon).Abs() > limit {
		return ErrNoEvent
	}
	return nil
}

// Package display renders angles, timestamps and Julian dates as human readable
// strings for debug output. None of it is used by the calculation itself.
package display

import (
	"fmt"
	"math"
	"time"

	"github.com/devskill-org/sunrise/julian"
	"github.com/dustin/go-humanize"
)

// TimeLayout is the layout used for timestamps in debug output
const TimeLayout = "2006-01-02 15:04:05.000000-07:00"

// Formatter formats values for a display timezone. A nil Location means UTC.
type Formatter struct {
	Location *time.Location
}

// NewFormatter creates a formatter for the given timezone name.
// An empty name selects UTC.
func NewFormatter(tz string) (*Formatter, error) {
	if tz == "" {
		return &Formatter{Location: time.UTC}, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", tz, err)
	}
	return &Formatter{Location: loc}, nil
}

// Degrees formats deg as radians, degrees-minutes-seconds and decimal degrees
func (f *Formatter) Degrees(deg float64) string {
	return Degrees(deg)
}

// Timestamp formats Unix seconds in the formatter's timezone
func (f *Formatter) Timestamp(ts float64) string {
	return Timestamp(ts, f.location())
}

// Julian formats a Julian date as "<unix seconds> = <local time>"
func (f *Formatter) Julian(j float64) string {
	return Julian(j, f.location())
}

func (f *Formatter) location() *time.Location {
	if f == nil || f.Location == nil {
		return time.UTC
	}
	return f.Location
}

// Degrees formats deg as "∠<rad>rad = ∠<d>°<m>′<s>″ = ∠<deg>°".
// Arc-seconds are truncated, and the sign is carried on the degree part.
func Degrees(deg float64) string {
	rad := deg * math.Pi / 180
	return fmt.Sprintf("∠%.3frad = %s = ∠%.3f°", rad, DMS(deg), deg)
}

// DMS formats deg as degrees, arc-minutes and arc-seconds
func DMS(deg float64) string {
	total := int64(deg * 3600)
	sign := ""
	if total < 0 {
		sign = "-"
		total = -total
	}
	return fmt.Sprintf("∠%s%d°%d′%d″", sign, total/3600, total/60%60, total%60)
}

// Timestamp formats Unix seconds in loc (UTC when nil)
func Timestamp(ts float64, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return julian.FromSeconds(ts).In(loc).Format(TimeLayout)
}

// Julian formats a Julian date as "<unix seconds> = <time in loc>"
func Julian(j float64, loc *time.Location) string {
	ts := julian.ToTimestamp(j)
	return fmt.Sprintf("%s = %s", formatSeconds(ts), Timestamp(ts, loc))
}

// Hours formats a duration expressed in hours
func Hours(h float64) string {
	return fmt.Sprintf("%.3f hours", h)
}

// Relative describes Unix seconds relative to now, e.g. "3 hours from now"
func Relative(ts float64, now time.Time) string {
	return humanize.RelTime(julian.FromSeconds(ts), now, "ago", "from now")
}

func formatSeconds(ts float64) string {
	return fmt.Sprintf("%.3f", ts)
}
